package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJSON(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseJSON_FullConfig(t *testing.T) {
	path := writeJSON(t, `{
		"server": {"port": 8090},
		"webhook": {
			"handlers": ["events.invoices", "ops.health"],
			"secret": "json-secret",
			"signature_algo": "sha256"
		},
		"idempotency": {"enabled": false, "ttl": "10m", "headers": ["X-Event-Id"]},
		"journal": {"driver": "postgres", "dsn": "postgres://localhost/hookgate"},
		"spam": {"data_dir": "/srv/spam", "openai_model": "gpt-4o-mini"},
		"ghl": {"pit_token": "pit", "location_id": "loc"},
		"vault": {"passphrase": "pw"}
	}`)

	cfg, err := parseJSON(path)
	require.NoError(t, err)

	assert.Equal(t, 8090, cfg.Server.Port)
	assert.Equal(t, []string{"events.invoices", "ops.health"}, cfg.Webhook.Handlers)
	assert.Equal(t, "json-secret", cfg.Webhook.Secret)
	require.NotNil(t, cfg.Idempotency.Enabled)
	assert.False(t, *cfg.Idempotency.Enabled)
	assert.Equal(t, 600, cfg.Idempotency.TTLSeconds)
	assert.Equal(t, "postgres", cfg.Journal.Driver)
	assert.Equal(t, "/srv/spam", cfg.Spam.DataDir)
	assert.Equal(t, "pit", cfg.GHL.PITToken)
	assert.Equal(t, "pw", cfg.Vault.Passphrase)
}

func TestParseJSON_MissingFile(t *testing.T) {
	_, err := parseJSON("/nonexistent/config.json")
	assert.Error(t, err)
}

func TestParseJSON_MalformedFile(t *testing.T) {
	path := writeJSON(t, "{not json")
	_, err := parseJSON(path)
	assert.Error(t, err)
}

func TestDuration_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Duration
		wantErr bool
	}{
		{`"1h"`, time.Hour, false},
		{`"30s"`, 30 * time.Second, false},
		{`60000000000`, time.Minute, false},
		{`"bogus"`, 0, true},
	}

	for _, tt := range tests {
		var d Duration
		err := json.Unmarshal([]byte(tt.input), &d)
		if tt.wantErr {
			assert.Error(t, err, "input %s", tt.input)
			continue
		}
		require.NoError(t, err, "input %s", tt.input)
		assert.Equal(t, tt.want, time.Duration(d))
	}
}

func TestDuration_MarshalJSON(t *testing.T) {
	out, err := json.Marshal(Duration(90 * time.Second))
	require.NoError(t, err)
	assert.Equal(t, `"1m30s"`, string(out))
}
