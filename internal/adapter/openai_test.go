package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MKhiriev/go-hook-gate/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOpenAITestClient(t *testing.T, handler http.HandlerFunc) *openAIClient {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewOpenAIClient(OpenAIConfig{APIKey: "sk-test", BaseURL: srv.URL}, logger.Nop())
	require.NoError(t, err)
	return client
}

func TestNewOpenAIClient_RequiresAPIKey(t *testing.T) {
	_, err := NewOpenAIClient(OpenAIConfig{}, logger.Nop())
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestOpenAIClient_Complete(t *testing.T) {
	client := newOpenAITestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, DefaultOpenAIModel, req.Model)
		assert.Equal(t, completionTemperature, req.Temperature)
		assert.Equal(t, "json_object", req.ResponseFormat.Type)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "user", req.Messages[1].Role)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": `{"is_spam": true, "confidence": 0.9}`}},
			},
		})
	})

	content, err := client.Complete(context.Background(), "you are a spam classifier", "classify this")
	require.NoError(t, err)
	assert.JSONEq(t, `{"is_spam": true, "confidence": 0.9}`, content)
}

func TestOpenAIClient_CompleteNoChoices(t *testing.T) {
	client := newOpenAITestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices": []}`))
	})

	_, err := client.Complete(context.Background(), "sys", "user")
	assert.ErrorContains(t, err, "no choices")
}

func TestOpenAIClient_CompleteMapsRateLimit(t *testing.T) {
	client := newOpenAITestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	})

	_, err := client.Complete(context.Background(), "sys", "user")
	assert.ErrorIs(t, err, ErrTooManyRequests)
}
