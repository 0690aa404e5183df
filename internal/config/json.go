package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] for the JSON file source.
// Durations are accepted as strings ("10m") or nanosecond numbers.
type StructuredJSONConfig struct {
	Server struct {
		Port int `json:"port"`
	} `json:"server,omitempty"`

	Webhook struct {
		Handlers        []string `json:"handlers"`
		Secret          string   `json:"secret"`
		SignatureHeader string   `json:"signature_header"`
		SignatureAlgo   string   `json:"signature_algo"`
		RoutesConfig    string   `json:"routes_config"`
	} `json:"webhook,omitempty"`

	Idempotency struct {
		Enabled      *bool    `json:"enabled"`
		TTL          Duration `json:"ttl"`
		Headers      []string `json:"headers"`
		SweepPeriod  Duration `json:"sweep_period"`
	} `json:"idempotency,omitempty"`

	Journal struct {
		Driver     string `json:"driver"`
		DSN        string `json:"dsn"`
		SQLitePath string `json:"sqlite_path"`
	} `json:"journal,omitempty"`

	Metrics struct {
		Enabled *bool `json:"enabled"`
	} `json:"metrics,omitempty"`

	Spam struct {
		Enabled       *bool  `json:"enabled"`
		DataDir       string `json:"data_dir"`
		OpenAIAPIKey  string `json:"openai_api_key"`
		OpenAIModel   string `json:"openai_model"`
		OpenAIBaseURL string `json:"openai_base_url"`
	} `json:"spam,omitempty"`

	GHL struct {
		PITToken     string `json:"pit_token"`
		LocationID   string `json:"location_id"`
		ClientID     string `json:"client_id"`
		ClientSecret string `json:"client_secret"`
		RedirectURI  string `json:"redirect_uri"`
		Scopes       string `json:"scopes"`
		BaseURL      string `json:"base_url"`
	} `json:"ghl,omitempty"`

	Vault struct {
		Passphrase string `json:"passphrase"`
	} `json:"vault,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		Server: Server{
			Port: jsonCfg.Server.Port,
		},
		Webhook: Webhook{
			Handlers:        jsonCfg.Webhook.Handlers,
			Secret:          jsonCfg.Webhook.Secret,
			SignatureHeader: jsonCfg.Webhook.SignatureHeader,
			SignatureAlgo:   jsonCfg.Webhook.SignatureAlgo,
			RoutesConfig:    jsonCfg.Webhook.RoutesConfig,
		},
		Idempotency: Idempotency{
			Enabled:      jsonCfg.Idempotency.Enabled,
			TTLSeconds:   int(time.Duration(jsonCfg.Idempotency.TTL).Seconds()),
			Headers:      jsonCfg.Idempotency.Headers,
			SweepSeconds: int(time.Duration(jsonCfg.Idempotency.SweepPeriod).Seconds()),
		},
		Journal: Journal{
			Driver:     jsonCfg.Journal.Driver,
			DSN:        jsonCfg.Journal.DSN,
			SQLitePath: jsonCfg.Journal.SQLitePath,
		},
		Metrics: Metrics{
			Enabled: jsonCfg.Metrics.Enabled,
		},
		Spam: Spam{
			Enabled:       jsonCfg.Spam.Enabled,
			DataDir:       jsonCfg.Spam.DataDir,
			OpenAIAPIKey:  jsonCfg.Spam.OpenAIAPIKey,
			OpenAIModel:   jsonCfg.Spam.OpenAIModel,
			OpenAIBaseURL: jsonCfg.Spam.OpenAIBaseURL,
		},
		GHL: GHL{
			PITToken:     jsonCfg.GHL.PITToken,
			LocationID:   jsonCfg.GHL.LocationID,
			ClientID:     jsonCfg.GHL.ClientID,
			ClientSecret: jsonCfg.GHL.ClientSecret,
			RedirectURI:  jsonCfg.GHL.RedirectURI,
			Scopes:       jsonCfg.GHL.Scopes,
			BaseURL:      jsonCfg.GHL.BaseURL,
		},
		Vault: Vault{
			Passphrase: jsonCfg.Vault.Passphrase,
		},
		JSONFilePath: "",
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
