// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"strings"
)

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup. Specifier and header
// lists are normalized in place so downstream consumers never see padding
// from comma-separated sources.
func (cfg *StructuredConfig) validate() error {
	cfg.Webhook.Handlers = trimAll(cfg.Webhook.Handlers)
	cfg.Idempotency.Headers = trimAll(cfg.Idempotency.Headers)

	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("%w: port %d", ErrInvalidServerConfigs, cfg.Server.Port)
	}

	switch cfg.Webhook.SignatureAlgo {
	case "sha256", "sha1":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidSignatureAlgo, cfg.Webhook.SignatureAlgo)
	}

	switch cfg.Journal.Driver {
	case "off", "sqlite":
	case "postgres":
		if cfg.Journal.DSN == "" {
			return fmt.Errorf("%w: postgres driver requires a DSN", ErrInvalidJournalConfigs)
		}
	default:
		return fmt.Errorf("%w: driver %q", ErrInvalidJournalConfigs, cfg.Journal.Driver)
	}

	return nil
}

func trimAll(values []string) []string {
	out := values[:0]
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func (cfg *ClientConfig) validate() error {
	if cfg.OAuth.ClientID == "" || cfg.OAuth.ClientSecret == "" {
		return fmt.Errorf("%w: client id and secret are required", ErrInvalidOAuthConfigs)
	}
	if cfg.OAuth.RedirectURI == "" {
		return fmt.Errorf("%w: redirect uri is required", ErrInvalidOAuthConfigs)
	}

	return nil
}
