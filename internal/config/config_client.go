// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
)

// ClientOAuth holds the OAuth application settings used by the
// authorization CLI.
type ClientOAuth struct {
	// ClientID and ClientSecret identify the OAuth application.
	ClientID     string
	ClientSecret string
	// RedirectURI is the loopback callback address for the code exchange.
	RedirectURI string
	// Scopes is the space-separated scope list to request.
	Scopes string
	// BaseURL overrides the platform endpoint, mainly for tests.
	BaseURL string
}

// ClientVault holds the token sealing settings for the CLI.
type ClientVault struct {
	// Passphrase seals stored token bundles; empty stores plaintext JSON.
	Passphrase string
}

// ClientConfig is the top-level CLI configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	// OAuth contains the OAuth application settings.
	OAuth ClientOAuth
	// Vault contains token sealing settings.
	Vault ClientVault
	// LocationID is the default location for location-token requests.
	LocationID string
}

// GetClientConfig builds and validates a CLI-specific config view from the
// merged structured configuration.
//
// It loads the base config via [GetStructuredConfig], maps only the fields
// relevant to the CLI runtime, and validates the resulting [ClientConfig].
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := &ClientConfig{
		OAuth: ClientOAuth{
			ClientID:     cfg.GHL.ClientID,
			ClientSecret: cfg.GHL.ClientSecret,
			RedirectURI:  cfg.GHL.RedirectURI,
			Scopes:       cfg.GHL.Scopes,
			BaseURL:      cfg.GHL.BaseURL,
		},
		Vault: ClientVault{
			Passphrase: cfg.Vault.Passphrase,
		},
		LocationID: cfg.GHL.LocationID,
	}

	return clientCfg, clientCfg.validate()
}
