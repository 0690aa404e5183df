// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package oauth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/MKhiriev/go-hook-gate/internal/crypto"
	"github.com/MKhiriev/go-hook-gate/models"
)

// Default token file locations, matching what earlier tooling used.
const (
	DefaultTokenDir   = "data"
	AgencyTokenFile   = "agency_token.json"
	LocationTokenFile = "location_token.json"
)

// ErrNoStoredToken is returned by the load methods when the token file does
// not exist yet.
var ErrNoStoredToken = errors.New("no stored token bundle")

// sealedDocument is the on-disk envelope used when a vault passphrase is
// configured. Its single field makes sealed and plaintext files trivially
// distinguishable.
type sealedDocument struct {
	Vault string `json:"vault"`
}

// TokenStore persists token bundles under a directory. With a passphrase
// configured, bundles are sealed through the vault before they touch disk;
// otherwise they are stored as plain JSON for compatibility with bundles
// written by earlier tooling.
type TokenStore struct {
	dir        string
	vault      crypto.VaultService
	passphrase string
}

// NewTokenStore builds a store rooted at dir (empty means
// [DefaultTokenDir]). An empty passphrase keeps files plaintext.
func NewTokenStore(dir, passphrase string) *TokenStore {
	if dir == "" {
		dir = DefaultTokenDir
	}
	return &TokenStore{
		dir:        dir,
		vault:      crypto.NewVaultService(),
		passphrase: passphrase,
	}
}

// Sealed reports whether bundles are sealed at rest.
func (s *TokenStore) Sealed() bool { return s.passphrase != "" }

// AgencyPath returns the agency bundle's file path.
func (s *TokenStore) AgencyPath() string { return filepath.Join(s.dir, AgencyTokenFile) }

// LocationPath returns the location bundle's file path.
func (s *TokenStore) LocationPath() string { return filepath.Join(s.dir, LocationTokenFile) }

// SaveAgency persists the agency bundle.
func (s *TokenStore) SaveAgency(bundle models.TokenBundle) error {
	return s.save(s.AgencyPath(), bundle)
}

// SaveLocation persists the location bundle.
func (s *TokenStore) SaveLocation(bundle models.TokenBundle) error {
	return s.save(s.LocationPath(), bundle)
}

// LoadAgency loads the agency bundle, unsealing it when needed.
func (s *TokenStore) LoadAgency() (models.TokenBundle, error) {
	return s.load(s.AgencyPath())
}

// LoadLocation loads the location bundle, unsealing it when needed.
func (s *TokenStore) LoadLocation() (models.TokenBundle, error) {
	return s.load(s.LocationPath())
}

func (s *TokenStore) save(path string, bundle models.TokenBundle) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}

	var data []byte
	if s.Sealed() {
		sealed, err := s.vault.Seal(bundle, s.passphrase)
		if err != nil {
			return fmt.Errorf("seal token bundle: %w", err)
		}
		data, err = json.MarshalIndent(sealedDocument{Vault: sealed}, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal sealed document: %w", err)
		}
	} else {
		var err error
		data, err = json.MarshalIndent(bundle, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal token bundle: %w", err)
		}
	}

	// tokens are credentials, keep them owner-readable only
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}

	return nil
}

func (s *TokenStore) load(path string) (models.TokenBundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return models.TokenBundle{}, ErrNoStoredToken
		}
		return models.TokenBundle{}, fmt.Errorf("read token file: %w", err)
	}

	var sealed sealedDocument
	if err := json.Unmarshal(data, &sealed); err == nil && sealed.Vault != "" {
		if !s.Sealed() {
			return models.TokenBundle{}, fmt.Errorf("token file %s is sealed but no passphrase is configured", path)
		}
		var bundle models.TokenBundle
		if err := s.vault.Open(sealed.Vault, s.passphrase, &bundle); err != nil {
			return models.TokenBundle{}, fmt.Errorf("unseal token bundle: %w", err)
		}
		return bundle, nil
	}

	var bundle models.TokenBundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return models.TokenBundle{}, fmt.Errorf("decode token bundle: %w", err)
	}

	return bundle, nil
}
