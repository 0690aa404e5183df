// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package oauth

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-hook-gate/internal/adapter"
	"github.com/MKhiriev/go-hook-gate/internal/logger"
	"github.com/MKhiriev/go-hook-gate/internal/utils"
	"github.com/MKhiriev/go-hook-gate/models"
)

// RefreshWindow is how close to expiry a bundle may get before EnsureFresh
// swaps it for a new one.
const RefreshWindow = 5 * time.Minute

// Flow orchestrates the authorization steps around the marketplace client:
// code exchange, location token minting, and refresh, persisting every
// bundle it obtains.
type Flow struct {
	oauth  adapter.OAuthClient
	store  *TokenStore
	logger *logger.Logger
}

// NewFlow wires the flow.
func NewFlow(oauth adapter.OAuthClient, store *TokenStore, logger *logger.Logger) *Flow {
	return &Flow{oauth: oauth, store: store, logger: logger}
}

// Store exposes the underlying token store.
func (f *Flow) Store() *TokenStore { return f.store }

// ExchangeCode swaps an authorization code for an agency bundle and saves
// it.
func (f *Flow) ExchangeCode(ctx context.Context, code string) (models.TokenBundle, error) {
	bundle, err := f.oauth.ExchangeCode(ctx, code)
	if err != nil {
		return models.TokenBundle{}, fmt.Errorf("exchange code: %w", err)
	}

	if err := f.store.SaveAgency(bundle); err != nil {
		return models.TokenBundle{}, err
	}

	f.logger.Info().
		Str("user_type", bundle.UserType).
		Str("company_id", bundle.CompanyID).
		Str("path", f.store.AgencyPath()).
		Msg("agency token saved")

	return bundle, nil
}

// MintLocationToken exchanges the agency bundle for a sub-account token and
// saves it. The locationToken endpoint only accepts agency (Company)
// bearers.
func (f *Flow) MintLocationToken(ctx context.Context, agency models.TokenBundle, companyID, locationID string) (models.TokenBundle, error) {
	if !agency.IsAgency() {
		return models.TokenBundle{}, fmt.Errorf("location token requires an agency bearer, got user_type %q", agency.UserType)
	}
	if companyID == "" {
		companyID = agency.CompanyID
	}
	if companyID == "" {
		return models.TokenBundle{}, fmt.Errorf("location token requires a company id")
	}

	bundle, err := f.oauth.LocationToken(ctx, agency.AccessToken, companyID, locationID)
	if err != nil {
		return models.TokenBundle{}, fmt.Errorf("mint location token: %w", err)
	}

	if err := f.store.SaveLocation(bundle); err != nil {
		return models.TokenBundle{}, err
	}

	f.logger.Info().
		Str("location_id", bundle.LocationID).
		Str("path", f.store.LocationPath()).
		Msg("location token saved")

	return bundle, nil
}

// EnsureFresh returns the bundle unchanged while it has comfortably more
// than [RefreshWindow] left, and otherwise refreshes and persists it. The
// stored expires_at is preferred; bundles without one fall back to the
// access token's own exp claim.
func (f *Flow) EnsureFresh(ctx context.Context, bundle models.TokenBundle) (models.TokenBundle, error) {
	if !f.needsRefresh(bundle) {
		return bundle, nil
	}

	if bundle.RefreshToken == "" {
		return models.TokenBundle{}, fmt.Errorf("token expires soon and no refresh token is stored; re-run the authorization flow")
	}

	fresh, err := f.oauth.Refresh(ctx, bundle.RefreshToken)
	if err != nil {
		return models.TokenBundle{}, fmt.Errorf("refresh token: %w", err)
	}

	// a refresh response may omit fields the old bundle carried
	if fresh.RefreshToken == "" {
		fresh.RefreshToken = bundle.RefreshToken
	}
	if fresh.CompanyID == "" {
		fresh.CompanyID = bundle.CompanyID
	}
	if fresh.LocationID == "" {
		fresh.LocationID = bundle.LocationID
	}

	if err := f.store.SaveAgency(fresh); err != nil {
		return models.TokenBundle{}, err
	}

	f.logger.Info().Msg("token bundle refreshed")
	return fresh, nil
}

func (f *Flow) needsRefresh(bundle models.TokenBundle) bool {
	if _, ok := bundle.Expiry(); ok {
		return bundle.ExpiresWithin(RefreshWindow)
	}

	expiry, err := utils.TokenExpiry(bundle.AccessToken)
	if err != nil {
		// no way to tell, force a refresh attempt
		return true
	}
	return time.Until(expiry) < RefreshWindow
}
