// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/MKhiriev/go-hook-gate/internal/logger"
	"github.com/MKhiriev/go-hook-gate/models"
	"github.com/go-resty/resty/v2"
)

// Platform API defaults. The version header is required by most
// LeadConnector routes.
const (
	DefaultAPIBaseURL = "https://services.leadconnectorhq.com"
	apiVersionHeader  = "Version"
	apiVersion        = "2021-07-28"
)

// GHLConfig configures the platform client.
type GHLConfig struct {
	// BaseURL overrides the platform API origin, mainly for tests.
	BaseURL string

	// PITToken is the private integration token used for contact deletion.
	PITToken string

	// ClientID and ClientSecret identify the marketplace app for the OAuth
	// token endpoints.
	ClientID     string
	ClientSecret string

	// RedirectURI must match the marketplace app configuration exactly.
	RedirectURI string

	Timeout time.Duration
}

// ghlClient implements [PlatformClient] and [OAuthClient] over REST.
type ghlClient struct {
	client *resty.Client
	cfg    GHLConfig
	logger *logger.Logger
}

// NewGHLClient constructs the platform/OAuth client.
func NewGHLClient(cfg GHLConfig, log *logger.Logger) (*ghlClient, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultAPIBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	baseURL, err := normalizeBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid platform base url: %w", err)
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(cfg.Timeout)

	return &ghlClient{client: client, cfg: cfg, logger: log}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// DeleteContact implements [PlatformClient]. It sends
// DELETE /contacts/{id}?locationId={loc} with the PIT bearer and the
// version header.
func (g *ghlClient) DeleteContact(ctx context.Context, contactID, locationID string) error {
	if g.cfg.PITToken == "" {
		return fmt.Errorf("%w: no PIT token configured", ErrUnauthorized)
	}
	if locationID == "" {
		return fmt.Errorf("%w: no location id configured", ErrBadRequest)
	}

	resp, err := g.client.R().
		SetContext(ctx).
		SetAuthToken(g.cfg.PITToken).
		SetHeader(apiVersionHeader, apiVersion).
		SetQueryParam("locationId", locationID).
		SetPathParam("contactID", contactID).
		Delete("/contacts/{contactID}")
	if err != nil {
		return fmt.Errorf("delete contact request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return err
	}

	g.logger.Info().Str("contact_id", contactID).Msg("contact deleted")
	return nil
}

// tokenResponse is the wire shape of the /oauth/token and
// /oauth/locationToken responses. The platform has used both camelCase and
// snake_case for the user-type field over time, so both are read.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	RefreshToken string `json:"refresh_token"`
	Scope        string `json:"scope"`
	ExpiresIn    int64  `json:"expires_in"`
	UserType     string `json:"userType"`
	UserTypeAlt  string `json:"user_type"`
	CompanyID    string `json:"companyId"`
	LocationID   string `json:"locationId"`
}

func (t tokenResponse) bundle(now time.Time) models.TokenBundle {
	userType := t.UserType
	if userType == "" {
		userType = t.UserTypeAlt
	}

	tokenType := t.TokenType
	if tokenType == "" {
		tokenType = "Bearer"
	}

	var expiresAt string
	if t.ExpiresIn > 0 {
		expiresAt = now.UTC().Add(time.Duration(t.ExpiresIn) * time.Second).Format(time.RFC3339)
	}

	return models.TokenBundle{
		AccessToken:  t.AccessToken,
		TokenType:    tokenType,
		RefreshToken: t.RefreshToken,
		Scope:        t.Scope,
		UserType:     userType,
		ExpiresAt:    expiresAt,
		CompanyID:    t.CompanyID,
		LocationID:   t.LocationID,
	}
}

// ExchangeCode implements [OAuthClient]. The token endpoint takes a
// form-encoded body; user_type=Location matches the chooselocation
// authorize flow.
func (g *ghlClient) ExchangeCode(ctx context.Context, code string) (models.TokenBundle, error) {
	return g.tokenGrant(ctx, map[string]string{
		"grant_type":    "authorization_code",
		"code":          code,
		"redirect_uri":  g.cfg.RedirectURI,
		"client_id":     g.cfg.ClientID,
		"client_secret": g.cfg.ClientSecret,
		"user_type":     "Location",
	})
}

// Refresh implements [OAuthClient].
func (g *ghlClient) Refresh(ctx context.Context, refreshToken string) (models.TokenBundle, error) {
	return g.tokenGrant(ctx, map[string]string{
		"grant_type":    "refresh_token",
		"refresh_token": refreshToken,
		"client_id":     g.cfg.ClientID,
		"client_secret": g.cfg.ClientSecret,
	})
}

func (g *ghlClient) tokenGrant(ctx context.Context, form map[string]string) (models.TokenBundle, error) {
	resp, err := g.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/x-www-form-urlencoded").
		SetFormData(form).
		Post("/oauth/token")
	if err != nil {
		return models.TokenBundle{}, fmt.Errorf("token request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.TokenBundle{}, err
	}

	var payload tokenResponse
	if err = json.Unmarshal(resp.Body(), &payload); err != nil {
		return models.TokenBundle{}, fmt.Errorf("decode token response: %w", err)
	}

	return payload.bundle(time.Now()), nil
}

// LocationToken implements [OAuthClient]. Unlike the token grant this
// endpoint takes JSON and requires an agency bearer plus the version
// header.
func (g *ghlClient) LocationToken(ctx context.Context, agencyToken, companyID, locationID string) (models.TokenBundle, error) {
	resp, err := g.client.R().
		SetContext(ctx).
		SetAuthToken(agencyToken).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetHeader(apiVersionHeader, apiVersion).
		SetBody(map[string]string{"companyId": companyID, "locationId": locationID}).
		Post("/oauth/locationToken")
	if err != nil {
		return models.TokenBundle{}, fmt.Errorf("location token request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.TokenBundle{}, err
	}

	var payload tokenResponse
	if err = json.Unmarshal(resp.Body(), &payload); err != nil {
		return models.TokenBundle{}, fmt.Errorf("decode location token response: %w", err)
	}

	return payload.bundle(time.Now()), nil
}
