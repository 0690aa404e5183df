// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the outbound HTTP clients the gateway talks
// through: the GoHighLevel platform API (contact deletion, OAuth token
// endpoints) and an OpenAI-compatible chat-completions API used by the
// spam detector's second pass.
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic
// error handling (e.g. [ErrUnauthorized] for 401, [ErrNotFound] for 404).
package adapter

import (
	"context"

	"github.com/MKhiriev/go-hook-gate/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/adapter_mock.go -package=mock

// PlatformClient is the GoHighLevel platform API surface the gateway uses.
type PlatformClient interface {
	// DeleteContact removes a contact from the given location. The PIT
	// bearer token requires the location id as a query parameter.
	DeleteContact(ctx context.Context, contactID, locationID string) error
}

// OAuthClient performs the marketplace token exchanges used by the client
// binary.
type OAuthClient interface {
	// ExchangeCode swaps an authorization code for a token bundle.
	ExchangeCode(ctx context.Context, code string) (models.TokenBundle, error)

	// LocationToken mints a sub-account token from an agency bearer.
	LocationToken(ctx context.Context, agencyToken, companyID, locationID string) (models.TokenBundle, error)

	// Refresh swaps a refresh token for a fresh bundle.
	Refresh(ctx context.Context, refreshToken string) (models.TokenBundle, error)
}

// ChatCompleter is the second-pass classification surface: one JSON-mode
// chat completion per ambiguous email.
type ChatCompleter interface {
	// Complete sends system and user prompts and returns the raw assistant
	// message content, expected to be a JSON document.
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}
