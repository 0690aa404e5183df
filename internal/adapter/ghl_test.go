// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MKhiriev/go-hook-gate/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGHLTestClient(t *testing.T, handler http.HandlerFunc, cfg GHLConfig) *ghlClient {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg.BaseURL = srv.URL
	client, err := NewGHLClient(cfg, logger.Nop())
	require.NoError(t, err)
	return client
}

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "plain host gets https", raw: "services.leadconnectorhq.com", want: "https://services.leadconnectorhq.com"},
		{name: "trailing slash trimmed", raw: "https://api.example.com/", want: "https://api.example.com"},
		{name: "explicit http kept", raw: "http://localhost:9999", want: "http://localhost:9999"},
		{name: "empty rejected", raw: "  ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeBaseURL(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGHLClient_DeleteContact(t *testing.T) {
	var gotReq *http.Request
	client := newGHLTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotReq = r.Clone(context.Background())
		w.WriteHeader(http.StatusOK)
	}, GHLConfig{PITToken: "pit-token", Timeout: time.Second})

	err := client.DeleteContact(context.Background(), "contact-1", "loc-1")
	require.NoError(t, err)

	require.NotNil(t, gotReq)
	assert.Equal(t, http.MethodDelete, gotReq.Method)
	assert.Equal(t, "/contacts/contact-1", gotReq.URL.Path)
	assert.Equal(t, "loc-1", gotReq.URL.Query().Get("locationId"))
	assert.Equal(t, "Bearer pit-token", gotReq.Header.Get("Authorization"))
	assert.Equal(t, apiVersion, gotReq.Header.Get(apiVersionHeader))
}

func TestGHLClient_DeleteContactWithoutPITToken(t *testing.T) {
	client := newGHLTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected without a PIT token")
	}, GHLConfig{})

	err := client.DeleteContact(context.Background(), "contact-1", "loc-1")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestGHLClient_DeleteContactMapsUpstreamError(t *testing.T) {
	client := newGHLTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "contact not found", http.StatusNotFound)
	}, GHLConfig{PITToken: "pit-token"})

	err := client.DeleteContact(context.Background(), "missing", "loc-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGHLClient_ExchangeCode(t *testing.T) {
	client := newGHLTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "/oauth/token", r.URL.Path)
		assert.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))
		assert.Equal(t, "auth-code", r.PostForm.Get("code"))
		assert.Equal(t, "client-1", r.PostForm.Get("client_id"))
		assert.Equal(t, "Location", r.PostForm.Get("user_type"))
		assert.Equal(t, "http://localhost:8080/oauth/callback", r.PostForm.Get("redirect_uri"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "acc",
			"refresh_token": "ref",
			"scope":         "contacts.readonly",
			"expires_in":    86400,
			"userType":      "Company",
			"companyId":     "comp-1",
		})
	}, GHLConfig{
		ClientID:     "client-1",
		ClientSecret: "secret",
		RedirectURI:  "http://localhost:8080/oauth/callback",
	})

	bundle, err := client.ExchangeCode(context.Background(), "auth-code")
	require.NoError(t, err)

	assert.Equal(t, "acc", bundle.AccessToken)
	assert.Equal(t, "Bearer", bundle.TokenType, "missing token_type defaults to Bearer")
	assert.Equal(t, "ref", bundle.RefreshToken)
	assert.Equal(t, "Company", bundle.UserType)
	assert.True(t, bundle.IsAgency())
	assert.Equal(t, "comp-1", bundle.CompanyID)

	expiry, ok := bundle.Expiry()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), expiry, time.Minute)
}

func TestGHLClient_Refresh(t *testing.T) {
	client := newGHLTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.PostForm.Get("grant_type"))
		assert.Equal(t, "old-refresh", r.PostForm.Get("refresh_token"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "new-acc", "refresh_token": "new-ref", "expires_in": 3600,
		})
	}, GHLConfig{ClientID: "client-1", ClientSecret: "secret"})

	bundle, err := client.Refresh(context.Background(), "old-refresh")
	require.NoError(t, err)
	assert.Equal(t, "new-acc", bundle.AccessToken)
	assert.Equal(t, "new-ref", bundle.RefreshToken)
}

func TestGHLClient_LocationToken(t *testing.T) {
	client := newGHLTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/oauth/locationToken", r.URL.Path)
		assert.Equal(t, "Bearer agency-token", r.Header.Get("Authorization"))
		assert.Equal(t, apiVersion, r.Header.Get(apiVersionHeader))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "comp-1", body["companyId"])
		assert.Equal(t, "loc-1", body["locationId"])

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "loc-acc", "user_type": "Location", "locationId": "loc-1", "expires_in": 3600,
		})
	}, GHLConfig{})

	bundle, err := client.LocationToken(context.Background(), "agency-token", "comp-1", "loc-1")
	require.NoError(t, err)

	assert.Equal(t, "loc-acc", bundle.AccessToken)
	assert.Equal(t, "Location", bundle.UserType, "snake_case user_type is read too")
	assert.Equal(t, "loc-1", bundle.LocationID)
	assert.False(t, bundle.IsAgency())
}

func TestGHLClient_TokenGrantMapsUnauthorized(t *testing.T) {
	client := newGHLTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid client credentials", http.StatusUnauthorized)
	}, GHLConfig{ClientID: "bad", ClientSecret: "bad"})

	_, err := client.ExchangeCode(context.Background(), "code")
	assert.ErrorIs(t, err, ErrUnauthorized)
}
