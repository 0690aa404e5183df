package oauth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/MKhiriev/go-hook-gate/internal/logger"
	"github.com/MKhiriev/go-hook-gate/internal/mock"
	"github.com/MKhiriev/go-hook-gate/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestNewState(t *testing.T) {
	first, err := NewState()
	require.NoError(t, err)
	second, err := NewState()
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.GreaterOrEqual(t, len(first), 42, "32 random bytes url-safe encoded")
	assert.NotContains(t, first, "=")
}

func TestAuthorizeURL(t *testing.T) {
	raw := AuthorizeURL("", "client-1", "http://localhost:8080/oauth/callback", "state-1", nil)

	u, err := url.Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, "marketplace.gohighlevel.com", u.Host)
	assert.Equal(t, "/oauth/chooselocation", u.Path)

	q := u.Query()
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "client-1", q.Get("client_id"))
	assert.Equal(t, "http://localhost:8080/oauth/callback", q.Get("redirect_uri"))
	assert.Equal(t, "state-1", q.Get("state"))
	assert.Equal(t, strings.Join(DefaultScopes, " "), q.Get("scope"))
}

func TestAuthorizeURL_CustomScopes(t *testing.T) {
	raw := AuthorizeURL("https://example.com", "c", "r", "s", []string{"contacts.readonly"})

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "example.com", u.Host)
	assert.Equal(t, "contacts.readonly", u.Query().Get("scope"))
}

func TestSplitScopes(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, SplitScopes(" a  b "))
	assert.Nil(t, SplitScopes(""))
}

func TestCallbackServer_DeliversCode(t *testing.T) {
	srv, err := NewCallbackServer("http://127.0.0.1:0/oauth/callback", "expected-state", logger.Nop())
	require.NoError(t, err)

	// an ephemeral port needs to be discovered after binding, so the
	// handler is driven directly here instead of over a socket
	rec := httptest.NewRecorder()
	srv.handle(rec, httptest.NewRequest(http.MethodGet, "/oauth/callback?state=expected-state&code=auth-code-1", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Authorization complete")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	code, err := srv.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, "auth-code-1", code)
}

func TestCallbackServer_RejectsWrongState(t *testing.T) {
	srv, err := NewCallbackServer("http://127.0.0.1:0/oauth/callback", "expected-state", logger.Nop())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	srv.handle(rec, httptest.NewRequest(http.MethodGet, "/oauth/callback?state=forged&code=auth-code-1", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// the server keeps waiting after a forged callback
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = srv.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCallbackServer_ProviderError(t *testing.T) {
	srv, err := NewCallbackServer("http://127.0.0.1:0/oauth/callback", "s", logger.Nop())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	srv.handle(rec, httptest.NewRequest(http.MethodGet, "/oauth/callback?state=s&error=access_denied&error_description=user+cancelled", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err = srv.Wait(ctx)
	assert.ErrorContains(t, err, "access_denied")
}

func TestCallbackServer_MissingCodeKeepsWaiting(t *testing.T) {
	srv, err := NewCallbackServer("http://127.0.0.1:0/oauth/callback", "s", logger.Nop())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	srv.handle(rec, httptest.NewRequest(http.MethodGet, "/oauth/callback?state=s", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = srv.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewCallbackServer_BadRedirectURI(t *testing.T) {
	_, err := NewCallbackServer("not a uri", "s", logger.Nop())
	assert.Error(t, err)
}

func TestTokenStore_PlaintextRoundTrip(t *testing.T) {
	store := NewTokenStore(t.TempDir(), "")
	in := models.TokenBundle{AccessToken: "at", UserType: "Company", CompanyID: "co-1"}

	require.NoError(t, store.SaveAgency(in))

	out, err := store.LoadAgency()
	require.NoError(t, err)
	assert.Equal(t, in, out)
	assert.False(t, store.Sealed())
}

func TestTokenStore_SealedRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := NewTokenStore(dir, "passphrase")
	in := models.TokenBundle{AccessToken: "at", LocationID: "loc-1"}

	require.NoError(t, store.SaveLocation(in))

	out, err := store.LoadLocation()
	require.NoError(t, err)
	assert.Equal(t, in, out)

	// the sealed file must not leak the token in plaintext
	rawBytes, err := os.ReadFile(store.LocationPath())
	require.NoError(t, err)
	raw := string(rawBytes)
	assert.NotContains(t, raw, `"access_token"`)
	assert.Contains(t, raw, `"vault"`)

	// loading without the passphrase is an explicit error
	_, err = NewTokenStore(dir, "").LoadLocation()
	assert.ErrorContains(t, err, "sealed")
}

func TestTokenStore_Missing(t *testing.T) {
	store := NewTokenStore(t.TempDir(), "")
	_, err := store.LoadAgency()
	assert.ErrorIs(t, err, ErrNoStoredToken)
}

func TestFlow_ExchangeCode(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewMockOAuthClient(ctrl)

	bundle := models.TokenBundle{AccessToken: "at", UserType: "Company", CompanyID: "co-1"}
	client.EXPECT().ExchangeCode(gomock.Any(), "code-1").Return(bundle, nil)

	store := NewTokenStore(t.TempDir(), "")
	flow := NewFlow(client, store, logger.Nop())

	got, err := flow.ExchangeCode(context.Background(), "code-1")
	require.NoError(t, err)
	assert.Equal(t, bundle, got)

	saved, err := store.LoadAgency()
	require.NoError(t, err)
	assert.Equal(t, bundle, saved)
}

func TestFlow_MintLocationToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewMockOAuthClient(ctrl)

	agency := models.TokenBundle{AccessToken: "agency-at", UserType: "Company", CompanyID: "co-1"}
	location := models.TokenBundle{AccessToken: "loc-at", LocationID: "loc-1"}
	client.EXPECT().
		LocationToken(gomock.Any(), "agency-at", "co-1", "loc-1").
		Return(location, nil)

	store := NewTokenStore(t.TempDir(), "")
	flow := NewFlow(client, store, logger.Nop())

	got, err := flow.MintLocationToken(context.Background(), agency, "", "loc-1")
	require.NoError(t, err)
	assert.Equal(t, location, got)

	saved, err := store.LoadLocation()
	require.NoError(t, err)
	assert.Equal(t, location, saved)
}

func TestFlow_MintLocationToken_RequiresAgencyBearer(t *testing.T) {
	ctrl := gomock.NewController(t)
	flow := NewFlow(mock.NewMockOAuthClient(ctrl), NewTokenStore(t.TempDir(), ""), logger.Nop())

	_, err := flow.MintLocationToken(context.Background(), models.TokenBundle{UserType: "Location"}, "co-1", "loc-1")
	assert.ErrorContains(t, err, "agency bearer")
}

func TestFlow_EnsureFresh_StillValid(t *testing.T) {
	ctrl := gomock.NewController(t)
	flow := NewFlow(mock.NewMockOAuthClient(ctrl), NewTokenStore(t.TempDir(), ""), logger.Nop())

	bundle := models.TokenBundle{
		AccessToken: "at",
		ExpiresAt:   time.Now().Add(time.Hour).Format(time.RFC3339),
	}

	got, err := flow.EnsureFresh(context.Background(), bundle)
	require.NoError(t, err)
	assert.Equal(t, bundle, got)
}

func TestFlow_EnsureFresh_Refreshes(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewMockOAuthClient(ctrl)

	stale := models.TokenBundle{
		AccessToken:  "old-at",
		RefreshToken: "rt-1",
		CompanyID:    "co-1",
		ExpiresAt:    time.Now().Add(time.Minute).Format(time.RFC3339),
	}
	fresh := models.TokenBundle{AccessToken: "new-at"}
	client.EXPECT().Refresh(gomock.Any(), "rt-1").Return(fresh, nil)

	store := NewTokenStore(t.TempDir(), "")
	flow := NewFlow(client, store, logger.Nop())

	got, err := flow.EnsureFresh(context.Background(), stale)
	require.NoError(t, err)

	assert.Equal(t, "new-at", got.AccessToken)
	assert.Equal(t, "rt-1", got.RefreshToken, "carried over when the response omits it")
	assert.Equal(t, "co-1", got.CompanyID)

	saved, err := store.LoadAgency()
	require.NoError(t, err)
	assert.Equal(t, got, saved)
}

func TestFlow_EnsureFresh_NoRefreshToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	flow := NewFlow(mock.NewMockOAuthClient(ctrl), NewTokenStore(t.TempDir(), ""), logger.Nop())

	// not a JWT and no expires_at, so the bundle counts as expiring
	_, err := flow.EnsureFresh(context.Background(), models.TokenBundle{AccessToken: "opaque"})
	assert.ErrorContains(t, err, "re-run the authorization flow")
}
