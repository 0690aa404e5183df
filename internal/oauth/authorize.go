package oauth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"net/url"
	"strings"
)

// DefaultMarketplaceURL is the origin of the authorization endpoint.
const DefaultMarketplaceURL = "https://marketplace.gohighlevel.com"

// DefaultScopes is the scope set requested when the configuration does not
// override it. The conversation scopes cover the spam pipeline; the contact
// scopes cover deletion of confirmed-spam contacts.
var DefaultScopes = []string{
	"conversations.readonly",
	"conversations.write",
	"conversations/message.readonly",
	"conversations/message.write",
	"contacts.readonly",
	"contacts.write",
}

// NewState draws a 32-byte URL-safe state token for CSRF protection of the
// callback.
func NewState() (string, error) {
	raw := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, raw); err != nil {
		return "", fmt.Errorf("generate state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// AuthorizeURL builds the chooselocation authorization URL the user opens
// in a browser. An empty marketplaceURL falls back to
// [DefaultMarketplaceURL]; empty scopes fall back to [DefaultScopes].
func AuthorizeURL(marketplaceURL, clientID, redirectURI, state string, scopes []string) string {
	if marketplaceURL == "" {
		marketplaceURL = DefaultMarketplaceURL
	}
	if len(scopes) == 0 {
		scopes = DefaultScopes
	}

	params := url.Values{}
	params.Set("response_type", "code")
	params.Set("redirect_uri", redirectURI)
	params.Set("client_id", clientID)
	params.Set("scope", strings.Join(scopes, " "))
	params.Set("state", state)

	return marketplaceURL + "/oauth/chooselocation?" + params.Encode()
}

// SplitScopes parses a space-separated scope string, as stored in
// configuration and token bundles, into a list. Empty input yields nil.
func SplitScopes(raw string) []string {
	return strings.Fields(raw)
}
