package models

import "time"

// TokenBundle is the set of OAuth credentials the marketplace returns from
// the token endpoints. Field names follow the persisted JSON document so a
// bundle written by earlier tooling loads unchanged.
type TokenBundle struct {
	// AccessToken is the bearer token used against the platform API.
	AccessToken string `json:"access_token"`

	// TokenType is normally "Bearer".
	TokenType string `json:"token_type"`

	// RefreshToken, when present, lets the client obtain a fresh bundle
	// without a new browser authorization.
	RefreshToken string `json:"refresh_token,omitempty"`

	// Scope is the space-separated scope list granted to the token.
	Scope string `json:"scope,omitempty"`

	// UserType is "Company" for agency tokens and "Location" for sub-account
	// tokens. The locationToken endpoint only accepts agency bearers.
	UserType string `json:"user_type,omitempty"`

	// ExpiresAt is the computed expiry instant (issue time + expires_in),
	// stored as an ISO timestamp in the JSON document.
	ExpiresAt string `json:"expires_at,omitempty"`

	// CompanyID identifies the agency the token belongs to.
	CompanyID string `json:"company_id,omitempty"`

	// LocationID identifies the sub-account, set on location tokens.
	LocationID string `json:"location_id,omitempty"`
}

// IsAgency reports whether the bundle is an agency (Company) token, the only
// kind accepted by the locationToken exchange.
func (t TokenBundle) IsAgency() bool {
	return t.UserType == "Company"
}

// Expiry parses ExpiresAt. The zero time and ok=false are returned when the
// field is empty or malformed; callers then fall back to inspecting the
// access token's own exp claim.
func (t TokenBundle) Expiry() (time.Time, bool) {
	if t.ExpiresAt == "" {
		return time.Time{}, false
	}
	ts, err := time.Parse(time.RFC3339, t.ExpiresAt)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

// ExpiresWithin reports whether the bundle expires inside the given window.
// Bundles without a parsable expiry are treated as expiring, forcing a
// refresh attempt rather than a failed API call later.
func (t TokenBundle) ExpiresWithin(window time.Duration) bool {
	ts, ok := t.Expiry()
	if !ok {
		return true
	}
	return time.Until(ts) < window
}
