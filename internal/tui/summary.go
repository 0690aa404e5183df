package tui

import (
	"fmt"

	"github.com/MKhiriev/go-hook-gate/models"
)

// truncateToken shortens a credential for display.
func truncateToken(token string) string {
	if token == "" {
		return "—"
	}
	if len(token) <= 24 {
		return token
	}
	return token[:24] + "..."
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}

func bundleSummary(title string, bundle models.TokenBundle, path string) string {
	out := titleStyle.Render(title) + "\n\n"
	out += fmt.Sprintf("access_token:  %s\n", truncateToken(bundle.AccessToken))
	out += fmt.Sprintf("token_type:    %s\n", orDash(bundle.TokenType))
	out += fmt.Sprintf("refresh_token: %s\n", truncateToken(bundle.RefreshToken))
	out += fmt.Sprintf("user_type:     %s\n", orDash(bundle.UserType))
	out += fmt.Sprintf("company_id:    %s\n", orDash(bundle.CompanyID))
	out += fmt.Sprintf("location_id:   %s\n", orDash(bundle.LocationID))
	out += fmt.Sprintf("scope:         %s\n", orDash(bundle.Scope))
	out += fmt.Sprintf("expires_at:    %s\n", orDash(bundle.ExpiresAt))
	out += fmt.Sprintf("\nSaved to: %s\n", path)
	return out
}
