package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoExpiryClaim is returned by TokenExpiry when the token parses cleanly
// but carries no exp claim.
var ErrNoExpiryClaim = errors.New("token has no exp claim")

// TokenExpiry extracts the expiration time from a JWT access token without
// verifying its signature.
//
// Marketplace access tokens are JWTs issued by the authorization server; the
// client only needs the exp claim to decide when to refresh. Signature
// verification is the issuer's side of the contract, so ParseUnverified is
// deliberate here — the value must never be used to grant access locally.
//
// Parameters:
//
//	tokenString - the raw JWT string
//
// Returns:
//
//	time.Time - the exp claim as a timestamp
//	error     - non-nil if the string is not a JWT or carries no exp claim
//
// Example usage:
//
//	expiry, err := utils.TokenExpiry(bundle.AccessToken)
//	if err == nil && time.Until(expiry) < 5*time.Minute {
//	    // refresh
//	}
func TokenExpiry(tokenString string) (time.Time, error) {
	token, _, err := jwt.NewParser().ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, fmt.Errorf("error occurred parsing token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return time.Time{}, errors.New("invalid token claims")
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, fmt.Errorf("error occurred getting exp claim: %w", err)
	}
	if exp == nil {
		return time.Time{}, ErrNoExpiryClaim
	}

	return exp.Time, nil
}
