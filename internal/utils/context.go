// Package utils provides general-purpose helper utilities
// used across different parts of the application.
// Includes tools for working with context, type-safe keys, HMAC hashing,
// HTTP response writing, HTTP client initialization, token expiry
// introspection, and other common operations.
package utils

import (
	"context"
)

// contextKey is a private type for context keys.
// Using a dedicated type instead of a plain string prevents key collisions
// with other packages that may use string-based keys in the context.
type contextKey string

// String returns the string representation of the context key.
// Implements the fmt.Stringer interface.
func (c contextKey) String() string {
	return string(c)
}

// RequestIDCtxKey is the key used to store the request correlation id in the
// context. Used together with GetRequestIDFromContext for type-safe
// retrieval of the correlation id from context.Context.
//
// Example of writing a value to the context:
//
//	ctx := context.WithValue(ctx, utils.RequestIDCtxKey, "a1b2c3")
var RequestIDCtxKey = contextKey("requestID")

// GetRequestIDFromContext retrieves the request correlation id from the
// context.
//
// Returns the correlation id and an ok flag:
//   - ok == true  — value is found and has the correct string type
//   - ok == false — value is missing or has an unexpected type
//
// Example usage:
//
//	rid, ok := utils.GetRequestIDFromContext(ctx)
//	if !ok {
//	    // handle missing correlation id in context
//	}
func GetRequestIDFromContext(ctx context.Context) (string, bool) {
	rid, ok := ctx.Value(RequestIDCtxKey).(string)
	return rid, ok
}
