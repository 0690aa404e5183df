// Package oauth implements the marketplace authorization flow for the
// client binary: authorize URL construction, the loopback callback server
// that captures the authorization code, token persistence, and refresh
// decisions.
package oauth
