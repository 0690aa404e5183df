package config

import "errors"

// Validation errors returned when the merged configuration is incomplete
// or inconsistent.
var (
	// ErrInvalidSignatureAlgo indicates an unsupported signature algorithm;
	// only "sha256" and "sha1" are accepted.
	ErrInvalidSignatureAlgo = errors.New("invalid signature algorithm")
	// ErrInvalidServerConfigs indicates invalid server settings (for
	// example, a port outside the valid range).
	ErrInvalidServerConfigs = errors.New("invalid server configuration")
	// ErrInvalidJournalConfigs indicates invalid journal settings (for
	// example, an unknown driver or a postgres driver without a DSN).
	ErrInvalidJournalConfigs = errors.New("invalid journal configuration")
	// ErrInvalidOAuthConfigs indicates incomplete OAuth client settings
	// required by the authorization flow.
	ErrInvalidOAuthConfigs = errors.New("invalid oauth configuration")
)
