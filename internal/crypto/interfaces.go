package crypto

// VaultService seals small JSON documents (OAuth token bundles) at rest
// under a user-supplied passphrase. It knows nothing about the network or
// where the sealed blobs are stored.
//
// Scheme:
//
//	key  = Argon2id(passphrase, salt)        salt is random per seal
//	blob = salt ‖ nonce ‖ AES-256-GCM(key, json(data))
//	out  = base64(blob)
type VaultService interface {
	// Seal serializes data to JSON and encrypts it under passphrase.
	// The returned string is safe to write to disk: without the
	// passphrase it is indistinguishable from random noise.
	Seal(data any, passphrase string) (string, error)

	// Open decrypts a blob produced by Seal and unmarshals the result
	// into target (same contract as json.Unmarshal). Returns an error on
	// a wrong passphrase or a corrupted blob (authentication-tag
	// mismatch).
	Open(sealedB64 string, passphrase string, target any) error
}
