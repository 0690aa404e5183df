package utils

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"sync"
)

// Supported HMAC algorithm names for webhook signature verification.
const (
	AlgoSHA256 = "sha256"
	AlgoSHA1   = "sha1"
)

// Hasher provides keyed HMAC hashing over raw webhook bodies.
// Instances are safe for concurrent use: hash.Hash values are recycled
// through an internal sync.Pool.
type Hasher struct {
	algo string
	pool sync.Pool
}

// NewHasher constructs a Hasher for the given algorithm name keyed with
// secret. Supported algorithms are sha256 and sha1.
//
// Purpose:
//   - Avoid repeated allocations of new hash.Hash instances
//   - Reduce GC pressure in high-throughput signature verification
//
// Parameters:
//
//	algo   - hash algorithm name: "sha256" or "sha1"
//	secret - shared secret used for all HMAC operations
//
// Example usage:
//
//	hasher, err := utils.NewHasher("sha256", "my-shared-secret")
func NewHasher(algo string, secret string) (*Hasher, error) {
	var newHash func() hash.Hash
	switch algo {
	case AlgoSHA256:
		newHash = sha256.New
	case AlgoSHA1:
		newHash = sha1.New
	default:
		return nil, fmt.Errorf("unsupported signature algo: %s", algo)
	}

	key := []byte(secret)
	return &Hasher{
		algo: algo,
		pool: sync.Pool{
			New: func() any {
				return hmac.New(newHash, key)
			},
		},
	}, nil
}

// Algo returns the algorithm name the Hasher was constructed with.
func (h *Hasher) Algo() string {
	return h.algo
}

// Sum computes a keyed HMAC digest over the given byte slice using a
// hasher pulled from the internal pool.
//
// Behavior:
//   - Retrieves a hash.Hash instance from sync.Pool
//   - Resets it, writes the data, computes the sum
//   - Resets again and returns it to the pool
//
// Parameters:
//
//	data - arbitrary byte slice to be hashed
//
// Returns:
//
//	[]byte - raw HMAC digest
func (h *Hasher) Sum(data []byte) []byte {
	hh := h.pool.Get().(hash.Hash)
	hh.Reset()

	hh.Write(data)
	sum := hh.Sum(nil)

	hh.Reset()
	h.pool.Put(hh)

	return sum
}

// HexSum computes a keyed HMAC digest over the given byte slice and returns
// it as a lowercase hex-encoded string, the form webhook senders put into
// signature headers.
func (h *Hasher) HexSum(data []byte) string {
	return hex.EncodeToString(h.Sum(data))
}

// SignatureEqual compares two signature strings in constant time.
// Both values are compared as raw bytes; no case folding is applied, so a
// sender must supply the digest in lowercase hex exactly as produced by
// HexSum.
func SignatureEqual(got, want string) bool {
	return hmac.Equal([]byte(got), []byte(want))
}
