// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
)

const saltSize = 16

// vaultService is the private implementation of [VaultService].
type vaultService struct {
	// Argon2id tuning parameters. Stored in the struct so they can be
	// adjusted per deployment target.
	argonTime    uint32
	argonMemory  uint32
	argonThreads uint8
	argonKeyLen  uint32
}

// NewVaultService constructs a [VaultService] with the Argon2id parameters
// recommended by OWASP (2024):
//   - time cost:   1 iteration
//   - memory cost: 64 MiB
//   - parallelism: 4 threads
//   - key length:  32 bytes (256 bits)
func NewVaultService() VaultService {
	return &vaultService{
		argonTime:    1,
		argonMemory:  64 * 1024, // 64 MiB
		argonThreads: 4,
		argonKeyLen:  32, // 256 bits
	}
}

// Seal implements [VaultService]. A fresh random salt is drawn for every
// call, so sealing the same document twice under the same passphrase yields
// unrelated blobs.
func (v *vaultService) Seal(data any, passphrase string) (string, error) {
	plaintext, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("marshal data: %w", err)
	}

	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	gcm, err := v.buildCipher(passphrase, salt)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	// blob layout: salt || nonce || ciphertext
	blob := append(salt, nonce...)
	blob = append(blob, gcm.Seal(nil, nonce, plaintext, nil)...)

	return base64.StdEncoding.EncodeToString(blob), nil
}

// Open implements [VaultService]. It splits the blob back into salt, nonce
// and ciphertext, re-derives the key and decrypts. An authentication error
// here almost always means a wrong passphrase.
func (v *vaultService) Open(sealedB64 string, passphrase string, target any) error {
	blob, err := base64.StdEncoding.DecodeString(sealedB64)
	if err != nil {
		return fmt.Errorf("decode base64: %w", err)
	}

	if len(blob) < saltSize {
		return fmt.Errorf("sealed blob too short")
	}
	salt, rest := blob[:saltSize], blob[saltSize:]

	gcm, err := v.buildCipher(passphrase, salt)
	if err != nil {
		return err
	}

	nonceSize := gcm.NonceSize()
	if len(rest) < nonceSize {
		return fmt.Errorf("sealed blob too short")
	}
	nonce, ciphertext := rest[:nonceSize], rest[nonceSize:]

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return fmt.Errorf("open vault: %w", err)
	}

	if err := json.Unmarshal(plaintext, target); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}

	return nil
}

// buildCipher derives the AES key from the passphrase and salt via Argon2id
// and wraps it in GCM.
func (v *vaultService) buildCipher(passphrase string, salt []byte) (cipher.AEAD, error) {
	key := argon2.IDKey(
		[]byte(passphrase),
		salt,
		v.argonTime,
		v.argonMemory,
		v.argonThreads,
		v.argonKeyLen,
	)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}

	return gcm, nil
}
