package crypto

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tokenBundle struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func TestVault_SealOpenRoundTrip(t *testing.T) {
	v := NewVaultService()
	in := tokenBundle{AccessToken: "at-123", RefreshToken: "rt-456"}

	sealed, err := v.Seal(in, "correct horse battery staple")
	require.NoError(t, err)
	require.NotEmpty(t, sealed)

	var out tokenBundle
	require.NoError(t, v.Open(sealed, "correct horse battery staple", &out))
	assert.Equal(t, in, out)
}

func TestVault_WrongPassphrase(t *testing.T) {
	v := NewVaultService()

	sealed, err := v.Seal(tokenBundle{AccessToken: "at"}, "right")
	require.NoError(t, err)

	var out tokenBundle
	err = v.Open(sealed, "wrong", &out)
	assert.ErrorContains(t, err, "open vault")
}

func TestVault_SealIsRandomized(t *testing.T) {
	v := NewVaultService()
	in := tokenBundle{AccessToken: "at"}

	first, err := v.Seal(in, "pw")
	require.NoError(t, err)
	second, err := v.Seal(in, "pw")
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "fresh salt and nonce per seal")
}

func TestVault_OpenRejectsGarbage(t *testing.T) {
	v := NewVaultService()
	var out tokenBundle

	assert.Error(t, v.Open("%%%not-base64%%%", "pw", &out))
	assert.Error(t, v.Open(base64.StdEncoding.EncodeToString([]byte("short")), "pw", &out))
}

func TestVault_CorruptedBlob(t *testing.T) {
	v := NewVaultService()

	sealed, err := v.Seal(tokenBundle{AccessToken: "at"}, "pw")
	require.NoError(t, err)

	blob, err := base64.StdEncoding.DecodeString(sealed)
	require.NoError(t, err)
	blob[len(blob)-1] ^= 0xff

	var out tokenBundle
	assert.Error(t, v.Open(base64.StdEncoding.EncodeToString(blob), "pw", &out))
}
