package crypto

import (
	"bytes"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/RedeemBot_Go/internal/domain"
)

func hexKey(b byte) string {
	return hex.EncodeToString(bytes.Repeat([]byte{b}, KeySize))
}

func TestParseKeyring(t *testing.T) {
	t.Run("first key active by default", func(t *testing.T) {
		kr, err := ParseKeyring("k1:"+hexKey(1)+", k2:"+hexKey(2), "")
		require.NoError(t, err)
		assert.Equal(t, "k1", kr.ActiveKeyID())
		assert.Equal(t, []string{"k1", "k2"}, kr.KeyIDs())
	})

	t.Run("explicit active key", func(t *testing.T) {
		kr, err := ParseKeyring("k1:"+hexKey(1)+",k2:"+hexKey(2), "k2")
		require.NoError(t, err)
		assert.Equal(t, "k2", kr.ActiveKeyID())
	})

	errCases := []struct {
		name   string
		keys   string
		active string
	}{
		{"empty", "", ""},
		{"missing colon", "k1" + hexKey(1), ""},
		{"bad hex", "k1:zz", ""},
		{"short key", "k1:abcd", ""},
		{"duplicate id", "k1:" + hexKey(1) + ",k1:" + hexKey(2), ""},
		{"unknown active", "k1:" + hexKey(1), "k9"},
	}
	for _, tc := range errCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseKeyring(tc.keys, tc.active)
			assert.Error(t, err)
		})
	}
}

func TestKeyring_SealOpen(t *testing.T) {
	kr, err := ParseKeyring("k1:"+hexKey(1), "")
	require.NoError(t, err)

	sealed, err := kr.SealString("FF-1234-ABCD")
	require.NoError(t, err)
	assert.Equal(t, "k1", sealed.KeyID)
	assert.NotContains(t, sealed.Ciphertext, "FF-1234")

	again, err := kr.SealString("FF-1234-ABCD")
	require.NoError(t, err)
	assert.NotEqual(t, sealed.Ciphertext, again.Ciphertext, "nonces must differ")

	plain, err := kr.OpenString(sealed)
	require.NoError(t, err)
	assert.Equal(t, "FF-1234-ABCD", plain)
}

func TestKeyring_RotationOpensOldSecrets(t *testing.T) {
	old, err := ParseKeyring("k1:"+hexKey(1), "")
	require.NoError(t, err)
	sealed, err := old.SealString("legacy")
	require.NoError(t, err)

	rotated, err := ParseKeyring("k1:"+hexKey(1)+",k2:"+hexKey(2), "k2")
	require.NoError(t, err)

	plain, err := rotated.OpenString(sealed)
	require.NoError(t, err)
	assert.Equal(t, "legacy", plain)

	fresh, err := rotated.SealString("new")
	require.NoError(t, err)
	assert.Equal(t, "k2", fresh.KeyID)
}

func TestKeyring_OpenFailures(t *testing.T) {
	kr, err := ParseKeyring("k1:"+hexKey(1)+",k2:"+hexKey(2), "k1")
	require.NoError(t, err)
	sealed, err := kr.SealString("secret")
	require.NoError(t, err)

	t.Run("unknown key", func(t *testing.T) {
		_, err := kr.Open(domain.SealedSecret{KeyID: "nope", Ciphertext: sealed.Ciphertext})
		assert.ErrorIs(t, err, domain.ErrUnknownKey)
	})

	t.Run("key id is authenticated", func(t *testing.T) {
		_, err := kr.Open(domain.SealedSecret{KeyID: "k2", Ciphertext: sealed.Ciphertext})
		assert.ErrorIs(t, err, domain.ErrDecryptFailed)
	})

	t.Run("tampered", func(t *testing.T) {
		tampered := sealed
		tampered.Ciphertext = strings.Repeat("A", len(sealed.Ciphertext))
		_, err := kr.Open(tampered)
		assert.ErrorIs(t, err, domain.ErrDecryptFailed)
	})

	t.Run("not base64", func(t *testing.T) {
		_, err := kr.Open(domain.SealedSecret{KeyID: "k1", Ciphertext: "%%%"})
		assert.ErrorIs(t, err, domain.ErrDecryptFailed)
	})
}
