package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTokenCipher_RoundTrip(t *testing.T) {
	c, err := NewTokenCipher("a-short-dev-secret")
	require.NoError(t, err)
	require.True(t, c.HasKey())

	stored, err := c.Encrypt("EAAB-long-lived-page-token")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(stored, "enc:"))
	require.NotContains(t, stored, "EAAB")

	require.Equal(t, "EAAB-long-lived-page-token", c.Decrypt(stored))
}

func TestTokenCipher_LongSecretUsedDirectly(t *testing.T) {
	secret := strings.Repeat("k", 40)
	c, err := NewTokenCipher(secret)
	require.NoError(t, err)

	stored, err := c.Encrypt("tok")
	require.NoError(t, err)
	require.Equal(t, "tok", c.Decrypt(stored))
}

func TestTokenCipher_EncryptWithoutKeyFailsClosed(t *testing.T) {
	c, err := NewTokenCipher("")
	require.NoError(t, err)
	require.False(t, c.HasKey())

	_, err = c.Encrypt("anything")
	require.ErrorIs(t, err, ErrNoEncryptionKey)
}

func TestTokenCipher_DecryptWithoutKeyReturnsEmpty(t *testing.T) {
	withKey, err := NewTokenCipher("secret")
	require.NoError(t, err)
	stored, err := withKey.Encrypt("tok")
	require.NoError(t, err)

	keyless, err := NewTokenCipher("")
	require.NoError(t, err)
	require.Equal(t, "", keyless.Decrypt(stored))
}

func TestTokenCipher_DecryptWithWrongKeyReturnsEmpty(t *testing.T) {
	a, err := NewTokenCipher("secret-a")
	require.NoError(t, err)
	b, err := NewTokenCipher("secret-b")
	require.NoError(t, err)

	stored, err := a.Encrypt("tok")
	require.NoError(t, err)
	require.Equal(t, "", b.Decrypt(stored))
}

func TestTokenCipher_PassthroughForUnprefixedValues(t *testing.T) {
	c, err := NewTokenCipher("secret")
	require.NoError(t, err)
	require.Equal(t, "legacy-plaintext", c.Decrypt("legacy-plaintext"))
}

func TestTokenCipher_CorruptCiphertextReturnsEmpty(t *testing.T) {
	c, err := NewTokenCipher("secret")
	require.NoError(t, err)
	require.Equal(t, "", c.Decrypt("enc:not-base64!!"))
	require.Equal(t, "", c.Decrypt("enc:AAAA"))
}
