package security

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strings"

	"golang.org/x/crypto/scrypt"
)

const (
	keyLen     = 32
	nonceLen   = 12
	encPrefix  = "enc:"
	scryptSalt = "creator-studio-token-salt"
)

// ErrNoEncryptionKey is returned when token encryption is requested but no
// secret is configured. Persistence of cleartext tokens is refused.
var ErrNoEncryptionKey = errors.New("no encryption key configured")

// TokenCipher encrypts platform access tokens at rest with AES-256-GCM.
// Values are stored as "enc:" + base64(nonce | ciphertext | tag).
type TokenCipher struct {
	key []byte
}

// NewTokenCipher derives the cipher key from the configured secret. Secrets
// of at least 32 bytes are used directly (truncated); shorter ones run
// through scrypt. An empty secret yields a keyless cipher that refuses to
// encrypt.
func NewTokenCipher(secret string) (*TokenCipher, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return &TokenCipher{}, nil
	}
	raw := []byte(secret)
	if len(raw) >= keyLen {
		return &TokenCipher{key: raw[:keyLen]}, nil
	}
	key, err := scrypt.Key(raw, []byte(scryptSalt), 32768, 8, 1, keyLen)
	if err != nil {
		return nil, err
	}
	return &TokenCipher{key: key}, nil
}

// HasKey reports whether the cipher can encrypt.
func (c *TokenCipher) HasKey() bool {
	return len(c.key) == keyLen
}

// Encrypt seals plain for storage. Fails closed when no key is configured.
func (c *TokenCipher) Encrypt(plain string) (string, error) {
	if !c.HasKey() {
		return "", ErrNoEncryptionKey
	}
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, nonceLen)
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	sealed := gcm.Seal(nil, nonce, []byte(plain), nil)
	combined := append(nonce, sealed...)
	return encPrefix + base64.StdEncoding.EncodeToString(combined), nil
}

// Decrypt opens a value produced by Encrypt. Legacy values without the
// "enc:" prefix are returned as-is. A prefixed value that cannot be opened
// (missing key, corrupt data, wrong key) yields "" so callers treat the
// account as not connected rather than acting on garbage.
func (c *TokenCipher) Decrypt(stored string) string {
	if !strings.HasPrefix(stored, encPrefix) {
		return stored
	}
	if !c.HasKey() {
		return ""
	}
	combined, err := base64.StdEncoding.DecodeString(stored[len(encPrefix):])
	if err != nil || len(combined) <= nonceLen {
		return ""
	}
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return ""
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return ""
	}
	plain, err := gcm.Open(nil, combined[:nonceLen], combined[nonceLen:], nil)
	if err != nil {
		return ""
	}
	return string(plain)
}
