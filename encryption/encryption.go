// Package encryption seals the session identifiers the HTTP server hands to
// browsers, so a client cannot pick another session's theme scope.
// Tokens are XChaCha20-Poly1305 ciphertexts under a key derived with HKDF
// from a configured secret.
package encryption

import (
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

const (
	// MinKeyLength is the minimum secret length in bytes.
	MinKeyLength = 32
	// EnvKeyName is the environment variable holding the session secret.
	EnvKeyName = "THEMEPREFS_SESSION_SECRET"
)

// hkdfInfo and additionalData bind keys and tokens to session cookies.
var (
	hkdfInfo       = []byte("themeprefs session key v1")
	additionalData = []byte("themeprefs_session")
)

var (
	// ErrInvalidKeyLength is returned when the secret is shorter than MinKeyLength.
	ErrInvalidKeyLength = errors.New("session secret must be at least 32 bytes")
	// ErrKeyNotFound is returned when the secret environment variable is not set.
	ErrKeyNotFound = errors.New("session secret not found in environment variable " + EnvKeyName)
	// ErrEncryptionFailed is returned when sealing fails.
	ErrEncryptionFailed = errors.New("encryption operation failed")
	// ErrDecryptionFailed is returned when a token cannot be opened.
	ErrDecryptionFailed = errors.New("decryption operation failed")
	// ErrInvalidCiphertext is returned when the token is malformed or too short.
	ErrInvalidCiphertext = errors.New("invalid ciphertext: too short or malformed")
)

// Sealer seals and opens session tokens.
type Sealer struct {
	aead cipher.AEAD
}

// NewSealer derives a token key from secret. The secret is validated here so
// misconfiguration fails at startup.
func NewSealer(secret []byte) (*Sealer, error) {
	if err := validate(secret); err != nil {
		return nil, err
	}

	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, nil, hkdfInfo), key); err != nil {
		return nil, fmt.Errorf("%w: key derivation: %v", ErrEncryptionFailed, err)
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncryptionFailed, err)
	}
	return &Sealer{aead: aead}, nil
}

// NewSealerFromEnv reads the secret from EnvKeyName.
func NewSealerFromEnv() (*Sealer, error) {
	secret := os.Getenv(EnvKeyName)
	if secret == "" {
		return nil, ErrKeyNotFound
	}
	return NewSealer([]byte(secret))
}

// Seal encrypts plaintext and returns a URL-safe token with the nonce
// prepended to the ciphertext.
func (s *Sealer) Seal(plaintext string) (string, error) {
	nonce := make([]byte, s.aead.NonceSize(), s.aead.NonceSize()+len(plaintext)+s.aead.Overhead())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("%w: failed to generate nonce: %v", ErrEncryptionFailed, err)
	}

	sealed := s.aead.Seal(nonce, nonce, []byte(plaintext), additionalData)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Open authenticates and decrypts a token produced by Seal.
func (s *Sealer) Open(token string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return "", fmt.Errorf("%w: invalid base64: %v", ErrDecryptionFailed, err)
	}

	nonceSize := s.aead.NonceSize()
	if len(raw) < nonceSize+s.aead.Overhead() {
		return "", ErrInvalidCiphertext
	}

	nonce, ciphertext := raw[:nonceSize], raw[nonceSize:]
	plaintext, err := s.aead.Open(nil, nonce, ciphertext, additionalData)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecryptionFailed, err)
	}
	return string(plaintext), nil
}

// ValidateKey checks the secret in EnvKeyName without building a Sealer.
func ValidateKey() error {
	secret := os.Getenv(EnvKeyName)
	if secret == "" {
		return ErrKeyNotFound
	}
	return validate([]byte(secret))
}

func validate(secret []byte) error {
	if len(secret) < MinKeyLength {
		return fmt.Errorf("%w: got %d bytes, need at least %d", ErrInvalidKeyLength, len(secret), MinKeyLength)
	}
	return nil
}
