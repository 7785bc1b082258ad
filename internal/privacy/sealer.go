package privacy

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// ErrCiphertextTooShort is returned when sealed data lacks a nonce.
var ErrCiphertextTooShort = errors.New("ciphertext too short")

// Sealer encrypts stored session and candidate blobs with XChaCha20-Poly1305.
// A nil *Sealer passes data through unchanged.
type Sealer struct {
	key []byte
}

// NewSealer derives a 32-byte key from secret. A 64-character hex string is
// used verbatim; anything else is hashed with SHA-256. An empty secret
// returns nil, meaning no sealing.
func NewSealer(secret string) (*Sealer, error) {
	if secret == "" {
		return nil, nil
	}
	if len(secret) == 2*chacha20poly1305.KeySize {
		if key, err := hex.DecodeString(secret); err == nil {
			return &Sealer{key: key}, nil
		}
	}
	sum := sha256.Sum256([]byte(secret))
	return &Sealer{key: sum[:]}, nil
}

// Seal returns nonce || ciphertext.
func (s *Sealer) Seal(plaintext []byte) ([]byte, error) {
	if s == nil {
		return plaintext, nil
	}
	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(plaintext)+aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	return aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Open reverses Seal.
func (s *Sealer) Open(sealed []byte) ([]byte, error) {
	if s == nil {
		return sealed, nil
	}
	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	if len(sealed) < aead.NonceSize() {
		return nil, ErrCiphertextTooShort
	}
	nonce, ciphertext := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open sealed data: %w", err)
	}
	return plaintext, nil
}
