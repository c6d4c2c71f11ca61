// drivesend/internal/pkg/crypto/aes/aes.go
package aes

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
)

const (
	KeySize      = 32 // AES-256
	GCMNonceSize = 12 // GCM standard nonce size
)

// ErrAuthentication is returned by Open when the ciphertext fails GCM
// authentication: wrong key, truncation, or bit-level corruption.
var ErrAuthentication = errors.New("ciphertext authentication failed")

// GCMEncryptor seals whole payloads with AES-256-GCM. The random nonce is
// prefixed to the ciphertext so the output is self-describing: only the key
// is needed to invert it.
type GCMEncryptor struct{}

func NewGCMEncryptor() *GCMEncryptor {
	return &GCMEncryptor{}
}

// GenerateKey returns a fresh random 256-bit key.
func (e *GCMEncryptor) GenerateKey() ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}
	return key, nil
}

func (e *GCMEncryptor) Seal(plaintext []byte, key []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, GCMNonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

func (e *GCMEncryptor) Open(blob []byte, key []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	if len(blob) < GCMNonceSize {
		return nil, fmt.Errorf("%w: input shorter than nonce", ErrAuthentication)
	}

	nonce, ciphertext := blob[:GCMNonceSize], blob[GCMNonceSize:]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuthentication, err)
	}
	return plaintext, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("invalid key size: expected %d, got %d", KeySize, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return gcm, nil
}
