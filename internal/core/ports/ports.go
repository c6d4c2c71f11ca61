// drivesend/internal/core/ports/ports.go
package ports

import "context"

// Encryptor seals and opens whole payloads with a symmetric key. Open must
// fail on any ciphertext tampering or key mismatch.
type Encryptor interface {
	Seal(plaintext []byte, key []byte) ([]byte, error)
	Open(blob []byte, key []byte) ([]byte, error)
}

// KeySource yields an encryption key, or reports that it has none.
type KeySource interface {
	// Key returns (nil, nil) when the source has nothing to offer, letting
	// the provider fall through to the next source in order.
	Key(ctx context.Context) ([]byte, error)
}
