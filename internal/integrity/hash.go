// drivesend/internal/integrity/hash.go

// Package integrity computes the SHA-256 content digest used to verify that
// an upload arrived uncorrupted. The digest always covers the exact bytes
// transmitted: the ciphertext when encryption is enabled, the plaintext
// otherwise.
package integrity

import (
	"crypto/sha256"
	"encoding/hex"
)

// Sum returns the hex SHA-256 digest of payload.
func Sum(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}
