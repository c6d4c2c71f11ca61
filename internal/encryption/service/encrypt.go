// drivesend/internal/encryption/service/encrypt.go
package service

import (
	"fmt"
	"os"

	"drivesend/internal/core/domain"
)

// EncryptFile encrypts the file at path and writes the result to
// path + ".enc" beside it, returning the artifact path. The transform is
// whole-file: source media are bounded-size assets, not unbounded streams.
//
// Order of operations matters for crash safety: the ciphertext lands in a
// temporary sibling first, is flushed and synced, then renamed onto the
// final path; only after that rename does the original get removed.
func (s *EncryptionService) EncryptFile(path string, key []byte) (string, error) {
	plaintext, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	blob, err := s.encryptor.Seal(plaintext, key)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt %s: %w", path, err)
	}

	outPath := path + domain.EncryptedSuffix
	if err := writeFileAtomic(outPath, blob); err != nil {
		return "", err
	}

	if !s.keepSource {
		if err := os.Remove(path); err != nil {
			return "", fmt.Errorf("encrypted but failed to remove original %s: %w", path, err)
		}
	}

	return outPath, nil
}
