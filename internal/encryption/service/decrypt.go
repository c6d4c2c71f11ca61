// drivesend/internal/encryption/service/decrypt.go
package service

import (
	"fmt"
	"os"
	"strings"

	"drivesend/internal/core/domain"
)

// DecryptFile decrypts the `.enc` artifact at path and restores the original
// file beside it, returning the restored path. Authentication failures (wrong
// key or corrupted ciphertext) surface before anything touches the final
// path, so a failed decrypt leaves the artifact exactly as it was.
func (s *EncryptionService) DecryptFile(path string, key []byte) (string, error) {
	if !domain.IsEncryptedArtifact(path) {
		return "", fmt.Errorf("%s is not an encrypted artifact", path)
	}

	blob, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	plaintext, err := s.encryptor.Open(blob, key)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt %s: %w", path, err)
	}

	outPath := strings.TrimSuffix(path, domain.EncryptedSuffix)
	if err := writeFileAtomic(outPath, plaintext); err != nil {
		return "", err
	}

	if !s.keepSource {
		if err := os.Remove(path); err != nil {
			return "", fmt.Errorf("decrypted but failed to remove artifact %s: %w", path, err)
		}
	}

	return outPath, nil
}
