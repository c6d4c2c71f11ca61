// drivesend/internal/encryption/service/interface.go
package service

import (
	"drivesend/internal/core/ports"
)

// Service applies the cipher transform at file level: encrypting a file
// produces a `.enc` sibling and removes the original; decrypting reverses
// it. Both directions use a temporary sibling and an atomic rename so a
// crash mid-operation never leaves zero intact copies of the data.
type Service interface {
	EncryptFile(path string, key []byte) (string, error)
	DecryptFile(path string, key []byte) (string, error)
}

type EncryptionService struct {
	encryptor ports.Encryptor

	// keepSource disables removal of the input file after a successful
	// transform. The batch decrypt flow sets it: originals are quarantined,
	// never deleted.
	keepSource bool
}

func NewService(encryptor ports.Encryptor) *EncryptionService {
	return &EncryptionService{encryptor: encryptor}
}

// NewPreservingService returns a service that leaves the input file in
// place after a successful transform.
func NewPreservingService(encryptor ports.Encryptor) *EncryptionService {
	return &EncryptionService{encryptor: encryptor, keepSource: true}
}
