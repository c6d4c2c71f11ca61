package mocks

type MockEncryptor struct {
	SealFunc func(plaintext []byte, key []byte) ([]byte, error)
	OpenFunc func(blob []byte, key []byte) ([]byte, error)
}

func NewMockEncryptor() *MockEncryptor {
	return &MockEncryptor{
		SealFunc: func(plaintext []byte, key []byte) ([]byte, error) {
			return plaintext, nil
		},
		OpenFunc: func(blob []byte, key []byte) ([]byte, error) {
			return blob, nil
		},
	}
}

func (m *MockEncryptor) Seal(plaintext []byte, key []byte) ([]byte, error) {
	return m.SealFunc(plaintext, key)
}

func (m *MockEncryptor) Open(blob []byte, key []byte) ([]byte, error) {
	return m.OpenFunc(blob, key)
}
