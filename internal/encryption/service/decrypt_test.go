// drivesend/internal/encryption/service/decrypt_test.go
package service

import (
	"bytes"
	"errors"
	"os"
	"testing"

	cryptoaes "drivesend/internal/pkg/crypto/aes"
)

func TestDecryptFile(t *testing.T) {
	encryptor := cryptoaes.NewGCMEncryptor()
	key, err := encryptor.GenerateKey()
	if err != nil {
		t.Fatalf("Failed to generate key: %v", err)
	}

	t.Run("Round trip restores original bytes", func(t *testing.T) {
		dir := t.TempDir()
		original := []byte("ten bytes!")
		src := writeTestFile(t, dir, "photo.png", original)

		svc := NewService(encryptor)
		encPath, err := svc.EncryptFile(src, key)
		if err != nil {
			t.Fatalf("EncryptFile error: %v", err)
		}

		restored, err := svc.DecryptFile(encPath, key)
		if err != nil {
			t.Fatalf("DecryptFile error: %v", err)
		}
		if restored != src {
			t.Errorf("restored to %s, want %s", restored, src)
		}

		data, err := os.ReadFile(restored)
		if err != nil {
			t.Fatalf("Failed to read restored file: %v", err)
		}
		if !bytes.Equal(data, original) {
			t.Error("restored bytes differ from original")
		}
	})

	t.Run("Wrong key leaves artifact untouched", func(t *testing.T) {
		dir := t.TempDir()
		src := writeTestFile(t, dir, "photo.png", []byte("ten bytes!"))

		svc := NewService(encryptor)
		encPath, err := svc.EncryptFile(src, key)
		if err != nil {
			t.Fatalf("EncryptFile error: %v", err)
		}
		artifactBefore, err := os.ReadFile(encPath)
		if err != nil {
			t.Fatalf("Failed to read artifact: %v", err)
		}

		wrongKey, err := encryptor.GenerateKey()
		if err != nil {
			t.Fatalf("Failed to generate key: %v", err)
		}

		if _, err := svc.DecryptFile(encPath, wrongKey); !errors.Is(err, cryptoaes.ErrAuthentication) {
			t.Fatalf("expected ErrAuthentication, got %v", err)
		}

		artifactAfter, err := os.ReadFile(encPath)
		if err != nil {
			t.Fatalf("artifact gone after failed decrypt: %v", err)
		}
		if !bytes.Equal(artifactBefore, artifactAfter) {
			t.Error("artifact modified by failed decrypt")
		}
		if _, err := os.Stat(src); !os.IsNotExist(err) {
			t.Error("failed decrypt produced a plaintext file")
		}
	})

	t.Run("Preserving service keeps artifact after decrypt", func(t *testing.T) {
		dir := t.TempDir()
		src := writeTestFile(t, dir, "clip.mp4", []byte("video bytes"))

		if _, err := NewService(encryptor).EncryptFile(src, key); err != nil {
			t.Fatalf("EncryptFile error: %v", err)
		}

		svc := NewPreservingService(encryptor)
		if _, err := svc.DecryptFile(src+".enc", key); err != nil {
			t.Fatalf("DecryptFile error: %v", err)
		}
		if _, err := os.Stat(src + ".enc"); err != nil {
			t.Errorf("artifact missing after preserving decrypt: %v", err)
		}
		if _, err := os.Stat(src); err != nil {
			t.Errorf("restored file missing: %v", err)
		}
	})

	t.Run("Rejects non-artifact path", func(t *testing.T) {
		dir := t.TempDir()
		src := writeTestFile(t, dir, "photo.png", []byte("plain"))

		svc := NewService(encryptor)
		if _, err := svc.DecryptFile(src, key); err == nil {
			t.Error("expected error for non-.enc input")
		}
	})
}
