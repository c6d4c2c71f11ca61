// drivesend/internal/batch/batch_test.go
package batch

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"drivesend/internal/encryption/service"
	cryptoaes "drivesend/internal/pkg/crypto/aes"
)

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func testKey(t *testing.T) []byte {
	t.Helper()
	key, err := cryptoaes.NewGCMEncryptor().GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	return key
}

func TestEncryptDecryptScenario(t *testing.T) {
	dir := t.TempDir()
	original := []byte("0123456789") // 10 bytes
	src := writeFile(t, dir, "photo.png", original)
	key := testKey(t)

	encryptor := cryptoaes.NewGCMEncryptor()

	// Encrypt pass: produces photo.png.enc, removes photo.png.
	encRunner := NewRunner(service.NewService(encryptor))
	result, err := encRunner.Run(dir, ModeEncrypt, false, key)
	if err != nil {
		t.Fatalf("encrypt pass: %v", err)
	}
	if result.Succeeded() != 1 || len(result.Failed) != 0 {
		t.Fatalf("encrypt tally = %d ok / %d failed, want 1/0", result.Succeeded(), len(result.Failed))
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Error("photo.png still present after encrypt pass")
	}
	if _, err := os.Stat(src + ".enc"); err != nil {
		t.Fatalf("photo.png.enc missing: %v", err)
	}

	// Decrypt pass: reproduces photo.png byte-identical, keeps the artifact.
	decRunner := NewRunner(service.NewPreservingService(encryptor))
	result, err = decRunner.Run(dir, ModeDecrypt, false, key)
	if err != nil {
		t.Fatalf("decrypt pass: %v", err)
	}
	if result.Succeeded() != 1 || len(result.Failed) != 0 {
		t.Fatalf("decrypt tally = %d ok / %d failed, want 1/0", result.Succeeded(), len(result.Failed))
	}

	restored, err := os.ReadFile(src)
	if err != nil {
		t.Fatalf("restored file missing: %v", err)
	}
	if !bytes.Equal(restored, original) {
		t.Errorf("restored bytes = %q, want %q", restored, original)
	}
}

func TestDecryptWithWrongKey(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "photo.png", []byte("0123456789"))
	key := testKey(t)
	wrongKey := testKey(t)

	encryptor := cryptoaes.NewGCMEncryptor()
	if _, err := NewRunner(service.NewService(encryptor)).Run(dir, ModeEncrypt, false, key); err != nil {
		t.Fatalf("encrypt pass: %v", err)
	}

	encPath := filepath.Join(dir, "photo.png.enc")
	before, err := os.ReadFile(encPath)
	if err != nil {
		t.Fatalf("artifact missing: %v", err)
	}

	result, err := NewRunner(service.NewPreservingService(encryptor)).Run(dir, ModeDecrypt, false, wrongKey)
	if err != nil {
		t.Fatalf("decrypt pass: %v", err)
	}
	if result.Succeeded() != 0 || len(result.Failed) != 1 {
		t.Fatalf("tally = %d ok / %d failed, want 0/1", result.Succeeded(), len(result.Failed))
	}

	after, err := os.ReadFile(encPath)
	if err != nil {
		t.Fatalf("artifact gone after failed decrypt: %v", err)
	}
	if !bytes.Equal(before, after) {
		t.Error("artifact modified by failed decrypt")
	}
}

func TestBatchContinuesPastFailures(t *testing.T) {
	dir := t.TempDir()
	key := testKey(t)
	encryptor := cryptoaes.NewGCMEncryptor()

	// One real artifact and one piece of junk wearing the suffix.
	writeFile(t, dir, "good.png", []byte("good bytes"))
	if _, err := NewRunner(service.NewService(encryptor)).Run(dir, ModeEncrypt, false, key); err != nil {
		t.Fatalf("encrypt pass: %v", err)
	}
	writeFile(t, dir, "junk.png.enc", []byte("not ciphertext"))

	result, err := NewRunner(service.NewPreservingService(encryptor)).Run(dir, ModeDecrypt, false, key)
	if err != nil {
		t.Fatalf("decrypt pass: %v", err)
	}
	if result.Succeeded() != 1 {
		t.Errorf("succeeded = %d, want 1", result.Succeeded())
	}
	if len(result.Failed) != 1 {
		t.Errorf("failed = %d, want 1", len(result.Failed))
	}
}

func TestEnumerate(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.png", []byte("a"))
	writeFile(t, dir, "b.txt", []byte("b"))
	writeFile(t, dir, "c.enc", []byte("c"))
	writeFile(t, dir, filepath.Join("sub", "d.mp4"), []byte("d"))
	writeFile(t, dir, filepath.Join(QuarantineDirName, "old.enc"), []byte("old"))

	tests := []struct {
		name      string
		mode      Mode
		recursive bool
		want      int
	}{
		{name: "Encrypt flat", mode: ModeEncrypt, recursive: false, want: 1},
		{name: "Encrypt recursive", mode: ModeEncrypt, recursive: true, want: 2},
		{name: "Decrypt flat skips quarantine", mode: ModeDecrypt, recursive: false, want: 1},
		{name: "Decrypt recursive skips quarantine", mode: ModeDecrypt, recursive: true, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files, err := Enumerate(dir, tt.mode, tt.recursive)
			if err != nil {
				t.Fatalf("Enumerate: %v", err)
			}
			if len(files) != tt.want {
				t.Errorf("got %d files %v, want %d", len(files), files, tt.want)
			}
		})
	}
}

func TestQuarantine(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.enc", []byte("a"))
	b := writeFile(t, dir, "b.enc", []byte("b"))
	gone := filepath.Join(dir, "vanished.enc")

	moved, err := Quarantine(dir, []string{a, b, gone})
	if err != nil {
		t.Fatalf("Quarantine: %v", err)
	}
	if moved != 2 {
		t.Errorf("moved = %d, want 2", moved)
	}

	for _, name := range []string{"a.enc", "b.enc"} {
		if _, err := os.Stat(filepath.Join(dir, QuarantineDirName, name)); err != nil {
			t.Errorf("%s not in quarantine: %v", name, err)
		}
		if _, err := os.Stat(filepath.Join(dir, name)); !os.IsNotExist(err) {
			t.Errorf("%s still in root", name)
		}
	}
}

func TestResolveFolder(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "Plain path", input: dir, want: dir},
		{name: "Quoted path", input: `"` + dir + `"`, want: dir},
		{name: "Surrounding whitespace", input: "  " + dir + "  ", want: dir},
		{name: "Empty", input: "   ", wantErr: true},
		{name: "Missing directory", input: filepath.Join(dir, "nope"), wantErr: true},
		{name: "File not directory", input: writeFile(t, dir, "f.png", []byte("x")), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveFolder(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr = %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
