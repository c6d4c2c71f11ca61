// drivesend/internal/batch/batch.go

// Package batch is the offline companion to the upload pipeline: a single,
// non-monitoring pass that encrypts or decrypts every matching file under a
// folder tree. It shares the cipher transform and key resolution with the
// pipeline but touches no queue and no remote store.
package batch

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"drivesend/internal/core/domain"
	"drivesend/internal/encryption/service"
)

// QuarantineDirName is where decrypted originals are moved when the operator
// asks for it. They are moved, never deleted.
const QuarantineDirName = "_encrypted_originals"

// Mode selects the direction of the pass.
type Mode int

const (
	ModeEncrypt Mode = iota
	ModeDecrypt
)

// Result tallies one pass. Failed files are listed with their errors; a
// per-file failure never aborts the rest of the batch.
type Result struct {
	Processed []string
	Failed    map[string]error
}

func (r Result) Succeeded() int { return len(r.Processed) }

// Runner performs batch passes with a given cipher service.
type Runner struct {
	cipher service.Service

	// Log receives one line per file; nil means silent.
	Log func(format string, args ...any)
}

func NewRunner(cipher service.Service) *Runner {
	return &Runner{cipher: cipher}
}

func (r *Runner) logf(format string, args ...any) {
	if r.Log != nil {
		r.Log(format, args...)
	}
}

// Run enumerates matching files under root and applies the transform to each
// with the same atomic temp-then-rename discipline as the pipeline.
func (r *Runner) Run(root string, mode Mode, recursive bool, key []byte) (Result, error) {
	files, err := Enumerate(root, mode, recursive)
	if err != nil {
		return Result{}, err
	}

	result := Result{Failed: make(map[string]error)}
	for _, path := range files {
		var out string
		var err error
		switch mode {
		case ModeEncrypt:
			out, err = r.cipher.EncryptFile(path, key)
		case ModeDecrypt:
			out, err = r.cipher.DecryptFile(path, key)
		}
		if err != nil {
			result.Failed[path] = err
			r.logf("  x %s: %v", filepath.Base(path), err)
			continue
		}
		result.Processed = append(result.Processed, path)
		r.logf("  + %s -> %s", filepath.Base(path), filepath.Base(out))
	}
	return result, nil
}

// Enumerate lists the files a pass would touch: media extensions in encrypt
// mode, `.enc` artifacts in decrypt mode.
func Enumerate(root string, mode Mode, recursive bool) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == QuarantineDirName {
				return filepath.SkipDir
			}
			if !recursive && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		switch mode {
		case ModeEncrypt:
			if domain.IsSupportedMedia(path) {
				files = append(files, path)
			}
		case ModeDecrypt:
			if domain.IsEncryptedArtifact(path) {
				files = append(files, path)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}
	return files, nil
}

// Quarantine moves the given `.enc` files into root/_encrypted_originals,
// returning how many were moved. Files that already vanished are skipped.
func Quarantine(root string, encFiles []string) (int, error) {
	dir := filepath.Join(root, QuarantineDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("failed to create quarantine dir: %w", err)
	}

	moved := 0
	for _, path := range encFiles {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}
		dest := filepath.Join(dir, filepath.Base(path))
		if err := os.Rename(path, dest); err != nil {
			return moved, fmt.Errorf("failed to move %s: %w", path, err)
		}
		moved++
	}
	return moved, nil
}

// ResolveFolder validates operator input as an existing directory. Quoting
// and escaped spaces from shell drag-and-drop are stripped first.
func ResolveFolder(input string) (string, error) {
	folder := strings.TrimSpace(input)
	folder = strings.Trim(folder, `"'`)
	folder = strings.ReplaceAll(folder, `\ `, " ")
	if folder == "" {
		return "", fmt.Errorf("no folder given")
	}
	info, err := os.Stat(folder)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("%q is not a valid directory", folder)
	}
	return folder, nil
}
