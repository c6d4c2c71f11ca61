// drivesend/internal/storage/store.go

// Package storage defines the put-object capability the upload pipeline
// consumes and the error taxonomy the workers retry against. The remote
// provider's authentication and wider API are external collaborators; only
// the put (and its verification) is modeled here.
package storage

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrQuotaExceeded: remote storage quota hit. Permanent, never retried.
	ErrQuotaExceeded = errors.New("storage quota exceeded")

	// ErrPermissionDenied: caller lacks rights on the destination. Permanent.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrIntegrityMismatch: digest reported by the store differs from the
	// digest computed locally. Treated as a failed upload and retried.
	ErrIntegrityMismatch = errors.New("integrity mismatch")
)

// TransientError wraps failures worth retrying with backoff: network
// errors, throttling, 5xx responses.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("transient: %v", e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// Transient wraps err as retryable.
func Transient(err error) error {
	return &TransientError{Err: err}
}

// IsTransient reports whether err should be retried. Integrity mismatches
// count: the payload is intact locally, so a re-upload can succeed.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te) || errors.Is(err, ErrIntegrityMismatch)
}

// PutInput describes one object to store.
type PutInput struct {
	// Folder is the destination folder identifier; empty means the
	// configured root.
	Folder string
	// Name is the object's file name.
	Name string
	// ContentType is the MIME type attached to the object.
	ContentType string
	// Payload is the exact byte content to transmit.
	Payload []byte
	// Digest is the hex SHA-256 of Payload, attached as metadata and used
	// for post-put verification.
	Digest string
	// Metadata carries extra key/value pairs (uploader identity etc.).
	Metadata map[string]string
}

// PutResult reports a stored object.
type PutResult struct {
	ObjectID string
	Size     int64
	Digest   string
}

// ObjectStore is the opaque put-object capability.
type ObjectStore interface {
	Put(ctx context.Context, in PutInput) (PutResult, error)
}

// Config holds configuration shared by store implementations.
type Config struct {
	BucketName    string
	Region        string
	KeyPrefix     string
	DefaultFolder string
}
