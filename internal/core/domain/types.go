// drivesend/internal/core/domain/types.go
package domain

import (
	"path/filepath"
	"strings"
	"time"
)

// EncryptedSuffix is appended to a file name when its payload is encrypted
// and stripped again on decrypt.
const EncryptedSuffix = ".enc"

// supportedExtensions lists the media extensions the watcher and the batch
// tool act on. Everything else is ignored.
var supportedExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".webp": {},
	".gif":  {},
	".mp4":  {},
	".avi":  {},
	".mov":  {},
}

// mimeTypes maps extensions to upload content types. Unknown extensions and
// encrypted artifacts fall back to application/octet-stream.
var mimeTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".webp": "image/webp",
	".gif":  "image/gif",
	".mp4":  "video/mp4",
	".avi":  "video/x-msvideo",
	".mov":  "video/quicktime",
	".enc":  "application/octet-stream",
}

// IsSupportedMedia reports whether path carries one of the watched media
// extensions.
func IsSupportedMedia(path string) bool {
	_, ok := supportedExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// IsEncryptedArtifact reports whether path names an encrypted artifact.
func IsEncryptedArtifact(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), EncryptedSuffix)
}

// MimeType returns the content type for path based on its extension.
func MimeType(path string) string {
	if mt, ok := mimeTypes[strings.ToLower(filepath.Ext(path))]; ok {
		return mt
	}
	return "application/octet-stream"
}

// WatchedFile is a path the watcher has observed, with the stat attributes
// used for stability detection.
type WatchedFile struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// UploadOptions carries the per-item processing switches set by the host
// configuration.
type UploadOptions struct {
	Encrypt           bool
	DeleteAfterUpload bool
	FolderID          string
}

// QueueItem wraps a stable file path with its processing options. At most
// one item per path may be outstanding at any time.
type QueueItem struct {
	Path    string
	Options UploadOptions
}

// TransferOutcome is the terminal (or retrying) state of a transfer.
type TransferOutcome string

const (
	TransferRetrying TransferOutcome = "retrying"
	TransferSuccess  TransferOutcome = "success"
	TransferFailed   TransferOutcome = "failed"
)

// TransferRecord is the ephemeral bookkeeping for one upload: created when a
// worker picks up an item, discarded once the outcome is terminal.
type TransferRecord struct {
	ID             string
	SourcePath     string
	UploadedPath   string
	Digest         string
	RemoteObjectID string
	Outcome        TransferOutcome
	Attempts       int
	Err            error
	StartedAt      time.Time
	FinishedAt     time.Time
}
