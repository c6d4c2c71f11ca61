// drivesend/internal/config/config.go

// Package config assembles the monitor daemon's settings. Precedence, lowest
// to highest: built-in defaults, environment variables, command-line flags.
// A `.env` file, if present, is folded into the environment by the caller
// before Load runs.
package config

import (
	"flag"
	"os"
	"strconv"
	"time"
)

// Config holds runtime settings for the DriveSend monitor.
type Config struct {
	// WatchDir is the root directory observed for new media files.
	WatchDir string
	// Bucket is the destination bucket name.
	Bucket string
	// Profile selects the AWS shared-config profile that supplies
	// credentials; empty uses the SDK's default chain.
	Profile string
	// FolderID is the destination folder identifier inside the bucket.
	FolderID string
	// Recursive also watches subdirectories, including ones created later.
	Recursive bool
	// EnableEncryption encrypts each file before upload.
	EnableEncryption bool
	// DeleteAfterUpload removes the uploaded artifact after a verified put.
	DeleteAfterUpload bool
	// Workers is the upload pool size.
	Workers int
	// PollInterval is the watcher's fixed polling interval.
	PollInterval time.Duration
	// EncryptionKey is an explicitly supplied key string; normally empty so
	// the key provider's env/credential-store chain is used.
	EncryptionKey string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.WatchDir = "output"
	c.Recursive = true
	c.Workers = 1
	c.PollInterval = time.Second
}

// Load constructs a Config, applies defaults, then overlays environment
// variables and command-line flags.
func Load() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	cfg.parseEnv()
	cfg.parseFlags(os.Args[1:])
	return cfg
}

func (c *Config) parseEnv() {
	if v := os.Getenv("DRIVESEND_WATCH_DIR"); v != "" {
		c.WatchDir = v
	}
	if v := os.Getenv("AWS_BUCKET_NAME"); v != "" {
		c.Bucket = v
	}
	if v := os.Getenv("AWS_PROFILE"); v != "" {
		c.Profile = v
	}
	if v := os.Getenv("DRIVESEND_FOLDER_ID"); v != "" {
		c.FolderID = v
	}
	if v := os.Getenv("DRIVESEND_RECURSIVE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Recursive = b
		}
	}
	if v := os.Getenv("DRIVESEND_ENCRYPT"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.EnableEncryption = b
		}
	}
	if v := os.Getenv("DRIVESEND_DELETE_AFTER_UPLOAD"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.DeleteAfterUpload = b
		}
	}
	if v := os.Getenv("DRIVESEND_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Workers = n
		}
	}
	if v := os.Getenv("DRIVESEND_POLL_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			c.PollInterval = d
		}
	}
}

func (c *Config) parseFlags(args []string) {
	fs := flag.NewFlagSet("drivesend", flag.ExitOnError)

	fs.StringVar(&c.WatchDir, "watch", c.WatchDir, "directory to monitor for new media files")
	fs.StringVar(&c.Bucket, "bucket", c.Bucket, "destination bucket name")
	fs.StringVar(&c.Profile, "profile", c.Profile, "AWS shared-config profile supplying credentials")
	fs.StringVar(&c.FolderID, "folder", c.FolderID, "destination folder identifier")
	fs.BoolVar(&c.Recursive, "recursive", c.Recursive, "also watch subdirectories")
	fs.BoolVar(&c.EnableEncryption, "encrypt", c.EnableEncryption, "encrypt files before upload")
	fs.BoolVar(&c.DeleteAfterUpload, "delete-after-upload", c.DeleteAfterUpload, "delete the uploaded artifact after a verified upload")
	fs.IntVar(&c.Workers, "workers", c.Workers, "number of upload workers")
	fs.DurationVar(&c.PollInterval, "poll", c.PollInterval, "watcher poll interval")
	fs.StringVar(&c.EncryptionKey, "key", c.EncryptionKey, "explicit encryption key (overrides env and credential store)")

	// ExitOnError: parse failures print usage and stop the process.
	_ = fs.Parse(args)
}
