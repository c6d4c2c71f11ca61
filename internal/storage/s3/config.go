// drivesend/internal/storage/s3/config.go
package s3

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"drivesend/internal/storage"
)

// DefaultConfig provides default configuration values
var DefaultConfig = storage.Config{
	BucketName:    "drivesend-uploads",
	Region:        "us-east-1",
	KeyPrefix:     "uploads/",
	DefaultFolder: "",
}

// NewClient creates a Store against the given bucket, probing reachability
// up front so misconfiguration fails at startup rather than on the first
// queued file.
func NewClient(ctx context.Context, cfg aws.Config, bucket string, opts ...func(*storage.Config)) (*Store, error) {
	client := s3.NewFromConfig(cfg)

	_, err := client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(bucket),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to access bucket %s: %w", bucket, err)
	}

	config := DefaultConfig
	config.BucketName = bucket
	config.Region = cfg.Region
	for _, opt := range opts {
		opt(&config)
	}

	return New(client, config), nil
}

// WithPrefix sets a custom key prefix for uploaded objects.
func WithPrefix(prefix string) func(*storage.Config) {
	return func(c *storage.Config) {
		if prefix != "" {
			c.KeyPrefix = prefix
		}
	}
}

// WithDefaultFolder sets the folder used when an item names none.
func WithDefaultFolder(folder string) func(*storage.Config) {
	return func(c *storage.Config) {
		c.DefaultFolder = folder
	}
}
