// drivesend/internal/storage/s3/store.go
package s3

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/google/uuid"

	"drivesend/internal/storage"
)

// Store implements storage.ObjectStore on an S3 bucket. The destination
// folder identifier maps to a key prefix inside the bucket.
type Store struct {
	client *s3.Client
	config storage.Config
}

func New(client *s3.Client, config storage.Config) *Store {
	return &Store{
		client: client,
		config: config,
	}
}

// Put uploads one object and verifies it arrived intact. S3 recomputes the
// SHA-256 server-side when the checksum algorithm is set, so a corrupted
// transfer is rejected; the returned checksum is compared once more against
// the caller's digest to close the loop.
func (s *Store) Put(ctx context.Context, in storage.PutInput) (storage.PutResult, error) {
	expected, err := checksumBase64(in.Digest)
	if err != nil {
		return storage.PutResult{}, err
	}

	key := s.objectKey(in.Folder, in.Name)
	metadata := map[string]string{
		"sha256":    in.Digest,
		"upload-id": uuid.NewString(),
	}
	for k, v := range in.Metadata {
		metadata[k] = v
	}

	out, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:            aws.String(s.config.BucketName),
		Key:               aws.String(key),
		Body:              bytes.NewReader(in.Payload),
		ContentType:       aws.String(in.ContentType),
		ChecksumAlgorithm: types.ChecksumAlgorithmSha256,
		ChecksumSHA256:    aws.String(expected),
		Metadata:          metadata,
	})
	if err != nil {
		return storage.PutResult{}, classify(err)
	}

	if got := aws.ToString(out.ChecksumSHA256); got != "" && got != expected {
		return storage.PutResult{}, fmt.Errorf("%w: put %s: expected %s, store reported %s",
			storage.ErrIntegrityMismatch, key, expected, got)
	}

	return storage.PutResult{
		ObjectID: key,
		Size:     int64(len(in.Payload)),
		Digest:   in.Digest,
	}, nil
}

func (s *Store) objectKey(folder, name string) string {
	if folder == "" {
		folder = s.config.DefaultFolder
	}
	return path.Join(s.config.KeyPrefix, folder, name)
}

// checksumBase64 converts a hex SHA-256 digest into the base64 form the S3
// checksum API speaks.
func checksumBase64(digest string) (string, error) {
	raw, err := hex.DecodeString(digest)
	if err != nil || len(raw) != 32 {
		return "", fmt.Errorf("invalid sha256 digest %q", digest)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// classify maps provider errors onto the pipeline taxonomy. Anything not
// recognized as a permanent condition is considered transient and retried.
func classify(err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "AccessDenied", "AllAccessDisabled", "InvalidAccessKeyId", "SignatureDoesNotMatch":
			return fmt.Errorf("%w: %v", storage.ErrPermissionDenied, err)
		case "QuotaExceeded", "ServiceQuotaExceededException", "EntityTooLarge":
			return fmt.Errorf("%w: %v", storage.ErrQuotaExceeded, err)
		case "NoSuchBucket":
			return fmt.Errorf("%w: %v", storage.ErrPermissionDenied, err)
		}
	}
	return storage.Transient(err)
}
