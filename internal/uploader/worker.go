// drivesend/internal/uploader/worker.go

// Package uploader drains the queue through a fixed pool of workers. Each
// worker processes one file at a time: optional encrypt, digest, put,
// verify, cleanup. Transient failures are retried with bounded exponential
// backoff; terminal failures are always reported, never dropped.
package uploader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"drivesend/internal/core/domain"
	"drivesend/internal/encryption/service"
	"drivesend/internal/integrity"
	"drivesend/internal/queue"
	"drivesend/internal/storage"
)

// RetryPolicy bounds the retry loop for transient failures.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// DefaultRetryPolicy allows a file that fails transiently three times to
// still succeed on the fourth attempt.
var DefaultRetryPolicy = RetryPolicy{
	MaxAttempts: 5,
	BaseDelay:   time.Second,
	MaxDelay:    30 * time.Second,
}

// ResultFunc observes every terminal transfer record.
type ResultFunc func(domain.TransferRecord)

// Pool processes queue items with a fixed number of workers.
type Pool struct {
	queue    *queue.Queue
	store    storage.ObjectStore
	cipher   service.Service
	key      []byte
	metadata map[string]string
	workers  int
	retry    RetryPolicy
	logger   *slog.Logger
	onResult ResultFunc

	stopping atomic.Bool
}

type Config struct {
	Workers  int
	Retry    RetryPolicy
	Key      []byte            // required only when items request encryption
	Metadata map[string]string // attached to every object
	OnResult ResultFunc        // optional terminal-outcome observer
}

func NewPool(q *queue.Queue, store storage.ObjectStore, cipher service.Service, cfg Config, logger *slog.Logger) *Pool {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.Retry.MaxAttempts <= 0 {
		cfg.Retry = DefaultRetryPolicy
	}
	return &Pool{
		queue:    q,
		store:    store,
		cipher:   cipher,
		key:      cfg.Key,
		metadata: cfg.Metadata,
		workers:  cfg.Workers,
		retry:    cfg.Retry,
		logger:   logger,
		onResult: cfg.OnResult,
	}
}

// Run dispatches queue items to the workers and blocks until the queue is
// closed and every in-flight file has reached a terminal outcome. Items are
// picked up in enqueue order; completion order across files is not defined.
func (p *Pool) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range p.queue.Items() {
				if p.stopping.Load() {
					// The file in progress finishes; items never started
					// are reported and released, and will re-enqueue on
					// the next run's first poll.
					p.logger.Warn("dropping queued item on shutdown", "path", item.Path)
					p.queue.Done(item.Path)
					continue
				}
				p.process(ctx, item)
			}
		}()
	}
	wg.Wait()
}

// Stop makes workers skip items they have not started yet. The file each
// worker is currently on is never interrupted mid-write.
func (p *Pool) Stop() {
	p.stopping.Store(true)
}

// process takes one item to a terminal outcome and only then releases its
// path from the in-flight set.
func (p *Pool) process(ctx context.Context, item domain.QueueItem) {
	defer p.queue.Done(item.Path)

	record := domain.TransferRecord{
		ID:         uuid.NewString(),
		SourcePath: item.Path,
		Outcome:    domain.TransferRetrying,
		StartedAt:  time.Now().UTC(),
	}

	p.upload(ctx, item, &record)

	record.FinishedAt = time.Now().UTC()
	if record.Outcome == domain.TransferSuccess {
		p.logger.Info("upload complete",
			"path", item.Path, "object", record.RemoteObjectID, "attempts", record.Attempts)
	} else {
		p.logger.Error("upload failed permanently",
			"path", item.Path, "attempts", record.Attempts, "error", record.Err)
	}
	if p.onResult != nil {
		p.onResult(record)
	}
}

func (p *Pool) upload(ctx context.Context, item domain.QueueItem, record *domain.TransferRecord) {
	uploadPath := item.Path
	if item.Options.Encrypt {
		if len(p.key) == 0 {
			record.Outcome = domain.TransferFailed
			record.Err = errors.New("encryption enabled but no key resolved")
			return
		}
		encPath, err := p.cipher.EncryptFile(item.Path, p.key)
		if err != nil {
			record.Outcome = domain.TransferFailed
			record.Err = fmt.Errorf("encrypt stage: %w", err)
			return
		}
		uploadPath = encPath
	}
	record.UploadedPath = uploadPath

	payload, err := os.ReadFile(uploadPath)
	if err != nil {
		record.Outcome = domain.TransferFailed
		record.Err = fmt.Errorf("read stage: %w", err)
		return
	}
	record.Digest = integrity.Sum(payload)

	in := storage.PutInput{
		Folder:      item.Options.FolderID,
		Name:        filepath.Base(uploadPath),
		ContentType: domain.MimeType(uploadPath),
		Payload:     payload,
		Digest:      record.Digest,
		Metadata:    p.metadata,
	}

	for attempt := 1; attempt <= p.retry.MaxAttempts; attempt++ {
		record.Attempts = attempt

		result, err := p.store.Put(ctx, in)
		if err == nil {
			record.RemoteObjectID = result.ObjectID
			record.Outcome = domain.TransferSuccess
			p.cleanup(item, uploadPath)
			return
		}

		record.Err = err
		if !storage.IsTransient(err) {
			record.Outcome = domain.TransferFailed
			return
		}

		if attempt < p.retry.MaxAttempts {
			delay := p.backoffDelay(attempt)
			p.logger.Warn("upload attempt failed, retrying",
				"path", item.Path, "attempt", attempt, "delay", delay, "error", err)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				record.Outcome = domain.TransferFailed
				record.Err = fmt.Errorf("cancelled during retry: %w", ctx.Err())
				return
			}
		}
	}

	record.Outcome = domain.TransferFailed
	record.Err = fmt.Errorf("exhausted %d attempts: %w", p.retry.MaxAttempts, record.Err)
}

// cleanup removes the uploaded artifact when configured to. The source file
// itself was already replaced by the encrypt stage, so after this the only
// remaining copy is the remote one.
func (p *Pool) cleanup(item domain.QueueItem, uploadPath string) {
	if !item.Options.DeleteAfterUpload {
		return
	}
	if err := os.Remove(uploadPath); err != nil {
		p.logger.Warn("failed to delete uploaded artifact", "path", uploadPath, "error", err)
	}
}

// backoffDelay is exponential with ±25% jitter, capped at MaxDelay.
func (p *Pool) backoffDelay(attempt int) time.Duration {
	delay := p.retry.BaseDelay << (attempt - 1)
	if delay > p.retry.MaxDelay {
		delay = p.retry.MaxDelay
	}
	jitter := time.Duration(rand.Int63n(int64(delay)/2+1)) - delay/4
	return delay + jitter
}
