// drivesend/internal/monitor/monitor.go

// Package monitor wires the pipeline together: one polling watcher feeding a
// deduplicating queue drained by a worker pool. Start and Stop are the only
// control surface the hosting application needs.
package monitor

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"drivesend/internal/core/domain"
	"drivesend/internal/queue"
	"drivesend/internal/uploader"
	"drivesend/internal/watcher"
)

// Monitor owns the watcher, queue and pool lifecycles.
type Monitor struct {
	watchDir  string
	recursive bool
	interval  time.Duration
	options   domain.UploadOptions
	capacity  int
	logger    *slog.Logger

	newPool func(q *queue.Queue) *uploader.Pool

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
	pool    *uploader.Pool
}

type Params struct {
	WatchDir     string
	Recursive    bool
	PollInterval time.Duration
	Options      domain.UploadOptions
	// QueueCapacity bounds the buffered queue; zero uses the default. A
	// backlog beyond it stalls the watcher instead of dropping files.
	QueueCapacity int
	// NewPool builds the worker pool over the monitor's queue; injected so
	// tests can observe transfers without a real store.
	NewPool func(q *queue.Queue) *uploader.Pool
	Logger  *slog.Logger
}

func New(p Params) *Monitor {
	return &Monitor{
		watchDir:  p.WatchDir,
		recursive: p.Recursive,
		interval:  p.PollInterval,
		options:   p.Options,
		capacity:  p.QueueCapacity,
		logger:    p.Logger,
		newPool:   p.NewPool,
	}
}

// Start brings the pipeline up. It returns immediately; processing happens
// on background goroutines until Stop.
func (m *Monitor) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return errors.New("monitor already running")
	}

	watchCtx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.done = make(chan struct{})
	m.running = true

	w := watcher.New(m.watchDir, m.recursive, m.interval, m.logger)
	q := queue.New(m.capacity)
	m.pool = m.newPool(q)

	go w.Run(watchCtx)

	// Dispatcher: file-ready events become queue items. A full queue blocks
	// here, which backs up through the event channel into the watcher's poll
	// rather than dropping a file. When the watcher shuts its event stream,
	// no producer remains and the queue closes.
	go func() {
		for path := range w.Events() {
			item := domain.QueueItem{Path: path, Options: m.options}
			if !q.Enqueue(item) {
				m.logger.Debug("event discarded", "path", path)
			}
		}
		q.Close()
	}()

	go func() {
		defer close(m.done)
		// Workers get their own context: Stop halts the watcher and skips
		// unstarted items but never cuts off a file mid-write.
		m.pool.Run(context.Background())
	}()

	m.logger.Info("monitor started",
		"dir", m.watchDir, "recursive", m.recursive,
		"encryption", m.options.Encrypt, "poll", m.interval)
	return nil
}

// Stop halts the watcher, lets each worker finish the file it is on, and
// waits for the pipeline to wind down.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	cancel, done, pool := m.cancel, m.done, m.pool
	m.mu.Unlock()

	pool.Stop()
	cancel()
	<-done
	m.logger.Info("monitor stopped")
}

// Running reports whether the pipeline is up.
func (m *Monitor) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}
