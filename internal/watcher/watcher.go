// drivesend/internal/watcher/watcher.go

// Package watcher polls a directory tree and reports files that are ready to
// upload. A file is only reported once it is stable: producers write media
// incrementally, so a path must show the same size and modification time on
// two consecutive polls before it leaves the pending state.
package watcher

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"drivesend/internal/core/domain"
)

const DefaultPollInterval = time.Second

// state machine per observed path: unseen -> pending -> stable -> enqueued.
type pathState int

const (
	statePending pathState = iota
	stateEnqueued
)

type fileState struct {
	state   pathState
	size    int64
	modTime time.Time
	// stablePolls counts consecutive polls with identical size and mtime.
	stablePolls int
}

// Watcher emits stable media file paths on Events. It never blocks on I/O
// longer than one poll interval; stability checks are plain stat calls.
type Watcher struct {
	root      string
	recursive bool
	interval  time.Duration
	logger    *slog.Logger

	seen   map[string]*fileState
	events chan string
}

func New(root string, recursive bool, interval time.Duration, logger *slog.Logger) *Watcher {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Watcher{
		root:      root,
		recursive: recursive,
		interval:  interval,
		logger:    logger,
		seen:      make(map[string]*fileState),
		events:    make(chan string, 1024),
	}
}

// Events is the lazy sequence of file-ready paths. It is closed when Run
// returns.
func (w *Watcher) Events() <-chan string {
	return w.events
}

// Run polls until ctx is cancelled. Cancellation stops new emissions within
// one poll interval.
func (w *Watcher) Run(ctx context.Context) {
	defer close(w.events)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		w.poll(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// poll walks the root once and advances every observed path's state. New
// subdirectories are picked up by the walk itself, so recursive mode needs
// no restart to cover folders created after start.
func (w *Watcher) poll(ctx context.Context) {
	err := filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// A vanished or unreadable entry is not fatal to the poll.
			return nil
		}
		if ctx.Err() != nil {
			return filepath.SkipAll
		}
		if d.IsDir() {
			if !w.recursive && path != w.root {
				return filepath.SkipDir
			}
			return nil
		}
		w.observe(ctx, path, d)
		return nil
	})
	if err != nil {
		w.logger.Warn("poll failed", "root", w.root, "error", err)
	}

	w.forgetMissing()
}

func (w *Watcher) observe(ctx context.Context, path string, d fs.DirEntry) {
	if strings.HasPrefix(d.Name(), ".") || !domain.IsSupportedMedia(path) {
		return
	}

	info, err := d.Info()
	if err != nil {
		return
	}

	st, ok := w.seen[path]
	if !ok {
		w.seen[path] = &fileState{
			state:   statePending,
			size:    info.Size(),
			modTime: info.ModTime(),
		}
		return
	}

	if st.state == stateEnqueued {
		return
	}

	if st.size == info.Size() && st.modTime.Equal(info.ModTime()) {
		st.stablePolls++
	} else {
		st.size = info.Size()
		st.modTime = info.ModTime()
		st.stablePolls = 0
		return
	}

	// Two consecutive identical polls: the producer has finished writing.
	if st.stablePolls >= 1 {
		st.state = stateEnqueued
		select {
		case w.events <- path:
			w.logger.Info("file ready", "path", path, "size", st.size)
		case <-ctx.Done():
		}
	}
}

// forgetMissing drops state for paths that no longer exist, so a file that
// reappears later is treated as new.
func (w *Watcher) forgetMissing() {
	for path, st := range w.seen {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if st.state != stateEnqueued {
				w.logger.Debug("pending file vanished", "path", path)
			}
			delete(w.seen, path)
		}
	}
}
