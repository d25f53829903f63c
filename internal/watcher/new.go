package watcher

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gofrs/flock"

	"github.com/nguyentantai21042004/lecture-notes/internal/logger"
)

const lockFileName = ".lecturenotes.lock"

// Config configures the folder watcher.
type Config struct {
	InputDir      string
	MaxConcurrent int
	// SettleDelay is how long a new file's size must stay unchanged before it is handled.
	SettleDelay time.Duration
}

// New creates a new Watcher instance with concurrency control. Only one watcher may
// own an input directory at a time.
func New(cfg Config, handler EventHandler, log logger.Logger) (Watcher, error) {
	lock := flock.New(filepath.Join(cfg.InputDir, lockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock input dir: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("another watcher is already monitoring %s", cfg.InputDir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(cfg.InputDir); err != nil {
		watcher.Close()
		_ = lock.Unlock()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	// Default to 2 concurrent if not specified
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 2
	}
	if cfg.SettleDelay <= 0 {
		cfg.SettleDelay = 500 * time.Millisecond
	}

	return &implWatcher{
		inputDir:      cfg.InputDir,
		handler:       handler,
		logger:        log,
		watcher:       watcher,
		lock:          lock,
		settleDelay:   cfg.SettleDelay,
		maxConcurrent: cfg.MaxConcurrent,
		semaphore:     make(chan struct{}, cfg.MaxConcurrent),
		seen:          make(map[string]bool),
	}, nil
}
