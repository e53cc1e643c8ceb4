package watcher

import (
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rotisserie/eris"

	"docsum/internal/logger"
)

// Options tunes the watcher.
type Options struct {
	// MaxConcurrent bounds parallel handler calls, default 2.
	MaxConcurrent int
	// SettleDelay is waited after a create event so the file is fully written.
	SettleDelay time.Duration
	// ScanExisting hands files already in the directory to the handler on Start.
	ScanExisting bool
	// Extensions lists accepted lowercase extensions, default .pdf .png .jpg .jpeg.
	Extensions []string
}

// New creates a new Watcher instance with concurrency control
func New(inputDir string, handler EventHandler, log logger.Logger, opts Options) (Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, eris.Wrap(err, "create watcher")
	}

	if err := watcher.Add(inputDir); err != nil {
		watcher.Close()
		return nil, eris.Wrapf(err, "add watch path %s", inputDir)
	}

	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = 2
	}
	if opts.SettleDelay < 0 {
		opts.SettleDelay = 0
	}
	if len(opts.Extensions) == 0 {
		opts.Extensions = []string{".pdf", ".png", ".jpg", ".jpeg"}
	}

	return &implWatcher{
		inputDir:  inputDir,
		handler:   handler,
		logger:    log,
		watcher:   watcher,
		opts:      opts,
		semaphore: newSemaphore(opts.MaxConcurrent),
	}, nil
}
