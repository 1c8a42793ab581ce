// Package inbox watches a drop directory and imports documents placed in it.
//
// Files are imported after a short settle delay so partially written drops
// (downloads, copies in progress) are picked up once, complete. Imports are
// rate limited to keep a bulk drop from saturating the store.
package inbox

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"github.com/stroma-labs/stroma-cli/internal/core/ports/driving"
	"github.com/stroma-labs/stroma-cli/internal/logger"
)

// settleDelay is how long a file must be quiet before it is imported.
const settleDelay = 500 * time.Millisecond

// defaultImportsPerSecond bounds the sustained import rate for bulk drops.
const defaultImportsPerSecond = 2.0

// importableExtensions are the file types the inbox picks up.
var importableExtensions = map[string]bool{
	".pdf":  true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
	".html": true,
	".htm":  true,
}

// Watcher imports documents dropped into a directory.
type Watcher struct {
	dir     string
	library driving.LibraryService
	limiter *rate.Limiter

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// NewWatcher creates an inbox watcher for dir. The directory is created if
// missing.
func NewWatcher(dir string, library driving.LibraryService) (*Watcher, error) {
	if dir == "" {
		return nil, fmt.Errorf("inbox directory not configured")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating inbox directory: %w", err)
	}

	return &Watcher{
		dir:     dir,
		library: library,
		limiter: rate.NewLimiter(rate.Limit(defaultImportsPerSecond), 1),
		timers:  make(map[string]*time.Timer),
	}, nil
}

// Dir returns the watched directory.
func (w *Watcher) Dir() string {
	return w.dir
}

// Run watches the inbox until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.dir, err)
	}

	logger.Info("watching inbox %s", w.dir)

	for {
		select {
		case <-ctx.Done():
			w.cancelTimers()
			return ctx.Err()

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Write) {
				w.schedule(ctx, event.Name)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("inbox watcher: %v", err)
		}
	}
}

// schedule arms the settle timer for one path, replacing any pending one so a
// file still being written imports once, after its last write.
func (w *Watcher) schedule(ctx context.Context, path string) {
	if !importableExtensions[strings.ToLower(filepath.Ext(path))] {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.timers[path]; ok {
		t.Stop()
	}
	w.timers[path] = time.AfterFunc(settleDelay, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()
		w.importFile(ctx, path)
	})
}

func (w *Watcher) importFile(ctx context.Context, path string) {
	if err := w.limiter.Wait(ctx); err != nil {
		return
	}

	// The file may have been removed while the settle timer ran.
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return
	}

	ref, err := w.library.ImportFromPath(ctx, path, "")
	if err != nil {
		logger.Warn("importing %s: %v", path, err)
		return
	}
	logger.Info("imported %s as reference %d", filepath.Base(path), ref.ID)
}

func (w *Watcher) cancelTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, t := range w.timers {
		t.Stop()
		delete(w.timers, path)
	}
}
