package sqlexec

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/leapstack-labs/leaplite/pkg/completion"
)

const watchDebounce = 100 * time.Millisecond

// Refresher rebuilds the completion snapshot in a background worker and
// publishes it atomically. Readers always see either the previous complete
// snapshot or the new one, never a partial state.
type Refresher struct {
	exec     *Executor
	log      *slog.Logger
	current  atomic.Pointer[completion.Snapshot]
	requests chan struct{}
}

// NewRefresher wraps an executor. Call Start before Request.
func NewRefresher(exec *Executor, log *slog.Logger) *Refresher {
	return &Refresher{
		exec:     exec,
		log:      log,
		requests: make(chan struct{}, 1),
	}
}

// Start launches the refresh worker, starts watching the database file when
// there is one, and queues the initial load. The worker exits when ctx is
// cancelled.
func (r *Refresher) Start(ctx context.Context) {
	go r.loop(ctx)
	if path := r.exec.Path(); path != "" {
		r.watch(ctx, path)
	}
	r.Request()
}

// Request queues a snapshot rebuild. Requests arriving while a rebuild is in
// flight coalesce into a single follow-up rebuild.
func (r *Refresher) Request() {
	select {
	case r.requests <- struct{}{}:
	default:
	}
}

// Snapshot returns the most recently published snapshot, or nil before the
// first successful load completes.
func (r *Refresher) Snapshot() *completion.Snapshot {
	return r.current.Load()
}

func (r *Refresher) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-r.requests:
			snap, err := r.exec.LoadSnapshot(ctx)
			if err != nil {
				// A failed or cancelled load keeps the previous snapshot.
				r.log.Warn("completion refresh failed", "error", err)
				continue
			}
			r.current.Store(snap)
			r.log.Debug("completion snapshot refreshed",
				"tables", len(snap.Tables()),
				"views", len(snap.Views()))
		}
	}
}

// watch requests refreshes when another process writes the database file.
// Watch setup failures degrade to DDL-triggered refreshes only.
func (r *Refresher) watch(ctx context.Context, path string) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		r.log.Warn("file watch unavailable", "error", err)
		return
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		r.log.Warn("file watch unavailable", "path", path, "error", err)
		_ = watcher.Close()
		return
	}
	go r.watchLoop(ctx, watcher, filepath.Base(path))
}

func (r *Refresher) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, base string) {
	defer func() { _ = watcher.Close() }()

	var debounce *time.Timer
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			// SQLite touches the main file, the -wal, or the -journal
			// depending on journal mode.
			name := filepath.Base(event.Name)
			if name != base && name != base+"-wal" && name != base+"-journal" {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(watchDebounce, r.Request)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			r.log.Warn("file watch error", "error", err)
		}
	}
}
