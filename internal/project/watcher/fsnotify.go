package watcher

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/ksreactive/internal/logging"
)

// FSNotifyWatcher is a Watcher backed by fsnotify. It delivers raw,
// undebounced events; wrap it with NewDebouncedWatcher for coalescing.
type FSNotifyWatcher struct {
	mu sync.RWMutex

	fsw    *fsnotify.Watcher
	config Config
	ignore *IgnorePatterns
	logger *logging.Logger
	paths  map[string]bool
	roots  []string

	events chan Event
	errors chan error

	startTime   time.Time
	totalEvents atomic.Int64
	totalErrors atomic.Int64
	lastError   error

	closed  bool
	closeCh chan struct{}
	done    sync.WaitGroup
}

// NewFSNotifyWatcher creates a watcher. It watches nothing until Watch or
// WatchRecursive is called.
func NewFSNotifyWatcher(opts ...Option) (*FSNotifyWatcher, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = DefaultConfig().BufferSize
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Null
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	ignore := NewIgnorePatterns()
	ignore.AddPatterns(cfg.IgnorePatterns)

	w := &FSNotifyWatcher{
		fsw:       fsw,
		config:    cfg,
		ignore:    ignore,
		logger:    cfg.Logger.WithComponent("watcher"),
		paths:     make(map[string]bool),
		events:    make(chan Event, cfg.BufferSize),
		errors:    make(chan error, cfg.BufferSize),
		startTime: time.Now(),
		closeCh:   make(chan struct{}),
	}

	w.done.Add(1)
	go w.processLoop()

	return w, nil
}

// Watch watches path.
func (w *FSNotifyWatcher) Watch(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(abs); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrPathNotExist, abs)
		}
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}
	if w.paths[abs] {
		return ErrAlreadyWatching
	}
	if w.config.MaxWatches > 0 && len(w.paths) >= w.config.MaxWatches {
		return fmt.Errorf("%w (%d)", ErrWatchLimit, w.config.MaxWatches)
	}
	if err := w.fsw.Add(abs); err != nil {
		return fmt.Errorf("watch %s: %w", abs, err)
	}
	w.paths[abs] = true
	return nil
}

// WatchRecursive watches root and every directory below it that is not
// ignored. Directories created later are added as they appear.
func (w *FSNotifyWatcher) WatchRecursive(root string) error {
	abs, err := filepath.Abs(root)
	if err != nil {
		return err
	}
	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrPathNotExist, abs)
		}
		return err
	}
	if !info.IsDir() {
		return w.Watch(abs)
	}
	w.addRoot(abs)

	return filepath.WalkDir(abs, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			w.recordError(err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if p != abs && w.shouldIgnore(p, true) {
			return filepath.SkipDir
		}
		if err := w.Watch(p); err != nil && !errors.Is(err, ErrAlreadyWatching) {
			if errors.Is(err, ErrWatchLimit) || errors.Is(err, ErrWatcherClosed) {
				return err
			}
			w.recordError(err)
		}
		return nil
	})
}

// Unwatch stops watching path.
func (w *FSNotifyWatcher) Unwatch(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}
	if !w.paths[abs] {
		return ErrNotWatching
	}
	delete(w.paths, abs)
	if err := w.fsw.Remove(abs); err != nil && !errors.Is(err, fsnotify.ErrNonExistentWatch) {
		return fmt.Errorf("unwatch %s: %w", abs, err)
	}
	return nil
}

func (w *FSNotifyWatcher) Events() <-chan Event { return w.events }
func (w *FSNotifyWatcher) Errors() <-chan error { return w.errors }

// Close stops the watcher and closes its channels. It is safe to call more
// than once.
func (w *FSNotifyWatcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	w.mu.Unlock()

	w.done.Wait()
	close(w.events)
	close(w.errors)
	return w.fsw.Close()
}

func (w *FSNotifyWatcher) Stats() Stats {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return Stats{
		WatchedPaths:  len(w.paths),
		PendingEvents: len(w.events),
		TotalEvents:   w.totalEvents.Load(),
		Errors:        w.totalErrors.Load(),
		LastError:     w.lastError,
		StartTime:     w.startTime,
	}
}

func (w *FSNotifyWatcher) IsWatching(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.paths[abs]
}

// WatchedPaths returns the watched paths, sorted.
func (w *FSNotifyWatcher) WatchedPaths() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	paths := make([]string, 0, len(w.paths))
	for p := range w.paths {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

func (w *FSNotifyWatcher) processLoop() {
	defer w.done.Done()

	for {
		select {
		case <-w.closeCh:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.recordError(err)
			select {
			case w.errors <- err:
			default:
			}
		}
	}
}

func (w *FSNotifyWatcher) handle(raw fsnotify.Event) {
	op := convertOp(raw.Op)
	if op == 0 {
		return
	}

	var isDir bool
	if op.Has(OpCreate) {
		if info, err := os.Stat(raw.Name); err == nil {
			isDir = info.IsDir()
		}
	}
	if w.shouldIgnore(raw.Name, isDir) {
		return
	}

	// New directories inherit the recursive watch.
	if isDir {
		if err := w.WatchRecursive(raw.Name); err != nil {
			w.recordError(err)
		}
	}

	ev := Event{Path: raw.Name, Op: op, Time: time.Now()}
	select {
	case w.events <- ev:
		w.totalEvents.Add(1)
	default:
		w.recordError(fmt.Errorf("event channel full, dropped %s %s", op, raw.Name))
	}
}

func convertOp(in fsnotify.Op) Op {
	var op Op
	if in.Has(fsnotify.Create) {
		op |= OpCreate
	}
	if in.Has(fsnotify.Write) {
		op |= OpWrite
	}
	if in.Has(fsnotify.Remove) {
		op |= OpRemove
	}
	if in.Has(fsnotify.Rename) {
		op |= OpRename
	}
	if in.Has(fsnotify.Chmod) {
		op |= OpChmod
	}
	return op
}

// addRoot records a recursive watch root. Ignore rules are matched relative
// to the innermost root that contains a path.
func (w *FSNotifyWatcher) addRoot(root string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, r := range w.roots {
		if r == root || isUnder(root, r) {
			return
		}
	}
	w.roots = append(w.roots, root)
}

func (w *FSNotifyWatcher) rootOf(path string) string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	best := ""
	for _, r := range w.roots {
		if (path == r || isUnder(path, r)) && len(r) > len(best) {
			best = r
		}
	}
	return best
}

// isUnder reports whether path lies strictly below dir.
func isUnder(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil || rel == "." {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func (w *FSNotifyWatcher) shouldIgnore(path string, isDir bool) bool {
	if w.config.IgnoreHidden {
		if base := filepath.Base(path); len(base) > 1 && base[0] == '.' {
			return true
		}
	}
	root := w.rootOf(path)
	if root == "" {
		root = filepath.Dir(path)
	}
	return w.ignore.MatchRelative(path, root, isDir)
}

func (w *FSNotifyWatcher) recordError(err error) {
	w.totalErrors.Add(1)
	w.mu.Lock()
	w.lastError = err
	w.mu.Unlock()
	w.logger.Warn("%v", err)
}

var _ Watcher = (*FSNotifyWatcher)(nil)
