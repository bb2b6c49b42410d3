// Package watcher watches the workspace on disk and reports file changes.
//
// It is the file-system backend of the in-memory host: raw fsnotify
// notifications are filtered through ignore rules, coalesced per path by a
// debounce window, and reduced to the created, changed and deleted kinds the
// host's file watchers deliver.
package watcher

import (
	"context"
	"errors"
	"time"

	"github.com/dshills/ksreactive/internal/logging"
)

// Common errors returned by watcher operations.
var (
	ErrWatcherClosed   = errors.New("watcher is closed")
	ErrAlreadyWatching = errors.New("path is already being watched")
	ErrNotWatching     = errors.New("path is not being watched")
	ErrPathNotExist    = errors.New("path does not exist")
	ErrWatchLimit      = errors.New("maximum watch limit reached")
)

// Op is a set of raw file-system operations.
type Op uint32

const (
	OpCreate Op = 1 << iota
	OpWrite
	OpRemove
	OpRename
	OpChmod
)

// String returns the operation names joined by "|".
func (op Op) String() string {
	names := []struct {
		op   Op
		name string
	}{
		{OpCreate, "CREATE"},
		{OpWrite, "WRITE"},
		{OpRemove, "REMOVE"},
		{OpRename, "RENAME"},
		{OpChmod, "CHMOD"},
	}
	s := ""
	for _, n := range names {
		if op.Has(n.op) {
			if s != "" {
				s += "|"
			}
			s += n.name
		}
	}
	if s == "" {
		return "NONE"
	}
	return s
}

// Has reports whether op includes o.
func (op Op) Has(o Op) bool {
	return op&o == o
}

// gone reports whether op ends the path's existence.
func (op Op) gone() bool {
	return op&(OpRemove|OpRename) != 0
}

// Change is the host-level kind of a file event.
type Change int

const (
	ChangeNone Change = iota
	ChangeCreated
	ChangeChanged
	ChangeDeleted
)

// String returns the change name.
func (c Change) String() string {
	switch c {
	case ChangeCreated:
		return "created"
	case ChangeChanged:
		return "changed"
	case ChangeDeleted:
		return "deleted"
	default:
		return "none"
	}
}

// Change reduces op to the kind reported to host watchers. A rename reports
// the old name as deleted; the new name arrives as its own create. Permission
// changes alone report nothing.
func (op Op) Change() Change {
	switch {
	case op.gone():
		return ChangeDeleted
	case op.Has(OpCreate):
		return ChangeCreated
	case op.Has(OpWrite):
		return ChangeChanged
	default:
		return ChangeNone
	}
}

// Event is a file-system change.
type Event struct {
	// Path is the absolute path of the affected file or directory.
	Path string
	Op   Op
	Time time.Time
}

// Change is Op.Change.
func (e Event) Change() Change {
	return e.Op.Change()
}

// Stats reports watcher counters.
type Stats struct {
	WatchedPaths  int
	PendingEvents int
	TotalEvents   int64
	Errors        int64
	LastError     error
	StartTime     time.Time
}

// Watcher reports changes below watched paths.
type Watcher interface {
	// Watch watches a file or a directory and its immediate children.
	Watch(path string) error

	// WatchRecursive watches a directory tree, skipping ignored directories.
	WatchRecursive(path string) error

	Unwatch(path string) error

	// Events and Errors are closed by Close.
	Events() <-chan Event
	Errors() <-chan error

	Close() error
	Stats() Stats
	IsWatching(path string) bool
	WatchedPaths() []string
}

// Config holds watcher options.
type Config struct {
	// DebounceDelay is the window in which changes to one path coalesce.
	DebounceDelay time.Duration

	// BufferSize is the capacity of the event and error channels.
	BufferSize int

	// IgnorePatterns are gitignore-style rules for paths to skip.
	IgnorePatterns []string

	// IgnoreHidden skips paths whose base name starts with a dot.
	IgnoreHidden bool

	// MaxWatches caps the number of watched paths. Zero means no cap.
	MaxWatches int

	Logger *logging.Logger
}

// DefaultConfig returns the defaults used by NewFSNotifyWatcher.
func DefaultConfig() Config {
	return Config{
		DebounceDelay:  100 * time.Millisecond,
		BufferSize:     256,
		IgnorePatterns: DefaultIgnorePatterns,
		Logger:         logging.Null,
	}
}

// Option configures a watcher.
type Option func(*Config)

// WithDebounceDelay sets the debounce window.
func WithDebounceDelay(d time.Duration) Option {
	return func(c *Config) { c.DebounceDelay = d }
}

// WithBufferSize sets the channel capacity.
func WithBufferSize(size int) Option {
	return func(c *Config) { c.BufferSize = size }
}

// WithIgnorePatterns replaces the ignore rules.
func WithIgnorePatterns(patterns []string) Option {
	return func(c *Config) { c.IgnorePatterns = patterns }
}

// WithIgnoreHidden skips dot files.
func WithIgnoreHidden(ignore bool) Option {
	return func(c *Config) { c.IgnoreHidden = ignore }
}

// WithMaxWatches caps the number of watched paths.
func WithMaxWatches(n int) Option {
	return func(c *Config) { c.MaxWatches = n }
}

// WithLogger sets the logger for dropped events and backend errors.
func WithLogger(l *logging.Logger) Option {
	return func(c *Config) {
		if l != nil {
			c.Logger = l
		}
	}
}

// Forward reads w until ctx is done or w is closed, passing events and
// errors to the handlers. Either handler may be nil.
func Forward(ctx context.Context, w Watcher, onEvent func(Event), onError func(error)) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.Events():
			if !ok {
				return
			}
			if onEvent != nil {
				onEvent(ev)
			}
		case err, ok := <-w.Errors():
			if !ok {
				return
			}
			if onError != nil {
				onError(err)
			}
		}
	}
}
