package memhost

import (
	"path/filepath"
	"sync"

	"github.com/dshills/ksreactive/internal/event"
	"github.com/dshills/ksreactive/internal/host"
	"github.com/dshills/ksreactive/internal/host/glob"
)

// FileEventKind is the kind of a file-system notification fed to the host.
type FileEventKind int

const (
	FileCreated FileEventKind = iota + 1
	FileChanged
	FileDeleted
)

// String returns the kind name.
func (k FileEventKind) String() string {
	switch k {
	case FileCreated:
		return "create"
	case FileChanged:
		return "change"
	case FileDeleted:
		return "delete"
	default:
		return "unknown"
	}
}

// FileSystemWatcher is a host watcher over one glob pattern.
type FileSystemWatcher struct {
	pattern      host.GlobPattern
	glob         *glob.Glob
	ignoreCreate bool
	ignoreChange bool
	ignoreDelete bool

	created *event.Emitter[host.URI]
	changed *event.Emitter[host.URI]
	deleted *event.Emitter[host.URI]

	registry *watcherRegistry
	once     sync.Once
}

func (w *FileSystemWatcher) Pattern() host.GlobPattern { return w.pattern }
func (w *FileSystemWatcher) IgnoreCreateEvents() bool  { return w.ignoreCreate }
func (w *FileSystemWatcher) IgnoreChangeEvents() bool  { return w.ignoreChange }
func (w *FileSystemWatcher) IgnoreDeleteEvents() bool  { return w.ignoreDelete }

func (w *FileSystemWatcher) OnDidCreate() event.Event[host.URI] { return w.created.Event() }
func (w *FileSystemWatcher) OnDidChange() event.Event[host.URI] { return w.changed.Event() }
func (w *FileSystemWatcher) OnDidDelete() event.Event[host.URI] { return w.deleted.Event() }

// Dispose stops the watcher. Further calls do nothing.
func (w *FileSystemWatcher) Dispose() {
	w.once.Do(func() {
		w.registry.remove(w)
		w.created.Dispose()
		w.changed.Dispose()
		w.deleted.Dispose()
	})
}

// Disposed reports whether Dispose has been called.
func (w *FileSystemWatcher) Disposed() bool {
	return w.created.Disposed()
}

// matches reports whether uri falls under the watcher's pattern. Patterns
// without a base are tried relative to each workspace folder, then against
// the full path.
func (w *FileSystemWatcher) matches(uri host.URI, folders []host.WorkspaceFolder) bool {
	if w.glob == nil {
		return false
	}
	if w.pattern.Base != "" {
		return w.glob.MatchUnder(filepath.ToSlash(w.pattern.Base), uri.Path)
	}
	for _, f := range folders {
		if w.glob.MatchUnder(f.URI.Path, uri.Path) {
			return true
		}
	}
	return w.glob.Match(uri.Path)
}

func (w *FileSystemWatcher) deliver(kind FileEventKind, uri host.URI) bool {
	switch kind {
	case FileCreated:
		if w.ignoreCreate {
			return false
		}
		w.created.Fire(uri)
	case FileChanged:
		if w.ignoreChange {
			return false
		}
		w.changed.Fire(uri)
	case FileDeleted:
		if w.ignoreDelete {
			return false
		}
		w.deleted.Fire(uri)
	default:
		return false
	}
	return true
}

type watcherRegistry struct {
	mu       sync.Mutex
	live     map[*FileSystemWatcher]struct{}
	order    []*FileSystemWatcher
	created  int
	disposed int
}

func (r *watcherRegistry) add(w *FileSystemWatcher) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.live[w] = struct{}{}
	r.order = append(r.order, w)
	r.created++
}

func (r *watcherRegistry) remove(w *FileSystemWatcher) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.live[w]; !ok {
		return
	}
	delete(r.live, w)
	for i, o := range r.order {
		if o == w {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	r.disposed++
}

func (r *watcherRegistry) snapshot() []*FileSystemWatcher {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*FileSystemWatcher(nil), r.order...)
}

func (r *watcherRegistry) disposeAll() {
	for _, w := range r.snapshot() {
		w.Dispose()
	}
}

// CreateFileSystemWatcher creates a watcher. A malformed pattern is logged
// and yields a watcher that never fires.
func (ws *Workspace) CreateFileSystemWatcher(pattern host.GlobPattern, ignoreCreate, ignoreChange, ignoreDelete bool) host.FileSystemWatcher {
	return ws.NewFileSystemWatcher(pattern, ignoreCreate, ignoreChange, ignoreDelete)
}

// NewFileSystemWatcher is CreateFileSystemWatcher returning the concrete type.
func (ws *Workspace) NewFileSystemWatcher(pattern host.GlobPattern, ignoreCreate, ignoreChange, ignoreDelete bool) *FileSystemWatcher {
	g, err := glob.Compile(pattern.Pattern)
	if err != nil {
		ws.logger.Warn("file watcher %s: %v", pattern, err)
	}

	w := &FileSystemWatcher{
		pattern:      pattern,
		glob:         g,
		ignoreCreate: ignoreCreate,
		ignoreChange: ignoreChange,
		ignoreDelete: ignoreDelete,
		created:      event.NewEmitter[host.URI](),
		changed:      event.NewEmitter[host.URI](),
		deleted:      event.NewEmitter[host.URI](),
		registry:     &ws.watchers,
	}
	ws.watchers.add(w)
	ws.logger.Debug("file watcher created: %s", pattern)
	return w
}

// FeedFileEvent routes a file-system notification to every live watcher
// whose pattern matches uri and which does not ignore kind. It returns the
// number of watchers notified.
func (ws *Workspace) FeedFileEvent(kind FileEventKind, uri host.URI) int {
	folders := ws.WorkspaceFolders()
	n := 0
	for _, w := range ws.watchers.snapshot() {
		if w.Disposed() || !w.matches(uri, folders) {
			continue
		}
		if w.deliver(kind, uri) {
			n++
		}
	}
	return n
}

// Watchers returns the live watchers in creation order.
func (ws *Workspace) Watchers() []*FileSystemWatcher {
	return ws.watchers.snapshot()
}

// WatcherStats returns how many watchers were created and disposed in total.
func (ws *Workspace) WatcherStats() (created, disposed int) {
	ws.watchers.mu.Lock()
	defer ws.watchers.mu.Unlock()
	return ws.watchers.created, ws.watchers.disposed
}

var _ host.FileSystemWatcher = (*FileSystemWatcher)(nil)
