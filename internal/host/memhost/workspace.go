package memhost

import (
	"path/filepath"
	"sort"
	"sync"

	"github.com/dshills/ksreactive/internal/event"
	"github.com/dshills/ksreactive/internal/host"
	"github.com/dshills/ksreactive/internal/logging"
)

// Workspace is the in-memory workspace surface.
type Workspace struct {
	mu       sync.RWMutex
	folders  []host.WorkspaceFolder
	settings map[string]any
	watchers watcherRegistry
	logger   *logging.Logger

	foldersChanged  *event.Emitter[host.WorkspaceFoldersChangeEvent]
	configChanged   *event.Emitter[host.ConfigurationChangeEvent]
	documentChanged *event.Emitter[host.TextDocumentChangeEvent]
}

func newWorkspace() *Workspace {
	return &Workspace{
		settings:        make(map[string]any),
		watchers:        watcherRegistry{live: make(map[*FileSystemWatcher]struct{})},
		logger:          logging.Null,
		foldersChanged:  event.NewEmitter[host.WorkspaceFoldersChangeEvent](),
		configChanged:   event.NewEmitter[host.ConfigurationChangeEvent](),
		documentChanged: event.NewEmitter[host.TextDocumentChangeEvent](),
	}
}

func foldersFromPaths(paths []string) []host.WorkspaceFolder {
	folders := make([]host.WorkspaceFolder, 0, len(paths))
	for i, p := range paths {
		folders = append(folders, host.WorkspaceFolder{
			URI:   host.File(p),
			Name:  filepath.Base(p),
			Index: i,
		})
	}
	return folders
}

func (ws *Workspace) WorkspaceFolders() []host.WorkspaceFolder {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	return append([]host.WorkspaceFolder(nil), ws.folders...)
}

func (ws *Workspace) OnDidChangeWorkspaceFolders() event.Event[host.WorkspaceFoldersChangeEvent] {
	return ws.foldersChanged.Event()
}

// SetFolders replaces the workspace folders and fires the added/removed diff.
// Folders are compared by URI.
func (ws *Workspace) SetFolders(paths ...string) {
	next := foldersFromPaths(paths)

	ws.mu.Lock()
	prev := ws.folders
	ws.folders = next
	ws.mu.Unlock()

	var ev host.WorkspaceFoldersChangeEvent
	prevSet := make(map[host.URI]bool, len(prev))
	for _, f := range prev {
		prevSet[f.URI] = true
	}
	nextSet := make(map[host.URI]bool, len(next))
	for _, f := range next {
		nextSet[f.URI] = true
		if !prevSet[f.URI] {
			ev.Added = append(ev.Added, f)
		}
	}
	for _, f := range prev {
		if !nextSet[f.URI] {
			ev.Removed = append(ev.Removed, f)
		}
	}
	if len(ev.Added) == 0 && len(ev.Removed) == 0 {
		return
	}
	ws.foldersChanged.Fire(ev)
}

// Configuration

func (ws *Workspace) Configuration(section string) host.Configuration {
	return &sectionConfig{ws: ws, section: section}
}

func (ws *Workspace) OnDidChangeConfiguration() event.Event[host.ConfigurationChangeEvent] {
	return ws.configChanged.Event()
}

// SetConfiguration assigns dotted keys and fires one change event listing
// the keys whose values changed.
func (ws *Workspace) SetConfiguration(values map[string]any) {
	ws.mu.Lock()
	var changed []string
	for k, v := range values {
		if old, ok := ws.settings[k]; ok && equalSetting(old, v) {
			continue
		}
		if v == nil {
			if _, ok := ws.settings[k]; !ok {
				continue
			}
			delete(ws.settings, k)
		} else {
			ws.settings[k] = v
		}
		changed = append(changed, k)
	}
	ws.mu.Unlock()

	if len(changed) == 0 {
		return
	}
	sort.Strings(changed)
	ws.logger.Debug("configuration changed: %v", changed)
	ws.configChanged.Fire(host.ConfigurationChangeEvent{Keys: changed})
}

// Setting returns the raw value stored under a full dotted key.
func (ws *Workspace) Setting(key string) (any, bool) {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	v, ok := ws.settings[key]
	return v, ok
}

// equalSetting compares scalar settings. Slices and maps always differ.
func equalSetting(a, b any) (eq bool) {
	defer func() {
		if recover() != nil {
			eq = false
		}
	}()
	return a == b
}

type sectionConfig struct {
	ws      *Workspace
	section string
}

func (c *sectionConfig) key(k string) string {
	if c.section == "" {
		return k
	}
	if k == "" {
		return c.section
	}
	return c.section + "." + k
}

func (c *sectionConfig) Get(key string) (any, bool) {
	return c.ws.Setting(c.key(key))
}

func (c *sectionConfig) Has(key string) bool {
	_, ok := c.Get(key)
	return ok
}

func (c *sectionConfig) Update(key string, value any) error {
	if key == "" && c.section == "" {
		return host.ErrInvalidArguments
	}
	c.ws.SetConfiguration(map[string]any{c.key(key): value})
	return nil
}

// Documents

func (ws *Workspace) OnDidChangeTextDocument() event.Event[host.TextDocumentChangeEvent] {
	return ws.documentChanged.Event()
}

// EditDocument replaces doc's text and fires a document change.
func (ws *Workspace) EditDocument(doc *Document, text string) {
	doc.setText(text)
	ws.documentChanged.Fire(host.TextDocumentChangeEvent{Document: doc})
}

func (ws *Workspace) dispose() {
	ws.watchers.disposeAll()
	ws.foldersChanged.Dispose()
	ws.configChanged.Dispose()
	ws.documentChanged.Dispose()
}

var _ host.Workspace = (*Workspace)(nil)
