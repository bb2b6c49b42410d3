package memhost

import (
	"sort"
	"sync"

	"github.com/dshills/ksreactive/internal/event"
	"github.com/dshills/ksreactive/internal/host"
)

// Extensions is the in-memory extension list.
type Extensions struct {
	mu      sync.RWMutex
	byID    map[string]host.Extension
	changed *event.Emitter[struct{}]
}

func newExtensions() *Extensions {
	return &Extensions{
		byID:    make(map[string]host.Extension),
		changed: event.NewEmitter[struct{}](),
	}
}

// All returns the installed extensions sorted by id.
func (x *Extensions) All() []host.Extension {
	x.mu.RLock()
	defer x.mu.RUnlock()

	out := make([]host.Extension, 0, len(x.byID))
	for _, ext := range x.byID {
		out = append(out, ext)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (x *Extensions) OnDidChange() event.Event[struct{}] {
	return x.changed.Event()
}

// Install adds or replaces an extension.
func (x *Extensions) Install(ext host.Extension) {
	x.mu.Lock()
	x.byID[ext.ID] = ext
	x.mu.Unlock()
	x.changed.Fire(struct{}{})
}

// Uninstall removes the extension with id.
func (x *Extensions) Uninstall(id string) {
	x.mu.Lock()
	_, ok := x.byID[id]
	delete(x.byID, id)
	x.mu.Unlock()
	if ok {
		x.changed.Fire(struct{}{})
	}
}

func (x *Extensions) dispose() {
	x.changed.Dispose()
}

var _ host.Extensions = (*Extensions)(nil)
