package api

import (
	"fmt"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/ksreactive/internal/host"
	"github.com/dshills/ksreactive/internal/logging"
	plua "github.com/dshills/ksreactive/internal/plugin/lua"
	"github.com/dshills/ksreactive/internal/reactive"
)

// APIVersion is reported to scripts as ks.api_version.
const APIVersion = 1

// Module represents a Lua API module that can be registered with the plugin system.
type Module interface {
	// Name returns the module name (e.g., "reactive").
	Name() string

	// Register registers the module functions into the Lua state.
	// The module should register itself under _ks_<name> global.
	Register(s *plua.State) error

	// Cleanup releases everything the module holds. It is safe to call
	// more than once.
	Cleanup()
}

// Context provides access to host state for API modules.
type Context struct {
	// Host is the extension host API.
	Host *host.Host

	// Scope owns every binding a module creates. Nil gives each module a
	// fresh root scope.
	Scope *reactive.Scope

	// Logger receives callback failures. Nil uses the process logger.
	Logger *logging.Logger
}

func (c *Context) logger() *logging.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return logging.Get()
}

// Registry manages API modules and their registration.
type Registry struct {
	mu      sync.RWMutex
	modules map[string]Module
}

// NewRegistry creates a new API registry.
func NewRegistry() *Registry {
	return &Registry{
		modules: make(map[string]Module),
	}
}

// Register adds a module to the registry.
func (r *Registry) Register(mod Module) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.modules[mod.Name()]; exists {
		return fmt.Errorf("module %q already registered", mod.Name())
	}

	r.modules[mod.Name()] = mod
	return nil
}

// Get returns a module by name.
func (r *Registry) Get(name string) (Module, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	mod, ok := r.modules[name]
	return mod, ok
}

// List returns all registered module names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.modules))
	for name := range r.modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// InjectAll registers all modules into the Lua state and builds the ks
// table over them.
func (r *Registry) InjectAll(s *plua.State) error {
	for _, name := range r.List() {
		mod, _ := r.Get(name)
		if err := mod.Register(s); err != nil {
			return fmt.Errorf("failed to register module %q: %w", name, err)
		}
	}
	installKSTable(s.L, r.List())
	return nil
}

// CleanupAll cleans up every module.
func (r *Registry) CleanupAll() {
	for _, name := range r.List() {
		mod, _ := r.Get(name)
		mod.Cleanup()
	}
}

// installKSTable collects the _ks_* module globals into a ks global.
func installKSTable(L *lua.LState, names []string) {
	ks := L.NewTable()
	for _, name := range names {
		if val := L.GetGlobal("_ks_" + name); val != lua.LNil {
			L.SetField(ks, name, val)
		}
	}
	L.SetField(ks, "api_version", lua.LNumber(APIVersion))
	L.SetGlobal("ks", ks)
}

// DefaultRegistry creates a registry with the standard modules for one
// plugin.
func DefaultRegistry(ctx *Context, pluginName string) (*Registry, error) {
	r := NewRegistry()
	if err := r.Register(NewReactiveModule(ctx, pluginName)); err != nil {
		return nil, err
	}
	return r, nil
}
