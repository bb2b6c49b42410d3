package app

import (
	"path/filepath"
	"strings"

	"github.com/dshills/ksreactive/internal/plugin/api"
	plua "github.com/dshills/ksreactive/internal/plugin/lua"
)

// plugin is a loaded Lua script and the API modules injected into it.
type plugin struct {
	name     string
	path     string
	state    *plua.State
	registry *api.Registry
}

func (p *plugin) close() {
	p.registry.CleanupAll()
	p.state.Close()
}

// loadScript runs path in a fresh Lua state with the ks API installed.
// Bindings the script creates live under the root scope.
func (a *Application) loadScript(path string) error {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	log := a.logger.WithField("script", name)

	state := plua.NewState(plua.WithName(name), plua.WithLogger(log))
	reg, err := api.DefaultRegistry(&api.Context{Host: a.api, Scope: a.scope, Logger: log}, name)
	if err != nil {
		state.Close()
		return &ScriptError{Path: path, Err: err}
	}

	p := &plugin{name: name, path: path, state: state, registry: reg}
	if err := reg.InjectAll(state); err != nil {
		p.close()
		return &ScriptError{Path: path, Err: err}
	}
	if err := state.DoFile(path); err != nil {
		p.close()
		return &ScriptError{Path: path, Err: err}
	}

	a.plugins = append(a.plugins, p)
	log.Info("loaded %s", path)
	return nil
}
