package app

import (
	"github.com/dshills/ksreactive/internal/composable"
	"github.com/dshills/ksreactive/internal/config"
	"github.com/dshills/ksreactive/internal/project/watcher"
	"github.com/dshills/ksreactive/internal/reactive"
)

// reload re-reads the config file and pushes the result into the live
// bindings. A config that fails to load or validate is logged and the
// previous one stays active. Workspace and script changes need a restart.
func (a *Application) reload() {
	cfg, err := config.Load(a.cfg.Path, a.opts.ConfigOptions...)
	if err == nil {
		err = a.applyOverrides(cfg)
	}
	a.metrics.RecordReload(err)
	if err != nil {
		a.logger.Warn("config reload failed, keeping previous: %v", err)
		return
	}

	if cfg.Workspace != a.cfg.Workspace {
		a.logger.Warn("workspace changed to %s; restart to apply", cfg.Workspace)
		cfg.Workspace = a.cfg.Workspace
	}
	a.cfg = cfg

	w := cfg.Watch
	reactive.Batch(func() {
		a.patterns.Set(composable.Globs(w.Patterns...))
		a.ignoreCreate.Set(w.IgnoreCreate)
		a.ignoreChange.Set(w.IgnoreChange)
		a.ignoreDelete.Set(w.IgnoreDelete)
	})
	if err := a.applyContext(cfg); err != nil {
		a.logger.Warn("context update: %v", err)
	}

	if a.opts.Logger == nil {
		a.logger.SetLevel(cfg.LogLevel())
	}
	if dw, ok := a.backend.(*watcher.DebouncedWatcher); ok && w.Debounce > 0 {
		dw.SetDelay(w.Debounce)
	}

	a.logger.Info("config reloaded from %s", cfg.Path)
}

// applyContext binds each configured context key on first sight and
// updates it afterwards. Keys dropped from cfg are cleared to nil.
func (a *Application) applyContext(cfg *config.Config) error {
	seen := make(map[string]bool, len(cfg.Context))
	for _, key := range cfg.ContextKeys() {
		seen[key] = true
		value := cfg.Context[key]
		if ref, ok := a.contexts[key]; ok {
			ref.Set(value)
			continue
		}
		ref, err := composable.UseContextRef[any](a.scope, a.api.Commands, key, value, reactive.Value[bool]{})
		if err != nil {
			return err
		}
		a.contexts[key] = ref
	}
	for key, ref := range a.contexts {
		if !seen[key] {
			ref.Set(nil)
		}
	}
	return nil
}
