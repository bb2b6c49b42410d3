package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dshills/ksreactive/internal/composable"
	"github.com/dshills/ksreactive/internal/config"
	"github.com/dshills/ksreactive/internal/host"
	"github.com/dshills/ksreactive/internal/host/loop"
	"github.com/dshills/ksreactive/internal/host/memhost"
	"github.com/dshills/ksreactive/internal/logging"
	"github.com/dshills/ksreactive/internal/project/watcher"
	"github.com/dshills/ksreactive/internal/reactive"
)

// Context keys the runner maintains itself.
const (
	ContextWatching = "ksreactive.watching"
	ContextPatterns = "ksreactive.patternCount"
)

// OutputChannelName is the host output channel receiving file events.
const OutputChannelName = "ksreactive"

// StatusBarItemID identifies the watcher count item.
const StatusBarItemID = "ksreactive.watchers"

// bootstrapper builds components in dependency order and records what it
// built so a failure can report how far it got.
type bootstrapper struct {
	app       *Application
	initOrder []string
}

func (a *Application) bootstrap() error {
	b := &bootstrapper{app: a, initOrder: make([]string, 0, 8)}
	steps := []struct {
		name string
		fn   func() error
	}{
		{"logger", b.initLogger},
		{"workspace", b.checkWorkspace},
		{"loop", b.initLoop},
		{"host", b.initHost},
		{"watcher", b.initBackend},
		{"bindings", b.initBindings},
		{"config watch", b.initConfigWatch},
		{"scripts", b.initScripts},
	}
	for _, step := range steps {
		if err := step.fn(); err != nil {
			return &InitError{Component: step.name, Err: err}
		}
		b.initOrder = append(b.initOrder, step.name)
	}
	a.logger.Debug("initialized: %v", b.initOrder)
	return nil
}

func (b *bootstrapper) initLogger() error {
	a := b.app
	if a.opts.Logger != nil {
		a.logger = a.opts.Logger
		return nil
	}
	a.logger = logging.New(logging.Config{
		Level:  a.cfg.LogLevel(),
		Output: os.Stderr,
		Prefix: "ksreactive",
	})
	logging.Set(a.logger)
	return nil
}

func (b *bootstrapper) checkWorkspace() error {
	ws := b.app.cfg.Workspace
	info, err := os.Stat(ws)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", ws)
	}
	return nil
}

func (b *bootstrapper) initLoop() error {
	b.app.loop = loop.New(0)
	return nil
}

func (b *bootstrapper) initHost() error {
	a := b.app
	a.host = memhost.New(
		memhost.WithFolders(a.cfg.Workspace),
		memhost.WithLogger(a.logger.WithComponent("host")),
	)
	a.api = a.host.API()
	return nil
}

// initBackend starts the fsnotify watcher over the workspace, wrapped in a
// debouncer when a debounce window is configured.
func (b *bootstrapper) initBackend() error {
	a := b.app
	fsw, err := watcher.NewFSNotifyWatcher(
		watcher.WithIgnorePatterns(a.cfg.Watch.Ignore),
		watcher.WithLogger(a.logger.WithComponent("watcher")),
	)
	if err != nil {
		return err
	}
	a.backend = fsw
	if err := fsw.WatchRecursive(a.cfg.Workspace); err != nil {
		return err
	}
	if a.cfg.Watch.Debounce > 0 {
		a.backend = watcher.NewDebouncedWatcher(fsw, a.cfg.Watch.Debounce)
	}
	return nil
}

// initBindings creates the root scope and every binding driven by
// configuration.
func (b *bootstrapper) initBindings() error {
	a := b.app
	a.scope = reactive.NewScope()

	w := a.cfg.Watch
	a.patterns = reactive.NewRef(composable.Globs(w.Patterns...))
	a.ignoreCreate = reactive.NewRef(w.IgnoreCreate)
	a.ignoreChange = reactive.NewRef(w.IgnoreChange)
	a.ignoreDelete = reactive.NewRef(w.IgnoreDelete)

	a.files = composable.UseFsWatcher(a.scope, a.api.Workspace,
		reactive.Of[[]host.GlobPattern](a.patterns),
		reactive.Of[bool](a.ignoreCreate),
		reactive.Of[bool](a.ignoreChange),
		reactive.Of[bool](a.ignoreDelete),
	)

	events := composable.UseLogger(a.scope, a.api.Window, OutputChannelName, logging.LevelInfo)
	composable.UseEvent(a.scope, a.files.OnDidCreate(), func(u host.URI) {
		events.Info("created %s", u.FSPath())
	})
	composable.UseEvent(a.scope, a.files.OnDidChange(), func(u host.URI) {
		events.Info("changed %s", u.FSPath())
	})
	composable.UseEvent(a.scope, a.files.OnDidDelete(), func(u host.URI) {
		events.Info("deleted %s", u.FSPath())
	})

	composable.UseStatusBarItem(a.scope, a.api.Window, composable.StatusBarItemOptions{
		ID: StatusBarItemID,
		Text: reactive.Getter(func() string {
			return fmt.Sprintf("%d watchers", a.files.Watchers().Len())
		}),
		Tooltip: reactive.Const(a.cfg.Workspace),
	})

	if _, err := composable.UseContextGetter(a.scope, a.api.Commands, ContextWatching, func() bool {
		return a.files.Watchers().Len() > 0
	}, reactive.Value[bool]{}); err != nil {
		return err
	}
	if _, err := composable.UseContextGetter(a.scope, a.api.Commands, ContextPatterns, func() int {
		return a.files.Watchers().Len()
	}, reactive.Value[bool]{}); err != nil {
		return err
	}

	return a.applyContext(a.cfg)
}

// initConfigWatch reloads configuration whenever the config file is
// created or written.
func (b *bootstrapper) initConfigWatch() error {
	a := b.app
	if a.cfg.Path == "" {
		return nil
	}
	path, err := filepath.Abs(a.cfg.Path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if !a.backend.IsWatching(dir) {
		if err := a.backend.Watch(dir); err != nil {
			return fmt.Errorf("watching config directory: %w", err)
		}
	}

	fw := composable.UseFsWatcher(a.scope, a.api.Workspace,
		composable.Patterns(host.RelativePattern(dir, filepath.Base(path))),
		reactive.Value[bool]{}, reactive.Value[bool]{}, reactive.Const(true))
	reload := func(host.URI) { a.reload() }
	composable.UseEvent(a.scope, fw.OnDidCreate(), reload)
	composable.UseEvent(a.scope, fw.OnDidChange(), reload)
	return nil
}

func (b *bootstrapper) initScripts() error {
	a := b.app
	for _, path := range a.cfg.Scripts {
		if err := a.loadScript(path); err != nil {
			a.logger.Error("%v", err)
			a.scriptErrors = append(a.scriptErrors, err)
		}
	}
	return nil
}

// applyOverrides copies non-empty options over cfg.
func (a *Application) applyOverrides(cfg *config.Config) error {
	if a.opts.WorkspacePath != "" {
		ws, err := filepath.Abs(a.opts.WorkspacePath)
		if err != nil {
			return err
		}
		cfg.Workspace = ws
	}
	if a.opts.LogLevel != "" {
		cfg.Log.Level = a.opts.LogLevel
	}
	for _, s := range a.opts.Scripts {
		abs, err := filepath.Abs(s)
		if err != nil {
			return err
		}
		cfg.Scripts = append(cfg.Scripts, abs)
	}
	return nil
}
