// Package app wires the ksreactive runner together: configuration, the host
// event loop, the in-memory extension host, the fsnotify backend, the
// reactive bindings driven by configuration, and Lua plugin scripts.
package app

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dshills/ksreactive/internal/composable"
	"github.com/dshills/ksreactive/internal/config"
	"github.com/dshills/ksreactive/internal/host"
	"github.com/dshills/ksreactive/internal/host/loop"
	"github.com/dshills/ksreactive/internal/host/memhost"
	"github.com/dshills/ksreactive/internal/logging"
	"github.com/dshills/ksreactive/internal/project/watcher"
	"github.com/dshills/ksreactive/internal/reactive"
)

// shutdownTimeout bounds how long Shutdown waits for Run to tear down.
const shutdownTimeout = 5 * time.Second

// Application owns every component of a running ksreactive instance.
//
// All reactive state lives on the loop goroutine: it is built by New and
// afterwards touched only by tasks running inside Run.
type Application struct {
	opts    Options
	cfg     *config.Config
	logger  *logging.Logger
	metrics *Metrics

	loop    *loop.Loop
	host    *memhost.Host
	api     *host.Host
	backend watcher.Watcher

	// Root scope and the refs reloads write to.
	scope        *reactive.Scope
	patterns     *reactive.Ref[[]host.GlobPattern]
	ignoreCreate *reactive.Ref[bool]
	ignoreChange *reactive.Ref[bool]
	ignoreDelete *reactive.Ref[bool]
	contexts     map[string]*reactive.Ref[any]
	files        *composable.FsWatcher

	plugins      []*plugin
	scriptErrors []error

	running      atomic.Bool
	stopping     atomic.Bool
	teardownOnce sync.Once
	done         chan struct{}
}

// Options configures the application. Non-empty fields override the
// configuration file.
type Options struct {
	// ConfigPath is the path to the configuration file.
	ConfigPath string

	// WorkspacePath is the directory to watch.
	WorkspacePath string

	// LogLevel sets the logging verbosity.
	LogLevel string

	// Scripts are Lua scripts run after the configured ones.
	Scripts []string

	// Logger replaces the logger built from configuration.
	Logger *logging.Logger

	// ConfigOptions are passed to every config.Load.
	ConfigOptions []config.Option
}

// New loads configuration and builds every component. Scripts that fail to
// load are logged and reported by ScriptErrors; they do not fail New.
func New(opts Options) (*Application, error) {
	if opts.LogLevel != "" && !logging.ValidLevel(opts.LogLevel) {
		return nil, &InitError{Component: "options", Err: config.ErrInvalidLogLevel}
	}

	cfg, err := config.Load(opts.ConfigPath, opts.ConfigOptions...)
	if err != nil {
		return nil, &InitError{Component: "config", Err: err}
	}

	a := &Application{
		opts:     opts,
		metrics:  NewMetrics(),
		contexts: make(map[string]*reactive.Ref[any]),
		done:     make(chan struct{}),
	}
	if err := a.applyOverrides(cfg); err != nil {
		return nil, &InitError{Component: "options", Err: err}
	}
	a.cfg = cfg

	if err := a.bootstrap(); err != nil {
		a.teardown()
		return nil, err
	}
	return a, nil
}

// Run dispatches backend events until ctx is done or Shutdown is called,
// then tears everything down. Cancellation of ctx is a normal exit.
func (a *Application) Run(ctx context.Context) error {
	if a.stopping.Load() {
		return ErrShutDown
	}
	if !a.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer a.running.Store(false)
	defer a.teardown()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		watcher.Forward(ctx, a.backend, a.post, a.backendError)
	}()

	a.logger.Info("watching %s (%d patterns)", a.cfg.Workspace, len(a.cfg.Watch.Patterns))
	err := a.loop.Run(ctx)
	if ctx.Err() != nil {
		err = nil
	}

	cancel()
	wg.Wait()
	return err
}

// Shutdown stops Run and waits for teardown. Without a running Run it
// tears down directly. It is safe to call Shutdown multiple times.
func (a *Application) Shutdown() {
	a.stopping.Store(true)
	a.loop.Stop()

	if !a.running.Load() {
		a.teardown()
		return
	}

	select {
	case <-a.done:
	case <-time.After(shutdownTimeout):
		a.logger.Warn("%v after %s", ErrShutdownTimeout, shutdownTimeout)
	}
}

// teardown releases components in reverse build order.
func (a *Application) teardown() {
	a.teardownOnce.Do(func() {
		defer close(a.done)

		for i := len(a.plugins) - 1; i >= 0; i-- {
			a.plugins[i].close()
		}
		a.plugins = nil

		if a.scope != nil {
			a.scope.Dispose()
		}
		if a.backend != nil {
			if err := a.backend.Close(); err != nil && !errors.Is(err, watcher.ErrWatcherClosed) {
				a.logger.Warn("closing watcher: %v", err)
			}
		}
		if a.host != nil {
			a.host.Dispose()
		}
		if a.loop != nil {
			a.loop.Stop()
		}
		if a.logger != nil {
			a.logger.Debug("shut down")
		}
	})
}

// Post queues fn on the loop goroutine.
func (a *Application) Post(fn func()) error {
	return a.loop.Post(fn)
}

// Done is closed once the application has been torn down.
func (a *Application) Done() <-chan struct{} {
	return a.done
}

// IsRunning returns true if Run is active.
func (a *Application) IsRunning() bool {
	return a.running.Load()
}

// Config returns the active configuration.
func (a *Application) Config() *config.Config {
	return a.cfg
}

// Host returns the in-memory host.
func (a *Application) Host() *memhost.Host {
	return a.host
}

// Scope returns the root scope.
func (a *Application) Scope() *reactive.Scope {
	return a.scope
}

// Logger returns the application logger.
func (a *Application) Logger() *logging.Logger {
	return a.logger
}

// Metrics returns the event metrics.
func (a *Application) Metrics() *Metrics {
	return a.metrics
}

// Backend returns the file-system watcher feeding the host.
func (a *Application) Backend() watcher.Watcher {
	return a.backend
}

// Patterns returns the patterns with a live host watcher. It must run on
// the loop goroutine once Run has started.
func (a *Application) Patterns() []host.GlobPattern {
	if a.files == nil {
		return nil
	}
	return a.files.Watchers().PeekKeys()
}

// Plugins returns the names of loaded scripts in load order.
func (a *Application) Plugins() []string {
	names := make([]string, len(a.plugins))
	for i, p := range a.plugins {
		names[i] = p.name
	}
	return names
}

// ScriptErrors returns the errors of scripts that failed to load.
func (a *Application) ScriptErrors() []error {
	return append([]error(nil), a.scriptErrors...)
}
