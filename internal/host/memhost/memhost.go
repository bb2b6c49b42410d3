// Package memhost is an in-process implementation of the host API.
//
// It keeps all host state in memory and exposes driver methods that change
// that state and fire the matching events, the way a real editor would in
// response to user actions. The runner uses it as the live host (fed by the
// fsnotify backend) and tests use it to script host behaviour.
//
// Like the rest of the host API, memhost delivers events synchronously on
// the caller's goroutine. Drive it from a single goroutine, normally the
// loop.
package memhost

import (
	"github.com/google/uuid"

	"github.com/dshills/ksreactive/internal/host"
	"github.com/dshills/ksreactive/internal/logging"
)

// Host bundles the in-memory host surfaces.
type Host struct {
	Window     *Window
	Workspace  *Workspace
	Commands   *Commands
	Env        *Env
	Extensions *Extensions

	logger *logging.Logger
}

// Option configures a Host.
type Option func(*Host)

// WithLogger sets the logger used for host diagnostics.
func WithLogger(l *logging.Logger) Option {
	return func(h *Host) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithFolders seeds the workspace folders.
func WithFolders(paths ...string) Option {
	return func(h *Host) {
		h.Workspace.folders = foldersFromPaths(paths)
	}
}

// New creates a host with empty state.
func New(opts ...Option) *Host {
	h := &Host{logger: logging.Get().WithComponent("memhost")}
	h.Window = newWindow()
	h.Workspace = newWorkspace()
	h.Commands = newCommands(h)
	h.Env = newEnv()
	h.Extensions = newExtensions()

	for _, opt := range opts {
		opt(h)
	}
	h.Workspace.logger = h.logger
	return h
}

// API returns the host surfaces as host interfaces.
func (h *Host) API() *host.Host {
	return &host.Host{
		Window:     h.Window,
		Workspace:  h.Workspace,
		Commands:   h.Commands,
		Env:        h.Env,
		Extensions: h.Extensions,
	}
}

// Dispose releases every emitter and host-created object.
func (h *Host) Dispose() {
	h.Window.dispose()
	h.Workspace.dispose()
	h.Env.dispose()
	h.Extensions.dispose()
}

func newID() string {
	return uuid.New().String()
}
