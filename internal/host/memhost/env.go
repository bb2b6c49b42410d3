package memhost

import (
	"sync"

	"github.com/dshills/ksreactive/internal/event"
	"github.com/dshills/ksreactive/internal/host"
)

// Env is the in-memory host environment.
type Env struct {
	mu        sync.RWMutex
	logLevel  host.LogLevel
	telemetry bool
	shell     string

	logLevelChanged  *event.Emitter[host.LogLevel]
	telemetryChanged *event.Emitter[bool]
	shellChanged     *event.Emitter[string]
}

func newEnv() *Env {
	return &Env{
		logLevel:         host.LogLevelInfo,
		shell:            "/bin/sh",
		logLevelChanged:  event.NewEmitter[host.LogLevel](),
		telemetryChanged: event.NewEmitter[bool](),
		shellChanged:     event.NewEmitter[string](),
	}
}

func (e *Env) LogLevel() host.LogLevel {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.logLevel
}

func (e *Env) OnDidChangeLogLevel() event.Event[host.LogLevel] {
	return e.logLevelChanged.Event()
}

func (e *Env) IsTelemetryEnabled() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.telemetry
}

func (e *Env) OnDidChangeTelemetryEnabled() event.Event[bool] {
	return e.telemetryChanged.Event()
}

func (e *Env) Shell() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.shell
}

func (e *Env) OnDidChangeShell() event.Event[string] {
	return e.shellChanged.Event()
}

// SetLogLevel changes the host log level.
func (e *Env) SetLogLevel(level host.LogLevel) {
	e.mu.Lock()
	if e.logLevel == level {
		e.mu.Unlock()
		return
	}
	e.logLevel = level
	e.mu.Unlock()
	e.logLevelChanged.Fire(level)
}

// SetTelemetryEnabled toggles telemetry.
func (e *Env) SetTelemetryEnabled(enabled bool) {
	e.mu.Lock()
	if e.telemetry == enabled {
		e.mu.Unlock()
		return
	}
	e.telemetry = enabled
	e.mu.Unlock()
	e.telemetryChanged.Fire(enabled)
}

// SetShell changes the default shell.
func (e *Env) SetShell(shell string) {
	e.mu.Lock()
	if e.shell == shell {
		e.mu.Unlock()
		return
	}
	e.shell = shell
	e.mu.Unlock()
	e.shellChanged.Fire(shell)
}

func (e *Env) dispose() {
	e.logLevelChanged.Dispose()
	e.telemetryChanged.Dispose()
	e.shellChanged.Dispose()
}

var _ host.Env = (*Env)(nil)
