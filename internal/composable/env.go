package composable

import (
	"github.com/dshills/ksreactive/internal/host"
	"github.com/dshills/ksreactive/internal/reactive"
)

// UseLogLevel tracks the host log level.
func UseLogLevel(s *reactive.Scope, env host.Env) reactive.Readable[host.LogLevel] {
	return useEventRef(s, env.LogLevel(), env.OnDidChangeLogLevel(), identity[host.LogLevel])
}

// UseIsTelemetryEnabled tracks whether the user allows telemetry.
func UseIsTelemetryEnabled(s *reactive.Scope, env host.Env) reactive.Readable[bool] {
	return useEventRef(s, env.IsTelemetryEnabled(), env.OnDidChangeTelemetryEnabled(), identity[bool])
}

// UseDefaultShell tracks the default terminal shell.
func UseDefaultShell(s *reactive.Scope, env host.Env) reactive.Readable[string] {
	return useEventRef(s, env.Shell(), env.OnDidChangeShell(), identity[string])
}

// UseAllExtensions tracks the installed extensions.
func UseAllExtensions(s *reactive.Scope, exts host.Extensions) reactive.Readable[[]host.Extension] {
	return useEventRef(s, exts.All(), exts.OnDidChange(), func(struct{}) []host.Extension {
		return exts.All()
	})
}
