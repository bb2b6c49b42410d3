package composable

import (
	"github.com/dshills/ksreactive/internal/host"
	"github.com/dshills/ksreactive/internal/reactive"
)

// WindowState holds the window focus flags as separate observables.
type WindowState struct {
	State   reactive.Readable[host.WindowState]
	Focused reactive.Readable[bool]
	Active  reactive.Readable[bool]
}

// UseWindowState tracks the window focus state.
func UseWindowState(s *reactive.Scope, win host.Window) WindowState {
	state := useEventRef(s, win.State(), win.OnDidChangeWindowState(), identity[host.WindowState])
	return WindowState{
		State:   state,
		Focused: reactive.NewComputed(func() bool { return state.Get().Focused }),
		Active:  reactive.NewComputed(func() bool { return state.Get().Active }),
	}
}

// UseActiveColorTheme tracks the active color theme.
func UseActiveColorTheme(s *reactive.Scope, win host.Window) reactive.Readable[host.ColorTheme] {
	return useEventRef(s, win.ActiveColorTheme(), win.OnDidChangeActiveColorTheme(), identity[host.ColorTheme])
}

// UseIsDarkTheme reports whether the active theme is dark.
func UseIsDarkTheme(s *reactive.Scope, win host.Window) reactive.Readable[bool] {
	theme := UseActiveColorTheme(s, win)
	return reactive.NewComputed(func() bool { return theme.Get().Kind.IsDark() })
}
