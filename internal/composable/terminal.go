package composable

import (
	"github.com/dshills/ksreactive/internal/host"
	"github.com/dshills/ksreactive/internal/reactive"
)

// UseActiveTerminal tracks the focused terminal.
func UseActiveTerminal(s *reactive.Scope, win host.Window) reactive.Readable[host.Terminal] {
	return useEventRef(s, win.ActiveTerminal(), win.OnDidChangeActiveTerminal(), identity[host.Terminal])
}

// UseOpenedTerminals tracks every open terminal.
func UseOpenedTerminals(s *reactive.Scope, win host.Window) reactive.Readable[[]host.Terminal] {
	terms := reactive.NewRef(win.Terminals())
	refresh := func(host.Terminal) { terms.Set(win.Terminals()) }
	UseEvent(s, win.OnDidOpenTerminal(), refresh)
	UseEvent(s, win.OnDidCloseTerminal(), refresh)
	return terms
}

// UseTerminalState tracks the state of terminal. It is the zero state while
// terminal is nil.
func UseTerminalState(s *reactive.Scope, win host.Window, terminal reactive.Value[host.Terminal]) reactive.Readable[host.TerminalState] {
	read := func(t host.Terminal) host.TerminalState {
		if isNil(t) {
			return host.TerminalState{}
		}
		return t.State()
	}

	state := reactive.NewRef(read(peek(terminal)))
	reactive.Watch(s, terminal.Get, func(t, _ host.Terminal) {
		state.Set(read(t))
	})
	UseEvent(s, win.OnDidChangeTerminalState(), func(t host.Terminal) {
		if same(t, peek(terminal)) {
			state.Set(read(t))
		}
	})
	return state
}
