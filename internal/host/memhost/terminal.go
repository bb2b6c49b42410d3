package memhost

import (
	"strings"
	"sync"

	"github.com/dshills/ksreactive/internal/host"
)

// Terminal is an in-memory terminal. Text sent to it is recorded.
type Terminal struct {
	mu       sync.RWMutex
	id       string
	name     string
	state    host.TerminalState
	input    strings.Builder
	window   *Window
	disposed bool
}

func (t *Terminal) ID() string   { return t.id }
func (t *Terminal) Name() string { return t.name }

func (t *Terminal) State() host.TerminalState {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state
}

// SendText records text and marks the terminal as interacted with.
func (t *Terminal) SendText(text string) {
	t.mu.Lock()
	if t.disposed {
		t.mu.Unlock()
		return
	}
	t.input.WriteString(text)
	changed := !t.state.IsInteractedWith
	t.state.IsInteractedWith = true
	t.mu.Unlock()

	if changed && t.window != nil {
		t.window.terminalStateChanged.Fire(t)
	}
}

// Input returns everything sent to the terminal.
func (t *Terminal) Input() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.input.String()
}

// Dispose closes the terminal.
func (t *Terminal) Dispose() {
	if t.window != nil {
		t.window.CloseTerminal(t)
	}
}

var _ host.Terminal = (*Terminal)(nil)
