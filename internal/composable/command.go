package composable

import (
	"fmt"
	"sort"

	"github.com/dshills/ksreactive/internal/host"
	"github.com/dshills/ksreactive/internal/reactive"
)

// UseCommand registers a command that is unregistered when s is disposed.
func UseCommand(s *reactive.Scope, cmds host.Commands, id string, fn host.CommandFunc) error {
	d, err := cmds.RegisterCommand(id, fn)
	if err != nil {
		return fmt.Errorf("register command %q: %w", id, err)
	}
	UseDisposable(s, d)
	return nil
}

// UseCommands registers every command in fns, in id order. It stops at the
// first failure; commands registered before it stay owned by s.
func UseCommands(s *reactive.Scope, cmds host.Commands, fns map[string]host.CommandFunc) error {
	for _, id := range sortedKeys(fns) {
		if err := UseCommand(s, cmds, id, fns[id]); err != nil {
			return err
		}
	}
	return nil
}

// UseTextEditorCommand registers a command that runs against the active
// editor and is unregistered when s is disposed.
func UseTextEditorCommand(s *reactive.Scope, cmds host.Commands, id string, fn host.TextEditorCommandFunc) error {
	d, err := cmds.RegisterTextEditorCommand(id, fn)
	if err != nil {
		return fmt.Errorf("register text editor command %q: %w", id, err)
	}
	UseDisposable(s, d)
	return nil
}

// UseTextEditorCommands registers every editor command in fns, in id order.
func UseTextEditorCommands(s *reactive.Scope, cmds host.Commands, fns map[string]host.TextEditorCommandFunc) error {
	for _, id := range sortedKeys(fns) {
		if err := UseTextEditorCommand(s, cmds, id, fns[id]); err != nil {
			return err
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
