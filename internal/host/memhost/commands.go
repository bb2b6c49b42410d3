package memhost

import (
	"fmt"
	"sort"
	"sync"

	"github.com/dshills/ksreactive/internal/event"
	"github.com/dshills/ksreactive/internal/host"
)

// ContextCall records one execution of the setContext command.
type ContextCall struct {
	Key   string
	Value any
}

// Commands is the in-memory command registry. It provides setContext as a
// built-in command that records every call.
type Commands struct {
	mu         sync.RWMutex
	host       *Host
	commands   map[string]host.CommandFunc
	owners     map[string]*host.CommandFunc
	calls      []ContextCall
	context    map[string]any
	contextErr error
}

func newCommands(h *Host) *Commands {
	c := &Commands{
		host:     h,
		commands: make(map[string]host.CommandFunc),
		owners:   make(map[string]*host.CommandFunc),
		context:  make(map[string]any),
	}
	c.commands[host.SetContextCommand] = c.setContext
	return c
}

// RegisterCommand registers fn under id.
func (c *Commands) RegisterCommand(id string, fn host.CommandFunc) (event.Disposable, error) {
	if id == "" || fn == nil {
		return nil, host.ErrInvalidArguments
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.commands[id]; exists {
		return nil, fmt.Errorf("%w: %s", host.ErrCommandExists, id)
	}
	c.commands[id] = fn

	// The owner pointer keeps a stale token from removing a later registration.
	owner := &fn
	c.owners[id] = owner
	return event.OnceFunc(func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.owners[id] == owner {
			delete(c.commands, id)
			delete(c.owners, id)
		}
	}), nil
}

// RegisterTextEditorCommand registers a command that runs against the
// active editor. Executing it with no active editor returns ErrNoActiveEditor.
func (c *Commands) RegisterTextEditorCommand(id string, fn host.TextEditorCommandFunc) (event.Disposable, error) {
	if fn == nil {
		return nil, host.ErrInvalidArguments
	}
	return c.RegisterCommand(id, func(args ...any) (any, error) {
		editor := c.host.Window.ActiveTextEditor()
		if editor == nil {
			return nil, host.ErrNoActiveEditor
		}
		return nil, fn(editor, args...)
	})
}

// ExecuteCommand runs the command registered under id.
func (c *Commands) ExecuteCommand(id string, args ...any) (any, error) {
	c.mu.RLock()
	fn, ok := c.commands[id]
	c.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", host.ErrCommandNotFound, id)
	}
	return fn(args...)
}

// GetCommands returns the registered command ids, sorted.
func (c *Commands) GetCommands() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ids := make([]string, 0, len(c.commands))
	for id := range c.commands {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (c *Commands) setContext(args ...any) (any, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("%w: setContext takes a key and a value", host.ErrInvalidArguments)
	}
	key, ok := args[0].(string)
	if !ok || key == "" {
		return nil, fmt.Errorf("%w: setContext key must be a non-empty string", host.ErrInvalidArguments)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.contextErr != nil {
		return nil, c.contextErr
	}
	c.calls = append(c.calls, ContextCall{Key: key, Value: args[1]})
	c.context[key] = args[1]
	return nil, nil
}

// FailSetContext makes subsequent setContext calls return err. Passing nil
// restores normal behaviour.
func (c *Commands) FailSetContext(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.contextErr = err
}

// ContextCalls returns every successful setContext call in order.
func (c *Commands) ContextCalls() []ContextCall {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]ContextCall(nil), c.calls...)
}

// ContextCallsFor returns the values assigned to key, in order.
func (c *Commands) ContextCallsFor(key string) []any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []any
	for _, call := range c.calls {
		if call.Key == key {
			out = append(out, call.Value)
		}
	}
	return out
}

// Context returns the last value assigned to key.
func (c *Commands) Context(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.context[key]
	return v, ok
}

var _ host.Commands = (*Commands)(nil)
