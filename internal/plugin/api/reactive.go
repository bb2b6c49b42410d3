package api

import (
	"fmt"
	"sort"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/ksreactive/internal/composable"
	"github.com/dshills/ksreactive/internal/event"
	"github.com/dshills/ksreactive/internal/host"
	"github.com/dshills/ksreactive/internal/logging"
	plua "github.com/dshills/ksreactive/internal/plugin/lua"
	"github.com/dshills/ksreactive/internal/reactive"
)

// Events accepted by on.
const (
	EventActiveEditor   = "activeEditor"
	EventWindowState    = "windowState"
	EventTerminalOpened = "terminalOpened"
	EventFolders        = "folders"
	EventTheme          = "theme"
)

// ReactiveModule implements the ks.reactive API module.
type ReactiveModule struct {
	ctx        *Context
	pluginName string
	state      *plua.State
	logger     *logging.Logger

	scope    *reactive.Scope
	bindings map[string]*reactive.Scope
	contexts map[string]*reactive.Ref[any]
	titles   map[string]*reactive.Ref[string]
	nextID   uint64
}

// NewReactiveModule creates a reactive module for one plugin.
func NewReactiveModule(ctx *Context, pluginName string) *ReactiveModule {
	return &ReactiveModule{
		ctx:        ctx,
		pluginName: pluginName,
		logger:     ctx.logger().WithComponent("plugin").WithField("plugin", pluginName),
		bindings:   make(map[string]*reactive.Scope),
		contexts:   make(map[string]*reactive.Ref[any]),
		titles:     make(map[string]*reactive.Ref[string]),
	}
}

// Name returns the module name.
func (m *ReactiveModule) Name() string {
	return "reactive"
}

// Register registers the module into the Lua state.
func (m *ReactiveModule) Register(s *plua.State) error {
	if m.ctx.Host == nil {
		return fmt.Errorf("reactive module for %q: no host", m.pluginName)
	}
	m.state = s
	if m.scope == nil || !m.scope.Active() {
		if m.ctx.Scope != nil {
			m.scope = m.ctx.Scope.Child()
		} else {
			m.scope = reactive.NewScope()
		}
	}

	L := s.L
	mod := L.NewTable()
	L.SetField(mod, "watch", L.NewFunction(m.watch))
	L.SetField(mod, "context", L.NewFunction(m.context))
	L.SetField(mod, "title", L.NewFunction(m.title))
	L.SetField(mod, "on", L.NewFunction(m.on))
	L.SetField(mod, "off", L.NewFunction(m.off))
	L.SetField(mod, "folders", L.NewFunction(m.folders))
	L.SetGlobal("_ks_reactive", mod)
	return nil
}

// Cleanup disposes every binding the plugin created.
func (m *ReactiveModule) Cleanup() {
	if m.scope != nil {
		m.scope.Dispose()
	}
	if m.state != nil && !m.state.IsClosed() {
		m.state.L.SetGlobal("_ks_reactive", lua.LNil)
	}
	m.state = nil
	m.bindings = make(map[string]*reactive.Scope)
	m.contexts = make(map[string]*reactive.Ref[any])
	m.titles = make(map[string]*reactive.Ref[string])
}

// Bindings returns the ids of live watch and on bindings, sorted.
func (m *ReactiveModule) Bindings() []string {
	ids := make([]string, 0, len(m.bindings))
	for id := range m.bindings {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// bind opens a child scope tracked under a new id.
func (m *ReactiveModule) bind(kind string) (string, *reactive.Scope) {
	m.nextID++
	id := fmt.Sprintf("%s_%s_%d", m.pluginName, kind, m.nextID)
	s := m.scope.Child()
	m.bindings[id] = s
	return id, s
}

// call invokes a Lua callback, logging failures.
func (m *ReactiveModule) call(fn *lua.LFunction, args ...lua.LValue) {
	if m.state == nil || m.state.IsClosed() {
		return
	}
	if err := m.state.CallFunction(fn, args...); err != nil {
		m.logger.Error("callback failed: %v", err)
	}
}

// watch(patterns, handlers) -> id
// patterns is a glob string or a list of them. handlers holds on_create,
// on_change and on_delete callbacks, called with the file path, and the
// ignore_create, ignore_change and ignore_delete flags.
func (m *ReactiveModule) watch(L *lua.LState) int {
	globs := plua.Strings(L.CheckAny(1))
	handlers := L.OptTable(2, L.NewTable())

	flag := func(key string) reactive.Value[bool] {
		return reactive.Const(lua.LVAsBool(handlers.RawGetString(key)))
	}

	id, s := m.bind("watch")
	fw := composable.UseFsWatcher(s, m.ctx.Host.Workspace,
		composable.Patterns(composable.Globs(globs...)...),
		flag("ignore_create"), flag("ignore_change"), flag("ignore_delete"))

	for key, ev := range map[string]event.Event[host.URI]{
		"on_create": fw.OnDidCreate(),
		"on_change": fw.OnDidChange(),
		"on_delete": fw.OnDidDelete(),
	} {
		if fn, ok := handlers.RawGetString(key).(*lua.LFunction); ok {
			composable.UseEvent(s, ev, func(uri host.URI) {
				m.call(fn, lua.LString(uri.FSPath()))
			})
		}
	}

	L.Push(lua.LString(id))
	return 1
}

// context(name, value) -> true | false, err
// The first call for a name binds it; later calls update the bound value.
func (m *ReactiveModule) context(L *lua.LState) int {
	name := L.CheckString(1)
	value := plua.ToGo(L.Get(2))

	if ref, ok := m.contexts[name]; ok {
		ref.Set(value)
		L.Push(lua.LTrue)
		return 1
	}

	ref, err := composable.UseContextRef[any](m.scope, m.ctx.Host.Commands, name, value, reactive.Value[bool]{})
	if err != nil {
		L.Push(lua.LFalse)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	m.contexts[name] = ref
	L.Push(lua.LTrue)
	return 1
}

// title(view_id, title)
// The view is created on first use and disposed with the module.
func (m *ReactiveModule) title(L *lua.LState) int {
	viewID := L.CheckString(1)
	text := L.CheckString(2)

	if ref, ok := m.titles[viewID]; ok {
		ref.Set(text)
		return 0
	}

	ref := reactive.NewRef(text)
	m.titles[viewID] = ref
	composable.UseTreeView(m.scope, m.ctx.Host.Window, viewID, reactive.Value[[]host.TreeItem]{},
		composable.ViewOptions{Title: reactive.Of[string](ref)})
	return 0
}

// on(event, fn) -> id
// fn is called with the current value immediately and on every change.
// terminalOpened only fires for terminals opened later.
func (m *ReactiveModule) on(L *lua.LState) int {
	name := L.CheckString(1)
	fn := L.CheckFunction(2)
	win := m.ctx.Host.Window

	switch name {
	case EventActiveEditor, EventWindowState, EventTerminalOpened, EventFolders, EventTheme:
	default:
		L.ArgError(1, fmt.Sprintf("unknown event %q", name))
		return 0
	}

	id, s := m.bind("on")
	switch name {
	case EventActiveEditor:
		editor := composable.UseActiveTextEditor(s, win)
		reactive.Watch(s, editor.Get, func(e, _ host.TextEditor) {
			m.call(fn, editorTable(L, e))
		}, reactive.Immediate())
	case EventWindowState:
		state := composable.UseWindowState(s, win)
		reactive.Watch(s, state.State.Get, func(ws, _ host.WindowState) {
			m.call(fn, plua.ToLua(L, map[string]any{"focused": ws.Focused, "active": ws.Active}))
		}, reactive.Immediate())
	case EventTerminalOpened:
		composable.UseEvent(s, win.OnDidOpenTerminal(), func(t host.Terminal) {
			m.call(fn, plua.ToLua(L, map[string]any{"id": t.ID(), "name": t.Name()}))
		})
	case EventFolders:
		folders := composable.UseWorkspaceFolders(s, m.ctx.Host.Workspace)
		reactive.Watch(s, folders.Get, func(fs, _ []host.WorkspaceFolder) {
			m.call(fn, plua.ToLua(L, folderPaths(fs)))
		}, reactive.Immediate())
	case EventTheme:
		theme := composable.UseActiveColorTheme(s, win)
		reactive.Watch(s, theme.Get, func(t, _ host.ColorTheme) {
			m.call(fn, lua.LString(t.Kind.String()))
		}, reactive.Immediate())
	}

	L.Push(lua.LString(id))
	return 1
}

// off(id) -> bool
// Disposes a watch or on binding. Returns false for unknown ids.
func (m *ReactiveModule) off(L *lua.LState) int {
	id := L.CheckString(1)
	s, ok := m.bindings[id]
	if ok {
		delete(m.bindings, id)
		s.Dispose()
	}
	L.Push(lua.LBool(ok))
	return 1
}

// folders() -> {paths}
func (m *ReactiveModule) folders(L *lua.LState) int {
	L.Push(plua.ToLua(L, folderPaths(m.ctx.Host.Workspace.WorkspaceFolders())))
	return 1
}

func folderPaths(folders []host.WorkspaceFolder) []string {
	paths := make([]string, len(folders))
	for i, f := range folders {
		paths[i] = f.URI.FSPath()
	}
	return paths
}

func editorTable(L *lua.LState, e host.TextEditor) lua.LValue {
	if e == nil {
		return lua.LNil
	}
	doc := e.Document()
	return plua.ToLua(L, map[string]any{
		"uri":         doc.URI().String(),
		"path":        doc.URI().FSPath(),
		"language":    doc.LanguageID(),
		"view_column": int(e.ViewColumn()),
	})
}

var _ Module = (*ReactiveModule)(nil)
