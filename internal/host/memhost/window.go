package memhost

import (
	"sync"

	"github.com/dshills/ksreactive/internal/event"
	"github.com/dshills/ksreactive/internal/host"
)

// Window is the in-memory window surface.
type Window struct {
	mu             sync.RWMutex
	activeEditor   host.TextEditor
	visible        []*Editor
	activeTerminal host.Terminal
	terminals      []*Terminal
	state          host.WindowState
	theme          host.ColorTheme

	statusItems map[string]*StatusBarItem
	channels    map[string]*OutputChannel
	views       map[string]*View
	webviews    map[string]*WebviewView

	activeEditorChanged   *event.Emitter[host.TextEditor]
	visibleEditorsChanged *event.Emitter[[]host.TextEditor]
	selectionChanged      *event.Emitter[host.TextEditorSelectionChangeEvent]
	viewColumnChanged     *event.Emitter[host.TextEditorViewColumnChangeEvent]
	visibleRangesChanged  *event.Emitter[host.TextEditorVisibleRangesChangeEvent]
	activeTerminalChanged *event.Emitter[host.Terminal]
	terminalOpened        *event.Emitter[host.Terminal]
	terminalClosed        *event.Emitter[host.Terminal]
	terminalStateChanged  *event.Emitter[host.Terminal]
	stateChanged          *event.Emitter[host.WindowState]
	themeChanged          *event.Emitter[host.ColorTheme]
}

func newWindow() *Window {
	return &Window{
		state:       host.WindowState{Focused: true, Active: true},
		theme:       host.ColorTheme{Kind: host.ColorThemeDark},
		statusItems: make(map[string]*StatusBarItem),
		channels:    make(map[string]*OutputChannel),
		views:       make(map[string]*View),
		webviews:    make(map[string]*WebviewView),

		activeEditorChanged:   event.NewEmitter[host.TextEditor](),
		visibleEditorsChanged: event.NewEmitter[[]host.TextEditor](),
		selectionChanged:      event.NewEmitter[host.TextEditorSelectionChangeEvent](),
		viewColumnChanged:     event.NewEmitter[host.TextEditorViewColumnChangeEvent](),
		visibleRangesChanged:  event.NewEmitter[host.TextEditorVisibleRangesChangeEvent](),
		activeTerminalChanged: event.NewEmitter[host.Terminal](),
		terminalOpened:        event.NewEmitter[host.Terminal](),
		terminalClosed:        event.NewEmitter[host.Terminal](),
		terminalStateChanged:  event.NewEmitter[host.Terminal](),
		stateChanged:          event.NewEmitter[host.WindowState](),
		themeChanged:          event.NewEmitter[host.ColorTheme](),
	}
}

// Editors

func (w *Window) ActiveTextEditor() host.TextEditor {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.activeEditor
}

func (w *Window) OnDidChangeActiveTextEditor() event.Event[host.TextEditor] {
	return w.activeEditorChanged.Event()
}

func (w *Window) VisibleTextEditors() []host.TextEditor {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.visibleLocked()
}

func (w *Window) visibleLocked() []host.TextEditor {
	out := make([]host.TextEditor, len(w.visible))
	for i, e := range w.visible {
		out[i] = e
	}
	return out
}

func (w *Window) OnDidChangeVisibleTextEditors() event.Event[[]host.TextEditor] {
	return w.visibleEditorsChanged.Event()
}

func (w *Window) OnDidChangeTextEditorSelection() event.Event[host.TextEditorSelectionChangeEvent] {
	return w.selectionChanged.Event()
}

func (w *Window) OnDidChangeTextEditorViewColumn() event.Event[host.TextEditorViewColumnChangeEvent] {
	return w.viewColumnChanged.Event()
}

func (w *Window) OnDidChangeTextEditorVisibleRanges() event.Event[host.TextEditorVisibleRangesChangeEvent] {
	return w.visibleRangesChanged.Event()
}

// ShowTextDocument opens doc in a new editor, makes it visible and active.
func (w *Window) ShowTextDocument(doc *Document, column host.ViewColumn) *Editor {
	e := NewEditor(doc, column)

	w.mu.Lock()
	w.visible = append(w.visible, e)
	visible := w.visibleLocked()
	w.mu.Unlock()

	w.visibleEditorsChanged.Fire(visible)
	w.SetActiveTextEditor(e)
	return e
}

// SetActiveTextEditor makes e the active editor. Passing nil clears it.
func (w *Window) SetActiveTextEditor(e *Editor) {
	var next host.TextEditor
	if e != nil {
		next = e
	}

	w.mu.Lock()
	if w.activeEditor == next {
		w.mu.Unlock()
		return
	}
	w.activeEditor = next
	w.mu.Unlock()

	w.activeEditorChanged.Fire(next)
}

// CloseEditor removes e. If it was active, the last visible editor becomes active.
func (w *Window) CloseEditor(e *Editor) {
	w.mu.Lock()
	idx := -1
	for i, v := range w.visible {
		if v == e {
			idx = i
			break
		}
	}
	if idx < 0 {
		w.mu.Unlock()
		return
	}
	w.visible = append(w.visible[:idx], w.visible[idx+1:]...)
	visible := w.visibleLocked()
	wasActive := w.activeEditor == host.TextEditor(e)
	var fallback *Editor
	if len(w.visible) > 0 {
		fallback = w.visible[len(w.visible)-1]
	}
	w.mu.Unlock()

	w.visibleEditorsChanged.Fire(visible)
	if wasActive {
		w.SetActiveTextEditor(fallback)
	}
}

// SetSelections replaces e's selections.
func (w *Window) SetSelections(e *Editor, kind host.SelectionChangeKind, selections ...host.Selection) {
	e.mu.Lock()
	e.selections = append([]host.Selection(nil), selections...)
	e.mu.Unlock()

	w.selectionChanged.Fire(host.TextEditorSelectionChangeEvent{
		Editor:     e,
		Selections: e.Selections(),
		Kind:       kind,
	})
}

// SetViewColumn moves e to column.
func (w *Window) SetViewColumn(e *Editor, column host.ViewColumn) {
	e.mu.Lock()
	if e.column == column {
		e.mu.Unlock()
		return
	}
	e.column = column
	e.mu.Unlock()

	w.viewColumnChanged.Fire(host.TextEditorViewColumnChangeEvent{Editor: e, ViewColumn: column})
}

// SetVisibleRanges scrolls e.
func (w *Window) SetVisibleRanges(e *Editor, ranges ...host.Range) {
	e.mu.Lock()
	e.visibleRanges = append([]host.Range(nil), ranges...)
	e.mu.Unlock()

	w.visibleRangesChanged.Fire(host.TextEditorVisibleRangesChangeEvent{
		Editor:        e,
		VisibleRanges: e.VisibleRanges(),
	})
}

// Terminals

func (w *Window) ActiveTerminal() host.Terminal {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.activeTerminal
}

func (w *Window) OnDidChangeActiveTerminal() event.Event[host.Terminal] {
	return w.activeTerminalChanged.Event()
}

func (w *Window) Terminals() []host.Terminal {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]host.Terminal, len(w.terminals))
	for i, t := range w.terminals {
		out[i] = t
	}
	return out
}

func (w *Window) OnDidOpenTerminal() event.Event[host.Terminal] {
	return w.terminalOpened.Event()
}

func (w *Window) OnDidCloseTerminal() event.Event[host.Terminal] {
	return w.terminalClosed.Event()
}

func (w *Window) OnDidChangeTerminalState() event.Event[host.Terminal] {
	return w.terminalStateChanged.Event()
}

// OpenTerminal creates a terminal and makes it active.
func (w *Window) OpenTerminal(name, shell string) *Terminal {
	t := &Terminal{
		id:     newID(),
		name:   name,
		state:  host.TerminalState{Shell: shell},
		window: w,
	}

	w.mu.Lock()
	w.terminals = append(w.terminals, t)
	w.mu.Unlock()

	w.terminalOpened.Fire(t)
	w.SetActiveTerminal(t)
	return t
}

// CloseTerminal removes t. If it was active, the last open terminal becomes active.
func (w *Window) CloseTerminal(t *Terminal) {
	w.mu.Lock()
	idx := -1
	for i, open := range w.terminals {
		if open == t {
			idx = i
			break
		}
	}
	if idx < 0 {
		w.mu.Unlock()
		return
	}
	w.terminals = append(w.terminals[:idx], w.terminals[idx+1:]...)
	wasActive := w.activeTerminal == host.Terminal(t)
	var fallback *Terminal
	if len(w.terminals) > 0 {
		fallback = w.terminals[len(w.terminals)-1]
	}
	w.mu.Unlock()

	t.mu.Lock()
	t.disposed = true
	t.mu.Unlock()

	w.terminalClosed.Fire(t)
	if wasActive {
		w.SetActiveTerminal(fallback)
	}
}

// SetActiveTerminal makes t active. Passing nil clears it.
func (w *Window) SetActiveTerminal(t *Terminal) {
	var next host.Terminal
	if t != nil {
		next = t
	}

	w.mu.Lock()
	if w.activeTerminal == next {
		w.mu.Unlock()
		return
	}
	w.activeTerminal = next
	w.mu.Unlock()

	w.activeTerminalChanged.Fire(next)
}

// Window state and theme

func (w *Window) State() host.WindowState {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.state
}

func (w *Window) OnDidChangeWindowState() event.Event[host.WindowState] {
	return w.stateChanged.Event()
}

// SetWindowState updates focus state.
func (w *Window) SetWindowState(state host.WindowState) {
	w.mu.Lock()
	if w.state == state {
		w.mu.Unlock()
		return
	}
	w.state = state
	w.mu.Unlock()

	w.stateChanged.Fire(state)
}

func (w *Window) ActiveColorTheme() host.ColorTheme {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.theme
}

func (w *Window) OnDidChangeActiveColorTheme() event.Event[host.ColorTheme] {
	return w.themeChanged.Event()
}

// SetColorTheme switches the active theme.
func (w *Window) SetColorTheme(kind host.ColorThemeKind) {
	theme := host.ColorTheme{Kind: kind}

	w.mu.Lock()
	if w.theme == theme {
		w.mu.Unlock()
		return
	}
	w.theme = theme
	w.mu.Unlock()

	w.themeChanged.Fire(theme)
}

// UI objects

func (w *Window) CreateStatusBarItem(id string, alignment host.StatusBarAlignment, priority int) host.StatusBarItem {
	if id == "" {
		id = newID()
	}
	item := &StatusBarItem{id: id, alignment: alignment, priority: priority, window: w}

	w.mu.Lock()
	w.statusItems[id] = item
	w.mu.Unlock()
	return item
}

// StatusBarItem returns the live item registered under id.
func (w *Window) StatusBarItem(id string) (*StatusBarItem, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	item, ok := w.statusItems[id]
	return item, ok
}

func (w *Window) CreateOutputChannel(name string) host.OutputChannel {
	ch := &OutputChannel{name: name, window: w}

	w.mu.Lock()
	w.channels[name] = ch
	w.mu.Unlock()
	return ch
}

// OutputChannel returns the live channel registered under name.
func (w *Window) OutputChannel(name string) (*OutputChannel, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	ch, ok := w.channels[name]
	return ch, ok
}

// CreateTreeView creates a view showing data's nodes. A nil provider gives
// an empty tree.
func (w *Window) CreateTreeView(id string, data host.TreeDataProvider) host.View {
	v := w.NewView(id)
	if data != nil {
		v.data = data
		v.dataSub = data.OnDidChangeTreeData()(func(struct{}) {
			v.mu.Lock()
			v.refreshes++
			v.mu.Unlock()
		})
	}
	return v
}

// CreateWebviewView creates a visible webview view.
func (w *Window) CreateWebviewView(id string) host.WebviewView {
	wv := &WebviewView{View: w.NewView(id), received: event.NewEmitter[any]()}

	w.mu.Lock()
	w.webviews[id] = wv
	w.mu.Unlock()
	return wv
}

// Webview returns the live webview view registered under id.
func (w *Window) Webview(id string) (*WebviewView, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	wv, ok := w.webviews[id]
	return wv, ok
}

// NewView creates a visible view and returns the concrete type.
func (w *Window) NewView(id string) *View {
	v := &View{
		id:                id,
		visible:           true,
		window:            w,
		visibilityChanged: event.NewEmitter[bool](),
	}

	w.mu.Lock()
	w.views[id] = v
	w.mu.Unlock()
	return v
}

// View returns the live view registered under id.
func (w *Window) View(id string) (*View, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	v, ok := w.views[id]
	return v, ok
}

func (w *Window) forget(kind string, key string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	switch kind {
	case "status":
		delete(w.statusItems, key)
	case "output":
		delete(w.channels, key)
	case "view":
		delete(w.views, key)
	case "webview":
		delete(w.webviews, key)
	}
}

func (w *Window) dispose() {
	w.activeEditorChanged.Dispose()
	w.visibleEditorsChanged.Dispose()
	w.selectionChanged.Dispose()
	w.viewColumnChanged.Dispose()
	w.visibleRangesChanged.Dispose()
	w.activeTerminalChanged.Dispose()
	w.terminalOpened.Dispose()
	w.terminalClosed.Dispose()
	w.terminalStateChanged.Dispose()
	w.stateChanged.Dispose()
	w.themeChanged.Dispose()
}

var _ host.Window = (*Window)(nil)
