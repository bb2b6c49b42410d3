package memhost

import (
	"strings"
	"sync"

	"github.com/dshills/ksreactive/internal/event"
	"github.com/dshills/ksreactive/internal/host"
)

// View is an in-memory tree or webview view.
type View struct {
	mu       sync.RWMutex
	id       string
	title    string
	titles   []string
	badge    *host.ViewBadge
	visible  bool
	disposed bool
	window   *Window

	visibilityChanged *event.Emitter[bool]

	data      host.TreeDataProvider
	dataSub   event.Disposable
	refreshes int
}

func (v *View) ID() string { return v.id }

// Items returns the tree's current root nodes. Views without a data
// provider have none.
func (v *View) Items() []host.TreeItem {
	v.mu.RLock()
	data := v.data
	v.mu.RUnlock()
	if data == nil {
		return nil
	}
	return data.Roots()
}

// Refreshes returns how many times the data provider reported a change.
func (v *View) Refreshes() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.refreshes
}

func (v *View) Title() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.title
}

// SetTitle assigns the title and records the assignment.
func (v *View) SetTitle(title string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.title = title
	v.titles = append(v.titles, title)
}

// TitleHistory returns every title assigned, in order.
func (v *View) TitleHistory() []string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]string(nil), v.titles...)
}

func (v *View) Badge() *host.ViewBadge {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.badge == nil {
		return nil
	}
	b := *v.badge
	return &b
}

func (v *View) SetBadge(badge *host.ViewBadge) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if badge == nil {
		v.badge = nil
		return
	}
	b := *badge
	v.badge = &b
}

func (v *View) Visible() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.visible
}

func (v *View) OnDidChangeVisibility() event.Event[bool] {
	return v.visibilityChanged.Event()
}

// SetVisible shows or hides the view.
func (v *View) SetVisible(visible bool) {
	v.mu.Lock()
	if v.visible == visible || v.disposed {
		v.mu.Unlock()
		return
	}
	v.visible = visible
	v.mu.Unlock()
	v.visibilityChanged.Fire(visible)
}

func (v *View) Dispose() {
	v.mu.Lock()
	if v.disposed {
		v.mu.Unlock()
		return
	}
	v.disposed = true
	sub := v.dataSub
	v.dataSub = nil
	v.mu.Unlock()

	if sub != nil {
		sub.Dispose()
	}
	v.visibilityChanged.Dispose()
	if v.window != nil {
		v.window.forget("view", v.id)
	}
}

// WebviewView is an in-memory webview view. Messages posted to it are
// recorded; Receive simulates a message sent by the page.
type WebviewView struct {
	*View

	html     string
	htmls    int
	posted   []any
	received *event.Emitter[any]
}

func (wv *WebviewView) HTML() string {
	wv.mu.RLock()
	defer wv.mu.RUnlock()
	return wv.html
}

// SetHTML replaces the page. Every call counts as a render.
func (wv *WebviewView) SetHTML(html string) {
	wv.mu.Lock()
	defer wv.mu.Unlock()
	wv.html = html
	wv.htmls++
}

// Renders returns how many times SetHTML was called.
func (wv *WebviewView) Renders() int {
	wv.mu.RLock()
	defer wv.mu.RUnlock()
	return wv.htmls
}

func (wv *WebviewView) PostMessage(msg any) error {
	wv.mu.Lock()
	defer wv.mu.Unlock()
	if wv.disposed {
		return host.ErrDisposed
	}
	wv.posted = append(wv.posted, msg)
	return nil
}

// Posted returns the messages sent to the page, in order.
func (wv *WebviewView) Posted() []any {
	wv.mu.RLock()
	defer wv.mu.RUnlock()
	return append([]any(nil), wv.posted...)
}

func (wv *WebviewView) OnDidReceiveMessage() event.Event[any] {
	return wv.received.Event()
}

// Receive delivers msg as if the page had sent it.
func (wv *WebviewView) Receive(msg any) {
	wv.received.Fire(msg)
}

func (wv *WebviewView) Dispose() {
	wv.View.Dispose()
	wv.received.Dispose()
	if wv.window != nil {
		wv.window.forget("webview", wv.id)
	}
}

// StatusBarItem is an in-memory status bar entry.
type StatusBarItem struct {
	mu        sync.RWMutex
	id        string
	alignment host.StatusBarAlignment
	priority  int
	text      string
	tooltip   string
	command   string
	visible   bool
	window    *Window
	once      sync.Once
}

func (s *StatusBarItem) ID() string                         { return s.id }
func (s *StatusBarItem) Alignment() host.StatusBarAlignment { return s.alignment }
func (s *StatusBarItem) Priority() int                      { return s.priority }

func (s *StatusBarItem) Text() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.text
}

func (s *StatusBarItem) SetText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.text = text
}

func (s *StatusBarItem) Tooltip() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tooltip
}

func (s *StatusBarItem) SetTooltip(tooltip string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tooltip = tooltip
}

func (s *StatusBarItem) Command() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.command
}

func (s *StatusBarItem) SetCommand(command string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.command = command
}

func (s *StatusBarItem) Visible() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.visible
}

func (s *StatusBarItem) Show() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visible = true
}

func (s *StatusBarItem) Hide() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visible = false
}

func (s *StatusBarItem) Dispose() {
	s.once.Do(func() {
		s.Hide()
		if s.window != nil {
			s.window.forget("status", s.id)
		}
	})
}

// OutputChannel is an in-memory output channel.
type OutputChannel struct {
	mu     sync.RWMutex
	name   string
	buf    strings.Builder
	shown  bool
	window *Window
	once   sync.Once
}

func (o *OutputChannel) Name() string { return o.name }

func (o *OutputChannel) Append(text string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.buf.WriteString(text)
}

func (o *OutputChannel) AppendLine(line string) {
	o.Append(line + "\n")
}

func (o *OutputChannel) Clear() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.buf.Reset()
}

func (o *OutputChannel) Show() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.shown = true
}

// Shown reports whether Show was called.
func (o *OutputChannel) Shown() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.shown
}

// Contents returns everything appended since the last Clear.
func (o *OutputChannel) Contents() string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.buf.String()
}

func (o *OutputChannel) Dispose() {
	o.once.Do(func() {
		if o.window != nil {
			o.window.forget("output", o.name)
		}
	})
}

var (
	_ host.View          = (*View)(nil)
	_ host.WebviewView   = (*WebviewView)(nil)
	_ host.StatusBarItem = (*StatusBarItem)(nil)
	_ host.OutputChannel = (*OutputChannel)(nil)
)
