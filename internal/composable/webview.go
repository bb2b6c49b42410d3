package composable

import (
	"github.com/dshills/ksreactive/internal/host"
	"github.com/dshills/ksreactive/internal/reactive"
)

// WebviewView is a webview view whose page follows a reactive HTML source.
type WebviewView struct {
	view host.WebviewView
	html reactive.Value[string]
}

// View returns the host view.
func (w *WebviewView) View() host.WebviewView { return w.view }

// PostMessage sends msg to the page.
func (w *WebviewView) PostMessage(msg any) error { return w.view.PostMessage(msg) }

// ForceRefresh renders the current HTML again even if it has not changed.
func (w *WebviewView) ForceRefresh() {
	w.view.SetHTML(peek(w.html))
}

// WebviewViewOptions configures UseWebviewView.
type WebviewViewOptions struct {
	ViewOptions

	// OnMessage receives messages sent by the page.
	OnMessage func(msg any)
}

// UseWebviewView creates the webview view id and renders html into it
// whenever html changes. The view is disposed with s.
func UseWebviewView(
	s *reactive.Scope,
	win host.Window,
	id string,
	html reactive.Value[string],
	opts WebviewViewOptions,
) *WebviewView {
	w := &WebviewView{view: UseDisposable(s, win.CreateWebviewView(id)), html: html}

	reactive.WatchEffect(s, func() {
		page := html.Get()
		untracked(func() { w.view.SetHTML(page) })
	})
	if opts.OnMessage != nil {
		UseEvent(s, w.view.OnDidReceiveMessage(), opts.OnMessage)
	}

	opts.bind(s, w.view)
	return w
}
