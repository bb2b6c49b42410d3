package composable

import (
	"github.com/dshills/ksreactive/internal/event"
	"github.com/dshills/ksreactive/internal/host"
	"github.com/dshills/ksreactive/internal/reactive"
)

// ViewOptions are the reactive decorations shared by tree and webview
// views. Unset fields leave the host's value alone.
type ViewOptions struct {
	Title reactive.Value[string]
	Badge reactive.Value[*host.ViewBadge]
}

func (o ViewOptions) bind(s *reactive.Scope, view host.View) {
	if o.Title.IsSet() {
		UseViewTitle(s, reactive.Const[host.TitledView](view), o.Title)
	}
	if o.Badge.IsSet() {
		UseViewBadge(s, reactive.Const(view), o.Badge)
	}
}

// treeData serves the latest items to the host and announces changes.
type treeData struct {
	items   reactive.Value[[]host.TreeItem]
	changed *event.Emitter[struct{}]
}

func (d *treeData) Roots() []host.TreeItem { return peek(d.items) }

func (d *treeData) OnDidChangeTreeData() event.Event[struct{}] { return d.changed.Event() }

// UseTreeView creates the tree view id showing items. Whenever the content
// of items changes the host is asked to re-read the tree. The view is
// disposed with s.
func UseTreeView(
	s *reactive.Scope,
	win host.Window,
	id string,
	items reactive.Value[[]host.TreeItem],
	opts ViewOptions,
) host.View {
	data := &treeData{items: items, changed: UseEventEmitter[struct{}](s)}
	view := UseDisposable(s, win.CreateTreeView(id, data))

	reactive.Watch(s, items.Get, func(_, _ []host.TreeItem) {
		data.changed.Fire(struct{}{})
	}, reactive.Deep())

	opts.bind(s, view)
	return view
}
