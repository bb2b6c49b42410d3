package composable

import (
	"github.com/dshills/ksreactive/internal/event"
	"github.com/dshills/ksreactive/internal/host"
	"github.com/dshills/ksreactive/internal/reactive"
)

// UseViewTitle sets the view's title whenever view or title changes. It does
// nothing while view is nil and applies the current title as soon as a view
// is set.
func UseViewTitle(s *reactive.Scope, view reactive.Value[host.TitledView], title reactive.Value[string]) {
	reactive.WatchEffect(s, func() {
		v := view.Get()
		if isNil(v) {
			return
		}
		t := title.Get()
		untracked(func() { v.SetTitle(t) })
	})
}

// UseViewBadge sets the view's badge whenever view or badge changes. A nil
// badge clears it.
func UseViewBadge(s *reactive.Scope, view reactive.Value[host.View], badge reactive.Value[*host.ViewBadge]) {
	reactive.WatchEffect(s, func() {
		v := view.Get()
		if isNil(v) {
			return
		}
		b := badge.Get()
		untracked(func() { v.SetBadge(b) })
	})
}

// UseViewVisibility reports whether the current view is visible. It is false
// while view is nil.
func UseViewVisibility(s *reactive.Scope, view reactive.Value[host.View]) reactive.Readable[bool] {
	visible := reactive.NewRef(false)
	var sub event.Disposable = event.Nop

	follow := func(v host.View) {
		sub.Dispose()
		sub = event.Nop
		if isNil(v) {
			visible.Set(false)
			return
		}
		visible.Set(v.Visible())
		sub = v.OnDidChangeVisibility()(visible.Set)
	}

	follow(peek(view))
	reactive.Watch(s, view.Get, func(v, _ host.View) { follow(v) })
	s.OnDispose(func() { sub.Dispose() })

	return visible
}
