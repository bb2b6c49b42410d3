package composable

import (
	"sort"

	"github.com/dshills/ksreactive/internal/event"
	"github.com/dshills/ksreactive/internal/host"
	"github.com/dshills/ksreactive/internal/reactive"
)

// FsWatcher is a set of host file watchers kept in sync with a reactive
// pattern list.
type FsWatcher struct {
	watchers *reactive.ShallowMap[host.GlobPattern, host.FileSystemWatcher]
	live     map[host.GlobPattern]liveWatcher

	created *event.Emitter[host.URI]
	changed *event.Emitter[host.URI]
	deleted *event.Emitter[host.URI]
}

// Watchers returns the live watchers keyed by pattern. After every
// reconciliation its keys equal the de-duplicated pattern list.
func (w *FsWatcher) Watchers() *reactive.ShallowMap[host.GlobPattern, host.FileSystemWatcher] {
	return w.watchers
}

// OnDidCreate fires when any live watcher reports a created file.
func (w *FsWatcher) OnDidCreate() event.Event[host.URI] { return w.created.Event() }

// OnDidChange fires when any live watcher reports a changed file.
func (w *FsWatcher) OnDidChange() event.Event[host.URI] { return w.changed.Event() }

// OnDidDelete fires when any live watcher reports a deleted file.
func (w *FsWatcher) OnDidDelete() event.Event[host.URI] { return w.deleted.Event() }

// liveWatcher is a host watcher and its forwarding subscriptions.
type liveWatcher struct {
	fw  host.FileSystemWatcher
	sub event.Disposable
}

type ignoreFlags struct {
	create bool
	change bool
	delete bool
}

// UseFsWatcher creates one host watcher per distinct pattern and keeps the
// set in sync with patterns. Unset ignore flags are false.
//
// Pattern changes are reconciled: watchers for removed patterns are
// disposed, new patterns get new watchers, and the rest are kept. Host
// watchers cannot change their ignore flags, so any flag change disposes and
// recreates every watcher. Disposing s disposes all watchers.
func UseFsWatcher(
	s *reactive.Scope,
	ws host.Workspace,
	patterns reactive.Value[[]host.GlobPattern],
	ignoreCreate, ignoreChange, ignoreDelete reactive.Value[bool],
) *FsWatcher {
	w := &FsWatcher{
		watchers: reactive.NewShallowMap[host.GlobPattern, host.FileSystemWatcher](),
		live:     make(map[host.GlobPattern]liveWatcher),
		created:  UseEventEmitter[host.URI](s),
		changed:  UseEventEmitter[host.URI](s),
		deleted:  UseEventEmitter[host.URI](s),
	}

	desired := func() []host.GlobPattern {
		return dedupe(patterns.Get())
	}
	flags := func() ignoreFlags {
		return ignoreFlags{
			create: ignoreCreate.GetOr(false),
			change: ignoreChange.GetOr(false),
			delete: ignoreDelete.GetOr(false),
		}
	}

	update := func(want []host.GlobPattern, f ignoreFlags) {
		keep := make(map[host.GlobPattern]bool, len(want))
		for _, p := range want {
			keep[p] = true
		}
		for _, p := range w.watchers.PeekKeys() {
			if !keep[p] {
				w.remove(p)
			}
		}
		for _, p := range want {
			if _, ok := w.live[p]; ok {
				continue
			}
			w.add(ws, p, f)
		}
	}

	reset := func() {
		for _, p := range w.watchers.PeekKeys() {
			w.remove(p)
		}
		w.watchers.Clear()
	}

	// Patterns and flags are read by one watcher so that a batch changing
	// both creates each watcher once, with the new flags.
	type state struct {
		want  []host.GlobPattern
		flags ignoreFlags
	}
	applied := reactive.Untracked(flags)
	untracked(func() { update(desired(), applied) })

	reactive.Watch(s, func() state {
		return state{want: desired(), flags: flags()}
	}, func(st, _ state) {
		if st.flags != applied {
			applied = st.flags
			reset()
		}
		update(st.want, applied)
	})
	s.OnDispose(reset)

	return w
}

func (w *FsWatcher) add(ws host.Workspace, p host.GlobPattern, f ignoreFlags) {
	fw := ws.CreateFileSystemWatcher(p, f.create, f.change, f.delete)
	if fw == nil {
		logger().Warn("host returned no watcher for %s", p)
		return
	}
	w.live[p] = liveWatcher{
		fw: fw,
		sub: event.Combine(
			fw.OnDidCreate()(w.created.Fire),
			fw.OnDidChange()(w.changed.Fire),
			fw.OnDidDelete()(w.deleted.Fire),
		),
	}
	w.watchers.Set(p, fw)
}

func (w *FsWatcher) remove(p host.GlobPattern) {
	if lw, ok := w.live[p]; ok {
		lw.sub.Dispose()
		lw.fw.Dispose()
		delete(w.live, p)
	}
	w.watchers.Delete(p)
}

// dedupe drops repeated patterns, keeping first-seen order.
func dedupe(in []host.GlobPattern) []host.GlobPattern {
	seen := make(map[host.GlobPattern]bool, len(in))
	out := make([]host.GlobPattern, 0, len(in))
	for _, p := range in {
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}

// Patterns returns a constant pattern list.
func Patterns(patterns ...host.GlobPattern) reactive.Value[[]host.GlobPattern] {
	return reactive.Const(patterns)
}

// Globs converts workspace-relative glob strings to patterns.
func Globs(globs ...string) []host.GlobPattern {
	out := make([]host.GlobPattern, len(globs))
	for i, g := range globs {
		out[i] = host.Glob(g)
	}
	return out
}

// PatternSet flattens a pattern set into a list ordered by pattern text.
func PatternSet(set map[host.GlobPattern]struct{}) []host.GlobPattern {
	out := make([]host.GlobPattern, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Base != out[j].Base {
			return out[i].Base < out[j].Base
		}
		return out[i].Pattern < out[j].Pattern
	})
	return out
}
