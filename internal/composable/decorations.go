package composable

import (
	"github.com/dshills/ksreactive/internal/host"
	"github.com/dshills/ksreactive/internal/reactive"
)

// DecorationOptions configures UseEditorDecorations.
type DecorationOptions struct {
	// Workspace, when set, reapplies the ranges after every change to the
	// decorated editor's document.
	Workspace host.Workspace
}

// UseEditorDecorations shows ranges with decorationType in editor, and
// applies them again whenever editor or ranges change. An editor that is
// replaced keeps what it was last given. The returned func applies the
// current ranges on demand.
func UseEditorDecorations(
	s *reactive.Scope,
	editor reactive.Value[host.TextEditor],
	decorationType string,
	ranges reactive.Value[[]host.Range],
	opts DecorationOptions,
) func() {
	apply := func(e host.TextEditor, r []host.Range) {
		if isNil(e) {
			return
		}
		untracked(func() { e.SetDecorations(decorationType, r) })
	}

	reactive.WatchEffect(s, func() {
		apply(editor.Get(), ranges.Get())
	})

	update := func() {
		if !s.Active() {
			return
		}
		apply(peek(editor), peek(ranges))
	}

	if opts.Workspace != nil {
		UseEvent(s, opts.Workspace.OnDidChangeTextDocument(), func(ev host.TextDocumentChangeEvent) {
			if e := peek(editor); !isNil(e) && same(ev.Document, e.Document()) {
				update()
			}
		})
	}
	return update
}

// UseActiveEditorDecorations is UseEditorDecorations on whichever editor is
// active.
func UseActiveEditorDecorations(
	s *reactive.Scope,
	win host.Window,
	decorationType string,
	ranges reactive.Value[[]host.Range],
	opts DecorationOptions,
) func() {
	active := UseActiveTextEditor(s, win)
	return UseEditorDecorations(s, reactive.Of(active), decorationType, ranges, opts)
}
