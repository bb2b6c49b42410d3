package composable

import (
	"slices"

	"github.com/dshills/ksreactive/internal/host"
	"github.com/dshills/ksreactive/internal/reactive"
)

// UseActiveTextEditor tracks the focused editor. It is nil when no editor
// has focus.
func UseActiveTextEditor(s *reactive.Scope, win host.Window) reactive.Readable[host.TextEditor] {
	return useEventRef(s, win.ActiveTextEditor(), win.OnDidChangeActiveTextEditor(), identity[host.TextEditor])
}

// UseVisibleTextEditors tracks the editors on screen.
func UseVisibleTextEditors(s *reactive.Scope, win host.Window) reactive.Readable[[]host.TextEditor] {
	return useEventRef(s, win.VisibleTextEditors(), win.OnDidChangeVisibleTextEditors(), identity[[]host.TextEditor])
}

// UseTextEditorSelections tracks the selections of editor. When kinds are
// given, only selection changes of those kinds are applied. Switching editor
// resets the value to the new editor's selections.
func UseTextEditorSelections(
	s *reactive.Scope,
	win host.Window,
	editor reactive.Value[host.TextEditor],
	kinds ...host.SelectionChangeKind,
) reactive.Readable[[]host.Selection] {
	read := func(e host.TextEditor) []host.Selection {
		if isNil(e) {
			return nil
		}
		return e.Selections()
	}

	sel := reactive.NewRef(read(peek(editor)))
	reactive.Watch(s, editor.Get, func(e, _ host.TextEditor) {
		sel.Set(read(e))
	})
	UseEvent(s, win.OnDidChangeTextEditorSelection(), func(ev host.TextEditorSelectionChangeEvent) {
		if !same(ev.Editor, peek(editor)) {
			return
		}
		if len(kinds) > 0 && !slices.Contains(kinds, ev.Kind) {
			return
		}
		sel.Set(ev.Selections)
	})
	return sel
}

// UseTextEditorSelection tracks the primary selection of editor. It is the
// zero Selection when the editor is nil.
func UseTextEditorSelection(
	s *reactive.Scope,
	win host.Window,
	editor reactive.Value[host.TextEditor],
	kinds ...host.SelectionChangeKind,
) reactive.Readable[host.Selection] {
	all := UseTextEditorSelections(s, win, editor, kinds...)
	return reactive.NewComputed(func() host.Selection {
		sels := all.Get()
		if len(sels) == 0 {
			return host.Selection{}
		}
		return sels[0]
	})
}

// UseTextEditorViewColumn tracks the column editor is shown in.
func UseTextEditorViewColumn(s *reactive.Scope, win host.Window, editor reactive.Value[host.TextEditor]) reactive.Readable[host.ViewColumn] {
	read := func(e host.TextEditor) host.ViewColumn {
		if isNil(e) {
			return 0
		}
		return e.ViewColumn()
	}

	col := reactive.NewRef(read(peek(editor)))
	reactive.Watch(s, editor.Get, func(e, _ host.TextEditor) {
		col.Set(read(e))
	})
	UseEvent(s, win.OnDidChangeTextEditorViewColumn(), func(ev host.TextEditorViewColumnChangeEvent) {
		if same(ev.Editor, peek(editor)) {
			col.Set(ev.ViewColumn)
		}
	})
	return col
}

// UseTextEditorVisibleRanges tracks the ranges of editor's document on screen.
func UseTextEditorVisibleRanges(s *reactive.Scope, win host.Window, editor reactive.Value[host.TextEditor]) reactive.Readable[[]host.Range] {
	read := func(e host.TextEditor) []host.Range {
		if isNil(e) {
			return nil
		}
		return e.VisibleRanges()
	}

	ranges := reactive.NewRef(read(peek(editor)))
	reactive.Watch(s, editor.Get, func(e, _ host.TextEditor) {
		ranges.Set(read(e))
	})
	UseEvent(s, win.OnDidChangeTextEditorVisibleRanges(), func(ev host.TextEditorVisibleRangesChangeEvent) {
		if same(ev.Editor, peek(editor)) {
			ranges.Set(ev.VisibleRanges)
		}
	})
	return ranges
}

// UseDocumentText tracks the text of doc. It is empty while doc is nil.
func UseDocumentText(s *reactive.Scope, ws host.Workspace, doc reactive.Value[host.TextDocument]) reactive.Readable[string] {
	read := func(d host.TextDocument) string {
		if isNil(d) {
			return ""
		}
		return d.Text()
	}

	text := reactive.NewRef(read(peek(doc)))
	reactive.Watch(s, doc.Get, func(d, _ host.TextDocument) {
		text.Set(read(d))
	})
	UseEvent(s, ws.OnDidChangeTextDocument(), func(ev host.TextDocumentChangeEvent) {
		if same(ev.Document, peek(doc)) {
			text.Set(read(ev.Document))
		}
	})
	return text
}
