package composable

import (
	"reflect"
	"testing"

	"github.com/dshills/ksreactive/internal/host"
	"github.com/dshills/ksreactive/internal/reactive"
)

func lineRange(line int) host.Range {
	return host.Range{
		Start: host.Position{Line: line},
		End:   host.Position{Line: line, Character: 1},
	}
}

func TestUseEditorDecorations(t *testing.T) {
	h := newTestHost(t)
	s := reactive.NewScope()

	doc := newDoc("/ws/a.go", "x")
	a := h.Window.ShowTextDocument(doc, 1)
	b := h.Window.ShowTextDocument(newDoc("/ws/b.go", "y"), 2)

	editor := reactive.NewRef[host.TextEditor](a)
	ranges := reactive.NewRef([]host.Range{lineRange(0)})
	update := UseEditorDecorations(s, reactive.Of[host.TextEditor](editor), "err",
		reactive.Of[[]host.Range](ranges), DecorationOptions{Workspace: h.Workspace})

	if got := a.Decorations("err"); !reflect.DeepEqual(got, []host.Range{lineRange(0)}) {
		t.Fatalf("initial decorations = %v", got)
	}

	ranges.Set([]host.Range{lineRange(1), lineRange(2)})
	if got := a.Decorations("err"); len(got) != 2 {
		t.Errorf("decorations after change = %v", got)
	}

	editor.Set(b)
	if got := b.Decorations("err"); len(got) != 2 {
		t.Errorf("new editor decorations = %v", got)
	}
	if got := a.Decorations("err"); len(got) != 2 {
		t.Errorf("old editor lost its decorations: %v", got)
	}

	calls := b.DecorationCalls()
	update()
	if b.DecorationCalls() != calls+1 {
		t.Errorf("update() made %d calls, want 1", b.DecorationCalls()-calls)
	}

	h.Workspace.EditDocument(doc, "changed")
	if b.DecorationCalls() != calls+1 {
		t.Error("edit to another editor's document reapplied decorations")
	}

	s.Dispose()
	ranges.Set(nil)
	update()
	if b.DecorationCalls() != calls+1 {
		t.Error("decorations applied after dispose")
	}
}

func TestUseEditorDecorations_DocumentChange(t *testing.T) {
	h := newTestHost(t)
	s := reactive.NewScope()
	defer s.Dispose()

	doc := newDoc("/ws/a.go", "x")
	e := h.Window.ShowTextDocument(doc, 1)

	UseActiveEditorDecorations(s, h.Window, "hl", reactive.Const([]host.Range{lineRange(0)}),
		DecorationOptions{Workspace: h.Workspace})
	if e.DecorationCalls() != 1 {
		t.Fatalf("DecorationCalls() = %d, want 1", e.DecorationCalls())
	}

	h.Workspace.EditDocument(doc, "xy")
	if e.DecorationCalls() != 2 {
		t.Errorf("DecorationCalls() = %d after edit, want 2", e.DecorationCalls())
	}

	h.Window.SetActiveTextEditor(nil)
	h.Workspace.EditDocument(doc, "xyz")
	if e.DecorationCalls() != 2 {
		t.Errorf("DecorationCalls() = %d with no active editor, want 2", e.DecorationCalls())
	}
}

func TestUseURI(t *testing.T) {
	raw := reactive.NewRef("file:///ws/a.go")
	u := UseURI(reactive.Of[string](raw))
	if got := u.Get(); got != (host.URI{Scheme: "file", Path: "/ws/a.go"}) {
		t.Fatalf("UseURI = %+v", got)
	}

	raw.Set("untitled:Untitled-1")
	if got := u.Get(); got.Scheme != "untitled" || got.Path != "/Untitled-1" {
		t.Errorf("UseURI = %+v", got)
	}

	raw.Set("no scheme")
	if !u.Get().IsZero() {
		t.Errorf("UseURI(invalid) = %+v, want zero", u.Get())
	}
}

func TestUseFileURI(t *testing.T) {
	p := reactive.NewRef("/ws/./src/main.go")
	u := UseFileURI(reactive.Of[string](p))
	if got := u.Get(); got != host.File("/ws/src/main.go") {
		t.Errorf("UseFileURI = %+v", got)
	}
	p.Set("")
	if !u.Get().IsZero() {
		t.Errorf("UseFileURI(\"\") = %+v, want zero", u.Get())
	}
}
