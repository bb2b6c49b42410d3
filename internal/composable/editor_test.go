package composable

import (
	"reflect"
	"testing"

	"github.com/dshills/ksreactive/internal/host"
	"github.com/dshills/ksreactive/internal/host/memhost"
	"github.com/dshills/ksreactive/internal/reactive"
)

func newDoc(path, text string) *memhost.Document {
	return memhost.NewDocument(host.File(path), "plaintext", text)
}

func sel(line, char int) host.Selection {
	p := host.Position{Line: line, Character: char}
	return host.Selection{Anchor: p, Active: p}
}

func TestUseActiveTextEditor(t *testing.T) {
	h := newTestHost(t)
	s := reactive.NewScope()
	defer s.Dispose()

	first := h.Window.ShowTextDocument(newDoc("/ws/a", ""), 1)
	active := UseActiveTextEditor(s, h.Window)
	visible := UseVisibleTextEditors(s, h.Window)

	if active.Peek() != host.TextEditor(first) {
		t.Fatal("initial value should be read eagerly")
	}

	second := h.Window.ShowTextDocument(newDoc("/ws/b", ""), 2)
	if active.Peek() != host.TextEditor(second) || len(visible.Peek()) != 2 {
		t.Errorf("active = %v, visible = %d", active.Peek(), len(visible.Peek()))
	}

	h.Window.SetActiveTextEditor(nil)
	if active.Peek() != nil {
		t.Error("active editor should be nil")
	}
}

func TestUseTextEditorSelections(t *testing.T) {
	h := newTestHost(t)
	s := reactive.NewScope()
	defer s.Dispose()

	a := h.Window.ShowTextDocument(newDoc("/ws/a", ""), 1)
	b := h.Window.ShowTextDocument(newDoc("/ws/b", ""), 2)
	h.Window.SetSelections(b, host.SelectionChangeCommand, sel(9, 9))

	editor := reactive.NewRef[host.TextEditor](a)
	sels := UseTextEditorSelections(s, h.Window, reactive.Of[host.TextEditor](editor))
	primary := UseTextEditorSelection(s, h.Window, reactive.Of[host.TextEditor](editor))
	mouseOnly := UseTextEditorSelections(s, h.Window, reactive.Of[host.TextEditor](editor), host.SelectionChangeMouse)

	h.Window.SetSelections(a, host.SelectionChangeKeyboard, sel(1, 0), sel(2, 0))
	if got := sels.Peek(); !reflect.DeepEqual(got, []host.Selection{sel(1, 0), sel(2, 0)}) {
		t.Errorf("selections = %v", got)
	}
	if got := primary.Peek(); got != sel(1, 0) {
		t.Errorf("primary = %v", got)
	}
	if got := mouseOnly.Peek(); !reflect.DeepEqual(got, []host.Selection{{}}) {
		t.Errorf("keyboard change applied to mouse-only value: %v", got)
	}

	// Changes in other editors are ignored.
	h.Window.SetSelections(b, host.SelectionChangeMouse, sel(5, 5))
	if got := primary.Peek(); got != sel(1, 0) {
		t.Errorf("primary followed another editor: %v", got)
	}

	editor.Set(b)
	if got := primary.Peek(); got != sel(5, 5) {
		t.Errorf("after switching editor primary = %v, want 5:5", got)
	}

	editor.Set(nil)
	if got := sels.Peek(); got != nil {
		t.Errorf("nil editor selections = %v", got)
	}
}

func TestUseTextEditorViewColumnAndRanges(t *testing.T) {
	h := newTestHost(t)
	s := reactive.NewScope()
	defer s.Dispose()

	e := h.Window.ShowTextDocument(newDoc("/ws/a", ""), 1)
	col := UseTextEditorViewColumn(s, h.Window, reactive.Const[host.TextEditor](e))
	ranges := UseTextEditorVisibleRanges(s, h.Window, reactive.Const[host.TextEditor](e))

	h.Window.SetViewColumn(e, 2)
	r := host.Range{Start: host.Position{Line: 10}, End: host.Position{Line: 50}}
	h.Window.SetVisibleRanges(e, r)

	if col.Peek() != 2 {
		t.Errorf("view column = %d, want 2", col.Peek())
	}
	if got := ranges.Peek(); !reflect.DeepEqual(got, []host.Range{r}) {
		t.Errorf("visible ranges = %v", got)
	}
}

func TestUseDocumentText(t *testing.T) {
	h := newTestHost(t)
	s := reactive.NewScope()
	defer s.Dispose()

	a := newDoc("/ws/a", "alpha")
	b := newDoc("/ws/b", "beta")
	h.Window.ShowTextDocument(a, 1)

	editor := UseActiveTextEditor(s, h.Window)
	text := UseDocumentText(s, h.Workspace, reactive.Getter(func() host.TextDocument {
		if e := editor.Get(); e != nil {
			return e.Document()
		}
		return nil
	}))

	if text.Peek() != "alpha" {
		t.Fatalf("text = %q", text.Peek())
	}

	h.Workspace.EditDocument(a, "alpha 2")
	h.Workspace.EditDocument(b, "beta 2")
	if text.Peek() != "alpha 2" {
		t.Errorf("text = %q, want alpha 2", text.Peek())
	}

	h.Window.ShowTextDocument(b, 2)
	if text.Peek() != "beta 2" {
		t.Errorf("text after switching = %q", text.Peek())
	}

	h.Window.SetActiveTextEditor(nil)
	if text.Peek() != "" {
		t.Errorf("text with no editor = %q", text.Peek())
	}
}
