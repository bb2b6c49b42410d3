package composable

import (
	"strings"
	"testing"

	"github.com/dshills/ksreactive/internal/host"
	"github.com/dshills/ksreactive/internal/logging"
	"github.com/dshills/ksreactive/internal/reactive"
)

func TestUseStatusBarItem(t *testing.T) {
	h := newTestHost(t)
	s := reactive.NewScope()

	count := reactive.NewRef(0)
	visible := reactive.NewRef(true)
	UseStatusBarItem(s, h.Window, StatusBarItemOptions{
		ID:       "ext.count",
		Priority: 5,
		Text: reactive.Getter(func() string {
			return strings.Repeat("*", count.Get())
		}),
		Command: reactive.Const("ext.reset"),
		Visible: reactive.Of[bool](visible),
	})

	item, ok := h.Window.StatusBarItem("ext.count")
	if !ok {
		t.Fatal("item not created")
	}
	if item.Alignment() != host.StatusBarLeft || item.Command() != "ext.reset" || !item.Visible() {
		t.Errorf("alignment=%v command=%q visible=%v", item.Alignment(), item.Command(), item.Visible())
	}

	count.Set(3)
	if item.Text() != "***" {
		t.Errorf("text = %q", item.Text())
	}
	visible.Set(false)
	if item.Visible() {
		t.Error("item should be hidden")
	}

	s.Dispose()
	if _, ok := h.Window.StatusBarItem("ext.count"); ok {
		t.Error("item should be disposed with the scope")
	}
	count.Set(1)
	if item.Text() != "***" {
		t.Error("text changed after dispose")
	}
}

func TestUseLogger(t *testing.T) {
	h := newTestHost(t)
	s := reactive.NewScope()

	log := UseLogger(s, h.Window, "Reactive Demo", logging.LevelInfo)
	log.Debug("hidden")
	log.WithField("n", 1).Info("started")

	ch, ok := h.Window.OutputChannel("Reactive Demo")
	if !ok {
		t.Fatal("output channel not created")
	}
	out := ch.Contents()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug line written at info level: %q", out)
	}
	if !strings.Contains(out, "[INFO] reactive demo: started {n=1}") {
		t.Errorf("contents = %q", out)
	}

	s.Dispose()
	if _, ok := h.Window.OutputChannel("Reactive Demo"); ok {
		t.Error("channel should be disposed with the scope")
	}
}
