package composable

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/dshills/ksreactive/internal/host"
	"github.com/dshills/ksreactive/internal/reactive"
)

func TestTerminals(t *testing.T) {
	h := newTestHost(t)
	s := reactive.NewScope()
	defer s.Dispose()

	one := h.Window.OpenTerminal("one", "/bin/sh")
	active := UseActiveTerminal(s, h.Window)
	opened := UseOpenedTerminals(s, h.Window)
	state := UseTerminalState(s, h.Window, reactive.Of[host.Terminal](active))

	if active.Peek() != host.Terminal(one) || len(opened.Peek()) != 1 {
		t.Fatalf("active = %v, opened = %d", active.Peek(), len(opened.Peek()))
	}

	two := h.Window.OpenTerminal("two", "/bin/zsh")
	if len(opened.Peek()) != 2 || state.Peek().Shell != "/bin/zsh" {
		t.Errorf("opened = %d, state = %+v", len(opened.Peek()), state.Peek())
	}

	one.SendText("ignored")
	if state.Peek().IsInteractedWith {
		t.Error("another terminal's state leaked in")
	}
	two.SendText("echo")
	if !state.Peek().IsInteractedWith {
		t.Error("interaction not reflected")
	}

	two.Dispose()
	if active.Peek() != host.Terminal(one) || len(opened.Peek()) != 1 {
		t.Errorf("after close active = %v, opened = %d", active.Peek(), len(opened.Peek()))
	}
	if !state.Peek().IsInteractedWith {
		t.Error("state should follow the newly active terminal")
	}
}

func TestWindowStateAndTheme(t *testing.T) {
	h := newTestHost(t)
	s := reactive.NewScope()
	defer s.Dispose()

	ws := UseWindowState(s, h.Window)
	dark := UseIsDarkTheme(s, h.Window)

	if !ws.Focused.Peek() || !dark.Peek() {
		t.Fatalf("focused = %v, dark = %v", ws.Focused.Peek(), dark.Peek())
	}

	h.Window.SetWindowState(host.WindowState{Focused: false, Active: true})
	h.Window.SetColorTheme(host.ColorThemeHighContrastLight)

	if ws.Focused.Peek() || !ws.Active.Peek() {
		t.Errorf("state = %+v", ws.State.Peek())
	}
	if dark.Peek() {
		t.Error("high contrast light is not dark")
	}
}

func TestEnvAndExtensions(t *testing.T) {
	h := newTestHost(t)
	s := reactive.NewScope()
	defer s.Dispose()

	level := UseLogLevel(s, h.Env)
	telemetry := UseIsTelemetryEnabled(s, h.Env)
	shell := UseDefaultShell(s, h.Env)
	exts := UseAllExtensions(s, h.Extensions)

	h.Env.SetLogLevel(host.LogLevelTrace)
	h.Env.SetTelemetryEnabled(true)
	h.Env.SetShell("/usr/bin/fish")
	h.Extensions.Install(host.Extension{ID: "pub.ext", Version: "1.0.0"})

	if level.Peek() != host.LogLevelTrace || !telemetry.Peek() || shell.Peek() != "/usr/bin/fish" {
		t.Errorf("level=%v telemetry=%v shell=%q", level.Peek(), telemetry.Peek(), shell.Peek())
	}
	if got := exts.Peek(); len(got) != 1 || got[0].ID != "pub.ext" {
		t.Errorf("extensions = %+v", got)
	}

	s.Dispose()
	h.Env.SetShell("/bin/bash")
	if shell.Peek() != "/usr/bin/fish" {
		t.Error("value changed after dispose")
	}
}

func TestWorkspaceFoldersAndAbsolutePath(t *testing.T) {
	h := newTestHost(t)
	s := reactive.NewScope()
	defer s.Dispose()

	folders := UseWorkspaceFolders(s, h.Workspace)
	rel := reactive.NewRef("src/main.go")
	abs := UseAbsolutePath(s, h.Workspace, reactive.Of[string](rel))

	if got := abs.Peek(); got != filepath.FromSlash("/ws/src/main.go") {
		t.Errorf("abs = %q", got)
	}

	h.Workspace.SetFolders("/other", "/ws")
	if len(folders.Peek()) != 2 {
		t.Errorf("folders = %+v", folders.Peek())
	}
	if got := abs.Peek(); got != filepath.FromSlash("/other/src/main.go") {
		t.Errorf("abs after folder change = %q", got)
	}

	rel.Set("/etc/../etc/hosts")
	if got := abs.Peek(); got != filepath.Clean("/etc/hosts") {
		t.Errorf("absolute input = %q", got)
	}

	h.Workspace.SetFolders()
	rel.Set("x")
	if got := abs.Peek(); got != "" {
		t.Errorf("no folders = %q, want empty", got)
	}
}

func TestUseConfiguration(t *testing.T) {
	h := newTestHost(t)
	s := reactive.NewScope()
	defer s.Dispose()

	h.Workspace.SetConfiguration(map[string]any{"ext.tabSize": 2})

	cfg := UseConfiguration(s, h.Workspace, "ext", map[string]any{
		"tabSize": 4,
		"enabled": true,
	})
	tab := ConfigValue(cfg, "tabSize", 0)
	enabled := ConfigValue(cfg, "enabled", false)

	var seen []int
	reactive.Watch(s, tab.Get, func(v, _ int) { seen = append(seen, v) })

	if tab.Peek() != 2 || !enabled.Peek() {
		t.Fatalf("tabSize = %v, enabled = %v", tab.Peek(), enabled.Peek())
	}

	if err := cfg.Update("tabSize", 8); err != nil {
		t.Fatalf("Update: %v", err)
	}
	h.Workspace.SetConfiguration(map[string]any{"other.tabSize": 1})
	h.Workspace.SetConfiguration(map[string]any{"ext.enabled": "yes"})

	if !reflect.DeepEqual(seen, []int{8}) {
		t.Errorf("tabSize changes = %v, want [8]", seen)
	}
	if enabled.Peek() {
		t.Error("mistyped value should read as the default")
	}
	if got := cfg.Get("missing"); got != nil {
		t.Errorf("untracked key = %v", got)
	}

	h.Workspace.SetConfiguration(map[string]any{"ext.tabSize": nil})
	if tab.Peek() != 4 {
		t.Errorf("removed key should fall back to default, got %v", tab.Peek())
	}
}
