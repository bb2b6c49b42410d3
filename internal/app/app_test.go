package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dshills/ksreactive/internal/config"
	"github.com/dshills/ksreactive/internal/host"
	"github.com/dshills/ksreactive/internal/logging"
	"github.com/dshills/ksreactive/internal/project/watcher"
)

const baseConfig = `
[watch]
patterns = ["*.go", "*.md"]
debounce = "10ms"

[context]
"ks.ready" = true
"ks.mode" = "dev"
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

type testApp struct {
	*Application
	dir     string
	cfgPath string
	log     *bytes.Buffer
}

func newTestApp(t *testing.T, cfg string, opts ...func(*Options)) *testApp {
	t.Helper()

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "ksreactive.toml")
	writeFile(t, cfgPath, cfg)

	var buf bytes.Buffer
	o := Options{
		ConfigPath:    cfgPath,
		Logger:        logging.New(logging.Config{Level: logging.LevelDebug, Output: &buf}),
		ConfigOptions: []config.Option{config.WithEnvPrefix("")},
	}
	for _, fn := range opts {
		fn(&o)
	}

	a, err := New(o)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(a.Shutdown)
	return &testApp{Application: a, dir: dir, cfgPath: cfgPath, log: &buf}
}

func patternStrings(ps []host.GlobPattern) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Pattern
	}
	return out
}

func TestNew_Bindings(t *testing.T) {
	a := newTestApp(t, baseConfig)
	h := a.Host()

	if got := patternStrings(a.Patterns()); len(got) != 2 || got[0] != "*.go" || got[1] != "*.md" {
		t.Errorf("Patterns() = %v", got)
	}
	// Two workspace patterns plus the config file watcher.
	if n := len(h.Workspace.Watchers()); n != 3 {
		t.Errorf("host watchers = %d, want 3", n)
	}

	tests := []struct {
		key  string
		want any
	}{
		{"ks.ready", true},
		{"ks.mode", "dev"},
		{ContextWatching, true},
		{ContextPatterns, 2},
	}
	for _, tt := range tests {
		got, ok := h.Commands.Context(tt.key)
		if !ok || got != tt.want {
			t.Errorf("Context(%q) = %v, %v; want %v", tt.key, got, ok, tt.want)
		}
	}

	item, ok := h.Window.StatusBarItem(StatusBarItemID)
	if !ok || item.Text() != "2 watchers" {
		t.Errorf("status bar item = %v", item)
	}
	if _, ok := a.Backend().(*watcher.DebouncedWatcher); !ok {
		t.Errorf("Backend() = %T, want debounced", a.Backend())
	}
	if !a.Backend().IsWatching(a.dir) {
		t.Error("workspace is not watched")
	}
}

func TestDispatch(t *testing.T) {
	a := newTestApp(t, baseConfig)
	path := filepath.Join(a.dir, "main.go")

	a.dispatch(watcher.Event{Path: path, Op: watcher.OpCreate})
	a.dispatch(watcher.Event{Path: path, Op: watcher.OpWrite})
	a.dispatch(watcher.Event{Path: filepath.Join(a.dir, "x.bin"), Op: watcher.OpRemove})
	a.dispatch(watcher.Event{Path: path, Op: watcher.OpChmod})

	s := a.Metrics().Snapshot()
	if s.Created != 1 || s.Changed != 1 || s.Deleted != 1 || s.Skipped != 1 {
		t.Errorf("snapshot = %+v", s)
	}
	// x.bin matches no pattern.
	if s.Delivered != 2 || s.EventCount != 3 {
		t.Errorf("Delivered = %d, EventCount = %d", s.Delivered, s.EventCount)
	}

	ch, ok := a.Host().Window.OutputChannel(OutputChannelName)
	if !ok {
		t.Fatal("output channel missing")
	}
	out := ch.Contents()
	if !strings.Contains(out, "created "+path) || !strings.Contains(out, "changed "+path) {
		t.Errorf("output channel = %q", out)
	}
	if strings.Contains(out, "x.bin") {
		t.Errorf("unmatched file logged: %q", out)
	}
}

func TestReload(t *testing.T) {
	a := newTestApp(t, baseConfig)
	cmds := a.Host().Commands

	writeFile(t, a.cfgPath, `
[watch]
patterns = ["*.md", "*.txt"]
ignoreDelete = true

[context]
"ks.ready" = false
`)
	a.reload()

	if got := patternStrings(a.Patterns()); len(got) != 2 || got[0] != "*.md" || got[1] != "*.txt" {
		t.Errorf("Patterns() after reload = %v", got)
	}
	for _, w := range a.Host().Workspace.Watchers() {
		if w.Pattern().Base == "" && !w.IgnoreDeleteEvents() {
			t.Errorf("watcher %s should ignore deletes", w.Pattern())
		}
	}
	if v, _ := cmds.Context("ks.ready"); v != false {
		t.Errorf("ks.ready = %v", v)
	}
	if v, ok := cmds.Context("ks.mode"); !ok || v != nil {
		t.Errorf("dropped key ks.mode = %v, %v; want nil", v, ok)
	}
	if v, _ := cmds.Context(ContextPatterns); v != 2 {
		t.Errorf("%s = %v", ContextPatterns, v)
	}
	if s := a.Metrics().Snapshot(); s.Reloads != 1 || s.ReloadErrors != 0 {
		t.Errorf("reloads = %d, errors = %d", s.Reloads, s.ReloadErrors)
	}
}

func TestReload_InvalidKeepsPrevious(t *testing.T) {
	a := newTestApp(t, baseConfig)

	writeFile(t, a.cfgPath, `
[log]
level = "loud"
`)
	a.reload()

	if got := patternStrings(a.Patterns()); len(got) != 2 || got[0] != "*.go" {
		t.Errorf("Patterns() = %v, want previous", got)
	}
	if s := a.Metrics().Snapshot(); s.ReloadErrors != 1 {
		t.Errorf("ReloadErrors = %d", s.ReloadErrors)
	}
	if !strings.Contains(a.log.String(), "config reload failed") {
		t.Errorf("log = %q", a.log.String())
	}
}

func TestReload_FromConfigEvent(t *testing.T) {
	a := newTestApp(t, baseConfig)

	writeFile(t, a.cfgPath, `
[watch]
patterns = ["*.rs"]
`)
	a.dispatch(watcher.Event{Path: a.cfgPath, Op: watcher.OpWrite})

	if got := patternStrings(a.Patterns()); len(got) != 1 || got[0] != "*.rs" {
		t.Errorf("Patterns() = %v", got)
	}
	if s := a.Metrics().Snapshot(); s.Reloads != 1 {
		t.Errorf("Reloads = %d", s.Reloads)
	}
}

func TestScripts(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.lua")
	bad := filepath.Join(dir, "bad.lua")
	writeFile(t, good, `
ks.reactive.context("script.loaded", true)
ks.reactive.title("explorer", "Files")
ks.reactive.watch("*.go", { on_create = function(path) ks.reactive.context("script.last", path) end })
`)
	writeFile(t, bad, `error("boom")`)

	a := newTestApp(t, baseConfig, func(o *Options) {
		o.Scripts = []string{good, bad}
	})
	h := a.Host()

	if got := a.Plugins(); len(got) != 1 || got[0] != "good" {
		t.Errorf("Plugins() = %v", got)
	}
	errs := a.ScriptErrors()
	var se *ScriptError
	if len(errs) != 1 || !errors.As(errs[0], &se) || se.Path != bad {
		t.Errorf("ScriptErrors() = %v", errs)
	}

	if v, _ := h.Commands.Context("script.loaded"); v != true {
		t.Errorf("script.loaded = %v", v)
	}
	if view, ok := h.Window.View("explorer"); !ok || view.Title() != "Files" {
		t.Error("script view title not applied")
	}

	path := filepath.Join(a.dir, "new.go")
	a.dispatch(watcher.Event{Path: path, Op: watcher.OpCreate})
	if v, _ := h.Commands.Context("script.last"); v != path {
		t.Errorf("script.last = %v, want %s", v, path)
	}
}

func TestNew_Errors(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file.txt")
	writeFile(t, file, "x")
	cfgFile := filepath.Join(dir, "ok.toml")
	writeFile(t, cfgFile, "")

	tests := []struct {
		name      string
		opts      Options
		component string
		target    error
	}{
		{"missing config", Options{ConfigPath: filepath.Join(dir, "nope.toml")}, "config", config.ErrFileNotFound},
		{"bad log level", Options{LogLevel: "loud"}, "options", config.ErrInvalidLogLevel},
		{"missing workspace", Options{ConfigPath: cfgFile, WorkspacePath: filepath.Join(dir, "gone")}, "workspace", os.ErrNotExist},
		{"workspace is a file", Options{ConfigPath: cfgFile, WorkspacePath: file}, "workspace", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.Logger = logging.Null
			tt.opts.ConfigOptions = []config.Option{config.WithEnvPrefix("")}

			_, err := New(tt.opts)
			var ie *InitError
			if !errors.As(err, &ie) {
				t.Fatalf("New() error = %v, want InitError", err)
			}
			if ie.Component != tt.component {
				t.Errorf("Component = %q, want %q", ie.Component, tt.component)
			}
			if tt.target != nil && !errors.Is(err, tt.target) {
				t.Errorf("error %v does not wrap %v", err, tt.target)
			}
		})
	}
}

func TestRun_DeliversFileEvents(t *testing.T) {
	a := newTestApp(t, `
[watch]
patterns = ["*.txt"]
debounce = "10ms"
`)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	result := make(chan error, 1)
	go func() { result <- a.Run(ctx) }()

	target := filepath.Join(a.dir, "note.txt")
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if !a.IsRunning() {
			time.Sleep(10 * time.Millisecond)
			continue
		}
		writeFile(t, target, time.Now().String())
		time.Sleep(50 * time.Millisecond)
		if a.Metrics().Snapshot().Delivered > 0 {
			break
		}
	}
	if a.Metrics().Snapshot().Delivered == 0 {
		t.Fatal("no event reached a host watcher")
	}

	cancel()
	select {
	case err := <-result:
		if err != nil {
			t.Errorf("Run() = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}

	select {
	case <-a.Done():
	default:
		t.Error("Done() not closed after Run returned")
	}
}

func TestShutdown(t *testing.T) {
	a := newTestApp(t, baseConfig)

	a.Shutdown()
	a.Shutdown()

	if n := len(a.Host().Workspace.Watchers()); n != 0 {
		t.Errorf("host watchers after Shutdown = %d", n)
	}
	if err := a.Run(context.Background()); !errors.Is(err, ErrShutDown) {
		t.Errorf("Run() after Shutdown = %v", err)
	}
	if err := a.Post(func() {}); err == nil {
		t.Error("Post() after Shutdown should fail")
	}
}

func TestShutdown_StopsRun(t *testing.T) {
	a := newTestApp(t, baseConfig)

	result := make(chan error, 1)
	go func() { result <- a.Run(context.Background()) }()

	deadline := time.Now().Add(2 * time.Second)
	for !a.IsRunning() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	a.Shutdown()

	select {
	case err := <-result:
		if err != nil {
			t.Errorf("Run() = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after Shutdown")
	}
}
