package watcher

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dshills/ksreactive/internal/host/glob"
)

func TestIgnorePatterns_Match(t *testing.T) {
	ip := NewIgnorePatterns()
	rules := []string{
		"# comment",
		"",
		"*.log",
		"!keep.log",
		"build/",
		"/dist",
		"docs/**/*.tmp",
	}
	if err := ip.AddPatterns(rules); err != nil {
		t.Fatalf("AddPatterns: %v", err)
	}
	if ip.Count() != 5 {
		t.Fatalf("Count() = %d, want 5", ip.Count())
	}

	tests := []struct {
		path  string
		isDir bool
		want  bool
	}{
		{"app.log", false, true},
		{"sub/app.log", false, true},
		{"keep.log", false, false},
		{"sub/keep.log", false, false},
		{"build", true, true},
		{"build", false, false},
		{"build/out.o", false, true},
		{"src/build/out.o", false, true},
		{"dist", true, true},
		{"dist/app.js", false, true},
		{"pkg/dist", true, false},
		{"docs/a/b/x.tmp", false, true},
		{"docs/x.tmp", false, true},
		{"other/docs/x.tmp", false, false},
		{"main.go", false, false},
		{"", false, false},
	}
	for _, tt := range tests {
		if got := ip.Match(tt.path, tt.isDir); got != tt.want {
			t.Errorf("Match(%q, %v) = %v, want %v", tt.path, tt.isDir, got, tt.want)
		}
	}
}

func TestIgnorePatterns_IgnoredParentWins(t *testing.T) {
	ip := NewIgnorePatterns()
	ip.AddPatterns([]string{"vendor/", "!vendor/keep.go"})

	if !ip.Match("vendor/keep.go", false) {
		t.Error("a file inside an ignored directory cannot be re-included")
	}
}

func TestIgnorePatterns_MatchRelative(t *testing.T) {
	ip := NewIgnorePatterns()
	ip.AddPattern("/out")

	if !ip.MatchRelative("/ws/out", "/ws", true) {
		t.Error("/ws/out should match /out relative to /ws")
	}
	if ip.MatchRelative("/ws/pkg/out", "/ws", true) {
		t.Error("/ws/pkg/out should not match an anchored rule")
	}
	if ip.MatchRelative("/ws", "/ws", true) {
		t.Error("the base itself is never ignored")
	}
}

func TestIgnorePatterns_BadPattern(t *testing.T) {
	ip := NewIgnorePatterns()
	err := ip.AddPatterns([]string{"*.tmp", "[", "/"})
	if !errors.Is(err, glob.ErrBadPattern) {
		t.Fatalf("err = %v, want ErrBadPattern", err)
	}
	if ip.Count() != 1 {
		t.Errorf("Count() = %d, want the one valid rule", ip.Count())
	}
}

func TestIgnorePatterns_AddFromFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), ".gitignore")
	content := "# generated\n*.out\n\ntmp/\n"
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	ip := NewIgnorePatterns()
	if err := ip.AddFromFile(file); err != nil {
		t.Fatalf("AddFromFile: %v", err)
	}
	got := ip.Patterns()
	if len(got) != 2 || got[0] != "*.out" || got[1] != "tmp/" {
		t.Errorf("Patterns() = %v", got)
	}

	ip.Clear()
	if ip.Count() != 0 {
		t.Error("Clear left rules behind")
	}
}

func TestDefaultIgnorePatterns(t *testing.T) {
	ip := NewDefaultIgnorePatterns()
	if !ip.Match(".git/config", false) {
		t.Error(".git contents should be ignored by default")
	}
	if !ip.Match("node_modules/x/index.js", false) {
		t.Error("node_modules contents should be ignored by default")
	}
	if ip.Match("src/main.go", false) {
		t.Error("source files should not be ignored by default")
	}
}
