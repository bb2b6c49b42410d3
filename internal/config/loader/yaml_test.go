package loader

import (
	"errors"
	"strings"
	"testing"
)

func TestYAMLLoader_Load(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/ksreactive.yaml", `
workspace: /ws
log:
  level: warn
watch:
  patterns:
    - "**/*.ts"
    - "*.js"
  ignoreCreate: true
context:
  ks.mode: edit
`)

	config, err := NewYAMLLoaderWithFS(memfs, "/ksreactive.yaml").Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if v, _ := getByPath(config, "log.level"); v != "warn" {
		t.Errorf("log.level = %v", v)
	}
	if v, _ := getByPath(config, "watch.ignoreCreate"); v != true {
		t.Errorf("watch.ignoreCreate = %v", v)
	}
	patterns, _ := getByPath(config, "watch.patterns")
	if p, ok := patterns.([]any); !ok || len(p) != 2 || p[0] != "**/*.ts" {
		t.Errorf("watch.patterns = %v", patterns)
	}
	ctx := config["context"].(map[string]any)
	if ctx["ks.mode"] != "edit" {
		t.Errorf("context = %v", ctx)
	}
}

func TestYAMLLoader_Empty(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/empty.yml", "\n# nothing\n")

	config, err := NewYAMLLoaderWithFS(memfs, "/empty.yml").Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(config) != 0 {
		t.Errorf("config = %v, want empty", config)
	}
}

func TestYAMLLoader_LoadInvalid(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/bad.yaml", "log:\n  level: [debug\n")

	_, err := NewYAMLLoaderWithFS(memfs, "/bad.yaml").Load()
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if parseErr.Path != "/bad.yaml" || parseErr.Format != FormatYAML {
		t.Errorf("Path = %q, Format = %q", parseErr.Path, parseErr.Format)
	}
}

func TestYAMLLoader_LoadFromReader(t *testing.T) {
	config, err := (&YAMLLoader{}).LoadFromReader(strings.NewReader("scripts: [a.lua, b.lua]\n"))
	if err != nil {
		t.Fatalf("LoadFromReader failed: %v", err)
	}
	if s, ok := config["scripts"].([]any); !ok || len(s) != 2 {
		t.Errorf("scripts = %v", config["scripts"])
	}
}

func TestYAMLErrorLine(t *testing.T) {
	tests := []struct {
		msg  string
		want int
	}{
		{"yaml: line 4: did not find expected key", 4},
		{"yaml: unmarshal errors", 0},
	}
	for _, tt := range tests {
		if got := yamlErrorLine(errors.New(tt.msg)); got != tt.want {
			t.Errorf("yamlErrorLine(%q) = %d, want %d", tt.msg, got, tt.want)
		}
	}
}

func TestYAMLLoader_Include(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/cfg/main.yaml", "\"@include\": base.yaml\nlog:\n  level: error\n")
	memfs.AddFile("/cfg/base.yaml", "workspace: /base\nlog:\n  level: debug\n")

	config, err := NewYAMLLoaderWithFS(memfs, "/cfg/main.yaml").Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if config["workspace"] != "/base" {
		t.Errorf("workspace = %v", config["workspace"])
	}
	if v, _ := getByPath(config, "log.level"); v != "error" {
		t.Errorf("log.level = %v", v)
	}
}
