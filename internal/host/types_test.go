package host

import "testing"

func TestSelectionRange(t *testing.T) {
	s := Selection{Anchor: Position{2, 5}, Active: Position{1, 0}}
	r := s.Range()
	if r.Start != (Position{1, 0}) || r.End != (Position{2, 5}) {
		t.Errorf("Range() = %+v", r)
	}
	if s.IsEmpty() {
		t.Error("IsEmpty() = true")
	}
	if !(Selection{}).IsEmpty() || !(Range{}).IsEmpty() {
		t.Error("zero selection should be empty")
	}
}

func TestColorThemeKind(t *testing.T) {
	tests := []struct {
		kind ColorThemeKind
		name string
		dark bool
	}{
		{ColorThemeLight, "light", false},
		{ColorThemeDark, "dark", true},
		{ColorThemeHighContrast, "high-contrast", true},
		{ColorThemeHighContrastLight, "high-contrast-light", false},
		{ColorThemeKind(0), "unknown", false},
	}
	for _, tt := range tests {
		if tt.kind.String() != tt.name {
			t.Errorf("%d.String() = %q, want %q", tt.kind, tt.kind.String(), tt.name)
		}
		if tt.kind.IsDark() != tt.dark {
			t.Errorf("%s.IsDark() = %v", tt.name, tt.kind.IsDark())
		}
	}
}

func TestConfigurationChangeEvent(t *testing.T) {
	e := ConfigurationChangeEvent{Keys: []string{"editor.tabSize"}}

	tests := []struct {
		section string
		want    bool
	}{
		{"editor", true},
		{"editor.tabSize", true},
		{"editor.tabSize.extra", true},
		{"editorial", false},
		{"ui", false},
		{"", true},
	}
	for _, tt := range tests {
		if got := e.AffectsConfiguration(tt.section); got != tt.want {
			t.Errorf("AffectsConfiguration(%q) = %v, want %v", tt.section, got, tt.want)
		}
	}
}

func TestGlobPattern(t *testing.T) {
	if Glob("*.ts").String() != "*.ts" {
		t.Errorf("Glob String() = %q", Glob("*.ts").String())
	}
	rp := RelativePattern("/ws", "**/*.go")
	if rp.String() != "/ws:**/*.go" {
		t.Errorf("RelativePattern String() = %q", rp.String())
	}
	m := map[GlobPattern]int{Glob("a"): 1, Glob("a"): 2}
	if len(m) != 1 {
		t.Error("GlobPattern should be usable as a map key")
	}
}
