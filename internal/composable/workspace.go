package composable

import (
	"path/filepath"

	"github.com/dshills/ksreactive/internal/host"
	"github.com/dshills/ksreactive/internal/reactive"
)

// UseWorkspaceFolders tracks the workspace root folders.
func UseWorkspaceFolders(s *reactive.Scope, ws host.Workspace) reactive.Readable[[]host.WorkspaceFolder] {
	return useEventRef(s, ws.WorkspaceFolders(), ws.OnDidChangeWorkspaceFolders(), func(host.WorkspaceFoldersChangeEvent) []host.WorkspaceFolder {
		return ws.WorkspaceFolders()
	})
}

// UseAbsolutePath resolves rel against the first workspace folder. Absolute
// paths are returned cleaned; relative paths resolve to "" while the
// workspace has no folders.
func UseAbsolutePath(s *reactive.Scope, ws host.Workspace, rel reactive.Value[string]) reactive.Readable[string] {
	folders := UseWorkspaceFolders(s, ws)
	return reactive.NewComputed(func() string {
		p := rel.Get()
		if filepath.IsAbs(p) {
			return filepath.Clean(p)
		}
		fs := folders.Get()
		if len(fs) == 0 {
			return ""
		}
		return filepath.Join(fs[0].URI.FSPath(), p)
	})
}

// ConfigSection is a reactive view of a configuration section. Only the keys
// given defaults are tracked.
type ConfigSection struct {
	section  string
	conf     host.Configuration
	defaults map[string]any
	values   *reactive.ShallowMap[string, any]
}

// UseConfiguration tracks the keys of defaults under section. A key that is
// not set reads as its default.
func UseConfiguration(s *reactive.Scope, ws host.Workspace, section string, defaults map[string]any) *ConfigSection {
	c := &ConfigSection{
		section:  section,
		conf:     ws.Configuration(section),
		defaults: defaults,
		values:   reactive.NewShallowMap[string, any](),
	}
	for _, key := range sortedKeys(defaults) {
		c.values.Set(key, c.read(key))
	}

	UseEvent(s, ws.OnDidChangeConfiguration(), func(ev host.ConfigurationChangeEvent) {
		reactive.Batch(func() {
			for _, key := range sortedKeys(c.defaults) {
				if ev.AffectsConfiguration(c.fullKey(key)) {
					c.values.Set(key, c.read(key))
				}
			}
		})
	})
	return c
}

func (c *ConfigSection) fullKey(key string) string {
	if c.section == "" {
		return key
	}
	return c.section + "." + key
}

func (c *ConfigSection) read(key string) any {
	if v, ok := c.conf.Get(key); ok {
		return v
	}
	return c.defaults[key]
}

// Get returns the value of key and tracks it.
func (c *ConfigSection) Get(key string) any {
	v, ok := c.values.Get(key)
	if !ok {
		return c.defaults[key]
	}
	return v
}

// Update writes key to the host configuration. The tracked value follows
// the host's change notification.
func (c *ConfigSection) Update(key string, value any) error {
	return c.conf.Update(key, value)
}

// ConfigValue is a typed view of one key. Values of another type read as
// def.
func ConfigValue[T any](c *ConfigSection, key string, def T) reactive.Readable[T] {
	return reactive.NewComputed(func() T {
		if v, ok := c.Get(key).(T); ok {
			return v
		}
		return def
	})
}
