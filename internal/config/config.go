package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dshills/ksreactive/internal/config/loader"
	"github.com/dshills/ksreactive/internal/host/glob"
	"github.com/dshills/ksreactive/internal/logging"
	"github.com/dshills/ksreactive/internal/project/watcher"
)

// Config is the runner configuration.
type Config struct {
	// Workspace is the root folder to watch.
	Workspace string `yaml:"workspace"`

	Log LogConfig `yaml:"log"`

	Watch WatchConfig `yaml:"watch"`

	// Context holds context keys pushed with setContext at startup.
	Context map[string]any `yaml:"context"`

	// Scripts are Lua plugin scripts run against the reactive module.
	Scripts []string `yaml:"scripts"`

	// Path is the file the configuration was read from, if any.
	Path string `yaml:"-"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `yaml:"level"`
}

// WatchConfig configures the workspace file watcher.
type WatchConfig struct {
	// Patterns are glob patterns, relative to the workspace, whose
	// changes are reported.
	Patterns []string `yaml:"patterns"`

	IgnoreCreate bool `yaml:"ignoreCreate"`
	IgnoreChange bool `yaml:"ignoreChange"`
	IgnoreDelete bool `yaml:"ignoreDelete"`

	// Debounce coalesces bursts of changes to one path.
	Debounce time.Duration `yaml:"debounce"`

	// Ignore holds gitignore-style rules for directories never watched.
	Ignore []string `yaml:"ignore"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Workspace: ".",
		Log:       LogConfig{Level: "info"},
		Watch: WatchConfig{
			Patterns: []string{"**/*"},
			Debounce: 100 * time.Millisecond,
			Ignore:   append([]string(nil), watcher.DefaultIgnorePatterns...),
		},
		Context: map[string]any{},
	}
}

// Option configures Load.
type Option func(*options)

type options struct {
	fs        loader.FileSystem
	envPrefix string
}

// WithFS reads config files through fsys.
func WithFS(fsys loader.FileSystem) Option {
	return func(o *options) {
		o.fs = fsys
	}
}

// WithEnvPrefix sets the environment override prefix. An empty prefix
// disables environment overrides.
func WithEnvPrefix(prefix string) Option {
	return func(o *options) {
		o.envPrefix = prefix
	}
}

// Load reads the configuration at path over the defaults, applies
// environment overrides and validates the result. An empty path uses
// defaults and environment only. Relative workspace and script paths are
// resolved against the config file's directory.
func Load(path string, opts ...Option) (*Config, error) {
	o := options{fs: loader.DefaultFS(), envPrefix: loader.DefaultEnvPrefix}
	for _, opt := range opts {
		opt(&o)
	}

	merged, err := toMap(Default())
	if err != nil {
		return nil, err
	}

	if path != "" {
		if _, err := o.fs.Stat(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
			}
			return nil, fmt.Errorf("stat config %s: %w", path, err)
		}
		l, err := loader.ForPath(o.fs, path)
		if err != nil {
			return nil, err
		}
		file, err := l.Load()
		if err != nil {
			return nil, err
		}
		merged = loader.Merge(merged, file)
	}

	if o.envPrefix != "" {
		env, err := loader.NewEnvLoader(o.envPrefix).Load()
		if err != nil {
			return nil, fmt.Errorf("loading environment: %w", err)
		}
		merged = loader.Merge(merged, env)
	}

	cfg, err := fromMap(merged)
	if err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.Path = path

	base := "."
	if path != "" {
		base = filepath.Dir(path)
	}
	cfg.resolve(base)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// toMap renders c as the generic tree the loaders produce.
func toMap(c *Config) (map[string]any, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encoding defaults: %w", err)
	}
	out := make(map[string]any)
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("encoding defaults: %w", err)
	}
	return out, nil
}

func fromMap(m map[string]any) (*Config, error) {
	data, err := yaml.Marshal(m)
	if err != nil {
		return nil, err
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if cfg.Context == nil {
		cfg.Context = map[string]any{}
	}
	return cfg, nil
}

func (c *Config) resolve(base string) {
	if c.Workspace != "" && !filepath.IsAbs(c.Workspace) {
		c.Workspace = filepath.Join(base, c.Workspace)
	}
	if abs, err := filepath.Abs(c.Workspace); err == nil && c.Workspace != "" {
		c.Workspace = abs
	}
	for i, s := range c.Scripts {
		if !filepath.IsAbs(s) {
			c.Scripts[i] = filepath.Join(base, s)
		}
	}
}

// Validate checks every setting and returns all failures joined.
func (c *Config) Validate() error {
	var errs []error
	fail := func(path string, value any, err error) {
		errs = append(errs, &ValidationError{Path: path, Value: value, Err: err})
	}

	if c.Workspace == "" {
		fail("workspace", c.Workspace, ErrNoWorkspace)
	}
	if !logging.ValidLevel(c.Log.Level) {
		fail("log.level", c.Log.Level, ErrInvalidLogLevel)
	}
	for i, p := range c.Watch.Patterns {
		if _, err := glob.Compile(p); err != nil {
			fail(fmt.Sprintf("watch.patterns[%d]", i), p, ErrInvalidPattern)
		}
	}
	rules := watcher.NewIgnorePatterns()
	for i, p := range c.Watch.Ignore {
		if err := rules.AddPattern(p); err != nil {
			fail(fmt.Sprintf("watch.ignore[%d]", i), p, ErrInvalidPattern)
		}
	}
	if c.Watch.Debounce < 0 {
		fail("watch.debounce", c.Watch.Debounce, ErrInvalidDebounce)
	}
	for _, k := range c.ContextKeys() {
		if k == "" {
			fail("context", k, ErrInvalidContextKey)
		}
	}

	return errors.Join(errs...)
}

// ContextKeys returns the configured context keys, sorted.
func (c *Config) ContextKeys() []string {
	keys := make([]string, 0, len(c.Context))
	for k := range c.Context {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// LogLevel returns the parsed log level.
func (c *Config) LogLevel() logging.Level {
	return logging.ParseLevel(c.Log.Level)
}
