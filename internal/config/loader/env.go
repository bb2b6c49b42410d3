package loader

import (
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
)

// DefaultEnvPrefix prefixes every environment override.
const DefaultEnvPrefix = "KSREACTIVE_"

// EnvLoader loads configuration from environment variables.
type EnvLoader struct {
	prefix  string            // Environment variable prefix (e.g., "KSREACTIVE_")
	mapping map[string]string // Env var -> config path
	lists   map[string]bool   // Env vars holding comma-separated lists
	lookup  func(string) (string, bool)
	environ func() []string
}

// NewEnvLoader creates a new environment variable loader.
// The prefix should include the trailing underscore (e.g., "KSREACTIVE_").
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{
		prefix:  prefix,
		mapping: defaultEnvMapping(prefix),
		lists:   map[string]bool{prefix + "WATCH": true, prefix + "SCRIPTS": true},
		lookup:  os.LookupEnv,
		environ: os.Environ,
	}
}

// NewEnvLoaderWithMapping creates a loader with custom environment variable mappings.
func NewEnvLoaderWithMapping(prefix string, mapping map[string]string) *EnvLoader {
	l := NewEnvLoader(prefix)
	l.mapping = mapping
	return l
}

func defaultEnvMapping(prefix string) map[string]string {
	return map[string]string{
		prefix + "LOG_LEVEL":     "log.level",
		prefix + "WORKSPACE":     "workspace",
		prefix + "WATCH":         "watch.patterns",
		prefix + "DEBOUNCE":      "watch.debounce",
		prefix + "IGNORE_CREATE": "watch.ignoreCreate",
		prefix + "IGNORE_CHANGE": "watch.ignoreChange",
		prefix + "IGNORE_DELETE": "watch.ignoreDelete",
		prefix + "SCRIPTS":       "scripts",
	}
}

// Load reads environment variables and returns a configuration map.
// Mapped variables are applied first; any other prefixed variable becomes
// a dotted path (KSREACTIVE_CONTEXT_IS_READY -> context.isReady).
func (l *EnvLoader) Load() (map[string]any, error) {
	config := make(map[string]any)

	envs := make([]string, 0, len(l.mapping))
	for env := range l.mapping {
		envs = append(envs, env)
	}
	sort.Strings(envs)
	for _, env := range envs {
		if val, ok := l.lookup(env); ok {
			setByPath(config, l.mapping[env], l.valueFor(env, val))
		}
	}

	for _, kv := range l.environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, l.prefix) {
			continue
		}
		if _, mapped := l.mapping[name]; mapped {
			continue
		}
		setByPath(config, l.envToPath(name), l.valueFor(name, value))
	}

	return config, nil
}

// AddMapping adds a custom environment variable mapping.
func (l *EnvLoader) AddMapping(envVar, configPath string) {
	if l.mapping == nil {
		l.mapping = make(map[string]string)
	}
	l.mapping[envVar] = configPath
}

// RemoveMapping removes an environment variable mapping.
func (l *EnvLoader) RemoveMapping(envVar string) {
	delete(l.mapping, envVar)
}

func (l *EnvLoader) valueFor(env, raw string) any {
	if !l.lists[env] {
		return parseValue(raw)
	}
	var items []any
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			items = append(items, s)
		}
	}
	return items
}

// envToPath converts KSREACTIVE_WATCH_IGNORE_CREATE to watch.ignoreCreate.
func (l *EnvLoader) envToPath(env string) string {
	name := strings.TrimPrefix(env, l.prefix)
	parts := strings.Split(name, "_")

	section := strings.ToLower(parts[0])
	if len(parts) == 1 {
		return section
	}

	setting := strings.ToLower(parts[1])
	for _, part := range parts[2:] {
		if len(part) > 0 {
			setting += strings.ToUpper(part[:1]) + strings.ToLower(part[1:])
		}
	}
	return section + "." + setting
}

// parseValue attempts to parse the string value into an appropriate type.
func parseValue(s string) any {
	if s == "" {
		return s
	}

	switch strings.ToLower(s) {
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}

	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}

	// Only values with a decimal point, so integers stay integers.
	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}

	if d, err := time.ParseDuration(s); err == nil {
		return d.String()
	}

	return s
}

// setByPath sets a value in a nested map using a dot-separated path.
func setByPath(data map[string]any, path string, value any) {
	parts := strings.Split(path, ".")
	current := data

	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = value
}
