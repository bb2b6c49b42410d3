// Package glob matches slash-separated paths against file watcher patterns.
//
// Syntax is doublestar's: * and ? within a segment, [a-z] classes, {a,b}
// alternatives and ** for zero or more whole segments.
//
// A pattern without a slash matches the last segment of a path, so "*.go"
// matches "main.go" and "cmd/app/main.go".
package glob

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrBadPattern is returned for malformed patterns.
var ErrBadPattern = errors.New("malformed glob pattern")

// Glob is a validated pattern.
type Glob struct {
	source   string
	pattern  string
	baseOnly bool
}

// Compile validates pattern.
func Compile(pattern string) (*Glob, error) {
	if pattern == "" {
		return nil, fmt.Errorf("%w: empty pattern", ErrBadPattern)
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("%w: %q", ErrBadPattern, pattern)
	}

	p := strings.Trim(pattern, "/")
	for strings.Contains(p, "**/**") {
		p = strings.ReplaceAll(p, "**/**", "**")
	}
	return &Glob{
		source:   pattern,
		pattern:  p,
		baseOnly: !strings.Contains(pattern, "/"),
	}, nil
}

// MustCompile is Compile that panics on error.
func MustCompile(pattern string) *Glob {
	g, err := Compile(pattern)
	if err != nil {
		panic(err)
	}
	return g
}

// String returns the source pattern.
func (g *Glob) String() string {
	return g.source
}

// Match reports whether name matches the pattern.
func (g *Glob) Match(name string) bool {
	name = strings.TrimPrefix(path.Clean("/"+name), "/")
	if g.baseOnly {
		name = path.Base(name)
	}
	ok, err := doublestar.Match(g.pattern, name)
	return err == nil && ok
}

// MatchUnder reports whether name lies below base and its base-relative path
// matches the pattern. An empty base matches name as given.
func (g *Glob) MatchUnder(base, name string) bool {
	if base == "" {
		return g.Match(name)
	}
	rel, ok := relative(base, name)
	if !ok {
		return false
	}
	return g.Match(rel)
}

// Match compiles pattern and matches name. Malformed patterns never match.
func Match(pattern, name string) bool {
	g, err := Compile(pattern)
	if err != nil {
		return false
	}
	return g.Match(name)
}

func relative(base, name string) (string, bool) {
	base = path.Clean("/" + strings.TrimPrefix(base, "/"))
	name = path.Clean("/" + strings.TrimPrefix(name, "/"))
	if base == "/" {
		return strings.TrimPrefix(name, "/"), true
	}
	if name == base {
		return "", true
	}
	if !strings.HasPrefix(name, base+"/") {
		return "", false
	}
	return name[len(base)+1:], true
}
