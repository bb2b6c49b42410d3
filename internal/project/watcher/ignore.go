package watcher

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dshills/ksreactive/internal/host/glob"
)

// IgnorePatterns holds gitignore-style rules:
//
//	*.log               files named *.log anywhere
//	build/              directories named build, and everything below them
//	/dist               dist at the root only
//	docs/**/*.tmp       slash patterns are anchored at the root
//	!keep.log           re-include a path excluded by an earlier rule
//
// Later rules win. A path inside an ignored directory stays ignored.
type IgnorePatterns struct {
	mu    sync.RWMutex
	rules []ignoreRule
}

type ignoreRule struct {
	source   string
	glob     *glob.Glob
	negate   bool
	dirOnly  bool
	anchored bool
}

// NewIgnorePatterns returns an empty rule set.
func NewIgnorePatterns() *IgnorePatterns {
	return &IgnorePatterns{}
}

// NewDefaultIgnorePatterns returns the rules in DefaultIgnorePatterns.
func NewDefaultIgnorePatterns() *IgnorePatterns {
	ip := NewIgnorePatterns()
	ip.AddPatterns(DefaultIgnorePatterns)
	return ip
}

// AddPattern parses one rule. Blank lines and comments are skipped.
func (ip *IgnorePatterns) AddPattern(line string) error {
	line = strings.TrimRight(line, " \t")
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}

	r := ignoreRule{source: line}
	p := line
	if strings.HasPrefix(p, "!") {
		r.negate = true
		p = p[1:]
	}
	if strings.HasSuffix(p, "/") {
		r.dirOnly = true
		p = strings.TrimSuffix(p, "/")
	}
	if strings.HasPrefix(p, "/") {
		r.anchored = true
		p = strings.TrimPrefix(p, "/")
	} else if strings.Contains(p, "/") && !strings.HasPrefix(p, "**/") {
		r.anchored = true
	}
	if p == "" {
		return fmt.Errorf("%w: %q", glob.ErrBadPattern, line)
	}

	g, err := glob.Compile(p)
	if err != nil {
		return fmt.Errorf("ignore rule %q: %w", line, err)
	}
	r.glob = g

	ip.mu.Lock()
	ip.rules = append(ip.rules, r)
	ip.mu.Unlock()
	return nil
}

// AddPatterns adds each rule, skipping malformed ones. It returns the first
// error encountered.
func (ip *IgnorePatterns) AddPatterns(lines []string) error {
	var first error
	for _, l := range lines {
		if err := ip.AddPattern(l); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// AddFromFile adds the rules in a .gitignore-style file.
func (ip *IgnorePatterns) AddFromFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if err := ip.AddPattern(sc.Text()); err != nil {
			return err
		}
	}
	return sc.Err()
}

// Match reports whether path is ignored. Anchored rules match from the
// start of path.
func (ip *IgnorePatterns) Match(path string, isDir bool) bool {
	return ip.MatchRelative(path, "", isDir)
}

// MatchRelative reports whether path is ignored, with anchored rules
// matched relative to base.
func (ip *IgnorePatterns) MatchRelative(path, base string, isDir bool) bool {
	rel := path
	if base != "" {
		if r, err := filepath.Rel(base, path); err == nil {
			rel = r
		}
	}
	rel = strings.TrimPrefix(filepath.ToSlash(rel), "/")
	if rel == "" || rel == "." {
		return false
	}

	ip.mu.RLock()
	defer ip.mu.RUnlock()

	if len(ip.rules) == 0 {
		return false
	}

	segs := strings.Split(rel, "/")
	for i := 1; i < len(segs); i++ {
		if ip.ignored(strings.Join(segs[:i], "/"), true) {
			return true
		}
	}
	return ip.ignored(rel, isDir)
}

func (ip *IgnorePatterns) ignored(rel string, isDir bool) bool {
	ignored := false
	for _, r := range ip.rules {
		if r.dirOnly && !isDir {
			continue
		}
		if r.matches(rel) {
			ignored = !r.negate
		}
	}
	return ignored
}

func (r ignoreRule) matches(rel string) bool {
	if !r.glob.Match(rel) {
		return false
	}
	// An anchored single-segment rule only matches top-level entries.
	if r.anchored && !strings.Contains(r.glob.String(), "/") {
		return !strings.Contains(rel, "/")
	}
	return true
}

// Clear removes every rule.
func (ip *IgnorePatterns) Clear() {
	ip.mu.Lock()
	defer ip.mu.Unlock()
	ip.rules = nil
}

// Count returns the number of rules.
func (ip *IgnorePatterns) Count() int {
	ip.mu.RLock()
	defer ip.mu.RUnlock()
	return len(ip.rules)
}

// Patterns returns the rules as written.
func (ip *IgnorePatterns) Patterns() []string {
	ip.mu.RLock()
	defer ip.mu.RUnlock()
	out := make([]string, len(ip.rules))
	for i, r := range ip.rules {
		out[i] = r.source
	}
	return out
}

// DefaultIgnorePatterns skips version control metadata, dependency trees,
// build output and editor scratch files.
var DefaultIgnorePatterns = []string{
	".git/",
	".svn/",
	".hg/",
	"node_modules/",
	"vendor/",
	".venv/",
	"__pycache__/",
	"dist/",
	"build/",
	"out/",
	"target/",
	".idea/",
	".vscode/",
	"*.swp",
	"*.swo",
	"*~",
	".DS_Store",
	"Thumbs.db",
}
