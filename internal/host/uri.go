package host

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

// URI identifies a resource. Paths always use forward slashes.
type URI struct {
	Scheme string
	Path   string
}

// File returns the file URI for a file-system path.
func File(fsPath string) URI {
	p := filepath.ToSlash(fsPath)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return URI{Scheme: "file", Path: path.Clean(p)}
}

// ParseURI parses "scheme:path" and "scheme://path" forms.
func ParseURI(s string) (URI, error) {
	i := strings.Index(s, ":")
	if i <= 0 {
		return URI{}, fmt.Errorf("%w: %q", ErrInvalidURI, s)
	}
	scheme, rest := s[:i], s[i+1:]
	rest = strings.TrimPrefix(rest, "//")
	if rest == "" {
		return URI{}, fmt.Errorf("%w: %q has no path", ErrInvalidURI, s)
	}
	if !strings.HasPrefix(rest, "/") {
		rest = "/" + rest
	}
	return URI{Scheme: scheme, Path: rest}, nil
}

// String renders the URI as scheme://path.
func (u URI) String() string {
	if u.Scheme == "" {
		return u.Path
	}
	return u.Scheme + "://" + u.Path
}

// FSPath returns the path in the local file-system form.
func (u URI) FSPath() string {
	return filepath.FromSlash(u.Path)
}

// Base returns the last path element.
func (u URI) Base() string {
	return path.Base(u.Path)
}

// Join appends path elements.
func (u URI) Join(elem ...string) URI {
	parts := append([]string{u.Path}, elem...)
	return URI{Scheme: u.Scheme, Path: path.Join(parts...)}
}

// IsZero reports whether u is the zero URI.
func (u URI) IsZero() bool {
	return u.Scheme == "" && u.Path == ""
}
