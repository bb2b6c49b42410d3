package loader

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFormat is returned for a config file with an unknown
	// extension.
	ErrUnsupportedFormat = errors.New("unsupported config format")

	// ErrIncludeDepthExceeded is returned when includes nest too deeply.
	ErrIncludeDepthExceeded = errors.New("include depth exceeded")

	// ErrBadInclude is returned when an include entry is not a string or a
	// list of strings.
	ErrBadInclude = errors.New("@include must be a string or a list of strings")
)

// ParseError reports a file whose syntax could not be decoded. Line and
// Column are 1-based and zero when the decoder gave no position.
type ParseError struct {
	Path   string
	Format Format
	Line   int
	Column int
	Err    error
}

func (e *ParseError) Error() string {
	loc := e.Path
	switch {
	case e.Line > 0 && e.Column > 0:
		loc = fmt.Sprintf("%s:%d:%d", e.Path, e.Line, e.Column)
	case e.Line > 0:
		loc = fmt.Sprintf("%s:%d", e.Path, e.Line)
	}
	format := string(e.Format)
	if format == "" {
		format = "config"
	}
	return fmt.Sprintf("%s: invalid %s: %v", loc, format, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
