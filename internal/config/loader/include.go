package loader

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
)

// IncludeKey names the files a config file layers itself over. Its value
// is a path or a list of paths, relative to the including file.
const IncludeKey = "@include"

// MaxIncludeDepth bounds nested includes.
const MaxIncludeDepth = 4

// parseFunc decodes one file's bytes into a table.
type parseFunc func(source string, data []byte) (map[string]any, error)

// readTree reads path through fsys and resolves its includes. Included
// files lie beneath the including file and merge in listed order. A missing
// file reads as nil.
func readTree(fsys FileSystem, path string, depth int, parse parseFunc) (map[string]any, error) {
	if depth > MaxIncludeDepth {
		return nil, fmt.Errorf("%w: %s", ErrIncludeDepthExceeded, path)
	}
	if fsys == nil {
		fsys = DefaultFS()
	}

	data, err := fsys.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	tree, err := parse(path, data)
	if err != nil {
		return nil, err
	}

	raw, ok := tree[IncludeKey]
	if !ok {
		return tree, nil
	}
	delete(tree, IncludeKey)
	names, err := includeNames(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	layered := make(map[string]any)
	for _, name := range names {
		if !filepath.IsAbs(name) {
			name = filepath.Join(filepath.Dir(path), name)
		}
		sub, err := readTree(fsys, name, depth+1, parse)
		if err != nil {
			return nil, fmt.Errorf("loading include %s: %w", name, err)
		}
		layered = Merge(layered, sub)
	}
	return Merge(layered, tree), nil
}

func includeNames(raw any) ([]string, error) {
	switch v := raw.(type) {
	case string:
		return []string{v}, nil
	case []any:
		names := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%w: got %T entry", ErrBadInclude, item)
			}
			names = append(names, s)
		}
		return names, nil
	default:
		return nil, fmt.Errorf("%w: got %T", ErrBadInclude, raw)
	}
}

// readAll decodes everything r yields. Readers do not resolve includes.
func readAll(r io.Reader, parse parseFunc) (map[string]any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return parse("<reader>", data)
}
