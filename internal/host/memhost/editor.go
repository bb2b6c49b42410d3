package memhost

import (
	"sync"

	"github.com/dshills/ksreactive/internal/host"
)

// Document is an in-memory text document.
type Document struct {
	mu         sync.RWMutex
	uri        host.URI
	languageID string
	version    int
	text       string
	dirty      bool
}

// NewDocument creates a document at version 1.
func NewDocument(uri host.URI, languageID, text string) *Document {
	return &Document{uri: uri, languageID: languageID, version: 1, text: text}
}

func (d *Document) URI() host.URI      { return d.uri }
func (d *Document) LanguageID() string { return d.languageID }

func (d *Document) Version() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.version
}

func (d *Document) Text() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.text
}

func (d *Document) IsDirty() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.dirty
}

func (d *Document) setText(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.text = text
	d.version++
	d.dirty = true
}

// Editor is an in-memory text editor.
type Editor struct {
	mu            sync.RWMutex
	doc           *Document
	selections    []host.Selection
	visibleRanges []host.Range
	column        host.ViewColumn
	decorations   map[string][]host.Range
	decorated     int
}

// NewEditor creates an editor for doc in column with a cursor at 0:0.
func NewEditor(doc *Document, column host.ViewColumn) *Editor {
	return &Editor{
		doc:        doc,
		selections: []host.Selection{{}},
		column:     column,
	}
}

func (e *Editor) Document() host.TextDocument { return e.doc }

func (e *Editor) Selections() []host.Selection {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]host.Selection(nil), e.selections...)
}

func (e *Editor) VisibleRanges() []host.Range {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]host.Range(nil), e.visibleRanges...)
}

func (e *Editor) ViewColumn() host.ViewColumn {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.column
}

// SetDecorations replaces the ranges shown with decorationType. An empty
// list removes the decoration.
func (e *Editor) SetDecorations(decorationType string, ranges []host.Range) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.decorations == nil {
		e.decorations = make(map[string][]host.Range)
	}
	if len(ranges) == 0 {
		delete(e.decorations, decorationType)
	} else {
		e.decorations[decorationType] = append([]host.Range(nil), ranges...)
	}
	e.decorated++
}

// Decorations returns the ranges shown with decorationType.
func (e *Editor) Decorations(decorationType string) []host.Range {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]host.Range(nil), e.decorations[decorationType]...)
}

// DecorationCalls returns how many times SetDecorations was called.
func (e *Editor) DecorationCalls() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.decorated
}

var (
	_ host.TextDocument = (*Document)(nil)
	_ host.TextEditor   = (*Editor)(nil)
)
