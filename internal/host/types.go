package host

import (
	"strings"

	"github.com/dshills/ksreactive/internal/event"
)

// Position is a zero-based line and character offset.
type Position struct {
	Line      int
	Character int
}

// Before reports whether p comes before o.
func (p Position) Before(o Position) bool {
	return p.Line < o.Line || (p.Line == o.Line && p.Character < o.Character)
}

// Range is a span between two positions.
type Range struct {
	Start Position
	End   Position
}

// IsEmpty reports whether the range covers no characters.
func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

// Selection is a range with a direction.
type Selection struct {
	Anchor Position
	Active Position
}

// Range returns the selection as a start-ordered range.
func (s Selection) Range() Range {
	if s.Active.Before(s.Anchor) {
		return Range{Start: s.Active, End: s.Anchor}
	}
	return Range{Start: s.Anchor, End: s.Active}
}

// IsEmpty reports whether the selection is a bare cursor.
func (s Selection) IsEmpty() bool {
	return s.Anchor == s.Active
}

// ViewColumn identifies an editor column. Zero means no column.
type ViewColumn int

// TextDocument is an open document.
type TextDocument interface {
	URI() URI
	LanguageID() string
	Version() int
	Text() string
	IsDirty() bool
}

// TextEditor is a visible editor over a document.
type TextEditor interface {
	Document() TextDocument
	Selections() []Selection
	VisibleRanges() []Range
	ViewColumn() ViewColumn
	SetDecorations(decorationType string, ranges []Range)
}

// SelectionChangeKind describes what caused a selection change.
type SelectionChangeKind int

const (
	SelectionChangeUnknown SelectionChangeKind = iota
	SelectionChangeKeyboard
	SelectionChangeMouse
	SelectionChangeCommand
)

// TextEditorSelectionChangeEvent is fired when an editor's selections change.
type TextEditorSelectionChangeEvent struct {
	Editor     TextEditor
	Selections []Selection
	Kind       SelectionChangeKind
}

// TextEditorViewColumnChangeEvent is fired when an editor moves column.
type TextEditorViewColumnChangeEvent struct {
	Editor     TextEditor
	ViewColumn ViewColumn
}

// TextEditorVisibleRangesChangeEvent is fired when an editor scrolls.
type TextEditorVisibleRangesChangeEvent struct {
	Editor        TextEditor
	VisibleRanges []Range
}

// TextDocumentChangeEvent is fired when a document's text changes.
type TextDocumentChangeEvent struct {
	Document TextDocument
}

// TerminalState is the mutable state of a terminal.
type TerminalState struct {
	IsInteractedWith bool
	Shell            string
}

// Terminal is an integrated terminal.
type Terminal interface {
	ID() string
	Name() string
	State() TerminalState
	SendText(text string)
	Dispose()
}

// WindowState is the focus state of the host window.
type WindowState struct {
	Focused bool
	Active  bool
}

// ColorThemeKind classifies a color theme.
type ColorThemeKind int

const (
	ColorThemeLight ColorThemeKind = iota + 1
	ColorThemeDark
	ColorThemeHighContrast
	ColorThemeHighContrastLight
)

// String returns the theme kind name.
func (k ColorThemeKind) String() string {
	switch k {
	case ColorThemeLight:
		return "light"
	case ColorThemeDark:
		return "dark"
	case ColorThemeHighContrast:
		return "high-contrast"
	case ColorThemeHighContrastLight:
		return "high-contrast-light"
	default:
		return "unknown"
	}
}

// IsDark reports whether text is drawn light on dark.
func (k ColorThemeKind) IsDark() bool {
	return k == ColorThemeDark || k == ColorThemeHighContrast
}

// ColorTheme is the active color theme.
type ColorTheme struct {
	Kind ColorThemeKind
}

// WorkspaceFolder is a root folder of the workspace.
type WorkspaceFolder struct {
	URI   URI
	Name  string
	Index int
}

// WorkspaceFoldersChangeEvent lists folders added and removed.
type WorkspaceFoldersChangeEvent struct {
	Added   []WorkspaceFolder
	Removed []WorkspaceFolder
}

// ConfigurationChangeEvent lists the dotted configuration keys that changed.
type ConfigurationChangeEvent struct {
	Keys []string
}

// AffectsConfiguration reports whether section or any key below it changed.
func (e ConfigurationChangeEvent) AffectsConfiguration(section string) bool {
	for _, k := range e.Keys {
		if k == section || isParentKey(section, k) || isParentKey(k, section) {
			return true
		}
	}
	return false
}

// isParentKey reports whether parent is a dotted prefix of child.
// "editor" is a parent of "editor.tabSize"; "" is a parent of everything.
func isParentKey(parent, child string) bool {
	if parent == "" {
		return true
	}
	return len(child) > len(parent) && strings.HasPrefix(child, parent) && child[len(parent)] == '.'
}

// Configuration is a view onto one configuration section.
type Configuration interface {
	Get(key string) (any, bool)
	Has(key string) bool
	Update(key string, value any) error
}

// LogLevel is the host's log level.
type LogLevel int

const (
	LogLevelOff LogLevel = iota
	LogLevelTrace
	LogLevelDebug
	LogLevelInfo
	LogLevelWarning
	LogLevelError
)

// String returns the level name.
func (l LogLevel) String() string {
	switch l {
	case LogLevelOff:
		return "off"
	case LogLevelTrace:
		return "trace"
	case LogLevelDebug:
		return "debug"
	case LogLevelInfo:
		return "info"
	case LogLevelWarning:
		return "warning"
	case LogLevelError:
		return "error"
	default:
		return "unknown"
	}
}

// Extension describes an installed extension.
type Extension struct {
	ID       string
	Version  string
	IsActive bool
}

// StatusBarAlignment places a status bar item.
type StatusBarAlignment int

const (
	StatusBarLeft StatusBarAlignment = iota + 1
	StatusBarRight
)

// StatusBarItem is an entry in the status bar.
type StatusBarItem interface {
	ID() string
	Text() string
	SetText(text string)
	Tooltip() string
	SetTooltip(tooltip string)
	Command() string
	SetCommand(command string)
	Visible() bool
	Show()
	Hide()
	Dispose()
}

// OutputChannel is a named, append-only log surface.
type OutputChannel interface {
	Name() string
	Append(text string)
	AppendLine(line string)
	Clear()
	Show()
	Dispose()
}

// ViewBadge is a numeric decoration shown on a view.
type ViewBadge struct {
	Tooltip string
	Value   int
}

// TitledView is anything whose title can be set: tree views and webview views.
type TitledView interface {
	SetTitle(title string)
}

// View is a tree or webview view.
type View interface {
	TitledView
	ID() string
	Title() string
	Badge() *ViewBadge
	SetBadge(badge *ViewBadge)
	Visible() bool
	OnDidChangeVisibility() event.Event[bool]
	Dispose()
}

// TreeItem is one node of a tree view.
type TreeItem struct {
	ID       string
	Label    string
	Tooltip  string
	Children []TreeItem
}

// TreeDataProvider supplies the nodes of a tree view. The host reads Roots
// again after every OnDidChangeTreeData notification.
type TreeDataProvider interface {
	Roots() []TreeItem
	OnDidChangeTreeData() event.Event[struct{}]
}

// WebviewView is a view that renders HTML and exchanges messages with it.
type WebviewView interface {
	View
	HTML() string
	SetHTML(html string)
	PostMessage(msg any) error
	OnDidReceiveMessage() event.Event[any]
}
