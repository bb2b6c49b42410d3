package host

import (
	"github.com/dshills/ksreactive/internal/event"
)

// GlobPattern selects files to watch. A pattern with a Base only matches
// paths below that directory, relative to it.
type GlobPattern struct {
	Base    string
	Pattern string
}

// Glob returns a GlobPattern matched against paths relative to the workspace.
func Glob(pattern string) GlobPattern {
	return GlobPattern{Pattern: pattern}
}

// RelativePattern returns a GlobPattern anchored at base.
func RelativePattern(base, pattern string) GlobPattern {
	return GlobPattern{Base: base, Pattern: pattern}
}

// String renders the pattern for logs.
func (g GlobPattern) String() string {
	if g.Base == "" {
		return g.Pattern
	}
	return g.Base + ":" + g.Pattern
}

// FileSystemWatcher reports file creations, changes and deletions matching
// one glob pattern. Its ignore flags are fixed at creation.
type FileSystemWatcher interface {
	event.Disposable

	Pattern() GlobPattern
	IgnoreCreateEvents() bool
	IgnoreChangeEvents() bool
	IgnoreDeleteEvents() bool

	OnDidCreate() event.Event[URI]
	OnDidChange() event.Event[URI]
	OnDidDelete() event.Event[URI]
}

// CommandFunc implements a command.
type CommandFunc func(args ...any) (any, error)

// TextEditorCommandFunc implements a command that runs against the active editor.
type TextEditorCommandFunc func(editor TextEditor, args ...any) error

// SetContextCommand is the built-in command that assigns a context key.
// Its arguments are the key name and the value.
const SetContextCommand = "setContext"

// Window is the UI surface of the host.
type Window interface {
	ActiveTextEditor() TextEditor
	OnDidChangeActiveTextEditor() event.Event[TextEditor]
	VisibleTextEditors() []TextEditor
	OnDidChangeVisibleTextEditors() event.Event[[]TextEditor]
	OnDidChangeTextEditorSelection() event.Event[TextEditorSelectionChangeEvent]
	OnDidChangeTextEditorViewColumn() event.Event[TextEditorViewColumnChangeEvent]
	OnDidChangeTextEditorVisibleRanges() event.Event[TextEditorVisibleRangesChangeEvent]

	ActiveTerminal() Terminal
	OnDidChangeActiveTerminal() event.Event[Terminal]
	Terminals() []Terminal
	OnDidOpenTerminal() event.Event[Terminal]
	OnDidCloseTerminal() event.Event[Terminal]
	OnDidChangeTerminalState() event.Event[Terminal]

	State() WindowState
	OnDidChangeWindowState() event.Event[WindowState]
	ActiveColorTheme() ColorTheme
	OnDidChangeActiveColorTheme() event.Event[ColorTheme]

	CreateStatusBarItem(id string, alignment StatusBarAlignment, priority int) StatusBarItem
	CreateOutputChannel(name string) OutputChannel
	CreateTreeView(id string, data TreeDataProvider) View
	CreateWebviewView(id string) WebviewView
}

// Workspace is the project surface of the host.
type Workspace interface {
	WorkspaceFolders() []WorkspaceFolder
	OnDidChangeWorkspaceFolders() event.Event[WorkspaceFoldersChangeEvent]

	CreateFileSystemWatcher(pattern GlobPattern, ignoreCreate, ignoreChange, ignoreDelete bool) FileSystemWatcher

	Configuration(section string) Configuration
	OnDidChangeConfiguration() event.Event[ConfigurationChangeEvent]

	OnDidChangeTextDocument() event.Event[TextDocumentChangeEvent]
}

// Commands is the command registry of the host.
type Commands interface {
	RegisterCommand(id string, fn CommandFunc) (event.Disposable, error)
	RegisterTextEditorCommand(id string, fn TextEditorCommandFunc) (event.Disposable, error)
	ExecuteCommand(id string, args ...any) (any, error)
	GetCommands() []string
}

// Env exposes host environment settings.
type Env interface {
	LogLevel() LogLevel
	OnDidChangeLogLevel() event.Event[LogLevel]
	IsTelemetryEnabled() bool
	OnDidChangeTelemetryEnabled() event.Event[bool]
	Shell() string
	OnDidChangeShell() event.Event[string]
}

// Extensions lists installed extensions.
type Extensions interface {
	All() []Extension
	OnDidChange() event.Event[struct{}]
}

// Host bundles the host surfaces handed to an extension.
type Host struct {
	Window     Window
	Workspace  Workspace
	Commands   Commands
	Env        Env
	Extensions Extensions
}
