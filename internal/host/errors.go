package host

import "errors"

// Sentinel errors returned by host implementations.
var (
	// ErrCommandExists is returned when registering a command id twice.
	ErrCommandExists = errors.New("command already exists")

	// ErrCommandNotFound is returned when executing an unknown command.
	ErrCommandNotFound = errors.New("command not found")

	// ErrInvalidArguments is returned when a command receives malformed arguments.
	ErrInvalidArguments = errors.New("invalid command arguments")

	// ErrNoActiveEditor is returned by text editor commands run without an editor.
	ErrNoActiveEditor = errors.New("no active text editor")

	// ErrDisposed is returned when using a host object after Dispose.
	ErrDisposed = errors.New("host object is disposed")

	// ErrInvalidURI is returned when parsing a malformed URI.
	ErrInvalidURI = errors.New("invalid uri")
)
