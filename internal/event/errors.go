package event

import "errors"

// Sentinel errors for emitters.
var (
	// ErrEmitterDisposed is returned by TryFire after the emitter was disposed.
	ErrEmitterDisposed = errors.New("emitter is disposed")

	// ErrNilListener is returned by TrySubscribe when a nil listener is provided.
	ErrNilListener = errors.New("listener cannot be nil")
)
