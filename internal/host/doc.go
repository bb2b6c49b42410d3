// Package host defines the extension host API that composables adapt.
//
// The host is an opaque collaborator. The only contracts composables rely on
// are:
//
//   - subscription: every On* accessor returns an event.Event; calling it with
//     a listener returns a Disposable that removes the listener
//   - resource lifetime: objects the host creates on request (file-system
//     watchers, status bar items, output channels, views) are released with
//     Dispose
//   - synchronous setters: state changes requested by the extension (context
//     keys, view titles, badges) take effect before the call returns
//
// Implementations deliver events on the host's single event loop. The
// in-process implementation lives in package memhost.
package host
