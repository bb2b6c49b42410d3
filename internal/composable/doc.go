// Package composable exposes host state as reactive values.
//
// Every composable takes the Scope that owns it as its first argument. It
// reads the current host state eagerly, subscribes to the host events that
// change it, and mirrors each notification into a reactive cell before the
// host call returns. Disposing the scope releases every subscription and
// every host object the composable created, exactly once.
//
//	s := reactive.NewScope()
//	defer s.Dispose()
//
//	editor := composable.UseActiveTextEditor(s, h.Window)
//	text := composable.UseDocumentText(s, h.Workspace, reactive.Getter(func() host.TextDocument {
//	    if e := editor.Get(); e != nil {
//	        return e.Document()
//	    }
//	    return nil
//	}))
//
// Inputs that may be constant or reactive are passed as reactive.Value.
// Composables must be called and driven from the goroutine that runs the
// reactive graph.
package composable
