// Package reactive implements the small reactivity core that composables are
// built on: writable refs, lazily cached computeds, effects and watchers, and
// explicit scopes that own them.
//
// # Tracking
//
// Reading a Ref, Computed or ShallowMap while an effect or computed is
// running records a dependency. Writing a tracked value schedules every
// dependent effect. Effects run synchronously, in creation order, before the
// write returns; writes made inside Batch are flushed when the outermost
// Batch returns.
//
//	s := reactive.NewScope()
//	defer s.Dispose()
//
//	count := reactive.NewRef(1)
//	double := reactive.NewComputed(func() int { return count.Get() * 2 })
//
//	reactive.Watch(s, double.Get, func(v, old int) {
//	    fmt.Println(old, "->", v)
//	})
//	count.Set(2) // prints "2 -> 4"
//
// # Scopes
//
// A Scope owns effects and teardown functions. Dispose stops the scope's
// effects and those of its children, then runs teardown functions in reverse
// registration order. Dispose is idempotent and never panics; panics raised
// by teardown functions are recovered and logged.
//
// # Values
//
// Value is the argument type for inputs that may be a constant, an
// observable, or a getter. Value.Get resolves all three, tracking the
// observable or getter when called inside an effect.
//
// # Goroutines
//
// The package keeps its tracking state in package-level variables and is
// not safe for concurrent use. All reads and writes must happen on one
// goroutine, normally the host event loop.
package reactive
