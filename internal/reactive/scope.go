package reactive

import (
	"fmt"

	"github.com/dshills/ksreactive/internal/logging"
)

// Scope owns effects and teardown functions created during a setup.
type Scope struct {
	parent   *Scope
	children []*Scope
	effects  []*effect
	cleanups []func()
	disposed bool
}

// NewScope creates a detached root scope.
func NewScope() *Scope {
	return &Scope{}
}

// Child creates a scope that is disposed together with s. A child of a
// disposed scope starts out disposed.
func (s *Scope) Child() *Scope {
	c := &Scope{parent: s}
	if s == nil {
		return c
	}
	if s.disposed {
		c.disposed = true
		return c
	}
	s.children = append(s.children, c)
	return c
}

// Active reports whether the scope has not been disposed.
func (s *Scope) Active() bool {
	return s == nil || !s.disposed
}

// OnDispose registers fn to run when the scope is disposed. On an already
// disposed scope fn runs immediately.
func (s *Scope) OnDispose(fn func()) {
	if fn == nil {
		return
	}
	if s == nil {
		return
	}
	if s.disposed {
		runCleanup(fn)
		return
	}
	s.cleanups = append(s.cleanups, fn)
}

// adopt records e as owned by s. It returns false if s is disposed.
func (s *Scope) adopt(e *effect) bool {
	if s == nil {
		return true
	}
	if s.disposed {
		return false
	}
	s.effects = append(s.effects, e)
	return true
}

// Dispose stops every effect in s and its children and runs teardown
// functions in reverse registration order. Children are disposed first.
func (s *Scope) Dispose() {
	if s == nil || s.disposed {
		return
	}
	s.disposed = true

	children := s.children
	s.children = nil
	for i := len(children) - 1; i >= 0; i-- {
		children[i].parent = nil
		children[i].Dispose()
	}

	for _, e := range s.effects {
		e.stop()
	}
	s.effects = nil

	cleanups := s.cleanups
	s.cleanups = nil
	for i := len(cleanups) - 1; i >= 0; i-- {
		runCleanup(cleanups[i])
	}

	if s.parent != nil {
		s.parent.removeChild(s)
		s.parent = nil
	}
}

func (s *Scope) removeChild(c *Scope) {
	for i, child := range s.children {
		if child == c {
			s.children = append(s.children[:i], s.children[i+1:]...)
			return
		}
	}
}

func runCleanup(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			logging.Get().WithComponent("reactive").Error("scope teardown panicked: %v", fmt.Sprint(r))
		}
	}()
	fn()
}
