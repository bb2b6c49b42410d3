package reactive

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/dshills/ksreactive/internal/logging"
)

func TestScope_DisposeStopsEffects(t *testing.T) {
	s := NewScope()
	r := NewRef(0)
	runs := 0
	WatchEffect(s, func() { _ = r.Get(); runs++ })

	s.Dispose()
	r.Set(1)

	if runs != 1 {
		t.Errorf("runs = %d, want 1", runs)
	}
	if s.Active() {
		t.Error("Active() = true after Dispose")
	}
}

func TestScope_CleanupsRunOnceInReverse(t *testing.T) {
	s := NewScope()
	var order []int
	s.OnDispose(func() { order = append(order, 1) })
	s.OnDispose(func() { order = append(order, 2) })
	s.OnDispose(nil)

	s.Dispose()
	s.Dispose()

	if !reflect.DeepEqual(order, []int{2, 1}) {
		t.Errorf("order = %v, want [2 1]", order)
	}
}

func TestScope_ChildrenDisposedWithParent(t *testing.T) {
	parent := NewScope()
	child := parent.Child()
	grandchild := child.Child()

	var order []string
	parent.OnDispose(func() { order = append(order, "parent") })
	child.OnDispose(func() { order = append(order, "child") })
	grandchild.OnDispose(func() { order = append(order, "grandchild") })

	parent.Dispose()

	want := []string{"grandchild", "child", "parent"}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("order = %v, want %v", order, want)
	}
	if child.Active() || grandchild.Active() {
		t.Error("children still active")
	}
}

func TestScope_ChildDisposedAlone(t *testing.T) {
	parent := NewScope()
	child := parent.Child()
	child.Dispose()

	if len(parent.children) != 0 {
		t.Errorf("parent still tracks %d children", len(parent.children))
	}
	if !parent.Active() {
		t.Error("parent disposed by child")
	}
	parent.Dispose()
}

func TestScope_Disposed(t *testing.T) {
	s := NewScope()
	s.Dispose()

	ran := false
	s.OnDispose(func() { ran = true })
	if !ran {
		t.Error("OnDispose on disposed scope should run immediately")
	}

	r := NewRef(0)
	runs := 0
	stop := WatchEffect(s, func() { _ = r.Get(); runs++ })
	stop()
	if runs != 0 {
		t.Errorf("effect on disposed scope ran %d times", runs)
	}

	if s.Child().Active() {
		t.Error("child of disposed scope is active")
	}
}

func TestScope_CleanupPanicIsRecovered(t *testing.T) {
	var buf bytes.Buffer
	logging.Set(logging.New(logging.Config{Level: logging.LevelDebug, Output: &buf}))
	defer logging.Set(nil)

	s := NewScope()
	ranAfter := false
	s.OnDispose(func() { ranAfter = true })
	s.OnDispose(func() { panic("boom") })

	s.Dispose()

	if !ranAfter {
		t.Error("cleanup after panicking one did not run")
	}
	if !strings.Contains(buf.String(), "boom") {
		t.Errorf("panic not logged: %q", buf.String())
	}
}

func TestScope_DisposeDuringNotification(t *testing.T) {
	s := NewScope()
	r := NewRef(0)
	later := 0

	WatchEffect(s, func() {
		if r.Get() == 1 {
			s.Dispose()
		}
	})
	WatchEffect(s, func() { _ = r.Get(); later++ })

	r.Set(1)
	r.Set(2)

	if later != 1 {
		t.Errorf("effect queued behind a disposing effect ran %d times, want 1", later)
	}
}

func TestScope_Nil(t *testing.T) {
	var s *Scope
	if !s.Active() {
		t.Error("nil scope should report active")
	}
	s.OnDispose(func() {})
	s.Dispose()

	r := NewRef(0)
	runs := 0
	stop := WatchEffect(s, func() { _ = r.Get(); runs++ })
	r.Set(1)
	stop()
	r.Set(2)
	if runs != 2 {
		t.Errorf("runs = %d, want 2", runs)
	}
}
