package reactive

import (
	"reflect"
	"testing"
)

func TestWatchEffect_RunsImmediatelyAndOnChange(t *testing.T) {
	s := NewScope()
	defer s.Dispose()

	r := NewRef(1)
	var seen []int
	stop := WatchEffect(s, func() { seen = append(seen, r.Get()) })

	r.Set(2)
	stop()
	stop()
	r.Set(3)

	if !reflect.DeepEqual(seen, []int{1, 2}) {
		t.Errorf("seen = %v, want [1 2]", seen)
	}
}

func TestWatchEffect_DropsStaleDependencies(t *testing.T) {
	s := NewScope()
	defer s.Dispose()

	useA := NewRef(true)
	a := NewRef("a")
	b := NewRef("b")

	runs := 0
	WatchEffect(s, func() {
		runs++
		if useA.Get() {
			_ = a.Get()
		} else {
			_ = b.Get()
		}
	})

	useA.Set(false)
	a.Set("a2")
	if runs != 2 {
		t.Errorf("runs = %d, want 2 (a is no longer a dependency)", runs)
	}
	b.Set("b2")
	if runs != 3 {
		t.Errorf("runs = %d, want 3", runs)
	}
}

func TestWatchEffect_CreationOrder(t *testing.T) {
	s := NewScope()
	defer s.Dispose()

	r := NewRef(0)
	var order []string
	WatchEffect(s, func() { _ = r.Get(); order = append(order, "first") })
	WatchEffect(s, func() { _ = r.Get(); order = append(order, "second") })
	order = nil

	r.Set(1)
	if !reflect.DeepEqual(order, []string{"first", "second"}) {
		t.Errorf("order = %v", order)
	}
}

func TestWatchEffect_SelfWriteDoesNotLoop(t *testing.T) {
	s := NewScope()
	defer s.Dispose()

	r := NewRef(0)
	runs := 0
	WatchEffect(s, func() {
		runs++
		r.Set(r.Get() + 1)
	})

	if runs != 1 {
		t.Errorf("runs = %d, want 1", runs)
	}
	if r.Peek() != 1 {
		t.Errorf("r = %d, want 1", r.Peek())
	}
}

func TestWatchEffect_CascadeCompletesBeforeSetReturns(t *testing.T) {
	s := NewScope()
	defer s.Dispose()

	src := NewRef(1)
	mid := NewRef(0)
	var last int

	WatchEffect(s, func() { mid.Set(src.Get() * 10) })
	WatchEffect(s, func() { last = mid.Get() + 1 })

	src.Set(2)
	if last != 21 {
		t.Errorf("last = %d, want 21", last)
	}
}

func TestBatch(t *testing.T) {
	s := NewScope()
	defer s.Dispose()

	a := NewRef(1)
	b := NewRef(1)
	runs := 0
	WatchEffect(s, func() {
		_ = a.Get() + b.Get()
		runs++
	})

	Batch(func() {
		a.Set(2)
		b.Set(2)
		if runs != 1 {
			t.Errorf("effect ran inside batch")
		}
	})
	if runs != 2 {
		t.Errorf("runs = %d, want 2", runs)
	}
}

func TestUntracked(t *testing.T) {
	s := NewScope()
	defer s.Dispose()

	r := NewRef(1)
	runs := 0
	WatchEffect(s, func() {
		runs++
		_ = Untracked(r.Get)
	})

	r.Set(2)
	if runs != 1 {
		t.Errorf("runs = %d, want 1", runs)
	}
}

func TestWatch_CallbackOnChangeOnly(t *testing.T) {
	s := NewScope()
	defer s.Dispose()

	r := NewRef(1)
	type call struct{ v, old int }
	var calls []call
	Watch(s, r.Get, func(v, old int) { calls = append(calls, call{v, old}) })

	if len(calls) != 0 {
		t.Fatalf("callback ran without Immediate")
	}
	r.Set(2)
	r.Set(2)
	r.Set(5)

	want := []call{{2, 1}, {5, 2}}
	if !reflect.DeepEqual(calls, want) {
		t.Errorf("calls = %v, want %v", calls, want)
	}
}

func TestWatch_Immediate(t *testing.T) {
	s := NewScope()
	defer s.Dispose()

	r := NewRef("x")
	var got []string
	Watch(s, r.Get, func(v, old string) { got = append(got, old+">"+v) }, Immediate())

	r.Set("y")
	if !reflect.DeepEqual(got, []string{">x", "x>y"}) {
		t.Errorf("got = %v", got)
	}
}

func TestWatch_DeepAndAlways(t *testing.T) {
	s := NewScope()
	defer s.Dispose()

	r := NewRef([]int{1})
	deep, always, plain := 0, 0, 0
	Watch(s, r.Get, func(_, _ []int) { deep++ }, Deep())
	Watch(s, r.Get, func(_, _ []int) { plain++ })

	n := NewRef(1)
	Watch(s, func() int { _ = n.Get(); return 0 }, func(_, _ int) { always++ }, Always())

	r.Set([]int{1})
	if deep != 0 {
		t.Errorf("deep = %d, want 0 for equal contents", deep)
	}
	if plain != 1 {
		t.Errorf("plain = %d, want 1 for a new slice", plain)
	}
	r.Set([]int{2})
	if deep != 1 {
		t.Errorf("deep = %d, want 1", deep)
	}

	n.Set(2)
	if always != 1 {
		t.Errorf("always = %d, want 1", always)
	}
}

func TestWatch_Once(t *testing.T) {
	s := NewScope()
	defer s.Dispose()

	r := NewRef(0)
	calls := 0
	Watch(s, r.Get, func(_, _ int) { calls++ }, Once())

	r.Set(1)
	r.Set(2)
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestWatch_CallbackIsUntracked(t *testing.T) {
	s := NewScope()
	defer s.Dispose()

	src := NewRef(0)
	other := NewRef(0)
	calls := 0
	Watch(s, src.Get, func(_, _ int) {
		calls++
		_ = other.Get()
	})

	src.Set(1)
	other.Set(1)
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestWatchValue(t *testing.T) {
	s := NewScope()
	defer s.Dispose()

	r := NewRef(1)
	var got int
	WatchValue(s, Of[int](r), func(v, _ int) { got = v })
	r.Set(9)
	if got != 9 {
		t.Errorf("got = %d, want 9", got)
	}
}

func TestWatchEffect_PanicOnFirstRunKeepsFlushing(t *testing.T) {
	s := NewScope()
	defer s.Dispose()

	for _, start := range []func(){
		func() { WatchEffect(s, func() { panic("boom") }) },
		func() { Watch(s, func() int { panic("boom") }, func(_, _ int) {}) },
	} {
		func() {
			defer func() {
				if recover() == nil {
					t.Fatal("expected panic")
				}
			}()
			start()
		}()
	}

	if batchDepth != 0 {
		t.Fatalf("batchDepth = %d, want 0", batchDepth)
	}

	r := NewRef(0)
	runs := 0
	WatchEffect(s, func() {
		r.Get()
		runs++
	})
	r.Set(1)
	if runs != 2 {
		t.Errorf("runs = %d, want 2", runs)
	}
}
