package reactive

import (
	"reflect"
	"testing"
)

func TestRef_GetSet(t *testing.T) {
	r := NewRef(1)
	if r.Get() != 1 {
		t.Fatalf("Get() = %d, want 1", r.Get())
	}
	r.Set(2)
	if r.Peek() != 2 {
		t.Errorf("Peek() = %d, want 2", r.Peek())
	}
	r.Update(func(v int) int { return v + 3 })
	if r.Get() != 5 {
		t.Errorf("Get() after Update = %d, want 5", r.Get())
	}
}

func TestRef_SetSameValueDoesNotNotify(t *testing.T) {
	s := NewScope()
	defer s.Dispose()

	r := NewRef("a")
	runs := 0
	WatchEffect(s, func() {
		_ = r.Get()
		runs++
	})

	r.Set("a")
	if runs != 1 {
		t.Errorf("runs = %d, want 1", runs)
	}

	r.Set("b")
	if runs != 2 {
		t.Errorf("runs = %d, want 2", runs)
	}

	r.Trigger()
	if runs != 3 {
		t.Errorf("runs after Trigger = %d, want 3", runs)
	}
}

func TestRef_NonComparableAlwaysChanges(t *testing.T) {
	s := NewScope()
	defer s.Dispose()

	r := NewRef([]string{"x"})
	runs := 0
	WatchEffect(s, func() {
		_ = r.Get()
		runs++
	})

	r.Set([]string{"x"})
	if runs != 2 {
		t.Errorf("runs = %d, want 2", runs)
	}
}

func TestHasChanged(t *testing.T) {
	type point struct{ X, Y int }
	type holder struct{ V any }

	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{"equal ints", 1, 1, false},
		{"different ints", 1, 2, true},
		{"both nil", nil, nil, false},
		{"nil and value", nil, 1, true},
		{"equal structs", point{1, 2}, point{1, 2}, false},
		{"different types", int32(1), int64(1), true},
		{"slices", []int{1}, []int{1}, true},
		{"struct holding slice", holder{[]int{1}}, holder{[]int{1}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := hasChanged(tt.a, tt.b); got != tt.want {
				t.Errorf("hasChanged(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestComputed_LazyAndCached(t *testing.T) {
	r := NewRef(2)
	evals := 0
	c := NewComputed(func() int {
		evals++
		return r.Get() * 10
	})

	if evals != 0 {
		t.Fatalf("computed evaluated before first Get")
	}
	if c.Get() != 20 || c.Get() != 20 {
		t.Fatalf("Get() = %d, want 20", c.Peek())
	}
	if evals != 1 {
		t.Errorf("evals = %d, want 1", evals)
	}

	r.Set(3)
	if evals != 1 {
		t.Errorf("computed evaluated eagerly on dependency change")
	}
	if c.Get() != 30 {
		t.Errorf("Get() = %d, want 30", c.Peek())
	}
	if evals != 2 {
		t.Errorf("evals = %d, want 2", evals)
	}
}

func TestComputed_Chain(t *testing.T) {
	s := NewScope()
	defer s.Dispose()

	r := NewRef(1)
	a := NewComputed(func() int { return r.Get() + 1 })
	b := NewComputed(func() int { return a.Get() * 2 })

	var seen []int
	WatchEffect(s, func() { seen = append(seen, b.Get()) })

	r.Set(2)
	r.Set(5)

	want := []int{4, 6, 12}
	if !reflect.DeepEqual(seen, want) {
		t.Errorf("seen = %v, want %v", seen, want)
	}
}

func TestWritableComputed(t *testing.T) {
	r := NewRef(1)
	w := NewWritableComputed(
		func() int { return r.Get() * 2 },
		func(v int) { r.Set(v / 2) },
	)

	w.Set(10)
	if r.Get() != 5 {
		t.Errorf("r = %d, want 5", r.Get())
	}
	if w.Get() != 10 {
		t.Errorf("w = %d, want 10", w.Get())
	}
}

func TestValue(t *testing.T) {
	r := NewRef("ref")

	tests := []struct {
		name  string
		v     Value[string]
		want  string
		isSet bool
	}{
		{"unset", Value[string]{}, "", false},
		{"const", Const("c"), "c", true},
		{"readable", Of[string](r), "ref", true},
		{"nil readable", Of[string](nil), "", false},
		{"getter", Getter(func() string { return "g" }), "g", true},
		{"nil getter", Getter[string](nil), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToValue(tt.v); got != tt.want {
				t.Errorf("ToValue() = %q, want %q", got, tt.want)
			}
			if tt.v.IsSet() != tt.isSet {
				t.Errorf("IsSet() = %v, want %v", tt.v.IsSet(), tt.isSet)
			}
		})
	}

	if got := (Value[string]{}).GetOr("def"); got != "def" {
		t.Errorf("GetOr on unset = %q, want def", got)
	}
	if got := Const("x").GetOr("def"); got != "x" {
		t.Errorf("GetOr on const = %q, want x", got)
	}
	if rr, ok := Of[string](r).Readable(); !ok || rr != Readable[string](r) {
		t.Error("Readable() did not return the wrapped ref")
	}
}

func TestShallowMap(t *testing.T) {
	s := NewScope()
	defer s.Dispose()

	m := NewShallowMap[string, int]()
	var sizes []int
	WatchEffect(s, func() { sizes = append(sizes, m.Len()) })

	m.Set("a", 1)
	m.Set("b", 2)
	m.Set("b", 2) // unchanged
	m.Set("a", 3)
	if !m.Delete("a") {
		t.Error("Delete(a) = false, want true")
	}
	if m.Delete("missing") {
		t.Error("Delete(missing) = true, want false")
	}

	if !reflect.DeepEqual(sizes, []int{0, 1, 2, 2, 1}) {
		t.Errorf("sizes = %v", sizes)
	}
	if !reflect.DeepEqual(m.Keys(), []string{"b"}) {
		t.Errorf("Keys() = %v, want [b]", m.Keys())
	}

	m.Set("c", 3)
	var ranged []string
	m.Range(func(k string, v int) bool {
		ranged = append(ranged, k)
		return true
	})
	if !reflect.DeepEqual(ranged, []string{"b", "c"}) {
		t.Errorf("Range order = %v", ranged)
	}

	m.Clear()
	m.Clear()
	if m.Len() != 0 || m.Has("b") {
		t.Error("map not empty after Clear")
	}
	if sizes[len(sizes)-1] != 0 {
		t.Errorf("last size = %d, want 0", sizes[len(sizes)-1])
	}
}
