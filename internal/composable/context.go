package composable

import (
	"fmt"

	"github.com/dshills/ksreactive/internal/host"
	"github.com/dshills/ksreactive/internal/reactive"
)

// UseContext pushes name = value into the host context store whenever value
// changes while shouldUpdate is true. An unset shouldUpdate is true.
//
// Every change made while the gate is open produces one setContext call.
// Nothing is pushed while the gate is closed; opening it pushes the current
// value once.
//
// The returned observable is value itself when value wraps one, a Computed
// when value is a getter, and a *reactive.Ref otherwise. UseContextRef is
// the writable form and returns the Ref typed. The error is the host's
// answer to the first push. Later failures are logged.
func UseContext[T any](
	s *reactive.Scope,
	cmds host.Commands,
	name string,
	value reactive.Value[T],
	shouldUpdate reactive.Value[bool],
) (reactive.Readable[T], error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty context name", host.ErrInvalidArguments)
	}

	var cell reactive.Readable[T]
	if r, ok := value.Readable(); ok {
		cell = r
	} else if !value.IsConst() {
		cell = reactive.NewComputed(value.Get)
	} else {
		cell = reactive.NewRef(value.Get())
	}

	err := bindContext(s, cmds, name, cell, shouldUpdate)
	return cell, err
}

// UseContextRef is UseContext over a new writable ref holding initial.
func UseContextRef[T any](
	s *reactive.Scope,
	cmds host.Commands,
	name string,
	initial T,
	shouldUpdate reactive.Value[bool],
) (*reactive.Ref[T], error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty context name", host.ErrInvalidArguments)
	}
	ref := reactive.NewRef(initial)
	return ref, bindContext(s, cmds, name, ref, shouldUpdate)
}

// UseContextGetter is UseContext over a Computed of fn.
func UseContextGetter[T any](
	s *reactive.Scope,
	cmds host.Commands,
	name string,
	fn func() T,
	shouldUpdate reactive.Value[bool],
) (*reactive.Computed[T], error) {
	if name == "" || fn == nil {
		return nil, fmt.Errorf("%w: context %q needs a name and a getter", host.ErrInvalidArguments, name)
	}
	c := reactive.NewComputed(fn)
	return c, bindContext(s, cmds, name, c, shouldUpdate)
}

func bindContext[T any](
	s *reactive.Scope,
	cmds host.Commands,
	name string,
	cell reactive.Readable[T],
	shouldUpdate reactive.Value[bool],
) error {
	var (
		first    = true
		firstErr error
	)

	reactive.WatchEffect(s, func() {
		initial := first
		first = false

		if !shouldUpdate.GetOr(true) {
			return
		}
		v := cell.Get()

		var err error
		untracked(func() {
			_, err = cmds.ExecuteCommand(host.SetContextCommand, name, v)
		})
		if err == nil {
			return
		}
		if initial {
			firstErr = fmt.Errorf("set context %q: %w", name, err)
			return
		}
		logger().WithField("context", name).Error("set context: %v", err)
	})

	return firstErr
}
