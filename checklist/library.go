package checklist

import (
	"context"

	"github.com/pkg/errors"
)

// Library supplies the routines under test by symbol name. Booleans are
// returned as 1 or 0.
type Library interface {
	Call(ctx context.Context, symbol string, args ...int32) (int32, error)
}

// FuncMap is a Library of Go functions. Values must have one of the shapes
// func(int32) int32, func(int32, int32) int32, func(int32) bool or
// func(int32, int32) bool.
type FuncMap map[string]any

func (m FuncMap) Call(_ context.Context, symbol string, args ...int32) (int32, error) {
	fn, ok := m[symbol]
	if !ok {
		return 0, errors.Wrap(ErrUndefinedSymbol, symbol)
	}

	arity := func(n int) error {
		if len(args) != n {
			return errors.Wrapf(ErrArity, "%s takes %d, got %d", symbol, n, len(args))
		}
		return nil
	}

	switch fn := fn.(type) {
	case func(int32) int32:
		if err := arity(1); err != nil {
			return 0, err
		}
		return fn(args[0]), nil
	case func(int32, int32) int32:
		if err := arity(2); err != nil {
			return 0, err
		}
		return fn(args[0], args[1]), nil
	case func(int32) bool:
		if err := arity(1); err != nil {
			return 0, err
		}
		return b2i(fn(args[0])), nil
	case func(int32, int32) bool:
		if err := arity(2); err != nil {
			return 0, err
		}
		return b2i(fn(args[0], args[1])), nil
	}
	return 0, errors.Wrapf(ErrUnsupportedFunc, "%s is %T", symbol, fn)
}
