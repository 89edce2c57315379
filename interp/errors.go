package interp

import "errors"

var (
	ErrDivisionByZero = errors.New("division by zero")
	ErrStackOverflow  = errors.New("maximum call depth exceeded")
	ErrUndefined      = errors.New("undefined symbol")
	ErrNotFunction    = errors.New("value is not a function")
	ErrArity          = errors.New("wrong number of arguments")
)
