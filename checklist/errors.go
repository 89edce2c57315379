package checklist

import "errors"

var (
	ErrUndefinedSymbol = errors.New("undefined symbol")
	ErrArity           = errors.New("wrong number of arguments")
	ErrUnsupportedFunc = errors.New("unsupported function signature")
	ErrUnknownVariant  = errors.New("unknown checklist variant")
)
