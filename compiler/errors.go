package compiler

import "errors"

var (
	ErrTargetMissingArchitecture = errors.New("target is missing architecture type")
	ErrTargetMissingCpu          = errors.New("target is missing CPU type")
	ErrTargetMissingTriple       = errors.New("target is missing target triple value")

	ErrFloat             = errors.New("floating point values are not supported")
	ErrConstantRange     = errors.New("constant overflows int32")
	ErrUndefined         = errors.New("undefined variable")
	ErrNestedFunction    = errors.New("nested function definitions are not supported")
	ErrIndirectCall      = errors.New("calls through values are not supported")
	ErrTooManyParameters = errors.New("too many parameters")
	ErrTooManyArguments  = errors.New("too many arguments")
	ErrTooManyLocals     = errors.New("too many local variables")
	ErrArity             = errors.New("wrong number of arguments")
	ErrDuplicateFunction = errors.New("function redeclared")
)
