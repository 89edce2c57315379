package compiler

import "go.uber.org/zap"

type Options struct {
	Target *Target

	// Exported reports whether a function is emitted with a .global directive.
	// A nil func exports every function.
	Exported func(name string) bool

	// Comments annotates every statement with its source position.
	Comments bool

	Logger *zap.Logger
}
