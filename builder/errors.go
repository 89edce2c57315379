package builder

import "errors"

var (
	ErrNoSources            = errors.New("no source files provided")
	ErrUnexpectedOutputPath = errors.New("unexpected output path provided")
	ErrTargetDirective      = errors.New("malformed target directive")
	ErrAssemblerNotFound    = errors.New("could not locate an assembler")
	ErrAssemblerFailed      = errors.New("assembler failed")
)
