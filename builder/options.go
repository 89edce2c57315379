package builder

import "go.uber.org/zap"

type Options struct {
	// Sources are the .aap files to compile. Each produces its own assembly file.
	Sources []string

	// Output is the assembly file for a single source, or a directory when
	// several sources are built. Empty places each .s next to its source.
	Output string

	// Target is a CPU or chip name. It takes precedence over #aap:target
	// directives and the AAPTARGET environment variable.
	Target string

	// Exports are glob patterns selecting the functions emitted with .global.
	Exports []string

	Assemble    bool
	Comments    bool
	Environment Env
	Logger      *zap.Logger
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

func (o Options) environment() Env {
	if o.Environment == nil {
		return Environment()
	}
	return o.Environment
}
