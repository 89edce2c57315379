package builder

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"omibyte.io/aap/compiler"
	"omibyte.io/aap/targets"
)

// Output describes the files produced for one source.
type Output struct {
	Source   string
	Assembly string
	// Object is empty unless the build assembled the output.
	Object  string
	Cpu     string
	Symbols []string
	// Changed reports whether the assembly file was rewritten.
	Changed bool
}

type Result struct {
	Outputs []Output
}

// Build compiles every source to Thumb assembly and, if requested, assembles
// the result into an object file.
func Build(ctx context.Context, options Options) (Result, error) {
	if len(options.Sources) == 0 {
		return Result{}, ErrNoSources
	}

	// Output must be a directory if multiple sources were specified
	multiple := len(options.Sources) > 1
	if info, err := os.Stat(options.Output); err == nil && !info.IsDir() && multiple {
		return Result{}, ErrUnexpectedOutputPath
	}

	env := options.environment()
	logger := options.logger()

	var toolchain Toolchain
	if options.Assemble {
		var err error
		if toolchain, err = findToolchain(env); err != nil {
			return Result{}, err
		}
		logger.Debug("using assembler", zap.String("as", toolchain.AS))
	}

	b := builder{
		options:   options,
		env:       env,
		logger:    logger,
		toolchain: toolchain,
		exported:  ExportFilter(options.Exports),
	}

	var result Result
	for _, source := range options.Sources {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		out, err := b.build(ctx, source, outputPath(source, options.Output, multiple))
		if err != nil {
			return result, err
		}
		result.Outputs = append(result.Outputs, out)
	}
	return result, nil
}

type builder struct {
	options   Options
	env       Env
	logger    *zap.Logger
	toolchain Toolchain
	exported  func(string) bool
}

func (b *builder) build(ctx context.Context, source, output string) (Output, error) {
	prog, err := LoadProgram(source)
	if err != nil {
		return Output{}, err
	}

	info, err := b.target(prog)
	if err != nil {
		return Output{}, err
	}

	target, err := compiler.NewTarget(info, nil)
	if err != nil {
		return Output{}, err
	}
	b.logger.Debug("target selected",
		zap.String("source", source),
		zap.String("cpu", target.Cpu()),
		zap.String("architecture", target.Architecture()),
		zap.String("triple", target.Triple()),
		zap.Strings("features", target.Features()))

	cc := compiler.NewCompiler(compiler.Options{
		Target:   target,
		Exported: b.exported,
		Comments: b.options.Comments,
		Logger:   b.logger.With(zap.String("source", source)),
	})

	module, err := cc.CompileFile(ctx, prog.File)
	if err != nil {
		return Output{}, err
	}

	if err = os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return Output{}, errors.Wrap(err, "could not create output directory")
	}

	changed, err := WriteFileIfChanged(output, module.Bytes(), 0o644)
	if err != nil {
		return Output{}, errors.Wrap(err, "could not write assembly")
	}

	b.logger.Info("compiled",
		zap.String("source", source),
		zap.String("output", output),
		zap.String("cpu", info.Cpu),
		zap.Bool("changed", changed))

	out := Output{
		Source:   source,
		Assembly: output,
		Cpu:      info.Cpu,
		Symbols:  module.Symbols(),
		Changed:  changed,
	}

	if b.options.Assemble {
		if out.Object, err = b.assemble(ctx, info, output); err != nil {
			return Output{}, err
		}
	}
	return out, nil
}

// target resolves the target for prog: the command line first, then the
// source's directive, then the environment.
func (b *builder) target(prog *Program) (targets.TargetInfo, error) {
	name := b.options.Target
	if len(name) == 0 {
		name = prog.Target
	}
	if len(name) == 0 {
		name = b.env.Value("AAPTARGET")
	}
	if len(name) == 0 {
		name = DefaultTarget
	}
	return targets.All().Find(name)
}

// assemble produces the object for the assembly file at input. Objects are
// kept in the cache directory under a name derived from the assembly text and
// the assembler command line, then copied next to the assembly.
func (b *builder) assemble(ctx context.Context, info targets.TargetInfo, input string) (string, error) {
	object := strings.TrimSuffix(input, filepath.Ext(input)) + ".o"

	asm, err := os.ReadFile(input)
	if err != nil {
		return "", errors.Wrap(err, "could not read assembly")
	}

	abs, err := filepath.Abs(input)
	if err != nil {
		return "", err
	}
	cached := filepath.Join(b.env.Value("AAPCACHE"), b.toolchain.objectName(info, abs, asm))

	if _, err := os.Stat(cached); err == nil {
		b.logger.Debug("object cached", zap.String("input", input), zap.String("object", cached))
	} else {
		b.logger.Debug("assembling", zap.String("input", input), zap.String("object", cached))

		// Only a complete object ever appears under the cached name
		partial := cached + ".tmp"
		if err := b.toolchain.Assemble(ctx, info, input, partial); err != nil {
			_ = os.Remove(partial)
			_ = os.Remove(object)
			return "", err
		}
		if err := os.Rename(partial, cached); err != nil {
			return "", errors.Wrap(err, "could not cache object")
		}
	}

	data, err := os.ReadFile(cached)
	if err != nil {
		return "", errors.Wrap(err, "could not read object")
	}

	if _, err := WriteFileIfChanged(object, data, 0o644); err != nil {
		return "", errors.Wrap(err, "could not write object")
	}
	return object, nil
}

func outputPath(source, output string, multiple bool) string {
	name := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source)) + ".s"
	switch {
	case len(output) == 0:
		return filepath.Join(filepath.Dir(source), name)
	case multiple:
		return filepath.Join(output, name)
	}

	if info, err := os.Stat(output); err == nil && info.IsDir() {
		return filepath.Join(output, name)
	}
	return output
}
