package interp

import (
	"context"
	"math"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"omibyte.io/aap/compiler/ast"
	"omibyte.io/aap/compiler/parser"
)

// Library serves calls by symbol name from the functions an AAP program defines.
type Library struct {
	in *Interpreter
}

// NewLibrary runs the top-level statements of file once so that its function
// definitions are bound.
func NewLibrary(ctx context.Context, file *ast.File, options Options) (*Library, error) {
	in := New(options)
	if _, err := in.Run(ctx, file); err != nil {
		return nil, errors.Wrapf(err, "failed to load %s", file.Name)
	}

	in.logger.Debug("library loaded", zap.String("file", file.Name), zap.Strings("symbols", in.globals.Names()))
	return &Library{in: in}, nil
}

// LoadLibrary parses and loads the AAP source file at path.
func LoadLibrary(ctx context.Context, path string, options Options) (*Library, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read library source")
	}

	file, err := parser.ParseFile(path, src)
	if err != nil {
		return nil, err
	}
	return NewLibrary(ctx, file, options)
}

// Symbols lists the global function names.
func (l *Library) Symbols() []string {
	var result []string
	for _, name := range l.in.globals.Names() {
		if v, _ := l.in.globals.Lookup(name); v != nil {
			if _, ok := v.(*Function); ok {
				result = append(result, name)
			}
		}
	}
	return result
}

// Call invokes symbol and converts the result to int32. Floats truncate
// toward zero and integers wrap to 32 bits like they would on the target.
func (l *Library) Call(ctx context.Context, symbol string, args ...int32) (int32, error) {
	values := make([]Value, len(args))
	for i, arg := range args {
		values[i] = Int(int64(arg))
	}

	v, err := l.in.Call(ctx, symbol, values...)
	if err != nil {
		return 0, errors.Wrapf(err, "call %s", symbol)
	}

	n, ok := v.(Number)
	if !ok {
		return 0, errors.Errorf("call %s: result %s is not a number", symbol, v)
	}
	if n.IsFloat() && (math.IsNaN(n.Float64()) || math.IsInf(n.Float64(), 0)) {
		return 0, errors.Errorf("call %s: result %s does not fit an int32", symbol, v)
	}
	return int32(n.Int64()), nil
}
