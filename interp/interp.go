// Package interp evaluates AAP programs by walking their syntax tree.
package interp

import (
	"context"
	"strconv"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"omibyte.io/aap/compiler/ast"
	"omibyte.io/aap/compiler/token"
)

const DefaultMaxDepth = 1000

type Options struct {
	// MaxDepth limits nested function calls. Zero selects DefaultMaxDepth.
	MaxDepth int
	Logger   *zap.Logger
}

type Interpreter struct {
	options Options
	globals *Scope
	logger  *zap.Logger
	depth   int
}

// thrown carries the value of a Throw up to the enclosing call.
type thrown struct {
	pos   token.Position
	value Value
}

func (t *thrown) Error() string {
	return token.FormatPos(t.pos) + ": Throw outside of a function call"
}

func New(options Options) *Interpreter {
	if options.MaxDepth <= 0 {
		options.MaxDepth = DefaultMaxDepth
	}

	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Interpreter{
		options: options,
		globals: NewScope(nil),
		logger:  logger,
	}
}

func (in *Interpreter) Globals() *Scope {
	return in.globals
}

// Run evaluates the top-level statements of file in the global scope and
// returns their values. A top-level Throw ends the program; its value is the
// last one returned.
func (in *Interpreter) Run(ctx context.Context, file *ast.File) ([]Value, error) {
	var values []Value
	for _, stmt := range file.Body.Stmts {
		v, err := in.eval(ctx, in.globals, stmt)
		if err != nil {
			var t *thrown
			if errors.As(err, &t) {
				in.logger.Debug("program returned", zap.Stringer("value", t.value))
				return append(values, t.value), nil
			}
			return values, err
		}
		values = append(values, v)
	}
	return values, nil
}

// Call invokes the global function name with args.
func (in *Interpreter) Call(ctx context.Context, name string, args ...Value) (Value, error) {
	v, ok := in.globals.Lookup(name)
	if !ok {
		return nil, errors.Wrap(ErrUndefined, name)
	}

	fn, ok := v.(*Function)
	if !ok {
		return nil, errors.Wrap(ErrNotFunction, name)
	}
	return in.call(ctx, token.Position{}, fn, args)
}

func (in *Interpreter) call(ctx context.Context, pos token.Position, fn *Function, args []Value) (Value, error) {
	if len(args) > len(fn.Params) {
		return nil, token.ErrorAt(pos, ErrArity, "too many arguments in call to %s: have %d, want %d",
			fn.describe(), len(args), len(fn.Params))
	}
	if len(args) < len(fn.Params) {
		return nil, token.ErrorAt(pos, ErrArity, "too few arguments in call to %s: have %d, want %d",
			fn.describe(), len(args), len(fn.Params))
	}

	if in.depth >= in.options.MaxDepth {
		return nil, token.ErrorAt(pos, ErrStackOverflow, "%v calling %s", ErrStackOverflow, fn.describe())
	}
	in.depth++
	defer func() { in.depth-- }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	scope := NewScope(fn.scope)
	for i, param := range fn.Params {
		scope.Set(param, args[i])
	}

	v, err := in.evalBlock(ctx, scope, fn.Body)
	if err != nil {
		var t *thrown
		if errors.As(err, &t) {
			return t.value, nil
		}
		return nil, err
	}
	return v, nil
}

func (in *Interpreter) evalBlock(ctx context.Context, scope *Scope, block *ast.Block) (Value, error) {
	var result Value = Int(0)
	for _, stmt := range block.Stmts {
		v, err := in.eval(ctx, scope, stmt)
		if err != nil {
			return nil, err
		}
		result = v
	}
	return result, nil
}

func (in *Interpreter) evalNumber(ctx context.Context, scope *Scope, node ast.Node) (Number, error) {
	v, err := in.eval(ctx, scope, node)
	if err != nil {
		return Number{}, err
	}

	n, ok := v.(Number)
	if !ok {
		return Number{}, token.Errorf(node.Pos(), "expected a number, found %s", v)
	}
	return n, nil
}

func (in *Interpreter) eval(ctx context.Context, scope *Scope, node ast.Node) (Value, error) {
	switch n := node.(type) {
	case *ast.BasicLit:
		if n.Kind == token.FLOAT {
			f, err := strconv.ParseFloat(n.Value, 64)
			if err != nil {
				return nil, token.Errorf(n.Pos(), "invalid float literal %s", n.Value)
			}
			return Float(f), nil
		}
		i, err := strconv.ParseInt(n.Value, 10, 64)
		if err != nil {
			return nil, token.Errorf(n.Pos(), "integer literal %s out of range", n.Value)
		}
		return Int(i), nil
	case *ast.Ident:
		v, ok := scope.Lookup(n.Name)
		if !ok {
			return nil, token.ErrorAt(n.Pos(), ErrUndefined, "no value found for %s", n.Name)
		}
		return v, nil
	case *ast.AssignExpr:
		v, err := in.eval(ctx, scope, n.Value)
		if err != nil {
			return nil, err
		}
		scope.Set(n.Name.Name, v)
		return v, nil
	case *ast.BinaryExpr:
		x, err := in.evalNumber(ctx, scope, n.X)
		if err != nil {
			return nil, err
		}
		y, err := in.evalNumber(ctx, scope, n.Y)
		if err != nil {
			return nil, err
		}
		return arithmetic(n.OpPos, n.Op, x, y)
	case *ast.IfExpr:
		cond, err := in.evalNumber(ctx, scope, n.Cond)
		if err != nil {
			return nil, err
		}
		if cond.IsTrue() {
			return in.evalBlock(ctx, scope, n.Then)
		}
		if n.Else != nil {
			return in.evalBlock(ctx, scope, n.Else)
		}
		return Int(0), nil
	case *ast.WhileExpr:
		for {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			cond, err := in.evalNumber(ctx, scope, n.Cond)
			if err != nil {
				return nil, err
			}
			if !cond.IsTrue() {
				return Int(0), nil
			}
			if _, err := in.evalBlock(ctx, scope, n.Body); err != nil {
				return nil, err
			}
		}
	case *ast.FuncLit:
		fn := &Function{Body: n.Body, scope: scope}
		for _, p := range n.Params {
			fn.Params = append(fn.Params, p.Name)
		}
		if n.Name != nil {
			fn.Name = n.Name.Name
			scope.Set(fn.Name, fn)
		}
		return fn, nil
	case *ast.CallExpr:
		callee, err := in.eval(ctx, scope, n.Fun)
		if err != nil {
			return nil, err
		}
		fn, ok := callee.(*Function)
		if !ok {
			return nil, token.ErrorAt(n.Fun.Pos(), ErrNotFunction, "cannot call %s", callee)
		}

		args := make([]Value, len(n.Args))
		for i, arg := range n.Args {
			if args[i], err = in.eval(ctx, scope, arg); err != nil {
				return nil, err
			}
		}
		return in.call(ctx, n.Pos(), fn, args)
	case *ast.ReturnStmt:
		var result Value = Int(0)
		if n.Result != nil {
			v, err := in.eval(ctx, scope, n.Result)
			if err != nil {
				return nil, err
			}
			result = v
		}
		return nil, &thrown{pos: n.Pos(), value: result}
	case *ast.Block:
		return in.evalBlock(ctx, scope, n)
	}
	return nil, token.Errorf(node.Pos(), "unexpected %T", node)
}
