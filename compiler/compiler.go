// Package compiler translates AAP programs to Thumb assembly for Cortex-M
// cores. Every named function at the top level of a file becomes one AAPCS
// function taking up to four int32 arguments and returning an int32 in r0.
package compiler

import (
	"bytes"
	"context"
	"io"
	"path/filepath"

	"go.uber.org/zap"

	"omibyte.io/aap/compiler/ast"
	"omibyte.io/aap/compiler/token"
)

const maxRegisterArgs = 4

type Compiler struct {
	options Options
	logger  *zap.Logger
}

func NewCompiler(options Options) *Compiler {
	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Compiler{
		options: options,
		logger:  logger,
	}
}

// Module is the assembly generated for one source file.
type Module struct {
	File      string
	Cpu       string
	Functions []*Function
}

// Symbols returns the names of the functions emitted with .global.
func (m *Module) Symbols() []string {
	var result []string
	for _, fn := range m.Functions {
		if fn.exported {
			result = append(result, fn.name)
		}
	}
	return result
}

func (m *Module) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	buf.WriteString("@ Code generated by aapc from " + filepath.Base(m.File) + ". DO NOT EDIT.\n")
	buf.WriteString("\t.syntax\tunified\n")
	buf.WriteString("\t.cpu\t" + m.Cpu + "\n")
	buf.WriteString("\t.thumb\n")
	buf.WriteString("\t.text\n")
	for _, fn := range m.Functions {
		buf.WriteString("\n")
		buf.WriteString(fn.text.String())
	}
	return buf.WriteTo(w)
}

func (m *Module) Bytes() []byte {
	var buf bytes.Buffer
	_, _ = m.WriteTo(&buf)
	return buf.Bytes()
}

func (c *Compiler) exported(name string) bool {
	if c.options.Exported == nil {
		return true
	}
	return c.options.Exported(name)
}

// CompileFile generates the assembly module for file.
func (c *Compiler) CompileFile(ctx context.Context, file *ast.File) (*Module, error) {
	var functions []*Function
	declared := map[string]*Function{}

	for _, stmt := range file.Body.Stmts {
		def, ok := stmt.(*ast.FuncLit)
		if !ok || def.Name == nil {
			c.logger.Warn("skipping top-level statement",
				zap.String("pos", token.FormatPos(stmt.Pos())),
				zap.String("reason", "only named function definitions are compiled"))
			continue
		}

		if prev, ok := declared[def.Name.Name]; ok {
			return nil, token.ErrorAt(def.Name.Pos(), ErrDuplicateFunction, "%s redeclared, previous declaration at %s",
				def.Name.Name, token.FormatPos(prev.def.Pos()))
		}

		fn, err := newFunction(def, c.exported(def.Name.Name))
		if err != nil {
			return nil, err
		}
		declared[fn.name] = fn
		functions = append(functions, fn)
	}

	live := reachable(functions)

	module := &Module{File: file.Name, Cpu: c.options.Target.Cpu()}
	for _, fn := range functions {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if !live[fn.name] {
			c.logger.Debug("dropping unreachable function", zap.String("function", fn.name))
			continue
		}

		if err := fn.compile(declared, c.options.Comments); err != nil {
			return nil, err
		}
		c.logger.Debug("compiled function",
			zap.String("function", fn.name),
			zap.Bool("exported", fn.exported),
			zap.Int("frame", fn.frame))
		module.Functions = append(module.Functions, fn)
	}
	return module, nil
}
