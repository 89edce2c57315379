package compiler

import (
	"fmt"
	"strings"

	"omibyte.io/aap/compiler/ast"
	"omibyte.io/aap/compiler/token"
)

// maxSlots is the number of 4 byte stack slots addressable by a Thumb-1
// "ldr rN, [r7, #imm]".
const maxSlots = 31

type Function struct {
	def      *ast.FuncLit
	name     string
	exported bool

	// slots maps parameters and local variables to their frame slot.
	slots map[string]int
	// scratch slots follow the variables and hold operands that are still
	// pending while another expression is evaluated. depth counts those in use.
	scratch int
	depth   int
	frame   int

	// callees are the names of the functions called directly.
	callees []string

	declared map[string]*Function
	comments bool
	labels   int
	returned bool
	text     strings.Builder
}

func (f *Function) Name() string   { return f.name }
func (f *Function) Exported() bool { return f.exported }

func newFunction(def *ast.FuncLit, exported bool) (*Function, error) {
	fn := &Function{
		def:      def,
		name:     def.Name.Name,
		exported: exported,
		slots:    map[string]int{},
	}

	if len(def.Params) > maxRegisterArgs {
		return nil, token.ErrorAt(def.Params[maxRegisterArgs].Pos(), ErrTooManyParameters,
			"%s has %d parameters, at most %d fit in registers", fn.name, len(def.Params), maxRegisterArgs)
	}
	for _, param := range def.Params {
		fn.slots[param.Name] = len(fn.slots)
	}

	var err error
	called := map[string]bool{}
	ast.Inspect(def.Body, func(node ast.Node) bool {
		if err != nil {
			return false
		}

		switch n := node.(type) {
		case *ast.FuncLit:
			err = token.ErrorAt(n.Pos(), ErrNestedFunction, "")
			return false
		case *ast.AssignExpr:
			if _, ok := fn.slots[n.Name.Name]; !ok {
				fn.slots[n.Name.Name] = len(fn.slots)
			}
		case *ast.CallExpr:
			if ident, ok := n.Fun.(*ast.Ident); ok && !called[ident.Name] {
				called[ident.Name] = true
				fn.callees = append(fn.callees, ident.Name)
			}
		}
		return true
	})
	if err != nil {
		return nil, err
	}

	fn.scratch = scratch(def.Body)
	if n := len(fn.slots) + fn.scratch; n > maxSlots {
		return nil, token.ErrorAt(def.Pos(), ErrTooManyLocals, "%s needs %d stack slots, at most %d are addressable",
			fn.name, n, maxSlots)
	}

	// Nothing is pushed after the prologue, so sp stays 8 byte aligned at
	// every call.
	fn.frame = ((len(fn.slots)+fn.scratch)*4 + 7) &^ 7
	return fn, nil
}

// scratch returns the number of pending operands evaluating node keeps in
// scratch slots at the same time.
func scratch(node ast.Node) int {
	need := 0
	switch n := node.(type) {
	case *ast.BinaryExpr:
		need = max(scratch(n.X), 1+scratch(n.Y))
	case *ast.CallExpr:
		if len(n.Args) == 1 {
			return scratch(n.Args[0])
		}
		for i, arg := range n.Args {
			need = max(need, i+scratch(arg))
		}
		need = max(need, len(n.Args))
	case *ast.AssignExpr:
		need = scratch(n.Value)
	case *ast.IfExpr:
		need = max(scratch(n.Cond), scratch(n.Then))
		if n.Else != nil {
			need = max(need, scratch(n.Else))
		}
	case *ast.WhileExpr:
		need = max(scratch(n.Cond), scratch(n.Body))
	case *ast.ReturnStmt:
		if n.Result != nil {
			need = scratch(n.Result)
		}
	case *ast.Block:
		for _, stmt := range n.Stmts {
			need = max(need, scratch(stmt))
		}
	}
	return need
}

// spill saves r0 in the next free scratch slot.
func (f *Function) spill() {
	f.emit("str", fmt.Sprintf("r0, [r7, #%d]", (len(f.slots)+f.depth)*4))
	f.depth++
}

// reload moves the most recently spilled operand into reg.
func (f *Function) reload(reg string) {
	f.depth--
	f.emit("ldr", fmt.Sprintf("%s, [r7, #%d]", reg, (len(f.slots)+f.depth)*4))
}

func (f *Function) newLabel() string {
	label := fmt.Sprintf(".L%s_%d", f.name, f.labels)
	f.labels++
	return label
}

func (f *Function) returnLabel() string {
	return ".L" + f.name + "_return"
}

func (f *Function) slot(ident *ast.Ident) (string, error) {
	index, ok := f.slots[ident.Name]
	if !ok {
		return "", token.ErrorAt(ident.Pos(), ErrUndefined, "undefined: %s", ident.Name)
	}
	return fmt.Sprintf("[r7, #%d]", index*4), nil
}

func (f *Function) compile(declared map[string]*Function, comments bool) error {
	f.declared = declared
	f.comments = comments
	f.text.Reset()
	f.labels = 0
	f.depth = 0
	f.returned = false

	f.directive(".align", "2")
	if f.exported {
		f.directive(".global", f.name)
	}
	f.directive(".thumb_func")
	f.directive(".type", f.name+", %function")
	f.label(f.name)

	// Prologue
	f.emit("push", "{r7, lr}")
	if f.frame > 0 {
		f.emit("sub", fmt.Sprintf("sp, sp, #%d", f.frame))
	}
	f.emit("mov", "r7, sp")
	for i, param := range f.def.Params {
		f.emit("str", fmt.Sprintf("r%d, [r7, #%d]", i, f.slots[param.Name]*4))
	}

	stmts := f.def.Body.Stmts
	for i, stmt := range stmts {
		f.comment(stmt)

		// A trailing Throw falls through to the epilogue.
		if ret, ok := stmt.(*ast.ReturnStmt); ok && i == len(stmts)-1 {
			if err := f.result(ret); err != nil {
				return err
			}
			continue
		}

		if err := f.expr(stmt); err != nil {
			return err
		}
	}

	// Epilogue
	if f.returned {
		f.label(f.returnLabel())
	}
	f.emit("mov", "sp, r7")
	if f.frame > 0 {
		f.emit("add", fmt.Sprintf("sp, sp, #%d", f.frame))
	}
	f.emit("pop", "{r7, pc}")
	f.directive(".ltorg")
	f.directive(".size", f.name+", .-"+f.name)
	return nil
}
