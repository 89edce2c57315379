package compiler

import (
	"fmt"
	"strconv"

	"omibyte.io/aap/compiler/ast"
	"omibyte.io/aap/compiler/token"
)

// Signed condition codes taken when the comparison holds.
var conditions = map[token.Kind]string{
	token.EQL: "beq",
	token.NEQ: "bne",
	token.GTR: "bgt",
	token.GEQ: "bge",
	token.LSS: "blt",
	token.LEQ: "ble",
}

// expr evaluates node into r0.
func (f *Function) expr(node ast.Node) error {
	switch n := node.(type) {
	case *ast.BasicLit:
		if n.Kind == token.FLOAT {
			return token.ErrorAt(n.Pos(), ErrFloat, "floating point literal %s is not supported", n.Value)
		}
		v, err := strconv.ParseInt(n.Value, 10, 32)
		if err != nil {
			return token.ErrorAt(n.Pos(), ErrConstantRange, "constant %s overflows int32", n.Value)
		}
		f.loadConst(v)
	case *ast.Ident:
		addr, err := f.slot(n)
		if err != nil {
			return err
		}
		f.emit("ldr", "r0, "+addr)
	case *ast.AssignExpr:
		if err := f.expr(n.Value); err != nil {
			return err
		}
		addr, err := f.slot(n.Name)
		if err != nil {
			return err
		}
		f.emit("str", "r0, "+addr)
	case *ast.BinaryExpr:
		return f.binary(n)
	case *ast.IfExpr:
		return f.ifExpr(n)
	case *ast.WhileExpr:
		return f.whileExpr(n)
	case *ast.CallExpr:
		return f.call(n)
	case *ast.ReturnStmt:
		if err := f.result(n); err != nil {
			return err
		}
		f.emit("b", f.returnLabel())
		f.returned = true
	case *ast.Block:
		return f.block(n)
	case *ast.FuncLit:
		return token.ErrorAt(n.Pos(), ErrNestedFunction, "")
	default:
		return token.Errorf(node.Pos(), "unexpected %T", node)
	}
	return nil
}

// result loads the value of a Throw into r0.
func (f *Function) result(n *ast.ReturnStmt) error {
	if n.Result == nil {
		f.emit("movs", "r0, #0")
		return nil
	}
	return f.expr(n.Result)
}

func (f *Function) block(b *ast.Block) error {
	for _, stmt := range b.Stmts {
		f.comment(stmt)
		if err := f.expr(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (f *Function) loadConst(v int64) {
	if v >= 0 && v <= 255 {
		f.emit("movs", fmt.Sprintf("r0, #%d", v))
		return
	}
	f.emit("ldr", fmt.Sprintf("r0, =%d", v))
}

// materialize sets r0 to 1 when the branch emitted just before it was taken
// and to 0 otherwise. taken is the label the branch jumps to.
func (f *Function) materialize(taken string, whenTaken, otherwise int) {
	end := f.newLabel()
	f.emit("movs", fmt.Sprintf("r0, #%d", otherwise))
	f.emit("b", end)
	f.label(taken)
	f.emit("movs", fmt.Sprintf("r0, #%d", whenTaken))
	f.label(end)
}

func (f *Function) binary(n *ast.BinaryExpr) error {
	// Left operand ends up in r0, right operand in r1.
	if err := f.expr(n.X); err != nil {
		return err
	}
	f.spill()
	if err := f.expr(n.Y); err != nil {
		return err
	}
	f.emit("movs", "r1, r0")
	f.reload("r0")

	switch n.Op {
	case token.ADD:
		f.emit("adds", "r0, r0, r1")
	case token.SUB:
		f.emit("subs", "r0, r0, r1")
	case token.MUL:
		f.emit("muls", "r0, r1, r0")
	case token.QUO:
		f.emit("bl", "__aeabi_idiv")
	case token.EQL, token.NEQ, token.GTR, token.GEQ, token.LSS, token.LEQ:
		taken := f.newLabel()
		f.emit("cmp", "r0, r1")
		f.emit(conditions[n.Op], taken)
		f.materialize(taken, 1, 0)
	case token.AND:
		zero := f.newLabel()
		f.emit("cmp", "r0, #0")
		f.emit("beq", zero)
		f.emit("cmp", "r1, #0")
		f.emit("beq", zero)
		f.materialize(zero, 0, 1)
	case token.OR:
		one := f.newLabel()
		f.emit("cmp", "r0, #0")
		f.emit("bne", one)
		f.emit("cmp", "r1, #0")
		f.emit("bne", one)
		f.materialize(one, 1, 0)
	default:
		return token.Errorf(n.OpPos, "unsupported operator %s", n.Op)
	}
	return nil
}

// Conditional branches only reach 256 bytes, so bodies are entered with a
// short conditional hop over an unconditional branch to the exit.
func (f *Function) ifExpr(n *ast.IfExpr) error {
	if err := f.expr(n.Cond); err != nil {
		return err
	}

	then := f.newLabel()
	var otherwise string
	if n.Else != nil {
		otherwise = f.newLabel()
	}
	end := f.newLabel()
	if otherwise == "" {
		// r0 already holds 0 when the condition fails.
		otherwise = end
	}

	f.emit("cmp", "r0, #0")
	f.emit("bne", then)
	f.emit("b", otherwise)
	f.label(then)
	if err := f.block(n.Then); err != nil {
		return err
	}

	if n.Else != nil {
		f.emit("b", end)
		f.label(otherwise)
		if err := f.block(n.Else); err != nil {
			return err
		}
	}
	f.label(end)
	return nil
}

func (f *Function) whileExpr(n *ast.WhileExpr) error {
	loop := f.newLabel()
	body := f.newLabel()
	end := f.newLabel()

	f.label(loop)
	if err := f.expr(n.Cond); err != nil {
		return err
	}
	f.emit("cmp", "r0, #0")
	f.emit("bne", body)
	f.emit("b", end)
	f.label(body)
	if err := f.block(n.Body); err != nil {
		return err
	}
	f.emit("b", loop)

	// The loop only exits with a zero condition in r0.
	f.label(end)
	return nil
}

func (f *Function) call(n *ast.CallExpr) error {
	ident, ok := n.Fun.(*ast.Ident)
	if !ok {
		return token.ErrorAt(n.Fun.Pos(), ErrIndirectCall, "")
	}
	if _, local := f.slots[ident.Name]; local {
		return token.ErrorAt(n.Fun.Pos(), ErrIndirectCall, "cannot call variable %s", ident.Name)
	}

	if len(n.Args) > maxRegisterArgs {
		return token.ErrorAt(n.Args[maxRegisterArgs].Pos(), ErrTooManyArguments,
			"call to %s passes %d arguments, at most %d fit in registers", ident.Name, len(n.Args), maxRegisterArgs)
	}
	if callee, ok := f.declared[ident.Name]; ok && len(callee.def.Params) != len(n.Args) {
		return token.ErrorAt(n.Pos(), ErrArity, "call to %s passes %d arguments, want %d",
			ident.Name, len(n.Args), len(callee.def.Params))
	}

	switch len(n.Args) {
	case 0:
	case 1:
		if err := f.expr(n.Args[0]); err != nil {
			return err
		}
	default:
		for _, arg := range n.Args {
			if err := f.expr(arg); err != nil {
				return err
			}
			f.spill()
		}
		for i := len(n.Args) - 1; i >= 0; i-- {
			f.reload(fmt.Sprintf("r%d", i))
		}
	}
	f.emit("bl", ident.Name)
	return nil
}
