package ast

import "fmt"

// Inspect traverses the tree rooted at node in depth-first order. It calls
// fn(node) first and descends into the children only if fn returns true.
func Inspect(node Node, fn func(Node) bool) {
	if node == nil || !fn(node) {
		return
	}

	switch n := node.(type) {
	case *BasicLit, *Ident:
	case *BinaryExpr:
		Inspect(n.X, fn)
		Inspect(n.Y, fn)
	case *AssignExpr:
		Inspect(n.Name, fn)
		Inspect(n.Value, fn)
	case *IfExpr:
		Inspect(n.Cond, fn)
		Inspect(n.Then, fn)
		if n.Else != nil {
			Inspect(n.Else, fn)
		}
	case *WhileExpr:
		Inspect(n.Cond, fn)
		Inspect(n.Body, fn)
	case *FuncLit:
		if n.Name != nil {
			Inspect(n.Name, fn)
		}
		for _, p := range n.Params {
			Inspect(p, fn)
		}
		Inspect(n.Body, fn)
	case *CallExpr:
		Inspect(n.Fun, fn)
		for _, arg := range n.Args {
			Inspect(arg, fn)
		}
	case *ReturnStmt:
		if n.Result != nil {
			Inspect(n.Result, fn)
		}
	case *Block:
		for _, stmt := range n.Stmts {
			Inspect(stmt, fn)
		}
	case *File:
		Inspect(n.Body, fn)
	default:
		panic(fmt.Sprintf("ast.Inspect: unexpected node type %T", n))
	}
}
