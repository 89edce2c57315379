// Package ast declares the types used to represent syntax trees for AAP programs.
package ast

import "omibyte.io/aap/compiler/token"

// Node is implemented by every syntax tree node.
type Node interface {
	Pos() token.Position
}

type (
	// BasicLit is an INT or FLOAT literal.
	BasicLit struct {
		ValuePos token.Position
		Kind     token.Kind
		Value    string
	}

	Ident struct {
		NamePos token.Position
		Name    string
	}

	BinaryExpr struct {
		X     Node
		OpPos token.Position
		Op    token.Kind
		Y     Node
	}

	// AssignExpr is "Ape Name Is Value". It evaluates to Value.
	AssignExpr struct {
		Ape   token.Position
		Name  *Ident
		Value Node
	}

	// IfExpr evaluates to the value of the taken branch. Else may be nil.
	IfExpr struct {
		If   token.Position
		Cond Node
		Then *Block
		Else *Block
	}

	WhileExpr struct {
		While token.Position
		Cond  Node
		Body  *Block
	}

	// FuncLit is a "Wife" definition. Name is nil for anonymous functions.
	FuncLit struct {
		Wife   token.Position
		Name   *Ident
		Params []*Ident
		Body   *Block
	}

	CallExpr struct {
		Run    token.Position
		Fun    Node
		Args   []Node
		Rparen token.Position
	}

	// ReturnStmt is "Throw [Result]". Result may be nil.
	ReturnStmt struct {
		Throw  token.Position
		Result Node
	}

	Block struct {
		Start token.Position
		Stmts []Node
	}

	File struct {
		Name string
		Body *Block
	}
)

func (x *BasicLit) Pos() token.Position   { return x.ValuePos }
func (x *Ident) Pos() token.Position      { return x.NamePos }
func (x *BinaryExpr) Pos() token.Position { return x.X.Pos() }
func (x *AssignExpr) Pos() token.Position { return x.Ape }
func (x *IfExpr) Pos() token.Position     { return x.If }
func (x *WhileExpr) Pos() token.Position  { return x.While }
func (x *FuncLit) Pos() token.Position    { return x.Wife }
func (x *CallExpr) Pos() token.Position   { return x.Run }
func (x *ReturnStmt) Pos() token.Position { return x.Throw }
func (x *Block) Pos() token.Position      { return x.Start }
func (x *File) Pos() token.Position       { return x.Body.Start }

// Funcs returns the named function definitions at the top level of the file.
func (f *File) Funcs() []*FuncLit {
	var result []*FuncLit
	for _, stmt := range f.Body.Stmts {
		if fn, ok := stmt.(*FuncLit); ok && fn.Name != nil {
			result = append(result, fn)
		}
	}
	return result
}
