// Package parser builds AAP syntax trees with a participle grammar over the
// token package's lexer.
package parser

import (
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/pkg/errors"

	"omibyte.io/aap/compiler/ast"
	"omibyte.io/aap/compiler/token"
)

var grammar = participle.MustBuild[file](
	participle.Lexer(token.Definition),
	participle.Elide("Whitespace", "Comment"),
	participle.UseLookahead(participle.MaxLookahead),
)

// ParseFile lexes and parses a single source file.
func ParseFile(filename string, src []byte) (*ast.File, error) {
	syntax, err := grammar.ParseBytes(filename, src)
	if err != nil {
		return nil, syntaxError(err)
	}
	return &ast.File{Name: filename, Body: syntax.body()}, nil
}

// productions names grammar rules the way diagnostics refer to them.
var productions = map[string]string{
	"Expression": "expression",
	"Logical":    "expression",
	"Comparison": "expression",
	"Sum":        "expression",
	"Product":    "expression",
	"Factor":     "expression",
	"Statement":  "statement",
	"Block":      "statement",
	"Identifier": "IDENT",
	"ident":      "IDENT",
}

// expected renders the grammar node a parse stopped at.
func expected(node string) string {
	if node == "" {
		return "end of file"
	}
	node = strings.TrimPrefix(node, "(")
	if i := strings.IndexByte(node, ' '); i > 0 {
		node = node[:i]
	}
	node = strings.TrimRight(node, "*+?!)")
	if lit, err := strconv.Unquote(node); err == nil {
		return lit
	}
	node = strings.Trim(node, "<>")
	if name, ok := productions[node]; ok {
		return name
	}
	return node
}

func syntaxError(err error) error {
	var unexpected *participle.UnexpectedTokenError
	if errors.As(err, &unexpected) {
		var node string
		if _, rest, ok := strings.Cut(unexpected.Message(), " (expected "); ok {
			node = strings.TrimSuffix(rest, ")")
		}
		found := token.FromLexer(unexpected.Unexpected)
		return token.Errorf(found.Pos, "expected %s, found %s", expected(node), found)
	}

	var perr participle.Error
	if errors.As(err, &perr) {
		return token.Errorf(perr.Position(), "%s", perr.Message())
	}
	return token.LexerError(err)
}

func (f *file) body() *ast.Block {
	body := statements(f.Stmts)
	if body.Start == (token.Position{}) {
		body.Start = f.EndPos
	}
	return body
}

func statements(stmts []*statement) *ast.Block {
	b := &ast.Block{}
	for _, stmt := range stmts {
		b.Stmts = append(b.Stmts, stmt.node())
	}
	if len(b.Stmts) > 0 {
		b.Start = b.Stmts[0].Pos()
	}
	return b
}

func (b *block) node() *ast.Block {
	return statements(b.Stmts)
}

func single(stmt ast.Node) *ast.Block {
	return &ast.Block{Start: stmt.Pos(), Stmts: []ast.Node{stmt}}
}

func (s *statement) node() ast.Node {
	if s.Return != nil {
		ret := &ast.ReturnStmt{Throw: s.Return.Pos}
		if s.Return.Result != nil {
			ret.Result = s.Return.Result.node()
		}
		return ret
	}
	return s.Expr.node()
}

func (e *expression) node() ast.Node {
	if e.Assign != nil {
		return &ast.AssignExpr{
			Ape:   e.Assign.Pos,
			Name:  e.Assign.Name.node(),
			Value: e.Assign.Value.node(),
		}
	}
	return e.Logic.node()
}

func (i *identifier) node() *ast.Ident {
	return &ast.Ident{NamePos: i.Pos, Name: i.Name}
}

func binary(x ast.Node, pos token.Position, op string, y ast.Node) ast.Node {
	return &ast.BinaryExpr{X: x, OpPos: pos, Op: token.Operator(op), Y: y}
}

// Operators of one precedence level fold to the left.

func (l *logical) node() ast.Node {
	x := l.X.node()
	for _, op := range l.Rest {
		x = binary(x, op.Pos, op.Op, op.Y.node())
	}
	return x
}

func (c *comparison) node() ast.Node {
	x := c.X.node()
	for _, op := range c.Rest {
		x = binary(x, op.Pos, op.Op, op.Y.node())
	}
	return x
}

func (s *sum) node() ast.Node {
	x := s.X.node()
	for _, op := range s.Rest {
		x = binary(x, op.Pos, op.Op, op.Y.node())
	}
	return x
}

func (p *product) node() ast.Node {
	x := p.X.node()
	for _, op := range p.Rest {
		x = binary(x, op.Pos, op.Op, op.Y.node())
	}
	return x
}

func (f *factor) node() ast.Node {
	switch {
	case f.Float != nil:
		return &ast.BasicLit{ValuePos: f.Pos, Kind: token.FLOAT, Value: *f.Float}
	case f.Int != nil:
		return &ast.BasicLit{ValuePos: f.Pos, Kind: token.INT, Value: *f.Int}
	case f.Ident != nil:
		return &ast.Ident{NamePos: f.Pos, Name: *f.Ident}
	case f.Paren != nil:
		return f.Paren.node()
	case f.If != nil:
		return f.If.node()
	case f.While != nil:
		return f.While.node()
	case f.Func != nil:
		return f.Func.node()
	}
	return f.Call.node()
}

func (i *ifExpr) node() *ast.IfExpr {
	expr := &ast.IfExpr{If: i.Pos, Cond: i.Cond.node()}
	var (
		elseStmt  *statement
		elseBlock *block
	)
	if i.Block != nil {
		expr.Then = i.Block.Then.node()
		elseStmt, elseBlock = i.Block.Else, i.Block.ElseBlock
	} else {
		expr.Then = single(i.Inline.Then.node())
		elseStmt, elseBlock = i.Inline.Else, i.Inline.ElseBlock
	}

	switch {
	case elseBlock != nil:
		expr.Else = elseBlock.node()
	case elseStmt != nil:
		expr.Else = single(elseStmt.node())
	}
	return expr
}

func (w *whileExpr) node() *ast.WhileExpr {
	expr := &ast.WhileExpr{While: w.Pos, Cond: w.Cond.node()}
	if w.Body != nil {
		expr.Body = w.Body.node()
	} else {
		expr.Body = single(w.Inline.node())
	}
	return expr
}

func (f *funcLit) node() *ast.FuncLit {
	fn := &ast.FuncLit{Wife: f.Pos, Body: f.Body.node()}
	if f.Name != nil {
		fn.Name = f.Name.node()
	}
	for _, param := range f.Params {
		fn.Params = append(fn.Params, param.node())
	}
	return fn
}

func (c *callExpr) node() *ast.CallExpr {
	call := &ast.CallExpr{Run: c.Pos, Fun: c.Fun.node()}
	for _, arg := range c.Args {
		call.Args = append(call.Args, arg.node())
	}
	if n := len(c.Tokens); n > 0 {
		call.Rparen = c.Tokens[n-1].Pos
	}
	return call
}
