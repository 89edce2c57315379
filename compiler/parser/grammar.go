package parser

import "github.com/alecthomas/participle/v2/lexer"

// The grammar structs mirror the surface syntax. Statements are separated by
// one or more newlines; block bodies close with their own keyword.

type file struct {
	Stmts  []*statement `parser:"Newline* ( @@ ( Newline+ @@ )* )? Newline*"`
	EndPos lexer.Position
}

type block struct {
	Stmts []*statement `parser:"@@ ( Newline+ @@ )* Newline*"`
}

type statement struct {
	Return *returnStmt `parser:"  @@"`
	Expr   *expression `parser:"| @@"`
}

type returnStmt struct {
	Pos    lexer.Position
	Result *expression `parser:"'Throw' @@?"`
}

type expression struct {
	Assign *assignment `parser:"  @@"`
	Logic  *logical    `parser:"| @@"`
}

type assignment struct {
	Pos   lexer.Position
	Name  *identifier `parser:"'Ape' @@"`
	Value *expression `parser:"'Is' @@"`
}

type identifier struct {
	Pos  lexer.Position
	Name string `parser:"@Ident"`
}

type logical struct {
	X    *comparison  `parser:"@@"`
	Rest []*logicalOp `parser:"@@*"`
}

type logicalOp struct {
	Pos lexer.Position
	Op  string      `parser:"@( 'And' | 'Or' )"`
	Y   *comparison `parser:"@@"`
}

type comparison struct {
	X    *sum         `parser:"@@"`
	Rest []*compareOp `parser:"@@*"`
}

type compareOp struct {
	Pos lexer.Position
	Op  string `parser:"@( '==' | '!=' | '>=' | '<=' | '>' | '<' )"`
	Y   *sum   `parser:"@@"`
}

type sum struct {
	X    *product `parser:"@@"`
	Rest []*sumOp `parser:"@@*"`
}

type sumOp struct {
	Pos lexer.Position
	Op  string   `parser:"@( '+' | '-' )"`
	Y   *product `parser:"@@"`
}

type product struct {
	X    *factor      `parser:"@@"`
	Rest []*productOp `parser:"@@*"`
}

type productOp struct {
	Pos lexer.Position
	Op  string  `parser:"@( '*' | '/' )"`
	Y   *factor `parser:"@@"`
}

type factor struct {
	Pos   lexer.Position
	Float *string     `parser:"  @Float"`
	Int   *string     `parser:"| @Int"`
	Ident *string     `parser:"| @Ident"`
	Paren *expression `parser:"| 'OpenBanane' @@ 'CloseBanane'"`
	If    *ifExpr     `parser:"| @@"`
	While *whileExpr  `parser:"| @@"`
	Func  *funcLit    `parser:"| @@"`
	Call  *callExpr   `parser:"| @@"`
}

type ifExpr struct {
	Pos    lexer.Position
	Cond   *expression `parser:"'If' @@ 'Then'"`
	Inline *ifInline   `parser:"( @@"`
	Block  *ifBlock    `parser:"| @@ )"`
}

// ifInline is "If c Then s" with an optional else that may open a block.
type ifInline struct {
	Then      *statement `parser:"@@"`
	Else      *statement `parser:"( 'Else' ( @@"`
	ElseBlock *block     `parser:"| Newline+ @@ 'StopIf' ) )?"`
}

// ifBlock is the multi-line form, always closed by StopIf.
type ifBlock struct {
	Then      *block     `parser:"Newline+ @@"`
	Else      *statement `parser:"( 'Else' ( @@ Newline*"`
	ElseBlock *block     `parser:"| Newline+ @@ ) )? 'StopIf'"`
}

type whileExpr struct {
	Pos    lexer.Position
	Cond   *expression `parser:"'SpinWhile' @@ 'Then'"`
	Inline *statement  `parser:"( @@"`
	Body   *block      `parser:"| Newline+ @@ 'StopSpinning' )"`
}

type funcLit struct {
	Pos    lexer.Position
	Name   *identifier   `parser:"'Wife' @@?"`
	Params []*identifier `parser:"'OpenBanane' ( @@ ( ',' @@ )* )? 'CloseBanane'"`
	Body   *block        `parser:"Newline+ @@ 'StopWife'"`
}

type callExpr struct {
	Pos    lexer.Position
	Fun    *factor       `parser:"'Run' @@"`
	Args   []*expression `parser:"'OpenBanane' ( @@ ( ',' @@ )* )? 'CloseBanane'"`
	Tokens []lexer.Token
}
