package token

import (
	"fmt"

	"github.com/alecthomas/participle/v2/lexer"
)

// Kind is the set of lexical tokens of the AAP language.
type Kind int

const (
	ILLEGAL Kind = iota
	EOF
	COMMENT
	NEWLINE

	literalBeg
	IDENT
	INT
	FLOAT
	literalEnd

	operatorBeg
	ADD   // +
	SUB   // -
	MUL   // *
	QUO   // /
	EQL   // ==
	NEQ   // !=
	GTR   // >
	GEQ   // >=
	LSS   // <
	LEQ   // <=
	COMMA // ,
	operatorEnd

	keywordBeg
	VAR      // Ape
	ASSIGN   // Is
	FUNC     // Wife
	ENDFUNC  // StopWife
	LPAREN   // OpenBanane
	RPAREN   // CloseBanane
	IF       // If
	THEN     // Then
	ELSE     // Else
	ENDIF    // StopIf
	WHILE    // SpinWhile
	ENDWHILE // StopSpinning
	RUN      // Run
	RETURN   // Throw
	AND      // And
	OR       // Or
	keywordEnd
)

var kinds = [...]string{
	ILLEGAL: "ILLEGAL",
	EOF:     "EOF",
	COMMENT: "COMMENT",
	NEWLINE: "newline",

	IDENT: "IDENT",
	INT:   "INT",
	FLOAT: "FLOAT",

	ADD:   "+",
	SUB:   "-",
	MUL:   "*",
	QUO:   "/",
	EQL:   "==",
	NEQ:   "!=",
	GTR:   ">",
	GEQ:   ">=",
	LSS:   "<",
	LEQ:   "<=",
	COMMA: ",",

	VAR:      "Ape",
	ASSIGN:   "Is",
	FUNC:     "Wife",
	ENDFUNC:  "StopWife",
	LPAREN:   "OpenBanane",
	RPAREN:   "CloseBanane",
	IF:       "If",
	THEN:     "Then",
	ELSE:     "Else",
	ENDIF:    "StopIf",
	WHILE:    "SpinWhile",
	ENDWHILE: "StopSpinning",
	RUN:      "Run",
	RETURN:   "Throw",
	AND:      "And",
	OR:       "Or",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kinds) && kinds[k] != "" {
		return kinds[k]
	}
	return fmt.Sprintf("token(%d)", int(k))
}

var keywords map[string]Kind
var operators map[string]Kind

func init() {
	keywords = make(map[string]Kind, keywordEnd-keywordBeg)
	for k := keywordBeg + 1; k < keywordEnd; k++ {
		keywords[kinds[k]] = k
	}

	operators = make(map[string]Kind, operatorEnd-operatorBeg)
	for k := operatorBeg + 1; k < operatorEnd; k++ {
		operators[kinds[k]] = k
	}
}

// Lookup maps an identifier to its keyword kind, or IDENT.
func Lookup(ident string) Kind {
	if k, ok := keywords[ident]; ok {
		return k
	}
	return IDENT
}

// Operator maps an operator or logical keyword to its kind, or ILLEGAL.
func Operator(text string) Kind {
	if k, ok := operators[text]; ok {
		return k
	}
	if k := Lookup(text); k == AND || k == OR {
		return k
	}
	return ILLEGAL
}

func (k Kind) IsLiteral() bool  { return literalBeg < k && k < literalEnd }
func (k Kind) IsOperator() bool { return operatorBeg < k && k < operatorEnd }
func (k Kind) IsKeyword() bool  { return keywordBeg < k && k < keywordEnd }

// Binary operator precedences. And/Or bind loosest, then comparisons, then
// additive and multiplicative operators.
const (
	LowestPrec  = 0
	HighestPrec = 4
)

func (k Kind) Precedence() int {
	switch k {
	case AND, OR:
		return 1
	case EQL, NEQ, GTR, GEQ, LSS, LEQ:
		return 2
	case ADD, SUB:
		return 3
	case MUL, QUO:
		return 4
	}
	return LowestPrec
}

// Position is a location in a source file.
type Position = lexer.Position

type Token struct {
	Kind Kind
	Text string
	Pos  Position
}

func (t Token) String() string {
	switch t.Kind {
	case IDENT, INT, FLOAT:
		return fmt.Sprintf("%s %q", t.Kind, t.Text)
	}
	return t.Kind.String()
}

// FormatPos renders pos as file:line:col, omitting the file when unknown.
func FormatPos(pos Position) string {
	if pos.Filename == "" {
		return fmt.Sprintf("%d:%d", pos.Line, pos.Column)
	}
	return fmt.Sprintf("%s:%d:%d", pos.Filename, pos.Line, pos.Column)
}

// Error is a diagnostic attached to a source position. Err, when set, is the
// sentinel the diagnostic is an instance of.
type Error struct {
	Pos Position
	Msg string
	Err error
}

func (e *Error) Error() string {
	return FormatPos(e.Pos) + ": " + e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Errorf(pos Position, format string, args ...any) *Error {
	return &Error{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// ErrorAt reports err at pos. The message defaults to err's text.
func ErrorAt(pos Position, err error, format string, args ...any) *Error {
	msg := err.Error()
	if format != "" {
		msg = fmt.Sprintf(format, args...)
	}
	return &Error{Pos: pos, Msg: msg, Err: err}
}
