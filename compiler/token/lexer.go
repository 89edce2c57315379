package token

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/pkg/errors"
)

// Definition is the participle lexer for AAP source. Keywords get their own
// token type so that grammar references to Ident never match them.
var Definition = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "Newline", Pattern: `[\n:]`},
	{Name: "Whitespace", Pattern: `[ \t\r]+`},
	{Name: "Float", Pattern: `\d+\.\d+`},
	{Name: "Int", Pattern: `\d+`},
	{Name: "Keyword", Pattern: `(?:Ape|Is|Wife|StopWife|OpenBanane|CloseBanane|If|Then|Else|StopIf|SpinWhile|StopSpinning|Run|Throw|And|Or)\b`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Operator", Pattern: `==|!=|>=|<=|[-+*/<>,]`},
})

var (
	symComment    = Definition.Symbols()["Comment"]
	symNewline    = Definition.Symbols()["Newline"]
	symWhitespace = Definition.Symbols()["Whitespace"]
	symFloat      = Definition.Symbols()["Float"]
	symInt        = Definition.Symbols()["Int"]
	symKeyword    = Definition.Symbols()["Keyword"]
	symIdent      = Definition.Symbols()["Ident"]
	symOperator   = Definition.Symbols()["Operator"]
)

// FromLexer converts a token produced by Definition.
func FromLexer(tok lexer.Token) Token {
	var kind Kind
	switch tok.Type {
	case lexer.EOF:
		kind = EOF
	case symComment:
		kind = COMMENT
	case symNewline:
		kind = NEWLINE
	case symFloat:
		kind = FLOAT
	case symInt:
		kind = INT
	case symKeyword, symIdent:
		kind = Lookup(tok.Value)
	case symOperator:
		kind = operators[tok.Value]
	}
	return Token{Kind: kind, Text: tok.Value, Pos: tok.Pos}
}

// LexerError converts the errors returned by a Definition lexer into an *Error.
func LexerError(err error) error {
	var lerr *lexer.Error
	if errors.As(err, &lerr) {
		return &Error{Pos: lerr.Pos, Msg: lerr.Msg}
	}
	return err
}

// Scan splits src into tokens, comments included. The last token is always EOF.
func Scan(filename string, src []byte) ([]Token, error) {
	lex, err := Definition.LexString(filename, string(src))
	if err != nil {
		return nil, LexerError(err)
	}

	var tokens []Token
	for {
		tok, err := lex.Next()
		if err != nil {
			return nil, LexerError(err)
		}

		switch tok.Type {
		case lexer.EOF:
			return append(tokens, Token{Kind: EOF, Pos: tok.Pos}), nil
		case symWhitespace:
			continue
		}
		tokens = append(tokens, FromLexer(tok))
	}
}

// Lex is Scan without comments.
func Lex(filename string, src []byte) ([]Token, error) {
	all, err := Scan(filename, src)
	if err != nil {
		return nil, err
	}

	tokens := all[:0]
	for _, tok := range all {
		if tok.Kind != COMMENT {
			tokens = append(tokens, tok)
		}
	}
	return tokens, nil
}

// Directive is a "#aap:<name> <args>" comment.
type Directive struct {
	Name string
	Args []string
	Pos  Position
}

const directivePrefix = "#aap:"

// Directives extracts the compiler directives from a token stream produced by Scan.
func Directives(tokens []Token) []Directive {
	var result []Directive
	for _, tok := range tokens {
		if tok.Kind != COMMENT || !strings.HasPrefix(tok.Text, directivePrefix) {
			continue
		}

		fields := strings.Fields(strings.TrimPrefix(tok.Text, directivePrefix))
		if len(fields) == 0 {
			continue
		}
		result = append(result, Directive{Name: fields[0], Args: fields[1:], Pos: tok.Pos})
	}
	return result
}
