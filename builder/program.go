package builder

import (
	"os"

	"github.com/pkg/errors"

	"omibyte.io/aap/compiler/ast"
	"omibyte.io/aap/compiler/parser"
	"omibyte.io/aap/compiler/token"
)

// Program is one parsed source file together with the information gathered
// from its directives.
type Program struct {
	Path string
	File *ast.File

	// Target is the argument of the last #aap:target directive, if any.
	Target string
}

func LoadProgram(path string) (*Program, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "could not read source")
	}
	return ParseProgram(path, src)
}

func ParseProgram(path string, src []byte) (*Program, error) {
	tokens, err := token.Scan(path, src)
	if err != nil {
		return nil, err
	}

	prog := &Program{Path: path}
	for _, directive := range token.Directives(tokens) {
		// Process the directive based off its name
		switch directive.Name {
		case "target":
			// value must follow
			if len(directive.Args) != 1 {
				return nil, token.ErrorAt(directive.Pos, ErrTargetDirective,
					"#aap:target takes one cpu or chip name, found %d", len(directive.Args))
			}
			prog.Target = directive.Args[0]
		}
	}

	if prog.File, err = parser.ParseFile(path, src); err != nil {
		return nil, err
	}
	return prog, nil
}
