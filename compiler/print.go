package compiler

import (
	"strings"

	"omibyte.io/aap/compiler/ast"
	"omibyte.io/aap/compiler/token"
)

func (f *Function) emit(mnemonic string, operands ...string) {
	f.text.WriteString("\t" + mnemonic)
	if len(operands) > 0 {
		f.text.WriteString("\t" + strings.Join(operands, ", "))
	}
	f.text.WriteString("\n")
}

func (f *Function) directive(name string, args ...string) {
	f.emit(name, args...)
}

func (f *Function) label(name string) {
	f.text.WriteString(name + ":\n")
}

func (f *Function) comment(node ast.Node) {
	if f.comments {
		f.text.WriteString("\t@ " + token.FormatPos(node.Pos()) + "\n")
	}
}
