// Package testutil holds helpers shared by the compiler and interpreter tests.
package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"omibyte.io/aap/compiler/ast"
	"omibyte.io/aap/compiler/parser"
)

// Parse parses src as the contents of test.aap and fails the test on error.
func Parse(t testing.TB, src string) *ast.File {
	t.Helper()
	file, err := parser.ParseFile("test.aap", []byte(src))
	require.NoError(t, err)
	return file
}

// ExampleFile returns the path of a file below the repository's examples directory.
func ExampleFile(elem ...string) string {
	_, here, _, _ := runtime.Caller(0)
	root := filepath.Join(filepath.Dir(here), "..", "..", "examples")
	return filepath.Join(append([]string{root}, elem...)...)
}

// ParseExample parses a file below the examples directory.
func ParseExample(t testing.TB, elem ...string) *ast.File {
	t.Helper()
	path := ExampleFile(elem...)
	src, err := os.ReadFile(path)
	require.NoError(t, err)

	file, err := parser.ParseFile(filepath.Base(path), src)
	require.NoError(t, err)
	return file
}
