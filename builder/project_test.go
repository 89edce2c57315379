package builder

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProject(t *testing.T) {
	p, err := ParseProject([]byte(`
sources = ["a.aap", "b.aap"]
output = "build"
target = "rp2040"
exports = ["*", "!helper"]

[check]
variant = 1
delay = "500ms"
library = "native"
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"a.aap", "b.aap"}, p.Sources)
	assert.Equal(t, "build", p.Output)
	assert.Equal(t, "rp2040", p.Target)
	assert.Equal(t, []string{"*", "!helper"}, p.Exports)
	assert.Equal(t, CheckConfig{Variant: 1, Delay: "500ms", Library: "native"}, p.Check)

	d, err := p.Check.ParseDelay(time.Second)
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, d)
}

func TestParseProjectInvalid(t *testing.T) {
	_, err := ParseProject([]byte(`sources = "a.aap"`))
	assert.Error(t, err)

	_, err = CheckConfig{Delay: "soon"}.ParseDelay(time.Second)
	assert.ErrorContains(t, err, "invalid check delay")
}

func TestLoadProjectMissing(t *testing.T) {
	dir := t.TempDir()
	p, err := LoadProject(filepath.Join(dir, ProjectFile))
	require.NoError(t, err)
	assert.Empty(t, p.Sources)
	assert.Equal(t, filepath.Join(dir, "x.aap"), p.Resolve("x.aap"))

	d, err := p.Check.ParseDelay(2 * time.Second)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, d)
}

func TestLoadProjectResolvesPaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ProjectFile)
	require.NoError(t, os.WriteFile(path, []byte("sources = [\"src/a.aap\", \"/abs/b.aap\"]\noutput = \"out\"\n"), 0o644))

	p, err := LoadProject(path)
	require.NoError(t, err)

	opts := p.Options()
	assert.Equal(t, []string{filepath.Join(dir, "src", "a.aap"), "/abs/b.aap"}, opts.Sources)
	assert.Equal(t, filepath.Join(dir, "out"), opts.Output)
	assert.Empty(t, p.Resolve(""))
}

func TestLoadProjectExample(t *testing.T) {
	p, err := LoadProject(filepath.Join("..", "examples", "checks", ProjectFile))
	require.NoError(t, err)
	assert.Equal(t, []string{"checks.aap"}, p.Sources)
	assert.Equal(t, 2, p.Check.Variant)
	assert.Equal(t, filepath.Join("..", "examples", "checks", "checks.aap"), p.Resolve(p.Check.Library))
}
