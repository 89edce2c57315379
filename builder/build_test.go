package builder

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"omibyte.io/aap/targets"
)

const parity = `Wife odd OpenBanane n CloseBanane
    If n == 0 Then Throw 0
    Throw Run even OpenBanane n - 1 CloseBanane
StopWife

Wife even OpenBanane n CloseBanane
    If n == 0 Then Throw 1
    Throw Run odd OpenBanane n - 1 CloseBanane
StopWife

Wife unused OpenBanane CloseBanane
    Throw 0
StopWife
`

func writeSource(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func testOptions(t *testing.T, sources ...string) Options {
	return Options{
		Sources:     sources,
		Environment: Env{"AAPTARGET": DefaultTarget, "AAPCACHE": t.TempDir()},
		Logger:      zaptest.NewLogger(t),
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestBuild(t *testing.T) {
	dir := t.TempDir()
	source := writeSource(t, dir, "parity.aap", parity)

	result, err := Build(context.Background(), testOptions(t, source))
	require.NoError(t, err)
	require.Len(t, result.Outputs, 1)

	out := result.Outputs[0]
	assert.Equal(t, filepath.Join(dir, "parity.s"), out.Assembly)
	assert.Equal(t, DefaultTarget, out.Cpu)
	assert.Equal(t, []string{"odd", "even", "unused"}, out.Symbols)
	assert.True(t, out.Changed)
	assert.Empty(t, out.Object)

	asm := readFile(t, out.Assembly)
	assert.Contains(t, asm, "@ Code generated by aapc from parity.aap. DO NOT EDIT.\n")
	assert.Contains(t, asm, "\t.cpu\tcortex-m0\n")
	assert.Contains(t, asm, "\t.global\todd\n")
	assert.Contains(t, asm, "\tbl\teven\n")

	// A second build leaves the file alone
	result, err = Build(context.Background(), testOptions(t, source))
	require.NoError(t, err)
	assert.False(t, result.Outputs[0].Changed)
}

func TestBuildExports(t *testing.T) {
	dir := t.TempDir()
	source := writeSource(t, dir, "parity.aap", parity)

	opts := testOptions(t, source)
	opts.Exports = []string{"odd"}
	opts.Output = filepath.Join(dir, "out", "parity.s")

	result, err := Build(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"odd"}, result.Outputs[0].Symbols)

	asm := readFile(t, opts.Output)
	assert.Contains(t, asm, "\t.global\todd\n")
	assert.NotContains(t, asm, ".global\teven")
	// even is still called by odd, unused is dropped
	assert.Contains(t, asm, "\neven:\n")
	assert.NotContains(t, asm, "unused")
}

func TestBuildTargetSelection(t *testing.T) {
	dir := t.TempDir()
	directive := writeSource(t, dir, "m3.aap", "#aap:target cortex-m3\n"+parity)
	plain := writeSource(t, dir, "plain.aap", parity)

	tests := []struct {
		name   string
		source string
		target string
		env    string
		cpu    string
	}{
		{"default", plain, "", "", "cortex-m0"},
		{"environment", plain, "", "cortex-m0plus", "cortex-m0plus"},
		{"directive", directive, "", "cortex-m0plus", "cortex-m3"},
		{"option", directive, "cortex-m4", "cortex-m0plus", "cortex-m4"},
		{"chip", plain, "rp2040", "", "cortex-m0plus"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions(t, tt.source)
			opts.Target = tt.target
			opts.Environment["AAPTARGET"] = tt.env
			opts.Output = t.TempDir()

			result, err := Build(context.Background(), opts)
			require.NoError(t, err)
			assert.Equal(t, tt.cpu, result.Outputs[0].Cpu)
			assert.Contains(t, readFile(t, result.Outputs[0].Assembly), "\t.cpu\t"+tt.cpu+"\n")
		})
	}
}

func TestBuildMultipleSources(t *testing.T) {
	dir := t.TempDir()
	a := writeSource(t, dir, "a.aap", "Wife a OpenBanane CloseBanane\n    Throw 1\nStopWife\n")
	b := writeSource(t, dir, "b.aap", "Wife b OpenBanane CloseBanane\n    Throw 2\nStopWife\n")
	out := filepath.Join(dir, "build")

	opts := testOptions(t, a, b)
	opts.Output = out
	result, err := Build(context.Background(), opts)
	require.NoError(t, err)
	require.Len(t, result.Outputs, 2)
	assert.Equal(t, filepath.Join(out, "a.s"), result.Outputs[0].Assembly)
	assert.Equal(t, filepath.Join(out, "b.s"), result.Outputs[1].Assembly)
	assert.Equal(t, []string{"b"}, result.Outputs[1].Symbols)
}

func TestBuildErrors(t *testing.T) {
	dir := t.TempDir()
	source := writeSource(t, dir, "parity.aap", parity)
	broken := writeSource(t, dir, "broken.aap", "Wife f OpenBanane a CloseBanane\n    Throw a +\nStopWife\n")
	existing := writeSource(t, dir, "existing.s", "")

	_, err := Build(context.Background(), testOptions(t))
	assert.ErrorIs(t, err, ErrNoSources)

	opts := testOptions(t, source, source)
	opts.Output = existing
	_, err = Build(context.Background(), opts)
	assert.ErrorIs(t, err, ErrUnexpectedOutputPath)

	opts = testOptions(t, source)
	opts.Target = "z80"
	_, err = Build(context.Background(), opts)
	assert.ErrorIs(t, err, targets.ErrUnknownTarget)

	_, err = Build(context.Background(), testOptions(t, broken))
	assert.EqualError(t, err, filepath.Join(dir, "broken.aap")+":2:14: expected expression, found newline")
	assert.NoFileExists(t, filepath.Join(dir, "broken.s"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Build(ctx, testOptions(t, source))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuildExample(t *testing.T) {
	p, err := LoadProject(filepath.Join("..", "examples", "checks", ProjectFile))
	require.NoError(t, err)

	opts := p.Options()
	opts.Output = t.TempDir()
	opts.Environment = Env{"AAPCACHE": t.TempDir()}
	opts.Logger = zaptest.NewLogger(t)

	result, err := Build(context.Background(), opts)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		"andTest", "orTest", "equals", "notEquals", "greater", "greaterEquals",
		"less", "lessEquals", "ifTest", "sommig", "odd", "even",
	}, result.Outputs[0].Symbols)
}

func TestBuildAssemble(t *testing.T) {
	if _, err := findExecutable("arm-none-eabi-as"); err != nil {
		t.Skip("arm-none-eabi-as not found")
	}

	dir := t.TempDir()
	source := writeSource(t, dir, "parity.aap", parity)

	opts := testOptions(t, source)
	opts.Assemble = true
	result, err := Build(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "parity.o"), result.Outputs[0].Object)
	assert.FileExists(t, result.Outputs[0].Object)
}

// fakeAssembler writes a shell script that stands in for the assembler. It
// logs its arguments and copies its input to the -o path, or fails with a
// diagnostic on stderr.
func fakeAssembler(t *testing.T, fail bool) (as, log string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("the fake assembler is a shell script")
	}

	dir := t.TempDir()
	log = filepath.Join(dir, "as.log")
	script := "#!/bin/sh\necho \"$@\" >> '" + log + "'\n"
	if fail {
		script += "echo 'Error: bad instruction' >&2\nexit 1\n"
	} else {
		script += `while [ $# -gt 0 ]; do
	case "$1" in
	-o) out="$2"; shift 2 ;;
	*) in="$1"; shift ;;
	esac
done
cp "$in" "$out"
`
	}

	as = filepath.Join(dir, "as")
	require.NoError(t, os.WriteFile(as, []byte(script), 0o755))
	return as, log
}

// invocations returns the argument lists a fake assembler was run with.
func invocations(t *testing.T, log string) []string {
	t.Helper()
	data, err := os.ReadFile(log)
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func assembleOptions(t *testing.T, as, cache, source string) Options {
	opts := testOptions(t, source)
	opts.Assemble = true
	opts.Environment["AS"] = as
	opts.Environment["AAPCACHE"] = cache
	return opts
}

func TestBuildAssembleCache(t *testing.T) {
	as, log := fakeAssembler(t, false)
	cache := t.TempDir()
	dir := t.TempDir()
	source := writeSource(t, dir, "inc.aap", "Wife inc OpenBanane a CloseBanane\n    Throw a + 1\nStopWife\n")

	result, err := Build(context.Background(), assembleOptions(t, as, cache, source))
	require.NoError(t, err)
	out := result.Outputs[0]
	assert.Equal(t, filepath.Join(dir, "inc.o"), out.Object)
	assert.Equal(t, readFile(t, out.Assembly), readFile(t, out.Object))
	assert.Len(t, invocations(t, log), 1)

	// Nothing changed, the cached object is reused
	result, err = Build(context.Background(), assembleOptions(t, as, cache, source))
	require.NoError(t, err)
	assert.False(t, result.Outputs[0].Changed)
	assert.Len(t, invocations(t, log), 1)

	writeSource(t, dir, "inc.aap", "Wife inc OpenBanane a CloseBanane\n    Throw a + 2\nStopWife\n")
	result, err = Build(context.Background(), assembleOptions(t, as, cache, source))
	require.NoError(t, err)
	assert.True(t, result.Outputs[0].Changed)
	assert.Len(t, invocations(t, log), 2)
	assert.Equal(t, readFile(t, out.Assembly), readFile(t, out.Object))
	assert.Contains(t, readFile(t, out.Object), "movs\tr0, #2\n")
}

func TestBuildAssembleFlags(t *testing.T) {
	as, log := fakeAssembler(t, false)
	cache := t.TempDir()
	source := writeSource(t, t.TempDir(), "inc.aap", "Wife inc OpenBanane a CloseBanane\n    Throw a + 1\nStopWife\n")

	opts := assembleOptions(t, as, cache, source)
	opts.Environment["ASFLAGS"] = "-g --defsym DEBUG=1"
	_, err := Build(context.Background(), opts)
	require.NoError(t, err)

	calls := invocations(t, log)
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0], "-mcpu=cortex-m0 -mthumb -g --defsym DEBUG=1 -o ")

	// Different flags need a different object even though the assembly is unchanged
	opts = assembleOptions(t, as, cache, source)
	_, err = Build(context.Background(), opts)
	require.NoError(t, err)
	calls = invocations(t, log)
	require.Len(t, calls, 2)
	assert.NotContains(t, calls[1], "DEBUG")
}

func TestBuildAssembleFailure(t *testing.T) {
	good, _ := fakeAssembler(t, false)
	bad, log := fakeAssembler(t, true)
	cache := t.TempDir()
	dir := t.TempDir()
	source := writeSource(t, dir, "inc.aap", "Wife inc OpenBanane a CloseBanane\n    Throw a + 1\nStopWife\n")
	object := filepath.Join(dir, "inc.o")

	_, err := Build(context.Background(), assembleOptions(t, good, cache, source))
	require.NoError(t, err)
	assert.Contains(t, readFile(t, object), "movs\tr0, #1\n")

	writeSource(t, dir, "inc.aap", "Wife inc OpenBanane a CloseBanane\n    Throw a + 2\nStopWife\n")
	_, err = Build(context.Background(), assembleOptions(t, bad, cache, source))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAssemblerFailed)
	assert.Contains(t, err.Error(), filepath.Join(dir, "inc.s")+": Error: bad instruction")
	assert.Len(t, invocations(t, log), 1)
	assert.NoFileExists(t, object)

	entries, err := os.ReadDir(cache)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "only the first object is cached")

	// The assembly did not change since the failed run, it must still be assembled
	result, err := Build(context.Background(), assembleOptions(t, good, cache, source))
	require.NoError(t, err)
	assert.False(t, result.Outputs[0].Changed)
	assert.Contains(t, readFile(t, object), "movs\tr0, #2\n")
	assert.NotContains(t, readFile(t, object), "movs\tr0, #1\n")
}
