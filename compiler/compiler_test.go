package compiler

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/exp/slices"
	"golang.org/x/tools/txtar"

	"omibyte.io/aap/compiler/parser"
	"omibyte.io/aap/compiler/testutil"
	"omibyte.io/aap/targets"
)

var update = flag.Bool("update", false, "rewrite the golden output of the testdata archives")

func newTarget(t testing.TB, cpu string) *Target {
	t.Helper()
	info, err := targets.All().FindByCpu(cpu)
	require.NoError(t, err)
	target, err := NewTarget(info, nil)
	require.NoError(t, err)
	return target
}

// archiveOptions reads "key: value" lines from the archive comment.
func archiveOptions(comment []byte) map[string]string {
	result := map[string]string{}
	for _, line := range strings.Split(string(comment), "\n") {
		if key, value, ok := strings.Cut(line, ": "); ok {
			result[key] = value
		}
	}
	return result
}

func TestGolden(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("testdata", "*.txtar"))
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		t.Run(strings.TrimSuffix(filepath.Base(path), ".txtar"), func(t *testing.T) {
			archive, err := txtar.ParseFile(path)
			require.NoError(t, err)

			files := map[string]int{}
			for i, f := range archive.Files {
				files[f.Name] = i
			}
			input, ok := files["input.aap"]
			require.True(t, ok, "archive has no input.aap")

			opts := archiveOptions(archive.Comment)
			cpu := opts["cpu"]
			if cpu == "" {
				cpu = "cortex-m0"
			}

			options := Options{
				Target:   newTarget(t, cpu),
				Comments: opts["comments"] == "true",
				Logger:   zaptest.NewLogger(t),
			}
			if exports, ok := opts["exports"]; ok {
				names := strings.Fields(exports)
				options.Exported = func(name string) bool { return slices.Contains(names, name) }
			}

			file, err := parser.ParseFile("input.aap", archive.Files[input].Data)
			require.NoError(t, err)

			module, err := NewCompiler(options).CompileFile(context.Background(), file)
			require.NoError(t, err)
			got := module.Bytes()

			if *update {
				if i, ok := files["output.s"]; ok {
					archive.Files[i].Data = got
				} else {
					archive.Files = append(archive.Files, txtar.File{Name: "output.s", Data: got})
				}
				require.NoError(t, os.WriteFile(path, txtar.Format(archive), 0o644))
				return
			}

			output, ok := files["output.s"]
			require.True(t, ok, "archive has no output.s, run with -update")
			assert.Equal(t, string(archive.Files[output].Data), string(got))
		})
	}
}

func TestCompileExample(t *testing.T) {
	file := testutil.ParseExample(t, "checks", "checks.aap")

	module, err := NewCompiler(Options{Target: newTarget(t, "cortex-m0")}).CompileFile(context.Background(), file)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"andTest", "orTest", "equals", "notEquals", "greater", "greaterEquals",
		"less", "lessEquals", "ifTest", "odd", "even", "sommig",
	}, module.Symbols())

	text := string(module.Bytes())
	assert.Contains(t, text, "\t.cpu\tcortex-m0\n")
	for _, symbol := range module.Symbols() {
		assert.Contains(t, text, "\t.global\t"+symbol+"\n")
		assert.Contains(t, text, "\n"+symbol+":\n")
	}
}

func TestSkippedStatementsAreLogged(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	file := testutil.Parse(t, "1 + 1\nWife OpenBanane CloseBanane\n1\nStopWife\nWife f OpenBanane CloseBanane\nThrow 1\nStopWife")

	module, err := NewCompiler(Options{
		Target: newTarget(t, "cortex-m0"),
		Logger: zap.New(core),
	}).CompileFile(context.Background(), file)
	require.NoError(t, err)

	assert.Equal(t, []string{"f"}, module.Symbols())
	assert.Equal(t, 2, logs.FilterMessage("skipping top-level statement").Len())
}

func TestFrameAlignment(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		frame int
	}{
		{"no locals", "Wife f OpenBanane CloseBanane\nThrow 1\nStopWife", 0},
		{"one parameter", "Wife f OpenBanane a CloseBanane\nThrow a\nStopWife", 8},
		{"three parameters", "Wife f OpenBanane a , b , c CloseBanane\nThrow a\nStopWife", 16},
		{"parameter reassigned", "Wife f OpenBanane a CloseBanane\nApe a Is a + 1\nApe b Is a\nThrow b\nStopWife", 16},
		{"operand pending across a call", "Wife f OpenBanane a CloseBanane\nThrow a + Run g OpenBanane a CloseBanane\nStopWife", 8},
		{"nested operands", "Wife f OpenBanane a CloseBanane\nThrow a + OpenBanane a * OpenBanane a - 1 CloseBanane CloseBanane\nStopWife", 16},
		{"call arguments", "Wife f OpenBanane CloseBanane\nThrow Run g OpenBanane 1 , 2 + 3 , 4 CloseBanane\nStopWife", 16},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			file := testutil.Parse(t, tc.src)
			fn, err := newFunction(file.Funcs()[0], true)
			require.NoError(t, err)
			assert.Equal(t, tc.frame, fn.frame)
		})
	}
}

func TestScratchSlots(t *testing.T) {
	file := testutil.Parse(t, "Wife f OpenBanane a CloseBanane\nThrow a + Run g OpenBanane a / 2 CloseBanane\nStopWife")
	fn, err := newFunction(file.Funcs()[0], true)
	require.NoError(t, err)
	assert.Equal(t, 2, fn.scratch)

	require.NoError(t, fn.compile(map[string]*Function{"f": fn}, false))
	text := fn.text.String()
	assert.NotContains(t, text, "\tpush\t{r0}\n")
	assert.NotContains(t, text, "\tpop\t{r0}\n")

	expected := "\tldr\tr0, [r7, #0]\n" +
		"\tstr\tr0, [r7, #4]\n" +
		"\tldr\tr0, [r7, #0]\n" +
		"\tstr\tr0, [r7, #8]\n" +
		"\tmovs\tr0, #2\n" +
		"\tmovs\tr1, r0\n" +
		"\tldr\tr0, [r7, #8]\n" +
		"\tbl\t__aeabi_idiv\n" +
		"\tbl\tg\n" +
		"\tmovs\tr1, r0\n" +
		"\tldr\tr0, [r7, #4]\n" +
		"\tadds\tr0, r0, r1\n"
	assert.Contains(t, text, expected)
	assert.Contains(t, text, "\tsub\tsp, sp, #16\n")
}

func TestNoFrame(t *testing.T) {
	file := testutil.Parse(t, "Wife one OpenBanane CloseBanane\nThrow\nStopWife")
	module, err := NewCompiler(Options{Target: newTarget(t, "cortex-m0")}).CompileFile(context.Background(), file)
	require.NoError(t, err)

	expected := "\t.align\t2\n" +
		"\t.global\tone\n" +
		"\t.thumb_func\n" +
		"\t.type\tone, %function\n" +
		"one:\n" +
		"\tpush\t{r7, lr}\n" +
		"\tmov\tr7, sp\n" +
		"\tmovs\tr0, #0\n" +
		"\tmov\tsp, r7\n" +
		"\tpop\t{r7, pc}\n" +
		"\t.ltorg\n" +
		"\t.size\tone, .-one\n"
	assert.True(t, strings.HasSuffix(string(module.Bytes()), "\n"+expected))
}

func TestCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	file := testutil.Parse(t, "Wife f OpenBanane CloseBanane\nThrow 1\nStopWife")
	_, err := NewCompiler(Options{Target: newTarget(t, "cortex-m0")}).CompileFile(ctx, file)
	assert.ErrorIs(t, err, context.Canceled)
}
