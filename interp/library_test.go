package interp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"omibyte.io/aap/compiler/testutil"
)

func TestLibrary(t *testing.T) {
	ctx := context.Background()
	lib, err := LoadLibrary(ctx, testutil.ExampleFile("checks", "checks.aap"), Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"andTest", "equals", "even", "greater", "greaterEquals", "ifTest",
		"less", "lessEquals", "notEquals", "odd", "orTest", "sommig",
	}, lib.Symbols())

	tests := []struct {
		symbol   string
		args     []int32
		expected int32
	}{
		{"andTest", []int32{10, 7}, 1},
		{"andTest", []int32{10, 0}, 0},
		{"equals", []int32{5, 5}, 1},
		{"greater", []int32{15, 2}, 1},
		{"greaterEquals", []int32{2, 3}, 0},
		{"ifTest", []int32{7}, 1},
		{"ifTest", []int32{8}, 0},
		{"less", []int32{7, 1}, 0},
		{"lessEquals", []int32{4, 4}, 1},
		{"notEquals", []int32{10, 15}, 1},
		{"orTest", []int32{2, 2}, 1},
		{"orTest", []int32{0, 0}, 0},
		{"odd", []int32{3}, 1},
		{"odd", []int32{12}, 0},
		{"even", []int32{12}, 1},
		{"sommig", []int32{12}, 78},
	}

	for _, tc := range tests {
		t.Run(tc.symbol, func(t *testing.T) {
			observed, err := lib.Call(ctx, tc.symbol, tc.args...)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, observed)
		})
	}
}

func TestLibraryErrors(t *testing.T) {
	ctx := context.Background()
	file := testutil.Parse(t, "Ape half Is 0.5\nWife f OpenBanane a CloseBanane\nThrow a / 2.0\nStopWife\nWife g OpenBanane CloseBanane\nThrow f\nStopWife")
	lib, err := NewLibrary(ctx, file, Options{})
	require.NoError(t, err)

	observed, err := lib.Call(ctx, "f", 7)
	require.NoError(t, err)
	assert.Equal(t, int32(3), observed)

	_, err = lib.Call(ctx, "missing")
	assert.ErrorIs(t, err, ErrUndefined)

	_, err = lib.Call(ctx, "half")
	assert.ErrorIs(t, err, ErrNotFunction)

	_, err = lib.Call(ctx, "f")
	assert.ErrorIs(t, err, ErrArity)

	_, err = lib.Call(ctx, "g")
	assert.ErrorContains(t, err, "is not a number")
}

func TestLibraryLoadFailure(t *testing.T) {
	_, err := NewLibrary(context.Background(), testutil.Parse(t, "1 / 0"), Options{})
	assert.ErrorIs(t, err, ErrDivisionByZero)
	assert.ErrorContains(t, err, "failed to load test.aap")
}
