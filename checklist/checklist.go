// Package checklist prints the results of externally supplied comparison
// routines next to the values they are expected to produce, for a human to
// compare. Nothing here asserts that the two agree.
package checklist

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Check is one printed line: the routine Symbol called with Args, labelled
// Label. Expected is evaluated independently of the routine when the line is
// printed.
type Check struct {
	Label    string
	Symbol   string
	Args     []int32
	Expected func() int32
}

type Checklist []Check

func b2i(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

func literal(v int32) func() int32 {
	return func() int32 { return v }
}

// Variant1 is the nine check program.
func Variant1() Checklist {
	return Checklist{
		{Label: "and", Symbol: "andTest", Args: []int32{10, 7}, Expected: literal(1)},
		{Label: "equals", Symbol: "equals", Args: []int32{5, 5}, Expected: func() int32 { return b2i(5 == 5) }},
		{Label: "greater", Symbol: "greater", Args: []int32{15, 2}, Expected: func() int32 { return b2i(15 > 2) }},
		{Label: "greaterEquals", Symbol: "greaterEquals", Args: []int32{2, 3}, Expected: func() int32 { return b2i(2 >= 3) }},
		{Label: "if", Symbol: "ifTest", Args: []int32{7}, Expected: func() int32 { return b2i(7 == 7) }},
		{Label: "less", Symbol: "less", Args: []int32{7, 1}, Expected: func() int32 { return b2i(7 < 1) }},
		{Label: "lessEquals", Symbol: "lessEquals", Args: []int32{4, 4}, Expected: func() int32 { return b2i(4 <= 4) }},
		{Label: "notEquals", Symbol: "notEquals", Args: []int32{10, 15}, Expected: func() int32 { return b2i(10 != 15) }},
		{Label: "or", Symbol: "orTest", Args: []int32{2, 2}, Expected: literal(1)},
	}
}

// Variant2 extends the first program with parity and summation checks and
// computes every expected value.
func Variant2() Checklist {
	a, b := int32(2), int32(3)
	return Checklist{
		{Label: "and", Symbol: "andTest", Args: []int32{10, 7}, Expected: func() int32 { return b2i(10 == 10 && 7 == 7) }},
		{Label: "equals", Symbol: "equals", Args: []int32{5, 5}, Expected: func() int32 { return b2i(5 == 5) }},
		{Label: "greater", Symbol: "greater", Args: []int32{15, 2}, Expected: func() int32 { return b2i(15 > 2) }},
		{Label: "greaterEquals", Symbol: "greaterEquals", Args: []int32{2, 3}, Expected: func() int32 { return b2i(2 >= 3) }},
		{Label: "if", Symbol: "ifTest", Args: []int32{7}, Expected: func() int32 { return b2i(7 == 7) }},
		{Label: "less", Symbol: "less", Args: []int32{7, 1}, Expected: func() int32 { return b2i(7 < 1) }},
		{Label: "lessEquals", Symbol: "lessEquals", Args: []int32{4, 4}, Expected: func() int32 { return b2i(4 <= 4) }},
		{Label: "notEquals", Symbol: "notEquals", Args: []int32{10, 15}, Expected: func() int32 { return b2i(10 != 15) }},
		{Label: "or", Symbol: "orTest", Args: []int32{a, b}, Expected: func() int32 { return b2i(a != 0 || b != 0) }},
		{Label: "odd", Symbol: "odd", Args: []int32{3}, Expected: func() int32 { return b2i(3%2 != 0) }},
		{Label: "even", Symbol: "even", Args: []int32{12}, Expected: func() int32 { return b2i(12%2 == 0) }},
		{Label: "sommig", Symbol: "sommig", Args: []int32{12}, Expected: literal(78)},
	}
}

// Variant returns the numbered checklist.
func Variant(n int) (Checklist, error) {
	switch n {
	case 1:
		return Variant1(), nil
	case 2:
		return Variant2(), nil
	}
	return nil, errors.Wrapf(ErrUnknownVariant, "variant %d", n)
}

// Symbols lists the routines the checklist calls, in order, without duplicates.
func (c Checklist) Symbols() []string {
	var result []string
	seen := map[string]bool{}
	for _, check := range c {
		if !seen[check.Symbol] {
			seen[check.Symbol] = true
			result = append(result, check.Symbol)
		}
	}
	return result
}

const (
	tabWidth     = 8
	resultColumn = 24
)

// tabs returns the tab characters that move a line of width n to the result
// column, at least one.
func tabs(n int) string {
	count := 0
	for n < resultColumn || count == 0 {
		n = (n/tabWidth + 1) * tabWidth
		count++
	}
	return strings.Repeat("\t", count)
}

// FormatLine renders a single console line, newline included.
func FormatLine(label string, observed, expected int32) string {
	prefix := "Testing " + label + ":"
	return prefix + tabs(len(prefix)) + strconv.FormatInt(int64(observed), 10) +
		" \tNeeds to be: " + strconv.FormatInt(int64(expected), 10) + "\n"
}
