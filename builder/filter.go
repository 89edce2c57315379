package builder

import (
	"regexp"
	"strings"
)

type setOpType int

const (
	setUnion setOpType = iota
	setSubtract
)

type setOp struct {
	t setOpType
	r *regexp.Regexp
}

// exportSet is a set of function names described by a sequence of glob
// patterns. The set starts empty and each pattern is applied left to right:
// "foo" adds foo, "!p" removes anything matching p and "*" matches any run of
// characters.
type exportSet []setOp

func (s exportSet) contains(name string) bool {
	b := false
	for _, op := range s {
		if op.r.MatchString(name) {
			b = op.t == setUnion
		}
	}
	return b
}

func newOp(pat string) setOp {
	var s setOp
	pattern, negated := strings.CutPrefix(pat, "!")
	if negated {
		s.t = setSubtract
	}

	parts := strings.Split(pattern, "*")
	for i := range parts {
		parts[i] = regexp.QuoteMeta(parts[i])
	}
	// Quoted literals joined by .* always compile.
	s.r = regexp.MustCompile("^" + strings.Join(parts, ".*") + "$")
	return s
}

// ExportFilter returns a predicate reporting whether a function matches the
// export patterns. No patterns exports everything.
func ExportFilter(patterns []string) func(string) bool {
	if len(patterns) == 0 {
		patterns = []string{"*"}
	}

	set := make(exportSet, len(patterns))
	for i, pat := range patterns {
		set[i] = newOp(pat)
	}
	return set.contains
}
