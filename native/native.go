// Package native implements the check routines in Go, for running the
// checklist on a host without an AAP build.
package native

import "omibyte.io/aap/checklist"

func Library() checklist.FuncMap {
	return checklist.FuncMap{
		"andTest":       func(a, b int32) bool { return a != 0 && b != 0 },
		"orTest":        func(a, b int32) bool { return a != 0 || b != 0 },
		"equals":        func(a, b int32) bool { return a == b },
		"notEquals":     func(a, b int32) bool { return a != b },
		"greater":       func(a, b int32) bool { return a > b },
		"greaterEquals": func(a, b int32) bool { return a >= b },
		"less":          func(a, b int32) bool { return a < b },
		"lessEquals":    func(a, b int32) bool { return a <= b },
		"ifTest":        func(n int32) int32 { return toInt(n == 7) },
		"odd":           func(n int32) bool { return n%2 != 0 },
		"even":          func(n int32) bool { return n%2 == 0 },
		"sommig":        sommig,
	}
}

// sommig sums 1 through n.
func sommig(n int32) int32 {
	var total int32
	for i := int32(1); i <= n; i++ {
		total += i
	}
	return total
}

func toInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
