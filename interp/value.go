package interp

import (
	"math"
	"strconv"

	"omibyte.io/aap/compiler/ast"
	"omibyte.io/aap/compiler/token"
)

// Value is the result of evaluating an AAP expression: a Number or a *Function.
type Value interface {
	String() string
}

// Number is an integer or floating point value. Integers stay integers until
// combined with a float.
type Number struct {
	i     int64
	f     float64
	float bool
}

func Int(v int64) Number     { return Number{i: v} }
func Float(v float64) Number { return Number{f: v, float: true} }

// word wraps an integer result to 32 bits the way the compiled code does.
func word(v int64) Number { return Int(int64(int32(v))) }

func Bool(b bool) Number {
	if b {
		return Int(1)
	}
	return Int(0)
}

func (n Number) IsFloat() bool { return n.float }

func (n Number) Float64() float64 {
	if n.float {
		return n.f
	}
	return float64(n.i)
}

// Int64 truncates floats toward zero.
func (n Number) Int64() int64 {
	if n.float {
		return int64(n.f)
	}
	return n.i
}

func (n Number) IsTrue() bool {
	if n.float {
		return n.f != 0
	}
	return n.i != 0
}

func (n Number) String() string {
	if n.float {
		return strconv.FormatFloat(n.f, 'g', -1, 64)
	}
	return strconv.FormatInt(n.i, 10)
}

// Function is a closure over the scope it was defined in.
type Function struct {
	Name   string
	Params []string
	Body   *ast.Block
	scope  *Scope
}

func (f *Function) String() string {
	if f.Name == "" {
		return "Wife <anonymous>"
	}
	return "Wife " + f.Name
}

func (f *Function) describe() string {
	if f.Name == "" {
		return "anonymous function"
	}
	return "function " + f.Name
}

func arithmetic(pos token.Position, op token.Kind, x, y Number) (Number, error) {
	switch op {
	case token.AND:
		return Bool(x.IsTrue() && y.IsTrue()), nil
	case token.OR:
		return Bool(x.IsTrue() || y.IsTrue()), nil
	}

	if x.float || y.float {
		a, b := x.Float64(), y.Float64()
		switch op {
		case token.ADD:
			return Float(a + b), nil
		case token.SUB:
			return Float(a - b), nil
		case token.MUL:
			return Float(a * b), nil
		case token.QUO:
			if b == 0 {
				return Number{}, token.ErrorAt(pos, ErrDivisionByZero, "")
			}
			return Float(a / b), nil
		case token.EQL:
			return Bool(a == b), nil
		case token.NEQ:
			return Bool(a != b), nil
		case token.GTR:
			return Bool(a > b), nil
		case token.GEQ:
			return Bool(a >= b), nil
		case token.LSS:
			return Bool(a < b), nil
		case token.LEQ:
			return Bool(a <= b), nil
		}
		return Number{}, token.Errorf(pos, "unsupported operator %s", op)
	}

	a, b := x.i, y.i
	switch op {
	case token.ADD:
		return word(a + b), nil
	case token.SUB:
		return word(a - b), nil
	case token.MUL:
		return word(a * b), nil
	case token.QUO:
		if b == 0 {
			return Number{}, token.ErrorAt(pos, ErrDivisionByZero, "")
		}
		if a == math.MinInt64 && b == -1 {
			return word(a), nil
		}
		return word(a / b), nil
	case token.EQL:
		return Bool(a == b), nil
	case token.NEQ:
		return Bool(a != b), nil
	case token.GTR:
		return Bool(a > b), nil
	case token.GEQ:
		return Bool(a >= b), nil
	case token.LSS:
		return Bool(a < b), nil
	case token.LEQ:
		return Bool(a <= b), nil
	}
	return Number{}, token.Errorf(pos, "unsupported operator %s", op)
}
