package stdlib

import (
	"math"

	"github.com/plume-lang/plume/pkg/diagnostics"
	"github.com/plume-lang/plume/pkg/evaluator"
)

// arithmetic applies ints when both operands are Int and floats when either
// is Float. Any other operand type is a type error.
func arithmetic(
	name string,
	a, b evaluator.Value,
	ints func(x, y int64) (evaluator.Value, error),
	floats func(x, y float64) (evaluator.Value, error),
) (evaluator.Value, error) {
	if x, ok := a.(evaluator.Int); ok {
		if y, ok := b.(evaluator.Int); ok {
			return ints(x.Value, y.Value)
		}
	}
	x, okA := evaluator.AsFloat(a)
	y, okB := evaluator.AsFloat(b)
	if !okA || !okB {
		return nil, operandError(name, a, b)
	}
	return floats(x, y)
}

func operandError(name string, a, b evaluator.Value) error {
	return evaluator.Errorf(diagnostics.EType, "%s: unsupported operand types %s and %s",
		name, evaluator.TypeName(a), evaluator.TypeName(b))
}

func overflow(name string) error {
	return evaluator.Errorf(diagnostics.ERuntime, "%s: integer overflow", name)
}

func floatResult(f float64) (evaluator.Value, error) {
	return evaluator.NewFloat(f), nil
}

// add(a, b) → number | str
func stdlibAdd(_ *evaluator.Call, args []evaluator.Value) (evaluator.Value, error) {
	if x, ok := args[0].(evaluator.Str); ok {
		y, ok := args[1].(evaluator.Str)
		if !ok {
			return nil, operandError("add", args[0], args[1])
		}
		return evaluator.NewStr(x.Value + y.Value), nil
	}
	return arithmetic("add", args[0], args[1],
		func(x, y int64) (evaluator.Value, error) {
			s := x + y
			if (x > 0 && y > 0 && s < 0) || (x < 0 && y < 0 && s >= 0) {
				return nil, overflow("add")
			}
			return evaluator.NewInt(s), nil
		},
		func(x, y float64) (evaluator.Value, error) { return floatResult(x + y) })
}

// sub(a, b) → number
func stdlibSub(_ *evaluator.Call, args []evaluator.Value) (evaluator.Value, error) {
	return arithmetic("sub", args[0], args[1],
		func(x, y int64) (evaluator.Value, error) {
			d := x - y
			if (x >= 0 && y < 0 && d < 0) || (x < 0 && y > 0 && d >= 0) {
				return nil, overflow("sub")
			}
			return evaluator.NewInt(d), nil
		},
		func(x, y float64) (evaluator.Value, error) { return floatResult(x - y) })
}

// mul(a, b) → number
func stdlibMul(_ *evaluator.Call, args []evaluator.Value) (evaluator.Value, error) {
	return arithmetic("mul", args[0], args[1],
		func(x, y int64) (evaluator.Value, error) {
			p, ok := mulInt(x, y)
			if !ok {
				return nil, overflow("mul")
			}
			return evaluator.NewInt(p), nil
		},
		func(x, y float64) (evaluator.Value, error) { return floatResult(x * y) })
}

func mulInt(x, y int64) (int64, bool) {
	if x == 0 || y == 0 {
		return 0, true
	}
	p := x * y
	if p/y != x || (x == -1 && y == math.MinInt64) || (y == -1 && x == math.MinInt64) {
		return 0, false
	}
	return p, true
}

// div(a, b) → float
func stdlibDiv(_ *evaluator.Call, args []evaluator.Value) (evaluator.Value, error) {
	x, okA := evaluator.AsFloat(args[0])
	y, okB := evaluator.AsFloat(args[1])
	if !okA || !okB {
		return nil, operandError("div", args[0], args[1])
	}
	if y == 0 {
		return nil, evaluator.Errorf(diagnostics.ERuntime, "div: division by zero")
	}
	return evaluator.NewFloat(x / y), nil
}

// mod(a, b) → number, result takes the sign of b
func stdlibMod(_ *evaluator.Call, args []evaluator.Value) (evaluator.Value, error) {
	return arithmetic("mod", args[0], args[1],
		func(x, y int64) (evaluator.Value, error) {
			if y == 0 {
				return nil, evaluator.Errorf(diagnostics.ERuntime, "mod: division by zero")
			}
			r := x % y
			if r != 0 && (r < 0) != (y < 0) {
				r += y
			}
			return evaluator.NewInt(r), nil
		},
		func(x, y float64) (evaluator.Value, error) {
			if y == 0 {
				return nil, evaluator.Errorf(diagnostics.ERuntime, "mod: division by zero")
			}
			r := math.Mod(x, y)
			if r != 0 && (r < 0) != (y < 0) {
				r += y
			}
			return floatResult(r)
		})
}

// pow(a, b) → number; an int base with a negative int exponent yields a float
func stdlibPow(_ *evaluator.Call, args []evaluator.Value) (evaluator.Value, error) {
	return arithmetic("pow", args[0], args[1],
		func(x, y int64) (evaluator.Value, error) {
			if y < 0 {
				return powFloat(float64(x), float64(y))
			}
			result := int64(1)
			base := x
			for e := y; e > 0; e >>= 1 {
				var ok bool
				if e&1 == 1 {
					if result, ok = mulInt(result, base); !ok {
						return nil, overflow("pow")
					}
				}
				if e > 1 {
					if base, ok = mulInt(base, base); !ok {
						return nil, overflow("pow")
					}
				}
			}
			return evaluator.NewInt(result), nil
		},
		powFloat)
}

func powFloat(x, y float64) (evaluator.Value, error) {
	if x == 0 && y < 0 {
		return nil, evaluator.Errorf(diagnostics.ERuntime, "pow: zero cannot be raised to a negative power")
	}
	r := math.Pow(x, y)
	if math.IsNaN(r) && !math.IsNaN(x) && !math.IsNaN(y) {
		return nil, evaluator.Errorf(diagnostics.ERuntime, "pow: result is not a real number")
	}
	return floatResult(r)
}
