package stdlib

import (
	"github.com/plume-lang/plume/pkg/diagnostics"
	"github.com/plume-lang/plume/pkg/evaluator"
)

// eq(a, b) → bool
func stdlibEq(_ *evaluator.Call, args []evaluator.Value) (evaluator.Value, error) {
	return evaluator.NewBool(evaluator.DeepEqual(args[0], args[1])), nil
}

// neq(a, b) → bool
func stdlibNeq(_ *evaluator.Call, args []evaluator.Value) (evaluator.Value, error) {
	return evaluator.NewBool(!evaluator.DeepEqual(args[0], args[1])), nil
}

// compareNumbers returns -1, 0 or 1. Two ints compare exactly; a mixed
// pair compares as floats.
func compareNumbers(name string, a, b evaluator.Value) (int, error) {
	if x, ok := a.(evaluator.Int); ok {
		if y, ok := b.(evaluator.Int); ok {
			switch {
			case x.Value < y.Value:
				return -1, nil
			case x.Value > y.Value:
				return 1, nil
			}
			return 0, nil
		}
	}
	x, okA := evaluator.AsFloat(a)
	y, okB := evaluator.AsFloat(b)
	if !okA || !okB {
		return 0, evaluator.Errorf(diagnostics.EType, "%s: cannot compare %s and %s",
			name, evaluator.TypeName(a), evaluator.TypeName(b))
	}
	switch {
	case x < y:
		return -1, nil
	case x > y:
		return 1, nil
	}
	return 0, nil
}

func comparison(name string, accept func(c int) bool) func(*evaluator.Call, []evaluator.Value) (evaluator.Value, error) {
	return func(_ *evaluator.Call, args []evaluator.Value) (evaluator.Value, error) {
		c, err := compareNumbers(name, args[0], args[1])
		if err != nil {
			return nil, err
		}
		return evaluator.NewBool(accept(c)), nil
	}
}

var (
	stdlibGt  = comparison("gt", func(c int) bool { return c > 0 })
	stdlibGte = comparison("gte", func(c int) bool { return c >= 0 })
	stdlibLt  = comparison("lt", func(c int) bool { return c < 0 })
	stdlibLte = comparison("lte", func(c int) bool { return c <= 0 })
)

// and(a, b) → bool
func stdlibAnd(_ *evaluator.Call, args []evaluator.Value) (evaluator.Value, error) {
	return evaluator.NewBool(evaluator.Truthiness(args[0]) && evaluator.Truthiness(args[1])), nil
}

// or(a, b) → bool
func stdlibOr(_ *evaluator.Call, args []evaluator.Value) (evaluator.Value, error) {
	return evaluator.NewBool(evaluator.Truthiness(args[0]) || evaluator.Truthiness(args[1])), nil
}
