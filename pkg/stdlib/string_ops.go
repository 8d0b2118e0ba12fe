package stdlib

import (
	"github.com/plume-lang/plume/pkg/evaluator"
)

// str(v) → str
func stdlibStr(_ *evaluator.Call, args []evaluator.Value) (evaluator.Value, error) {
	if s, ok := args[0].(evaluator.Str); ok {
		return s, nil
	}
	return evaluator.NewStr(evaluator.FormatValue(args[0])), nil
}
