package stdlib

import (
	"unicode/utf8"

	"github.com/plume-lang/plume/pkg/diagnostics"
	"github.com/plume-lang/plume/pkg/evaluator"
)

// index(seq, i) → element; strings index by code point
func stdlibIndex(_ *evaluator.Call, args []evaluator.Value) (evaluator.Value, error) {
	i, ok := args[1].(evaluator.Int)
	if !ok {
		return nil, evaluator.Errorf(diagnostics.EType, "index: position must be int, got %s", evaluator.TypeName(args[1]))
	}

	switch seq := args[0].(type) {
	case evaluator.Str:
		runes := []rune(seq.Value)
		if err := checkBounds(i.Value, len(runes), "str"); err != nil {
			return nil, err
		}
		return evaluator.NewStr(string(runes[i.Value])), nil
	case evaluator.List:
		if err := checkBounds(i.Value, len(seq.Items), "list"); err != nil {
			return nil, err
		}
		return seq.Items[i.Value], nil
	}
	return nil, evaluator.Errorf(diagnostics.EType, "index: expected str or list, got %s", evaluator.TypeName(args[0]))
}

func checkBounds(i int64, length int, kind string) error {
	if i < 0 || i >= int64(length) {
		return evaluator.Errorf(diagnostics.ERuntime, "index: %d out of range for %s of length %d", i, kind, length)
	}
	return nil
}

// len(seq) → int
func stdlibLen(_ *evaluator.Call, args []evaluator.Value) (evaluator.Value, error) {
	switch seq := args[0].(type) {
	case evaluator.Str:
		return evaluator.NewInt(int64(utf8.RuneCountInString(seq.Value))), nil
	case evaluator.List:
		return evaluator.NewInt(int64(len(seq.Items))), nil
	}
	return nil, evaluator.Errorf(diagnostics.EType, "len: expected str or list, got %s", evaluator.TypeName(args[0]))
}
