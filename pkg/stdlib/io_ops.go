package stdlib

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/plume-lang/plume/pkg/diagnostics"
	"github.com/plume-lang/plume/pkg/evaluator"
)

// log(a, b, ...) → None
func stdlibLog(call *evaluator.Call, args []evaluator.Value) (evaluator.Value, error) {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = evaluator.FormatValue(arg)
	}
	if _, err := fmt.Fprintln(call.Stdout, strings.Join(parts, " ")); err != nil {
		return nil, evaluator.Errorf(diagnostics.EIO, "log: %v", err)
	}
	return evaluator.NewNone(), nil
}

// input(prompt) → str
func stdlibInput(call *evaluator.Call, args []evaluator.Value) (evaluator.Value, error) {
	prompt, ok := args[0].(evaluator.Str)
	if !ok {
		return nil, evaluator.Errorf(diagnostics.EType, "input: prompt must be str, got %s", evaluator.TypeName(args[0]))
	}
	if call.Stdin == nil {
		return nil, evaluator.Errorf(diagnostics.EIO, "input: no input source")
	}
	line, err := call.Stdin.ReadLine(prompt.Value)
	if errors.Is(err, io.EOF) {
		return nil, evaluator.Errorf(diagnostics.EIO, "input: unexpected end of input")
	}
	if err != nil {
		return nil, evaluator.Errorf(diagnostics.EIO, "input: %v", err)
	}
	return evaluator.NewStr(line), nil
}
