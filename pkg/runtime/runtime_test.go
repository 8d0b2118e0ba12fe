package runtime_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/plume-lang/plume/pkg/diagnostics"
	"github.com/plume-lang/plume/pkg/evaluator"
	"github.com/plume-lang/plume/pkg/runtime"
	"github.com/plume-lang/plume/pkg/stdlib"
	"github.com/plume-lang/plume/pkg/token"
)

func newRuntime(stdin string, opts ...runtime.Option) (*runtime.Runtime, *bytes.Buffer) {
	var out bytes.Buffer
	base := []runtime.Option{
		runtime.WithStdout(&out),
		runtime.WithStdin(strings.NewReader(stdin)),
	}
	return runtime.New(append(base, opts...)...), &out
}

func TestRun(t *testing.T) {
	rt, out := newRuntime("")
	res, err := rt.Run("x = add(1, 2)\nlog(\"x is\", x)\n(x)", "main.plm")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(evaluator.NewInt(3), res.Value); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if out.String() != "x is 3\n" {
		t.Errorf("stdout = %q", out.String())
	}
}

func TestRunSyntaxError(t *testing.T) {
	rt, _ := newRuntime("")
	_, err := rt.Run("log(1 2)", "bad.plm")
	var de *runtime.DiagnosticError
	if !errors.As(err, &de) {
		t.Fatalf("expected *DiagnosticError, got %T", err)
	}
	d := diagnostics.FromError(err)
	if d.Code != diagnostics.ESyntax || d.Loc == nil || d.Loc.File != "bad.plm" {
		t.Errorf("diagnostic = %+v", d)
	}
}

func TestRunRuntimeErrorKeepsPartialOutput(t *testing.T) {
	rt, out := newRuntime("")
	_, err := rt.Run("log(1)\ndiv(1, 0)\nlog(2)", "main.plm")
	if d := diagnostics.FromError(err); d.Code != diagnostics.ERuntime {
		t.Errorf("Code = %q", d.Code)
	}
	if out.String() != "1\n" {
		t.Errorf("stdout = %q", out.String())
	}
}

func TestRunStrict(t *testing.T) {
	src := `(if(true, 1, 2, 3))`

	rt, _ := newRuntime("")
	res, err := rt.Run(src, "main.plm")
	if err != nil {
		t.Fatalf("lenient run failed: %v", err)
	}
	if diff := cmp.Diff(evaluator.NewInt(1), res.Value); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}

	strict, _ := newRuntime("", runtime.WithStrict(true))
	_, err = strict.Run(src, "main.plm")
	if len(runtime.Diagnostics(err)) != 1 {
		t.Errorf("expected one validation diagnostic, got %v", err)
	}
}

func TestRunInput(t *testing.T) {
	rt, out := newRuntime("World\n")
	if _, err := rt.Run(`log(add("Hello, ", input("who? ")))`, "main.plm"); err != nil {
		t.Fatal(err)
	}
	if out.String() != "who? Hello, World\n" {
		t.Errorf("stdout = %q", out.String())
	}
}

type scriptedReader struct {
	lines   []string
	prompts []string
}

func (s *scriptedReader) ReadLine(prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if len(s.lines) == 0 {
		return "", errors.New("no more lines")
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, nil
}

func TestWithLineReader(t *testing.T) {
	lr := &scriptedReader{lines: []string{"7"}}
	rt, _ := newRuntime("ignored\n", runtime.WithLineReader(lr))
	res, err := rt.Run(`(input("n: "))`, "main.plm")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(evaluator.NewStr("7"), res.Value); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"n: "}, lr.prompts); diff != "" {
		t.Errorf("prompts (-want +got):\n%s", diff)
	}
}

func TestWithMaxIterations(t *testing.T) {
	rt, _ := newRuntime("", runtime.WithMaxIterations(2))
	_, err := rt.Run(`for(i, 0, 5, log(i))`, "main.plm")
	if d := diagnostics.FromError(err); d.Code != diagnostics.ELimit {
		t.Errorf("Code = %q", d.Code)
	}
}

func TestWithTraceAndRunID(t *testing.T) {
	var events []evaluator.TraceEvent
	rt, _ := newRuntime("",
		runtime.WithRunID("abc"),
		runtime.WithTrace(func(ev evaluator.TraceEvent) { events = append(events, ev) }))
	if _, err := rt.Run(`log(1)`, "main.plm"); err != nil {
		t.Fatal(err)
	}
	if len(events) == 0 || events[0].RunID != "abc" {
		t.Fatalf("events = %+v", events)
	}
}

func TestWithBuiltins(t *testing.T) {
	reg := stdlib.NewRegistry()
	reg.Register(stdlib.Fn{
		Name:  "answer",
		Arity: 0,
		Execute: func(*evaluator.Call, []evaluator.Value) (evaluator.Value, error) {
			return evaluator.NewInt(42), nil
		},
	})
	rt, _ := newRuntime("", runtime.WithBuiltins(reg))
	res, err := rt.Run(`(answer())`, "main.plm")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(evaluator.NewInt(42), res.Value); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if _, err := rt.Run(`log(1)`, "main.plm"); diagnostics.FromError(err).Code != diagnostics.EName {
		t.Errorf("log should be unknown with a custom registry, got %v", err)
	}
}

func TestCheck(t *testing.T) {
	rt, _ := newRuntime("")
	if diags := rt.Check(`log(1)`, "ok.plm"); len(diags) != 0 {
		t.Errorf("unexpected diagnostics: %v", diags)
	}
	diags := rt.Check("foo(1)\nadd(1)", "bad.plm")
	if len(diags) != 2 {
		t.Fatalf("expected 2 diagnostics, got %v", diags)
	}
	if diags := rt.Check(`log("x`, "lex.plm"); len(diags) != 1 || diags[0].Code != diagnostics.ELex {
		t.Errorf("diagnostics = %v", diags)
	}
}

func TestFormat(t *testing.T) {
	rt, _ := newRuntime("")
	got, err := rt.Format("x=[1,2]", "f.plm")
	if err != nil {
		t.Fatal(err)
	}
	if got != "x = [1, 2]\n" {
		t.Errorf("Format = %q", got)
	}
}

func TestTokens(t *testing.T) {
	rt, _ := newRuntime("")
	tokens, err := rt.Tokens("x = 1", "t.plm")
	if err != nil {
		t.Fatal(err)
	}
	kinds := make([]token.Kind, len(tokens))
	for i, tok := range tokens {
		kinds[i] = tok.Kind
	}
	want := []token.Kind{token.Identifier, token.Equal, token.Number, token.Eof}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if _, err := rt.Tokens("x = $", "t.plm"); diagnostics.FromError(err).Code != diagnostics.ELex {
		t.Errorf("expected lex error, got %v", err)
	}
}

func TestSession(t *testing.T) {
	rt, out := newRuntime("")
	s := rt.NewSession()
	if _, err := s.Eval("x = 2", "<repl>"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Eval("y = mul(x, 3)\nlog(nope)", "<repl>"); err == nil {
		t.Fatal("expected NameError")
	}
	res, err := s.Eval("(y)", "<repl>")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(evaluator.NewInt(6), res.Value); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"x", "y"}, s.Names()); diff != "" {
		t.Errorf("names (-want +got):\n%s", diff)
	}
	if v, ok := s.Lookup("x"); !ok || !evaluator.DeepEqual(v, evaluator.NewInt(2)) {
		t.Errorf("Lookup(x) = %v, %v", v, ok)
	}
	if out.Len() != 0 {
		t.Errorf("stdout = %q", out.String())
	}
}
