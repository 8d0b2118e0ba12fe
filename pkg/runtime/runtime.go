// Package runtime provides the top-level Plume runtime orchestrator.
package runtime

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/plume-lang/plume/pkg/ast"
	"github.com/plume-lang/plume/pkg/diagnostics"
	"github.com/plume-lang/plume/pkg/evaluator"
	"github.com/plume-lang/plume/pkg/formatter"
	"github.com/plume-lang/plume/pkg/lexer"
	"github.com/plume-lang/plume/pkg/parser"
	"github.com/plume-lang/plume/pkg/stdlib"
	"github.com/plume-lang/plume/pkg/token"
	"github.com/plume-lang/plume/pkg/validator"
)

// Result holds the outcome of a program execution.
type Result struct {
	Value evaluator.Value
	Usage evaluator.Usage
}

// Runtime wires together all Plume components for program execution.
type Runtime struct {
	builtins      *stdlib.Registry
	stdout        io.Writer
	stdin         io.Reader
	lineReader    evaluator.LineReader
	runID         string
	trace         func(event evaluator.TraceEvent)
	maxIterations int64
	strict        bool
}

// Option is a functional option for configuring the Runtime.
type Option func(*Runtime)

// WithBuiltins sets the builtin registry.
func WithBuiltins(r *stdlib.Registry) Option {
	return func(rt *Runtime) {
		rt.builtins = r
	}
}

// WithStdout sets where log and input prompts are written.
func WithStdout(w io.Writer) Option {
	return func(rt *Runtime) {
		rt.stdout = w
	}
}

// WithStdin sets the reader consumed by input.
func WithStdin(r io.Reader) Option {
	return func(rt *Runtime) {
		rt.stdin = r
	}
}

// WithLineReader replaces the stdin reader with a custom line source,
// such as a terminal line editor. It takes precedence over WithStdin.
func WithLineReader(lr evaluator.LineReader) Option {
	return func(rt *Runtime) {
		rt.lineReader = lr
	}
}

// WithRunID sets the run ID for trace events.
func WithRunID(id string) Option {
	return func(rt *Runtime) {
		rt.runID = id
	}
}

// WithTrace sets the trace callback.
func WithTrace(fn func(event evaluator.TraceEvent)) Option {
	return func(rt *Runtime) {
		rt.trace = fn
	}
}

// WithMaxIterations bounds the for-loop iterations of one run. Zero means
// unlimited.
func WithMaxIterations(n int64) Option {
	return func(rt *Runtime) {
		rt.maxIterations = n
	}
}

// WithStrict makes Run reject programs that fail static validation.
func WithStrict(strict bool) Option {
	return func(rt *Runtime) {
		rt.strict = strict
	}
}

// New creates a new Runtime with the given options.
// By default every builtin is registered and the process stdio is used.
func New(opts ...Option) *Runtime {
	rt := &Runtime{
		builtins: stdlib.Default(),
		stdout:   os.Stdout,
		stdin:    os.Stdin,
		runID:    "cli",
	}
	for _, opt := range opts {
		opt(rt)
	}
	if rt.lineReader == nil {
		rt.lineReader = evaluator.NewLineReader(rt.stdin, rt.stdout)
	}
	return rt
}

// Tokens lexes source.
func (rt *Runtime) Tokens(source, filename string) ([]token.Token, error) {
	tokens, err := lexer.Tokenize(source, filename)
	if err != nil {
		return nil, &DiagnosticError{Diagnostics: []diagnostics.Diagnostic{diagnostics.FromError(err)}}
	}
	return tokens, nil
}

// Compile lexes and parses source into a program.
func (rt *Runtime) Compile(source, filename string) (*ast.Program, error) {
	program, diags := parser.Parse(source, filename)
	if len(diags) > 0 {
		return nil, &DiagnosticError{Diagnostics: diags}
	}
	return program, nil
}

// Run compiles and executes a Plume program.
func (rt *Runtime) Run(source, filename string) (*Result, error) {
	program, err := rt.Compile(source, filename)
	if err != nil {
		return nil, err
	}
	if rt.strict {
		if vDiags := validator.Validate(program, rt.builtins.Builtins()); len(vDiags) > 0 {
			return nil, &DiagnosticError{Diagnostics: vDiags}
		}
	}

	result, err := evaluator.Execute(program, rt.buildExecOptions())
	return toResult(result), err
}

// Check parses and validates a Plume program without executing it.
func (rt *Runtime) Check(source, filename string) []diagnostics.Diagnostic {
	program, diags := parser.Parse(source, filename)
	if len(diags) > 0 {
		return diags
	}
	return validator.Validate(program, rt.builtins.Builtins())
}

// Format parses and formats a Plume program.
func (rt *Runtime) Format(source, filename string) (string, error) {
	program, err := rt.Compile(source, filename)
	if err != nil {
		return "", err
	}
	return formatter.Format(program), nil
}

// Session evaluates successive snippets against one environment.
type Session struct {
	rt     *Runtime
	interp *evaluator.Interpreter
}

// NewSession starts a session sharing the runtime's configuration.
func (rt *Runtime) NewSession() *Session {
	return &Session{rt: rt, interp: evaluator.NewInterpreter(rt.buildExecOptions())}
}

// Eval compiles and runs one snippet. Bindings persist across calls,
// including those made before a failing statement.
func (s *Session) Eval(source, filename string) (*Result, error) {
	program, err := s.rt.Compile(source, filename)
	if err != nil {
		return nil, err
	}
	result, err := s.interp.Run(program)
	return toResult(result), err
}

// Names lists the variables bound in the session.
func (s *Session) Names() []string {
	return s.interp.Env().Names()
}

// Lookup returns the value bound to name.
func (s *Session) Lookup(name string) (evaluator.Value, bool) {
	return s.interp.Env().Get(name)
}

func toResult(r *evaluator.ExecResult) *Result {
	if r == nil {
		return nil
	}
	return &Result{Value: r.Value, Usage: r.Usage}
}

// buildExecOptions constructs evaluator options from the runtime's configuration.
func (rt *Runtime) buildExecOptions() evaluator.ExecOptions {
	return evaluator.ExecOptions{
		Builtins:      rt.builtins.Builtins(),
		Stdout:        rt.stdout,
		Stdin:         rt.lineReader,
		Trace:         rt.trace,
		RunID:         rt.runID,
		MaxIterations: rt.maxIterations,
	}
}

// DiagnosticError wraps diagnostics as an error.
type DiagnosticError struct {
	Diagnostics []diagnostics.Diagnostic
}

func (e *DiagnosticError) Error() string {
	msgs := make([]string, len(e.Diagnostics))
	for i, d := range e.Diagnostics {
		msgs[i] = fmt.Sprintf("%s: %s", d.Code, d.Message)
	}
	return strings.Join(msgs, "; ")
}

// Diagnostic returns the first wrapped diagnostic.
func (e *DiagnosticError) Diagnostic() diagnostics.Diagnostic {
	if len(e.Diagnostics) == 0 {
		return diagnostics.MakeDiag(diagnostics.ESyntax, "invalid program", nil, "")
	}
	return e.Diagnostics[0]
}

// Diagnostics extracts every diagnostic carried by err.
func Diagnostics(err error) []diagnostics.Diagnostic {
	if de, ok := err.(*DiagnosticError); ok {
		return de.Diagnostics
	}
	return []diagnostics.Diagnostic{diagnostics.FromError(err)}
}
