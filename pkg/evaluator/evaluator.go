package evaluator

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/plume-lang/plume/pkg/ast"
	"github.com/plume-lang/plume/pkg/diagnostics"
	"github.com/plume-lang/plume/pkg/token"
)

// TraceEventType identifies the type of a trace event.
type TraceEventType string

const (
	TraceRunStart      TraceEventType = "run_start"
	TraceRunEnd        TraceEventType = "run_end"
	TraceStmtStart     TraceEventType = "stmt_start"
	TraceStmtEnd       TraceEventType = "stmt_end"
	TraceCallStart     TraceEventType = "call_start"
	TraceCallEnd       TraceEventType = "call_end"
	TraceForStart      TraceEventType = "for_start"
	TraceForEnd        TraceEventType = "for_end"
	TraceLimitExceeded TraceEventType = "limit_exceeded"
)

// TraceEvent represents a single trace event emitted during execution.
type TraceEvent struct {
	Timestamp string          `json:"ts"`
	RunID     string          `json:"runId"`
	Event     TraceEventType  `json:"event"`
	Loc       *token.Location `json:"loc,omitempty"`
	Data      map[string]any  `json:"data,omitempty"`
}

// Call carries what a builtin may touch besides its arguments.
type Call struct {
	Name   string
	Loc    token.Location
	Stdout io.Writer
	Stdin  LineReader
}

// Builtin is a host operation callable from Plume code. Arguments are
// evaluated before Execute runs.
type Builtin struct {
	Name string
	// Arity is the exact argument count, or -1 for variadic.
	Arity   int
	Execute func(call *Call, args []Value) (Value, error)
}

// ExecOptions configures program execution.
type ExecOptions struct {
	Builtins      map[string]*Builtin
	Stdout        io.Writer
	Stdin         LineReader
	Trace         func(event TraceEvent)
	RunID         string
	MaxIterations int64
}

// ExecResult holds the result of a program execution.
type ExecResult struct {
	Value Value
	Usage Usage
}

// RuntimeError is a fatal error raised while evaluating a program.
type RuntimeError struct {
	Code    string
	Message string
	Loc     *token.Location
}

func (e *RuntimeError) Error() string {
	return e.Message
}

// Diagnostic converts the error into a diagnostic.
func (e *RuntimeError) Diagnostic() diagnostics.Diagnostic {
	return diagnostics.MakeDiag(e.Code, e.Message, e.Loc, "")
}

// Errorf builds a RuntimeError without a location. The evaluator fills in
// the location of the call that produced it.
func Errorf(code, format string, args ...any) *RuntimeError {
	return &RuntimeError{Code: code, Message: fmt.Sprintf(format, args...)}
}

type formFn func(ev *evaluator, call *ast.FunctionCall) (Value, error)

// specialForms receive their arguments unevaluated. Filled in init because
// the forms reach back into evalCall.
var specialForms map[string]formFn

func init() {
	specialForms = map[string]formFn{
		"var":  (*evaluator).formVar,
		"if":   (*evaluator).formIf,
		"elif": (*evaluator).formElif,
		"for":  (*evaluator).formFor,
	}
}

// IsSpecialForm reports whether name is dispatched as a special form.
func IsSpecialForm(name string) bool {
	_, ok := specialForms[name]
	return ok
}

type evaluator struct {
	opts   ExecOptions
	env    *Env
	limits Limits
	usage  Usage
}

// Interpreter evaluates successive programs against one environment.
type Interpreter struct {
	ev *evaluator
}

// NewInterpreter creates an interpreter with an empty environment.
func NewInterpreter(opts ExecOptions) *Interpreter {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stdin == nil {
		opts.Stdin = NewLineReader(os.Stdin, opts.Stdout)
	}
	if opts.Builtins == nil {
		opts.Builtins = map[string]*Builtin{}
	}
	return &Interpreter{ev: &evaluator{
		opts:   opts,
		env:    NewEnv(),
		limits: Limits{MaxIterations: opts.MaxIterations},
	}}
}

// Env exposes the interpreter's variable namespace.
func (it *Interpreter) Env() *Env {
	return it.ev.env
}

// Run executes program and returns the value of its last statement.
// Usage counters restart for every run.
func (it *Interpreter) Run(program *ast.Program) (*ExecResult, error) {
	ev := it.ev
	ev.usage = Usage{}

	loc := program.Token.Start
	ev.emit(TraceRunStart, &loc)
	val, err := ev.executeStatements(program.Statements)
	ev.emitWithData(TraceRunEnd, &loc, map[string]any{"ok": err == nil})

	if err != nil {
		return &ExecResult{Usage: ev.usage}, err
	}
	return &ExecResult{Value: val, Usage: ev.usage}, nil
}

// Execute runs a Plume program in a fresh environment.
func Execute(program *ast.Program, opts ExecOptions) (*ExecResult, error) {
	return NewInterpreter(opts).Run(program)
}

func (ev *evaluator) emit(event TraceEventType, loc *token.Location) {
	ev.emitWithData(event, loc, nil)
}

func (ev *evaluator) emitWithData(event TraceEventType, loc *token.Location, data map[string]any) {
	if ev.opts.Trace != nil {
		ev.opts.Trace(TraceEvent{
			Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
			RunID:     ev.opts.RunID,
			Event:     event,
			Loc:       loc,
			Data:      data,
		})
	}
}

func (ev *evaluator) executeStatements(stmts []ast.Node) (Value, error) {
	var lastVal Value = NewNone()

	for _, stmt := range stmts {
		loc := ast.Loc(stmt)
		ev.emit(TraceStmtStart, &loc)

		val, err := ev.evaluate(stmt)
		if err != nil {
			return nil, err
		}
		lastVal = val

		ev.emit(TraceStmtEnd, &loc)
	}

	return lastVal, nil
}

func (ev *evaluator) evaluate(node ast.Node) (Value, error) {
	switch n := node.(type) {
	case *ast.Program:
		return ev.executeStatements(n.Statements)

	case *ast.StringLiteral:
		return NewStr(n.Value), nil

	case *ast.NumberLiteral:
		return evalNumber(n)

	case *ast.BoolLiteral:
		return NewBool(n.Raw == "true"), nil

	case *ast.NoneValue:
		return NewNone(), nil

	case *ast.ListLiteral:
		items := make([]Value, 0, len(n.Elements))
		for _, el := range n.Elements {
			val, err := ev.evaluate(el)
			if err != nil {
				return nil, err
			}
			items = append(items, val)
		}
		return NewList(items), nil

	case *ast.VarAccess:
		val, ok := ev.env.Get(n.Name)
		if !ok {
			return nil, nodeError(diagnostics.EName, n, "undefined variable '%s'", n.Name)
		}
		return val, nil

	case *ast.Assignment:
		val, err := ev.evaluate(n.Expr)
		if err != nil {
			return nil, err
		}
		ev.env.Set(n.Name, val)
		return val, nil

	case *ast.Block:
		var last Value = NewNone()
		for _, expr := range n.Exprs {
			val, err := ev.evaluate(expr)
			if err != nil {
				return nil, err
			}
			last = val
		}
		return last, nil

	case *ast.Elif:
		return ElifMarker{Node: n}, nil

	case *ast.FunctionCall:
		return ev.evalCall(n)
	}

	return nil, nodeError(diagnostics.ERuntime, node, "unsupported node type: %s", node.Kind())
}

func evalNumber(n *ast.NumberLiteral) (Value, error) {
	if n.IsFloat() {
		f, err := strconv.ParseFloat(n.Raw, 64)
		if err != nil {
			return nil, nodeError(diagnostics.ERuntime, n, "invalid number literal '%s'", n.Raw)
		}
		return NewFloat(f), nil
	}
	i, err := strconv.ParseInt(n.Raw, 10, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return nil, nodeError(diagnostics.ERuntime, n, "integer literal '%s' out of range", n.Raw)
		}
		return nil, nodeError(diagnostics.ERuntime, n, "invalid number literal '%s'", n.Raw)
	}
	return NewInt(i), nil
}

func (ev *evaluator) evalCall(call *ast.FunctionCall) (Value, error) {
	if form, ok := specialForms[call.Name]; ok {
		return form(ev, call)
	}

	fn, ok := ev.opts.Builtins[call.Name]
	if !ok {
		return nil, nodeError(diagnostics.EName, call, "undefined function '%s'", call.Name)
	}

	args := make([]Value, 0, len(call.Args))
	for _, arg := range call.Args {
		val, err := ev.evaluate(arg)
		if err != nil {
			return nil, err
		}
		args = append(args, val)
	}

	if fn.Arity >= 0 && len(args) != fn.Arity {
		return nil, nodeError(diagnostics.EArity, call, "'%s' expects %s, got %d", call.Name, plural(fn.Arity, "argument"), len(args))
	}

	loc := ast.Loc(call)
	ev.usage.Calls++
	ev.emitWithData(TraceCallStart, &loc, map[string]any{"fn": call.Name})

	result, err := fn.Execute(&Call{
		Name:   call.Name,
		Loc:    loc,
		Stdout: ev.opts.Stdout,
		Stdin:  ev.opts.Stdin,
	}, args)

	ev.emitWithData(TraceCallEnd, &loc, map[string]any{"fn": call.Name, "ok": err == nil})

	if err != nil {
		return nil, locate(err, loc)
	}
	if result == nil {
		result = NewNone()
	}
	return result, nil
}

// locate attaches loc to errors returned by builtins.
func locate(err error, loc token.Location) error {
	var rtErr *RuntimeError
	if errors.As(err, &rtErr) {
		if rtErr.Loc == nil {
			rtErr.Loc = &loc
		}
		return rtErr
	}
	return &RuntimeError{Code: diagnostics.EIO, Message: err.Error(), Loc: &loc}
}

// --- Special forms ---

func (ev *evaluator) formVar(call *ast.FunctionCall) (Value, error) {
	if err := checkFormArity(call, 2, false); err != nil {
		return nil, err
	}
	target, ok := call.Args[0].(*ast.VarAccess)
	if !ok {
		return nil, nodeError(diagnostics.ESyntax, call.Args[0], "var expects an identifier as its first argument")
	}
	val, err := ev.evaluate(call.Args[1])
	if err != nil {
		return nil, err
	}
	ev.env.Set(target.Name, val)
	return val, nil
}

func (ev *evaluator) formElif(call *ast.FunctionCall) (Value, error) {
	if err := checkFormArity(call, 2, false); err != nil {
		return nil, err
	}
	return ElifMarker{Node: &ast.Elif{Token: call.Token, Cond: call.Args[0], Expr: call.Args[1]}}, nil
}

func (ev *evaluator) formIf(call *ast.FunctionCall) (Value, error) {
	if err := checkFormArity(call, 2, true); err != nil {
		return nil, err
	}

	cond, err := ev.evaluate(call.Args[0])
	if err != nil {
		return nil, err
	}
	if Truthiness(cond) {
		return ev.evaluate(call.Args[1])
	}

	rest := call.Args[2:]
	for i, arg := range rest {
		if elifCall, ok := arg.(*ast.FunctionCall); ok && elifCall.Name == "elif" {
			marker, err := ev.formElif(elifCall)
			if err != nil {
				return nil, err
			}
			branch := marker.(ElifMarker).Node
			c, err := ev.evaluate(branch.Cond)
			if err != nil {
				return nil, err
			}
			if Truthiness(c) {
				return ev.evaluate(branch.Expr)
			}
			continue
		}
		if i == len(rest)-1 {
			return ev.evaluate(arg)
		}
		return nil, nodeError(diagnostics.ESyntax, arg, "if expects elif(...) branches before the final fallback")
	}

	return NewNone(), nil
}

func (ev *evaluator) formFor(call *ast.FunctionCall) (Value, error) {
	if err := checkFormArity(call, 3, true); err != nil {
		return nil, err
	}
	target, ok := call.Args[0].(*ast.VarAccess)
	if !ok {
		return nil, nodeError(diagnostics.ESyntax, call.Args[0], "for expects an identifier as its first argument")
	}
	start, err := ev.evalIntBound(call.Args[1], "start")
	if err != nil {
		return nil, err
	}
	end, err := ev.evalIntBound(call.Args[2], "end")
	if err != nil {
		return nil, err
	}

	loc := ast.Loc(call)
	ev.emitWithData(TraceForStart, &loc, map[string]any{"var": target.Name, "start": start, "end": end})
	defer ev.env.Delete(target.Name)

	body := call.Args[3:]
	for n := start; n < end; n++ {
		if err := ev.checkIterationLimit(loc); err != nil {
			return nil, err
		}
		ev.usage.Iterations++
		ev.env.Set(target.Name, NewInt(n))
		for _, expr := range body {
			if _, err := ev.evaluate(expr); err != nil {
				return nil, err
			}
		}
	}

	ev.emitWithData(TraceForEnd, &loc, map[string]any{"var": target.Name, "iterations": max(end-start, 0)})
	return NewNone(), nil
}

func (ev *evaluator) evalIntBound(node ast.Node, which string) (int64, error) {
	val, err := ev.evaluate(node)
	if err != nil {
		return 0, err
	}
	n, ok := val.(Int)
	if !ok {
		return 0, nodeError(diagnostics.EType, node, "for %s must be int, got %s", which, TypeName(val))
	}
	return n.Value, nil
}

// --- helpers ---

func checkFormArity(call *ast.FunctionCall, want int, atLeast bool) error {
	got := len(call.Args)
	if atLeast && got >= want || !atLeast && got == want {
		return nil
	}
	qualifier := ""
	if atLeast {
		qualifier = "at least "
	}
	return nodeError(diagnostics.EArity, call, "'%s' expects %s%s, got %d", call.Name, qualifier, plural(want, "argument"), got)
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

func nodeError(code string, node ast.Node, format string, args ...any) *RuntimeError {
	loc := ast.Loc(node)
	return &RuntimeError{Code: code, Message: fmt.Sprintf(format, args...), Loc: &loc}
}

// Describe renders a one-line summary of a value, quoting strings and
// truncating long output.
func Describe(v Value) string {
	s := FormatValue(v)
	if _, ok := v.(Str); ok {
		s = strconv.Quote(s)
	}
	const maxLen = 80
	if r := []rune(s); len(r) > maxLen {
		s = strings.TrimSpace(string(r[:maxLen-3])) + "..."
	}
	return s
}
