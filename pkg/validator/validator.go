// Package validator implements static checks over Plume programs.
package validator

import (
	"fmt"
	"strconv"

	"github.com/plume-lang/plume/pkg/ast"
	"github.com/plume-lang/plume/pkg/diagnostics"
	"github.com/plume-lang/plume/pkg/evaluator"
)

// formArity gives the minimum argument count of each special form and
// whether more are allowed.
var formArity = map[string]struct {
	min     int
	atLeast bool
}{
	"var":  {2, false},
	"elif": {2, false},
	"if":   {2, true},
	"for":  {3, true},
}

type validator struct {
	diags    []diagnostics.Diagnostic
	builtins map[string]*evaluator.Builtin
}

// Validate checks program against the given builtin table without running
// it and returns every problem found. Checks that depend on runtime values
// are left to the evaluator.
func Validate(program *ast.Program, builtins map[string]*evaluator.Builtin) []diagnostics.Diagnostic {
	v := &validator{builtins: builtins}
	for _, stmt := range program.Statements {
		v.visit(stmt, false)
	}
	return v.diags
}

func (v *validator) addDiag(code string, n ast.Node, hint, format string, args ...any) {
	loc := ast.Loc(n)
	v.diags = append(v.diags, diagnostics.MakeDiag(code, fmt.Sprintf(format, args...), &loc, hint))
}

// visit walks n. inIfBranch is set for the elif-position arguments of an if.
func (v *validator) visit(n ast.Node, inIfBranch bool) {
	switch node := n.(type) {
	case *ast.NumberLiteral:
		v.checkNumber(node)
	case *ast.Assignment:
		v.visit(node.Expr, false)
	case *ast.Block:
		v.visitAll(node.Exprs)
	case *ast.ListLiteral:
		v.visitAll(node.Elements)
	case *ast.FunctionCall:
		v.checkCall(node, inIfBranch)
	}
}

func (v *validator) visitAll(nodes []ast.Node) {
	for _, n := range nodes {
		v.visit(n, false)
	}
}

func (v *validator) checkNumber(n *ast.NumberLiteral) {
	var err error
	if n.IsFloat() {
		_, err = strconv.ParseFloat(n.Raw, 64)
	} else {
		_, err = strconv.ParseInt(n.Raw, 10, 64)
	}
	if err != nil {
		v.addDiag(diagnostics.ESyntax, n, "", "invalid number literal '%s'", n.Raw)
	}
}

func (v *validator) checkCall(call *ast.FunctionCall, inIfBranch bool) {
	if evaluator.IsSpecialForm(call.Name) {
		v.checkForm(call, inIfBranch)
		return
	}

	fn, ok := v.builtins[call.Name]
	switch {
	case !ok:
		v.addDiag(diagnostics.EName, call, "run 'plume help builtins' for the list of functions",
			"undefined function '%s'", call.Name)
	case fn.Arity >= 0 && len(call.Args) != fn.Arity:
		v.addDiag(diagnostics.EArity, call, "", "'%s' expects %d argument(s), got %d", call.Name, fn.Arity, len(call.Args))
	}
	v.visitAll(call.Args)
}

func (v *validator) checkForm(call *ast.FunctionCall, inIfBranch bool) {
	arity := formArity[call.Name]
	got := len(call.Args)
	if got < arity.min || (!arity.atLeast && got > arity.min) {
		qualifier := ""
		if arity.atLeast {
			qualifier = "at least "
		}
		v.addDiag(diagnostics.EArity, call, "", "'%s' expects %s%d argument(s), got %d", call.Name, qualifier, arity.min, got)
	}

	switch call.Name {
	case "var", "for":
		if got > 0 {
			if _, ok := call.Args[0].(*ast.VarAccess); !ok {
				v.addDiag(diagnostics.ESyntax, call.Args[0], "", "%s expects an identifier as its first argument", call.Name)
			}
			v.visitAll(call.Args[1:])
		}
	case "elif":
		if !inIfBranch {
			v.addDiag(diagnostics.ESyntax, call, "elif(cond, expr) is only meaningful as a branch of if",
				"elif used outside of an if")
		}
		v.visitAll(call.Args)
	case "if":
		v.checkIf(call)
	}
}

func (v *validator) checkIf(call *ast.FunctionCall) {
	for i, arg := range call.Args {
		if i < 2 {
			v.visit(arg, false)
			continue
		}
		isElif := false
		if c, ok := arg.(*ast.FunctionCall); ok && c.Name == "elif" {
			isElif = true
		}
		if !isElif && i != len(call.Args)-1 {
			v.addDiag(diagnostics.ESyntax, arg, "only the last argument of if may be a fallback",
				"if expects elif(...) branches before the final fallback")
		}
		v.visit(arg, isElif)
	}
}
