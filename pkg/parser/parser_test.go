package parser_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/plume-lang/plume/pkg/ast"
	"github.com/plume-lang/plume/pkg/diagnostics"
	"github.com/plume-lang/plume/pkg/parser"
	"github.com/plume-lang/plume/pkg/token"
)

// helper: parse source and assert no diagnostics
func mustParse(t *testing.T, source string) *ast.Program {
	t.Helper()
	prog, diags := parser.Parse(source, "test.plm")
	if len(diags) > 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if prog == nil {
		t.Fatal("expected non-nil program")
	}
	return prog
}

// helper: parse source and return its single syntax diagnostic
func mustFail(t *testing.T, source string) diagnostics.Diagnostic {
	t.Helper()
	prog, diags := parser.Parse(source, "test.plm")
	if prog != nil {
		t.Fatal("expected nil program on failure")
	}
	if len(diags) != 1 {
		t.Fatalf("expected exactly 1 diagnostic, got %d: %v", len(diags), diags)
	}
	return diags[0]
}

func single(t *testing.T, source string) ast.Node {
	t.Helper()
	prog := mustParse(t, source)
	if len(prog.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(prog.Statements))
	}
	return prog.Statements[0]
}

// shape renders a node tree as a compact s-expression for comparisons.
func shape(n ast.Node) string {
	var sb strings.Builder
	var walk func(ast.Node)
	list := func(head string, nodes []ast.Node) {
		sb.WriteString("(" + head)
		for _, c := range nodes {
			sb.WriteByte(' ')
			walk(c)
		}
		sb.WriteByte(')')
	}
	walk = func(n ast.Node) {
		switch v := n.(type) {
		case *ast.Program:
			list("program", v.Statements)
		case *ast.Block:
			list("block", v.Exprs)
		case *ast.FunctionCall:
			list("call "+v.Name, v.Args)
		case *ast.Assignment:
			list("set "+v.Name, []ast.Node{v.Expr})
		case *ast.ListLiteral:
			list("list", v.Elements)
		case *ast.StringLiteral:
			sb.WriteString(`"` + v.Value + `"`)
		case *ast.NumberLiteral:
			sb.WriteString(v.Raw)
		case *ast.BoolLiteral:
			sb.WriteString(v.Raw)
		case *ast.VarAccess:
			sb.WriteString("$" + v.Name)
		default:
			sb.WriteString("?" + n.Kind())
		}
	}
	walk(n)
	return sb.String()
}

func TestParseEmptyProgram(t *testing.T) {
	for _, src := range []string{"", "   \n\t", "# only a comment\n"} {
		prog := mustParse(t, src)
		if len(prog.Statements) != 0 {
			t.Errorf("Parse(%q): expected 0 statements, got %d", src, len(prog.Statements))
		}
	}
}

func TestParseShapes(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"call no args", `log()`, `(program (call log))`},
		{"call string", `log("hi")`, `(program (call log "hi"))`},
		{"call mixed", `add(1, 2.5, x)`, `(program (call add 1 2.5 $x))`},
		{"nested call", `log(add(1, mul(2, 3)))`, `(program (call log (call add 1 (call mul 2 3))))`},
		{"assignment number", `x = 5`, `(program (set x 5))`},
		{"assignment call", `y = add(x, 1)`, `(program (set y (call add $x 1)))`},
		{"assignment chain", `a = b = 1`, `(program (set a (set b 1)))`},
		{"assignment in args", `log(x = 3)`, `(program (call log (set x 3)))`},
		{"block statement", `(log(1), log(2))`, `(program (block (call log 1) (call log 2)))`},
		{"empty block", `()`, `(program (block))`},
		{"nested block", `((1))`, `(program (block (block 1)))`},
		{"list literal", `x = [1, "a", true, [2]]`, `(program (set x (list 1 "a" true (list 2))))`},
		{"empty list", `x = []`, `(program (set x (list)))`},
		{"bool literal", `log(false)`, `(program (call log false))`},
		{"trailing comma call", `log(1, 2,)`, `(program (call log 1 2))`},
		{"trailing comma list", `x = [1,]`, `(program (set x (list 1)))`},
		{"var in block", `(x)`, `(program (block $x))`},
		{
			"multiple statements",
			"x = 1\nlog(x)\n(x)",
			`(program (set x 1) (call log $x) (block $x))`,
		},
		{
			"if with elif",
			`if(eq(x, 1), log("one"), elif(eq(x, 2), log("two")), log("other"))`,
			`(program (call if (call eq $x 1) (call log "one") (call elif (call eq $x 2) (call log "two")) (call log "other")))`,
		},
		{
			"for loop",
			"for(i, 0, 3,\n  log(i),\n)",
			`(program (call for $i 0 3 (call log $i)))`,
		},
		{"comments ignored", "log(1) # tail\n# full line\nlog(2)", `(program (call log 1) (call log 2))`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			prog := mustParse(t, tc.src)
			if diff := cmp.Diff(tc.want, shape(prog)); diff != "" {
				t.Errorf("shape mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseStringLiteralKeepsValue(t *testing.T) {
	stmt := single(t, `log('it "quoted"')`)
	call := stmt.(*ast.FunctionCall)
	lit, ok := call.Args[0].(*ast.StringLiteral)
	if !ok {
		t.Fatalf("expected StringLiteral, got %T", call.Args[0])
	}
	if lit.Value != `it "quoted"` {
		t.Errorf("Value = %q", lit.Value)
	}
}

func TestParseNodeLocations(t *testing.T) {
	stmt := single(t, "\n  x = add(1,\n    y)")
	asg := stmt.(*ast.Assignment)
	want := token.Location{File: "test.plm", Line: 2, Column: 3}
	if diff := cmp.Diff(want, ast.Loc(asg)); diff != "" {
		t.Errorf("assignment loc (-want +got):\n%s", diff)
	}

	call := asg.Expr.(*ast.FunctionCall)
	if got := ast.Loc(call); got.Line != 2 || got.Column != 7 {
		t.Errorf("call loc = %v, want 2:7", got)
	}
	y := call.Args[1].(*ast.VarAccess)
	if got := ast.Loc(y); got.Line != 3 || got.Column != 5 {
		t.Errorf("y loc = %v, want 3:5", got)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		line    int
		col     int
		message string
	}{
		{"bare identifier", "x", 1, 1, "identifier 'x'"},
		{"bare number", "42", 1, 1, "unexpected '42'"},
		{"bare string", `"s"`, 1, 1, `unexpected 's'`},
		{"bare list", "[1]", 1, 1, "unexpected '['"},
		{"stray close paren", ")", 1, 1, "unexpected ')'"},
		{"missing comma", "log(1 2)", 1, 7, "expected ',' or ')'"},
		{"missing comma list", "x = [1 2]", 1, 8, "expected ',' or ']'"},
		{"unclosed call", "log(1,", 1, 7, "expected ')', got end of file"},
		{"unclosed block", "(1", 1, 3, "expected ',' or ')'"},
		{"unclosed list", "x = [1", 1, 7, "expected ',' or ']'"},
		{"missing assignment value", "x =", 1, 4, "unexpected end of file"},
		{"double comma", "log(1,,2)", 1, 7, "unexpected ','"},
		{"equals in expression", "log(=)", 1, 5, "unexpected '='"},
		{"mismatched close", "log(1]", 1, 6, "expected ',' or ')'"},
		{"error on later line", "log(1)\nlog(2))", 2, 7, "unexpected ')'"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := mustFail(t, tc.src)
			if d.Code != diagnostics.ESyntax {
				t.Errorf("Code = %q, want %q", d.Code, diagnostics.ESyntax)
			}
			if !strings.Contains(d.Message, tc.message) {
				t.Errorf("Message = %q, want substring %q", d.Message, tc.message)
			}
			if d.Loc == nil {
				t.Fatal("expected location")
			}
			if d.Loc.Line != tc.line || d.Loc.Column != tc.col {
				t.Errorf("Loc = %d:%d, want %d:%d", d.Loc.Line, d.Loc.Column, tc.line, tc.col)
			}
		})
	}
}

func TestParseLexErrorPropagates(t *testing.T) {
	d := mustFail(t, `log("open`)
	if d.Code != diagnostics.ELex {
		t.Errorf("Code = %q, want %q", d.Code, diagnostics.ELex)
	}
}

func TestParseTokensWithoutEOF(t *testing.T) {
	tokens := []token.Token{
		{Kind: token.Identifier, Value: "log"},
		{Kind: token.LeftParen, Value: "("},
		{Kind: token.RightParen, Value: ")"},
	}
	prog, diags := parser.ParseTokens(tokens)
	if len(diags) > 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if got := shape(prog); got != "(program (call log))" {
		t.Errorf("shape = %s", got)
	}
}

func TestParseDeterministic(t *testing.T) {
	src := `x = [1, (2, 3)]`
	if diff := cmp.Diff(shape(mustParse(t, src)), shape(mustParse(t, src))); diff != "" {
		t.Errorf("reparse mismatch:\n%s", diff)
	}
}

func TestIncomplete(t *testing.T) {
	tests := []struct {
		src  string
		want bool
	}{
		{"log(1,", true},
		{"if(true,\n  log(1)", true},
		{"x = [1, 2", true},
		{"x =", true},
		{`log("open`, true},
		{"log(1)", false},
		{"", false},
		{"log(1))", false},
		{"log(1 2", false},
		{"log($", false},
	}
	for _, tc := range tests {
		if got := parser.Incomplete(tc.src); got != tc.want {
			t.Errorf("Incomplete(%q) = %v, want %v", tc.src, got, tc.want)
		}
	}
}
