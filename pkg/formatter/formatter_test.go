package formatter_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/plume-lang/plume/pkg/formatter"
	"github.com/plume-lang/plume/pkg/parser"
)

func format(t *testing.T, src string) string {
	t.Helper()
	prog, diags := parser.Parse(src, "fmt.plm")
	if len(diags) > 0 {
		t.Fatalf("parse errors: %v", diags)
	}
	return formatter.Format(prog)
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"empty", "", ""},
		{"spacing", "log(  1,2 ,  3 )", "log(1, 2, 3)\n"},
		{"trailing comma dropped", "log(1, 2,)", "log(1, 2)\n"},
		{"assignment", "x=add(1,2)", "x = add(1, 2)\n"},
		{"block and list", "( [1,2] , x )", "([1, 2], x)\n"},
		{"string quotes", `log('a', "b", 'say "hi"', "it's")`, `log("a", "b", 'say "hi"', "it's")` + "\n"},
		{"bools and numbers", "log(true,1.50,007)", "log(true, 1.50, 007)\n"},
		{"comments dropped", "# header\nlog(1) # trailing\n\n\nlog(2)", "log(1)\nlog(2)\n"},
		{
			"long call breaks",
			`if(eq(answer, "forty-two"), log("the answer is correct and very long"), log("wrong answer"))`,
			"if(\n" +
				"  eq(answer, \"forty-two\"),\n" +
				"  log(\"the answer is correct and very long\"),\n" +
				"  log(\"wrong answer\"),\n" +
				")\n",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, format(t, tc.src)); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestFormatNestedBreaks(t *testing.T) {
	src := `for(i, 0, 10, log(add("a fairly long string literal number one", "and another fairly long literal")))`
	got := format(t, src)
	want := "for(\n" +
		"  i,\n" +
		"  0,\n" +
		"  10,\n" +
		"  log(\n" +
		"    add(\n" +
		"      \"a fairly long string literal number one\",\n" +
		"      \"and another fairly long literal\",\n" +
		"    ),\n" +
		"  ),\n" +
		")\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestFormatIdempotent(t *testing.T) {
	sources := []string{
		"x = [1, 2, [3, (4, 5)]]\nlog(x)",
		`if(eq(answer, "forty-two"), log("the answer is correct and very long"), elif(gt(answer, 1), log("more")), log("wrong answer"))`,
		"for(i, 0, 3, total = add(total, i), log(total))",
	}
	for _, src := range sources {
		once := format(t, src)
		twice := format(t, once)
		if diff := cmp.Diff(once, twice); diff != "" {
			t.Errorf("format not idempotent for %q (-once +twice):\n%s", src, diff)
		}
	}
}

func TestHasComments(t *testing.T) {
	tests := []struct {
		src  string
		want bool
	}{
		{"log(1)", false},
		{"# top\nlog(1)", true},
		{"log(1) # tail", true},
		{`log("# not a comment")`, false},
		{`log('# not a comment')`, false},
		{`log("it's") # after`, true},
		{strings.Repeat("log(1)\n", 3), false},
	}
	for _, tc := range tests {
		if got := formatter.HasComments(tc.src); got != tc.want {
			t.Errorf("HasComments(%q) = %v, want %v", tc.src, got, tc.want)
		}
	}
}
