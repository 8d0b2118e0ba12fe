package lexer

import (
	"testing"

	"github.com/plume-lang/plume/pkg/token"
)

// FuzzTokenize feeds random inputs to the lexer to catch panics.
// The lexer should never panic; invalid input returns an error.
func FuzzTokenize(f *testing.F) {
	seeds := []string{
		`log("hello")`,
		`x = 1`,
		`var(x, [1, 2, 3])`,
		`for(i, 0, 5, log(i))`,
		`if(eq(1,2), "a", elif(eq(1,1), "b"), "c")`,
		`(1, 2, 3)`,
		`3.14 1.2.3 ...`,
		`'single' "double"`,
		`# comment only`,
		``,
		"\t\n\r",
		`"unterminated`,
		`'`,
		`@#$^&`,
		`héllo wörld`,
	}

	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, input string) {
		tokens, err := Tokenize(input, "fuzz.plm")
		if err != nil {
			return
		}
		if len(tokens) == 0 || tokens[len(tokens)-1].Kind != token.Eof {
			t.Fatalf("token stream for %q is not Eof-terminated", input)
		}
	})
}
