// Package help holds the text behind `plume help`.
package help

import (
	"fmt"
	"sort"
	"strings"

	"github.com/plume-lang/plume/pkg/stdlib"
)

// QUICKREF is printed by `plume help` with no topic.
const QUICKREF = `Plume v0.3 quick reference

  plume run <file|->      run a program
  plume check <file>      lex, parse and validate without running
  plume fmt <file>        print the canonical formatting
  plume tokens <file>     dump the token stream
  plume ast <file>        dump the syntax tree
  plume trace <file>      summarize a --trace NDJSON file
  plume repl              interactive session
  plume help <topic>      topics: syntax, builtins, forms, diagnostics, config, examples

A program is a list of statements. Every statement is an assignment,
a function call or a parenthesized block:

  name = input("name? ")
  if(eq(name, ""), log("hello, stranger"), log(add("hello, ", name)))
`

// TopicList is the display order of help topics.
var TopicList = []string{"syntax", "builtins", "forms", "diagnostics", "config", "examples"}

// Topics maps topic names to their text.
var Topics = map[string]string{
	"syntax": `SYNTAX

  program    := statement*
  statement  := assignment | call | block
  assignment := name '=' expr
  call       := name '(' args ')'
  block      := '(' args ')'           value of the last expression, None when empty
  list       := '[' args ']'
  args       := ( expr ( ',' expr )* ','? )?
  expr       := string | number | bool | list | block | call | assignment | name

Strings use '...' or "..." and have no escapes. Numbers containing '.'
are floats, otherwise ints. Comments run from # to the end of the line.
A bare name is only an expression; on its own line it is a syntax error.
`,

	"forms": `SPECIAL FORMS

Special forms receive their arguments unevaluated.

  var(name, expr)                         bind name to the value of expr
  if(cond, then, elif(c, e)..., fallback) first truthy branch wins; None if none do
  elif(cond, expr)                        a branch marker, meaningful inside if
  for(name, start, end, body...)          name runs over the ints in [start, end);
                                          the binding is removed after the loop

Falsy values: None, false, 0, 0.0, "" and []. Everything else is truthy.
`,

	"diagnostics": `DIAGNOSTICS

  E_LEX      illegal character or unterminated string
  E_SYNTAX   malformed program, or misuse of a special form
  E_NAME     undefined variable or function
  E_ARITY    wrong number of arguments
  E_TYPE     operand of the wrong type
  E_RUNTIME  division by zero, index out of range, overflow, bad number literal
  E_LIMIT    iteration limit exceeded
  E_IO       standard input or output failure
  E_CONFIG   invalid plume.yaml

Exit codes: 0 ok, 1 usage or I/O, 2 lex/syntax/validation, 4 runtime.
Use --json for machine-readable diagnostics and --color for ANSI output.
`,

	"config": `CONFIGURATION

plume.yaml is read from the current directory, then ~/.config/plume/.
Command-line flags override it.

  diagnostics:
    format: auto          # auto | pretty | color | json
  limits:
    max_iterations: 0     # 0 means unlimited
  repl:
    history: ~/.plume_history
    prompt: "plume> "
`,

	"examples": `EXAMPLES

  # countdown
  for(i, 0, 3, log(sub(3, i)))

  # grading
  score = 72
  grade = if(gte(score, 90), "A", elif(gte(score, 70), "B"), "C")
  log("grade:", grade)

  # strings and lists
  xs = [1, 2.5, "three"]
  log(len(xs), index(xs, 2), str(xs))
`,
}

func init() {
	Topics["builtins"] = BuiltinIndex()
}

// BuiltinIndex lists every builtin with its one-line description.
func BuiltinIndex() string {
	reg := stdlib.Default()
	names := reg.Names()

	var b strings.Builder
	b.WriteString("BUILTINS\n\n")
	for _, name := range names {
		fn := reg.Get(name)
		arity := "any"
		if fn.Arity >= 0 {
			arity = fmt.Sprint(fn.Arity)
		}
		fmt.Fprintf(&b, "  %-6s %-4s %s\n", name, arity, fn.Doc)
	}
	fmt.Fprintf(&b, "\nTotal: %d functions\n", len(names))
	return b.String()
}

// MatchTopic resolves an exact topic name or an unambiguous prefix.
func MatchTopic(query string) (string, string, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if content, ok := Topics[q]; ok {
		return q, content, nil
	}

	var matches []string
	for _, name := range TopicList {
		if q != "" && strings.HasPrefix(name, q) {
			matches = append(matches, name)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], Topics[matches[0]], nil
	case 0:
		return "", "", fmt.Errorf("unknown help topic %q (available: %s)", query, strings.Join(TopicList, ", "))
	}
	sort.Strings(matches)
	return "", "", fmt.Errorf("ambiguous help topic %q (matches: %s)", query, strings.Join(matches, ", "))
}
