package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/peterh/liner"

	"github.com/plume-lang/plume/pkg/evaluator"
	"github.com/plume-lang/plume/pkg/parser"
	"github.com/plume-lang/plume/pkg/runtime"
)

const (
	banner     = "Plume v0.3. Type :help for commands, :quit to exit."
	promptCont = "... "
	replFile   = "<repl>"
)

var errAborted = errors.New("input aborted")

const replHelp = `:vars   list bound variables
:help   show this message
:quit   leave the session
`

// linerReader prompts through the line editor, so `input` calls made from
// the REPL share its history and key bindings.
type linerReader struct {
	state *liner.State
}

func (r *linerReader) ReadLine(prompt string) (string, error) {
	line, err := r.state.Prompt(prompt)
	if errors.Is(err, liner.ErrPromptAborted) {
		return "", errAborted
	}
	return line, err
}

func (c *cli) cmdRepl(_ []string) int {
	var reader evaluator.LineReader
	if f, ok := c.stdin.(*os.File); ok && isTerminal(f) && liner.TerminalSupported() {
		ln := liner.NewLiner()
		defer ln.Close()
		ln.SetCtrlCAborts(true)

		if path := c.cfg.HistoryPath(); path != "" {
			if f, err := os.Open(path); err == nil {
				_, _ = ln.ReadHistory(f)
				_ = f.Close()
			}
			defer func() {
				if f, err := os.Create(path); err == nil {
					_, _ = ln.WriteHistory(f)
					_ = f.Close()
				}
			}()
			reader = &historyReader{linerReader{ln}}
		} else {
			reader = &linerReader{ln}
		}
		fmt.Fprintln(c.stdout, banner)
	} else {
		reader = evaluator.NewLineReader(c.stdin, c.stdout)
	}

	rt := runtime.New(
		runtime.WithStdout(c.stdout),
		runtime.WithLineReader(reader),
		runtime.WithMaxIterations(c.cfg.Limits.MaxIterations),
		runtime.WithRunID("repl"),
	)
	return c.replLoop(rt.NewSession(), reader)
}

// historyReader records each complete snippet in the editor history.
type historyReader struct {
	linerReader
}

func (c *cli) replLoop(session *runtime.Session, reader evaluator.LineReader) int {
	for {
		src, ok := readByParseProbe(reader, c.cfg.REPL.Prompt, promptCont)
		if !ok {
			fmt.Fprintln(c.stdout)
			return exitOK
		}

		trimmed := strings.TrimSpace(src)
		if trimmed == "" {
			continue
		}
		if h, ok := reader.(*historyReader); ok {
			h.state.AppendHistory(strings.ReplaceAll(src, "\n", " "))
		}

		if strings.HasPrefix(trimmed, ":") {
			switch strings.ToLower(trimmed) {
			case ":quit", ":q":
				return exitOK
			case ":help":
				fmt.Fprint(c.stdout, replHelp)
			case ":vars":
				for _, name := range session.Names() {
					v, _ := session.Lookup(name)
					fmt.Fprintf(c.stdout, "%s = %s\n", name, evaluator.Describe(v))
				}
			default:
				fmt.Fprintln(c.stdout, "unknown command. Type :help for commands.")
			}
			continue
		}

		result, err := session.Eval(src, replFile)
		if err != nil {
			c.report(err)
			continue
		}
		if _, isNone := result.Value.(evaluator.None); !isNone {
			fmt.Fprintln(c.stdout, evaluator.FormatValue(result.Value))
		}
	}
}

// readByParseProbe keeps prompting while the accumulated source ends in the
// middle of a statement. It returns false at end of input; Ctrl-C discards
// the pending snippet.
func readByParseProbe(reader evaluator.LineReader, prompt, cont string) (string, bool) {
	var b strings.Builder

	for {
		p := prompt
		if b.Len() > 0 {
			p = cont
		}
		line, err := reader.ReadLine(p)
		if errors.Is(err, errAborted) {
			return "", true
		}
		if err != nil {
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if !parser.Incomplete(src) {
			return src, true
		}
	}
}
