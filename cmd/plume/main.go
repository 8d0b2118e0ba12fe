// Command plume is the Plume CLI entry point.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/plume-lang/plume/pkg/ast"
	"github.com/plume-lang/plume/pkg/config"
	"github.com/plume-lang/plume/pkg/diagnostics"
	"github.com/plume-lang/plume/pkg/evaluator"
	"github.com/plume-lang/plume/pkg/formatter"
	"github.com/plume-lang/plume/pkg/help"
	"github.com/plume-lang/plume/pkg/runtime"
)

const (
	exitOK      = 0
	exitUsage   = 1
	exitDiag    = 2
	exitRuntime = 4
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// cli carries the process streams and settings shared by every command.
type cli struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	cfg    *config.Config
	style  diagnostics.Style
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	c := &cli{stdin: stdin, stdout: stdout, stderr: stderr, style: diagnostics.StylePretty}
	if len(args) == 0 {
		fmt.Fprintln(stderr, "usage: plume <command> [options]")
		fmt.Fprintln(stderr, "commands: run, check, fmt, tokens, ast, trace, repl, help")
		return exitUsage
	}

	cwd, _ := os.Getwd()
	cfg, err := config.Discover(config.SearchDirs(cwd)...)
	if err != nil {
		c.report(err)
		return exitUsage
	}
	c.cfg = cfg
	c.style = cfg.Style(isTerminal(stderr))

	cmd := args[0]
	switch cmd {
	case "run":
		return c.cmdRun(args[1:])
	case "check":
		return c.cmdCheck(args[1:])
	case "fmt":
		return c.cmdFmt(args[1:])
	case "tokens":
		return c.cmdDump(args[1:], "tokens")
	case "ast":
		return c.cmdDump(args[1:], "ast")
	case "trace":
		return c.cmdTrace(args[1:])
	case "repl":
		return c.cmdRepl(args[1:])
	case "help", "--help", "-h":
		return c.cmdHelp(args[1:])
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", cmd)
		return exitUsage
	}
}

// styleFlag applies the shared --json/--color flags. It reports whether
// arg was one of them.
func (c *cli) styleFlag(arg string) bool {
	switch arg {
	case "--json":
		c.style = diagnostics.StyleJSON
	case "--color":
		c.style = diagnostics.StyleColor
	default:
		return false
	}
	return true
}

func (c *cli) cmdRun(args []string) int {
	var file, tracePath string
	printResult := false
	strict := false
	maxIterations := c.cfg.Limits.MaxIterations

	for i := 0; i < len(args); i++ {
		switch arg := args[i]; arg {
		case "--print-result":
			printResult = true
		case "--strict":
			strict = true
		case "--trace", "--max-iterations":
			if i+1 >= len(args) {
				fmt.Fprintf(c.stderr, "%s requires a value\n", arg)
				return exitUsage
			}
			i++
			if arg == "--trace" {
				tracePath = args[i]
				continue
			}
			n, err := strconv.ParseInt(args[i], 10, 64)
			if err != nil || n < 0 {
				fmt.Fprintf(c.stderr, "--max-iterations expects a non-negative integer, got %q\n", args[i])
				return exitUsage
			}
			maxIterations = n
		default:
			if c.styleFlag(arg) {
				continue
			}
			if arg == "-" || !strings.HasPrefix(arg, "-") {
				file = arg
			}
		}
	}

	if file == "" {
		fmt.Fprintln(c.stderr, "usage: plume run <file|-> [--json] [--color] [--trace <file>] [--print-result] [--strict] [--max-iterations <n>]")
		return exitUsage
	}

	source, filename, code := c.readSource(file)
	if code != exitOK {
		return code
	}

	opts := []runtime.Option{
		runtime.WithStdout(c.stdout),
		runtime.WithStdin(c.stdin),
		runtime.WithMaxIterations(maxIterations),
		runtime.WithStrict(strict),
		runtime.WithRunID(fmt.Sprintf("run-%d", time.Now().UnixNano())),
	}
	var trace *traceWriter
	if tracePath != "" {
		f, err := os.Create(tracePath)
		if err != nil {
			c.report(fmt.Errorf("cannot write trace file: %s", tracePath))
			return exitUsage
		}
		trace = newTraceWriter(f)
		opts = append(opts, runtime.WithTrace(trace.write))
	}

	result, err := runtime.New(opts...).Run(source, filename)
	if trace != nil {
		if traceErr := trace.close(); traceErr != nil {
			c.report(fmt.Errorf("cannot write trace file %s: %w", tracePath, traceErr))
			if err == nil {
				return exitUsage
			}
		}
	}
	if err != nil {
		c.report(err)
		return exitCode(err)
	}

	if printResult && result != nil && result.Value != nil {
		if c.style == diagnostics.StyleJSON {
			out, err := evaluator.ValueToJSON(result.Value)
			if err != nil {
				fmt.Fprintf(c.stderr, "error serializing result: %s\n", err)
				return exitRuntime
			}
			fmt.Fprintln(c.stdout, string(out))
		} else {
			fmt.Fprintln(c.stdout, evaluator.FormatValue(result.Value))
		}
	}
	return exitOK
}

func (c *cli) cmdCheck(args []string) int {
	var file string
	for _, arg := range args {
		if c.styleFlag(arg) {
			continue
		}
		if arg == "-" || !strings.HasPrefix(arg, "-") {
			file = arg
		}
	}

	if file == "" {
		fmt.Fprintln(c.stderr, "usage: plume check <file|-> [--json] [--color]")
		return exitUsage
	}

	source, filename, code := c.readSource(file)
	if code != exitOK {
		return code
	}

	diags := runtime.New().Check(source, filename)
	if len(diags) > 0 {
		fmt.Fprintln(c.stderr, diagnostics.FormatDiagnostics(diags, c.style))
		return exitDiag
	}

	if c.style == diagnostics.StyleJSON {
		fmt.Fprintln(c.stdout, "[]")
	} else {
		fmt.Fprintln(c.stdout, "No errors found.")
	}
	return exitOK
}

func (c *cli) cmdFmt(args []string) int {
	var file string
	write := false
	check := false

	for _, arg := range args {
		switch arg {
		case "--write":
			write = true
		case "--check":
			check = true
		default:
			if c.styleFlag(arg) {
				continue
			}
			if arg == "-" || !strings.HasPrefix(arg, "-") {
				file = arg
			}
		}
	}

	if file == "" || (write && file == "-") {
		fmt.Fprintln(c.stderr, "usage: plume fmt <file> [--write | --check]")
		return exitUsage
	}

	source, filename, code := c.readSource(file)
	if code != exitOK {
		return code
	}

	formatted, err := runtime.New().Format(source, filename)
	if err != nil {
		c.report(err)
		return exitCode(err)
	}

	if formatter.HasComments(source) {
		fmt.Fprintln(c.stderr, "warning: comments are not preserved by the formatter")
	}

	switch {
	case check:
		if formatted != source {
			fmt.Fprintf(c.stderr, "%s is not formatted\n", filename)
			return exitUsage
		}
	case write:
		if err := os.WriteFile(file, []byte(formatted), 0644); err != nil {
			fmt.Fprintf(c.stderr, "error writing file: %s\n", err)
			return exitUsage
		}
	default:
		fmt.Fprint(c.stdout, formatted)
	}
	return exitOK
}

// cmdDump prints the token stream or syntax tree of a file.
func (c *cli) cmdDump(args []string, what string) int {
	var file string
	format := "json"

	for i := 0; i < len(args); i++ {
		switch arg := args[i]; arg {
		case "--format":
			if i+1 >= len(args) {
				fmt.Fprintln(c.stderr, "--format requires a value")
				return exitUsage
			}
			i++
			format = args[i]
		default:
			if c.styleFlag(arg) {
				continue
			}
			if arg == "-" || !strings.HasPrefix(arg, "-") {
				file = arg
			}
		}
	}

	if file == "" || (format != "json" && format != "yaml") {
		fmt.Fprintf(c.stderr, "usage: plume %s <file|-> [--format json|yaml]\n", what)
		return exitUsage
	}

	source, filename, code := c.readSource(file)
	if code != exitOK {
		return code
	}

	rt := runtime.New()
	var data any
	if what == "tokens" {
		tokens, err := rt.Tokens(source, filename)
		if err != nil {
			c.report(err)
			return exitCode(err)
		}
		data = tokens
	} else {
		program, err := rt.Compile(source, filename)
		if err != nil {
			c.report(err)
			return exitCode(err)
		}
		data = ast.Dump(program)
	}

	var out []byte
	var err error
	if format == "yaml" {
		out, err = yaml.Marshal(data)
	} else {
		out, err = json.MarshalIndent(data, "", "  ")
		out = append(out, '\n')
	}
	if err != nil {
		fmt.Fprintf(c.stderr, "error serializing %s: %s\n", what, err)
		return exitUsage
	}
	_, _ = c.stdout.Write(out)
	return exitOK
}

func (c *cli) cmdHelp(args []string) int {
	topic := ""
	for _, arg := range args {
		if !strings.HasPrefix(arg, "-") {
			topic = arg
		}
	}

	if topic == "" {
		fmt.Fprint(c.stdout, help.QUICKREF)
		return exitOK
	}

	_, content, err := help.MatchTopic(topic)
	if err != nil {
		fmt.Fprintf(c.stderr, "%s\nAvailable topics: %s\n", err, strings.Join(help.TopicList, ", "))
		return exitUsage
	}
	fmt.Fprint(c.stdout, content)
	return exitOK
}

// readSource loads a program from a path, or from stdin for "-".
func (c *cli) readSource(file string) (string, string, int) {
	if file == "-" {
		data, err := io.ReadAll(c.stdin)
		if err != nil {
			c.report(fmt.Errorf("cannot read stdin: %w", err))
			return "", "", exitUsage
		}
		return string(data), "<stdin>", exitOK
	}

	source, err := os.ReadFile(file)
	if err != nil {
		c.report(fmt.Errorf("cannot read file: %s", file))
		return "", "", exitUsage
	}
	return string(source), file, exitOK
}

// report prints every diagnostic carried by err to stderr.
func (c *cli) report(err error) {
	fmt.Fprintln(c.stderr, diagnostics.FormatDiagnostics(runtime.Diagnostics(err), c.style))
}

// exitCode maps an error to the process exit status by where it came from.
func exitCode(err error) int {
	var diagErr *runtime.DiagnosticError
	if errors.As(err, &diagErr) {
		return exitDiag
	}
	var rtErr *evaluator.RuntimeError
	if errors.As(err, &rtErr) {
		return exitRuntime
	}
	return exitUsage
}

func isTerminal(w any) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
