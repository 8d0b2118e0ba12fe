package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/plume-lang/plume/pkg/evaluator"
)

// TraceSummary aggregates the events of one --trace file.
type TraceSummary struct {
	RunID         string         `json:"runId"`
	TotalEvents   int            `json:"totalEvents"`
	Statements    int            `json:"statements"`
	Calls         int            `json:"calls"`
	CallsByName   map[string]int `json:"callsByName"`
	Loops         int            `json:"loops"`
	Iterations    int64          `json:"iterations"`
	Failures      int            `json:"failures"`
	LimitExceeded int            `json:"limitExceeded"`
	StartTime     string         `json:"startTime,omitempty"`
	EndTime       string         `json:"endTime,omitempty"`
	DurationMs    float64        `json:"durationMs"`
}

// traceWriter encodes events as NDJSON. The first write error stops
// further writes and is returned by close.
type traceWriter struct {
	w   io.WriteCloser
	enc *json.Encoder
	err error
}

func newTraceWriter(w io.WriteCloser) *traceWriter {
	return &traceWriter{w: w, enc: json.NewEncoder(w)}
}

func (t *traceWriter) write(ev evaluator.TraceEvent) {
	if t.err != nil {
		return
	}
	t.err = t.enc.Encode(ev)
}

func (t *traceWriter) close() error {
	if err := t.w.Close(); err != nil && t.err == nil {
		t.err = err
	}
	return t.err
}

type traceLine struct {
	Event string         `json:"event"`
	RunID string         `json:"runId"`
	TS    string         `json:"ts"`
	Data  map[string]any `json:"data,omitempty"`
}

func (c *cli) cmdTrace(args []string) int {
	var file string
	textOutput := false

	for _, arg := range args {
		switch arg {
		case "--json":
			textOutput = false
		case "--text":
			textOutput = true
		default:
			if !strings.HasPrefix(arg, "-") {
				file = arg
			}
		}
	}

	if file == "" {
		fmt.Fprintln(c.stderr, "usage: plume trace <file.jsonl> [--json|--text]")
		return exitUsage
	}

	f, err := os.Open(file)
	if err != nil {
		c.report(fmt.Errorf("cannot read file: %s", file))
		return exitUsage
	}
	defer f.Close()

	summary, err := computeTraceSummary(f)
	if err != nil {
		c.report(fmt.Errorf("cannot read trace %s: %w", file, err))
		return exitUsage
	}

	if textOutput {
		printTraceSummaryText(c.stdout, summary)
		return exitOK
	}
	b, _ := json.Marshal(summary)
	fmt.Fprintln(c.stdout, string(b))
	return exitOK
}

// computeTraceSummary reads NDJSON trace events. Lines that are not valid
// JSON are skipped.
func computeTraceSummary(r io.Reader) (*TraceSummary, error) {
	summary := &TraceSummary{CallsByName: make(map[string]int)}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var event traceLine
		if err := json.Unmarshal([]byte(line), &event); err != nil {
			continue
		}

		summary.TotalEvents++
		if summary.RunID == "" {
			summary.RunID = event.RunID
		}

		switch evaluator.TraceEventType(event.Event) {
		case evaluator.TraceRunStart:
			if summary.StartTime == "" {
				summary.StartTime = event.TS
			}
		case evaluator.TraceRunEnd:
			summary.EndTime = event.TS
			if ok, found := event.Data["ok"].(bool); found && !ok {
				summary.Failures++
			}
		case evaluator.TraceStmtStart:
			summary.Statements++
		case evaluator.TraceCallStart:
			summary.Calls++
			if name, ok := event.Data["fn"].(string); ok {
				summary.CallsByName[name]++
			}
		case evaluator.TraceForStart:
			summary.Loops++
		case evaluator.TraceForEnd:
			if n, ok := event.Data["iterations"].(float64); ok {
				summary.Iterations += int64(n)
			}
		case evaluator.TraceLimitExceeded:
			summary.LimitExceeded++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if summary.StartTime != "" && summary.EndTime != "" {
		start, err1 := parseTime(summary.StartTime)
		end, err2 := parseTime(summary.EndTime)
		if err1 == nil && err2 == nil {
			summary.DurationMs = float64(end.Sub(start).Microseconds()) / 1000
		}
	}

	return summary, nil
}

func printTraceSummaryText(w io.Writer, s *TraceSummary) {
	fmt.Fprintf(w, "Run: %s\n", s.RunID)
	fmt.Fprintf(w, "Events: %d\n", s.TotalEvents)
	fmt.Fprintf(w, "Statements: %d\n", s.Statements)
	fmt.Fprintf(w, "Calls: %d\n", s.Calls)
	names := make([]string, 0, len(s.CallsByName))
	for name := range s.CallsByName {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %s: %d\n", name, s.CallsByName[name])
	}
	fmt.Fprintf(w, "Loops: %d (%d iterations)\n", s.Loops, s.Iterations)
	if s.LimitExceeded > 0 {
		fmt.Fprintf(w, "Limit exceeded: %d\n", s.LimitExceeded)
	}
	fmt.Fprintf(w, "Failures: %d\n", s.Failures)
	if s.DurationMs > 0 {
		fmt.Fprintf(w, "Duration: %.3fms\n", s.DurationMs)
	}
}

func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("cannot parse time: %s", s)
}
