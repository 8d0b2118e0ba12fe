package evaluator

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// LineReader supplies lines to the input builtin. The prompt is shown
// before the read blocks.
type LineReader interface {
	ReadLine(prompt string) (string, error)
}

type bufferedLineReader struct {
	in  *bufio.Reader
	out io.Writer
}

// NewLineReader returns a LineReader that writes prompts to out and reads
// newline-terminated lines from in.
func NewLineReader(in io.Reader, out io.Writer) LineReader {
	return &bufferedLineReader{in: bufio.NewReader(in), out: out}
}

func (r *bufferedLineReader) ReadLine(prompt string) (string, error) {
	if prompt != "" && r.out != nil {
		if _, err := fmt.Fprint(r.out, prompt); err != nil {
			return "", err
		}
	}
	line, err := r.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line, nil
}
