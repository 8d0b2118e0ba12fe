package diagnostics

import (
	"fmt"
	"io"
)

// Color is an ANSI escape sequence prefix.
type Color string

const (
	Reset Color = "\033[0m"
	Red   Color = "\033[31m"
	Green Color = "\033[32m"
	Blue  Color = "\033[34m"
	Cyan  Color = "\033[36m"
	Grey  Color = "\033[90m"
)

func (c Color) Sprint(args ...any) string {
	return string(c) + fmt.Sprint(args...) + string(Reset)
}

func (c Color) Sprintf(format string, args ...any) string {
	return string(c) + fmt.Sprintf(format, args...) + string(Reset)
}

func (c Color) Fprintln(w io.Writer, args ...any) {
	fmt.Fprint(w, string(c))
	fmt.Fprint(w, args...)
	fmt.Fprintln(w, string(Reset))
}

// StripANSI removes ANSI color codes from a string.
func StripANSI(s string) string {
	out := make([]byte, 0, len(s))
	inEscape := false
	for i := 0; i < len(s); i++ {
		if s[i] == '\033' && i+1 < len(s) && s[i+1] == '[' {
			inEscape = true
			i++
			continue
		}
		if inEscape {
			if (s[i] >= 'A' && s[i] <= 'Z') || (s[i] >= 'a' && s[i] <= 'z') {
				inEscape = false
			}
			continue
		}
		out = append(out, s[i])
	}
	return string(out)
}
