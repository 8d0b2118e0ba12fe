// Package diagnostics defines Plume diagnostic types for lex, syntax and runtime errors.
package diagnostics

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/plume-lang/plume/pkg/token"
)

// Diagnostic code constants.
const (
	ELex     = "E_LEX"
	ESyntax  = "E_SYNTAX"
	EName    = "E_NAME"
	EArity   = "E_ARITY"
	EType    = "E_TYPE"
	ERuntime = "E_RUNTIME"
	ELimit   = "E_LIMIT"
	EIO      = "E_IO"
	EConfig  = "E_CONFIG"
)

// Diagnostic represents a lex, syntax, validation or runtime diagnostic.
type Diagnostic struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Loc     *token.Location `json:"loc,omitempty"`
	Hint    string          `json:"hint,omitempty"`
}

// MakeDiag creates a new Diagnostic.
func MakeDiag(code, message string, loc *token.Location, hint string) Diagnostic {
	return Diagnostic{
		Code:    code,
		Message: message,
		Loc:     loc,
		Hint:    hint,
	}
}

// Diagnosable is implemented by errors that carry a diagnostic.
type Diagnosable interface {
	error
	Diagnostic() Diagnostic
}

// FromError converts any pipeline error into a Diagnostic.
// Errors that do not carry one are reported as E_IO.
func FromError(err error) Diagnostic {
	var d Diagnosable
	if errors.As(err, &d) {
		return d.Diagnostic()
	}
	return MakeDiag(EIO, err.Error(), nil, "")
}

// Style selects how diagnostics are rendered.
type Style int

const (
	StylePretty Style = iota
	StyleColor
	StyleJSON
)

// ParseStyle maps a config or flag value to a Style.
func ParseStyle(s string) (Style, error) {
	switch strings.ToLower(s) {
	case "", "pretty":
		return StylePretty, nil
	case "color", "colour":
		return StyleColor, nil
	case "json":
		return StyleJSON, nil
	}
	return StylePretty, fmt.Errorf("unknown diagnostic format %q", s)
}

// FormatDiagnostic formats a single diagnostic for display.
func FormatDiagnostic(d Diagnostic, style Style) string {
	if style == StyleJSON {
		b, _ := json.Marshal(d)
		return string(b)
	}
	loc := "<unknown>"
	if d.Loc != nil {
		loc = d.Loc.String()
	}
	head := fmt.Sprintf("error[%s]", d.Code)
	arrow := "  -->"
	hint := "  hint:"
	if style == StyleColor {
		head = Red.Sprint(head)
		arrow = Blue.Sprint(arrow)
		hint = Cyan.Sprint(hint)
	}
	out := fmt.Sprintf("%s: %s\n%s %s", head, d.Message, arrow, loc)
	if d.Hint != "" {
		out += fmt.Sprintf("\n%s %s", hint, d.Hint)
	}
	return out
}

// FormatDiagnostics formats a slice of diagnostics for display.
func FormatDiagnostics(diags []Diagnostic, style Style) string {
	if style == StyleJSON {
		b, _ := json.Marshal(diags)
		return string(b)
	}
	parts := make([]string, len(diags))
	for i, d := range diags {
		parts[i] = FormatDiagnostic(d, style)
	}
	return strings.Join(parts, "\n\n")
}
