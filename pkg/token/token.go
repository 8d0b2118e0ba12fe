// Package token defines Plume source locations and lexer tokens.
package token

import "fmt"

// Location is a position in a source file. Lines and columns are 1-based.
type Location struct {
	File   string `json:"file" yaml:"file"`
	Line   int    `json:"line" yaml:"line"`
	Column int    `json:"column" yaml:"column"`
}

func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// Kind identifies the type of a token.
type Kind int

const (
	String Kind = iota
	Number
	Bool
	Identifier
	LeftParen    // (
	RightParen   // )
	LeftBracket  // [
	RightBracket // ]
	Equal        // =
	Comma        // ,
	Eof
)

var kindNames = [...]string{
	String:       "String",
	Number:       "Number",
	Bool:         "Bool",
	Identifier:   "Identifier",
	LeftParen:    "LeftParen",
	RightParen:   "RightParen",
	LeftBracket:  "LeftBracket",
	RightBracket: "RightBracket",
	Equal:        "Equal",
	Comma:        "Comma",
	Eof:          "Eof",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Describe returns the human-readable name used in syntax errors.
func (k Kind) Describe() string {
	switch k {
	case LeftParen:
		return "'('"
	case RightParen:
		return "')'"
	case LeftBracket:
		return "'['"
	case RightBracket:
		return "']'"
	case Equal:
		return "'='"
	case Comma:
		return "','"
	case String:
		return "string"
	case Number:
		return "number"
	case Bool:
		return "boolean"
	case Identifier:
		return "identifier"
	case Eof:
		return "end of file"
	default:
		return k.String()
	}
}

// Token is a single lexeme with its source range.
type Token struct {
	Kind  Kind     `json:"kind" yaml:"kind"`
	Value string   `json:"value" yaml:"value"`
	Start Location `json:"start" yaml:"start"`
	End   Location `json:"end" yaml:"end"`
}

// Is reports whether the token has the given kind.
func (t Token) Is(k Kind) bool {
	return t.Kind == k
}

func (t Token) String() string {
	if t.Kind == Eof {
		return "end of file"
	}
	return fmt.Sprintf("'%s'", t.Value)
}

// MarshalText renders a Kind by name in JSON and YAML dumps.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}
