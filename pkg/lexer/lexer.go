// Package lexer implements the Plume tokenizer.
package lexer

import (
	"fmt"
	"unicode"

	"github.com/plume-lang/plume/pkg/diagnostics"
	"github.com/plume-lang/plume/pkg/token"
)

type scanner struct {
	source []rune
	file   string
	pos    int
	line   int
	col    int
}

func newScanner(source, file string) *scanner {
	return &scanner{
		source: []rune(source),
		file:   file,
		pos:    0,
		line:   1,
		col:    1,
	}
}

func (s *scanner) atEnd() bool {
	return s.pos >= len(s.source)
}

func (s *scanner) peek() rune {
	if s.atEnd() {
		return 0
	}
	return s.source[s.pos]
}

func (s *scanner) advance() rune {
	ch := s.source[s.pos]
	s.pos++
	if ch == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
	return ch
}

func (s *scanner) loc() token.Location {
	return token.Location{File: s.file, Line: s.line, Column: s.col}
}

func (s *scanner) skipWhitespaceAndComments() {
	for !s.atEnd() {
		ch := s.peek()
		if unicode.IsSpace(ch) {
			s.advance()
		} else if ch == '#' {
			// the newline ends the comment and is consumed with it
			for !s.atEnd() && s.advance() != '\n' {
			}
		} else {
			break
		}
	}
}

func isDigit(ch rune) bool {
	return unicode.IsDigit(ch)
}

func isIdentStart(ch rune) bool {
	return unicode.IsLetter(ch)
}

func isIdentPart(ch rune) bool {
	return unicode.IsLetter(ch) || unicode.IsDigit(ch) || ch == '_'
}

func (s *scanner) scanString() (token.Token, error) {
	start := s.loc()
	quote := s.advance()

	begin := s.pos
	for !s.atEnd() {
		if s.peek() == quote {
			text := string(s.source[begin:s.pos])
			s.advance() // closing quote
			return token.Token{Kind: token.String, Value: text, Start: start, End: s.loc()}, nil
		}
		s.advance()
	}
	return token.Token{}, s.lexError(start, fmt.Sprintf("unterminated string literal, expected closing %c", quote))
}

// scanNumber accepts any run of digits and dots; "1.2.3" is rejected when
// the literal is evaluated, not here.
func (s *scanner) scanNumber() token.Token {
	start := s.loc()
	begin := s.pos
	for !s.atEnd() && (isDigit(s.peek()) || s.peek() == '.') {
		s.advance()
	}
	return token.Token{Kind: token.Number, Value: string(s.source[begin:s.pos]), Start: start, End: s.loc()}
}

func (s *scanner) scanIdentifier() token.Token {
	start := s.loc()
	begin := s.pos
	s.advance()
	for !s.atEnd() && isIdentPart(s.peek()) {
		s.advance()
	}
	text := string(s.source[begin:s.pos])
	kind := token.Identifier
	if text == "true" || text == "false" {
		kind = token.Bool
	}
	return token.Token{Kind: kind, Value: text, Start: start, End: s.loc()}
}

func (s *scanner) lexError(loc token.Location, msg string) error {
	return &LexError{Diag: diagnostics.MakeDiag(diagnostics.ELex, msg, &loc, "")}
}

// LexError wraps a diagnostic for lex errors.
type LexError struct {
	Diag diagnostics.Diagnostic
}

func (e *LexError) Error() string {
	return e.Diag.Message
}

// Diagnostic returns the wrapped diagnostic.
func (e *LexError) Diagnostic() diagnostics.Diagnostic {
	return e.Diag
}

var punctuation = map[rune]token.Kind{
	'(': token.LeftParen,
	')': token.RightParen,
	'[': token.LeftBracket,
	']': token.RightBracket,
	'=': token.Equal,
	',': token.Comma,
}

func (s *scanner) nextToken() (token.Token, error) {
	s.skipWhitespaceAndComments()

	if s.atEnd() {
		loc := s.loc()
		return token.Token{Kind: token.Eof, Value: "", Start: loc, End: loc}, nil
	}

	ch := s.peek()

	if kind, ok := punctuation[ch]; ok {
		start := s.loc()
		s.advance()
		return token.Token{Kind: kind, Value: string(ch), Start: start, End: s.loc()}, nil
	}

	switch {
	case ch == '\'' || ch == '"':
		return s.scanString()
	case isDigit(ch):
		return s.scanNumber(), nil
	case isIdentStart(ch):
		return s.scanIdentifier(), nil
	}

	return token.Token{}, s.lexError(s.loc(), fmt.Sprintf("illegal character %q", ch))
}

// Tokenize breaks source code into a slice of tokens terminated by a single Eof token.
func Tokenize(source, file string) ([]token.Token, error) {
	s := newScanner(source, file)
	var tokens []token.Token

	for {
		tok, err := s.nextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Kind == token.Eof {
			break
		}
	}

	return tokens, nil
}
