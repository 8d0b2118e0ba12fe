// Package parser implements the Plume recursive-descent parser.
package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/plume-lang/plume/pkg/ast"
	"github.com/plume-lang/plume/pkg/diagnostics"
	"github.com/plume-lang/plume/pkg/lexer"
	"github.com/plume-lang/plume/pkg/token"
)

type parser struct {
	tokens []token.Token
	pos    int
	diags  []diagnostics.Diagnostic
}

// Parse tokenizes source and parses it into an AST.
func Parse(source, filename string) (*ast.Program, []diagnostics.Diagnostic) {
	tokens, err := lexer.Tokenize(source, filename)
	if err != nil {
		return nil, []diagnostics.Diagnostic{diagnostics.FromError(err)}
	}
	return ParseTokens(tokens)
}

// ParseTokens parses an Eof-terminated token sequence. Parsing stops at the
// first syntax error, so at most one diagnostic is returned.
func ParseTokens(tokens []token.Token) (*ast.Program, []diagnostics.Diagnostic) {
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != token.Eof {
		tokens = append(tokens, token.Token{Kind: token.Eof})
	}
	p := &parser{tokens: tokens, pos: 0}
	prog := p.parseProgram()
	if len(p.diags) > 0 {
		return nil, p.diags
	}
	return prog, nil
}

func (p *parser) current() token.Token {
	if p.pos >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1] // EOF
	}
	return p.tokens[p.pos]
}

func (p *parser) peek() token.Kind {
	return p.current().Kind
}

func (p *parser) peekNext() token.Kind {
	idx := p.pos + 1
	if idx >= len(p.tokens) {
		return token.Eof
	}
	return p.tokens[idx].Kind
}

func (p *parser) advance() token.Token {
	tok := p.current()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

func (p *parser) expect(kind token.Kind) (token.Token, bool) {
	tok := p.current()
	if tok.Kind != kind {
		p.addError(fmt.Sprintf("expected %s, got %s", kind.Describe(), tok), tok)
		return tok, false
	}
	return p.advance(), true
}

func (p *parser) addError(msg string, at token.Token) {
	loc := at.Start
	p.diags = append(p.diags, diagnostics.MakeDiag(diagnostics.ESyntax, msg, &loc, ""))
}

// --- Program ---

func (p *parser) parseProgram() *ast.Program {
	prog := &ast.Program{Token: p.current()}

	for p.peek() != token.Eof {
		stmt := p.parseStatement()
		if stmt == nil {
			return nil
		}
		prog.Statements = append(prog.Statements, stmt)
	}

	return prog
}

func (p *parser) parseStatement() ast.Node {
	tok := p.current()
	switch tok.Kind {
	case token.Identifier:
		switch p.peekNext() {
		case token.Equal:
			return p.parseAssignment()
		case token.LeftParen:
			return p.parseFunctionCall()
		}
		p.addError(fmt.Sprintf("invalid statement: identifier %s must be followed by '=' or '('", tok), tok)
		return nil
	case token.LeftParen:
		return p.parseBlock()
	}
	p.addError(fmt.Sprintf("invalid statement: unexpected %s", tok), tok)
	return nil
}

func (p *parser) parseAssignment() ast.Node {
	nameTok := p.advance()
	if _, ok := p.expect(token.Equal); !ok {
		return nil
	}
	expr := p.parseExpr()
	if expr == nil {
		return nil
	}
	return &ast.Assignment{Token: nameTok, Name: nameTok.Value, Expr: expr}
}

func (p *parser) parseFunctionCall() ast.Node {
	nameTok := p.advance()
	if _, ok := p.expect(token.LeftParen); !ok {
		return nil
	}
	args, ok := p.parseSequence(token.RightParen)
	if !ok {
		return nil
	}
	return &ast.FunctionCall{Token: nameTok, Name: nameTok.Value, Args: args}
}

func (p *parser) parseBlock() ast.Node {
	start, ok := p.expect(token.LeftParen)
	if !ok {
		return nil
	}
	exprs, ok := p.parseSequence(token.RightParen)
	if !ok {
		return nil
	}
	return &ast.Block{Token: start, Exprs: exprs}
}

func (p *parser) parseList() ast.Node {
	start, ok := p.expect(token.LeftBracket)
	if !ok {
		return nil
	}
	elems, ok := p.parseSequence(token.RightBracket)
	if !ok {
		return nil
	}
	return &ast.ListLiteral{Token: start, Elements: elems}
}

// parseSequence parses comma-separated expressions up to and including the
// closing delimiter. A trailing comma is accepted.
func (p *parser) parseSequence(closing token.Kind) ([]ast.Node, bool) {
	var items []ast.Node
	for p.peek() != closing && p.peek() != token.Eof {
		item := p.parseExpr()
		if item == nil {
			return nil, false
		}
		items = append(items, item)

		if p.peek() == token.Comma {
			p.advance()
		} else if p.peek() != closing {
			tok := p.current()
			p.addError(fmt.Sprintf("expected ',' or %s, got %s", closing.Describe(), tok), tok)
			return nil, false
		}
	}
	if _, ok := p.expect(closing); !ok {
		return nil, false
	}
	return items, true
}

// --- Expressions ---

func (p *parser) parseExpr() ast.Node {
	tok := p.current()
	switch tok.Kind {
	case token.String:
		p.advance()
		return &ast.StringLiteral{Token: tok, Value: tok.Value}
	case token.Number:
		p.advance()
		return &ast.NumberLiteral{Token: tok, Raw: tok.Value}
	case token.Bool:
		p.advance()
		return &ast.BoolLiteral{Token: tok, Raw: tok.Value}
	case token.LeftBracket:
		return p.parseList()
	case token.LeftParen:
		return p.parseBlock()
	case token.Identifier:
		switch p.peekNext() {
		case token.LeftParen:
			return p.parseFunctionCall()
		case token.Equal:
			return p.parseAssignment()
		}
		p.advance()
		return &ast.VarAccess{Token: tok, Name: tok.Value}
	}
	p.addError(fmt.Sprintf("invalid expression: unexpected %s", tok), tok)
	return nil
}

// Incomplete reports whether source fails only because it ends too early:
// an unterminated string or a syntax error at end of file. Interactive
// readers use it to ask for a continuation line.
func Incomplete(source string) bool {
	tokens, err := lexer.Tokenize(source, "")
	if err != nil {
		var lexErr *lexer.LexError
		return errors.As(err, &lexErr) && strings.HasPrefix(lexErr.Diag.Message, "unterminated string")
	}
	_, diags := ParseTokens(tokens)
	if len(diags) == 0 || diags[0].Loc == nil {
		return false
	}
	eof := tokens[len(tokens)-1].Start
	return *diags[0].Loc == eof
}
