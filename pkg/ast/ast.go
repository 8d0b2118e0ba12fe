// Package ast defines the Plume AST node types.
package ast

import (
	"strconv"
	"strings"

	"github.com/plume-lang/plume/pkg/token"
)

// Node is the interface implemented by all AST nodes.
// The set of implementations is closed to this package.
type Node interface {
	Kind() string
	// Tok is the token at which the node starts.
	Tok() token.Token
	// IsTrue is the node-level truthiness predicate.
	IsTrue() bool
	node() // sealed marker
}

// Loc returns the start location of n.
func Loc(n Node) token.Location {
	return n.Tok().Start
}

// --- Program ---

type Program struct {
	Token      token.Token
	Statements []Node
}

func (n *Program) Kind() string     { return "Program" }
func (n *Program) Tok() token.Token { return n.Token }
func (n *Program) IsTrue() bool     { return true }
func (n *Program) node()            {}

// --- Composite nodes ---

// Block is a parenthesized sequence whose value is its last expression.
type Block struct {
	Token token.Token
	Exprs []Node
}

func (n *Block) Kind() string     { return "Block" }
func (n *Block) Tok() token.Token { return n.Token }
func (n *Block) IsTrue() bool     { return true }
func (n *Block) node()            {}

// FunctionCall covers both special forms and builtin calls.
type FunctionCall struct {
	Token token.Token
	Name  string
	Args  []Node
}

func (n *FunctionCall) Kind() string     { return "FunctionCall" }
func (n *FunctionCall) Tok() token.Token { return n.Token }
func (n *FunctionCall) IsTrue() bool     { return true }
func (n *FunctionCall) node()            {}

type Assignment struct {
	Token token.Token
	Name  string
	Expr  Node
}

func (n *Assignment) Kind() string     { return "Assignment" }
func (n *Assignment) Tok() token.Token { return n.Token }
func (n *Assignment) IsTrue() bool     { return true }
func (n *Assignment) node()            {}

// Elif is built by the evaluator from an elif(cond, expr) call inside if.
type Elif struct {
	Token token.Token
	Cond  Node
	Expr  Node
}

func (n *Elif) Kind() string     { return "Elif" }
func (n *Elif) Tok() token.Token { return n.Token }
func (n *Elif) IsTrue() bool     { return n.Cond.IsTrue() }
func (n *Elif) node()            {}

// --- Literals ---

type StringLiteral struct {
	Token token.Token
	Value string
}

func (n *StringLiteral) Kind() string     { return "StringLiteral" }
func (n *StringLiteral) Tok() token.Token { return n.Token }
func (n *StringLiteral) IsTrue() bool     { return n.Value != "" }
func (n *StringLiteral) node()            {}

// NumberLiteral keeps the raw text; its runtime type is decided on evaluation.
type NumberLiteral struct {
	Token token.Token
	Raw   string
}

func (n *NumberLiteral) Kind() string     { return "NumberLiteral" }
func (n *NumberLiteral) Tok() token.Token { return n.Token }
func (n *NumberLiteral) node()            {}

func (n *NumberLiteral) IsTrue() bool {
	f, err := strconv.ParseFloat(n.Raw, 64)
	return err != nil || f != 0
}

// IsFloat reports whether the literal denotes a floating-point number.
func (n *NumberLiteral) IsFloat() bool {
	return strings.Contains(n.Raw, ".")
}

type BoolLiteral struct {
	Token token.Token
	Raw   string
}

func (n *BoolLiteral) Kind() string     { return "BoolLiteral" }
func (n *BoolLiteral) Tok() token.Token { return n.Token }
func (n *BoolLiteral) IsTrue() bool     { return n.Raw == "true" }
func (n *BoolLiteral) node()            {}

type ListLiteral struct {
	Token    token.Token
	Elements []Node
}

func (n *ListLiteral) Kind() string     { return "ListLiteral" }
func (n *ListLiteral) Tok() token.Token { return n.Token }
func (n *ListLiteral) IsTrue() bool     { return len(n.Elements) > 0 }
func (n *ListLiteral) node()            {}

type VarAccess struct {
	Token token.Token
	Name  string
}

func (n *VarAccess) Kind() string     { return "VarAccess" }
func (n *VarAccess) Tok() token.Token { return n.Token }
func (n *VarAccess) IsTrue() bool     { return true }
func (n *VarAccess) node()            {}

// NoneValue is the unit marker for side-effecting calls and empty blocks.
type NoneValue struct {
	Token token.Token
}

func (n *NoneValue) Kind() string     { return "NoneValue" }
func (n *NoneValue) Tok() token.Token { return n.Token }
func (n *NoneValue) IsTrue() bool     { return false }
func (n *NoneValue) node()            {}
