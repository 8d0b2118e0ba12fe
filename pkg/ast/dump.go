package ast

import "github.com/plume-lang/plume/pkg/token"

// Tree is a serializable view of a node, used by `plume ast` dumps.
type Tree struct {
	Kind     string         `json:"kind" yaml:"kind"`
	Name     string         `json:"name,omitempty" yaml:"name,omitempty"`
	Value    string         `json:"value,omitempty" yaml:"value,omitempty"`
	Loc      token.Location `json:"loc" yaml:"loc"`
	Children []*Tree        `json:"children,omitempty" yaml:"children,omitempty"`
}

// Dump converts n and its descendants into a Tree.
func Dump(n Node) *Tree {
	t := &Tree{Kind: n.Kind(), Loc: Loc(n)}
	switch node := n.(type) {
	case *Program:
		t.Children = dumpAll(node.Statements)
	case *Block:
		t.Children = dumpAll(node.Exprs)
	case *FunctionCall:
		t.Name = node.Name
		t.Children = dumpAll(node.Args)
	case *Assignment:
		t.Name = node.Name
		t.Children = []*Tree{Dump(node.Expr)}
	case *Elif:
		t.Children = []*Tree{Dump(node.Cond), Dump(node.Expr)}
	case *ListLiteral:
		t.Children = dumpAll(node.Elements)
	case *StringLiteral:
		t.Value = node.Value
	case *NumberLiteral:
		t.Value = node.Raw
	case *BoolLiteral:
		t.Value = node.Raw
	case *VarAccess:
		t.Name = node.Name
	}
	return t
}

func dumpAll(nodes []Node) []*Tree {
	out := make([]*Tree, len(nodes))
	for i, n := range nodes {
		out[i] = Dump(n)
	}
	return out
}
