// Package formatter implements the Plume source code formatter.
package formatter

import (
	"strings"

	"github.com/plume-lang/plume/pkg/ast"
)

const (
	indent = "  "
	// lineWidth is the column beyond which a call's arguments are broken
	// one per line.
	lineWidth = 80
)

// Format pretty-prints a Plume AST back to source code. Comments are not
// part of the AST and are dropped.
func Format(program *ast.Program) string {
	if len(program.Statements) == 0 {
		return ""
	}
	lines := make([]string, len(program.Statements))
	for i, s := range program.Statements {
		lines[i] = formatNode(s, 0)
	}
	return strings.Join(lines, "\n") + "\n"
}

// HasComments checks if a source string contains Plume comments (# outside
// a string literal).
func HasComments(source string) bool {
	var quote rune
	for _, ch := range source {
		switch {
		case quote != 0:
			if ch == quote {
				quote = 0
			}
		case ch == '"' || ch == '\'':
			quote = ch
		case ch == '#':
			return true
		}
	}
	return false
}

func formatNode(n ast.Node, depth int) string {
	switch node := n.(type) {
	case *ast.StringLiteral:
		return quoteString(node.Value)
	case *ast.NumberLiteral:
		return node.Raw
	case *ast.BoolLiteral:
		return node.Raw
	case *ast.VarAccess:
		return node.Name
	case *ast.NoneValue:
		return "()"
	case *ast.Assignment:
		return node.Name + " = " + formatNode(node.Expr, depth)
	case *ast.FunctionCall:
		return formatSeq(node.Name+"(", node.Args, ")", depth)
	case *ast.Block:
		return formatSeq("(", node.Exprs, ")", depth)
	case *ast.ListLiteral:
		return formatSeq("[", node.Elements, "]", depth)
	case *ast.Elif:
		return formatSeq("elif(", []ast.Node{node.Cond, node.Expr}, ")", depth)
	case *ast.Program:
		return strings.TrimSuffix(Format(node), "\n")
	}
	return ""
}

// formatSeq renders a delimited sequence inline when it fits and contains
// no line breaks, otherwise one item per line with a trailing comma.
func formatSeq(open string, items []ast.Node, close string, depth int) string {
	if len(items) == 0 {
		return open + close
	}

	inline := make([]string, len(items))
	fits := true
	width := len(strings.Repeat(indent, depth)) + len(open) + len(close)
	for i, item := range items {
		inline[i] = formatNode(item, depth)
		width += len(inline[i]) + 2
		if strings.Contains(inline[i], "\n") {
			fits = false
		}
	}
	if fits && width <= lineWidth {
		return open + strings.Join(inline, ", ") + close
	}

	pad := strings.Repeat(indent, depth+1)
	var sb strings.Builder
	sb.WriteString(open)
	sb.WriteByte('\n')
	for _, item := range items {
		sb.WriteString(pad)
		sb.WriteString(formatNode(item, depth+1))
		sb.WriteString(",\n")
	}
	sb.WriteString(strings.Repeat(indent, depth))
	sb.WriteString(close)
	return sb.String()
}

// quoteString picks a delimiter that does not occur in s. Strings have no
// escapes, so a literal can never contain both quote characters.
func quoteString(s string) string {
	if strings.ContainsRune(s, '"') {
		return "'" + s + "'"
	}
	return `"` + s + `"`
}
