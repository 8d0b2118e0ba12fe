// Package evaluator implements the Plume tree-walking evaluator.
package evaluator

import (
	"math"
	"strconv"
	"strings"

	"github.com/plume-lang/plume/pkg/ast"
)

// Value is the interface for all Plume runtime values.
// The sealed marker method restricts implementations to this package.
type Value interface {
	value() // sealed marker
}

// None is the unit value.
type None struct{}

func (None) value() {}

// Bool represents a boolean value.
type Bool struct {
	Value bool
}

func (Bool) value() {}

// Int represents a 64-bit signed integer.
type Int struct {
	Value int64
}

func (Int) value() {}

// Float represents a 64-bit floating point number.
type Float struct {
	Value float64
}

func (Float) value() {}

// Str represents a string value.
type Str struct {
	Value string
}

func (Str) value() {}

// List represents an ordered list of values.
type List struct {
	Items []Value
}

func (List) value() {}

// ElifMarker is the value of an elif(cond, expr) call. The condition and
// branch stay unevaluated until an enclosing if reaches the marker.
type ElifMarker struct {
	Node *ast.Elif
}

func (ElifMarker) value() {}

// NewNone creates the unit value.
func NewNone() Value {
	return None{}
}

// NewBool creates a boolean value.
func NewBool(b bool) Value {
	return Bool{Value: b}
}

// NewInt creates an integer value.
func NewInt(n int64) Value {
	return Int{Value: n}
}

// NewFloat creates a float value.
func NewFloat(f float64) Value {
	return Float{Value: f}
}

// NewStr creates a string value.
func NewStr(s string) Value {
	return Str{Value: s}
}

// NewList creates a list value.
func NewList(items []Value) Value {
	if items == nil {
		items = []Value{}
	}
	return List{Items: items}
}

// Truthiness returns the boolean interpretation of a value.
// None, false, 0, 0.0, "" and [] are falsy; everything else is truthy.
func Truthiness(v Value) bool {
	switch val := v.(type) {
	case None:
		return false
	case Bool:
		return val.Value
	case Int:
		return val.Value != 0
	case Float:
		return val.Value != 0
	case Str:
		return val.Value != ""
	case List:
		return len(val.Items) > 0
	default:
		return v != nil
	}
}

// TypeName returns the user-facing name of a value's type.
func TypeName(v Value) string {
	switch v.(type) {
	case None:
		return "None"
	case Bool:
		return "bool"
	case Int:
		return "int"
	case Float:
		return "float"
	case Str:
		return "str"
	case List:
		return "list"
	case ElifMarker:
		return "elif"
	}
	return "unknown"
}

// FormatValue renders a value the way log and str print it.
func FormatValue(v Value) string {
	var sb strings.Builder
	writeValue(&sb, v, false)
	return sb.String()
}

func writeValue(sb *strings.Builder, v Value, nested bool) {
	switch val := v.(type) {
	case None:
		sb.WriteString("None")
	case Bool:
		sb.WriteString(strconv.FormatBool(val.Value))
	case Int:
		sb.WriteString(strconv.FormatInt(val.Value, 10))
	case Float:
		sb.WriteString(FormatFloat(val.Value))
	case Str:
		if nested {
			sb.WriteString(strconv.Quote(val.Value))
		} else {
			sb.WriteString(val.Value)
		}
	case List:
		sb.WriteByte('[')
		for i, item := range val.Items {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeValue(sb, item, true)
		}
		sb.WriteByte(']')
	case ElifMarker:
		sb.WriteString("<elif>")
	default:
		sb.WriteString("None")
	}
}

// FormatFloat renders f as its shortest round-trip decimal. Integral values
// keep a trailing ".0"; magnitudes outside [1e-4, 1e16) use exponent form.
func FormatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".") {
		s += ".0"
	}
	return s
}

// DeepEqual compares two values structurally. Int and Float compare by
// numeric value; any other pair of distinct types is unequal.
func DeepEqual(a, b Value) bool {
	if x, y, ok := numericPair(a, b); ok {
		return x == y
	}
	switch av := a.(type) {
	case None:
		_, ok := b.(None)
		return ok
	case Bool:
		bv, ok := b.(Bool)
		return ok && av.Value == bv.Value
	case Int:
		bv, ok := b.(Int)
		return ok && av.Value == bv.Value
	case Str:
		bv, ok := b.(Str)
		return ok && av.Value == bv.Value
	case List:
		bv, ok := b.(List)
		if !ok || len(av.Items) != len(bv.Items) {
			return false
		}
		for i := range av.Items {
			if !DeepEqual(av.Items[i], bv.Items[i]) {
				return false
			}
		}
		return true
	case ElifMarker:
		bv, ok := b.(ElifMarker)
		return ok && av.Node == bv.Node
	}
	return false
}

// numericPair widens a mixed Int/Float pair to float64. Two Ints are left to
// the caller so large values compare exactly.
func numericPair(a, b Value) (float64, float64, bool) {
	switch av := a.(type) {
	case Int:
		if bv, ok := b.(Float); ok {
			return float64(av.Value), bv.Value, true
		}
	case Float:
		switch bv := b.(type) {
		case Float:
			return av.Value, bv.Value, true
		case Int:
			return av.Value, float64(bv.Value), true
		}
	}
	return 0, 0, false
}

// AsFloat widens a numeric value to float64.
func AsFloat(v Value) (float64, bool) {
	switch val := v.(type) {
	case Int:
		return float64(val.Value), true
	case Float:
		return val.Value, true
	}
	return 0, false
}
