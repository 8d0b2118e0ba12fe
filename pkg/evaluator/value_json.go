package evaluator

import (
	"encoding/json"
	"math"
)

// ValueToJSON marshals a Value to JSON bytes. Non-finite floats and elif
// markers have no JSON form and are rendered as strings.
func ValueToJSON(v Value) ([]byte, error) {
	return json.Marshal(valueToRaw(v))
}

func valueToRaw(v Value) any {
	switch val := v.(type) {
	case None:
		return nil
	case Bool:
		return val.Value
	case Int:
		return val.Value
	case Float:
		if math.IsNaN(val.Value) || math.IsInf(val.Value, 0) {
			return FormatFloat(val.Value)
		}
		return json.Number(FormatFloat(val.Value))
	case Str:
		return val.Value
	case List:
		items := make([]any, len(val.Items))
		for i, item := range val.Items {
			items[i] = valueToRaw(item)
		}
		return items
	case ElifMarker:
		return FormatValue(val)
	}
	return nil
}
