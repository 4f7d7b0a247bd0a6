package schema

import (
	"encoding/json"
	"strings"
)

// Analyze converts a decoded JSON value into its schema tree.
func Analyze(v Value) Node {
	switch t := v.(type) {
	case *Object:
		obj := NewObject()
		for _, m := range t.Members {
			obj.Put(m.Key, PresentOnce(Analyze(m.Value)))
		}
		return obj
	case []Value:
		arr := &ArrayNode{}
		if len(t) == 0 {
			arr.Empty = true
			return arr
		}
		var acc Node
		for _, elem := range t {
			acc = Merge(acc, Analyze(elem))
		}
		arr.Elements = flatten(acc)
		return arr
	case string:
		return NewPrimitive(String)
	case json.Number:
		if isIntegral(t) {
			return NewPrimitive(Integer)
		}
		return NewPrimitive(Number)
	case float64:
		return NewPrimitive(Number)
	case bool:
		return NewPrimitive(Boolean)
	}
	return NewPrimitive(Null)
}

func isIntegral(n json.Number) bool {
	return !strings.ContainsAny(string(n), ".eE")
}
