package session

import (
	"fmt"
	"sort"
)

// ValueKind tags the variant held by a Value.
type ValueKind int

const (
	KindNil ValueKind = iota
	KindString
	KindInt
	KindFloat
	KindBool
	KindList
	KindDict
)

func (k ValueKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "number"
	case KindFloat:
		return "float"
	case KindBool:
		return "boolean"
	case KindList:
		return "list"
	case KindDict:
		return "dict"
	default:
		return "nil"
	}
}

// Value is a decoded reply or event argument.
type Value struct {
	Kind  ValueKind
	Str   string
	Int   int64
	Float float64
	Bool  bool
	List  []Value
	Dict  map[string]Value
}

// String builds a string Value.
func String(s string) Value { return Value{Kind: KindString, Str: s} }

// Int builds a number Value.
func Int(n int64) Value { return Value{Kind: KindInt, Int: n} }

// ValueOf converts a decoded msgpack value into a Value. Unknown types are
// rendered with fmt and kept as strings.
func ValueOf(raw interface{}) Value {
	switch v := raw.(type) {
	case nil:
		return Value{Kind: KindNil}
	case Value:
		return v
	case string:
		return String(v)
	case []byte:
		return String(string(v))
	case bool:
		return Value{Kind: KindBool, Bool: v}
	case int:
		return Int(int64(v))
	case int8:
		return Int(int64(v))
	case int16:
		return Int(int64(v))
	case int32:
		return Int(int64(v))
	case int64:
		return Int(v)
	case uint:
		return Int(int64(v))
	case uint8:
		return Int(int64(v))
	case uint16:
		return Int(int64(v))
	case uint32:
		return Int(int64(v))
	case uint64:
		return Int(int64(v))
	case float32:
		return Value{Kind: KindFloat, Float: float64(v)}
	case float64:
		return Value{Kind: KindFloat, Float: v}
	case []interface{}:
		list := make([]Value, len(v))
		for i, item := range v {
			list[i] = ValueOf(item)
		}
		return Value{Kind: KindList, List: list}
	case map[string]interface{}:
		dict := make(map[string]Value, len(v))
		for key, item := range v {
			dict[key] = ValueOf(item)
		}
		return Value{Kind: KindDict, Dict: dict}
	case map[interface{}]interface{}:
		dict := make(map[string]Value, len(v))
		for key, item := range v {
			dict[fmt.Sprint(key)] = ValueOf(item)
		}
		return Value{Kind: KindDict, Dict: dict}
	default:
		return String(fmt.Sprint(v))
	}
}

// AsInt returns the number held by v. Floats and numeric strings do not count.
func (v Value) AsInt() (int64, bool) {
	if v.Kind != KindInt {
		return 0, false
	}
	return v.Int, true
}

// IsNil reports whether v holds no value.
func (v Value) IsNil() bool {
	return v.Kind == KindNil
}

// Keys returns the dict keys in sorted order.
func (v Value) Keys() []string {
	keys := make([]string, 0, len(v.Dict))
	for k := range v.Dict {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
