package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValueOf(t *testing.T) {
	assert.True(t, ValueOf(nil).IsNil())
	assert.Equal(t, String("x"), ValueOf("x"))
	assert.Equal(t, String("raw"), ValueOf([]byte("raw")))
	assert.Equal(t, Int(3), ValueOf(uint64(3)))
	assert.Equal(t, Int(-3), ValueOf(int8(-3)))
	assert.Equal(t, Value{Kind: KindBool, Bool: true}, ValueOf(true))
	assert.Equal(t, Value{Kind: KindFloat, Float: 1.5}, ValueOf(1.5))
	assert.Equal(t, Int(4), ValueOf(Int(4)))

	dict := ValueOf(map[interface{}]interface{}{"b": int64(2), "a": "x"})
	assert.Equal(t, KindDict, dict.Kind)
	assert.Equal(t, []string{"a", "b"}, dict.Keys())
	assert.Equal(t, Int(2), dict.Dict["b"])

	nested := ValueOf([]interface{}{[]interface{}{"a"}, map[string]interface{}{"k": nil}})
	assert.Equal(t, KindList, nested.Kind)
	assert.Equal(t, KindList, nested.List[0].Kind)
	assert.True(t, nested.List[1].Dict["k"].IsNil())

	type opaque struct{ N int }
	assert.Equal(t, String("{5}"), ValueOf(opaque{5}))
}

func TestValueAsInt(t *testing.T) {
	n, ok := Int(9).AsInt()
	assert.True(t, ok)
	assert.Equal(t, int64(9), n)

	_, ok = String("9").AsInt()
	assert.False(t, ok)
	_, ok = ValueOf(9.0).AsInt()
	assert.False(t, ok)
}

func TestValueKindString(t *testing.T) {
	assert.Equal(t, "number", KindInt.String())
	assert.Equal(t, "list", KindList.String())
	assert.Equal(t, "nil", ValueKind(99).String())
}
