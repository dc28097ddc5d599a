package document

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeJSON_Scalars(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Value
	}{
		{"null", `null`, Null()},
		{"bool", `true`, Bool(true)},
		{"int", `42`, Int(42)},
		{"big int keeps precision", `9007199254740993`, Int(9007199254740993)},
		{"float", `1.5`, Float(1.5)},
		{"exponent is float", `1e3`, Float(1000)},
		{"string", `"hello"`, String("hello")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeJSON([]byte(tt.text))
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got kind %v", got.Kind())
		})
	}
}

func TestDecodeJSON_ObjectOrderPreserved(t *testing.T) {
	got, err := DecodeJSON([]byte(`{"zebra": 1, "apple": 2, "mango": 3}`))
	require.NoError(t, err)
	require.Equal(t, KindMapping, got.Kind())
	assert.Equal(t, []string{"zebra", "apple", "mango"}, got.AsMapping().Keys())
}

func TestDecodeJSON_Nested(t *testing.T) {
	got, err := DecodeJSON([]byte(`{"a": {"b": [1, {"c": null}]}}`))
	require.NoError(t, err)

	a, ok := got.AsMapping().Get("a")
	require.True(t, ok)
	b, ok := a.AsMapping().Get("b")
	require.True(t, ok)
	require.Len(t, b.Sequence(), 2)
	c, ok := b.Sequence()[1].AsMapping().Get("c")
	require.True(t, ok)
	assert.True(t, c.IsNull())
}

func TestDecodeJSON_DuplicateKeyRejected(t *testing.T) {
	_, err := DecodeJSON([]byte(`{"a": 1, "a": 2}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestDecodeJSON_TrailingContentRejected(t *testing.T) {
	_, err := DecodeJSON([]byte(`{"a": 1} {"b": 2}`))
	assert.Error(t, err)
}

func TestDecodeJSON_Invalid(t *testing.T) {
	_, err := DecodeJSON([]byte(`{"a": `))
	assert.Error(t, err)
}

func TestEncodeJSON_Compact(t *testing.T) {
	v, err := DecodeJSON([]byte(`{"b": 1, "a": [true, null, "x"]}`))
	require.NoError(t, err)

	out, err := EncodeJSON(v)
	require.NoError(t, err)
	assert.Equal(t, `{"b":1,"a":[true,null,"x"]}`+"\n", string(out))
}

func TestEncodeJSON_Indent(t *testing.T) {
	v, err := DecodeJSON([]byte(`{"a": 1, "b": []}`))
	require.NoError(t, err)

	out, err := EncodeJSONIndent(v)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": 1,\n  \"b\": []\n}\n", string(out))
}

func TestEncodeJSON_FloatStaysFloat(t *testing.T) {
	out, err := EncodeJSON(Float(3))
	require.NoError(t, err)
	assert.Equal(t, "3.0\n", string(out))

	back, err := DecodeJSON(out)
	require.NoError(t, err)
	assert.Equal(t, KindFloat, back.Kind())
}

func TestEncodeJSON_NonFiniteRejected(t *testing.T) {
	_, err := EncodeJSON(Float(math.NaN()))
	assert.Error(t, err)

	_, err = EncodeJSON(Float(math.Inf(1)))
	assert.Error(t, err)
}

func TestEncodeJSON_RoundTrip(t *testing.T) {
	original, err := DecodeJSON([]byte(`{"name":"api","n":3,"r":0.25,"on":true,"none":null,"tags":["a"],"sub":{"x":1}}`))
	require.NoError(t, err)

	out, err := EncodeJSON(original)
	require.NoError(t, err)

	back, err := DecodeJSON(out)
	require.NoError(t, err)
	assert.True(t, back.Equal(original))
}
