package value

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeJSON_OrderedKeys(t *testing.T) {
	m := MapOf(
		"name", Str("Aspirin"),
		"synonyms", List{Str("ASA"), Null{}},
		"meta", MapOf("count", Scalar{Raw: "2", Type: TypeInt}),
	)
	data, err := EncodeJSON(m)
	require.NoError(t, err)
	assert.Equal(t,
		`{"name":"Aspirin","synonyms":["ASA",null],"meta":{"count":2}}`,
		string(data))
}

func TestEncodeJSON_EscapesStrings(t *testing.T) {
	data, err := EncodeJSON(Str("a\tb\"c"))
	require.NoError(t, err)
	assert.Equal(t, `"a\tb\"c"`, string(data))
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		v    Value
	}{
		{name: "null", v: Null{}},
		{name: "string", v: Str("hello")},
		{name: "numeric string stays string", v: Str("5")},
		{name: "int", v: Scalar{Raw: "42", Type: TypeInt}},
		{name: "float", v: Scalar{Raw: "3.02e-5", Type: TypeFloat}},
		{name: "bool", v: Scalar{Raw: "true", Type: TypeBool}},
		{name: "empty list", v: List{}},
		{name: "empty map", v: NewMap()},
		{
			name: "nested",
			v: MapOf(
				"drugbank_id", List{Str("DB00945")},
				"products", List{MapOf("ndc_id", Str(""))},
				"weight", Scalar{Raw: "180.158", Type: TypeFloat},
				"approved", Scalar{Raw: "false", Type: TypeBool},
				"note", Null{},
			),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded, err := EncodeJSON(tt.v)
			require.NoError(t, err)
			decoded, err := DecodeJSON(encoded)
			require.NoError(t, err)
			if !tt.v.Equal(decoded) {
				t.Fatalf("round trip mismatch:\n%s", cmp.Diff(string(encoded), mustEncode(t, decoded)))
			}
		})
	}
}

func mustEncode(t *testing.T, v Value) string {
	t.Helper()
	data, err := EncodeJSON(v)
	require.NoError(t, err)
	return string(data)
}

func TestDecodeJSON_PreservesKeyOrder(t *testing.T) {
	decoded, err := DecodeJSON([]byte(`{"z":"1","a":"2","m":"3"}`))
	require.NoError(t, err)
	m, ok := decoded.(*Map)
	require.True(t, ok)
	assert.Equal(t, []string{"z", "a", "m"}, m.Keys())
}

func TestDecodeJSON_TrailingGarbage(t *testing.T) {
	_, err := DecodeJSON([]byte(`{"a":"1"} extra`))
	require.Error(t, err)
}

func TestEncodeJSONIndent(t *testing.T) {
	data, err := EncodeJSONIndent(MapOf("a", Str("1")), "    ")
	require.NoError(t, err)
	assert.Equal(t, "{\n    \"a\": \"1\"\n}", string(data))
}
