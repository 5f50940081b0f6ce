package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_UnmarshalKinds(t *testing.T) {
	var v Value

	require.NoError(t, json.Unmarshal([]byte(`"hello"`), &v))
	assert.Equal(t, KindString, v.Kind())
	assert.Equal(t, "hello", v.String())

	require.NoError(t, json.Unmarshal([]byte(`12.30`), &v))
	assert.Equal(t, KindNumber, v.Kind())
	assert.Equal(t, "12.30", v.String())
	f, err := v.Float()
	require.NoError(t, err)
	assert.Equal(t, 12.3, f)

	require.NoError(t, json.Unmarshal([]byte(`null`), &v))
	assert.True(t, v.IsNull())
	assert.Equal(t, "", v.String())

	// Booleans from loosely typed clients land as strings
	require.NoError(t, json.Unmarshal([]byte(`true`), &v))
	assert.Equal(t, KindString, v.Kind())
	assert.Equal(t, "true", v.String())
}

func TestValue_RejectsCompositeValues(t *testing.T) {
	var v Value
	assert.Error(t, json.Unmarshal([]byte(`{"a":1}`), &v))
	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &v))
}

func TestValue_NumberLiteralSurvivesRoundTrip(t *testing.T) {
	var v Value
	require.NoError(t, json.Unmarshal([]byte(`12.30`), &v))

	out, err := json.Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, `12.30`, string(out))
}

func TestRowValues_PreservesKeyOrder(t *testing.T) {
	payload := []byte(`{"zeta":"1","alpha":"2","mid":"3"}`)

	var rv RowValues
	require.NoError(t, json.Unmarshal(payload, &rv))
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, rv.Columns())

	out, err := json.Marshal(rv)
	require.NoError(t, err)
	assert.Equal(t, string(payload), string(out))
}

func TestRowValues_SetKeepsFirstInsertionOrder(t *testing.T) {
	rv := NewRowValues()
	rv.Set("a", StringValue("1"))
	rv.Set("b", StringValue("2"))
	rv.Set("a", StringValue("10"))

	assert.Equal(t, []string{"a", "b"}, rv.Columns())
	v, ok := rv.Get("a")
	require.True(t, ok)
	assert.Equal(t, "10", v.String())
}

func TestRowValues_NullDecodesToEmpty(t *testing.T) {
	var rv RowValues
	require.NoError(t, json.Unmarshal([]byte(`null`), &rv))
	assert.True(t, rv.IsEmpty())
}

func TestRowValues_RejectsNonObject(t *testing.T) {
	var rv RowValues
	assert.Error(t, json.Unmarshal([]byte(`["a"]`), &rv))
	assert.Error(t, json.Unmarshal([]byte(`"a"`), &rv))
}

func TestRowValues_MixedValueKinds(t *testing.T) {
	var rv RowValues
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Branch","amount":42.50,"closed":null}`), &rv))

	assert.Equal(t, 3, rv.Len())

	amount, _ := rv.Get("amount")
	assert.Equal(t, KindNumber, amount.Kind())
	assert.Equal(t, "42.50", amount.String())

	closed, _ := rv.Get("closed")
	assert.True(t, closed.IsNull())
}
