package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ValueKind tags the runtime type of a cell value
type ValueKind int

const (
	KindNull ValueKind = iota
	KindString
	KindNumber
)

// Value is a single cell value: string, number, or null.
// Numbers keep their original literal so "12.30" survives a round trip
// without float formatting drift.
type Value struct {
	kind ValueKind
	raw  string
}

// NullValue returns the null value
func NullValue() Value {
	return Value{kind: KindNull}
}

// StringValue wraps a string
func StringValue(s string) Value {
	return Value{kind: KindString, raw: s}
}

// NumberValue wraps a numeric literal
func NumberValue(literal string) Value {
	return Value{kind: KindNumber, raw: literal}
}

// Kind returns the value's tag
func (v Value) Kind() ValueKind {
	return v.kind
}

// IsNull reports whether the value is null
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// String returns the canonical string form used for diffing and validation.
// Null stringifies to the empty string.
func (v Value) String() string {
	return v.raw
}

// Float returns the numeric value for number kinds
func (v Value) Float() (float64, error) {
	if v.kind != KindNumber {
		return 0, fmt.Errorf("value is not a number: %q", v.raw)
	}
	return strconv.ParseFloat(v.raw, 64)
}

// MarshalJSON implements json.Marshaler
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindNumber:
		return []byte(v.raw), nil
	default:
		return json.Marshal(v.raw)
	}
}

// UnmarshalJSON implements json.Unmarshaler; objects and arrays are rejected
// since cell values are scalars by contract
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty value")
	}

	switch data[0] {
	case 'n':
		*v = NullValue()
		return nil
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = StringValue(s)
		return nil
	case '{', '[':
		return fmt.Errorf("cell value must be a scalar, got %c", data[0])
	case 't', 'f':
		// Booleans arrive from loosely typed clients; store as string
		*v = StringValue(string(data))
		return nil
	default:
		num := json.Number(data)
		if _, err := num.Float64(); err != nil {
			return fmt.Errorf("invalid cell value %q: %w", data, err)
		}
		*v = NumberValue(string(data))
		return nil
	}
}

// RowValues is an ordered column → value mapping. Iteration and diff output
// follow the order columns first appeared, which for JSON payloads is the
// key order of the incoming object.
type RowValues struct {
	order []string
	items map[string]Value
}

// NewRowValues returns an empty mapping
func NewRowValues() RowValues {
	return RowValues{items: make(map[string]Value)}
}

// Set inserts or overwrites a column value, preserving first-insertion order
func (rv *RowValues) Set(column string, v Value) {
	if rv.items == nil {
		rv.items = make(map[string]Value)
	}
	if _, exists := rv.items[column]; !exists {
		rv.order = append(rv.order, column)
	}
	rv.items[column] = v
}

// Get returns the value for a column
func (rv RowValues) Get(column string) (Value, bool) {
	v, ok := rv.items[column]
	return v, ok
}

// Columns returns column names in insertion order
func (rv RowValues) Columns() []string {
	out := make([]string, len(rv.order))
	copy(out, rv.order)
	return out
}

// Len returns the number of columns
func (rv RowValues) Len() int {
	return len(rv.order)
}

// IsEmpty reports whether the mapping has no columns
func (rv RowValues) IsEmpty() bool {
	return len(rv.order) == 0
}

// MarshalJSON emits an object with keys in insertion order
func (rv RowValues) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, col := range rv.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(col)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(rv.items[col])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an object while preserving its key order.
// A JSON null decodes to the empty mapping.
func (rv *RowValues) UnmarshalJSON(data []byte) error {
	*rv = NewRowValues()

	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("row values must be a JSON object")
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key := keyTok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		var v Value
		if err := v.UnmarshalJSON(raw); err != nil {
			return fmt.Errorf("column %q: %w", key, err)
		}
		rv.Set(key, v)
	}

	// Consume closing brace
	if _, err := dec.Token(); err != nil {
		return err
	}

	return nil
}
