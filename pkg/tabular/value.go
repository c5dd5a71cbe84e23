// Package tabular models schema-dynamic rows as mappings from column name to
// a tagged value. External data (delimited files, database reads, service
// responses) is converted to tagged values at the boundary so the rest of the
// code never handles raw any values.
package tabular

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind discriminates the value variants a cell can hold.
type Kind uint8

// Value kinds.
const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
)

// Value is a tagged cell value: string, number, boolean, or null.
// The zero Value is null.
type Value struct {
	kind Kind
	str  string
	num  float64
	b    bool
}

// String creates a string Value.
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// Number creates a numeric Value.
func Number(f float64) Value {
	return Value{kind: KindNumber, num: f}
}

// Bool creates a boolean Value.
func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// Null creates a null Value.
func Null() Value {
	return Value{}
}

// Kind returns the value's variant tag.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull reports whether the value is null.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// Text returns the display form of the value. Null renders as the empty
// string; numbers use the shortest representation that round-trips.
func (v Value) Text() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return ""
	}
}

// Float returns the numeric value, or 0 for non-numeric kinds.
func (v Value) Float() float64 {
	if v.kind == KindNumber {
		return v.num
	}
	return 0
}

// Any returns the value in its native Go representation, suitable for
// database parameter binding: nil, string, float64, or bool.
func (v Value) Any() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return v.num
	case KindBool:
		return v.b
	default:
		return nil
	}
}

// IsIntegral reports whether the value is a number with no fractional part.
func (v Value) IsIntegral() bool {
	return v.kind == KindNumber && v.num == math.Trunc(v.num)
}

// MarshalJSON encodes the value in its native JSON form.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Any())
}

// UnmarshalJSON decodes a JSON scalar into a tagged value.
// Objects and arrays are rejected.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	converted, err := FromAny(raw)
	if err != nil {
		return err
	}

	*v = converted
	return nil
}

// FromAny converts a native Go scalar into a tagged value. Supported inputs
// are nil, strings, byte slices, booleans, all integer and float widths, and
// time.Time (rendered as a date string, matching delimited-file ingestion).
func FromAny(raw any) (Value, error) {
	switch t := raw.(type) {
	case nil:
		return Null(), nil
	case string:
		return String(t), nil
	case []byte:
		return String(string(t)), nil
	case bool:
		return Bool(t), nil
	case float64:
		return Number(t), nil
	case float32:
		return Number(float64(t)), nil
	case int:
		return Number(float64(t)), nil
	case int32:
		return Number(float64(t)), nil
	case int64:
		return Number(float64(t)), nil
	case time.Time:
		return String(t.Format(time.DateOnly)), nil
	default:
		return Null(), fmt.Errorf("unsupported value type %T", raw)
	}
}

// Auto infers a tagged value from raw cell text: empty becomes null,
// "true"/"false" become booleans, parseable numbers become numbers, and
// everything else (dates included) stays a string.
func Auto(s string) Value {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Null()
	}

	switch trimmed {
	case "true":
		return Bool(true)
	case "false":
		return Bool(false)
	}

	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return Number(f)
	}

	return String(s)
}
