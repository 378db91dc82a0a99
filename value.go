package beantab

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

type valueKind uint8

const (
	nullValue valueKind = iota
	numberValue
	textValue
)

// Value is the content of a balance cell: nothing, a number, or a text the
// user typed that could not be read as a number.
//
// The zero value is the null Value.
type Value struct {
	kind valueKind
	num  decimal.Decimal
	text string
}

// Null returns the empty cell value.
func Null() Value { return Value{} }

// Number returns a numeric value.
func Number(d decimal.Decimal) Value { return Value{kind: numberValue, num: d} }

// Num is a convenience constructor for numeric values.
func Num[T float64 | int | int64 | decimal.Decimal](v T) Value {
	switch x := any(v).(type) {
	case decimal.Decimal:
		return Number(x)
	case float64:
		return Number(decimal.NewFromFloat(x))
	case int:
		return Number(decimal.NewFromInt(int64(x)))
	case int64:
		return Number(decimal.NewFromInt(x))
	default:
		panic("unsupported type")
	}
}

// Text returns a value holding raw, undecodable text.
func Text(s string) Value { return Value{kind: textValue, text: s} }

// IsNull reports whether v is the empty cell.
func (v Value) IsNull() bool { return v.kind == nullValue }

// IsNumber reports whether v holds a number.
func (v Value) IsNumber() bool { return v.kind == numberValue }

// IsText reports whether v holds undecodable text.
func (v Value) IsText() bool { return v.kind == textValue }

// Decimal returns the number held by v, if any.
func (v Value) Decimal() (decimal.Decimal, bool) {
	if v.kind != numberValue {
		return decimal.Zero, false
	}
	return v.num, true
}

// Equal reports whether two values are the same cell content.
// Numbers compare numerically: "100" equals "100.00".
func (v Value) Equal(w Value) bool {
	if v.kind != w.kind {
		return false
	}
	switch v.kind {
	case numberValue:
		return v.num.Equal(w.num)
	case textValue:
		return v.text == w.text
	default:
		return true
	}
}

// String returns the plain text form of the value, "" for null.
func (v Value) String() string {
	switch v.kind {
	case numberValue:
		return v.num.String()
	case textValue:
		return v.text
	default:
		return ""
	}
}

// GoString is used by %#v, mostly in test failures.
func (v Value) GoString() string {
	switch v.kind {
	case numberValue:
		return fmt.Sprintf("Num(%s)", v.num)
	case textValue:
		return fmt.Sprintf("Text(%q)", v.text)
	default:
		return "Null()"
	}
}

// MarshalJSON writes null, a JSON number, or a JSON string.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case numberValue:
		return []byte(v.num.String()), nil
	case textValue:
		return json.Marshal(v.text)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON reads null, a JSON number, or a JSON string.
//
// A string is kept verbatim as text: cell texts are decoded with Decode, not
// here.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*v = Null()
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Text(s)
	default:
		d, err := decimal.NewFromString(string(data))
		if err != nil {
			return fmt.Errorf("invalid balance value %s: %w", data, err)
		}
		*v = Number(d)
	}
	return nil
}

var _ json.Marshaler = Value{}
var _ json.Unmarshaler = (*Value)(nil)
