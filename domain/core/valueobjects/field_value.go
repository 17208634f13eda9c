package valueobjects

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FieldKind tells how a FieldValue is stored
type FieldKind int

const (
	KindString FieldKind = iota
	KindNumber
	KindCategory
	KindDay
	KindList
)

func (k FieldKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindCategory:
		return "category"
	case KindDay:
		return "day"
	case KindList:
		return "list"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// FieldValue is one immutable value of a record field
type FieldValue struct {
	kind  FieldKind
	text  string
	num   float64
	day   Day
	items []string
}

// String creates a free-text value
func String(s string) FieldValue { return FieldValue{kind: KindString, text: s} }

// Number creates a numeric value
func Number(n float64) FieldValue { return FieldValue{kind: KindNumber, num: n} }

// Category creates an enumerated value such as "arbol" or "critico"
func Category(c string) FieldValue { return FieldValue{kind: KindCategory, text: c} }

// DayValue creates a calendar-day value
func DayValue(d Day) FieldValue { return FieldValue{kind: KindDay, day: d} }

// List creates a list of strings
func List(items ...string) FieldValue {
	cp := make([]string, len(items))
	copy(cp, items)
	return FieldValue{kind: KindList, items: cp}
}

// Kind returns the stored kind
func (v FieldValue) Kind() FieldKind { return v.kind }

// Text renders the value as searchable text
func (v FieldValue) Text() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindDay:
		return v.day.String()
	case KindList:
		return strings.Join(v.items, ", ")
	default:
		return v.text
	}
}

// Number returns the numeric value and whether the value is numeric
func (v FieldValue) Number() (float64, bool) {
	return v.num, v.kind == KindNumber
}

// Day returns the day and whether the value holds one
func (v FieldValue) Day() (Day, bool) {
	return v.day, v.kind == KindDay && !v.day.IsZero()
}

// Items returns a copy of a list value
func (v FieldValue) Items() []string {
	if v.kind != KindList {
		return nil
	}
	cp := make([]string, len(v.items))
	copy(cp, v.items)
	return cp
}

// IsBlank reports whether the value carries no usable content
func (v FieldValue) IsBlank() bool {
	switch v.kind {
	case KindNumber:
		return false
	case KindDay:
		return v.day.IsZero()
	case KindList:
		return len(v.items) == 0
	default:
		return strings.TrimSpace(v.text) == ""
	}
}

// Equal compares kind and content
func (v FieldValue) Equal(other FieldValue) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNumber:
		return v.num == other.num
	case KindDay:
		return v.day.Equal(other.day)
	case KindList:
		if len(v.items) != len(other.items) {
			return false
		}
		for i := range v.items {
			if v.items[i] != other.items[i] {
				return false
			}
		}
		return true
	default:
		return v.text == other.text
	}
}

// MarshalJSON writes the plain JSON value: strings, numbers or arrays
func (v FieldValue) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNumber:
		return json.Marshal(v.num)
	case KindDay:
		return json.Marshal(v.day.String())
	case KindList:
		return json.Marshal(v.items)
	default:
		return json.Marshal(v.text)
	}
}

// FieldValueFromAny converts a decoded JSON value. Strings become KindString;
// callers promote them to categories or days once they know the layout.
func FieldValueFromAny(raw interface{}) (FieldValue, error) {
	switch x := raw.(type) {
	case string:
		return String(x), nil
	case float64:
		return Number(x), nil
	case int:
		return Number(float64(x)), nil
	case int64:
		return Number(float64(x)), nil
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return FieldValue{}, err
		}
		return Number(f), nil
	case bool:
		return String(strconv.FormatBool(x)), nil
	case []string:
		return List(x...), nil
	case []interface{}:
		items := make([]string, 0, len(x))
		for _, it := range x {
			items = append(items, fmt.Sprint(it))
		}
		return List(items...), nil
	case nil:
		return String(""), nil
	default:
		return FieldValue{}, fmt.Errorf("unsupported field value of type %T", raw)
	}
}
