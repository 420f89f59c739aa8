package dataset

import (
	"fmt"
	"strconv"

	"github.com/apache/arrow-go/v18/arrow"
)

// Kind is the scalar type tag of a column.
// Kinds are ordered by generality: KindInt < KindFloat < KindStr.
type Kind uint8

// Column kinds.
const (
	KindInt Kind = iota
	KindFloat
	KindStr
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindStr:
		return "str"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "int":
		return KindInt, nil
	case "float":
		return KindFloat, nil
	case "str":
		return KindStr, nil
	default:
		return 0, fmt.Errorf("unknown kind %q", s)
	}
}

// Widen returns the more general of two kinds.
func Widen(a, b Kind) Kind {
	if b > a {
		return b
	}
	return a
}

// ArrowType maps the kind to the Arrow type used on export.
func (k Kind) ArrowType() arrow.DataType {
	switch k {
	case KindInt:
		return arrow.PrimitiveTypes.Int64
	case KindFloat:
		return arrow.PrimitiveTypes.Float64
	default:
		return arrow.BinaryTypes.String
	}
}

// Value is a scalar tagged with exactly one Kind.
type Value struct {
	kind Kind
	i    int64
	f    float64
	s    string
}

// IntValue returns v tagged KindInt.
func IntValue(v int64) Value { return Value{kind: KindInt, i: v} }

// FloatValue returns v tagged KindFloat.
func FloatValue(v float64) Value { return Value{kind: KindFloat, f: v} }

// StrValue returns v tagged KindStr.
func StrValue(v string) Value { return Value{kind: KindStr, s: v} }

// Kind returns the tag of v.
func (v Value) Kind() Kind { return v.kind }

// AsInt returns the integer if v is tagged KindInt.
func (v Value) AsInt() (int64, bool) {
	if v.kind != KindInt {
		return 0, false
	}
	return v.i, true
}

// AsFloat returns the float if v is tagged KindFloat.
func (v Value) AsFloat() (float64, bool) {
	if v.kind != KindFloat {
		return 0, false
	}
	return v.f, true
}

// AsStr returns the string if v is tagged KindStr.
func (v Value) AsStr() (string, bool) {
	if v.kind != KindStr {
		return "", false
	}
	return v.s, true
}

func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	default:
		return v.s
	}
}
