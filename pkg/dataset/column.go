package dataset

import (
	"fmt"
	"strconv"
)

// Scalar is the set of Go types a column can store.
type Scalar interface {
	~int64 | ~float64 | ~string
}

// Vector is a nullable sequence of scalars. valid[i] is false for nulls.
type Vector[T Scalar] struct {
	values []T
	valid  []bool
}

func (v *Vector[T]) Len() int { return len(v.values) }

func (v *Vector[T]) IsNull(i int) bool { return !v.valid[i] }

// Get returns the value at row i and whether it is present.
func (v *Vector[T]) Get(i int) (T, bool) {
	return v.values[i], v.valid[i]
}

// Values returns the backing values. Null rows hold the zero value.
func (v *Vector[T]) Values() []T { return v.values }

// Append adds a present value.
func (v *Vector[T]) Append(x T) {
	v.values = append(v.values, x)
	v.valid = append(v.valid, true)
}

// AppendNull adds a null.
func (v *Vector[T]) AppendNull() {
	var zero T
	v.values = append(v.values, zero)
	v.valid = append(v.valid, false)
}

func (v *Vector[T]) NullCount() int {
	n := 0
	for _, ok := range v.valid {
		if !ok {
			n++
		}
	}
	return n
}

func (v *Vector[T]) Swap(i, j int) {
	v.values[i], v.values[j] = v.values[j], v.values[i]
	v.valid[i], v.valid[j] = v.valid[j], v.valid[i]
}

// Retain keeps rows where keep[i] is true, in order.
func (v *Vector[T]) Retain(keep []bool) {
	if len(keep) != len(v.values) {
		panic(fmt.Sprintf("dataset: retain mask length %d, column length %d", len(keep), len(v.values)))
	}
	n := 0
	for i, ok := range keep {
		if ok {
			v.values[n] = v.values[i]
			v.valid[n] = v.valid[i]
			n++
		}
	}
	clear(v.values[n:])
	v.values = v.values[:n]
	v.valid = v.valid[:n]
}

// splitOff keeps [0, at) and returns [at, end) in freshly allocated storage.
func (v *Vector[T]) splitOff(at int) Vector[T] {
	if at > len(v.values) {
		panic(fmt.Sprintf("dataset: split at %d out of range [0, %d]", at, len(v.values)))
	}
	tail := Vector[T]{
		values: append([]T(nil), v.values[at:]...),
		valid:  append([]bool(nil), v.valid[at:]...),
	}
	v.values = v.values[:at:at]
	v.valid = v.valid[:at:at]
	return tail
}

func (v *Vector[T]) clone() Vector[T] {
	return Vector[T]{
		values: append([]T(nil), v.values...),
		valid:  append([]bool(nil), v.valid...),
	}
}

// Column is a homogeneous nullable column. It is implemented only by
// *IntColumn, *FloatColumn and *StrColumn.
type Column interface {
	Kind() Kind
	Len() int
	IsNull(i int) bool
	NullCount() int
	// Value returns row i as a tagged scalar, or false for a null.
	Value(i int) (Value, bool)
	// Format returns the text form of row i, empty for a null.
	Format(i int) string
	// Push appends v projected to the column kind. A nil or mismatched value appends a null.
	Push(v *Value)
	Swap(i, j int)
	// SplitOff keeps rows [0, at) and returns rows [at, Len()) as a new column.
	SplitOff(at int) Column
	Retain(keep []bool)
	Clone() Column

	sealed()
}

type IntColumn struct{ Vector[int64] }

type FloatColumn struct{ Vector[float64] }

type StrColumn struct{ Vector[string] }

var (
	_ Column = (*IntColumn)(nil)
	_ Column = (*FloatColumn)(nil)
	_ Column = (*StrColumn)(nil)
)

// NewColumn returns an empty column of the given kind.
func NewColumn(kind Kind) Column {
	switch kind {
	case KindInt:
		return &IntColumn{}
	case KindFloat:
		return &FloatColumn{}
	case KindStr:
		return &StrColumn{}
	default:
		panic(fmt.Sprintf("dataset: unknown kind %d", kind))
	}
}

func (*IntColumn) Kind() Kind   { return KindInt }
func (*FloatColumn) Kind() Kind { return KindFloat }
func (*StrColumn) Kind() Kind   { return KindStr }

func (*IntColumn) sealed()   {}
func (*FloatColumn) sealed() {}
func (*StrColumn) sealed()   {}

func (c *IntColumn) Push(v *Value) {
	if v != nil {
		if x, ok := v.AsInt(); ok {
			c.Append(x)
			return
		}
	}
	c.AppendNull()
}

func (c *FloatColumn) Push(v *Value) {
	if v != nil {
		if x, ok := v.AsFloat(); ok {
			c.Append(x)
			return
		}
	}
	c.AppendNull()
}

func (c *StrColumn) Push(v *Value) {
	if v != nil {
		if x, ok := v.AsStr(); ok {
			c.Append(x)
			return
		}
	}
	c.AppendNull()
}

func (c *IntColumn) Value(i int) (Value, bool) {
	x, ok := c.Get(i)
	return IntValue(x), ok
}

func (c *FloatColumn) Value(i int) (Value, bool) {
	x, ok := c.Get(i)
	return FloatValue(x), ok
}

func (c *StrColumn) Value(i int) (Value, bool) {
	x, ok := c.Get(i)
	return StrValue(x), ok
}

func (c *IntColumn) Format(i int) string {
	if x, ok := c.Get(i); ok {
		return strconv.FormatInt(x, 10)
	}
	return ""
}

func (c *FloatColumn) Format(i int) string {
	if x, ok := c.Get(i); ok {
		return strconv.FormatFloat(x, 'g', -1, 64)
	}
	return ""
}

func (c *StrColumn) Format(i int) string {
	x, _ := c.Get(i)
	return x
}

func (c *IntColumn) SplitOff(at int) Column   { return &IntColumn{c.splitOff(at)} }
func (c *FloatColumn) SplitOff(at int) Column { return &FloatColumn{c.splitOff(at)} }
func (c *StrColumn) SplitOff(at int) Column   { return &StrColumn{c.splitOff(at)} }

func (c *IntColumn) Clone() Column   { return &IntColumn{c.clone()} }
func (c *FloatColumn) Clone() Column { return &FloatColumn{c.clone()} }
func (c *StrColumn) Clone() Column   { return &StrColumn{c.clone()} }

// swapRows exchanges rows i and j in every column in the same step.
// The partitioner must only reorder rows through this function so the
// columns never drift out of alignment.
func swapRows(cols []Column, i, j int) {
	for _, col := range cols {
		col.Swap(i, j)
	}
}
