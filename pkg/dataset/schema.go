package dataset

import (
	"github.com/apache/arrow-go/v18/arrow"
)

// Field is a named, typed column slot in a Schema.
type Field struct {
	Name string
	Kind Kind
}

// Schema is the ordered list of fields of a Dataset.
// Field order is the column order.
type Schema []Field

// Index returns the position of the named field, or -1.
func (s Schema) Index(name string) int {
	for i, f := range s {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// Names returns the field names in column order.
func (s Schema) Names() []string {
	names := make([]string, len(s))
	for i, f := range s {
		names[i] = f.Name
	}
	return names
}

// Arrow converts the schema to nullable Arrow fields.
func (s Schema) Arrow() *arrow.Schema {
	fields := make([]arrow.Field, len(s))
	for i, f := range s {
		fields[i] = arrow.Field{Name: f.Name, Type: f.Kind.ArrowType(), Nullable: true}
	}
	return arrow.NewSchema(fields, nil)
}

// SchemaFromArrow is the inverse of Schema.Arrow. Types other than int64,
// float64 and string map to KindStr.
func SchemaFromArrow(as *arrow.Schema) Schema {
	s := make(Schema, len(as.Fields()))
	for i, f := range as.Fields() {
		kind := KindStr
		switch f.Type.ID() {
		case arrow.INT64:
			kind = KindInt
		case arrow.FLOAT64:
			kind = KindFloat
		}
		s[i] = Field{Name: f.Name, Kind: kind}
	}
	return s
}
