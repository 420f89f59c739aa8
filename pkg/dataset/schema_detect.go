package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// kindState tracks the running inferred kind of one column during pass 1.
type kindState struct {
	kind Kind
	seen bool
}

func (s *kindState) observe(v string) {
	if v == "" {
		return
	}
	if s.seen && s.kind == KindStr {
		return
	}
	t := detectValueKind(v)
	if !s.seen {
		s.kind, s.seen = t, true
		return
	}
	s.kind = Widen(s.kind, t)
}

// result defaults columns that never saw a value to KindStr.
func (s kindState) result() Kind {
	if !s.seen {
		return KindStr
	}
	return s.kind
}

func detectValueKind(v string) Kind {
	if _, err := strconv.ParseInt(v, 10, 64); err == nil {
		return KindInt
	}
	if _, ok := parseFloat(v); ok {
		return KindFloat
	}
	return KindStr
}

// parseFloat accepts decimal float literals only. Digit separators and hex
// mantissas are text; a literal beyond the float64 range becomes ±Inf.
func parseFloat(s string) (float64, bool) {
	if strings.ContainsRune(s, '_') {
		return 0, false
	}
	digits := strings.TrimLeft(s, "+-")
	if len(digits) >= 2 && digits[0] == '0' && (digits[1] == 'x' || digits[1] == 'X') {
		return 0, false
	}
	x, err := strconv.ParseFloat(s, 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && numErr.Err == strconv.ErrRange {
			return x, true
		}
		return 0, false
	}
	return x, true
}

// InferKinds runs the kind inference over already split rows. It is the
// same rule Read applies while buffering. A row wider than width fails
// with csv.ErrFieldCount.
func InferKinds(width int, rows [][]string) ([]Kind, error) {
	states := make([]kindState, width)
	for i, row := range rows {
		if len(row) > width {
			return nil, fmt.Errorf("row %d has %d fields, want at most %d: %w", i, len(row), width, csv.ErrFieldCount)
		}
		for j, v := range row {
			states[j].observe(v)
		}
	}
	kinds := make([]Kind, width)
	for i, s := range states {
		kinds[i] = s.result()
	}
	return kinds, nil
}

// Read builds a Dataset from delimited text. The first record is the header.
// Every record must have as many fields as the header.
//
// Pass 1 buffers every field as text and infers a kind per column.
// Pass 2 converts int and float columns to their typed storage.
func Read(name string, r io.Reader, opts ...Option) (*Dataset, error) {
	options := &Options{Comma: ','}
	for _, opt := range opts {
		opt(options)
	}

	cr := csv.NewReader(r)
	cr.Comma = options.Comma
	cr.FieldsPerRecord = 0
	cr.ReuseRecord = true

	headers, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read %s: missing header row", name)
		}
		return nil, fmt.Errorf("read %s header: %w", name, err)
	}

	schema := make(Schema, len(headers))
	for i, h := range headers {
		if schema[:i].Index(h) >= 0 {
			return nil, fmt.Errorf("read %s: %w: %q", name, ErrDuplicateColumn, h)
		}
		schema[i] = Field{Name: h, Kind: KindStr}
	}

	raw := make([]*StrColumn, len(schema))
	for i := range raw {
		raw[i] = &StrColumn{}
	}
	states := make([]kindState, len(schema))

	for {
		record, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		for i, field := range record {
			if field == "" {
				raw[i].AppendNull()
				continue
			}
			raw[i].Append(field)
			states[i].observe(field)
		}
	}

	columns := make([]Column, len(schema))
	for i := range schema {
		schema[i].Kind = states[i].result()
		col, err := castColumn(raw[i], schema[i].Kind)
		if err != nil {
			return nil, fmt.Errorf("read %s column %q: %w", name, schema[i].Name, err)
		}
		columns[i] = col
	}

	return &Dataset{
		name:      name,
		schema:    schema,
		columns:   columns,
		training:  options.Training,
		hasTarget: options.Training,
	}, nil
}

// castColumn re-parses a buffered text column into kind. Pass 1 already
// checked every value, so a parse failure is an invariant violation.
func castColumn(raw *StrColumn, kind Kind) (Column, error) {
	switch kind {
	case KindInt:
		out := &IntColumn{}
		for i := 0; i < raw.Len(); i++ {
			s, ok := raw.Get(i)
			if !ok {
				out.AppendNull()
				continue
			}
			x, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d: %v", ErrInvariant, i, err)
			}
			out.Append(x)
		}
		return out, nil
	case KindFloat:
		out := &FloatColumn{}
		for i := 0; i < raw.Len(); i++ {
			s, ok := raw.Get(i)
			if !ok {
				out.AppendNull()
				continue
			}
			x, ok := parseFloat(s)
			if !ok {
				return nil, fmt.Errorf("%w: row %d: %q is not a float", ErrInvariant, i, s)
			}
			out.Append(x)
		}
		return out, nil
	case KindStr:
		return raw, nil
	default:
		return nil, fmt.Errorf("%w: unknown kind %d", ErrInvariant, kind)
	}
}
