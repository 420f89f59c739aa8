package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/rs/zerolog/log"
)

// Record converts the dataset to an Arrow record. The caller must Release it.
func (d *Dataset) Record(mem memory.Allocator) arrow.Record {
	d.mustLive()
	arrays := make([]arrow.Array, len(d.columns))
	for i, col := range d.columns {
		arrays[i] = buildArray(mem, col)
	}
	rec := array.NewRecord(d.schema.Arrow(), arrays, int64(d.Len()))
	for _, a := range arrays {
		a.Release()
	}
	return rec
}

func buildArray(mem memory.Allocator, col Column) arrow.Array {
	switch c := col.(type) {
	case *IntColumn:
		b := array.NewInt64Builder(mem)
		defer b.Release()
		b.AppendValues(c.values, c.valid)
		return b.NewArray()
	case *FloatColumn:
		b := array.NewFloat64Builder(mem)
		defer b.Release()
		b.AppendValues(c.values, c.valid)
		return b.NewArray()
	case *StrColumn:
		b := array.NewStringBuilder(mem)
		defer b.Release()
		b.AppendValues(c.values, c.valid)
		return b.NewArray()
	default:
		panic(fmt.Sprintf("dataset: unknown column type %T", col))
	}
}

// WriteCSV writes the header and all rows. Nulls become empty fields.
func (d *Dataset) WriteCSV(w io.Writer) error {
	if d.consumed {
		return ErrConsumed
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(d.schema.Names()); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i := 0; i < d.Len(); i++ {
		if err := cw.Write(d.Row(i)); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteParquet writes the dataset as a single Snappy compressed row group.
func (d *Dataset) WriteParquet(w io.Writer) error {
	if d.consumed {
		return ErrConsumed
	}
	rec := d.Record(memory.NewGoAllocator())
	defer rec.Release()

	props := parquet.NewWriterProperties(parquet.WithCompression(compress.Codecs.Snappy))
	fw, err := pqarrow.NewFileWriter(rec.Schema(), w, props, pqarrow.DefaultWriterProps())
	if err != nil {
		return fmt.Errorf("failed to create parquet writer: %w", err)
	}
	if err := fw.Write(rec); err != nil {
		fw.Close()
		return fmt.Errorf("failed to write parquet: %w", err)
	}
	return fw.Close()
}

// ReadParquet loads a Parquet file whose columns are int64, float64 or
// string. Only WithTraining is honored from opts.
func ReadParquet(ctx context.Context, name, path string, opts ...Option) (*Dataset, error) {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer f.Close()

	mem := memory.NewGoAllocator()

	pf, err := file.NewParquetReader(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet file: %w", err)
	}
	defer pf.Close()

	pqReader, err := pqarrow.NewFileReader(pf, pqarrow.ArrowReadProperties{BatchSize: 1024}, mem)
	if err != nil {
		return nil, fmt.Errorf("failed to create parquet reader: %w", err)
	}

	pqSchema, err := pqReader.Schema()
	if err != nil {
		return nil, fmt.Errorf("failed to get parquet schema: %w", err)
	}
	schema := SchemaFromArrow(pqSchema)
	columns := make([]Column, len(schema))
	for i, field := range schema {
		columns[i] = NewColumn(field.Kind)
	}

	recReader, err := pqReader.GetRecordReader(ctx, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get record reader: %w", err)
	}
	defer recReader.Release()

	for recReader.Next() {
		rec := recReader.Record()
		for i := range columns {
			if err := appendArray(columns[i], rec.Column(i)); err != nil {
				return nil, fmt.Errorf("column %q: %w", schema[i].Name, err)
			}
		}
	}
	if err := recReader.Err(); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read records: %w", err)
	}

	ds, err := New(name, schema, columns, options.Training)
	if err != nil {
		return nil, err
	}
	log.Info().Str("file", path).Int("rows", ds.Len()).Msg("Read parquet")
	return ds, nil
}

func appendArray(col Column, arr arrow.Array) error {
	switch a := arr.(type) {
	case *array.Int64:
		c, ok := col.(*IntColumn)
		if !ok {
			return fmt.Errorf("cannot append int64 to %s column", col.Kind())
		}
		for j := 0; j < a.Len(); j++ {
			if a.IsNull(j) {
				c.AppendNull()
			} else {
				c.Append(a.Value(j))
			}
		}
	case *array.Float64:
		c, ok := col.(*FloatColumn)
		if !ok {
			return fmt.Errorf("cannot append float64 to %s column", col.Kind())
		}
		for j := 0; j < a.Len(); j++ {
			if a.IsNull(j) {
				c.AppendNull()
			} else {
				c.Append(a.Value(j))
			}
		}
	case *array.String:
		c, ok := col.(*StrColumn)
		if !ok {
			return fmt.Errorf("cannot append string to %s column", col.Kind())
		}
		for j := 0; j < a.Len(); j++ {
			if a.IsNull(j) {
				c.AppendNull()
			} else {
				c.Append(a.Value(j))
			}
		}
	default:
		return fmt.Errorf("unsupported arrow type %s", arr.DataType())
	}
	return nil
}
