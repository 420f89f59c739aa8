package dataset

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaArrow(t *testing.T) {
	s := Schema{{"a", KindInt}, {"b", KindFloat}, {"c", KindStr}}
	as := s.Arrow()

	require.Len(t, as.Fields(), 3)
	assert.Equal(t, arrow.INT64, as.Field(0).Type.ID())
	assert.Equal(t, arrow.FLOAT64, as.Field(1).Type.ID())
	assert.Equal(t, arrow.STRING, as.Field(2).Type.ID())
	assert.True(t, as.Field(0).Nullable)

	assert.Equal(t, s, SchemaFromArrow(as))
}

func TestRecord(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	ds, err := Read("scenario", strings.NewReader(scenarioCSV))
	require.NoError(t, err)

	rec := ds.Record(mem)
	defer rec.Release()

	assert.Equal(t, int64(3), rec.NumRows())
	assert.Equal(t, int64(3), rec.NumCols())

	a := rec.Column(0).(*array.Int64)
	assert.Equal(t, int64(3), a.Value(1))
	assert.True(t, a.IsNull(2))

	b := rec.Column(1).(*array.Float64)
	assert.True(t, b.IsNull(1))
	assert.Equal(t, 4.1, b.Value(2))

	c := rec.Column(2).(*array.String)
	assert.Equal(t, "z", c.Value(2))
}

func TestWriteCSVRoundTrip(t *testing.T) {
	ds, err := Read("scenario", strings.NewReader(scenarioCSV))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, ds.WriteCSV(&buf))
	assert.Equal(t, scenarioCSV, buf.String())

	again, err := Read("scenario", &buf)
	require.NoError(t, err)
	assert.Equal(t, ds.Schema(), again.Schema())
	assert.Equal(t, rows(ds), rows(again))
}

func TestParquetRoundTrip(t *testing.T) {
	ds, err := Read("scenario", strings.NewReader(scenarioCSV))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "scenario.parquet")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, ds.WriteParquet(f))

	again, err := ReadParquet(context.Background(), "scenario", path, WithTraining(true))
	require.NoError(t, err)
	assert.True(t, again.IsTraining())
	assert.Equal(t, ds.Schema(), again.Schema())
	assert.Equal(t, rows(ds), rows(again))
}
