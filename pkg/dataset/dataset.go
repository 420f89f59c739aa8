package dataset

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"slices"

	"github.com/rs/zerolog/log"
)

const (
	// TrainFile is the canonical training file of a competition
	TrainFile = "train.csv"
	// TestFile is the canonical test file of a competition
	TestFile = "test.csv"
	// DefaultTestSize is the test fraction used when Split gets no size
	DefaultTestSize = 0.3
)

// Materializer makes the raw files of a named dataset available locally
// and returns the directory holding them.
type Materializer interface {
	Materialize(ctx context.Context, name string) (string, error)
}

// Dataset is an in-memory table of named, typed columns of equal length.
type Dataset struct {
	name      string
	schema    Schema
	columns   []Column
	training  bool
	hasTarget bool
	consumed  bool
}

// New assembles a Dataset from columns. Column kinds must match the schema
// and all columns must have the same length.
func New(name string, schema Schema, columns []Column, training bool) (*Dataset, error) {
	if len(schema) != len(columns) {
		return nil, fmt.Errorf("schema has %d fields, got %d columns", len(schema), len(columns))
	}
	for i, f := range schema {
		if schema[:i].Index(f.Name) >= 0 {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, f.Name)
		}
		if columns[i].Kind() != f.Kind {
			return nil, fmt.Errorf("column %q is %s, schema says %s", f.Name, columns[i].Kind(), f.Kind)
		}
		if columns[i].Len() != columns[0].Len() {
			return nil, fmt.Errorf("column %q has %d rows, expected %d", f.Name, columns[i].Len(), columns[0].Len())
		}
	}
	return &Dataset{
		name:      name,
		schema:    slices.Clone(schema),
		columns:   columns,
		training:  training,
		hasTarget: training,
	}, nil
}

// Load materializes the source dataset and reads file from it. The result is
// a training set when file is TrainFile.
func Load(ctx context.Context, m Materializer, source, file string, opts ...Option) (*Dataset, error) {
	dir, err := m.Materialize(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("failed to materialize %s: %w", source, err)
	}

	path := filepath.Join(dir, file)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	opts = append([]Option{WithTraining(file == TrainFile)}, opts...)
	ds, err := Read(source, f, opts...)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("dataset", source).
		Str("file", path).
		Int("rows", ds.Len()).
		Int("columns", ds.NumColumns()).
		Bool("training", ds.training).
		Msg("Loaded dataset")

	return ds, nil
}

// LoadTrain loads the training file of source.
func LoadTrain(ctx context.Context, m Materializer, source string) (*Dataset, error) {
	return Load(ctx, m, source, TrainFile)
}

// LoadTest loads the test file of source.
func LoadTest(ctx context.Context, m Materializer, source string) (*Dataset, error) {
	return Load(ctx, m, source, TestFile)
}

// Name returns the dataset name. Split parts carry a _train or _test suffix.
func (d *Dataset) Name() string { return d.name }

// Schema returns a copy of the schema. It panics after Split.
func (d *Dataset) Schema() Schema {
	d.mustLive()
	return slices.Clone(d.schema)
}

// NumColumns returns the number of columns.
func (d *Dataset) NumColumns() int { return len(d.columns) }

// IsTraining reports whether the dataset was loaded from a training file
// or is the train part of a split.
func (d *Dataset) IsTraining() bool { return d.training }

// HasTarget reports whether the last column is a target.
func (d *Dataset) HasTarget() bool { return d.hasTarget }

// Consumed reports whether the dataset was split and no longer holds data.
func (d *Dataset) Consumed() bool { return d.consumed }

// mustLive panics for accessors that have no error return once the
// dataset has been consumed by Split.
func (d *Dataset) mustLive() {
	if d.consumed {
		panic("dataset: use after Split")
	}
}

// Len returns the row count, or 0 for a dataset without columns.
func (d *Dataset) Len() int {
	if len(d.columns) == 0 {
		return 0
	}
	return d.columns[0].Len()
}

// Column returns the named column.
func (d *Dataset) Column(name string) (Column, bool) {
	d.mustLive()
	i := d.schema.Index(name)
	if i < 0 {
		return nil, false
	}
	return d.columns[i], true
}

// ColumnAt returns the column at position i.
func (d *Dataset) ColumnAt(i int) Column {
	d.mustLive()
	return d.columns[i]
}

// Row returns the text form of row i, with empty strings for nulls.
func (d *Dataset) Row(i int) []string {
	d.mustLive()
	row := make([]string, len(d.columns))
	for j, col := range d.columns {
		row[j] = col.Format(i)
	}
	return row
}

// SetTarget moves the named column to the last position so that Target
// returns it. It does nothing for datasets without a target or when the
// name is unknown, and reports whether the column was found.
func (d *Dataset) SetTarget(name string) bool {
	d.mustLive()
	if !d.hasTarget {
		return false
	}
	i := d.schema.Index(name)
	if i < 0 {
		return false
	}
	last := len(d.schema) - 1
	d.schema[i], d.schema[last] = d.schema[last], d.schema[i]
	d.columns[i], d.columns[last] = d.columns[last], d.columns[i]
	return true
}

// Target returns a copy of the last column.
func (d *Dataset) Target() (Column, error) {
	if d.consumed {
		return nil, ErrConsumed
	}
	if len(d.columns) == 0 {
		return nil, ErrNoColumns
	}
	return d.columns[len(d.columns)-1].Clone(), nil
}

// RemoveNones drops every row that holds a null in any column and returns
// the number of rows dropped.
func (d *Dataset) RemoveNones() int {
	d.mustLive()
	n := d.Len()
	keep := make([]bool, n)
	for i := range keep {
		keep[i] = true
	}
	for _, col := range d.columns {
		for i := 0; i < n; i++ {
			if col.IsNull(i) {
				keep[i] = false
			}
		}
	}
	for _, col := range d.columns {
		col.Retain(keep)
	}

	dropped := n - d.Len()
	log.Debug().
		Str("dataset", d.name).
		Int("dropped", dropped).
		Int("rows", d.Len()).
		Msg("Removed rows with nulls")
	return dropped
}

// Split partitions the dataset at random into a train and a test part.
//
// The test row count k comes from opts (see WithTestSize and WithTrainSize)
// and defaults to 30% of the rows. A partial Fisher-Yates shuffle moves a
// uniform sample of k rows to the end, swapping whole rows across all
// columns, and the tail is then cut off into the test dataset.
//
// Split consumes d: on success d no longer holds any data and both returned
// datasets own separate storage.
func (d *Dataset) Split(src RandomSource, opts ...SplitOption) (*Dataset, *Dataset, error) {
	if d.consumed {
		return nil, nil, ErrConsumed
	}
	if !d.training {
		return nil, nil, fmt.Errorf("cannot split %s: %w", d.name, ErrNotTraining)
	}

	options := &SplitOptions{}
	for _, opt := range opts {
		opt(options)
	}

	n := d.Len()
	k, err := testCount(n, options)
	if err != nil {
		return nil, nil, err
	}

	for i := 0; i < k; i++ {
		r := src.Intn(n - i)
		swapRows(d.columns, r, n-i-1)
	}

	at := n - k
	testCols := make([]Column, len(d.columns))
	for i, col := range d.columns {
		testCols[i] = col.SplitOff(at)
	}

	train := &Dataset{
		name:      d.name + "_train",
		schema:    slices.Clone(d.schema),
		columns:   d.columns,
		training:  true,
		hasTarget: d.hasTarget,
	}
	test := &Dataset{
		name:      d.name + "_test",
		schema:    slices.Clone(d.schema),
		columns:   testCols,
		training:  false,
		hasTarget: d.hasTarget,
	}

	d.columns = nil
	d.schema = nil
	d.consumed = true

	log.Debug().
		Str("dataset", d.name).
		Int("train_rows", train.Len()).
		Int("test_rows", test.Len()).
		Msg("Split dataset")

	return train, test, nil
}

// testCount resolves the number of test rows for a dataset of n rows.
func testCount(n int, o *SplitOptions) (int, error) {
	var k int
	switch {
	case o.TestSize != nil:
		t := *o.TestSize
		if t < 0 || math.IsNaN(t) || math.IsInf(t, 0) {
			return 0, fmt.Errorf("%w: test size %v", ErrSplitSize, t)
		}
		switch {
		case t < 1:
			k = int(math.Floor(float64(n) * t))
		case t > float64(n):
			return 0, fmt.Errorf("%w: %v test rows out of %d", ErrSplitSize, t, n)
		default:
			k = int(t)
		}
	case o.TrainSize != nil:
		t := *o.TrainSize
		if t < 0 || math.IsNaN(t) || math.IsInf(t, 0) {
			return 0, fmt.Errorf("%w: train size %v", ErrSplitSize, t)
		}
		switch {
		case t < 1:
			k = n - int(math.Floor(float64(n)*t))
		case t > float64(n):
			return 0, fmt.Errorf("%w: %v train rows out of %d", ErrSplitSize, t, n)
		default:
			k = n - int(t)
		}
	default:
		k = int(math.Floor(float64(n) * DefaultTestSize))
	}
	if k < 0 || k > n {
		return 0, fmt.Errorf("%w: %d test rows out of %d", ErrSplitSize, k, n)
	}
	return k, nil
}
