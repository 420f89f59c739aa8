package dataset

import "errors"

var (
	// ErrNotTraining is returned when splitting a dataset that is not a training set
	ErrNotTraining = errors.New("dataset is not a training set")
	// ErrNoColumns is returned when an operation needs at least one column
	ErrNoColumns = errors.New("dataset has no columns")
	// ErrSplitSize is returned when the requested split does not fit the dataset
	ErrSplitSize = errors.New("invalid split size")
	// ErrInvariant marks an internal consistency failure, such as a value that
	// passed type inference failing its typed parse
	ErrInvariant = errors.New("dataset invariant violated")
	// ErrConsumed is returned by a dataset that has already been split
	ErrConsumed = errors.New("dataset already consumed by split")
	// ErrDuplicateColumn is returned when a header names a column twice
	ErrDuplicateColumn = errors.New("duplicate column name")
)
