package dataset

// Options for reading delimited text
type Options struct {
	Comma    rune
	Training bool
}

// Option is a functional option for Read and Load
type Option func(*Options)

// WithComma sets the field delimiter
func WithComma(r rune) Option {
	return func(o *Options) {
		o.Comma = r
	}
}

// WithTraining marks the dataset as a training set, which allows
// splitting and target designation
func WithTraining(v bool) Option {
	return func(o *Options) {
		o.Training = v
	}
}

// SplitOptions selects the test row count for Split.
// At most one of TestSize and TrainSize is used; TestSize wins.
type SplitOptions struct {
	TestSize  *float64
	TrainSize *float64
}

// SplitOption is a functional option for Split
type SplitOption func(*SplitOptions)

// WithTestSize sets the test part size. Values below 1 are a fraction of the
// rows, values of 1 or more an absolute row count.
func WithTestSize(v float64) SplitOption {
	return func(o *SplitOptions) {
		o.TestSize = &v
	}
}

// WithTrainSize sets the train part size, with the same fraction/count rule
// as WithTestSize.
func WithTrainSize(v float64) SplitOption {
	return func(o *SplitOptions) {
		o.TrainSize = &v
	}
}
