package cleaner

import "github.com/rs/zerolog"

type options struct {
	features []string
	logger   zerolog.Logger
	seed     int64
	trials   int
}

// Option configures a DataCleaner.
type Option func(*options)

// WithFeatures restricts outlier detection and VIF to the named numeric
// columns. By default every numeric column is used.
func WithFeatures(names ...string) Option {
	return func(o *options) {
		o.features = append([]string(nil), names...)
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithSeed seeds the random starts of the robust covariance fit.
// The same seed on the same data gives the same result.
func WithSeed(seed int64) Option {
	return func(o *options) {
		o.seed = seed
	}
}

// WithTrials sets how many random starting subsets the robust covariance fit tries.
func WithTrials(n int) Option {
	return func(o *options) {
		o.trials = n
	}
}
