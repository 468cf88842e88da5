package dataprep

import "github.com/pkg/errors"

var (
	// ErrInvalidStrategy is returned for an unsupported null-handling strategy name.
	ErrInvalidStrategy = errors.New("invalid strategy")
	// ErrInsufficientData is returned when there are too few rows or columns
	// for covariance estimation or regression.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrInvalidParameter is returned for out of range parameters.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrMissingValues is returned when a numeric computation meets a missing value.
	ErrMissingValues = errors.New("missing values")
)
