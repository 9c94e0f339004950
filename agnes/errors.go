package agnes

import "errors"

var (
	// ErrInsufficientData indicates fewer than two points were supplied;
	// a pairwise distance matrix is undefined below that.
	ErrInsufficientData = errors.New("agnes: at least two points are required")
	// ErrUnknownMetric indicates an unrecognized distance metric name.
	ErrUnknownMetric = errors.New("agnes: unknown distance metric")
	// ErrDimensionMismatch indicates labels and points differ in length.
	ErrDimensionMismatch = errors.New("agnes: labels and points must have equal length")
)
