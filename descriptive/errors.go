package descriptive

import "errors"

var (
	// ErrInvalidArgument reports a call that is missing a required option or
	// received a value outside its domain.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrLengthMismatch reports an element-wise operation on samples of
	// different sizes.
	ErrLengthMismatch = errors.New("length mismatch")

	// ErrNotImplemented is returned by operations that are declared but
	// not provided yet.
	ErrNotImplemented = errors.New("not implemented")

	// ErrNotPrecalculated is returned by Lookup for a statistic that was not
	// part of the sample's precalculation set.
	ErrNotPrecalculated = errors.New("statistic not precalculated")
)
