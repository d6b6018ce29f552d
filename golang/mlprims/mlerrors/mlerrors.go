// Package mlerrors holds the error kinds shared by the partitioning, split
// evaluation and loss packages.
package mlerrors

import "github.com/pkg/errors"

var (
	// ErrInvalidArgument is the kind of every error caused by an argument outside
	// its domain: a test ratio outside [0, 1], a category value outside
	// [0, numCategories), a structured label set passed to a stratified split.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrDimensionMismatch is the kind of every error caused by containers whose
	// sample counts disagree.
	ErrDimensionMismatch = errors.New("dimension mismatch")
)

// InvalidArgument returns an error of kind ErrInvalidArgument with a formatted context message.
func InvalidArgument(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidArgument, format, args...)
}

// DimensionMismatch returns an error of kind ErrDimensionMismatch with a formatted context message.
func DimensionMismatch(format string, args ...interface{}) error {
	return errors.Wrapf(ErrDimensionMismatch, format, args...)
}

// IsInvalidArgument reports whether err was produced by InvalidArgument.
func IsInvalidArgument(err error) bool {
	return err != nil && errors.Cause(err) == ErrInvalidArgument
}

// IsDimensionMismatch reports whether err was produced by DimensionMismatch.
func IsDimensionMismatch(err error) bool {
	return err != nil && errors.Cause(err) == ErrDimensionMismatch
}
