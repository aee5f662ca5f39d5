package geo

import (
	"errors"
	"fmt"
)

// ErrLocationResolution is matched by every LocationResolutionError.
var ErrLocationResolution = errors.New("location resolution failed")

// LocationResolutionError reports coordinates for which no timezone could be
// determined, or which are out of range.
type LocationResolutionError struct {
	Lat, Lon float64
	Reason   string
}

func (e *LocationResolutionError) Error() string {
	return fmt.Sprintf("cannot resolve location (%.4f, %.4f): %s", e.Lat, e.Lon, e.Reason)
}

// Is reports whether target is ErrLocationResolution.
func (e *LocationResolutionError) Is(target error) bool {
	return target == ErrLocationResolution
}

// ErrInvalidDateFormat is matched by every InvalidDateFormatError.
var ErrInvalidDateFormat = errors.New("invalid date format")

// InvalidDateFormatError reports a date or time string that does not match
// the expected layout.
type InvalidDateFormatError struct {
	Value  string
	Layout string
	Err    error
}

func (e *InvalidDateFormatError) Error() string {
	return fmt.Sprintf("invalid date format %q (want %s)", e.Value, e.Layout)
}

// Unwrap returns the underlying parse error.
func (e *InvalidDateFormatError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrInvalidDateFormat.
func (e *InvalidDateFormatError) Is(target error) bool {
	return target == ErrInvalidDateFormat
}
