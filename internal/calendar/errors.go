package calendar

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrBoundaryNotFound is matched by every BoundaryNotFoundError.
	ErrBoundaryNotFound = errors.New("category boundary not found")
	// ErrNotConverged means the new-moon search ran out of iterations.
	ErrNotConverged = errors.New("new moon search did not converge")
)

// BoundaryNotFoundError reports a category that did not change within the
// search horizon.
type BoundaryNotFoundError struct {
	Start   time.Time
	Horizon time.Duration
	Value   int
}

func (e *BoundaryNotFoundError) Error() string {
	return fmt.Sprintf("category %d unchanged for %v after %s", e.Value, e.Horizon, e.Start.Format(time.RFC3339))
}

// Is reports whether target is ErrBoundaryNotFound.
func (e *BoundaryNotFoundError) Is(target error) bool {
	return target == ErrBoundaryNotFound
}

// UnknownPlanetError reports a planet name outside the Vimshottari cycle.
type UnknownPlanetError struct {
	Name string
}

func (e *UnknownPlanetError) Error() string {
	return fmt.Sprintf("unknown planet %q", e.Name)
}

// UnknownSignError reports a sign name outside the zodiac.
type UnknownSignError struct {
	Name string
}

func (e *UnknownSignError) Error() string {
	return fmt.Sprintf("unknown sign %q", e.Name)
}
