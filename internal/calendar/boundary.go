package calendar

import (
	"time"
)

// CategoryFunc returns the discrete category (tithi ordinal, nakshatra
// ordinal, ...) in force at t.
type CategoryFunc func(t time.Time) (int, error)

// BoundaryOptions bounds a boundary search.
type BoundaryOptions struct {
	Step      time.Duration // forward step; default 1 minute
	Horizon   time.Duration // give up after this long; default 48 hours
	Tolerance time.Duration // bisection target inside the final step; 0 disables
}

// DefaultBoundaryOptions returns a 1-minute step over 48 hours refined to
// one second.
func DefaultBoundaryOptions() BoundaryOptions {
	return BoundaryOptions{
		Step:      time.Minute,
		Horizon:   48 * time.Hour,
		Tolerance: time.Second,
	}
}

func (o BoundaryOptions) withDefaults() BoundaryOptions {
	d := DefaultBoundaryOptions()
	if o.Step <= 0 {
		o.Step = d.Step
	}
	if o.Horizon <= 0 {
		o.Horizon = d.Horizon
	}
	return o
}

// FindBoundary steps forward from start until fn no longer returns current
// and reports the first instant of the new category. When Tolerance is set
// and smaller than Step, the final step is bisected down to Tolerance.
// A *BoundaryNotFoundError is returned if nothing changes within Horizon.
func FindBoundary(start time.Time, fn CategoryFunc, current int, opts BoundaryOptions) (time.Time, error) {
	opts = opts.withDefaults()
	limit := start.Add(opts.Horizon)

	prev := start
	for t := start.Add(opts.Step); !t.After(limit); t = t.Add(opts.Step) {
		v, err := fn(t)
		if err != nil {
			return time.Time{}, err
		}
		if v != current {
			if opts.Tolerance > 0 && opts.Tolerance < opts.Step {
				return refine(fn, current, prev, t, opts.Tolerance)
			}
			return t, nil
		}
		prev = t
	}

	return time.Time{}, &BoundaryNotFoundError{Start: start, Horizon: opts.Horizon, Value: current}
}

// refine bisects (lo, hi] where fn(lo) == current and fn(hi) != current.
func refine(fn CategoryFunc, current int, lo, hi time.Time, tol time.Duration) (time.Time, error) {
	for hi.Sub(lo) > tol {
		mid := lo.Add(hi.Sub(lo) / 2)
		v, err := fn(mid)
		if err != nil {
			return time.Time{}, err
		}
		if v == current {
			lo = mid
		} else {
			hi = mid
		}
	}
	return hi, nil
}
