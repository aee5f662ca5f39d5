package astro

import "time"

// AltitudeFunc returns an altitude in degrees at t.
type AltitudeFunc func(t time.Time) float64

// Crossing selects the direction of an altitude event.
type Crossing int

const (
	// CrossingUp is altitude increasing through the target (rise).
	CrossingUp Crossing = iota
	// CrossingDown is altitude decreasing through the target (set).
	CrossingDown
)

// FindCrossing searches [start, end] for the first instant where f passes
// through targetDeg in the given direction. The window is sampled at steps
// points to bracket the event, then bisected down to tol. ok is false when
// no crossing exists in the window.
func FindCrossing(f AltitudeFunc, start, end time.Time, targetDeg float64, dir Crossing, steps int, tol time.Duration) (time.Time, bool) {
	if !start.Before(end) {
		return time.Time{}, false
	}
	if steps < 2 {
		steps = 2
	}
	if tol <= 0 {
		tol = time.Second
	}

	interval := end.Sub(start) / time.Duration(steps-1)
	prevT := start
	prev := f(prevT) - targetDeg

	for i := 1; i < steps; i++ {
		t := start.Add(time.Duration(i) * interval)
		if i == steps-1 {
			t = end
		}
		cur := f(t) - targetDeg
		if crosses(prev, cur, dir) {
			return bisect(f, prevT, t, prev, targetDeg, dir, tol), true
		}
		prevT, prev = t, cur
	}
	return time.Time{}, false
}

func crosses(a, b float64, dir Crossing) bool {
	if dir == CrossingUp {
		return a < 0 && b >= 0
	}
	return a > 0 && b <= 0
}

func bisect(f AltitudeFunc, a, b time.Time, valA, targetDeg float64, dir Crossing, tol time.Duration) time.Time {
	for b.Sub(a) > tol {
		mid := a.Add(b.Sub(a) / 2)
		valM := f(mid) - targetDeg
		if crosses(valA, valM, dir) {
			b = mid
		} else {
			a, valA = mid, valM
		}
	}
	return a.Add(b.Sub(a) / 2)
}
