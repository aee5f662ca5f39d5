package astro

import "math"

// Normalize360 maps an angle onto [0, 360).
func Normalize360(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	// math.Mod of a tiny negative can round back up to exactly 360.
	if a >= 360 {
		a = 0
	}
	return a
}

// NormalizeSigned maps an angle onto (-180, 180].
func NormalizeSigned(a float64) float64 {
	a = Normalize360(a)
	if a > 180 {
		a -= 360
	}
	return a
}

// degToRad converts degrees to radians.
func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// radToDeg converts radians to degrees.
func radToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}

func sinD(deg float64) float64 { return math.Sin(degToRad(deg)) }
func cosD(deg float64) float64 { return math.Cos(degToRad(deg)) }
