// Package astro provides the low-precision solar and lunar theory, time
// scales, and sky math behind the built-in ephemeris.
package astro

import (
	"math"
	"time"
)

// sunTerms holds the intermediate quantities shared by the longitude and
// equatorial calculations.
type sunTerms struct {
	apparentLon float64 // degrees, tropical, of date
	omega       float64 // longitude of the Moon's ascending node, degrees
	t           float64 // Julian centuries from J2000
}

func computeSun(j JD) sunTerms {
	T := j.Centuries(J2000)

	// Mean longitude and mean anomaly (degrees)
	L0 := Normalize360(280.46646 + 36000.76983*T + 0.0003032*T*T)
	M := Normalize360(357.52911 + 35999.05029*T - 0.0001537*T*T)

	// Equation of centre
	C := (1.914602-0.004817*T-0.000014*T*T)*sinD(M) +
		(0.019993-0.000101*T)*sinD(2*M) +
		0.000289*sinD(3*M)

	trueLon := L0 + C

	// Aberration and the dominant nutation term
	omega := 125.04 - 1934.136*T
	app := trueLon - 0.00569 - 0.00478*sinD(omega)

	return sunTerms{apparentLon: Normalize360(app), omega: omega, t: T}
}

// SunLongitude returns the apparent tropical ecliptic longitude of the Sun in
// degrees. Accuracy is about 0.01°.
func SunLongitude(j JD) float64 {
	return computeSun(j).apparentLon
}

// SunEquatorial returns the apparent right ascension and declination of the
// Sun in degrees.
func SunEquatorial(j JD) (raDeg, decDeg float64) {
	s := computeSun(j)
	T := s.t

	eps0 := 23.439291 - 0.0130042*T - 0.00000016*T*T + 0.000000504*T*T*T
	eps := degToRad(eps0 + 0.00256*cosD(s.omega))
	lon := degToRad(s.apparentLon)

	ra := math.Atan2(math.Cos(eps)*math.Sin(lon), math.Cos(lon))
	raDeg = Normalize360(radToDeg(ra))
	decDeg = radToDeg(math.Asin(math.Sin(eps) * math.Sin(lon)))
	return raDeg, decDeg
}

// SunAltitude returns the geometric altitude of the Sun's centre in degrees
// for obs at t.
func SunAltitude(obs Observer, t time.Time) float64 {
	ra, dec := SunEquatorial(JulianDay(t))
	h := EquatorialToHorizontal(SkyCoord{RAdeg: ra, DecDeg: dec}, obs, t)
	return h.ElDeg
}
