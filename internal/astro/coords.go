package astro

import (
	"math"
	"time"
)

// SkyCoord holds equatorial coordinates and, once converted, the horizontal
// position for an observer.
type SkyCoord struct {
	RAdeg  float64 // Right Ascension in degrees (0-360)
	DecDeg float64 // Declination in degrees (-90 to +90)

	AzDeg float64 // Azimuth in degrees (0=N, 90=E, 180=S, 270=W)
	ElDeg float64 // Altitude in degrees (0=horizon, 90=zenith)
}

// Observer is a ground-based observer location.
type Observer struct {
	LatDeg float64 // north positive
	LonDeg float64 // east positive
	AltM   float64 // metres above sea level
}

// EquatorialToHorizontal converts RA/Dec to azimuth and altitude for obs at t.
// The input RA/Dec values are preserved in the result.
func EquatorialToHorizontal(eq SkyCoord, obs Observer, t time.Time) SkyCoord {
	lat := degToRad(obs.LatDeg)
	dec := degToRad(eq.DecDeg)

	// Hour angle = LST - RA
	ha := degToRad(LocalSiderealTime(t, obs.LonDeg) - eq.RAdeg)

	sinAlt := math.Sin(dec)*math.Sin(lat) + math.Cos(dec)*math.Cos(lat)*math.Cos(ha)
	alt := math.Asin(sinAlt)

	cosAz := (math.Sin(dec) - math.Sin(alt)*math.Sin(lat)) / (math.Cos(alt) * math.Cos(lat))
	if cosAz > 1 {
		cosAz = 1
	} else if cosAz < -1 {
		cosAz = -1
	}

	az := math.Acos(cosAz)
	// West of the meridian when the hour angle is positive.
	if math.Sin(ha) > 0 {
		az = 2*math.Pi - az
	}

	return SkyCoord{
		RAdeg:  eq.RAdeg,
		DecDeg: eq.DecDeg,
		AzDeg:  radToDeg(az),
		ElDeg:  radToDeg(alt),
	}
}

// LocalSiderealTime returns the local mean sidereal time in degrees.
func LocalSiderealTime(t time.Time, lonDeg float64) float64 {
	return Normalize360(GreenwichMeanSiderealTime(t) + lonDeg)
}

// GreenwichMeanSiderealTime returns GMST in degrees (IAU 1982).
func GreenwichMeanSiderealTime(t time.Time) float64 {
	j := JulianDay(t)
	T := j.Centuries(J2000)

	gmst := 280.46061837 +
		360.98564736629*float64(j-J2000) +
		0.000387933*T*T -
		T*T*T/38710000.0

	return Normalize360(gmst)
}

// DipDegrees returns the dip of the horizon for an observer at altM metres.
func DipDegrees(altM float64) float64 {
	if altM <= 0 {
		return 0
	}
	return 0.0293 * math.Sqrt(altM)
}
