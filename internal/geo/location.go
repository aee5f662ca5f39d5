// Package geo resolves civil dates, times and coordinates into timezone-aware
// instants.
package geo

import (
	"fmt"
	"math"

	"github.com/litescript/ls-panchang/internal/astro"
)

// Location is a geographic position. Altitude is in metres and defaults to 0.
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
	Alt float64 `json:"alt,omitempty"`
}

// Validate checks the coordinate ranges.
func (l Location) Validate() error {
	switch {
	case math.IsNaN(l.Lat) || math.IsNaN(l.Lon):
		return &LocationResolutionError{Lat: l.Lat, Lon: l.Lon, Reason: "coordinates are not numbers"}
	case l.Lat < -90 || l.Lat > 90:
		return &LocationResolutionError{Lat: l.Lat, Lon: l.Lon, Reason: "latitude out of range [-90, 90]"}
	case l.Lon < -180 || l.Lon > 180:
		return &LocationResolutionError{Lat: l.Lat, Lon: l.Lon, Reason: "longitude out of range [-180, 180]"}
	}
	return nil
}

// Observer converts the location for the astronomy routines.
func (l Location) Observer() astro.Observer {
	return astro.Observer{LatDeg: l.Lat, LonDeg: l.Lon, AltM: l.Alt}
}

func (l Location) String() string {
	return fmt.Sprintf("%.4f,%.4f", l.Lat, l.Lon)
}
