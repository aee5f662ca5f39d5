// Package calendar classifies sidereal Sun and Moon longitudes into the
// elements of the Hindu luni-solar calendar.
package calendar

import (
	"math"

	"github.com/litescript/ls-panchang/internal/astro"
)

// Tithi is a lunar day.
type Tithi struct {
	Ordinal int    `json:"ordinal"` // 1-30; 15 = Purnima, 30 = Amavasya
	Name    string `json:"name"`
	Paksha  Paksha `json:"paksha"`
}

// Nakshatra is one of 27 lunar mansions.
type Nakshatra struct {
	Ordinal int    `json:"ordinal"` // 0-26
	Name    string `json:"name"`
	Lord    Planet `json:"lord"`
}

// Yoga is one of 27 combinations of Sun and Moon longitude.
type Yoga struct {
	Ordinal int    `json:"ordinal"` // 0-26
	Name    string `json:"name"`
}

// Karana is half of a tithi.
type Karana struct {
	Ordinal int    `json:"ordinal"` // 0-59
	Name    string `json:"name"`
}

// bin returns floor(value/span) clamped to [0, n). Values exactly on a
// boundary fall in the higher bin.
func bin(value, span float64, n int) int {
	i := int(math.Floor(value / span))
	if i < 0 {
		i = 0
	}
	if i >= n {
		i = n - 1
	}
	return i
}

// Elongation returns (moon - sun) mod 360.
func Elongation(sunLon, moonLon float64) float64 {
	return astro.Normalize360(moonLon - sunLon)
}

// TithiFromLongitudes classifies the lunar day.
func TithiFromLongitudes(sunLon, moonLon float64) Tithi {
	ordinal := bin(Elongation(sunLon, moonLon), TithiSpan, 30) + 1
	paksha := Shukla
	if ordinal > 15 {
		paksha = Krishna
	}
	return Tithi{Ordinal: ordinal, Name: tithiNames[ordinal-1], Paksha: paksha}
}

// NakshatraFromLongitude classifies the Moon's mansion.
func NakshatraFromLongitude(moonLon float64) Nakshatra {
	return NakshatraByOrdinal(bin(astro.Normalize360(moonLon), NakshatraSpan, 27))
}

// NakshatraByOrdinal returns nakshatra i, clamped to 0-26.
func NakshatraByOrdinal(i int) Nakshatra {
	i = min(max(i, 0), 26)
	return Nakshatra{Ordinal: i, Name: nakshatraNames[i], Lord: NakshatraLord(i)}
}

// NakshatraLord returns the Vimshottari lord of nakshatra ordinal i.
func NakshatraLord(i int) Planet {
	return Planets[((i%9)+9)%9]
}

// YogaFromLongitudes classifies the yoga.
func YogaFromLongitudes(sunLon, moonLon float64) Yoga {
	i := bin(astro.Normalize360(sunLon+moonLon), NakshatraSpan, 27)
	return Yoga{Ordinal: i, Name: yogaNames[i]}
}

// KaranaFromLongitudes classifies the half-tithi. Kimstughna opens the
// month, the seven movable karanas cycle eight times, and Shakuni,
// Chatushpada and Naga close it.
func KaranaFromLongitudes(sunLon, moonLon float64) Karana {
	k := bin(Elongation(sunLon, moonLon), KaranaSpan, 60)
	var name string
	switch {
	case k == 0:
		name = "Kimstughna"
	case k <= 56:
		name = movableKaranas[(k-1)%7]
	case k == 57:
		name = "Shakuni"
	case k == 58:
		name = "Chatushpada"
	default:
		name = "Naga"
	}
	return Karana{Ordinal: k, Name: name}
}

// SignFromLongitude returns the sidereal sign containing lon.
func SignFromLongitude(lon float64) Sign {
	return Sign(bin(astro.Normalize360(lon), 30, 12))
}

// MonthFromSunSign names the lunar month that begins while the Sun is in
// sign: Pisces gives Chaitra, Aries Vaisakha, and so on.
func MonthFromSunSign(sign Sign) LunarMonth {
	return LunarMonth((int(sign) + 1) % 12)
}
