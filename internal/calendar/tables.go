package calendar

import (
	"fmt"
	"strings"
)

// NakshatraSpan is the arc of one lunar mansion in degrees.
const NakshatraSpan = 360.0 / 27.0

// TithiSpan is the Moon-Sun elongation covered by one tithi.
const TithiSpan = 12.0

// KaranaSpan is half a tithi.
const KaranaSpan = 6.0

var tithiNames = [30]string{
	"Pratipada", "Dwitiya", "Tritiya", "Chaturthi", "Panchami",
	"Shashthi", "Saptami", "Ashtami", "Navami", "Dashami",
	"Ekadashi", "Dwadashi", "Trayodashi", "Chaturdashi", "Purnima",
	"Pratipada", "Dwitiya", "Tritiya", "Chaturthi", "Panchami",
	"Shashthi", "Saptami", "Ashtami", "Navami", "Dashami",
	"Ekadashi", "Dwadashi", "Trayodashi", "Chaturdashi", "Amavasya",
}

var nakshatraNames = [27]string{
	"Ashwini", "Bharani", "Krittika", "Rohini", "Mrigashira", "Ardra",
	"Punarvasu", "Pushya", "Ashlesha", "Magha", "Purva Phalguni",
	"Uttara Phalguni", "Hasta", "Chitra", "Swati", "Vishakha", "Anuradha",
	"Jyeshtha", "Mula", "Purva Ashadha", "Uttara Ashadha", "Shravana",
	"Dhanishtha", "Shatabhisha", "Purva Bhadrapada", "Uttara Bhadrapada",
	"Revati",
}

var yogaNames = [27]string{
	"Vishkumbha", "Priti", "Ayushman", "Saubhagya", "Shobhana", "Atiganda",
	"Sukarma", "Dhriti", "Shula", "Ganda", "Vriddhi", "Dhruva", "Vyaghata",
	"Harshana", "Vajra", "Siddhi", "Vyatipata", "Variyan", "Parigha",
	"Shiva", "Siddha", "Sadhya", "Shubha", "Shukla", "Brahma", "Indra",
	"Vaidhriti",
}

// movableKaranas repeat eight times through the month; the fixed ones occupy
// the first and last three half-tithis.
var movableKaranas = [7]string{"Bava", "Balava", "Kaulava", "Taitila", "Gara", "Vanija", "Vishti"}

var monthNames = [12]string{
	"Chaitra", "Vaisakha", "Jyeshtha", "Ashadha", "Shravana", "Bhadrapada",
	"Ashvina", "Kartika", "Margashirsha", "Pausha", "Magha", "Phalguna",
}

var signNames = [12]string{
	"Aries", "Taurus", "Gemini", "Cancer", "Leo", "Virgo",
	"Libra", "Scorpio", "Sagittarius", "Capricorn", "Aquarius", "Pisces",
}

// Paksha is the lunar fortnight.
type Paksha int

const (
	Shukla  Paksha = iota // waxing
	Krishna               // waning
)

func (p Paksha) String() string {
	if p == Krishna {
		return "Krishna"
	}
	return "Shukla"
}

// ParsePaksha parses "Shukla" or "Krishna", case-insensitively.
func ParsePaksha(s string) (Paksha, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "shukla":
		return Shukla, nil
	case "krishna":
		return Krishna, nil
	default:
		return Shukla, fmt.Errorf("unknown paksha %q", s)
	}
}

// Sign is a sidereal zodiac sign, 0 = Aries.
type Sign int

func (s Sign) String() string {
	if s < 0 || int(s) >= len(signNames) {
		return fmt.Sprintf("Sign(%d)", int(s))
	}
	return signNames[s]
}

// ParseSign resolves a sign name.
func ParseSign(name string) (Sign, error) {
	for i, n := range signNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return Sign(i), nil
		}
	}
	return 0, &UnknownSignError{Name: name}
}

// LunarMonth is a month of the lunar year, 0 = Chaitra.
type LunarMonth int

func (m LunarMonth) String() string {
	if m < 0 || int(m) >= len(monthNames) {
		return fmt.Sprintf("LunarMonth(%d)", int(m))
	}
	return monthNames[m]
}

// ParseLunarMonth resolves a lunar month name.
func ParseLunarMonth(name string) (LunarMonth, error) {
	for i, n := range monthNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return LunarMonth(i), nil
		}
	}
	return 0, fmt.Errorf("unknown lunar month %q", name)
}

// Planet is a graha of the Vimshottari cycle.
type Planet int

const (
	Ketu Planet = iota
	Venus
	Sun
	Moon
	Mars
	Rahu
	Jupiter
	Saturn
	Mercury
)

// Planets is the Vimshottari sequence; it also assigns nakshatra lords.
var Planets = [9]Planet{Ketu, Venus, Sun, Moon, Mars, Rahu, Jupiter, Saturn, Mercury}

var planetNames = [9]string{"Ketu", "Venus", "Sun", "Moon", "Mars", "Rahu", "Jupiter", "Saturn", "Mercury"}

var planetYears = [9]int{7, 20, 6, 10, 7, 18, 16, 19, 17}

// CycleYears is the length of the full Vimshottari cycle.
const CycleYears = 120

func (p Planet) String() string {
	if p < 0 || int(p) >= len(planetNames) {
		return fmt.Sprintf("Planet(%d)", int(p))
	}
	return planetNames[p]
}

// Years returns the Mahadasha length of the planet.
func (p Planet) Years() int {
	return planetYears[p]
}

// ParsePlanet resolves a planet name.
func ParsePlanet(name string) (Planet, error) {
	for i, n := range planetNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return Planet(i), nil
		}
	}
	return 0, &UnknownPlanetError{Name: name}
}

// TithiNames returns the distinct tithi names accepted by rule predicates.
func TithiNames() []string {
	seen := make(map[string]bool)
	var out []string
	for _, n := range tithiNames {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

// IsTithiName reports whether name is a tithi name.
func IsTithiName(name string) bool {
	for _, n := range tithiNames {
		if strings.EqualFold(n, name) {
			return true
		}
	}
	return false
}

// IsNakshatraName reports whether name is a nakshatra name.
func IsNakshatraName(name string) bool {
	for _, n := range nakshatraNames {
		if strings.EqualFold(n, name) {
			return true
		}
	}
	return false
}

// CanonicalName returns the table spelling of a tithi or nakshatra name.
func CanonicalName(name string) string {
	for _, n := range tithiNames {
		if strings.EqualFold(n, name) {
			return n
		}
	}
	for _, n := range nakshatraNames {
		if strings.EqualFold(n, name) {
			return n
		}
	}
	return name
}

// MarshalText implements encoding.TextMarshaler.
func (p Paksha) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// MarshalText implements encoding.TextMarshaler.
func (s Sign) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// MarshalText implements encoding.TextMarshaler.
func (m LunarMonth) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// MarshalText implements encoding.TextMarshaler.
func (p Planet) MarshalText() ([]byte, error) { return []byte(p.String()), nil }
