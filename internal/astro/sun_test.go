package astro

import (
	"math"
	"testing"
	"time"
)

func TestSunLongitude(t *testing.T) {
	tests := []struct {
		name string
		time time.Time
		want float64
		tol  float64
	}{
		{"March equinox 2024", time.Date(2024, 3, 20, 3, 6, 0, 0, time.UTC), 0, 0.05},
		{"June solstice 2024", time.Date(2024, 6, 20, 20, 51, 0, 0, time.UTC), 90, 0.05},
		{"September equinox 2024", time.Date(2024, 9, 22, 12, 44, 0, 0, time.UTC), 180, 0.05},
		{"December solstice 2024", time.Date(2024, 12, 21, 9, 21, 0, 0, time.UTC), 270, 0.05},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SunLongitude(JulianDay(tt.time))
			if diff := math.Abs(NormalizeSigned(got - tt.want)); diff > tt.tol {
				t.Errorf("SunLongitude() = %.4f°, want %.1f° (±%v)", got, tt.want, tt.tol)
			}
		})
	}
}

func TestSunEquatorial(t *testing.T) {
	tests := []struct {
		name       string
		time       time.Time
		wantRA     float64
		wantDecMin float64
		wantDecMax float64
	}{
		{"Spring equinox", time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC), 0, -1, 1},
		{"Summer solstice", time.Date(2024, 6, 21, 12, 0, 0, 0, time.UTC), 90, 23, 24},
		{"Autumn equinox", time.Date(2024, 9, 22, 12, 0, 0, 0, time.UTC), 180, -1, 1},
		{"Winter solstice", time.Date(2024, 12, 21, 12, 0, 0, 0, time.UTC), 270, -24, -23},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ra, dec := SunEquatorial(JulianDay(tt.time))
			if math.Abs(NormalizeSigned(ra-tt.wantRA)) > 2 {
				t.Errorf("RA = %.2f°, want ~%.0f°", ra, tt.wantRA)
			}
			if dec < tt.wantDecMin || dec > tt.wantDecMax {
				t.Errorf("Dec = %.2f°, want between %.0f° and %.0f°", dec, tt.wantDecMin, tt.wantDecMax)
			}
		})
	}
}

func TestSunAltitude(t *testing.T) {
	// Ujjain lies almost on the Tropic of Cancer, so the June solstice Sun
	// culminates near the zenith around 06:58 UTC.
	obs := Observer{LatDeg: 23.1765, LonDeg: 75.7885}
	noon := time.Date(2024, 6, 20, 6, 58, 0, 0, time.UTC)
	if alt := SunAltitude(obs, noon); alt < 89 {
		t.Errorf("solstice noon altitude = %.2f°, want > 89°", alt)
	}

	midnight := noon.Add(12 * time.Hour)
	if alt := SunAltitude(obs, midnight); alt > -40 {
		t.Errorf("midnight altitude = %.2f°, want well below the horizon", alt)
	}
}

func TestMoonLongitude(t *testing.T) {
	// 1992-04-12 0h: geometric longitude 133.1627°
	j := JulianDay(time.Date(1992, 4, 12, 0, 0, 0, 0, time.UTC))
	if got := MoonLongitude(j); math.Abs(got-133.1627) > 0.05 {
		t.Errorf("MoonLongitude() = %.4f°, want 133.1627° (±0.05)", got)
	}
}

func TestMoonSunElongation(t *testing.T) {
	tests := []struct {
		name string
		time time.Time
		want float64
	}{
		{"New moon 2024-01-11", time.Date(2024, 1, 11, 11, 57, 0, 0, time.UTC), 0},
		{"Full moon 2024-01-25", time.Date(2024, 1, 25, 17, 54, 0, 0, time.UTC), 180},
		{"New moon 2024-10-02", time.Date(2024, 10, 2, 18, 49, 0, 0, time.UTC), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j := JulianDay(tt.time)
			elong := Normalize360(MoonLongitude(j) - SunLongitude(j))
			if diff := math.Abs(NormalizeSigned(elong - tt.want)); diff > 0.3 {
				t.Errorf("elongation = %.3f°, want %.0f° (±0.3)", elong, tt.want)
			}
		})
	}
}

func TestLahiriAyanamsa(t *testing.T) {
	tests := []struct {
		name string
		jd   JD
		want float64
	}{
		{"J1900", J1900, 22.460},
		{"J2000", J2000, 23.857},
		{"2024", JulianDay(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)), 24.19},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AyanamsaLahiri.Degrees(tt.jd); math.Abs(got-tt.want) > 0.02 {
				t.Errorf("Lahiri(%v) = %.4f, want %.3f", tt.jd, got, tt.want)
			}
		})
	}

	if got := AyanamsaNone.Sidereal(123.4, J2000); got != 123.4 {
		t.Errorf("tropical passthrough = %v", got)
	}
	if got := AyanamsaLahiri.Sidereal(10, J2000); math.Abs(got-(360+10-23.8565)) > 0.001 {
		t.Errorf("Sidereal wrap = %v", got)
	}
}

func TestParseAyanamsa(t *testing.T) {
	tests := []struct {
		in      string
		want    Ayanamsa
		wantErr bool
	}{
		{"", AyanamsaLahiri, false},
		{"Lahiri", AyanamsaLahiri, false},
		{"tropical", AyanamsaNone, false},
		{"raman", AyanamsaLahiri, true},
	}
	for _, tt := range tests {
		got, err := ParseAyanamsa(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseAyanamsa(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseAyanamsa(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFindCrossing(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)
	// Peaks at 12:00, crosses zero upward at 06:00 and downward at 18:00.
	f := func(t time.Time) float64 {
		h := t.Sub(start).Hours()
		return -math.Cos(2 * math.Pi * h / 24)
	}

	rise, ok := FindCrossing(f, start, end, 0, CrossingUp, 48, time.Second)
	if !ok {
		t.Fatal("rise not found")
	}
	if d := rise.Sub(start.Add(6 * time.Hour)); d > 2*time.Second || d < -2*time.Second {
		t.Errorf("rise = %v, want 06:00", rise)
	}

	set, ok := FindCrossing(f, start, end, 0, CrossingDown, 48, time.Second)
	if !ok {
		t.Fatal("set not found")
	}
	if d := set.Sub(start.Add(18 * time.Hour)); d > 2*time.Second || d < -2*time.Second {
		t.Errorf("set = %v, want 18:00", set)
	}

	if _, ok := FindCrossing(f, start, end, 2, CrossingUp, 48, time.Second); ok {
		t.Error("expected no crossing above the function's maximum")
	}
	if _, ok := FindCrossing(f, end, start, 0, CrossingUp, 48, time.Second); ok {
		t.Error("expected no result for an inverted window")
	}
}
