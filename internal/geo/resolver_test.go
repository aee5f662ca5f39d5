package geo

import (
	"errors"
	"testing"
	"time"
	_ "time/tzdata"
)

var ujjain = Location{Lat: 23.1765, Lon: 75.7885}

func TestDefaultLookup(t *testing.T) {
	tests := []struct {
		name     string
		lat, lon float64
		want     string
		ok       bool
	}{
		{"Ujjain", 23.1765, 75.7885, "Asia/Kolkata", true},
		{"Lucknow", 26.85, 80.95, "Asia/Kolkata", true},
		{"Gorakhpur", 26.76, 83.37, "Asia/Kolkata", true},
		{"Guwahati", 26.14, 91.74, "Asia/Kolkata", true},
		{"Shillong", 25.57, 91.88, "Asia/Kolkata", true},
		{"Agartala", 23.83, 91.28, "Asia/Kolkata", true},
		{"Jaisalmer", 26.92, 70.90, "Asia/Kolkata", true},
		{"Kathmandu", 27.7172, 85.3240, "Asia/Kathmandu", true},
		{"Dhaka", 23.8103, 90.4125, "Asia/Dhaka", true},
		{"Karachi", 24.8607, 67.0011, "Asia/Karachi", true},
		{"Colombo", 6.9271, 79.8612, "Asia/Colombo", true},
		{"London", 51.5074, -0.1278, "Europe/London", true},
		{"Houston", 29.7604, -95.3698, "America/Chicago", true},
		{"New York", 40.7128, -74.0060, "America/New_York", true},
		{"Mid Pacific", 0, -150, "", false},
		{"Southern Ocean", -50, -140, "", false},
	}

	lookup := DefaultLookup()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := lookup.TimezoneFor(tt.lat, tt.lon)
			if ok != tt.ok || got != tt.want {
				t.Errorf("TimezoneFor(%v, %v) = %q, %v; want %q, %v", tt.lat, tt.lon, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestDefaultLookupShared(t *testing.T) {
	if DefaultLookup() != DefaultLookup() {
		t.Error("DefaultLookup should load the boundary data once")
	}
}

func TestResolveDefaults(t *testing.T) {
	r := NewResolver(DefaultLookup())

	tests := []struct {
		name     string
		query    Query
		wantHour int
		wantMin  int
	}{
		{"noon default", Query{Date: "2024-01-15", Location: ujjain, Default: DefaultNoon}, 12, 0},
		{"midnight default", Query{Date: "2024-01-15", Location: ujjain, Default: DefaultMidnight}, 0, 0},
		{"explicit time", Query{Date: "2024-01-15", Time: "07:15", Location: ujjain}, 7, 15},
		{"12-hour clock", Query{Date: "2024-01-15", Time: "6:30 PM", Location: ujjain}, 18, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := r.Resolve(tt.query)
			if err != nil {
				t.Fatalf("Resolve() error: %v", err)
			}
			if res.Local.Hour() != tt.wantHour || res.Local.Minute() != tt.wantMin {
				t.Errorf("Local = %v, want %02d:%02d", res.Local, tt.wantHour, tt.wantMin)
			}
			if res.ZoneName != "Asia/Kolkata" {
				t.Errorf("ZoneName = %q", res.ZoneName)
			}
			if _, off := res.Local.Zone(); off != 19800 {
				t.Errorf("offset = %d, want 19800", off)
			}
		})
	}
}

func TestResolveUTCAndMidnight(t *testing.T) {
	r := NewResolver(DefaultLookup())
	res, err := r.Resolve(Query{Date: "2004-07-14", Time: "07:15", Location: ujjain})
	if err != nil {
		t.Fatal(err)
	}

	want := time.Date(2004, 7, 14, 1, 45, 0, 0, time.UTC)
	if !res.UTC().Equal(want) {
		t.Errorf("UTC() = %v, want %v", res.UTC(), want)
	}
	if got := res.Midnight(); got.Hour() != 0 || got.Day() != 14 {
		t.Errorf("Midnight() = %v", got)
	}
	if jd := res.JD(); jd < 2453200 || jd > 2453201 {
		t.Errorf("JD() = %v", jd)
	}
}

func TestResolveExplicitTimezoneWins(t *testing.T) {
	r := NewResolver(DefaultLookup())
	res, err := r.Resolve(Query{Date: "2024-03-10", Time: "09:00", Timezone: "America/New_York", Location: ujjain})
	if err != nil {
		t.Fatal(err)
	}
	if res.ZoneName != "America/New_York" {
		t.Errorf("ZoneName = %q, want America/New_York", res.ZoneName)
	}
}

func TestResolveErrors(t *testing.T) {
	r := NewResolver(DefaultLookup())

	tests := []struct {
		name    string
		query   Query
		wantErr error
	}{
		{"bad date", Query{Date: "15-01-2024", Location: ujjain}, ErrInvalidDateFormat},
		{"impossible date", Query{Date: "2024-02-30", Location: ujjain}, ErrInvalidDateFormat},
		{"bad time", Query{Date: "2024-01-15", Time: "25:99", Location: ujjain}, ErrInvalidDateFormat},
		{"no zone found", Query{Date: "2024-01-15", Location: Location{Lat: 0, Lon: -150}}, ErrLocationResolution},
		{"latitude out of range", Query{Date: "2024-01-15", Location: Location{Lat: 91, Lon: 0}}, ErrLocationResolution},
		{"unknown zone", Query{Date: "2024-01-15", Timezone: "Mars/Olympus", Location: ujjain}, ErrLocationResolution},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Resolve(tt.query)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Resolve() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	var dateErr *InvalidDateFormatError
	_, err := r.Resolve(Query{Date: "yesterday", Location: ujjain})
	if !errors.As(err, &dateErr) || dateErr.Value != "yesterday" {
		t.Errorf("expected InvalidDateFormatError for %q, got %v", "yesterday", err)
	}
}

func TestResolveWithoutLookup(t *testing.T) {
	r := NewResolver(nil)
	if _, err := r.Resolve(Query{Date: "2024-01-15", Location: ujjain}); !errors.Is(err, ErrLocationResolution) {
		t.Errorf("expected ErrLocationResolution, got %v", err)
	}

	r = NewResolver(Fixed("UTC"))
	res, err := r.Resolve(Query{Date: "2024-01-15", Location: Location{Lat: 0, Lon: -150}})
	if err != nil || res.ZoneName != "UTC" {
		t.Errorf("Fixed lookup: %v, %v", res.ZoneName, err)
	}
}
