package panchang

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/litescript/ls-panchang/internal/calendar"
	"github.com/litescript/ls-panchang/internal/dasha"
	"github.com/litescript/ls-panchang/internal/daypart"
	"github.com/litescript/ls-panchang/internal/festival"
	"github.com/litescript/ls-panchang/internal/geo"
)

// EndLayout formats end times, which may fall on the following day.
const EndLayout = "Jan 2 03:04 PM"

// ChoghadiyaExport is a JSON-friendly choghadiya segment.
type ChoghadiyaExport struct {
	Name    string `json:"name"`
	Quality string `json:"quality"`
	Label   string `json:"label"`
	Time    string `json:"time"`
}

// Report is the panchang of one civil date. Time fields are civil local
// clock strings in the query's timezone.
type Report struct {
	TraceID  string       `json:"trace_id"`
	Date     string       `json:"date"`
	Instant  time.Time    `json:"instant"`
	Timezone string       `json:"timezone"`
	Location geo.Location `json:"location"`
	Weekday  string       `json:"weekday"`

	Tithi         string `json:"tithi"`
	TithiOrdinal  int    `json:"tithi_ordinal"`
	Paksha        string `json:"paksha"`
	Nakshatra     string `json:"nakshatra"`
	NakshatraLord string `json:"nakshatra_lord"`
	Yoga          string `json:"yoga"`
	Karana        string `json:"karana"`
	LunarMonth    string `json:"lunar_month"`
	SunSign       string `json:"sun_sign"`
	MoonSign      string `json:"moon_sign"`

	SunLongitude  float64 `json:"sun_longitude"`
	MoonLongitude float64 `json:"moon_longitude"`

	TithiEnds     string `json:"tithi_ends"`
	NakshatraEnds string `json:"nakshatra_ends"`

	Sunrise              string `json:"sunrise"`
	Sunset               string `json:"sunset"`
	SunEventApproximated bool   `json:"sun_event_approximated"`
	RahuKalam            string `json:"rahu_kalam"`
	AbhijitMuhurat       string `json:"abhijit_muhurat"`

	DayChoghadiya   []ChoghadiyaExport `json:"day_choghadiya"`
	NightChoghadiya []ChoghadiyaExport `json:"night_choghadiya"`

	// Typed values behind the strings above.
	Snapshot calendar.Snapshot `json:"-"`
	Day      daypart.Day       `json:"-"`
}

func newReport(res geo.Resolved, snap calendar.Snapshot, month calendar.LunarMonth, day daypart.Day, tithiEnd, nakEnd time.Time) *Report {
	zone := res.Zone
	clock := func(t time.Time) string { return t.In(zone).Format(daypart.ClockLayout) }

	return &Report{
		Date:     res.Local.Format(geo.DateLayout),
		Instant:  res.Local,
		Timezone: res.ZoneName,
		Location: res.Location,
		Weekday:  day.Weekday.String(),

		Tithi:         snap.Tithi.Name,
		TithiOrdinal:  snap.Tithi.Ordinal,
		Paksha:        snap.Tithi.Paksha.String(),
		Nakshatra:     snap.Nakshatra.Name,
		NakshatraLord: snap.Nakshatra.Lord.String(),
		Yoga:          snap.Yoga.Name,
		Karana:        snap.Karana.Name,
		LunarMonth:    month.String(),
		SunSign:       snap.SunSign.String(),
		MoonSign:      snap.MoonSign.String(),
		SunLongitude:  snap.SunLon,
		MoonLongitude: snap.MoonLon,

		TithiEnds:     tithiEnd.In(zone).Format(EndLayout),
		NakshatraEnds: nakEnd.In(zone).Format(EndLayout),

		Sunrise:              clock(day.Sun.Sunrise),
		Sunset:               clock(day.Sun.Sunset),
		SunEventApproximated: day.Sun.Approximated,
		RahuKalam:            day.RahuKalam.Format(zone),
		AbhijitMuhurat:       day.Abhijit.Format(zone),

		DayChoghadiya:   exportSegments(day.DaySegs, zone),
		NightChoghadiya: exportSegments(day.NightSegs, zone),

		Snapshot: snap,
		Day:      day,
	}
}

func exportSegments(segs [8]daypart.Segment, zone *time.Location) []ChoghadiyaExport {
	out := make([]ChoghadiyaExport, len(segs))
	for i, s := range segs {
		out[i] = ChoghadiyaExport{
			Name:    s.Quality.String(),
			Quality: s.Quality.Description(),
			Label:   s.Quality.Label().String(),
			Time:    s.Format(zone),
		}
	}
	return out
}

// WriteJSON writes the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	return writeJSON(w, r)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteSummary writes the report as a text table.
func WriteSummary(w io.Writer, r *Report) {
	fmt.Fprintf(w, "Panchang for %s (%s) @ %s, %s\n", r.Date, r.Weekday, r.Location, r.Timezone)
	fmt.Fprintln(w, strings.Repeat("─", 60))

	row := func(k, v string) { fmt.Fprintf(w, "%-16s %s\n", k, v) }
	row("Tithi", fmt.Sprintf("%s %s (until %s)", r.Paksha, r.Tithi, r.TithiEnds))
	row("Nakshatra", fmt.Sprintf("%s, lord %s (until %s)", r.Nakshatra, r.NakshatraLord, r.NakshatraEnds))
	row("Yoga", r.Yoga)
	row("Karana", r.Karana)
	row("Lunar month", r.LunarMonth)
	row("Sun", fmt.Sprintf("%s %.2f°", r.SunSign, r.SunLongitude))
	row("Moon", fmt.Sprintf("%s %.2f°", r.MoonSign, r.MoonLongitude))

	sun := fmt.Sprintf("%s / %s", r.Sunrise, r.Sunset)
	if r.SunEventApproximated {
		sun += " (approximated)"
	}
	row("Sunrise/sunset", sun)
	row("Rahu Kalam", r.RahuKalam)
	row("Abhijit", r.AbhijitMuhurat)

	writeChoghadiya(w, "Day choghadiya", r.DayChoghadiya)
	writeChoghadiya(w, "Night choghadiya", r.NightChoghadiya)
}

func writeChoghadiya(w io.Writer, title string, segs []ChoghadiyaExport) {
	fmt.Fprintf(w, "\n%s\n", title)
	fmt.Fprintln(w, strings.Repeat("─", 60))
	for _, s := range segs {
		fmt.Fprintf(w, "%-8s %-8s %-8s %s\n", s.Name, s.Quality, s.Label, s.Time)
	}
}

// DashaReport is a Vimshottari timeline with its inputs.
type DashaReport struct {
	TraceID  string `json:"trace_id"`
	Timezone string `json:"timezone"`
	MoonSign string `json:"moon_sign"`
	InSign   string `json:"degree_in_sign"`
	Absolute string `json:"absolute_degree"`
	*dasha.Timeline
}

// WriteJSON writes the report as indented JSON.
func (r *DashaReport) WriteJSON(w io.Writer) error {
	return writeJSON(w, r)
}

// WriteDasha writes the timeline as a text table, with Antardashas indented
// under their Mahadasha when present.
func WriteDasha(w io.Writer, r *DashaReport) {
	fmt.Fprintf(w, "Vimshottari Dasha from %s\n", r.Birth.Format("2006-01-02 15:04 MST"))
	fmt.Fprintf(w, "Moon %s in %s (%s), %s, lord %v, balance %s\n",
		r.InSign, r.MoonSign, r.Absolute, r.Nakshatra.Name, r.Lord, r.Balance.StringFixed(4))
	fmt.Fprintln(w, strings.Repeat("─", 60))

	fmt.Fprintf(w, "%-12s %-10s %-10s %6s %8s\n", "Period", "Start", "End", "Days", "Years")
	fmt.Fprintln(w, strings.Repeat("─", 60))
	for _, p := range r.Periods {
		writePeriod(w, "", p)
		for _, sub := range p.Sub {
			writePeriod(w, "  ", sub)
		}
	}

	fmt.Fprintf(w, "\nTotal: %d days, ends %s\n", r.TotalDays(), r.End().Format(geo.DateLayout))
}

func writePeriod(w io.Writer, indent string, p dasha.Period) {
	fmt.Fprintf(w, "%-12s %-10s %-10s %6d %8s\n",
		indent+p.Lord.String(),
		p.Start.Format(geo.DateLayout),
		p.End.Format(geo.DateLayout),
		p.Days,
		p.Years.StringFixed(3))
}

// WriteFestivals writes matches as a text table.
func WriteFestivals(w io.Writer, matches []festival.Match) {
	if len(matches) == 0 {
		fmt.Fprintln(w, "No festivals")
		return
	}

	fmt.Fprintf(w, "%-10s  %-24s %-24s %s\n", "Date", "Festival", "Type", "Details")
	fmt.Fprintln(w, strings.Repeat("─", 90))
	for _, m := range matches {
		fmt.Fprintf(w, "%-10s  %-24s %-24s %s\n", m.Date, truncateStr(m.Name, 24), truncateStr(m.Type, 24), details(m))
	}
	fmt.Fprintf(w, "\nTotal: %d festivals\n", len(matches))
}

// WriteFestivalsJSON writes matches as indented JSON.
func WriteFestivalsJSON(w io.Writer, matches []festival.Match) error {
	if matches == nil {
		matches = []festival.Match{}
	}
	return writeJSON(w, matches)
}

func details(m festival.Match) string {
	var parts []string
	if m.Details != "" {
		parts = append(parts, m.Details)
	} else {
		for _, s := range []string{m.LunarMonth, m.Paksha, m.Tithi} {
			if s != "" {
				parts = append(parts, s)
			}
		}
	}
	if m.SunriseApproximated {
		parts = append(parts, "(approx. sunrise)")
	}
	return strings.Join(parts, " ")
}

func truncateStr(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-2] + ".."
}
