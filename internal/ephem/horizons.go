package ephem

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/litescript/ls-panchang/internal/astro"
)

const (
	// HorizonsAPIURL is the JPL Horizons JSON API endpoint.
	HorizonsAPIURL = "https://ssd.jpl.nasa.gov/api/horizons.api"

	// TableStep is the spacing of the fetched longitude table.
	TableStep = 10 * time.Minute

	// TableCacheTTL is how long a fetched day table is reused.
	TableCacheTTL = 6 * time.Hour

	// RequestTimeout is the HTTP request timeout.
	RequestTimeout = 30 * time.Second
)

// horizonsCommand maps bodies to their Horizons target codes.
var horizonsCommand = map[Body]string{
	Sun:  "10",
	Moon: "301",
}

// HorizonsProvider fetches geocentric apparent ecliptic longitudes from JPL
// Horizons one UTC day at a time and interpolates within the day table.
// Rise/set is solved locally.
type HorizonsProvider struct {
	client   *http.Client
	baseURL  string
	ayanamsa astro.Ayanamsa
	horizon  Horizon

	mu    sync.RWMutex
	cache map[tableKey]*cachedTable
}

type tableKey struct {
	body Body
	day  string // UTC date, 2006-01-02
}

type lonPoint struct {
	t   time.Time
	lon float64 // tropical, degrees
}

type cachedTable struct {
	points    []lonPoint
	fetchedAt time.Time
}

// NewHorizonsProvider creates a Horizons API client.
func NewHorizonsProvider(cfg Config) *HorizonsProvider {
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: RequestTimeout}
	}
	base := cfg.BaseURL
	if base == "" {
		base = HorizonsAPIURL
	}
	return &HorizonsProvider{
		client:   client,
		baseURL:  base,
		ayanamsa: cfg.Ayanamsa,
		horizon:  cfg.Horizon,
		cache:    make(map[tableKey]*cachedTable),
	}
}

// Name implements Provider.
func (p *HorizonsProvider) Name() string {
	return "horizons"
}

// Longitude implements Provider.
func (p *HorizonsProvider) Longitude(t time.Time, body Body) (float64, error) {
	if _, ok := horizonsCommand[body]; !ok {
		return 0, fmt.Errorf("%w: %v", ErrUnsupportedBody, body)
	}

	u := t.UTC()
	points, err := p.dayTable(body, u)
	if err != nil {
		return 0, err
	}

	tropical, err := interpolateLongitude(points, u)
	if err != nil {
		return 0, err
	}
	return p.ayanamsa.Sidereal(tropical, astro.JulianDay(u)), nil
}

// RiseSet implements Provider using the built-in altitude solver.
func (p *HorizonsProvider) RiseSet(date time.Time, body Body, obs astro.Observer, kind EventKind) (time.Time, error) {
	return solveSunEvent(date, body, obs, kind, p.horizon)
}

// InvalidateCache drops every cached day table.
func (p *HorizonsProvider) InvalidateCache() {
	p.mu.Lock()
	p.cache = make(map[tableKey]*cachedTable)
	p.mu.Unlock()
}

func (p *HorizonsProvider) dayTable(body Body, u time.Time) ([]lonPoint, error) {
	key := tableKey{body: body, day: u.Format("2006-01-02")}

	p.mu.RLock()
	cached, ok := p.cache[key]
	p.mu.RUnlock()
	if ok && time.Since(cached.fetchedAt) < TableCacheTTL {
		return cached.points, nil
	}

	start := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	// One extra step past midnight so the last interval can interpolate.
	points, err := p.query(body, start, start.Add(24*time.Hour+TableStep))
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.cache[key] = &cachedTable{points: points, fetchedAt: time.Now()}
	p.mu.Unlock()

	return points, nil
}

// query requests an observer table of ecliptic longitude (quantity 31).
func (p *HorizonsProvider) query(body Body, start, end time.Time) ([]lonPoint, error) {
	params := url.Values{}
	params.Set("format", "json")
	params.Set("COMMAND", fmt.Sprintf("'%s'", horizonsCommand[body]))
	params.Set("OBJ_DATA", "NO")
	params.Set("MAKE_EPHEM", "YES")
	params.Set("EPHEM_TYPE", "OBSERVER")
	params.Set("CENTER", "'500@399'")
	params.Set("START_TIME", fmt.Sprintf("'%s'", formatHorizonsTime(start)))
	params.Set("STOP_TIME", fmt.Sprintf("'%s'", formatHorizonsTime(end)))
	params.Set("STEP_SIZE", fmt.Sprintf("'%s'", formatStepSize(TableStep)))
	params.Set("QUANTITIES", "'31'")

	resp, err := p.client.Get(p.baseURL + "?" + params.Encode())
	if err != nil {
		return nil, fmt.Errorf("%w: horizons request failed: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", ErrUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: horizons returned status %d: %s", ErrUnavailable, resp.StatusCode, string(data))
	}

	return parseHorizonsResponse(data)
}

// horizonsResponse represents the JSON API response.
type horizonsResponse struct {
	Signature struct {
		Version string `json:"version"`
		Source  string `json:"source"`
	} `json:"signature"`
	Result string `json:"result"`
	Error  string `json:"error"`
}

func parseHorizonsResponse(body []byte) ([]lonPoint, error) {
	var resp horizonsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("%w: horizons: %s", ErrUnavailable, resp.Error)
	}
	return parseLongitudeTable(resp.Result)
}

// parseLongitudeTable extracts rows between the $$SOE and $$EOE markers.
func parseLongitudeTable(result string) ([]lonPoint, error) {
	soeIdx := strings.Index(result, "$$SOE")
	eoeIdx := strings.Index(result, "$$EOE")
	if soeIdx == -1 || eoeIdx == -1 || soeIdx >= eoeIdx {
		return nil, fmt.Errorf("could not find ephemeris data markers")
	}

	var points []lonPoint
	for _, line := range strings.Split(result[soeIdx+5:eoeIdx], "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		pt, err := parseLongitudeLine(line)
		if err != nil {
			continue
		}
		points = append(points, pt)
	}

	if len(points) < 2 {
		return nil, fmt.Errorf("%w: horizons table has %d rows", ErrUnavailable, len(points))
	}
	sort.Slice(points, func(i, j int) bool { return points[i].t.Before(points[j].t) })
	return points, nil
}

// parseLongitudeLine parses a row such as
//
//	2024-Jan-11 12:00     290.8843211  -0.0000392
//
// The first numeric field after the timestamp is the longitude; solar
// presence flags in between are skipped.
func parseLongitudeLine(line string) (lonPoint, error) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return lonPoint{}, fmt.Errorf("insufficient fields: %d", len(fields))
	}

	t, err := parseHorizonsDateTime(fields[0] + " " + fields[1])
	if err != nil {
		return lonPoint{}, err
	}

	for _, f := range fields[2:] {
		if v, err := strconv.ParseFloat(f, 64); err == nil {
			return lonPoint{t: t, lon: astro.Normalize360(v)}, nil
		}
	}
	return lonPoint{}, fmt.Errorf("could not find longitude value")
}

// interpolateLongitude linearly interpolates across the bracketing rows,
// taking the short way around 0°.
func interpolateLongitude(points []lonPoint, t time.Time) (float64, error) {
	i := sort.Search(len(points), func(i int) bool { return points[i].t.After(t) })
	if i == 0 || i == len(points) {
		return 0, fmt.Errorf("%w: %s outside horizons table", ErrUnavailable, t.Format(time.RFC3339))
	}

	a, b := points[i-1], points[i]
	span := b.t.Sub(a.t).Seconds()
	frac := t.Sub(a.t).Seconds() / span
	return astro.Normalize360(a.lon + frac*astro.NormalizeSigned(b.lon-a.lon)), nil
}

// parseHorizonsDateTime parses Horizons date format like "2025-Dec-05 00:00".
func parseHorizonsDateTime(s string) (time.Time, error) {
	for _, layout := range []string{"2006-Jan-02 15:04", "2006-Jan-02 15:04:05", "2006-Jan-02 15:04:05.000"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse date: %s", s)
}

// formatHorizonsTime formats a time for the Horizons API.
func formatHorizonsTime(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04")
}

// formatStepSize formats a duration as a Horizons step size.
func formatStepSize(d time.Duration) string {
	minutes := int(d.Minutes())
	if minutes >= 60 && minutes%60 == 0 {
		return fmt.Sprintf("%d h", minutes/60)
	}
	return fmt.Sprintf("%d m", minutes)
}
