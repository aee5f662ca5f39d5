package festival

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/litescript/ls-panchang/internal/calendar"
)

//go:embed rules.toml
var defaultRules []byte

// DefaultCategory is the type of lunar matches whose rule names none.
const DefaultCategory = "hindu festival"

// Match types for the non-lunar variants.
const (
	TypeFixed = "National/Fixed Festival"
	TypeSolar = "Solar Festival"
)

// Table is an immutable, validated rule list in evaluation order.
type Table struct {
	Source string
	Rules  []Rule
}

// Len returns the number of rules.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rules)
}

// Counts returns the number of rules of each kind.
func (t *Table) Counts() map[Kind]int {
	out := make(map[Kind]int)
	if t == nil {
		return out
	}
	for _, r := range t.Rules {
		out[r.Kind()]++
	}
	return out
}

// ruleFile is the TOML document layout.
type ruleFile struct {
	Festival []rawRule `toml:"festival"`
}

type rawRule struct {
	Name       string `toml:"name"`
	Type       string `toml:"type,omitempty"`
	Month      int    `toml:"month,omitempty"`
	Day        int    `toml:"day,omitempty"`
	SunSign    string `toml:"sun_sign,omitempty"`
	LunarMonth string `toml:"lunar_month,omitempty"`
	Paksha     string `toml:"paksha,omitempty"`
	Tithi      string `toml:"tithi,omitempty"`
	Nakshatra  string `toml:"nakshatra,omitempty"`
	Timing     string `toml:"timing,omitempty"`
	Category   string `toml:"category,omitempty"`
}

// Default returns the embedded rule table.
func Default() *Table {
	t, err := Parse(defaultRules, "embedded")
	if err != nil {
		panic(fmt.Sprintf("festival: embedded rules: %v", err))
	}
	return t
}

// LoadFile reads and validates a TOML rule file.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules: %w", err)
	}
	return Parse(data, path)
}

// Load returns the rule table at path, or the embedded table when path is
// empty.
func Load(path string) (*Table, error) {
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// Parse decodes and validates a TOML rule table. The first malformed rule
// is reported as a *RuleError.
func Parse(data []byte, source string) (*Table, error) {
	var f ruleFile
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("%s: parsing rules: %w", source, err)
	}

	title := cases.Title(language.English)
	seen := make(map[string]bool, len(f.Festival))
	t := &Table{Source: source, Rules: make([]Rule, 0, len(f.Festival))}

	for i, raw := range f.Festival {
		fail := func(field string, err error) error {
			return &RuleError{Source: source, Index: i, Rule: raw.Name, Field: field, Err: err}
		}

		raw.Name = strings.TrimSpace(raw.Name)
		if raw.Name == "" {
			return nil, fail("name", ErrMissingField)
		}
		key := strings.ToLower(raw.Name)
		if seen[key] {
			return nil, fail("name", ErrDuplicateRule)
		}
		seen[key] = true

		rule, err := raw.compile(title, fail)
		if err != nil {
			return nil, err
		}
		t.Rules = append(t.Rules, rule)
	}

	return t, nil
}

func (raw rawRule) compile(title cases.Caser, fail func(string, error) error) (Rule, error) {
	switch strings.ToLower(strings.TrimSpace(raw.Type)) {
	case "fixed":
		return raw.compileFixed(fail)
	case "solar":
		return raw.compileSolar(fail)
	case "", "lunar":
		return raw.compileLunar(title, fail)
	default:
		return nil, fail("type", fmt.Errorf("%w: %q", ErrInvalidValue, raw.Type))
	}
}

type field struct{ name, value string }

func (raw rawRule) lunarFields() []field {
	return []field{
		{"lunar_month", raw.LunarMonth},
		{"paksha", raw.Paksha},
		{"tithi", raw.Tithi},
		{"nakshatra", raw.Nakshatra},
		{"timing", raw.Timing},
		{"category", raw.Category},
	}
}

func (raw rawRule) compileFixed(fail func(string, error) error) (Rule, error) {
	if raw.Month < 1 || raw.Month > 12 {
		return nil, fail("month", fmt.Errorf("%w: %d", ErrInvalidValue, raw.Month))
	}
	// 2024 is a leap year, so 29 February is accepted.
	last := time.Date(2024, time.Month(raw.Month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if raw.Day < 1 || raw.Day > last {
		return nil, fail("day", fmt.Errorf("%w: %d", ErrInvalidValue, raw.Day))
	}
	if raw.SunSign != "" {
		return nil, fail("sun_sign", ErrFieldNotAllowed)
	}
	for _, f := range raw.lunarFields() {
		if f.value != "" {
			return nil, fail(f.name, ErrFieldNotAllowed)
		}
	}
	return &FixedRule{Name: raw.Name, Month: time.Month(raw.Month), Day: raw.Day}, nil
}

func (raw rawRule) compileSolar(fail func(string, error) error) (Rule, error) {
	if raw.SunSign == "" {
		return nil, fail("sun_sign", ErrMissingField)
	}
	sign, err := calendar.ParseSign(raw.SunSign)
	if err != nil {
		return nil, fail("sun_sign", fmt.Errorf("%w: %w", ErrInvalidValue, err))
	}
	if raw.Month != 0 || raw.Day != 0 {
		return nil, fail("month", ErrFieldNotAllowed)
	}
	for _, f := range raw.lunarFields() {
		if f.value != "" {
			return nil, fail(f.name, ErrFieldNotAllowed)
		}
	}
	return &SolarTransitRule{Name: raw.Name, Sign: sign}, nil
}

func (raw rawRule) compileLunar(title cases.Caser, fail func(string, error) error) (Rule, error) {
	if raw.Month != 0 || raw.Day != 0 {
		return nil, fail("month", ErrFieldNotAllowed)
	}
	if raw.SunSign != "" {
		return nil, fail("sun_sign", ErrFieldNotAllowed)
	}

	r := &LunarRule{Name: raw.Name}

	if raw.LunarMonth != "" {
		m, err := calendar.ParseLunarMonth(raw.LunarMonth)
		if err != nil {
			return nil, fail("lunar_month", fmt.Errorf("%w: %w", ErrInvalidValue, err))
		}
		r.Month = &m
	}
	if raw.Paksha != "" {
		p, err := calendar.ParsePaksha(raw.Paksha)
		if err != nil {
			return nil, fail("paksha", fmt.Errorf("%w: %w", ErrInvalidValue, err))
		}
		r.Paksha = &p
	}
	if raw.Tithi != "" {
		if !calendar.IsTithiName(raw.Tithi) {
			return nil, fail("tithi", fmt.Errorf("%w: %q", ErrInvalidValue, raw.Tithi))
		}
		r.Tithi = calendar.CanonicalName(raw.Tithi)
	}
	if raw.Nakshatra != "" {
		if !calendar.IsNakshatraName(raw.Nakshatra) {
			return nil, fail("nakshatra", fmt.Errorf("%w: %q", ErrInvalidValue, raw.Nakshatra))
		}
		r.Nakshatra = calendar.CanonicalName(raw.Nakshatra)
	}
	if r.Month == nil && r.Paksha == nil && r.Tithi == "" && r.Nakshatra == "" {
		return nil, fail("", ErrNoPredicate)
	}

	timing, err := ParseTiming(raw.Timing)
	if err != nil {
		return nil, fail("timing", fmt.Errorf("%w: %w", ErrInvalidValue, err))
	}
	r.Timing = timing

	category := strings.TrimSpace(raw.Category)
	if category == "" {
		category = DefaultCategory
	}
	r.Type = title.String(strings.ToLower(category))

	return r, nil
}

// WriteTOML encodes the table in the format Parse reads.
func (t *Table) WriteTOML(w io.Writer) error {
	f := ruleFile{Festival: make([]rawRule, 0, len(t.Rules))}
	for _, r := range t.Rules {
		f.Festival = append(f.Festival, toRaw(r))
	}
	enc := toml.NewEncoder(w)
	enc.SetIndentTables(true)
	return enc.Encode(f)
}

func toRaw(r Rule) rawRule {
	switch r := r.(type) {
	case *FixedRule:
		return rawRule{Name: r.Name, Type: "fixed", Month: int(r.Month), Day: r.Day}
	case *SolarTransitRule:
		return rawRule{Name: r.Name, Type: "solar", SunSign: r.Sign.String()}
	case *LunarRule:
		raw := rawRule{Name: r.Name, Tithi: r.Tithi, Nakshatra: r.Nakshatra, Category: strings.ToLower(r.Type)}
		if r.Month != nil {
			raw.LunarMonth = r.Month.String()
		}
		if r.Paksha != nil {
			raw.Paksha = r.Paksha.String()
		}
		if r.Timing != TimingSunrise {
			raw.Timing = r.Timing.String()
		}
		if raw.Category == DefaultCategory {
			raw.Category = ""
		}
		return raw
	default:
		return rawRule{Name: r.RuleName()}
	}
}
