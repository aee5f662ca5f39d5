// Package config loads runtime settings from .ls-panchang.yaml, PANCHANG_*
// environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/litescript/ls-panchang/internal/astro"
	"github.com/litescript/ls-panchang/internal/calendar"
	"github.com/litescript/ls-panchang/internal/ephem"
	"github.com/litescript/ls-panchang/internal/geo"
)

// EnvPrefix is prepended to upper-cased keys with dots replaced by
// underscores: location.latitude is read from PANCHANG_LOCATION_LATITUDE.
const EnvPrefix = "PANCHANG"

// LocationConfig is the default place for queries without coordinates.
type LocationConfig struct {
	Latitude  float64 `mapstructure:"latitude"`
	Longitude float64 `mapstructure:"longitude"`
	Altitude  float64 `mapstructure:"altitude"`
	// Timezone overrides the zone looked up from the coordinates.
	Timezone string `mapstructure:"timezone"`
}

// EphemerisConfig selects and tunes the ephemeris provider.
type EphemerisConfig struct {
	Mode        string `mapstructure:"mode"`
	Ayanamsa    string `mapstructure:"ayanamsa"`
	Horizon     string `mapstructure:"horizon"`
	HorizonsURL string `mapstructure:"horizons_url"`
}

// CalendarConfig tunes month naming and the new-moon search.
type CalendarConfig struct {
	MonthScheme       string `mapstructure:"month_scheme"`
	NewMoonIterations int    `mapstructure:"new_moon_iterations"`
}

// SearchConfig bounds tithi and nakshatra end-time searches.
type SearchConfig struct {
	Step      time.Duration `mapstructure:"step"`
	Horizon   time.Duration `mapstructure:"horizon"`
	Tolerance time.Duration `mapstructure:"tolerance"`
}

// FestivalsConfig locates the rule table and sizes the year scan.
type FestivalsConfig struct {
	RulesPath string `mapstructure:"rules_path"`
	Workers   int    `mapstructure:"workers"`
	Watch     bool   `mapstructure:"watch"`
}

// Config holds all runtime configuration.
type Config struct {
	Location    LocationConfig  `mapstructure:"location"`
	Ephemeris   EphemerisConfig `mapstructure:"ephemeris"`
	Calendar    CalendarConfig  `mapstructure:"calendar"`
	Search      SearchConfig    `mapstructure:"search"`
	Festivals   FestivalsConfig `mapstructure:"festivals"`
	LogLevel    string          `mapstructure:"log_level"`
	MetricsAddr string          `mapstructure:"metrics_addr"`
}

// Init points viper at the config file and environment. An empty cfgFile
// searches for .ls-panchang.yaml in the working and home directories; a
// missing file is not an error.
func Init(cfgFile string) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".ls-panchang")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
	}

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) && cfgFile == "" {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}

// SetDefaults registers every key with its built-in default.
func SetDefaults() {
	viper.SetDefault("location.latitude", 23.1765)
	viper.SetDefault("location.longitude", 75.7885)
	viper.SetDefault("location.altitude", 0.0)
	viper.SetDefault("location.timezone", "")
	viper.SetDefault("ephemeris.mode", "meeus")
	viper.SetDefault("ephemeris.ayanamsa", "lahiri")
	viper.SetDefault("ephemeris.horizon", "disc_center")
	viper.SetDefault("ephemeris.horizons_url", "")
	viper.SetDefault("calendar.month_scheme", "amanta")
	viper.SetDefault("calendar.new_moon_iterations", 8)
	viper.SetDefault("search.step", "1m")
	viper.SetDefault("search.horizon", "48h")
	viper.SetDefault("search.tolerance", "1s")
	viper.SetDefault("festivals.rules_path", "")
	viper.SetDefault("festivals.workers", 1)
	viper.SetDefault("festivals.watch", false)
	viper.SetDefault("log_level", "info")
	viper.SetDefault("metrics_addr", "")
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags, and validates it.
func Load() (Config, error) {
	SetDefaults()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ErrInvalid is wrapped by every FieldError.
var ErrInvalid = errors.New("invalid configuration")

// FieldError reports a rejected configuration value.
type FieldError struct {
	Key string
	Err error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("config %s: %v", e.Key, e.Err)
}

// Unwrap returns the underlying error for use with errors.Is/As.
func (e *FieldError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrInvalid.
func (e *FieldError) Is(target error) bool {
	return target == ErrInvalid
}

// Validate rejects out-of-range and unrecognised values.
func (c Config) Validate() error {
	if err := c.Geo().Validate(); err != nil {
		return &FieldError{Key: "location", Err: err}
	}
	if c.Location.Timezone != "" {
		if _, err := time.LoadLocation(c.Location.Timezone); err != nil {
			return &FieldError{Key: "location.timezone", Err: err}
		}
	}

	switch strings.ToLower(c.Ephemeris.Mode) {
	case "meeus", "noaa", "horizons":
	default:
		return &FieldError{Key: "ephemeris.mode", Err: fmt.Errorf("unknown mode %q", c.Ephemeris.Mode)}
	}
	if _, err := astro.ParseAyanamsa(c.Ephemeris.Ayanamsa); err != nil {
		return &FieldError{Key: "ephemeris.ayanamsa", Err: err}
	}
	if _, err := ephem.ParseHorizon(c.Ephemeris.Horizon); err != nil {
		return &FieldError{Key: "ephemeris.horizon", Err: err}
	}

	if _, err := calendar.ParseMonthScheme(c.Calendar.MonthScheme); err != nil {
		return &FieldError{Key: "calendar.month_scheme", Err: err}
	}
	if c.Calendar.NewMoonIterations < 1 {
		return &FieldError{Key: "calendar.new_moon_iterations", Err: fmt.Errorf("must be at least 1, got %d", c.Calendar.NewMoonIterations)}
	}

	if c.Search.Step <= 0 {
		return &FieldError{Key: "search.step", Err: fmt.Errorf("must be positive, got %v", c.Search.Step)}
	}
	if c.Search.Horizon < c.Search.Step {
		return &FieldError{Key: "search.horizon", Err: fmt.Errorf("%v is shorter than step %v", c.Search.Horizon, c.Search.Step)}
	}
	if c.Search.Tolerance < 0 {
		return &FieldError{Key: "search.tolerance", Err: fmt.Errorf("must not be negative, got %v", c.Search.Tolerance)}
	}

	if c.Festivals.Workers < 1 {
		return &FieldError{Key: "festivals.workers", Err: fmt.Errorf("must be at least 1, got %d", c.Festivals.Workers)}
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return &FieldError{Key: "log_level", Err: fmt.Errorf("unknown level %q", c.LogLevel)}
	}
	return nil
}

// Geo returns the configured default location.
func (c Config) Geo() geo.Location {
	return geo.Location{Lat: c.Location.Latitude, Lon: c.Location.Longitude, Alt: c.Location.Altitude}
}

// EphemerisConfig converts the ephemeris section. Call Validate first;
// unparseable values fall back to defaults here.
func (c Config) EphemerisConfig() ephem.Config {
	ay, _ := astro.ParseAyanamsa(c.Ephemeris.Ayanamsa)
	hz, _ := ephem.ParseHorizon(c.Ephemeris.Horizon)
	return ephem.Config{
		Mode:     ephem.ParseMode(c.Ephemeris.Mode),
		Ayanamsa: ay,
		Horizon:  hz,
		BaseURL:  c.Ephemeris.HorizonsURL,
	}
}

// CalendarConfig converts the calendar and search sections.
func (c Config) CalendarConfig() calendar.Config {
	scheme, _ := calendar.ParseMonthScheme(c.Calendar.MonthScheme)
	cfg := calendar.DefaultConfig()
	cfg.MonthScheme = scheme
	cfg.NewMoonIterations = c.Calendar.NewMoonIterations
	cfg.Boundary = calendar.BoundaryOptions{
		Step:      c.Search.Step,
		Horizon:   c.Search.Horizon,
		Tolerance: c.Search.Tolerance,
	}
	return cfg
}
