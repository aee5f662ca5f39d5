// Command ls-panchang computes Hindu calendar elements, day partitions,
// Vimshottari Dasha periods and festivals from the terminal.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/litescript/ls-panchang/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "ls-panchang",
	Short: "Hindu Panchang calculator",
	Long: `ls-panchang computes tithi, nakshatra, yoga, karana and lunar month,
sunrise-based day partitions (choghadiya, Rahu Kalam, Abhijit muhurat),
Vimshottari Dasha timelines and festival dates for a location.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// flagKeys binds persistent flags to configuration keys.
var flagKeys = map[string]string{
	"lat":          "location.latitude",
	"lon":          "location.longitude",
	"tz":           "location.timezone",
	"ephemeris":    "ephemeris.mode",
	"ayanamsa":     "ephemeris.ayanamsa",
	"month-scheme": "calendar.month_scheme",
	"rules":        "festivals.rules_path",
	"workers":      "festivals.workers",
	"log-level":    "log_level",
	"metrics-addr": "metrics_addr",
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default .ls-panchang.yaml)")
	pf.Float64("lat", 0, "latitude of the default location")
	pf.Float64("lon", 0, "longitude of the default location")
	pf.String("tz", "", "IANA timezone of the default location (default looked up from --lat/--lon)")
	pf.String("ephemeris", "", "ephemeris provider (meeus, noaa, horizons)")
	pf.String("ayanamsa", "", "sidereal correction (lahiri, none)")
	pf.String("month-scheme", "", "lunar month naming (amanta, purnimanta)")
	pf.String("rules", "", "festival rule file (default embedded table)")
	pf.Int("workers", 0, "goroutines for a festival year scan")
	pf.String("log-level", "", "log level (debug, info, warn, error)")
	pf.String("metrics-addr", "", "serve Prometheus metrics on this address while running")
	pf.Bool("json", false, "write JSON instead of text")

	for flag, key := range flagKeys {
		if err := viper.BindPFlag(key, pf.Lookup(flag)); err != nil {
			panic(fmt.Sprintf("binding --%s: %v", flag, err))
		}
	}
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if err := config.Init(cfgFile); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()
	return ctx, cancel
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
