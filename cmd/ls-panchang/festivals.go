package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/litescript/ls-panchang/internal/festival"
	"github.com/litescript/ls-panchang/internal/panchang"
)

var festivalsCmd = &cobra.Command{
	Use:   "festivals",
	Short: "List festivals on a date or across a year",
	Long: `List the festival rules firing on --date, or scan every day of --year
(default the current year) at the default location.`,
	Args: cobra.NoArgs,
	RunE: runFestivals,
}

func init() {
	festivalsCmd.Flags().String("date", "", "civil date YYYY-MM-DD")
	festivalsCmd.Flags().Int("year", 0, "year to scan (default current year)")
	festivalsCmd.MarkFlagsMutuallyExclusive("date", "year")
	rootCmd.AddCommand(festivalsCmd)
}

func runFestivals(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := signalContext()
	defer cancel()

	date, _ := cmd.Flags().GetString("date")
	year, _ := cmd.Flags().GetInt("year")

	var matches []festival.Match
	if date != "" {
		matches, err = a.svc.DetectFestivals(ctx, date)
	} else {
		if !cmd.Flags().Changed("year") {
			year = a.today().Year()
		}
		a.log.Debug("scanning %d with %d workers", year, a.cfg.Festivals.Workers)
		matches, err = a.svc.GetYearlyFestivals(ctx, year)
	}
	if err != nil {
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return panchang.WriteFestivalsJSON(os.Stdout, matches)
	}
	if date == "" {
		fmt.Fprintf(os.Stdout, "Festivals %d (%s)\n\n", year, a.rules.Source)
	}
	panchang.WriteFestivals(os.Stdout, matches)
	return nil
}
