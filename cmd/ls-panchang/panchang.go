package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/litescript/ls-panchang/internal/geo"
	"github.com/litescript/ls-panchang/internal/panchang"
)

var panchangCmd = &cobra.Command{
	Use:   "panchang",
	Short: "Show the panchang of a date",
	Long: `Show tithi, nakshatra, yoga, karana, lunar month, sunrise and sunset,
Rahu Kalam, Abhijit muhurat and the day and night choghadiya for a civil
date at the default location. Calendar elements are taken at local noon
unless --time is given.`,
	Args: cobra.NoArgs,
	RunE: runPanchang,
}

func init() {
	panchangCmd.Flags().String("date", "", "civil date YYYY-MM-DD (default today)")
	panchangCmd.Flags().String("time", "", "local time HH:MM for the calendar elements (default 12:00)")
	rootCmd.AddCommand(panchangCmd)
}

func runPanchang(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := signalContext()
	defer cancel()

	date, _ := cmd.Flags().GetString("date")
	if date == "" {
		date = a.today().Format(geo.DateLayout)
	}
	at, _ := cmd.Flags().GetString("time")

	r, err := a.svc.GetPanchang(ctx, panchang.PanchangQuery{Date: date, Time: at})
	if err != nil {
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return r.WriteJSON(os.Stdout)
	}
	panchang.WriteSummary(os.Stdout, r)
	return nil
}
