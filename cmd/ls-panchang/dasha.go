package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/litescript/ls-panchang/internal/panchang"
)

var dashaCmd = &cobra.Command{
	Use:   "dasha",
	Short: "Generate a Vimshottari Dasha timeline",
	Long: `Generate the nine Mahadashas from a birth moment and the Moon's
sidereal position. The ruling lord of the birth nakshatra is derived from
the Moon's longitude unless --lord is given.`,
	Example: `  ls-panchang dasha --birth-date 1990-05-17 --birth-time 07:15 \
    --moon-sign Taurus --moon-degree "20 50 53" --antardasha`,
	Args: cobra.NoArgs,
	RunE: runDasha,
}

func init() {
	f := dashaCmd.Flags()
	f.String("birth-date", "", "birth date YYYY-MM-DD")
	f.String("birth-time", "", "local birth time HH:MM (default 00:00)")
	f.String("moon-sign", "", "sidereal sign of the Moon, e.g. Taurus")
	f.String("moon-degree", "", `Moon's degree within the sign: 20°50'53", "20 50 53" or 20.848`)
	f.String("lord", "", "ruler of the birth nakshatra (default derived)")
	f.Bool("antardasha", false, "expand each Mahadasha into its nine Antardashas")
	for _, name := range []string{"birth-date", "moon-sign", "moon-degree"} {
		_ = dashaCmd.MarkFlagRequired(name)
	}
	rootCmd.AddCommand(dashaCmd)
}

func runDasha(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := signalContext()
	defer cancel()

	f := cmd.Flags()
	q := panchang.DashaQuery{}
	q.BirthDate, _ = f.GetString("birth-date")
	q.BirthTime, _ = f.GetString("birth-time")
	q.MoonSign, _ = f.GetString("moon-sign")
	q.MoonDegree, _ = f.GetString("moon-degree")
	q.Lord, _ = f.GetString("lord")
	q.Antardasha, _ = f.GetBool("antardasha")

	r, err := a.svc.GetDashaTimeline(ctx, q)
	if err != nil {
		return err
	}

	if asJSON, _ := f.GetBool("json"); asJSON {
		return r.WriteJSON(os.Stdout)
	}
	panchang.WriteDasha(os.Stdout, r)
	return nil
}
