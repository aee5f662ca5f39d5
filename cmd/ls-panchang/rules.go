package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/litescript/ls-panchang/internal/festival"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Print the active festival rule table as TOML",
	Long: `Print the active festival rule table in the TOML format read by
--rules. With no rule file configured this is the embedded table, which
makes a starting point for a custom one.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		t, err := festival.Load(viper.GetString("festivals.rules_path"))
		if err != nil {
			return err
		}
		return t.WriteTOML(os.Stdout)
	},
}

var rulesCheckCmd = &cobra.Command{
	Use:   "check FILE",
	Short: "Validate a festival rule file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := festival.LoadFile(args[0])
		if err != nil {
			return err
		}
		counts := t.Counts()
		fmt.Fprintf(os.Stdout, "✓ %s: %d rules (%d fixed, %d solar, %d lunar)\n",
			args[0], t.Len(), counts[festival.KindFixed], counts[festival.KindSolar], counts[festival.KindLunar])
		return nil
	},
}

func init() {
	rulesCmd.AddCommand(rulesCheckCmd)
	rootCmd.AddCommand(rulesCmd)
}
