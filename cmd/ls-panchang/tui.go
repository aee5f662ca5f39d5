package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/litescript/ls-panchang/internal/festival"
	"github.com/litescript/ls-panchang/internal/state"
	"github.com/litescript/ls-panchang/internal/ui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse days and festivals interactively",
	Long: `Launch the terminal UI: a day view with the panchang and choghadiya of
the selected date, and a festivals view for the selected year. With --watch
the rule file is reloaded whenever it changes on disk.`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().Bool("watch", false, "reload the --rules file when it changes")
	if err := viper.BindPFlag("festivals.watch", tuiCmd.Flags().Lookup("watch")); err != nil {
		panic(err)
	}
	rootCmd.AddCommand(tuiCmd)
}

func isTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd())) && term.IsTerminal(int(os.Stdin.Fd()))
}

func runTUI(cmd *cobra.Command, _ []string) error {
	if !isTTY() {
		return errors.New("ls-panchang tui requires a terminal; use the panchang or festivals commands instead")
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	// Log records would tear the alternate screen.
	a.log.SetOutput(io.Discard)

	stateMgr := state.NewManager(state.DefaultConfig())
	stateMgr.SetTable(a.rules)

	_, zone := a.svc.Location()
	p := tea.NewProgram(ui.New(a.svc, stateMgr, zone), tea.WithAltScreen())

	if a.cfg.Festivals.Watch {
		if a.cfg.Festivals.RulesPath == "" {
			return errors.New("--watch needs a rule file (--rules)")
		}
		w, err := festival.NewWatcher(a.cfg.Festivals.RulesPath, a.log, a.metrics)
		if err != nil {
			return fmt.Errorf("watching rules: %w", err)
		}
		if err := w.Start(); err != nil {
			return fmt.Errorf("watching rules: %w", err)
		}
		defer w.Stop()

		go w.Apply(a.svc.Festivals(), func(u festival.Update) {
			p.Send(ui.RulesUpdatedMsg{Update: u})
		})
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}
