package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"

	"github.com/litescript/ls-panchang/internal/version"
)

func TestCommandsRegistered(t *testing.T) {
	want := []string{"panchang", "dasha", "festivals", "rules", "tui", "version"}
	for _, name := range want {
		t.Run(name, func(t *testing.T) {
			found := false
			for _, c := range rootCmd.Commands() {
				if c.Name() == name {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("expected %q subcommand to be registered on rootCmd", name)
			}
		})
	}
}

func TestFlags(t *testing.T) {
	tests := []struct {
		cmd  string
		flag string
	}{
		{"panchang", "date"},
		{"panchang", "time"},
		{"dasha", "birth-date"},
		{"dasha", "birth-time"},
		{"dasha", "moon-sign"},
		{"dasha", "moon-degree"},
		{"dasha", "lord"},
		{"dasha", "antardasha"},
		{"festivals", "date"},
		{"festivals", "year"},
		{"tui", "watch"},
	}
	for _, tt := range tests {
		t.Run(tt.cmd+"/"+tt.flag, func(t *testing.T) {
			c, _, err := rootCmd.Find([]string{tt.cmd})
			if err != nil {
				t.Fatal(err)
			}
			if c.Flags().Lookup(tt.flag) == nil {
				t.Errorf("expected flag --%s on %s", tt.flag, tt.cmd)
			}
		})
	}
}

func TestPersistentFlagsBound(t *testing.T) {
	pf := rootCmd.PersistentFlags()
	for flag, key := range flagKeys {
		if pf.Lookup(flag) == nil {
			t.Errorf("--%s (%s) not registered", flag, key)
		}
	}

	if err := pf.Set("tz", "Asia/Kathmandu"); err != nil {
		t.Fatal(err)
	}
	defer func() {
		_ = pf.Set("tz", "")
		pf.Lookup("tz").Changed = false
	}()
	if got := viper.GetString("location.timezone"); got != "Asia/Kathmandu" {
		t.Errorf("location.timezone = %q, want flag value", got)
	}
}

func TestVersionCmd(t *testing.T) {
	var buf bytes.Buffer
	versionCmd.SetOut(&buf)
	defer versionCmd.SetOut(nil)

	versionCmd.Run(versionCmd, nil)
	if got, want := buf.String(), "ls-panchang "+version.Version+"\n"; got != want {
		t.Errorf("version output = %q, want %q", got, want)
	}
}

func TestRulesCheck(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "good.toml")
	if err := os.WriteFile(good, []byte(`
[[festival]]
name = "Republic Day"
type = "fixed"
month = 1
day = 26
`), 0o644); err != nil {
		t.Fatal(err)
	}
	bad := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(bad, []byte(`
[[festival]]
name = "Nowhere"
type = "fixed"
month = 13
day = 1
`), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"valid", good, false},
		{"invalid month", bad, true},
		{"missing", filepath.Join(dir, "none.toml"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := rulesCheckCmd.RunE(rulesCheckCmd, []string{tt.path})
			if (err != nil) != tt.wantErr {
				t.Errorf("rules check %s: err = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}
}

func TestTUIRequiresTerminal(t *testing.T) {
	if isTTY() {
		t.Skip("running in a terminal")
	}
	err := runTUI(tuiCmd, nil)
	if err == nil || !strings.Contains(err.Error(), "requires a terminal") {
		t.Errorf("runTUI without a TTY: err = %v", err)
	}
}
