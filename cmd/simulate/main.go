// simulate runs the scavenger world headless, driven by a simple bot.
//
// Usage:
//
//	simulate run        - Simulate a number of frames and print a summary
//	simulate profile    - Show what a profile database remembers
//
// Global flags:
//
//	--seed <value>      - World seed for new profiles (0 = random based on time)
//	--db <path>         - SQLite profile database (empty = in-memory profile)
//	--log-level <level> - debug, info, warn or error
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/milk9111/scavenger/profile"
)

var (
	flagSeed     int64
	flagDBPath   string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the scavenger world without a window",
	Long: `simulate drives the scavenger world orchestrator headless. A bot walks,
scavenges, collects loot and fights zombies so the simulation can be
profiled, soaked or inspected without the viewer.

Examples:
  simulate run --frames 36000
  simulate run --seed 42 --db ~/.scavenger/profile.db
  simulate run --metrics :9090 --log-level debug
  simulate profile --db ~/.scavenger/profile.db`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "World seed for new profiles (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to a SQLite profile database (empty = in-memory)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(profileCmd)
}

func newLogger(prefix string) (*log.Logger, error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level: %w", err)
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          prefix,
		Level:           level,
	})
	return logger, nil
}

func seed() int64 {
	if flagSeed != 0 {
		return flagSeed
	}
	return time.Now().UnixNano()
}

// openProfile returns the profile selected by --db and a function releasing
// it.
func openProfile() (profile.Profile, func() error, error) {
	if flagDBPath == "" {
		return profile.NewMemory(seed()), func() error { return nil }, nil
	}
	store, err := profile.OpenSQLite(flagDBPath, seed())
	if err != nil {
		return nil, nil, err
	}
	return store, store.Close, nil
}
