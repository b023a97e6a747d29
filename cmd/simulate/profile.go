package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/milk9111/scavenger/profile"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show a stored profile",
	Long: `Print the seed, the last cell and the number of scavenged objects
recorded in a profile database.

Examples:
  simulate profile --db ~/.scavenger/profile.db`,
	Args: cobra.NoArgs,
	RunE: runProfile,
}

func runProfile(cmd *cobra.Command, _ []string) error {
	if flagDBPath == "" {
		return fmt.Errorf("--db is required")
	}
	store, err := profile.OpenSQLite(flagDBPath, seed())
	if err != nil {
		return err
	}
	defer store.Close()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Profile %s\n\n", flagDBPath)
	fmt.Fprintf(out, "  %-10s  %d\n", "Seed", store.Seed())
	if row, col, ok := store.LastCell(); ok {
		fmt.Fprintf(out, "  %-10s  (%d, %d)\n", "Cell", row, col)
	} else {
		fmt.Fprintf(out, "  %-10s  %s\n", "Cell", "not recorded")
	}
	fmt.Fprintf(out, "  %-10s  %d\n", "Scavenged", store.Scavenged())
	return nil
}
