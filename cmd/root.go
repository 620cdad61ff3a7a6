package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "lorekeep",
	Short: "Lorekeep - narrative consistency assistant for tabletop campaigns",
	Long: `Lorekeep keeps improvised campaign prose consistent with the party's
character sheets.

It scans story files for character mentions, checks each described action
against class abilities, personality flaws and equipment, scores which party
member fits an action best, and writes an incremental markdown report.`,
}

// Execute runs the root command
func Execute() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
