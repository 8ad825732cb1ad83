package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/aretw0/graft/internal/cli"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "graft",
	Short: "Graft keeps generated code regions in sync with their source blocks",
	Long: `Graft expands generator blocks written in comments into generated code
regions right below them, and keeps those regions up to date as the blocks change,
preserving manual edits made inside the regions.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, cli.ErrOutOfDate) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("config", "c", "", "Config file (default: .graft.yaml in the current directory)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging to stderr")
}

// commonFlags reads the persistent flags.
func commonFlags(cmd *cobra.Command) (configPath string, debug bool) {
	configPath, _ = cmd.Flags().GetString("config")
	debug, _ = cmd.Flags().GetBool("debug")
	return configPath, debug
}
