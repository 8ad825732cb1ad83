package main

import (
	"os"

	"github.com/aretw0/graft/internal/cli"
	"github.com/aretw0/graft/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var scanCmd = &cobra.Command{
	Use:   "scan file",
	Short: "Report the generator blocks of a file",
	Long: `Lists the blocks of a file with their generated regions and states, and
whether the regions are up to date. The file is not modified.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, debug := commonFlags(cmd)
		format, _ := cmd.Flags().GetString("format")

		out := cmd.OutOrStdout()
		styled := false
		if f, ok := out.(*os.File); ok {
			styled = tui.IsTerminal(f)
		}

		return cli.RunScan(cli.ScanOptions{
			ConfigPath: configPath,
			Debug:      debug,
			Path:       args[0],
			Format:     format,
			Styled:     styled,
			Out:        out,
		})
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringP("format", "f", cli.FormatMarkdown, "Output format: markdown, mermaid or json")
}
