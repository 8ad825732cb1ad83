package main

import (
	"github.com/aretw0/graft/internal/cli"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate [files...]",
	Short: "Bring generated regions up to date",
	Long: `Regenerates every region of the given files and writes them back.
With no files, or with '-', the document is read from stdin and written to stdout.`,
	Aliases: []string{"gen"},
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, debug := commonFlags(cmd)
		check, _ := cmd.Flags().GetBool("check")
		diff, _ := cmd.Flags().GetBool("diff")
		jobs, _ := cmd.Flags().GetInt("jobs")

		return cli.RunGenerate(cmd.Context(), cli.GenerateOptions{
			ConfigPath: configPath,
			Debug:      debug,
			Check:      check,
			Diff:       diff,
			Files:      args,
			Jobs:       jobs,
			In:         cmd.InOrStdin(),
			Out:        cmd.OutOrStdout(),
		})
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().Bool("check", false, "Report out-of-date files and exit 1 instead of writing")
	generateCmd.Flags().Bool("diff", false, "Print a unified diff instead of writing")
	generateCmd.Flags().IntP("jobs", "j", 0, "Files processed in parallel (default: number of CPUs)")
	generateCmd.MarkFlagsMutuallyExclusive("check", "diff")
}
