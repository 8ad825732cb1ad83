package main

import (
	"context"

	"github.com/aretw0/graft/internal/cli"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch files...",
	Short: "Keep generated regions in sync while files are edited",
	Long: `Attaches an engine to every file and regenerates regions whenever a file
changes on disk. With --listen, a status server exposes documents, blocks,
live events and Prometheus metrics.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, debug := commonFlags(cmd)
		listen, _ := cmd.Flags().GetString("listen")
		quiet, _ := cmd.Flags().GetBool("quiet")

		sigCtx := cli.NewSignalContext(context.Background())
		defer sigCtx.Cancel()

		return cli.RunWatch(sigCtx, cli.WatchOptions{
			ConfigPath: configPath,
			Debug:      debug,
			Listen:     listen,
			Files:      args,
			Quiet:      quiet,
			Out:        cmd.OutOrStdout(),
		})
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringP("listen", "l", "", "Address of the status server (e.g. :8080)")
	watchCmd.Flags().BoolP("quiet", "q", false, "Suppress the banner and status messages")
}
