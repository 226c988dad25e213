package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"
)

func newRootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "catalogctl",
		Short: "Lay out and export product catalogs",
		Long: `catalogctl renders product catalogs into fixed-size printable pages and exports
them as a multi-page PDF or one PNG per page.

Products come from the catalog database (DATABASE_URL) or from a YAML/JSON file.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

			logf := func(string, ...interface{}) {}
			if verbose {
				logf = func(format string, args ...interface{}) {
					slog.Debug(fmt.Sprintf(format, args...))
				}
			}
			_, _ = maxprocs.Set(maxprocs.Logger(logf))
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(newExportCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newWarmImagesCmd())

	return cmd
}
