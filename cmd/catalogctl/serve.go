package main

import (
	"log/slog"

	"catalog-studio/app"

	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the catalog HTTP server",
		Long: `Starts the HTTP API: interactive page preview, PDF/PNG export, catalog settings
and product management.`,
		Example: `  # Start server on the port from PORT (default 8080)
  catalogctl serve

  # Start server on a custom port
  catalogctl serve --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.LoadConfig()
			if port != "" {
				cfg.Port = port
			}

			application, err := app.Initialize(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer application.Close()

			slog.Info("Catalog server available", "url", "http://localhost:"+cfg.Port)
			return application.ListenAndServe(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on")

	return cmd
}
