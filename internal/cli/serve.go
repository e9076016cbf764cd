package cli

import (
	"github.com/spf13/cobra"

	"github.com/digitalworkshop/cutlist/internal/server"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the optimizer over HTTP",
		Long: `Serve starts an HTTP API exposing the optimizer: POST /api/optimize
runs a packing from JSON input, POST /api/import parses an uploaded piece
list, and GET /api/catalog returns the default stock catalog.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			srv := server.New(logger)
			return srv.Run(addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")

	return cmd
}
