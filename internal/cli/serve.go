package cli

import (
	"github.com/picklr-io/planrisk/internal/server"
	"github.com/spf13/cobra"
)

var serveListenAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve plan analysis over HTTP",
	Long: `Starts an HTTP server exposing:
  POST /v1/analyze   analyze the Terraform JSON plan in the request body
  GET  /v1/pricing   the effective price table
  GET  /healthz      liveness
  GET  /metrics      Prometheus metrics`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveListenAddr, "listen", "", "Listen address (overrides settings)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	addr := settings.ListenAddr
	if serveListenAddr != "" {
		addr = serveListenAddr
	}

	srv := server.New(settings.NewEngine(), server.Config{
		Addr:         addr,
		MaxBodyBytes: settings.MaxBodyBytes,
		RateLimit:    settings.RateLimit,
	})
	return srv.Run(cmd.Context())
}
