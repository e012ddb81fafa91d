package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/lineage/internal/api"
)

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout and highlight engines over HTTP",
		Long: `Serve the layout and highlight engines over HTTP.

Routes:
  POST /v1/layout      persons and options in, positioned layout out
  POST /v1/highlight   persons, options and root in, bloodline out
  POST /v1/render      persons, options and format in, artifact out
  GET  /healthz        liveness

Layouts and artifacts share the cache configured for the CLI. Point several
instances at one Redis backend to share it between them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			runner, err := c.newRunner(cmd.Context(), cfg, noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			srv := api.New(runner, c.Logger, cfg.Server)
			c.report().info("Listening on %s", srv.Addr())
			return srv.ListenAndServe(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	return cmd
}
