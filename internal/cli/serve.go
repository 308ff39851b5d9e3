package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/framespec/internal/server"
)

// serveCommand creates the serve command, which runs the compile pipeline
// as an HTTP service.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		timeout time.Duration
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the compile API as an HTTP server",
		Long: `Run an HTTP server exposing the compile pipeline. POST /v1/compile
accepts a JSON body with the file reference and options and returns the
requested artifacts; GET /v1/healthz reports liveness.

Each request carries its own access token in the Authorization header.
Cached responses are keyed per token, so one token never sees another's
data. The server shares the cache backend configured in framespec.toml.

Examples:
  framespec serve
  framespec serve --addr :9000 --timeout 10m`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, timeout, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().DurationVar(&timeout, "timeout", server.DefaultTimeout, "per-request timeout")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runServe builds a runner from the configuration and serves until the
// context is canceled.
func (c *CLI) runServe(ctx context.Context, addr string, timeout time.Duration, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	srv := server.New(server.Config{
		Addr:    addr,
		Runner:  runner,
		Logger:  c.Logger,
		Timeout: timeout,
	})
	return srv.ListenAndServe(ctx)
}
