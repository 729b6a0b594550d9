package cli

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/repertree/repertree/internal/server"
	"github.com/repertree/repertree/pkg/pipeline"
)

// serveCommand creates the serve command, which runs the HTTP API until
// interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string
	var noCache bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve exposes export and repertoire storage over HTTP. The store and cache
backends come from the configuration file or REPERTREE_* environment variables.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.config()
			if addr == "" {
				addr = cfg.Serve.Addr
			}
			return c.runServe(cmd.Context(), addr, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, noCache bool) error {
	cfg := c.config()
	logger := loggerFromContext(ctx)

	if w := cfg.logWriter(); w != nil {
		defer w.Close()
		logger = logger.With()
		logger.SetOutput(io.MultiWriter(os.Stderr, w))
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	st, err := c.newStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	srv := server.New(runner, st, logger)
	srv.Defaults = pipeline.Options{Event: cfg.PGN.Event, Site: cfg.PGN.Site}

	logger.Info("starting server", "addr", addr, "cache", cfg.Cache.Backend, "store", cfg.Store.Backend)
	err = srv.ListenAndServe(ctx, addr)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
