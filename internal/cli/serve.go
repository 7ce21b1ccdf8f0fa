package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/blindcard/internal/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the card preview HTTP service",
		Long: `Serve runs the HTTP service that renders social preview images for share
links and encodes letters for the web page. It stops gracefully on SIGINT
or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config http.addr)")

	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, addr string) error {
	ctx := cmd.Context()
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.HTTP.Addr = addr
	}
	if !c.verbose {
		c.Logger.SetLevel(cfg.Level())
	}

	runner, err := c.newRunner(ctx, cfg, false)
	if err != nil {
		return err
	}
	defer runner.Close()

	server.LogHooks{Logger: c.Logger}.Register()
	c.Logger.Info("render settings",
		"rasterizer", runner.Rasterizer.Resolve(),
		"scale", cfg.Render.Scale,
		"cache", cfg.Cache.Backend,
		"fonts", runner.Fonts.Regular.Family)

	return server.New(cfg, runner, c.Logger).Run(ctx)
}
