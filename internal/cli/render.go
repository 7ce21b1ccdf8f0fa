package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/blindcard/pkg/card"
	"github.com/matzehuels/blindcard/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output  string  // output file, "-" for stdout
	variant string  // card variant: preview, interactive
	format  string  // png, svg, pdf, json, dataurl
	backend string  // server, canvas
	scale   float64 // pixel density of raster output
	width   int     // thumbnail width, 0 for full size
	noCache bool    // skip the configured cache entirely
	refresh bool    // re-render even when cached
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{
		variant: string(pipeline.DefaultVariant),
		format:  pipeline.FormatPNG,
		backend: pipeline.BackendServer,
	}

	cmd := &cobra.Command{
		Use:   "render <token>",
		Short: "Render the card for a share token",
		Long: `Render draws the card for a share token. Tokens that do not decode render
the placeholder card, exactly like the preview service.`,
		Example: `  blindcard render eyJmcm9tIjoi... -o card.png
  blindcard render eyJmcm9tIjoi... --variant interactive --backend canvas --format dataurl`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default card.<format>, - for stdout)")
	cmd.Flags().StringVar(&opts.variant, "variant", opts.variant, "card variant: preview, interactive")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: png, svg, pdf, json, dataurl")
	cmd.Flags().StringVar(&opts.backend, "backend", opts.backend, "render backend: server, canvas")
	cmd.Flags().Float64Var(&opts.scale, "scale", 0, "pixel density (default from config)")
	cmd.Flags().IntVar(&opts.width, "width", 0, "downsize raster output to this width")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even when cached")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, token string, opts renderOpts) error {
	ctx := cmd.Context()
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if opts.scale == 0 {
		opts.scale = cfg.Render.Scale
	}

	runner, err := c.newRunner(ctx, cfg, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	popts := pipeline.Options{
		Token:   token,
		Variant: card.Variant(opts.variant),
		Format:  opts.format,
		Backend: opts.backend,
		Scale:   opts.scale,
		Width:   opts.width,
		Refresh: opts.refresh,
		Logger:  c.Logger,
	}

	res, err := c.execute(ctx, cmd, runner, popts)
	if err != nil {
		return err
	}
	if !res.CacheHit && !res.Decoded {
		printWarning(cmd.ErrOrStderr(), "token did not decode; rendered the placeholder card")
	}

	output := opts.output
	if output == "" {
		output = defaultOutput(opts.format)
	}
	if output == "-" {
		_, err := cmd.OutOrStdout().Write(res.Artifact)
		return err
	}
	if err := os.WriteFile(output, res.Artifact, 0o644); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printSuccess(out, "Rendered %s card", popts.Variant)
	printFile(out, output)
	printRenderStats(out, len(res.Artifact), res.CacheHit)
	return nil
}

// execute runs the pipeline behind a spinner on stderr.
func (c *CLI) execute(ctx context.Context, cmd *cobra.Command, runner *pipeline.Runner, opts pipeline.Options) (*pipeline.Result, error) {
	prog := newProgress(c.Logger)
	spin := newSpinner(ctx, cmd.ErrOrStderr(), "Rendering card...")
	spin.Start()
	res, err := runner.Execute(ctx, opts)
	spin.Stop()
	if err != nil {
		return nil, err
	}
	prog.done("Rendered card")
	return res, nil
}

// defaultOutput returns the output path used when -o is not given.
// Data URLs go to stdout.
func defaultOutput(format string) string {
	switch format {
	case pipeline.FormatDataURL:
		return "-"
	default:
		return "card." + format
	}
}
