// Package cli implements the blindcard command-line interface.
//
// # Commands
//
//   - encode: turn sender, recipient and message into a share token and URL
//   - decode: print the letter inside a token
//   - reveal: show which characters a message keeps visible
//   - render: draw the card for a token as PNG, SVG, PDF, JSON or data URL
//   - compose: write a letter interactively and save its card
//   - serve: run the HTTP preview service
//   - cache: manage the artifact cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/blindcard/internal/config"
	"github.com/matzehuels/blindcard/pkg/buildinfo"
	"github.com/matzehuels/blindcard/pkg/cache"
	"github.com/matzehuels/blindcard/pkg/pipeline"
	"github.com/matzehuels/blindcard/pkg/render/sink"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display.
	appName = "blindcard"

	// configEnv names the environment variable holding a config file path.
	configEnv = "BLINDCARD_CONFIG"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	verbose    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	c.verbose = level <= log.DebugLevel
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Blindcard shares messages with most of the text hidden",
		Long:         `Blindcard turns a short letter into a share link whose preview image shows only a few of the message's characters. The rest stay masked until the recipient opens the link.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (.toml, .yaml); defaults to $"+configEnv)

	// Register all subcommands
	root.AddCommand(c.encodeCommand())
	root.AddCommand(c.decodeCommand())
	root.AddCommand(c.revealCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.composeCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config & Runner Factory
// =============================================================================

// loadConfig loads the --config file, falling back to $BLINDCARD_CONFIG and
// then to the defaults.
func (c *CLI) loadConfig() (*config.Config, error) {
	path := c.configPath
	if path == "" {
		path = os.Getenv(configEnv)
	}
	return config.Load(path)
}

// newRunner creates a pipeline runner from cfg. noCache replaces the
// configured cache with a NullCache.
func (c *CLI) newRunner(ctx context.Context, cfg *config.Config, noCache bool) (*pipeline.Runner, error) {
	set, err := cfg.Fonts.Load()
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("loaded fonts", "regular", set.Regular.Family, "bold", set.Bold.Family, "embedded", set.Embedded())
	if set.Embedded() {
		c.Logger.Warn("using embedded fonts without Hangul glyphs; configure fonts.regular and fonts.bold for Korean text")
	}

	engines, err := cfg.Card.Engines()
	if err != nil {
		return nil, err
	}
	rasterizer, err := sink.ParseRasterizer(cfg.Render.Rasterizer)
	if err != nil {
		return nil, err
	}

	var store cache.Cache = cache.NewNullCache()
	if !noCache {
		if store, err = cfg.Cache.Open(ctx); err != nil {
			return nil, err
		}
	}

	opts := []pipeline.RunnerOption{
		pipeline.WithFonts(set),
		pipeline.WithRasterizer(rasterizer),
		pipeline.WithEmbeddedFonts(cfg.Render.EmbedFonts),
		pipeline.WithTTL(cfg.Cache.TTL),
	}
	for v, e := range engines {
		opts = append(opts, pipeline.WithEngine(v, e))
	}
	keyer := cache.NewScopedKeyer(nil, buildinfo.Version+":")
	return pipeline.NewRunner(store, keyer, c.Logger, opts...), nil
}
