package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/blindcard/pkg/cache"
	"github.com/matzehuels/blindcard/pkg/card"
	apperr "github.com/matzehuels/blindcard/pkg/errors"
	"github.com/matzehuels/blindcard/pkg/fonts"
	"github.com/matzehuels/blindcard/pkg/letter"
	"github.com/matzehuels/blindcard/pkg/observability"
	"github.com/matzehuels/blindcard/pkg/render/sink"
)

// keyTypeArtifact labels cache events for rendered artifacts.
const keyTypeArtifact = "artifact"

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it so tokens render identically.
//
// The Runner holds no per-request state. Multiple goroutines can safely use
// the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// Fonts are used by every backend. Nil means the embedded Go fonts.
	Fonts *fonts.Set

	// Rasterizer picks how the server backend produces PNG.
	Rasterizer sink.Rasterizer

	// EmbedFonts inlines the font files into SVG output.
	EmbedFonts bool

	// TTL is how long rendered artifacts stay cached.
	TTL time.Duration

	engines map[card.Variant]*card.Engine
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithFonts sets the fonts every backend measures and draws with.
func WithFonts(set *fonts.Set) RunnerOption {
	return func(r *Runner) { r.Fonts = set }
}

// WithRasterizer sets the PNG rasterizer of the server backend.
func WithRasterizer(k sink.Rasterizer) RunnerOption {
	return func(r *Runner) { r.Rasterizer = k }
}

// WithEmbeddedFonts inlines font data into SVG output.
func WithEmbeddedFonts(embed bool) RunnerOption {
	return func(r *Runner) { r.EmbedFonts = embed }
}

// WithTTL sets the artifact cache lifetime.
func WithTTL(ttl time.Duration) RunnerOption {
	return func(r *Runner) { r.TTL = ttl }
}

// WithEngine replaces the layout engine of a variant.
func WithEngine(v card.Variant, e *card.Engine) RunnerOption {
	return func(r *Runner) { r.engines[v] = e }
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger, opts ...RunnerOption) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	r := &Runner{
		Cache:      c,
		Keyer:      keyer,
		Logger:     logger,
		Rasterizer: sink.RasterizerAuto,
		TTL:        cache.TTLArtifact,
		engines: map[card.Variant]*card.Engine{
			card.VariantPreview:     card.MustEngine(card.PreviewConfig()),
			card.VariantInteractive: card.MustEngine(card.InteractiveConfig()),
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Engine returns the layout engine for v.
func (r *Runner) Engine(v card.Variant) (*card.Engine, error) {
	e, ok := r.engines[v]
	if !ok {
		return nil, apperr.New(apperr.ErrCodeInvalidVariant, "no engine for variant %q", v)
	}
	return e, nil
}

// Execute runs the complete decode → layout → render pipeline with caching.
// Token problems never fail it; only invalid options, render failures and
// timeouts do.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = r.Logger
	}
	contentType := ContentTypes[opts.Format]

	key := r.Keyer.ArtifactKey(opts.Token, r.keyOpts(opts))
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, keyTypeArtifact)
			logger.Debug("artifact cache hit", "variant", opts.Variant, "format", opts.Format)
			return &Result{Artifact: data, ContentType: contentType, CacheHit: true}, nil
		} else if err != nil {
			logger.Warn("cache lookup failed", "error", err)
		}
		observability.Cache().OnCacheMiss(ctx, keyTypeArtifact)
	}

	result := &Result{ContentType: contentType}

	// Stage 1: Decode
	decodeStart := time.Now()
	rec, ok := letter.DecodeOrEmpty(opts.Token)
	result.Record, result.Decoded = rec, ok
	result.Stats.DecodeTime = time.Since(decodeStart)
	observability.Pipeline().OnDecode(ctx, ok, result.Stats.DecodeTime)
	if !ok && opts.Token != "" {
		logger.Debug("token rejected, drawing placeholder card")
	}

	// Stage 2: Layout
	layoutStart := time.Now()
	c, err := r.Layout(rec, opts.Variant)
	if err != nil {
		return nil, err
	}
	result.Card = c
	result.Stats.LayoutTime = time.Since(layoutStart)
	observability.Pipeline().OnLayout(ctx, string(opts.Variant), len(c.Lines), result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	data, err := r.Render(ctx, c, opts)
	result.Stats.RenderTime = time.Since(renderStart)
	observability.Pipeline().OnRender(ctx, opts.Format, r.backendName(opts), len(data), result.Stats.RenderTime, err)
	if err != nil {
		return nil, err
	}
	result.Artifact = data

	logger.Info("rendered card",
		"variant", opts.Variant,
		"format", opts.Format,
		"decoded", ok,
		"lines", len(c.Lines),
		"bytes", len(data),
		"duration", result.Stats.RenderTime)

	if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
		logger.Warn("cache store failed", "error", err)
	} else {
		observability.Cache().OnCacheSet(ctx, keyTypeArtifact, len(data))
	}

	return result, nil
}

// Layout lays out rec with the variant's engine, themed by rec.Theme.
func (r *Runner) Layout(rec letter.Record, v card.Variant) (card.Card, error) {
	e, err := r.Engine(v)
	if err != nil {
		return card.Card{}, err
	}
	return e.Themed(rec.Theme).Layout(rec), nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// keyOpts returns the inputs that change the artifact bytes.
func (r *Runner) keyOpts(opts Options) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		Variant: string(opts.Variant),
		Format:  opts.Format,
	}
	if isRaster(opts.Format) {
		k.Scale = opts.Scale
		k.Width = opts.Width
		k.Rasterizer = r.backendName(opts)
	}
	if e, err := r.Engine(opts.Variant); err == nil {
		k.Layout = engineFingerprint(e)
	}
	if opts.Format != FormatJSON {
		k.Fonts = r.fontsFingerprint()
	}
	return k
}

// engineFingerprint hashes the engine's config.
func engineFingerprint(e *card.Engine) string {
	data, err := json.Marshal(e.Config())
	if err != nil {
		return ""
	}
	return cache.Hash(data)
}

// fontsFingerprint names the faces the backends draw with.
func (r *Runner) fontsFingerprint() string {
	set := r.Fonts
	if set == nil {
		set = fonts.Default()
	}
	return fmt.Sprintf("%s|%s|%s|%s|embed=%t",
		set.Regular.Family, set.Regular.Path, set.Bold.Family, set.Bold.Path, r.EmbedFonts)
}

// backendName names the code path that produces the artifact.
func (r *Runner) backendName(opts Options) string {
	switch {
	case opts.Format == FormatJSON:
		return "layout"
	case opts.Backend == BackendCanvas:
		return string(sink.RasterizerCanvas)
	case isRaster(opts.Format):
		return string(r.Rasterizer.Resolve())
	default:
		return "svg"
	}
}

func isRaster(format string) bool {
	return format == FormatPNG || format == FormatDataURL
}
