// Package pipeline provides the decode → layout → render pipeline for
// blind-message cards.
//
// The CLI and the HTTP server both go through a [Runner], so a token renders
// to the same bytes everywhere.
//
// # Stages
//
//  1. Decode: the token becomes a [letter.Record]. A token that does not
//     decode is replaced by the empty record and the card shows its
//     placeholder header and message. Decoding never fails the pipeline.
//  2. Layout: the variant's [card.Engine], themed by the record, produces
//     the instruction list.
//  3. Render: the server backend ([sink]) or the interactive backend
//     ([canvas]) turns the instructions into bytes.
//
// Before decoding, the runner looks up the finished artifact in its cache
// under a hash of the token and render options.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	res, err := runner.Execute(ctx, pipeline.Options{
//	    Token:   token,
//	    Variant: card.VariantPreview,
//	    Format:  pipeline.FormatPNG,
//	})
//	if err != nil {
//	    // render failure or timeout
//	}
//	w.Header().Set("Content-Type", res.ContentType)
//	w.Write(res.Artifact)
package pipeline

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/blindcard/pkg/card"
	apperr "github.com/matzehuels/blindcard/pkg/errors"
	"github.com/matzehuels/blindcard/pkg/letter"
	"github.com/matzehuels/blindcard/pkg/render/sink"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultScale is the pixel density of raster output.
	DefaultScale = 2.0

	// MaxScale bounds the pixel density a caller may ask for.
	MaxScale = 4.0

	// DefaultVariant is the card preset used when none is given.
	DefaultVariant = card.VariantPreview
)

// Format constants for output formats.
const (
	FormatPNG     = "png"
	FormatSVG     = "svg"
	FormatPDF     = "pdf"
	FormatJSON    = "json"
	FormatDataURL = "dataurl"
)

// Backend constants select the render backend.
const (
	BackendServer = "server"
	BackendCanvas = "canvas"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPNG:     true,
	FormatSVG:     true,
	FormatPDF:     true,
	FormatJSON:    true,
	FormatDataURL: true,
}

// ContentTypes maps formats to media types.
var ContentTypes = map[string]string{
	FormatPNG:     "image/png",
	FormatSVG:     "image/svg+xml",
	FormatPDF:     "application/pdf",
	FormatJSON:    "application/json",
	FormatDataURL: "text/plain; charset=utf-8",
}

// =============================================================================
// Options
// =============================================================================

// Options configures one pipeline run.
type Options struct {
	// Token is the share token. Invalid or empty tokens render the
	// placeholder card.
	Token string `json:"token"`

	Variant card.Variant `json:"variant,omitempty"`
	Format  string       `json:"format,omitempty"`
	Backend string       `json:"backend,omitempty"`
	Scale   float64      `json:"scale,omitempty"`

	// Width, when set, downsizes raster output to this many pixels wide.
	Width int `json:"width,omitempty"`

	// Refresh skips the cache lookup but still stores the result.
	Refresh bool `json:"refresh,omitempty"`

	// Logger overrides the runner's logger for this execution.
	Logger *log.Logger `json:"-"`

	validated bool
}

// ValidateAndSetDefaults checks the options and fills in defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Variant == "" {
		o.Variant = DefaultVariant
	}
	if o.Format == "" {
		o.Format = FormatPNG
	}
	if o.Backend == "" {
		o.Backend = BackendServer
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if _, err := card.ConfigFor(o.Variant); err != nil {
		return err
	}
	if err := ValidateFormat(o.Format); err != nil {
		return err
	}
	if err := ValidateBackend(o.Backend, o.Format); err != nil {
		return err
	}
	if o.Scale < 0 || o.Scale > MaxScale {
		return apperr.New(apperr.ErrCodeInvalidInput, "scale must be between 0 and %v, got %v", MaxScale, o.Scale)
	}
	if o.Width < 0 || (o.Width > 0 && o.Width < sink.MinThumbnailWidth) {
		return apperr.New(apperr.ErrCodeInvalidInput, "width must be 0 or at least %d, got %d", sink.MinThumbnailWidth, o.Width)
	}
	o.validated = true
	return nil
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return apperr.New(apperr.ErrCodeInvalidFormat, "invalid format: %q (must be one of: png, svg, pdf, json, dataurl)", format)
	}
	return nil
}

// ValidateBackend checks that backend exists and can produce format.
// The canvas backend only produces raster output.
func ValidateBackend(backend, format string) error {
	switch backend {
	case BackendServer:
		return nil
	case BackendCanvas:
		if format == FormatSVG || format == FormatPDF {
			return apperr.New(apperr.ErrCodeInvalidFormat, "canvas backend cannot produce %s", format)
		}
		return nil
	default:
		return apperr.New(apperr.ErrCodeInvalidInput, "invalid backend: %q (must be server or canvas)", backend)
	}
}

// =============================================================================
// Result
// =============================================================================

// Result contains the outputs of a pipeline run.
type Result struct {
	// Artifact is the rendered output.
	Artifact []byte

	// ContentType is the media type of Artifact.
	ContentType string

	// Record and Card are zero when the artifact came from the cache.
	Record letter.Record
	Card   card.Card

	// Decoded is false when the token was rejected and the placeholder
	// card was drawn instead.
	Decoded bool

	// CacheHit is true when Artifact came from the cache.
	CacheHit bool

	Stats Stats
}

// Stats contains pipeline timing.
type Stats struct {
	DecodeTime time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}
