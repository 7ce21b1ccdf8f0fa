package sink

import (
	"context"

	"github.com/matzehuels/blindcard/pkg/card"
	apperr "github.com/matzehuels/blindcard/pkg/errors"
	"github.com/matzehuels/blindcard/pkg/fonts"
	"github.com/matzehuels/blindcard/pkg/render"
	"github.com/matzehuels/blindcard/pkg/render/canvas"
)

// Rasterizer selects how PNG output is produced.
type Rasterizer string

const (
	// RasterizerAuto uses rsvg-convert when installed, else the canvas.
	RasterizerAuto Rasterizer = "auto"
	// RasterizerRSVG converts the SVG with rsvg-convert.
	RasterizerRSVG Rasterizer = "rsvg"
	// RasterizerCanvas draws the instructions in process.
	RasterizerCanvas Rasterizer = "canvas"
)

// ParseRasterizer validates a rasterizer name. The empty string is auto.
func ParseRasterizer(s string) (Rasterizer, error) {
	switch r := Rasterizer(s); r {
	case "":
		return RasterizerAuto, nil
	case RasterizerAuto, RasterizerRSVG, RasterizerCanvas:
		return r, nil
	default:
		return "", apperr.New(apperr.ErrCodeInvalidConfig, "unknown rasterizer %q (want auto, rsvg or canvas)", s)
	}
}

// Resolve returns the concrete rasterizer auto stands for on this host.
func (r Rasterizer) Resolve() Rasterizer {
	if r == RasterizerAuto || r == "" {
		if render.Available() {
			return RasterizerRSVG
		}
		return RasterizerCanvas
	}
	return r
}

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	svgOpts    []SVGOption
	scale      float64
	rasterizer Rasterizer
	fonts      *fonts.Set
}

// WithPNGSVGOptions passes options through to the underlying SVG renderer.
func WithPNGSVGOptions(opts ...SVGOption) PNGOption {
	return func(r *pngRenderer) { r.svgOpts = opts }
}

// WithScale sets the PNG scale factor (default 2.0 for 2x resolution).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) { r.scale = s }
}

// WithRasterizer forces a rasterizer.
func WithRasterizer(k Rasterizer) PNGOption {
	return func(r *pngRenderer) { r.rasterizer = k }
}

// WithPNGFonts sets the fonts for both the SVG path and the canvas path.
func WithPNGFonts(set *fonts.Set) PNGOption {
	return func(r *pngRenderer) { r.fonts = set }
}

// RenderPNG renders c as PNG. It returns a timeout error when ctx ends
// first and never returns a partial image.
func RenderPNG(ctx context.Context, c card.Card, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: 2.0, rasterizer: RasterizerAuto}
	for _, opt := range opts {
		opt(&r)
	}
	if err := ctx.Err(); err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeTimeout, err, "render png")
	}

	switch r.rasterizer.Resolve() {
	case RasterizerRSVG:
		svgOpts := append([]SVGOption{WithFonts(r.fonts)}, r.svgOpts...)
		svg, err := RenderSVG(c, svgOpts...)
		if err != nil {
			return nil, err
		}
		return render.ToPNG(ctx, svg, r.scale)
	case RasterizerCanvas:
		return canvasPNG(ctx, c, canvas.WithScale(r.scale), canvas.WithFonts(r.fonts))
	default:
		return nil, apperr.New(apperr.ErrCodeInvalidConfig, "unknown rasterizer %q", r.rasterizer)
	}
}

// canvasPNG runs the canvas backend, giving up when ctx ends. The drawing
// goroutine finishes on its own; its result is discarded.
func canvasPNG(ctx context.Context, c card.Card, opts ...canvas.Option) ([]byte, error) {
	type result struct {
		png []byte
		err error
	}
	done := make(chan result, 1)
	go func() {
		png, err := canvas.EncodePNG(c, opts...)
		done <- result{png, err}
	}()

	select {
	case res := <-done:
		return res.png, res.err
	case <-ctx.Done():
		return nil, apperr.Wrap(apperr.ErrCodeTimeout, ctx.Err(), "render png")
	}
}

// RenderPDF renders c as PDF via SVG conversion. Requires rsvg-convert.
func RenderPDF(ctx context.Context, c card.Card, opts ...SVGOption) ([]byte, error) {
	svg, err := RenderSVG(c, opts...)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}
