package pipeline

import (
	"context"
	"encoding/base64"
	"encoding/json"

	"github.com/matzehuels/blindcard/pkg/card"
	apperr "github.com/matzehuels/blindcard/pkg/errors"
	"github.com/matzehuels/blindcard/pkg/render/sink"
)

// Render renders c in opts.Format on opts.Backend. Options must already be
// validated.
func (r *Runner) Render(ctx context.Context, c card.Card, opts Options) ([]byte, error) {
	switch opts.Format {
	case FormatSVG:
		return sink.RenderSVG(c, r.svgOptions(c)...)
	case FormatPDF:
		return sink.RenderPDF(ctx, c, r.svgOptions(c)...)
	case FormatJSON:
		data, err := json.MarshalIndent(c, "", "  ")
		if err != nil {
			return nil, apperr.Wrap(apperr.ErrCodeInternal, err, "marshal layout")
		}
		return data, nil
	case FormatPNG:
		return r.renderPNG(ctx, c, opts)
	case FormatDataURL:
		png, err := r.renderPNG(ctx, c, opts)
		if err != nil {
			return nil, err
		}
		return []byte("data:image/png;base64," + base64.StdEncoding.EncodeToString(png)), nil
	default:
		return nil, apperr.New(apperr.ErrCodeInvalidFormat, "unsupported format: %s", opts.Format)
	}
}

func (r *Runner) renderPNG(ctx context.Context, c card.Card, opts Options) ([]byte, error) {
	rasterizer := r.Rasterizer
	if opts.Backend == BackendCanvas {
		rasterizer = sink.RasterizerCanvas
	}
	png, err := sink.RenderPNG(ctx, c,
		sink.WithScale(opts.Scale),
		sink.WithRasterizer(rasterizer),
		sink.WithPNGFonts(r.Fonts),
		sink.WithPNGSVGOptions(r.svgOptions(c)...),
	)
	if err != nil {
		return nil, err
	}
	if opts.Width > 0 {
		return sink.Thumbnail(png, opts.Width)
	}
	return png, nil
}

func (r *Runner) svgOptions(c card.Card) []sink.SVGOption {
	opts := []sink.SVGOption{sink.WithFonts(r.Fonts), sink.WithTitle(c.Header)}
	if r.EmbedFonts {
		opts = append(opts, sink.WithEmbeddedFonts())
	}
	return opts
}
