// Package sink is the server preview backend. It turns a laid-out
// [card.Card] into SVG, PNG or PDF bytes.
//
// # SVG Output
//
// [RenderSVG] writes one element per instruction. Text runs carry an x
// coordinate for every character, computed by [typeset], so any SVG
// renderer reproduces the same letter spacing as the canvas backend:
//
//	svg, err := sink.RenderSVG(c, sink.WithFonts(set), sink.WithEmbeddedFonts())
//
// # PNG Output
//
// [RenderPNG] rasterizes with rsvg-convert when it is installed and falls
// back to the in-process canvas otherwise. [WithRasterizer] forces one:
//
//	png, err := sink.RenderPNG(ctx, c, sink.WithScale(2), sink.WithRasterizer(sink.RasterizerCanvas))
//
// [Thumbnail] downsizes a rendered PNG for crawlers that ask for a smaller
// preview.
//
// # PDF Output
//
// [RenderPDF] requires rsvg-convert.
//
// All functions return [apperr.ErrCodeRenderFailed] or
// [apperr.ErrCodeTimeout] errors and never partial output.
package sink
