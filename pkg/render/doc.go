// Package render turns laid-out cards into image bytes.
//
// # Overview
//
// A card is laid out once by [card.Engine] and then handed to one of two
// backends that execute the same instruction list:
//
//   - [sink]: the server preview backend. It writes SVG and rasterizes it
//     to PNG, either with the external rsvg-convert tool or with the
//     in-process canvas.
//   - [canvas]: the interactive backend. It draws directly onto an
//     in-memory image and exports PNG bytes or a data URL.
//
// Both backends place text with [typeset], so letter spacing and
// alignment come from one routine.
//
// # Format Conversion
//
// [ToPNG] and [ToPDF] convert any SVG using rsvg-convert (from librsvg).
// [Available] reports whether the tool is installed.
//
//	svg, _ := sink.RenderSVG(c, ts)
//	png, err := render.ToPNG(ctx, svg, 2.0)
package render
