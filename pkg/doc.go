// Package pkg provides the core libraries for blindcard share cards.
//
// # Overview
//
// A blind message is a short letter whose share link shows only a few
// deterministic characters of the text. The pkg directory is organized
// around the path a share token takes on its way to an image:
//
//	share token
//	     ↓
//	[letter] decode (invalid tokens become the empty letter)
//	     ↓
//	[reveal] mask all but the chosen characters
//	     ↓
//	[wrap] break the masked text into card lines
//	     ↓
//	[card] lay out drawing instructions for one variant
//	     ↓
//	[render/sink] SVG, PDF or PNG   |   [render/canvas] client-style raster
//
// [pipeline] runs these stages with caching and hooks, and is shared by the
// CLI and the HTTP server.
//
// # Quick Start
//
//	rec, _ := letter.DecodeOrEmpty(token)
//	engine := card.MustEngine(card.PreviewConfig())
//	c := engine.Themed(rec.Theme).Layout(rec)
//	svg, _ := sink.RenderSVG(c, sink.WithFonts(fonts.Default()))
//
// # Main Packages
//
// [letter] - The four-field letter record and its URL-safe token codec.
//
// [reveal] - Deterministic selection of the visible characters.
//
// [wrap] - Whitespace-aware line wrapping with a hard line limit.
//
// [card] - Variant configs, palettes and the layout engine that produces
// renderer-independent instructions.
//
// [typeset] - Text measurement and shaping on top of loaded fonts.
//
// [fonts] - Font discovery, with embedded fallbacks.
//
// [render] - SVG to PDF/PNG conversion; [render/sink] and [render/canvas]
// draw the instructions.
//
// [cache] - File, Redis and null artifact caches.
//
// [observability] - Pipeline and cache hooks.
//
// [errors] - Coded errors shared by the CLI and the server.
//
// [letter]: https://pkg.go.dev/github.com/matzehuels/blindcard/pkg/letter
// [reveal]: https://pkg.go.dev/github.com/matzehuels/blindcard/pkg/reveal
// [wrap]: https://pkg.go.dev/github.com/matzehuels/blindcard/pkg/wrap
// [card]: https://pkg.go.dev/github.com/matzehuels/blindcard/pkg/card
// [typeset]: https://pkg.go.dev/github.com/matzehuels/blindcard/pkg/typeset
// [fonts]: https://pkg.go.dev/github.com/matzehuels/blindcard/pkg/fonts
// [render]: https://pkg.go.dev/github.com/matzehuels/blindcard/pkg/render
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/blindcard/pkg/render/sink
// [render/canvas]: https://pkg.go.dev/github.com/matzehuels/blindcard/pkg/render/canvas
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/blindcard/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/blindcard/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/blindcard/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/blindcard/pkg/errors
package pkg
