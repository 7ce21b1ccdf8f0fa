// Package card lays out a blind-message card as an ordered list of
// backend-agnostic drawing instructions.
//
// # Overview
//
// [Engine.Layout] turns a [letter.Record] into a [Card]: the canvas height,
// the resolved header text, the masked and wrapped message lines, and the
// [Instruction] list both render backends execute. Layout is pure. The same
// record and [Config] always produce the same instructions, which is what
// keeps the server preview image and the client image identical.
//
// # Instruction Order
//
// Instructions are emitted in a fixed order:
//
//  1. background rectangle
//  2. rounded card panel
//  3. lock icon (circle, body rectangle, shackle arc)
//  4. header text
//  5. separator line
//  6. prompt text
//  7. one text run per message line
//  8. footer text
//  9. brand text
//
// # Geometry
//
// Message line i sits on baseline StartY + i*LineHeight. The footer baseline
// is max(StartY + n*LineHeight + FooterMargin, MinFooterY) for n lines and
// the canvas height is that plus BottomMargin. Text Y values are baselines;
// text X values are anchors interpreted according to [Align].
//
// # Variants
//
// [PreviewConfig] is the social-preview card and [InteractiveConfig] the
// smaller card drawn on the client. They differ only in constants.
//
// # Themes
//
// The engine does not read [letter.Record.Theme]. Callers choose a palette
// with [PaletteFor] and derive an engine with [Engine.WithPalette].
package card
