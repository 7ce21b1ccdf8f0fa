// Package typeset is the text-layout routine shared by every render
// backend. It measures text with real font metrics and places each
// character at an explicit x position, so vector and raster output agree
// on letter spacing and alignment.
//
// A [Typesetter] caches font faces and is not safe for concurrent use.
// Create one per render.
package typeset

import (
	"unicode"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/matzehuels/blindcard/pkg/card"
	"github.com/matzehuels/blindcard/pkg/fonts"
)

// Glyph is one placed character. X is the left edge of the glyph's advance
// box in card coordinates.
type Glyph struct {
	Rune    rune
	X       float64
	Advance float64
}

// Visible reports whether the glyph leaves ink.
func (g Glyph) Visible() bool { return !unicode.IsSpace(g.Rune) }

type faceKey struct {
	size float64
	bold bool
}

// Typesetter measures and places text using a font set.
type Typesetter struct {
	set   *fonts.Set
	faces map[faceKey]font.Face
}

// New returns a typesetter for set. A nil set uses [fonts.Default].
func New(set *fonts.Set) *Typesetter {
	if set == nil {
		set = fonts.Default()
	}
	return &Typesetter{set: set, faces: make(map[faceKey]font.Face)}
}

// Fonts returns the font set in use.
func (t *Typesetter) Fonts() *fonts.Set { return t.set }

// Face returns a face at size pixels. Faces are cached by size and weight.
func (t *Typesetter) Face(size float64, w card.Weight) (font.Face, error) {
	key := faceKey{size: size, bold: w.Bold()}
	if f, ok := t.faces[key]; ok {
		return f, nil
	}
	src := t.set.Regular
	if key.bold {
		src = t.set.Bold
	}
	f, err := opentype.NewFace(src.Font, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, err
	}
	t.faces[key] = f
	return f, nil
}

// Close releases all cached faces.
func (t *Typesetter) Close() error {
	for k, f := range t.faces {
		_ = f.Close()
		delete(t.faces, k)
	}
	return nil
}

// Place positions the characters of a text instruction. Letter spacing is
// added between characters, not after the last one, and the resulting run
// is anchored at in.X according to in.Align.
func (t *Typesetter) Place(in card.Instruction) ([]Glyph, error) {
	face, err := t.Face(in.Size, in.Weight)
	if err != nil {
		return nil, err
	}

	runes := []rune(in.Text)
	glyphs := make([]Glyph, len(runes))
	var x float64
	prev := rune(-1)
	for i, r := range runes {
		if prev >= 0 {
			x += toFloat(face.Kern(prev, r)) + in.Spacing
		}
		adv := advance(face, r, in.Size)
		glyphs[i] = Glyph{Rune: r, X: x, Advance: adv}
		x += adv
		prev = r
	}

	offset := in.X
	switch in.Align {
	case card.AlignMiddle:
		offset -= x / 2
	case card.AlignEnd:
		offset -= x
	}
	for i := range glyphs {
		glyphs[i].X += offset
	}
	return glyphs, nil
}

// Width returns the advance width of a text instruction including letter
// spacing.
func (t *Typesetter) Width(in card.Instruction) (float64, error) {
	glyphs, err := t.Place(in)
	if err != nil || len(glyphs) == 0 {
		return 0, err
	}
	first, last := glyphs[0], glyphs[len(glyphs)-1]
	return last.X + last.Advance - first.X, nil
}

// advance returns the advance of r, falling back to the replacement
// character and then to half an em when the font lacks the glyph.
func advance(face font.Face, r rune, size float64) float64 {
	if a, ok := face.GlyphAdvance(r); ok {
		return toFloat(a)
	}
	if a, ok := face.GlyphAdvance('�'); ok {
		return toFloat(a)
	}
	return size / 2
}

func toFloat(x fixed.Int26_6) float64 {
	return float64(x) / 64
}
