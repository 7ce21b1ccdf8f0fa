// Package canvas is the interactive render backend. It draws a card's
// instruction list onto an in-memory image and exports it as PNG bytes or
// an embeddable data URL.
//
// Coordinates are multiplied by the scale factor rather than applied as a
// drawing transform, and text faces are created at the scaled size, so
// glyphs are rasterized at native resolution.
package canvas

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"math"

	"github.com/fogleman/gg"

	"github.com/matzehuels/blindcard/pkg/card"
	apperr "github.com/matzehuels/blindcard/pkg/errors"
	"github.com/matzehuels/blindcard/pkg/fonts"
	"github.com/matzehuels/blindcard/pkg/typeset"
)

// MaxDimension bounds either side of the output image in pixels.
const MaxDimension = 8192

// Option configures rendering.
type Option func(*renderer)

type renderer struct {
	scale float64
	fonts *fonts.Set
	ts    *typeset.Typesetter
}

// WithScale sets the pixel density (default 2.0).
func WithScale(s float64) Option {
	return func(r *renderer) { r.scale = s }
}

// WithFonts sets the font set used when no typesetter is given.
func WithFonts(set *fonts.Set) Option {
	return func(r *renderer) { r.fonts = set }
}

// WithTypesetter shares a typesetter with another backend. The caller
// keeps ownership and must not use it concurrently.
func WithTypesetter(ts *typeset.Typesetter) Option {
	return func(r *renderer) { r.ts = ts }
}

// Render draws c and returns the image. Any drawing failure, including a
// panic in the rasterizer, is returned as a render error.
func Render(c card.Card, opts ...Option) (image.Image, error) {
	dc, err := rasterize(c, opts...)
	if err != nil {
		return nil, err
	}
	return dc.Image(), nil
}

func rasterize(c card.Card, opts ...Option) (dc *gg.Context, err error) {
	r := renderer{scale: 2.0}
	for _, opt := range opts {
		opt(&r)
	}
	if r.scale <= 0 {
		return nil, apperr.New(apperr.ErrCodeInvalidInput, "scale must be positive, got %v", r.scale)
	}

	w := int(math.Ceil(c.Width * r.scale))
	h := int(math.Ceil(c.Height * r.scale))
	if w <= 0 || h <= 0 || w > MaxDimension || h > MaxDimension {
		return nil, apperr.New(apperr.ErrCodeRenderFailed, "canvas size %dx%d out of range", w, h)
	}

	if r.ts == nil {
		r.ts = typeset.New(r.fonts)
		defer r.ts.Close()
	}

	defer func() {
		if p := recover(); p != nil {
			dc, err = nil, apperr.New(apperr.ErrCodeRenderFailed, "canvas: %v", p)
		}
	}()

	dc = gg.NewContext(w, h)
	dc.SetLineCapRound()
	for i, in := range c.Instructions {
		if err := r.draw(dc, in); err != nil {
			return nil, apperr.Wrap(apperr.ErrCodeRenderFailed, err, "instruction %d (%s)", i, in.Role)
		}
	}
	return dc, nil
}

// EncodePNG renders c and encodes it as PNG.
func EncodePNG(c card.Card, opts ...Option) ([]byte, error) {
	dc, err := rasterize(c, opts...)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeRenderFailed, err, "encode png")
	}
	return buf.Bytes(), nil
}

// DataURL renders c and returns a "data:image/png;base64," URL.
func DataURL(c card.Card, opts ...Option) (string, error) {
	png, err := EncodePNG(c, opts...)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

func (r *renderer) draw(dc *gg.Context, in card.Instruction) error {
	s := r.scale
	switch in.Kind {
	case card.KindRect:
		dc.DrawRectangle(in.X*s, in.Y*s, in.W*s, in.H*s)
	case card.KindRoundRect:
		dc.DrawRoundedRectangle(in.X*s, in.Y*s, in.W*s, in.H*s, in.R*s)
	case card.KindCircle:
		dc.DrawCircle(in.X*s, in.Y*s, in.R*s)
	case card.KindLine:
		dc.DrawLine(in.X*s, in.Y*s, in.X2*s, in.Y2*s)
	case card.KindArc:
		dc.NewSubPath()
		dc.DrawArc(in.X*s, in.Y*s, in.R*s, in.Start, in.End)
	case card.KindText:
		return r.text(dc, in)
	default:
		return fmt.Errorf("unsupported instruction kind %q", in.Kind)
	}
	paint(dc, in, s)
	return nil
}

func paint(dc *gg.Context, in card.Instruction, s float64) {
	switch {
	case in.Fill != "" && in.Stroke != "":
		dc.SetHexColor(in.Fill)
		dc.FillPreserve()
		dc.SetHexColor(in.Stroke)
		dc.SetLineWidth(in.StrokeWidth * s)
		dc.Stroke()
	case in.Fill != "":
		dc.SetHexColor(in.Fill)
		dc.Fill()
	case in.Stroke != "":
		dc.SetHexColor(in.Stroke)
		dc.SetLineWidth(in.StrokeWidth * s)
		dc.Stroke()
	default:
		dc.ClearPath()
	}
}

func (r *renderer) text(dc *gg.Context, in card.Instruction) error {
	if in.Text == "" || in.Fill == "" {
		return nil
	}
	glyphs, err := r.ts.Place(in)
	if err != nil {
		return err
	}
	face, err := r.ts.Face(in.Size*r.scale, in.Weight)
	if err != nil {
		return err
	}
	dc.SetFontFace(face)
	dc.SetHexColor(in.Fill)
	for _, g := range glyphs {
		if g.Visible() {
			dc.DrawString(string(g.Rune), g.X*r.scale, in.Y*r.scale)
		}
	}
	return nil
}
