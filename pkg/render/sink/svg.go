package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/blindcard/pkg/card"
	apperr "github.com/matzehuels/blindcard/pkg/errors"
	"github.com/matzehuels/blindcard/pkg/fonts"
	"github.com/matzehuels/blindcard/pkg/typeset"
)

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	fonts *fonts.Set
	ts    *typeset.Typesetter
	embed bool
	title string
}

// WithFonts sets the fonts used to measure text.
func WithFonts(set *fonts.Set) SVGOption { return func(r *svgRenderer) { r.fonts = set } }

// WithTypesetter shares a typesetter. The caller keeps ownership.
func WithTypesetter(ts *typeset.Typesetter) SVGOption { return func(r *svgRenderer) { r.ts = ts } }

// WithEmbeddedFonts embeds the measuring fonts as @font-face data so
// browsers draw with exactly the metrics used for placement.
func WithEmbeddedFonts() SVGOption { return func(r *svgRenderer) { r.embed = true } }

// WithTitle sets the document title.
func WithTitle(s string) SVGOption { return func(r *svgRenderer) { r.title = s } }

// embeddedFamily names the @font-face families written by WithEmbeddedFonts.
const embeddedFamily = "blindcard"

// RenderSVG renders c as a standalone SVG document.
func RenderSVG(c card.Card, opts ...SVGOption) ([]byte, error) {
	r := svgRenderer{}
	for _, opt := range opts {
		opt(&r)
	}
	if r.ts == nil {
		r.ts = typeset.New(r.fonts)
		defer r.ts.Close()
	}

	family := c.Family
	if r.embed {
		family = embeddedFamily + ", " + family
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" width="%s" height="%s">`+"\n",
		num(c.Width), num(c.Height), num(c.Width), num(c.Height))
	if r.title != "" {
		buf.WriteString("  <title>")
		escape(&buf, r.title)
		buf.WriteString("</title>\n")
	}
	if r.embed {
		renderFontFaces(&buf, r.ts.Fonts())
	}

	for i, in := range c.Instructions {
		if err := renderInstruction(&buf, r.ts, in, family); err != nil {
			return nil, apperr.Wrap(apperr.ErrCodeRenderFailed, err, "svg instruction %d (%s)", i, in.Role)
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes(), nil
}

func renderFontFaces(buf *bytes.Buffer, set *fonts.Set) {
	buf.WriteString("  <style>\n")
	for _, f := range []struct {
		face   *fonts.Face
		weight card.Weight
	}{{set.Regular, card.WeightRegular}, {set.Bold, card.WeightBold}} {
		fmt.Fprintf(buf, "    @font-face { font-family: %s; font-weight: %d; src: url(data:%s;base64,%s); }\n",
			embeddedFamily, f.weight, f.face.MIME(), f.face.Base64())
	}
	buf.WriteString("  </style>\n")
}

func renderInstruction(buf *bytes.Buffer, ts *typeset.Typesetter, in card.Instruction, family string) error {
	switch in.Kind {
	case card.KindRect:
		fmt.Fprintf(buf, `  <rect x="%s" y="%s" width="%s" height="%s"%s/>`+"\n",
			num(in.X), num(in.Y), num(in.W), num(in.H), paint(in))
	case card.KindRoundRect:
		fmt.Fprintf(buf, `  <rect x="%s" y="%s" width="%s" height="%s" rx="%s" ry="%s"%s/>`+"\n",
			num(in.X), num(in.Y), num(in.W), num(in.H), num(in.R), num(in.R), paint(in))
	case card.KindCircle:
		fmt.Fprintf(buf, `  <circle cx="%s" cy="%s" r="%s"%s/>`+"\n",
			num(in.X), num(in.Y), num(in.R), paint(in))
	case card.KindLine:
		fmt.Fprintf(buf, `  <line x1="%s" y1="%s" x2="%s" y2="%s"%s/>`+"\n",
			num(in.X), num(in.Y), num(in.X2), num(in.Y2), paint(in))
	case card.KindArc:
		fmt.Fprintf(buf, `  <path d="%s"%s/>`+"\n", arcPath(in), paint(in))
	case card.KindText:
		return renderText(buf, ts, in, family)
	default:
		return fmt.Errorf("unsupported instruction kind %q", in.Kind)
	}
	return nil
}

func renderText(buf *bytes.Buffer, ts *typeset.Typesetter, in card.Instruction, family string) error {
	if in.Text == "" || in.Fill == "" {
		return nil
	}
	glyphs, err := ts.Place(in)
	if err != nil {
		return err
	}
	xs := make([]string, len(glyphs))
	for i, g := range glyphs {
		xs[i] = num(g.X)
	}

	fmt.Fprintf(buf, `  <text class="%s" x="%s" y="%s" font-family="`, in.Role, strings.Join(xs, " "), num(in.Y))
	escape(buf, family)
	fmt.Fprintf(buf, `" font-size="%s" font-weight="%d" fill="%s" xml:space="preserve">`, num(in.Size), in.Weight, in.Fill)
	escape(buf, in.Text)
	buf.WriteString("</text>\n")
	return nil
}

// arcPath converts a center/radius/angle arc into SVG path data.
func arcPath(in card.Instruction) string {
	x1 := in.X + in.R*math.Cos(in.Start)
	y1 := in.Y + in.R*math.Sin(in.Start)
	x2 := in.X + in.R*math.Cos(in.End)
	y2 := in.Y + in.R*math.Sin(in.End)
	large := 0
	if in.End-in.Start > math.Pi {
		large = 1
	}
	return fmt.Sprintf("M %s %s A %s %s 0 %d 1 %s %s",
		num(x1), num(y1), num(in.R), num(in.R), large, num(x2), num(y2))
}

func paint(in card.Instruction) string {
	var b strings.Builder
	if in.Fill != "" {
		fmt.Fprintf(&b, ` fill="%s"`, in.Fill)
	} else {
		b.WriteString(` fill="none"`)
	}
	if in.Stroke != "" {
		fmt.Fprintf(&b, ` stroke="%s" stroke-width="%s" stroke-linecap="round"`, in.Stroke, num(in.StrokeWidth))
	}
	return b.String()
}

// num formats a coordinate with at most two decimals and no trailing zeros.
func num(f float64) string {
	v := math.Round(f*100) / 100
	if v == 0 {
		v = 0 // drop the sign of -0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func escape(buf *bytes.Buffer, s string) {
	_ = xml.EscapeText(buf, []byte(s))
}
