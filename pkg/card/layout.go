package card

import (
	"math"

	"github.com/matzehuels/blindcard/pkg/letter"
	"github.com/matzehuels/blindcard/pkg/reveal"
	"github.com/matzehuels/blindcard/pkg/wrap"
)

// Engine lays out cards for one validated [Config]. It holds no mutable
// state and is safe for concurrent use.
type Engine struct {
	cfg Config
}

// NewEngine validates cfg and returns an engine for it. A validation
// failure is a configuration error and should stop the program.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg}, nil
}

// MustEngine is like [NewEngine] but panics on an invalid config.
func MustEngine(cfg Config) *Engine {
	e, err := NewEngine(cfg)
	if err != nil {
		panic(err)
	}
	return e
}

// Config returns a copy of the engine's configuration.
func (e *Engine) Config() Config { return e.cfg }

// WithPalette returns an engine that draws with p. Palettes from
// [Palettes] are always valid; other palettes are validated.
func (e *Engine) WithPalette(p Palette) (*Engine, error) {
	cfg := e.cfg
	cfg.Palette = p
	return NewEngine(cfg)
}

// Themed returns an engine using the palette registered for theme. Empty
// and unknown themes keep the engine's own palette.
func (e *Engine) Themed(theme string) *Engine {
	p, ok := Palettes[theme]
	if !ok {
		return e
	}
	cfg := e.cfg
	cfg.Palette = p
	return &Engine{cfg: cfg}
}

// FooterY returns the footer baseline for n message lines.
func (e *Engine) FooterY(n int) float64 {
	c := e.cfg
	return math.Max(c.StartY+float64(n)*c.LineHeight+c.FooterMargin, c.MinFooterY)
}

// Height returns the canvas height for n message lines.
func (e *Engine) Height(n int) float64 {
	return e.FooterY(n) + e.cfg.BottomMargin
}

// Lines returns the masked message and its wrapped lines. An empty message
// is replaced by the placeholder text before masking.
func (e *Engine) Lines(message string) (masked string, lines []string) {
	if message == "" {
		message = e.cfg.Texts.Placeholder
	}
	masked = reveal.Mask(message)
	lines = wrap.Lines(masked, e.cfg.MaxChars, e.cfg.MaxLines)
	return masked, lines
}

// Layout lays out r. It never fails for any record.
func (e *Engine) Layout(r letter.Record) Card {
	c := e.cfg
	p := c.Palette
	f := c.Fonts
	cx := c.Width / 2

	masked, lines := e.Lines(r.Message)
	footerY := e.FooterY(len(lines))
	height := footerY + c.BottomMargin
	header := Header(r, c.Texts)

	text := func(role Role, s string, y, size float64, w Weight, color string) Instruction {
		return Instruction{
			Kind: KindText, Role: role,
			X: cx, Y: y,
			Text: s, Size: size, Weight: w, Align: AlignMiddle,
			Fill: color,
		}
	}

	out := make([]Instruction, 0, 10+len(lines))
	out = append(out,
		Instruction{Kind: KindRect, Role: RoleBackground, W: c.Width, H: height, Fill: p.Background},
		Instruction{
			Kind: KindRoundRect, Role: RolePanel,
			X: c.Inset, Y: c.Inset, W: c.Width - 2*c.Inset, H: height - 2*c.Inset, R: c.PanelRadius,
			Fill: p.Panel, Stroke: p.Border, StrokeWidth: 1,
		},
	)
	out = append(out, e.lock(cx)...)
	out = append(out,
		text(RoleHeader, header, c.HeaderY, f.HeaderSize, WeightBold, p.Header),
		Instruction{
			Kind: KindLine, Role: RoleSeparator,
			X: c.Inset * 3, Y: c.SeparatorY, X2: c.Width - c.Inset*3, Y2: c.SeparatorY,
			Stroke: p.Separator, StrokeWidth: 1,
		},
		text(RolePrompt, c.Texts.Prompt, c.PromptY, f.PromptSize, WeightRegular, p.Prompt),
	)
	for i, line := range lines {
		in := text(RoleMessage, line, c.StartY+float64(i)*c.LineHeight, f.BodySize, WeightBold, p.Message)
		in.Spacing = f.LetterSpacing
		out = append(out, in)
	}
	out = append(out,
		text(RoleFooter, c.Texts.Footer, footerY, f.FooterSize, WeightRegular, p.Footer),
		text(RoleBrand, c.Texts.Brand, footerY+c.BrandGap, f.BrandSize, WeightBold, p.Brand),
	)

	return Card{
		Width:        c.Width,
		Height:       height,
		Family:       f.Family,
		Header:       header,
		Masked:       masked,
		Lines:        lines,
		Instructions: out,
	}
}

// lock draws a padlock centered on (cx, LockY): a filled disc, the body
// rectangle, and the shackle as an upper half-circle stroke.
func (e *Engine) lock(cx float64) []Instruction {
	c := e.cfg
	cy := c.LockY
	r := c.LockRadius
	bw, bh := r*0.72, r*0.56
	sr := r * 0.24

	return []Instruction{
		{Kind: KindCircle, Role: RoleLock, X: cx, Y: cy, R: r, Fill: c.Palette.Accent},
		{
			Kind: KindRect, Role: RoleLockBody,
			X: cx - bw/2, Y: cy - bh/4, W: bw, H: bh,
			Fill: c.Palette.Panel,
		},
		{
			Kind: KindArc, Role: RoleShackle,
			X: cx, Y: cy - bh/4, R: sr, Start: math.Pi, End: 2 * math.Pi,
			Stroke: c.Palette.Panel, StrokeWidth: math.Max(1, r*0.1),
		},
	}
}
