package card

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	apperr "github.com/matzehuels/blindcard/pkg/errors"
)

// Variant names a card preset.
type Variant string

const (
	VariantPreview     Variant = "preview"
	VariantInteractive Variant = "interactive"
)

// Variants lists the presets in display order.
var Variants = []Variant{VariantPreview, VariantInteractive}

// Config holds every constant the layout consumes. All lengths are in
// pixels of the unscaled card.
type Config struct {
	Width    float64 `json:"width" yaml:"width" toml:"width"`
	MaxChars int     `json:"max_chars" yaml:"max_chars" toml:"max_chars"`
	MaxLines int     `json:"max_lines" yaml:"max_lines" toml:"max_lines"`

	Inset       float64 `json:"inset" yaml:"inset" toml:"inset"`
	PanelRadius float64 `json:"panel_radius" yaml:"panel_radius" toml:"panel_radius"`

	LockY      float64 `json:"lock_y" yaml:"lock_y" toml:"lock_y"`
	LockRadius float64 `json:"lock_radius" yaml:"lock_radius" toml:"lock_radius"`

	HeaderY    float64 `json:"header_y" yaml:"header_y" toml:"header_y"`
	SeparatorY float64 `json:"separator_y" yaml:"separator_y" toml:"separator_y"`
	PromptY    float64 `json:"prompt_y" yaml:"prompt_y" toml:"prompt_y"`

	StartY     float64 `json:"start_y" yaml:"start_y" toml:"start_y"`
	LineHeight float64 `json:"line_height" yaml:"line_height" toml:"line_height"`

	FooterMargin float64 `json:"footer_margin" yaml:"footer_margin" toml:"footer_margin"`
	MinFooterY   float64 `json:"min_footer_y" yaml:"min_footer_y" toml:"min_footer_y"`
	BrandGap     float64 `json:"brand_gap" yaml:"brand_gap" toml:"brand_gap"`
	BottomMargin float64 `json:"bottom_margin" yaml:"bottom_margin" toml:"bottom_margin"`

	Fonts   Fonts   `json:"fonts" yaml:"fonts" toml:"fonts"`
	Palette Palette `json:"palette" yaml:"palette" toml:"palette"`
	Texts   Texts   `json:"texts" yaml:"texts" toml:"texts"`
}

// Fonts holds the family name and per-role sizes.
type Fonts struct {
	Family        string  `json:"family" yaml:"family" toml:"family"`
	HeaderSize    float64 `json:"header_size" yaml:"header_size" toml:"header_size"`
	PromptSize    float64 `json:"prompt_size" yaml:"prompt_size" toml:"prompt_size"`
	BodySize      float64 `json:"body_size" yaml:"body_size" toml:"body_size"`
	FooterSize    float64 `json:"footer_size" yaml:"footer_size" toml:"footer_size"`
	BrandSize     float64 `json:"brand_size" yaml:"brand_size" toml:"brand_size"`
	LetterSpacing float64 `json:"letter_spacing" yaml:"letter_spacing" toml:"letter_spacing"`
}

// Texts holds the localized strings. Header templates substitute {from}
// and {to}.
type Texts struct {
	HeaderBoth    string `json:"header_both" yaml:"header_both" toml:"header_both"`
	HeaderFrom    string `json:"header_from" yaml:"header_from" toml:"header_from"`
	HeaderTo      string `json:"header_to" yaml:"header_to" toml:"header_to"`
	HeaderDefault string `json:"header_default" yaml:"header_default" toml:"header_default"`
	Placeholder   string `json:"placeholder" yaml:"placeholder" toml:"placeholder"`
	Prompt        string `json:"prompt" yaml:"prompt" toml:"prompt"`
	Footer        string `json:"footer" yaml:"footer" toml:"footer"`
	Brand         string `json:"brand" yaml:"brand" toml:"brand"`
}

// DefaultTexts returns the Korean strings used by both presets.
func DefaultTexts() Texts {
	return Texts{
		HeaderBoth:    "{from}님이 {to}님에게",
		HeaderFrom:    "{from}님이 보낸 메시지",
		HeaderTo:      "{to}님에게 온 메시지",
		HeaderDefault: "누군가 보낸 비밀 메시지",
		Placeholder:   "비밀 메시지가 도착했어요",
		Prompt:        "제가 하고 싶은 말은...",
		Footer:        "링크를 열어 숨겨진 메시지를 확인하세요",
		Brand:         "blindcard",
	}
}

// PreviewConfig is the 600px social-preview card.
func PreviewConfig() Config {
	return Config{
		Width:    600,
		MaxChars: 18,
		MaxLines: 6,

		Inset:       24,
		PanelRadius: 24,
		LockY:       80,
		LockRadius:  28,

		HeaderY:    150,
		SeparatorY: 175,
		PromptY:    215,

		StartY:     265,
		LineHeight: 40,

		FooterMargin: 30,
		MinFooterY:   420,
		BrandGap:     32,
		BottomMargin: 80,

		Fonts: Fonts{
			Family:        DefaultFamily,
			HeaderSize:    26,
			PromptSize:    18,
			BodySize:      24,
			FooterSize:    16,
			BrandSize:     14,
			LetterSpacing: 2,
		},
		Palette: DefaultPalette(),
		Texts:   DefaultTexts(),
	}
}

// InteractiveConfig is the 360px card drawn on the client. It fits more
// characters per line and fewer lines than the preview.
func InteractiveConfig() Config {
	return Config{
		Width:    360,
		MaxChars: 22,
		MaxLines: 5,

		Inset:       16,
		PanelRadius: 20,
		LockY:       60,
		LockRadius:  22,

		HeaderY:    118,
		SeparatorY: 138,
		PromptY:    168,

		StartY:     206,
		LineHeight: 28,

		FooterMargin: 24,
		MinFooterY:   330,
		BrandGap:     24,
		BottomMargin: 60,

		Fonts: Fonts{
			Family:        DefaultFamily,
			HeaderSize:    19,
			PromptSize:    14,
			BodySize:      13,
			FooterSize:    12,
			BrandSize:     11,
			LetterSpacing: 1,
		},
		Palette: DefaultPalette(),
		Texts:   DefaultTexts(),
	}
}

// ConfigFor returns the preset for v.
func ConfigFor(v Variant) (Config, error) {
	switch v {
	case VariantPreview, "":
		return PreviewConfig(), nil
	case VariantInteractive:
		return InteractiveConfig(), nil
	default:
		return Config{}, apperr.New(apperr.ErrCodeInvalidVariant, "unknown card variant %q (want preview or interactive)", v)
	}
}

// DefaultFamily is the font-family list written into vector output.
const DefaultFamily = "Noto Sans KR, Apple SD Gothic Neo, Malgun Gothic, sans-serif"

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Validate reports a configuration error for non-positive sizes, budgets
// or malformed colors. It returns an [apperr.ErrCodeInvalidConfig] error.
func (c Config) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.Width, validation.Required, validation.Min(1.0)),
		validation.Field(&c.MaxChars, validation.Required, validation.Min(1)),
		validation.Field(&c.MaxLines, validation.Required, validation.Min(1)),
		validation.Field(&c.Inset, validation.Min(0.0), validation.Max(c.Width/2)),
		validation.Field(&c.PanelRadius, validation.Min(0.0)),
		validation.Field(&c.LockY, validation.Required, validation.Min(0.0)),
		validation.Field(&c.LockRadius, validation.Required, validation.Min(0.0)),
		validation.Field(&c.HeaderY, validation.Required, validation.Min(0.0)),
		validation.Field(&c.SeparatorY, validation.Required, validation.Min(0.0)),
		validation.Field(&c.PromptY, validation.Required, validation.Min(0.0)),
		validation.Field(&c.StartY, validation.Required, validation.Min(0.0)),
		validation.Field(&c.LineHeight, validation.Required, validation.Min(0.0)),
		validation.Field(&c.FooterMargin, validation.Min(0.0)),
		validation.Field(&c.MinFooterY, validation.Min(0.0)),
		validation.Field(&c.BrandGap, validation.Min(0.0)),
		validation.Field(&c.BottomMargin, validation.Required, validation.Min(0.0)),
		validation.Field(&c.Fonts),
		validation.Field(&c.Palette),
		validation.Field(&c.Texts),
	)
	if err != nil {
		return apperr.Wrap(apperr.ErrCodeInvalidConfig, err, "card config")
	}
	return nil
}

// Validate checks font sizes.
func (f Fonts) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Family, validation.Required),
		validation.Field(&f.HeaderSize, validation.Required, validation.Min(0.0)),
		validation.Field(&f.PromptSize, validation.Required, validation.Min(0.0)),
		validation.Field(&f.BodySize, validation.Required, validation.Min(0.0)),
		validation.Field(&f.FooterSize, validation.Required, validation.Min(0.0)),
		validation.Field(&f.BrandSize, validation.Required, validation.Min(0.0)),
		validation.Field(&f.LetterSpacing, validation.Min(0.0)),
	)
}

// Validate requires the header templates to be present. Empty prompt,
// footer and brand strings are allowed and draw nothing visible.
func (t Texts) Validate() error {
	return validation.ValidateStruct(&t,
		validation.Field(&t.HeaderBoth, validation.Required),
		validation.Field(&t.HeaderFrom, validation.Required),
		validation.Field(&t.HeaderTo, validation.Required),
		validation.Field(&t.HeaderDefault, validation.Required),
		validation.Field(&t.Placeholder, validation.Required),
	)
}
