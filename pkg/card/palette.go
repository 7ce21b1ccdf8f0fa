package card

import (
	"sort"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Palette holds the colors of one theme.
type Palette struct {
	Background string `json:"background" yaml:"background" toml:"background"`
	Panel      string `json:"panel" yaml:"panel" toml:"panel"`
	Border     string `json:"border" yaml:"border" toml:"border"`
	Accent     string `json:"accent" yaml:"accent" toml:"accent"`
	Header     string `json:"header" yaml:"header" toml:"header"`
	Separator  string `json:"separator" yaml:"separator" toml:"separator"`
	Prompt     string `json:"prompt" yaml:"prompt" toml:"prompt"`
	Message    string `json:"message" yaml:"message" toml:"message"`
	Footer     string `json:"footer" yaml:"footer" toml:"footer"`
	Brand      string `json:"brand" yaml:"brand" toml:"brand"`
}

// Validate requires every color to be "#rrggbb".
func (p Palette) Validate() error {
	color := []validation.Rule{validation.Required, validation.Match(hexColor)}
	return validation.ValidateStruct(&p,
		validation.Field(&p.Background, color...),
		validation.Field(&p.Panel, color...),
		validation.Field(&p.Border, color...),
		validation.Field(&p.Accent, color...),
		validation.Field(&p.Header, color...),
		validation.Field(&p.Separator, color...),
		validation.Field(&p.Prompt, color...),
		validation.Field(&p.Message, color...),
		validation.Field(&p.Footer, color...),
		validation.Field(&p.Brand, color...),
	)
}

// DefaultTheme is used for records with an empty or unknown theme.
const DefaultTheme = "default"

// Palettes maps theme identifiers to palettes.
var Palettes = map[string]Palette{
	DefaultTheme: {
		Background: "#f4f1ec",
		Panel:      "#ffffff",
		Border:     "#e6e0d6",
		Accent:     "#3b3b58",
		Header:     "#22223b",
		Separator:  "#e6e0d6",
		Prompt:     "#6b6b80",
		Message:    "#22223b",
		Footer:     "#8d8d9e",
		Brand:      "#3b3b58",
	},
	"night": {
		Background: "#0f1021",
		Panel:      "#1c1d36",
		Border:     "#2d2f55",
		Accent:     "#8c7ae6",
		Header:     "#f5f6fa",
		Separator:  "#2d2f55",
		Prompt:     "#a4a7c8",
		Message:    "#f5f6fa",
		Footer:     "#7f82a8",
		Brand:      "#8c7ae6",
	},
	"rose": {
		Background: "#fde8ec",
		Panel:      "#fffafb",
		Border:     "#f7c6d0",
		Accent:     "#e84a6f",
		Header:     "#5c1a2b",
		Separator:  "#f7c6d0",
		Prompt:     "#9b5a6a",
		Message:    "#5c1a2b",
		Footer:     "#b07c89",
		Brand:      "#e84a6f",
	},
	"mint": {
		Background: "#e3f6ef",
		Panel:      "#fbfffd",
		Border:     "#bfe8d8",
		Accent:     "#1f9e78",
		Header:     "#123d31",
		Separator:  "#bfe8d8",
		Prompt:     "#4f7d6f",
		Message:    "#123d31",
		Footer:     "#7ba597",
		Brand:      "#1f9e78",
	},
}

// DefaultPalette returns the palette of [DefaultTheme].
func DefaultPalette() Palette { return Palettes[DefaultTheme] }

// PaletteFor returns the palette for theme, falling back to the default.
func PaletteFor(theme string) Palette {
	if p, ok := Palettes[theme]; ok {
		return p
	}
	return DefaultPalette()
}

// Themes returns the known theme identifiers, sorted.
func Themes() []string {
	out := make([]string, 0, len(Palettes))
	for k := range Palettes {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
