package card

// Kind identifies the drawing primitive of an [Instruction].
type Kind string

const (
	KindRect      Kind = "rect"
	KindRoundRect Kind = "roundrect"
	KindCircle    Kind = "circle"
	KindLine      Kind = "line"
	KindArc       Kind = "arc"
	KindText      Kind = "text"
)

// Align is the horizontal anchor of a text run.
type Align string

const (
	AlignStart  Align = "start"
	AlignMiddle Align = "middle"
	AlignEnd    Align = "end"
)

// Weight is a CSS-style font weight.
type Weight int

const (
	WeightRegular Weight = 400
	WeightBold    Weight = 700
)

// Bold reports whether w selects the bold face.
func (w Weight) Bold() bool { return w >= 600 }

// Role names the part of the card an instruction draws.
type Role string

const (
	RoleBackground Role = "background"
	RolePanel      Role = "panel"
	RoleLock       Role = "lock"
	RoleLockBody   Role = "lock-body"
	RoleShackle    Role = "lock-shackle"
	RoleHeader     Role = "header"
	RoleSeparator  Role = "separator"
	RolePrompt     Role = "prompt"
	RoleMessage    Role = "message"
	RoleFooter     Role = "footer"
	RoleBrand      Role = "brand"
)

// Instruction is one drawing primitive. Which fields are meaningful depends
// on Kind:
//
//   - rect: X, Y, W, H (top-left and size)
//   - roundrect: as rect, plus R (corner radius)
//   - circle: X, Y (center), R
//   - line: X, Y to X2, Y2
//   - arc: X, Y (center), R, Start to End in radians, clockwise on screen
//   - text: X (anchor), Y (baseline), Text, Size, Weight, Align, Spacing
//
// Colors are "#rrggbb". An empty Fill or Stroke draws nothing for that part.
type Instruction struct {
	Kind Kind `json:"kind"`
	Role Role `json:"role"`

	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	W  float64 `json:"w,omitempty"`
	H  float64 `json:"h,omitempty"`
	R  float64 `json:"r,omitempty"`
	X2 float64 `json:"x2,omitempty"`
	Y2 float64 `json:"y2,omitempty"`

	Start float64 `json:"start,omitempty"`
	End   float64 `json:"end,omitempty"`

	Fill        string  `json:"fill,omitempty"`
	Stroke      string  `json:"stroke,omitempty"`
	StrokeWidth float64 `json:"stroke_width,omitempty"`

	Text    string  `json:"text,omitempty"`
	Size    float64 `json:"size,omitempty"`
	Weight  Weight  `json:"weight,omitempty"`
	Align   Align   `json:"align,omitempty"`
	Spacing float64 `json:"spacing,omitempty"`
}

// Card is the result of laying out one letter.
type Card struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	// Family is the font family every text run uses.
	Family string `json:"family"`

	Header string   `json:"header"`
	Masked string   `json:"masked"`
	Lines  []string `json:"lines"`

	Instructions []Instruction `json:"instructions"`
}

// Texts returns the text instructions in draw order.
func (c Card) Texts() []Instruction {
	var out []Instruction
	for _, in := range c.Instructions {
		if in.Kind == KindText {
			out = append(out, in)
		}
	}
	return out
}

// Find returns the instructions with the given role in draw order.
func (c Card) Find(role Role) []Instruction {
	var out []Instruction
	for _, in := range c.Instructions {
		if in.Role == role {
			out = append(out, in)
		}
	}
	return out
}
