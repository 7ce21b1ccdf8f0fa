package canvas

import (
	"bytes"
	"fmt"
	"image/color"
	"strings"
	"testing"

	"github.com/matzehuels/blindcard/pkg/card"
	apperr "github.com/matzehuels/blindcard/pkg/errors"
	"github.com/matzehuels/blindcard/pkg/fonts"
	"github.com/matzehuels/blindcard/pkg/letter"
)

func previewCard(t *testing.T) card.Card {
	t.Helper()
	e := card.MustEngine(card.PreviewConfig())
	return e.Layout(letter.Record{From: "jimin", To: "seoyeon", Message: "happy birthday\nsee you soon"})
}

func rgb(c color.Color) [3]uint32 {
	r, g, b, _ := c.RGBA()
	return [3]uint32{r >> 8, g >> 8, b >> 8}
}

func hex(t *testing.T, s string) [3]uint32 {
	t.Helper()
	var r, g, b uint32
	if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err != nil {
		t.Fatalf("bad color %q: %v", s, err)
	}
	return [3]uint32{r, g, b}
}

func TestRenderSize(t *testing.T) {
	c := previewCard(t)
	tests := []struct {
		scale float64
		w, h  int
	}{
		{1, 600, int(c.Height)},
		{2, 1200, int(c.Height) * 2},
	}

	for _, tt := range tests {
		img, err := Render(c, WithScale(tt.scale), WithFonts(fonts.Default()))
		if err != nil {
			t.Fatalf("Render(scale=%v) error: %v", tt.scale, err)
		}
		b := img.Bounds()
		if b.Dx() != tt.w || b.Dy() != tt.h {
			t.Errorf("Render(scale=%v) size = %dx%d, want %dx%d", tt.scale, b.Dx(), b.Dy(), tt.w, tt.h)
		}
	}
}

func TestRenderColors(t *testing.T) {
	c := previewCard(t)
	p := card.DefaultPalette()

	img, err := Render(c, WithScale(1))
	if err != nil {
		t.Fatal(err)
	}

	if got, want := rgb(img.At(2, 2)), hex(t, p.Background); got != want {
		t.Errorf("background pixel = %v, want %v", got, want)
	}
	if got, want := rgb(img.At(40, 300)), hex(t, p.Panel); got != want {
		t.Errorf("panel pixel = %v, want %v", got, want)
	}
	if got, want := rgb(img.At(300, 60)), hex(t, p.Accent); got != want {
		t.Errorf("lock pixel = %v, want %v", got, want)
	}
}

func TestEncodePNGDeterministic(t *testing.T) {
	c := previewCard(t)
	first, err := EncodePNG(c)
	if err != nil {
		t.Fatalf("EncodePNG() error: %v", err)
	}
	if !bytes.HasPrefix(first, []byte("\x89PNG\r\n\x1a\n")) {
		t.Fatal("EncodePNG() output is not a PNG")
	}
	for i := 0; i < 3; i++ {
		got, err := EncodePNG(c)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(first, got) {
			t.Fatalf("EncodePNG() call %d produced different bytes", i)
		}
	}
}

func TestDataURL(t *testing.T) {
	e := card.MustEngine(card.InteractiveConfig())
	url, err := DataURL(e.Layout(letter.Record{}), WithScale(1))
	if err != nil {
		t.Fatalf("DataURL() error: %v", err)
	}
	if !strings.HasPrefix(url, "data:image/png;base64,iVBORw0KGgo") {
		t.Errorf("DataURL() = %.40q..., want PNG data URL", url)
	}
}

func TestRenderErrors(t *testing.T) {
	c := previewCard(t)

	bad := c
	bad.Instructions = append([]card.Instruction{}, c.Instructions...)
	bad.Instructions = append(bad.Instructions, card.Instruction{Kind: "triangle"})

	huge := c
	huge.Height = MaxDimension + 1

	tests := []struct {
		name string
		c    card.Card
		opts []Option
		code apperr.Code
	}{
		{"unknown kind", bad, nil, apperr.ErrCodeRenderFailed},
		{"too tall", huge, []Option{WithScale(1)}, apperr.ErrCodeRenderFailed},
		{"zero scale", c, []Option{WithScale(0)}, apperr.ErrCodeInvalidInput},
		{"empty card", card.Card{}, nil, apperr.ErrCodeRenderFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := Render(tt.c, tt.opts...)
			if img != nil {
				t.Error("Render() returned an image on failure")
			}
			if !apperr.Is(err, tt.code) {
				t.Errorf("Render() error = %v, want %s", err, tt.code)
			}
		})
	}
}
