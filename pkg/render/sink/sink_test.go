package sink

import (
	"bytes"
	"context"
	"encoding/xml"
	"image/png"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/blindcard/pkg/card"
	apperr "github.com/matzehuels/blindcard/pkg/errors"
	"github.com/matzehuels/blindcard/pkg/letter"
	"github.com/matzehuels/blindcard/pkg/render/canvas"
)

func testCard() card.Card {
	e := card.MustEngine(card.PreviewConfig())
	return e.Layout(letter.Record{From: "지민", To: "서연", Message: "생일 축하해 <3 & more"})
}

func TestRenderSVGWellFormed(t *testing.T) {
	svg, err := RenderSVG(testCard(), WithTitle("a & b"))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}

	dec := xml.NewDecoder(bytes.NewReader(svg))
	for {
		_, err := dec.Token()
		if err != nil {
			if err == io.EOF {
				break
			}
			t.Fatalf("RenderSVG() output is not well-formed XML: %v", err)
		}
	}

	s := string(svg)
	for _, want := range []string{
		`viewBox="0 0 600 500"`,
		`<title>a &amp; b</title>`,
		`class="header"`,
		`지민님이 서연님에게`,
		`<circle `,
		`<line `,
		`<path d="M `,
	} {
		if !strings.Contains(s, want) {
			t.Errorf("RenderSVG() missing %q", want)
		}
	}
}

func TestRenderSVGElementOrder(t *testing.T) {
	c := testCard()
	svg, err := RenderSVG(c)
	if err != nil {
		t.Fatal(err)
	}

	dec := xml.NewDecoder(bytes.NewReader(svg))
	var got []string
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		if se, ok := tok.(xml.StartElement); ok && se.Name.Local != "svg" {
			got = append(got, se.Name.Local)
		}
	}

	want := map[card.Kind]string{
		card.KindRect:      "rect",
		card.KindRoundRect: "rect",
		card.KindCircle:    "circle",
		card.KindLine:      "line",
		card.KindArc:       "path",
		card.KindText:      "text",
	}
	if len(got) != len(c.Instructions) {
		t.Fatalf("got %d elements, want %d", len(got), len(c.Instructions))
	}
	for i, in := range c.Instructions {
		if got[i] != want[in.Kind] {
			t.Errorf("element %d = %s, want %s for %s", i, got[i], want[in.Kind], in.Role)
		}
	}
}

func TestRenderSVGPerGlyphPositions(t *testing.T) {
	e := card.MustEngine(card.PreviewConfig())
	c := e.Layout(letter.Record{Message: "abc"})
	svg, err := RenderSVG(c)
	if err != nil {
		t.Fatal(err)
	}

	type text struct {
		Class string `xml:"class,attr"`
		X     string `xml:"x,attr"`
		Body  string `xml:",chardata"`
	}
	var doc struct {
		Texts []text `xml:"text"`
	}
	if err := xml.Unmarshal(svg, &doc); err != nil {
		t.Fatal(err)
	}

	for _, tx := range doc.Texts {
		if tx.Class != string(card.RoleMessage) {
			continue
		}
		if n, want := len(strings.Fields(tx.X)), len([]rune(tx.Body)); n != want {
			t.Errorf("message x list has %d entries, want %d", n, want)
		}
		return
	}
	t.Error("no message text element found")
}

func TestRenderSVGEmbeddedFonts(t *testing.T) {
	svg, err := RenderSVG(testCard(), WithEmbeddedFonts())
	if err != nil {
		t.Fatal(err)
	}
	s := string(svg)
	if !strings.Contains(s, "@font-face") || !strings.Contains(s, "base64,") {
		t.Error("WithEmbeddedFonts() did not embed fonts")
	}
	if !strings.Contains(s, `font-family="blindcard, `) {
		t.Error("text does not prefer the embedded family")
	}
}

func TestRenderSVGDeterministic(t *testing.T) {
	c := testCard()
	a, _ := RenderSVG(c)
	b, _ := RenderSVG(c)
	if !bytes.Equal(a, b) {
		t.Error("RenderSVG() is not deterministic")
	}
}

func TestRenderSVGSkipsUnfilledText(t *testing.T) {
	c := testCard()
	c.Instructions = append(c.Instructions, card.Instruction{
		Kind: card.KindText, Role: card.RoleBrand, X: 10, Y: 10, Text: "invisible", Size: 12, Weight: 400,
	})
	svg, err := RenderSVG(c)
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if strings.Contains(string(svg), "invisible") {
		t.Error("RenderSVG() drew a text run without fill")
	}
	if strings.Contains(string(svg), `fill=""`) {
		t.Error(`RenderSVG() output contains fill=""`)
	}
}

func TestRenderSVGUnknownKind(t *testing.T) {
	c := testCard()
	c.Instructions = append(c.Instructions, card.Instruction{Kind: "star"})
	if _, err := RenderSVG(c); !apperr.Is(err, apperr.ErrCodeRenderFailed) {
		t.Errorf("RenderSVG() error = %v, want %s", err, apperr.ErrCodeRenderFailed)
	}
}

func TestArcPath(t *testing.T) {
	in := card.Instruction{Kind: card.KindArc, X: 10, Y: 10, R: 5, Start: 3.141592653589793, End: 2 * 3.141592653589793}
	if got, want := arcPath(in), "M 5 10 A 5 5 0 0 1 15 10"; got != want {
		t.Errorf("arcPath() = %q, want %q", got, want)
	}
}

func TestNum(t *testing.T) {
	tests := map[float64]string{
		600:      "600",
		12.5:     "12.5",
		1.0 / 3:  "0.33",
		-0.004:   "0",
		265.0001: "265",
	}
	for in, want := range tests {
		if got := num(in); got != want {
			t.Errorf("num(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestRenderPNGCanvas(t *testing.T) {
	c := testCard()
	out, err := RenderPNG(context.Background(), c, WithRasterizer(RasterizerCanvas), WithScale(1))
	if err != nil {
		t.Fatalf("RenderPNG() error: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 600 || b.Dy() != int(c.Height) {
		t.Errorf("size = %dx%d, want 600x%d", b.Dx(), b.Dy(), int(c.Height))
	}

	direct, err := canvas.EncodePNG(c, canvas.WithScale(1))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(out, direct) {
		t.Error("canvas rasterizer output differs from the canvas backend")
	}
}

func TestRenderPNGCancelled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	out, err := RenderPNG(ctx, testCard(), WithRasterizer(RasterizerCanvas))
	if out != nil {
		t.Error("RenderPNG() returned bytes after timeout")
	}
	if !apperr.Is(err, apperr.ErrCodeTimeout) {
		t.Errorf("RenderPNG() error = %v, want %s", err, apperr.ErrCodeTimeout)
	}
}

func TestParseRasterizer(t *testing.T) {
	tests := []struct {
		in      string
		want    Rasterizer
		wantErr bool
	}{
		{"", RasterizerAuto, false},
		{"auto", RasterizerAuto, false},
		{"rsvg", RasterizerRSVG, false},
		{"canvas", RasterizerCanvas, false},
		{"cairo", "", true},
	}
	for _, tt := range tests {
		got, err := ParseRasterizer(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseRasterizer(%q) = %q, %v; want %q, err=%v", tt.in, got, err, tt.want, tt.wantErr)
		}
	}
	if r := RasterizerAuto.Resolve(); r != RasterizerRSVG && r != RasterizerCanvas {
		t.Errorf("Resolve() = %q, want a concrete rasterizer", r)
	}
}

func TestThumbnail(t *testing.T) {
	full, err := canvas.EncodePNG(testCard(), canvas.WithScale(1))
	if err != nil {
		t.Fatal(err)
	}

	small, err := Thumbnail(full, 300)
	if err != nil {
		t.Fatalf("Thumbnail() error: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(small))
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 300 || b.Dy() != 250 {
		t.Errorf("thumbnail size = %dx%d, want 300x250", b.Dx(), b.Dy())
	}

	same, err := Thumbnail(full, 1200)
	if err != nil || !bytes.Equal(same, full) {
		t.Error("Thumbnail() wider than source should return the input")
	}

	if _, err := Thumbnail(full, 10); !apperr.Is(err, apperr.ErrCodeInvalidInput) {
		t.Errorf("Thumbnail(10) error = %v, want %s", err, apperr.ErrCodeInvalidInput)
	}
	if _, err := Thumbnail([]byte("nope"), 100); !apperr.Is(err, apperr.ErrCodeRenderFailed) {
		t.Errorf("Thumbnail(junk) error = %v, want %s", err, apperr.ErrCodeRenderFailed)
	}
}
