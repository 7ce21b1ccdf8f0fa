package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sync"

	apperr "github.com/matzehuels/blindcard/pkg/errors"
)

// Rasterizer is the external SVG conversion tool.
const Rasterizer = "rsvg-convert"

// ErrUnavailable is returned when rsvg-convert is not installed.
var ErrUnavailable = errors.New("rsvg-convert not found. Install with:\n  macOS:  brew install librsvg\n  Linux:  apt install librsvg2-bin")

var (
	lookOnce sync.Once
	lookPath string
)

// Available reports whether rsvg-convert is on PATH. The lookup runs once.
func Available() bool {
	lookOnce.Do(func() {
		lookPath, _ = exec.LookPath(Rasterizer)
	})
	return lookPath != ""
}

// ToPDF converts SVG bytes to PDF using rsvg-convert.
func ToPDF(ctx context.Context, svg []byte) ([]byte, error) {
	return rsvgConvert(ctx, svg, "pdf")
}

// ToPNG converts SVG bytes to PNG using rsvg-convert with the given scale
// factor. Scale 2.0 produces a 2x resolution image.
func ToPNG(ctx context.Context, svg []byte, scale float64) ([]byte, error) {
	return rsvgConvert(ctx, svg, "png", "-z", fmt.Sprintf("%.2f", scale))
}

// rsvgConvert shells out to rsvg-convert. The process is killed when ctx
// ends, and a context error is reported as a timeout.
func rsvgConvert(ctx context.Context, svg []byte, format string, extraArgs ...string) ([]byte, error) {
	if !Available() {
		return nil, apperr.Wrap(apperr.ErrCodeUnsupported, ErrUnavailable, "%s export", format)
	}

	args := append([]string{"-f", format}, extraArgs...)
	cmd := exec.CommandContext(ctx, lookPath, args...)
	cmd.Stdin = bytes.NewReader(svg)

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, apperr.Wrap(apperr.ErrCodeTimeout, ctxErr, "%s conversion", format)
		}
		return nil, apperr.Wrap(apperr.ErrCodeRenderFailed, fmt.Errorf("%s: %v: %s", Rasterizer, err, errBuf.String()), "%s conversion", format)
	}
	if out.Len() == 0 {
		return nil, apperr.New(apperr.ErrCodeRenderFailed, "%s produced no output", Rasterizer)
	}
	return out.Bytes(), nil
}
