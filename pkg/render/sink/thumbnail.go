package sink

import (
	"bytes"
	"image"

	"github.com/disintegration/imaging"

	apperr "github.com/matzehuels/blindcard/pkg/errors"
)

// MinThumbnailWidth is the narrowest thumbnail produced.
const MinThumbnailWidth = 64

// Thumbnail scales a PNG down to width pixels, keeping the aspect ratio.
// Images already at or below width are returned unchanged.
func Thumbnail(png []byte, width int) ([]byte, error) {
	if width < MinThumbnailWidth {
		return nil, apperr.New(apperr.ErrCodeInvalidInput, "thumbnail width %d below minimum %d", width, MinThumbnailWidth)
	}

	img, err := imaging.Decode(bytes.NewReader(png))
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeRenderFailed, err, "decode png")
	}
	if img.Bounds().Dx() <= width {
		return png, nil
	}

	return encode(imaging.Resize(img, width, 0, imaging.Lanczos))
}

func encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeRenderFailed, err, "encode png")
	}
	return buf.Bytes(), nil
}
