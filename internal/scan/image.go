package scan

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"

	"github.com/nfnt/resize"
)

// decodeAndDownscale decodes the image and caps its longest side at
// maxSide to bound the cost of the later pipeline stages.
func decodeAndDownscale(data []byte, maxSide int) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	longest := w
	if h > longest {
		longest = h
	}
	if longest <= maxSide {
		return img, nil
	}

	if w >= h {
		return resize.Resize(uint(maxSide), 0, img, resize.Bilinear), nil
	}
	return resize.Resize(0, uint(maxSide), img, resize.Bilinear), nil
}

// encodeJPEG re-encodes the (downscaled) image for the model service.
func encodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}
