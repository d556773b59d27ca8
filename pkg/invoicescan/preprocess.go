package invoicescan

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

const minOCRWidth = 900

// loadAndPrepare opens the invoice image and applies the cheap cleanups that
// help Tesseract on receipt photos: grayscale, upscale of small captures,
// and a contrast/sharpen pass.
func loadAndPrepare(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	out := imaging.Grayscale(img)
	if out.Bounds().Dx() < minOCRWidth {
		out = imaging.Resize(out, minOCRWidth, 0, imaging.Lanczos)
	}
	out = imaging.AdjustContrast(out, 25)
	out = imaging.Sharpen(out, 1.2)
	return out, nil
}

func savePNG(img image.Image, path string) error {
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("save prepared image: %w", err)
	}
	return nil
}
