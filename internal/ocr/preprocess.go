package ocr

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"

	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"folio/internal/config"
)

// ErrEmptyImage is returned for photos without data or pixels.
var ErrEmptyImage = errors.New("empty image")

// maxUpscale caps how far a narrow photo is enlarged.
const maxUpscale = 4

// Options controls preprocessing.
type Options struct {
	// MinWidth upscales narrower photos to this width. Zero disables scaling.
	MinWidth int
	// KeepColor skips grayscale conversion.
	KeepColor bool
}

// OptionsFromConfig maps the [ocr] settings to preprocessing options.
func OptionsFromConfig(cfg config.OCR) Options {
	return Options{MinWidth: cfg.MinWidth}
}

// DetectFormat reports the registered decoder able to read data.
func DetectFormat(data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyImage
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("detect image format: %w", err)
	}
	return format, nil
}

// Preprocess decodes img, applies grayscale and upscaling, and returns it
// encoded as PNG.
func Preprocess(img Image, opts Options) (Image, error) {
	if len(img.Data) == 0 {
		return Image{}, ErrEmptyImage
	}
	src, _, err := image.Decode(bytes.NewReader(img.Data))
	if err != nil {
		return Image{}, fmt.Errorf("decode %s: %w", img.Name, err)
	}
	bounds := src.Bounds()
	if bounds.Empty() {
		return Image{}, ErrEmptyImage
	}

	var out draw.Image
	if opts.KeepColor {
		rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(rgba, rgba.Bounds(), src, bounds.Min, draw.Src)
		out = rgba
	} else {
		gray := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(gray, gray.Bounds(), src, bounds.Min, draw.Src)
		out = gray
	}

	if w, h, ok := scaledSize(bounds.Dx(), bounds.Dy(), opts.MinWidth); ok {
		var scaled draw.Image
		if opts.KeepColor {
			scaled = image.NewRGBA(image.Rect(0, 0, w, h))
		} else {
			scaled = image.NewGray(image.Rect(0, 0, w, h))
		}
		draw.CatmullRom.Scale(scaled, scaled.Bounds(), out, out.Bounds(), draw.Src, nil)
		out = scaled
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return Image{}, fmt.Errorf("encode %s: %w", img.Name, err)
	}
	return Image{Data: buf.Bytes(), Format: "png", Name: img.Name}, nil
}

// scaledSize returns the upscaled dimensions for a photo narrower than
// minWidth, preserving aspect ratio.
func scaledSize(width, height, minWidth int) (int, int, bool) {
	if minWidth <= 0 || width >= minWidth || width <= 0 {
		return width, height, false
	}
	target := min(minWidth, width*maxUpscale)
	if target <= width {
		return width, height, false
	}
	h := max(height*target/width, 1)
	return target, h, true
}
