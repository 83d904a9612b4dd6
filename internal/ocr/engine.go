package ocr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Image is an encoded page photo.
type Image struct {
	Data []byte
	// Format is the decoder name reported by image.DecodeConfig, e.g. "jpeg".
	Format string
	// Name identifies the photo in logs, usually its file name.
	Name string
}

// Engine recognizes the text on a page photo.
type Engine interface {
	Recognize(ctx context.Context, img Image) (string, error)
}

// EngineFunc adapts a function to Engine.
type EngineFunc func(ctx context.Context, img Image) (string, error)

func (f EngineFunc) Recognize(ctx context.Context, img Image) (string, error) {
	return f(ctx, img)
}

// LoadImage reads a photo from disk and detects its format.
func LoadImage(path string) (Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Image{}, fmt.Errorf("read image: %w", err)
	}
	img := Image{Data: data, Name: filepath.Base(path)}
	format, err := DetectFormat(data)
	if err != nil {
		return Image{}, fmt.Errorf("%s: %w", img.Name, err)
	}
	img.Format = format
	return img, nil
}

// Preprocessed wraps an engine so every photo passes through Preprocess first.
func Preprocessed(engine Engine, opts Options) Engine {
	return EngineFunc(func(ctx context.Context, img Image) (string, error) {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		prepared, err := Preprocess(img, opts)
		if err != nil {
			return "", err
		}
		text, err := engine.Recognize(ctx, prepared)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(text), nil
	})
}
