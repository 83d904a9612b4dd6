package ocr

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func encodedPage(t *testing.T, width, height int, encode func(*bytes.Buffer, image.Image) error) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: 200, B: uint8(y), A: 255})
		}
	}
	var buf bytes.Buffer
	if err := encode(&buf, img); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	return buf.Bytes()
}

func pngEncode(buf *bytes.Buffer, img image.Image) error { return png.Encode(buf, img) }

func jpegEncode(buf *bytes.Buffer, img image.Image) error { return jpeg.Encode(buf, img, nil) }

func TestLoadImageDetectsFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "page.jpg")
	if err := os.WriteFile(path, encodedPage(t, 20, 10, jpegEncode), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	img, err := LoadImage(path)
	if err != nil {
		t.Fatalf("LoadImage: %v", err)
	}
	if img.Format != "jpeg" || img.Name != "page.jpg" {
		t.Fatalf("unexpected image metadata %+v", img)
	}

	if _, err := LoadImage(filepath.Join(dir, "missing.png")); err == nil {
		t.Fatal("expected error for missing file")
	}
	bad := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(bad, []byte("not an image"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, err := LoadImage(bad); err == nil {
		t.Fatal("expected error for unrecognized data")
	}
}

func TestPreprocessGrayscaleAndUpscale(t *testing.T) {
	src := Image{Data: encodedPage(t, 100, 50, jpegEncode), Name: "narrow.jpg"}
	out, err := Preprocess(src, Options{MinWidth: 300})
	if err != nil {
		t.Fatalf("Preprocess: %v", err)
	}
	if out.Format != "png" || out.Name != "narrow.jpg" {
		t.Fatalf("unexpected output metadata %+v", out)
	}
	decoded, err := png.Decode(bytes.NewReader(out.Data))
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if got := decoded.Bounds(); got.Dx() != 300 || got.Dy() != 150 {
		t.Fatalf("unexpected output size %v", got)
	}
	if _, ok := decoded.(*image.Gray); !ok {
		t.Fatalf("expected grayscale output, got %T", decoded)
	}
}

func TestPreprocessKeepsWidePhotosAndColor(t *testing.T) {
	src := Image{Data: encodedPage(t, 64, 32, pngEncode), Name: "wide.png"}
	out, err := Preprocess(src, Options{MinWidth: 32, KeepColor: true})
	if err != nil {
		t.Fatalf("Preprocess: %v", err)
	}
	decoded, err := png.Decode(bytes.NewReader(out.Data))
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if got := decoded.Bounds(); got.Dx() != 64 || got.Dy() != 32 {
		t.Fatalf("wide photo should not be resized, got %v", got)
	}
	if _, ok := decoded.(*image.Gray); ok {
		t.Fatal("KeepColor should keep color output")
	}
}

func TestPreprocessErrors(t *testing.T) {
	if _, err := Preprocess(Image{}, Options{}); !errors.Is(err, ErrEmptyImage) {
		t.Fatalf("expected ErrEmptyImage, got %v", err)
	}
	if _, err := Preprocess(Image{Data: []byte("garbage"), Name: "x"}, Options{}); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestScaledSize(t *testing.T) {
	tests := []struct {
		name                    string
		width, height, minWidth int
		wantW, wantH            int
		wantScaled              bool
	}{
		{"disabled", 100, 50, 0, 100, 50, false},
		{"already wide", 2000, 1000, 1600, 2000, 1000, false},
		{"upscaled", 800, 1200, 1600, 1600, 2400, true},
		{"capped", 100, 100, 1600, 400, 400, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h, ok := scaledSize(tt.width, tt.height, tt.minWidth)
			if w != tt.wantW || h != tt.wantH || ok != tt.wantScaled {
				t.Fatalf("scaledSize() = (%d, %d, %v), want (%d, %d, %v)", w, h, ok, tt.wantW, tt.wantH, tt.wantScaled)
			}
		})
	}
}

func TestPreprocessedEngine(t *testing.T) {
	var seen Image
	inner := EngineFunc(func(_ context.Context, img Image) (string, error) {
		seen = img
		return "  recognized text \n", nil
	})
	engine := Preprocessed(inner, Options{})
	text, err := engine.Recognize(context.Background(), Image{Data: encodedPage(t, 10, 10, jpegEncode), Name: "p.jpg"})
	if err != nil {
		t.Fatalf("Recognize: %v", err)
	}
	if text != "recognized text" {
		t.Fatalf("unexpected text %q", text)
	}
	if seen.Format != "png" {
		t.Fatalf("inner engine should receive png, got %q", seen.Format)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := engine.Recognize(ctx, Image{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
