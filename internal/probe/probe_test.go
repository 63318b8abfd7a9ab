package probe

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

func testImage(w, h int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{uint8(x), uint8(y), 128, 255})
		}
	}
	return img
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestProbe_Formats(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name   string
		w, h   int
		encode func(*bytes.Buffer, image.Image) error
	}{
		{"png", 100, 40, func(b *bytes.Buffer, m image.Image) error { return png.Encode(b, m) }},
		{"jpg", 64, 128, func(b *bytes.Buffer, m image.Image) error { return jpeg.Encode(b, m, nil) }},
		{"gif", 17, 33, func(b *bytes.Buffer, m image.Image) error { return gif.Encode(b, m, nil) }},
		{"bmp", 20, 10, func(b *bytes.Buffer, m image.Image) error { return bmp.Encode(b, m) }},
		{"tiff", 9, 300, func(b *bytes.Buffer, m image.Image) error { return tiff.Encode(b, m, nil) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := tt.encode(&buf, testImage(tt.w, tt.h)); err != nil {
				t.Fatalf("encode: %v", err)
			}
			path := filepath.Join(dir, "img."+tt.name)
			writeFile(t, path, buf.Bytes())

			d, err := Probe(path)
			if err != nil {
				t.Fatalf("Probe: %v", err)
			}
			if int(d.Width) != tt.w || int(d.Height) != tt.h {
				t.Errorf("got %s, want %dx%d", d, tt.w, tt.h)
			}
		})
	}
}

func TestProbe_HeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, testImage(300, 200)); err != nil {
		t.Fatal(err)
	}
	// Signature (8) + IHDR chunk (4 len + 4 type + 13 data + 4 crc).
	path := filepath.Join(t.TempDir(), "truncated.png")
	writeFile(t, path, buf.Bytes()[:33])

	d, err := Probe(path)
	if err != nil {
		t.Fatalf("Probe on header-only PNG: %v", err)
	}
	if d.Width != 300 || d.Height != 200 {
		t.Errorf("got %s, want 300x200", d)
	}
}

func TestProbe_Unreadable(t *testing.T) {
	dir := t.TempDir()
	text := filepath.Join(dir, "notes.png")
	writeFile(t, text, []byte("definitely not an image"))
	empty := filepath.Join(dir, "empty.jpg")
	writeFile(t, empty, nil)

	for _, path := range []string{text, empty, filepath.Join(dir, "missing.png")} {
		_, err := Probe(path)
		if !errors.Is(err, ErrUnreadableImage) {
			t.Errorf("Probe(%s) error = %v, want ErrUnreadableImage", filepath.Base(path), err)
		}
	}
}

func TestDimensions_Min(t *testing.T) {
	tests := []struct {
		d    Dimensions
		want uint32
	}{
		{Dimensions{100, 100}, 100},
		{Dimensions{2048, 64}, 64},
		{Dimensions{32, 4096}, 32},
	}
	for _, tt := range tests {
		if got := tt.d.Min(); got != tt.want {
			t.Errorf("%s.Min() = %d, want %d", tt.d, got, tt.want)
		}
	}
}
