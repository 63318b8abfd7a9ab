package probe

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"os"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrUnreadableImage is returned (wrapped) when a file cannot be opened or
// its header is not a supported image format.
var ErrUnreadableImage = errors.New("unreadable image")

// Probe returns the pixel dimensions of the image at path by decoding only
// its header.
func Probe(path string) (Dimensions, error) {
	f, err := os.Open(path)
	if err != nil {
		return Dimensions{}, fmt.Errorf("%w: %w", ErrUnreadableImage, err)
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(bufio.NewReader(f))
	if err != nil {
		return Dimensions{}, fmt.Errorf("%w: %s: %w", ErrUnreadableImage, path, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return Dimensions{}, fmt.Errorf("%w: %s: %s header reports %dx%d",
			ErrUnreadableImage, path, format, cfg.Width, cfg.Height)
	}
	return Dimensions{Width: uint32(cfg.Width), Height: uint32(cfg.Height)}, nil
}
