// Package media loads still images as frames and writes preview images.
package media

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif" // Register GIF decoder.
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
	"github.com/vearutop/chromakey"
	_ "golang.org/x/image/bmp"  // Register BMP decoder.
	_ "golang.org/x/image/tiff" // Register TIFF decoder.
	_ "golang.org/x/image/webp" // Register WebP decoder.
)

// FitMode controls how an image is brought to the foreground size.
type FitMode string

const (
	// FitStretch scales to the exact size, ignoring aspect ratio.
	FitStretch FitMode = "stretch"
	// FitCover scales to cover the size and crops the center.
	FitCover FitMode = "cover"
)

// ParseFitMode parses stretch or cover.
func ParseFitMode(s string) (FitMode, error) {
	switch FitMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", FitStretch:
		return FitStretch, nil
	case FitCover:
		return FitCover, nil
	default:
		return "", fmt.Errorf("%w: unknown fit mode %q", chromakey.ErrInvalidParameter, s)
	}
}

// Fit scales img to w x h.
func Fit(img image.Image, w, h int, mode FitMode) (image.Image, error) {
	if w <= 0 || h <= 0 {
		return nil, errors.New("invalid target dimensions")
	}
	b := img.Bounds()
	if b.Dx() == w && b.Dy() == h {
		return img, nil
	}
	switch mode {
	case FitCover:
		return imaging.Fill(img, w, h, imaging.Center, imaging.Lanczos), nil
	case FitStretch, "":
		return resize.Resize(uint(w), uint(h), img, resize.Lanczos3), nil
	default:
		return nil, fmt.Errorf("%w: unknown fit mode %q", chromakey.ErrInvalidParameter, mode)
	}
}

// LoadFrame decodes an image file and fits it to w x h.
// Zero w or h keeps the native size.
func LoadFrame(path string, w, h int, mode FitMode) (*chromakey.Frame, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if w > 0 && h > 0 {
		img, err = Fit(img, w, h, mode)
		if err != nil {
			return nil, err
		}
	}
	return chromakey.FrameFromImage(img), nil
}

// SaveImage encodes img as PNG or JPEG depending on the extension of path.
func SaveImage(path string, img image.Image, quality int) error {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".png" && ext != ".jpg" && ext != ".jpeg" {
		return fmt.Errorf("unsupported image format %q", filepath.Ext(path))
	}

	out, err := os.Create(filepath.Clean(path))
	if err != nil {
		return err
	}

	if ext == ".png" {
		err = png.Encode(out, img)
	} else {
		err = jpeg.Encode(out, img, &jpeg.Options{Quality: quality})
	}
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	return err
}
