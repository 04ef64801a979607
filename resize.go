package chromakey

import (
	"fmt"
	"strings"
)

// Interpolation selects the built-in interpolation mode.
type Interpolation int

const (
	// InterpolationNearest is nearest-neighbor sampling.
	InterpolationNearest Interpolation = iota
	// InterpolationBilinear is linear sampling.
	InterpolationBilinear
	// InterpolationBicubic is cubic sampling.
	InterpolationBicubic
	// InterpolationMitchellNetravali is Mitchell-Netravali sampling.
	InterpolationMitchellNetravali
	// InterpolationLanczos2 is Lanczos sampling with a=2.
	InterpolationLanczos2
	// InterpolationLanczos3 is Lanczos sampling with a=3.
	InterpolationLanczos3
)

// ParseInterpolation parses nearest, bilinear, bicubic, mitchell, lanczos2 or lanczos3.
func ParseInterpolation(s string) (Interpolation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "nearest":
		return InterpolationNearest, nil
	case "", "bilinear":
		return InterpolationBilinear, nil
	case "bicubic":
		return InterpolationBicubic, nil
	case "mitchell":
		return InterpolationMitchellNetravali, nil
	case "lanczos2":
		return InterpolationLanczos2, nil
	case "lanczos3":
		return InterpolationLanczos3, nil
	default:
		return 0, fmt.Errorf("%w: unknown interpolation %q", ErrInvalidParameter, s)
	}
}

// ResizeFrame scales f to w x h. A frame that already has the requested size is returned as is.
func ResizeFrame(f *Frame, w, h int, interp Interpolation) (*Frame, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: invalid target dimensions %dx%d", ErrInvalidParameter, w, h)
	}
	if !f.valid() {
		return nil, fmt.Errorf("%w: malformed frame", ErrDimensionMismatch)
	}
	if f.Width == w && f.Height == h {
		return f, nil
	}
	if interp == InterpolationNearest {
		return resizeNearest(f, w, h), nil
	}
	def := kernelForInterpolation(interp)
	return &Frame{Width: w, Height: h, Pix: resampleRGB8(f.Pix, f.Width, f.Height, f.Width*3, w, h, def)}, nil
}

// FitBackgrounds resizes every frame to w x h.
func FitBackgrounds(frames []*Frame, w, h int, interp Interpolation) ([]*Frame, error) {
	out := make([]*Frame, len(frames))
	for i, f := range frames {
		r, err := ResizeFrame(f, w, h, interp)
		if err != nil {
			return nil, fmt.Errorf("background frame %d: %w", i, err)
		}
		out[i] = r
	}
	return out, nil
}

func resizeNearest(src *Frame, w, h int) *Frame {
	dst := NewFrame(w, h)
	for y := 0; y < h; y++ {
		sy := y * src.Height / h
		for x := 0; x < w; x++ {
			sx := x * src.Width / w
			copy(dst.Pix[(y*w+x)*3:(y*w+x)*3+3], src.Pix[(sy*src.Width+sx)*3:])
		}
	}
	return dst
}
