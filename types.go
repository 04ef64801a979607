package chromakey

import (
	"fmt"
	"image"
	"image/color"
	"strings"
)

// RGB is an 8-bit color triple.
type RGB struct {
	R, G, B uint8
}

// String returns the color in #rrggbb notation.
func (c RGB) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

var _ image.Image = (*Frame)(nil)

// Frame is a packed 8-bit RGB image. Stride is always Width*3.
type Frame struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewFrame allocates a black frame.
func NewFrame(w, h int) *Frame {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &Frame{Width: w, Height: h, Pix: make([]uint8, w*h*3)}
}

// FrameFromImage converts any image to a Frame, dropping alpha.
func FrameFromImage(img image.Image) *Frame {
	b := img.Bounds()
	f := NewFrame(b.Dx(), b.Dy())
	switch src := img.(type) {
	case *Frame:
		copy(f.Pix, src.Pix)
	case *image.RGBA:
		for y := 0; y < f.Height; y++ {
			row := src.Pix[y*src.Stride:]
			out := f.Pix[y*f.Width*3:]
			for x := 0; x < f.Width; x++ {
				out[x*3+0] = row[x*4+0]
				out[x*3+1] = row[x*4+1]
				out[x*3+2] = row[x*4+2]
			}
		}
	default:
		for y := 0; y < f.Height; y++ {
			for x := 0; x < f.Width; x++ {
				r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
				off := (y*f.Width + x) * 3
				f.Pix[off+0] = uint8(r >> 8)
				f.Pix[off+1] = uint8(g >> 8)
				f.Pix[off+2] = uint8(bl >> 8)
			}
		}
	}
	return f
}

// Clone returns a deep copy of the frame.
func (f *Frame) Clone() *Frame {
	out := &Frame{Width: f.Width, Height: f.Height, Pix: make([]uint8, len(f.Pix))}
	copy(out.Pix, f.Pix)
	return out
}

// RGBAt returns the pixel at x, y.
func (f *Frame) RGBAt(x, y int) RGB {
	off := (y*f.Width + x) * 3
	return RGB{R: f.Pix[off], G: f.Pix[off+1], B: f.Pix[off+2]}
}

// SetRGB sets the pixel at x, y.
func (f *Frame) SetRGB(x, y int, c RGB) {
	off := (y*f.Width + x) * 3
	f.Pix[off] = c.R
	f.Pix[off+1] = c.G
	f.Pix[off+2] = c.B
}

// ColorModel implements image.Image.
func (f *Frame) ColorModel() color.Model { return color.RGBAModel }

// Bounds implements image.Image.
func (f *Frame) Bounds() image.Rectangle { return image.Rect(0, 0, f.Width, f.Height) }

// At implements image.Image.
func (f *Frame) At(x, y int) color.Color {
	if x < 0 || y < 0 || x >= f.Width || y >= f.Height {
		return color.RGBA{}
	}
	c := f.RGBAt(x, y)
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xFF}
}

func (f *Frame) valid() bool {
	return f != nil && f.Width > 0 && f.Height > 0 && len(f.Pix) == f.Width*f.Height*3
}

// AlphaMask stores foreground opacity in [0, 1], one value per pixel.
type AlphaMask struct {
	Width  int
	Height int
	Alpha  []float32
}

// NewAlphaMask allocates a fully transparent mask.
func NewAlphaMask(w, h int) *AlphaMask {
	return &AlphaMask{Width: w, Height: h, Alpha: make([]float32, w*h)}
}

// Gray renders the mask as an 8-bit grayscale image, white being opaque foreground.
func (m *AlphaMask) Gray() *image.Gray {
	out := image.NewGray(image.Rect(0, 0, m.Width, m.Height))
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			out.Pix[y*out.Stride+x] = clampToByte(m.Alpha[y*m.Width+x] * 255)
		}
	}
	return out
}

func (m *AlphaMask) valid() bool {
	return m != nil && m.Width > 0 && m.Height > 0 && len(m.Alpha) == m.Width*m.Height
}

// ToneAdjustment is a per-layer brightness, contrast and gamma correction.
//
// The linear part is applied first: (v-128)*Contrast + 128 + Brightness, clamped to [0, 255].
// Gamma, when non-zero, is applied next as 255*(v/255)^(1/Gamma).
type ToneAdjustment struct {
	Brightness float32 `json:"brightness" yaml:"brightness"`
	Contrast   float32 `json:"contrast" yaml:"contrast"`
	Gamma      float32 `json:"gamma,omitempty" yaml:"gamma,omitempty"` // 0 disables gamma correction
}

// IdentityTone leaves pixel values unchanged.
func IdentityTone() ToneAdjustment {
	return ToneAdjustment{Contrast: 1}
}

// DistanceMetric selects the color distance used for keying.
type DistanceMetric int

const (
	// MetricEuclidean is the plain Euclidean distance over R, G and B.
	MetricEuclidean DistanceMetric = iota
	// MetricRedmean is the weighted "redmean" approximation of perceived difference:
	// sqrt((2+r/256)*dR^2 + 4*dG^2 + (2+(255-r)/256)*dB^2) where r is the mean red value.
	MetricRedmean
)

func (m DistanceMetric) String() string {
	switch m {
	case MetricEuclidean:
		return "euclidean"
	case MetricRedmean:
		return "redmean"
	default:
		return fmt.Sprintf("metric(%d)", int(m))
	}
}

// ParseDistanceMetric parses euclidean or redmean.
func ParseDistanceMetric(s string) (DistanceMetric, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "euclidean":
		return MetricEuclidean, nil
	case "redmean", "perceptual":
		return MetricRedmean, nil
	default:
		return 0, fmt.Errorf("%w: unknown distance metric %q", ErrInvalidParameter, s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m DistanceMetric) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *DistanceMetric) UnmarshalText(b []byte) error {
	v, err := ParseDistanceMetric(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}
