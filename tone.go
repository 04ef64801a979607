package chromakey

import (
	"fmt"
	"math"
)

// Validate checks the adjustment is usable. Zero gamma means no gamma correction.
func (t ToneAdjustment) Validate() error {
	if !finite(t.Brightness) {
		return fmt.Errorf("%w: brightness %v", ErrInvalidParameter, t.Brightness)
	}
	if !finite(t.Contrast) || t.Contrast < 0 {
		return fmt.Errorf("%w: contrast %v", ErrInvalidParameter, t.Contrast)
	}
	if !finite(t.Gamma) || t.Gamma < 0 {
		return fmt.Errorf("%w: gamma %v", ErrInvalidParameter, t.Gamma)
	}
	return nil
}

// IsIdentity reports whether the adjustment leaves every value unchanged.
func (t ToneAdjustment) IsIdentity() bool {
	return t.Brightness == 0 && t.Contrast == 1 && (t.Gamma == 0 || t.Gamma == 1)
}

// Value applies the adjustment to a single channel value without rounding.
func (t ToneAdjustment) Value(v uint8) float32 {
	out := (float64(v)-contrastPivot)*float64(t.Contrast) + contrastPivot + float64(t.Brightness)
	if out < 0 {
		out = 0
	}
	if out > 255 {
		out = 255
	}
	if t.Gamma > 0 && t.Gamma != 1 {
		out = 255 * math.Pow(out/255, 1/float64(t.Gamma))
	}
	return float32(out)
}

type toneTable [256]float32

func (t ToneAdjustment) table() *toneTable {
	var lut toneTable
	for i := range lut {
		lut[i] = t.Value(uint8(i))
	}
	return &lut
}

// Apply returns a tone adjusted copy of f.
func (t ToneAdjustment) Apply(f *Frame) (*Frame, error) {
	if !f.valid() {
		return nil, fmt.Errorf("%w: malformed frame", ErrDimensionMismatch)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	lut := t.table()
	out := &Frame{Width: f.Width, Height: f.Height, Pix: make([]uint8, len(f.Pix))}
	for i, v := range f.Pix {
		out.Pix[i] = clampToByte(lut[v])
	}
	return out, nil
}

// linearized converts table values from encoded [0, 255] to linear light in [0, 1].
func (t *toneTable) linearized() *toneTable {
	var lut toneTable
	for i, v := range t {
		lut[i] = srgbInvOetf(v / 255)
	}
	return &lut
}
