package chromakey

import "fmt"

// spillChannels marks the key's dominant channels, i.e. those that carry the key cast.
type spillChannels struct {
	dominant [3]bool
	active   bool
}

func keySpillChannels(key RGB) spillChannels {
	c := [3]uint8{key.R, key.G, key.B}
	top := max3(c[0], c[1], c[2])
	var s spillChannels
	n := 0
	for i, v := range c {
		if v == top {
			s.dominant[i] = true
			n++
		}
	}
	// A gray key has no hue to suppress.
	s.active = n < 3
	return s
}

// SuppressSpill reduces the key cast on edge pixels of fg, those with mask strictly between 0 and 1.
//
// Each dominant key channel is pulled towards the largest of the other channels by
// strength*(1-alpha) of its excess. Fully opaque and fully transparent pixels are untouched.
// The input frame is not modified.
func SuppressSpill(fg *Frame, mask *AlphaMask, key RGB, strength float32) (*Frame, error) {
	if !fg.valid() || !mask.valid() || fg.Width != mask.Width || fg.Height != mask.Height {
		return nil, fmt.Errorf("%w: spill on mismatched frame and mask", ErrDimensionMismatch)
	}
	if err := validateSpill(strength); err != nil {
		return nil, err
	}
	return suppressSpill(fg, mask, keySpillChannels(key), strength), nil
}

func validateSpill(strength float32) error {
	if !finite(strength) || strength < 0 || strength > 1 {
		return fmt.Errorf("%w: spill strength %v not in [0, 1]", ErrInvalidParameter, strength)
	}
	return nil
}

func suppressSpill(fg *Frame, mask *AlphaMask, ch spillChannels, strength float32) *Frame {
	if !ch.active || strength == 0 {
		return fg
	}
	out := fg.Clone()
	for i, a := range mask.Alpha {
		if a <= 0 || a >= 1 {
			continue
		}
		px := out.Pix[i*3 : i*3+3]
		var limit uint8
		for c := 0; c < 3; c++ {
			if !ch.dominant[c] && px[c] > limit {
				limit = px[c]
			}
		}
		k := strength * (1 - a)
		for c := 0; c < 3; c++ {
			if ch.dominant[c] && px[c] > limit {
				excess := float32(px[c] - limit)
				px[c] = clampToByte(float32(px[c]) - k*excess)
			}
		}
	}
	return out
}
