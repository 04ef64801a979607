package chromakey

import (
	"fmt"
	"strings"
)

// BlendMode selects the space the alpha blend is computed in.
type BlendMode int

const (
	// BlendSRGB mixes encoded 8-bit values directly.
	BlendSRGB BlendMode = iota
	// BlendLinear decodes both layers to linear light with the sRGB transfer function,
	// mixes and re-encodes. Edges keep their brightness better at the cost of a pow per channel.
	BlendLinear
)

// ParseBlendMode parses srgb or linear.
func ParseBlendMode(s string) (BlendMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "srgb":
		return BlendSRGB, nil
	case "linear":
		return BlendLinear, nil
	default:
		return 0, fmt.Errorf("%w: unknown blend mode %q", ErrInvalidParameter, s)
	}
}

func (m BlendMode) String() string {
	if m == BlendLinear {
		return "linear"
	}
	return "srgb"
}

// MarshalText implements encoding.TextMarshaler.
func (m BlendMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *BlendMode) UnmarshalText(b []byte) error {
	v, err := ParseBlendMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// CompositorOptions tunes blending.
type CompositorOptions struct {
	Blend BlendMode
}

// Compositor blends a keyed foreground over a background with fixed tone and spill settings.
// It is immutable and safe for concurrent use.
type Compositor struct {
	fgTone *toneTable
	bgTone *toneTable
	spill  float32
	keyCh  spillChannels
	linear bool
}

// NewCompositor validates the settings and precomputes per-layer tone tables.
func NewCompositor(fgTone, bgTone ToneAdjustment, key RGB, spill float32, opts ...func(o *CompositorOptions)) (*Compositor, error) {
	var opt CompositorOptions
	for _, applyOpt := range opts {
		applyOpt(&opt)
	}
	if opt.Blend != BlendSRGB && opt.Blend != BlendLinear {
		return nil, fmt.Errorf("%w: blend mode %d", ErrInvalidParameter, int(opt.Blend))
	}
	if err := fgTone.Validate(); err != nil {
		return nil, fmt.Errorf("foreground tone: %w", err)
	}
	if err := bgTone.Validate(); err != nil {
		return nil, fmt.Errorf("background tone: %w", err)
	}
	if err := validateSpill(spill); err != nil {
		return nil, err
	}
	c := &Compositor{
		fgTone: fgTone.table(),
		bgTone: bgTone.table(),
		spill:  spill,
		keyCh:  keySpillChannels(key),
		linear: opt.Blend == BlendLinear,
	}
	if c.linear {
		c.fgTone = c.fgTone.linearized()
		c.bgTone = c.bgTone.linearized()
	}
	return c, nil
}

// Composite suppresses spill on fg, tone adjusts both layers and blends them as
// fg*alpha + bg*(1-alpha), rounded and clamped per channel.
func (c *Compositor) Composite(fg, bg *Frame, mask *AlphaMask) (*Frame, error) {
	if !fg.valid() || !bg.valid() || !mask.valid() {
		return nil, fmt.Errorf("%w: malformed frame or mask", ErrDimensionMismatch)
	}
	if fg.Width != bg.Width || fg.Height != bg.Height {
		return nil, fmt.Errorf("%w: foreground %dx%d, background %dx%d",
			ErrDimensionMismatch, fg.Width, fg.Height, bg.Width, bg.Height)
	}
	if fg.Width != mask.Width || fg.Height != mask.Height {
		return nil, fmt.Errorf("%w: foreground %dx%d, mask %dx%d",
			ErrDimensionMismatch, fg.Width, fg.Height, mask.Width, mask.Height)
	}

	fg = suppressSpill(fg, mask, c.keyCh, c.spill)

	out := &Frame{Width: fg.Width, Height: fg.Height, Pix: make([]uint8, len(fg.Pix))}
	if c.linear {
		for i, a := range mask.Alpha {
			inv := 1 - a
			off := i * 3
			for ch := off; ch < off+3; ch++ {
				v := c.fgTone[fg.Pix[ch]]*a + c.bgTone[bg.Pix[ch]]*inv
				out.Pix[ch] = clampToByte(srgbOetf(clamp01(v)) * 255)
			}
		}
		return out, nil
	}
	for i, a := range mask.Alpha {
		inv := 1 - a
		off := i * 3
		for ch := off; ch < off+3; ch++ {
			out.Pix[ch] = clampToByte(c.fgTone[fg.Pix[ch]]*a + c.bgTone[bg.Pix[ch]]*inv)
		}
	}
	return out, nil
}

// Composite is a one-shot form of NewCompositor followed by Compositor.Composite.
func Composite(fg, bg *Frame, mask *AlphaMask, fgTone, bgTone ToneAdjustment, key RGB, spill float32) (*Frame, error) {
	c, err := NewCompositor(fgTone, bgTone, key, spill)
	if err != nil {
		return nil, err
	}
	return c.Composite(fg, bg, mask)
}
