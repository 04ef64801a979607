package chromakey

import (
	"errors"
	"fmt"
	"image"
	"strconv"
	"strings"
)

var namedKeys = map[string]RGB{
	"green": {G: 0xFF},
	"blue":  {B: 0xFF},
	"red":   {R: 0xFF},
	"white": {R: 0xFF, G: 0xFF, B: 0xFF},
	"black": {},
}

// ParseRGB parses "#rrggbb", "rrggbb", "0xrrggbb", "r,g,b" or one of
// green, blue, red, white, black.
func ParseRGB(s string) (RGB, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedKeys[s]; ok {
		return c, nil
	}

	if strings.Contains(s, ",") {
		parts := strings.Split(s, ",")
		if len(parts) != 3 {
			return RGB{}, fmt.Errorf("%w: color %q needs three components", ErrInvalidParameter, s)
		}
		var v [3]uint8
		for i, p := range parts {
			n, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
			if err != nil {
				return RGB{}, fmt.Errorf("%w: color component %q: %v", ErrInvalidParameter, p, err)
			}
			v[i] = uint8(n)
		}
		return RGB{R: v[0], G: v[1], B: v[2]}, nil
	}

	hex := strings.TrimPrefix(strings.TrimPrefix(s, "#"), "0x")
	if len(hex) != 6 {
		return RGB{}, fmt.Errorf("%w: color %q", ErrInvalidParameter, s)
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("%w: color %q: %v", ErrInvalidParameter, s, err)
	}
	return RGB{R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n)}, nil
}

// MarshalText implements encoding.TextMarshaler.
func (c RGB) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *RGB) UnmarshalText(b []byte) error {
	v, err := ParseRGB(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// SampleKeyColor averages the colors inside rect, clipped to the frame.
// Channel means are truncated.
func SampleKeyColor(f *Frame, rect image.Rectangle) (RGB, error) {
	if !f.valid() {
		return RGB{}, fmt.Errorf("%w: malformed frame", ErrDimensionMismatch)
	}
	r := rect.Canon().Intersect(f.Bounds())
	if r.Empty() {
		return RGB{}, errors.New("sample rectangle does not overlap the frame")
	}
	var sum [3]uint64
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := f.Pix[(y*f.Width+r.Min.X)*3 : (y*f.Width+r.Max.X)*3]
		for i := 0; i < len(row); i += 3 {
			sum[0] += uint64(row[i])
			sum[1] += uint64(row[i+1])
			sum[2] += uint64(row[i+2])
		}
	}
	n := uint64(r.Dx() * r.Dy())
	return RGB{R: uint8(sum[0] / n), G: uint8(sum[1] / n), B: uint8(sum[2] / n)}, nil
}
