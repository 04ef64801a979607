package chromakey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuppressSpill(t *testing.T) {
	fg := solidFrame(4, 1, RGB{R: 100, G: 200, B: 80})
	m := NewAlphaMask(4, 1)
	m.Alpha = []float32{0, 0.5, 0.75, 1}

	out, err := SuppressSpill(fg, m, RGB{G: 255}, 1)
	require.NoError(t, err)

	assert.Equal(t, RGB{R: 100, G: 200, B: 80}, out.RGBAt(0, 0), "transparent pixel untouched")
	assert.Equal(t, RGB{R: 100, G: 150, B: 80}, out.RGBAt(1, 0), "half of the 100 excess removed")
	assert.Equal(t, RGB{R: 100, G: 175, B: 80}, out.RGBAt(2, 0))
	assert.Equal(t, RGB{R: 100, G: 200, B: 80}, out.RGBAt(3, 0), "opaque pixel untouched")
	assert.Equal(t, RGB{R: 100, G: 200, B: 80}, fg.RGBAt(1, 0), "input not modified")
}

func TestSuppressSpill_strengthScales(t *testing.T) {
	fg := solidFrame(1, 1, RGB{R: 100, G: 200, B: 80})
	m := solidMask(1, 1, 0.5)

	out, err := SuppressSpill(fg, m, RGB{G: 255}, 0.5)
	require.NoError(t, err)
	assert.Equal(t, RGB{R: 100, G: 175, B: 80}, out.RGBAt(0, 0))

	out, err = SuppressSpill(fg, m, RGB{G: 255}, 0)
	require.NoError(t, err)
	assert.Equal(t, fg.Pix, out.Pix)
}

func TestSuppressSpill_keyChannels(t *testing.T) {
	m := solidMask(1, 1, 0.5)

	// Gray key has no dominant channel.
	fg := solidFrame(1, 1, RGB{R: 10, G: 200, B: 30})
	out, err := SuppressSpill(fg, m, RGB{R: 128, G: 128, B: 128}, 1)
	require.NoError(t, err)
	assert.Equal(t, fg.Pix, out.Pix)

	// Cyan key suppresses green and blue down towards red.
	fg = solidFrame(1, 1, RGB{R: 50, G: 150, B: 250})
	out, err = SuppressSpill(fg, m, RGB{G: 255, B: 255}, 1)
	require.NoError(t, err)
	assert.Equal(t, RGB{R: 50, G: 100, B: 150}, out.RGBAt(0, 0))

	// Pixel without cast is unchanged.
	fg = solidFrame(1, 1, RGB{R: 200, G: 100, B: 50})
	out, err = SuppressSpill(fg, m, RGB{G: 255}, 1)
	require.NoError(t, err)
	assert.Equal(t, fg.Pix, out.Pix)
}

func TestSuppressSpill_invalid(t *testing.T) {
	_, err := SuppressSpill(solidFrame(2, 1, RGB{}), solidMask(1, 1, 0.5), RGB{G: 255}, 1)
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	_, err = SuppressSpill(solidFrame(1, 1, RGB{}), solidMask(1, 1, 0.5), RGB{G: 255}, -0.1)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}
