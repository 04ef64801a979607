package chromakey

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRGB(t *testing.T) {
	for s, want := range map[string]RGB{
		"green":       {G: 255},
		"BLUE":        {B: 255},
		"#00ff00":     {G: 255},
		"1a2B3c":      {R: 0x1a, G: 0x2b, B: 0x3c},
		"0x102030":    {R: 0x10, G: 0x20, B: 0x30},
		"12, 200, 34": {R: 12, G: 200, B: 34},
	} {
		c, err := ParseRGB(s)
		require.NoError(t, err, s)
		assert.Equal(t, want, c, s)
	}

	for _, s := range []string{"", "#12345", "1,2", "1,2,300", "#gg0000", "purple"} {
		_, err := ParseRGB(s)
		assert.ErrorIs(t, err, ErrInvalidParameter, s)
	}
}

func TestRGB_text(t *testing.T) {
	c := RGB{R: 1, G: 0xab, B: 0xff}
	assert.Equal(t, "#01abff", c.String())

	b, err := c.MarshalText()
	require.NoError(t, err)

	var back RGB
	require.NoError(t, back.UnmarshalText(b))
	assert.Equal(t, c, back)
}

func TestSampleKeyColor(t *testing.T) {
	f := NewFrame(4, 2)
	f.SetRGB(0, 0, RGB{R: 10, G: 200, B: 20})
	f.SetRGB(1, 0, RGB{R: 11, G: 201, B: 20})
	f.SetRGB(0, 1, RGB{R: 10, G: 210, B: 30})
	f.SetRGB(1, 1, RGB{R: 12, G: 210, B: 31})
	f.SetRGB(3, 1, RGB{R: 255, G: 255, B: 255})

	c, err := SampleKeyColor(f, image.Rect(0, 0, 2, 2))
	require.NoError(t, err)
	assert.Equal(t, RGB{R: 10, G: 205, B: 25}, c) // 43/4, 821/4, 101/4 truncated

	// Inverted corners are canonicalized.
	c, err = SampleKeyColor(f, image.Rect(2, 2, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, RGB{R: 10, G: 205, B: 25}, c)

	// Clipped to the frame.
	c, err = SampleKeyColor(f, image.Rect(3, 1, 100, 100))
	require.NoError(t, err)
	assert.Equal(t, RGB{R: 255, G: 255, B: 255}, c)

	_, err = SampleKeyColor(f, image.Rect(5, 5, 8, 8))
	assert.Error(t, err)

	_, err = SampleKeyColor(f, image.Rect(1, 1, 1, 2))
	assert.Error(t, err)

	_, err = SampleKeyColor(nil, image.Rect(0, 0, 1, 1))
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}
