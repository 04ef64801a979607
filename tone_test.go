package chromakey

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToneAdjustment_identity(t *testing.T) {
	f := NewFrame(256, 1)
	for x := 0; x < 256; x++ {
		f.SetRGB(x, 0, RGB{R: uint8(x), G: uint8(255 - x), B: uint8(x / 2)})
	}

	for _, tone := range []ToneAdjustment{IdentityTone(), {Contrast: 1, Gamma: 1}} {
		assert.True(t, tone.IsIdentity())
		out, err := tone.Apply(f)
		require.NoError(t, err)
		assert.Equal(t, f.Pix, out.Pix)
	}
}

func TestToneAdjustment_Value(t *testing.T) {
	tone := ToneAdjustment{Brightness: 10, Contrast: 2}
	assert.Equal(t, float32(255), tone.Value(200)) // 72*2+128+10 saturates
	assert.Equal(t, float32(0), tone.Value(20))    // -108*2+128+10 saturates
	assert.Equal(t, float32(138), tone.Value(128))

	tone = ToneAdjustment{Brightness: -20, Contrast: 0.5}
	assert.Equal(t, float32(94), tone.Value(100))

	tone = ToneAdjustment{Contrast: 1, Gamma: 2}
	assert.InDelta(t, 255*math.Sqrt(64.0/255), tone.Value(64), 1e-3)
	assert.Equal(t, float32(0), tone.Value(0))
	assert.Equal(t, float32(255), tone.Value(255))
}

func TestToneAdjustment_gammaAfterLinear(t *testing.T) {
	tone := ToneAdjustment{Brightness: 50, Contrast: 1, Gamma: 2}

	// Linear first: 0 -> 50, then gamma lifts it to ~112.9.
	// The opposite order would give 0 -> 0 -> 50.
	assert.InDelta(t, 255*math.Sqrt(50.0/255), tone.Value(0), 1e-3)
}

func TestToneAdjustment_Validate(t *testing.T) {
	assert.NoError(t, ToneAdjustment{Contrast: 0}.Validate())
	assert.NoError(t, ToneAdjustment{Contrast: 1, Gamma: 0.4}.Validate())

	for _, tone := range []ToneAdjustment{
		{Contrast: -1},
		{Contrast: 1, Gamma: -2},
		{Contrast: float32(math.Inf(1))},
		{Contrast: 1, Brightness: float32(math.NaN())},
		{Contrast: 1, Gamma: float32(math.NaN())},
	} {
		assert.ErrorIs(t, tone.Validate(), ErrInvalidParameter, "%+v", tone)
	}

	_, err := ToneAdjustment{Contrast: -1}.Apply(solidFrame(1, 1, RGB{}))
	assert.ErrorIs(t, err, ErrInvalidParameter)
}
