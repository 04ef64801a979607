package chromakey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResizeFrame_uniformColor(t *testing.T) {
	c := RGB{R: 17, G: 200, B: 93}
	src := solidFrame(13, 9, c)

	for _, interp := range []Interpolation{
		InterpolationNearest,
		InterpolationBilinear,
		InterpolationBicubic,
		InterpolationMitchellNetravali,
		InterpolationLanczos2,
		InterpolationLanczos3,
	} {
		for _, dims := range [][2]int{{26, 18}, {5, 4}, {13, 30}, {1, 1}} {
			out, err := ResizeFrame(src, dims[0], dims[1], interp)
			require.NoError(t, err)
			assert.Equal(t, dims[0], out.Width)
			assert.Equal(t, dims[1], out.Height)
			require.Len(t, out.Pix, dims[0]*dims[1]*3)
			assert.Equal(t, solidFrame(dims[0], dims[1], c).Pix, out.Pix, "interp %d to %v", interp, dims)
		}
	}
}

func TestResizeFrame_sameSize(t *testing.T) {
	src := solidFrame(4, 4, RGB{R: 1})
	out, err := ResizeFrame(src, 4, 4, InterpolationLanczos3)
	require.NoError(t, err)
	assert.Same(t, src, out)
}

func TestResizeFrame_nearestPicksSourcePixels(t *testing.T) {
	src := NewFrame(2, 1)
	src.SetRGB(0, 0, RGB{R: 255})
	src.SetRGB(1, 0, RGB{B: 255})

	out, err := ResizeFrame(src, 4, 2, InterpolationNearest)
	require.NoError(t, err)
	for y := 0; y < 2; y++ {
		assert.Equal(t, RGB{R: 255}, out.RGBAt(0, y))
		assert.Equal(t, RGB{R: 255}, out.RGBAt(1, y))
		assert.Equal(t, RGB{B: 255}, out.RGBAt(2, y))
		assert.Equal(t, RGB{B: 255}, out.RGBAt(3, y))
	}
}

func TestResizeFrame_invalid(t *testing.T) {
	_, err := ResizeFrame(solidFrame(2, 2, RGB{}), 0, 2, InterpolationBilinear)
	assert.ErrorIs(t, err, ErrInvalidParameter)

	_, err = ResizeFrame(&Frame{Width: 2, Height: 2}, 4, 4, InterpolationBilinear)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestFitBackgrounds(t *testing.T) {
	frames := []*Frame{
		solidFrame(8, 6, RGB{R: 10}),
		solidFrame(4, 3, RGB{G: 20}),
		solidFrame(3, 2, RGB{B: 30}),
	}
	out, err := FitBackgrounds(frames, 3, 2, InterpolationBilinear)
	require.NoError(t, err)
	require.Len(t, out, 3)
	for i, f := range out {
		assert.Equal(t, 3, f.Width)
		assert.Equal(t, 2, f.Height)
		assert.Equal(t, frames[i].RGBAt(0, 0), f.RGBAt(1, 1))
	}
	assert.Same(t, frames[2], out[2])

	_, err = FitBackgrounds([]*Frame{frames[0], {Width: 1, Height: 1}}, 3, 2, InterpolationBilinear)
	assert.ErrorContains(t, err, "background frame 1")
}

func TestParseInterpolation(t *testing.T) {
	i, err := ParseInterpolation("Lanczos3")
	require.NoError(t, err)
	assert.Equal(t, InterpolationLanczos3, i)

	i, err = ParseInterpolation("")
	require.NoError(t, err)
	assert.Equal(t, InterpolationBilinear, i)

	_, err = ParseInterpolation("spline")
	assert.ErrorIs(t, err, ErrInvalidParameter)
}
