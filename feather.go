package chromakey

import "github.com/disintegration/imaging"

// FeatherMask softens mask edges with a Gaussian blur of the given sigma.
// Non-positive sigma returns the mask unchanged. Values are quantized to 1/255 steps.
func FeatherMask(m *AlphaMask, sigma float64) *AlphaMask {
	if sigma <= 0 || !m.valid() {
		return m
	}
	blurred := imaging.Blur(m.Gray(), sigma)
	out := NewAlphaMask(m.Width, m.Height)
	for y := 0; y < m.Height; y++ {
		row := blurred.Pix[y*blurred.Stride:]
		for x := 0; x < m.Width; x++ {
			// Gray input expands to equal R, G and B.
			out.Alpha[y*m.Width+x] = clamp01(float32(row[x*4]) / 255)
		}
	}
	return out
}
