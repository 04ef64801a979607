package chromakey

import (
	"fmt"
	"math"
)

type distanceFunc func(r, g, b uint8, key RGB) float32

func distanceFor(metric DistanceMetric) (distanceFunc, error) {
	switch metric {
	case MetricEuclidean:
		return euclideanDistance, nil
	case MetricRedmean:
		return redmeanDistance, nil
	default:
		return nil, fmt.Errorf("%w: unknown distance metric %d", ErrInvalidParameter, int(metric))
	}
}

func euclideanDistance(r, g, b uint8, key RGB) float32 {
	dr := int(r) - int(key.R)
	dg := int(g) - int(key.G)
	db := int(b) - int(key.B)
	return float32(math.Sqrt(float64(dr*dr + dg*dg + db*db)))
}

func redmeanDistance(r, g, b uint8, key RGB) float32 {
	rm := (float64(r) + float64(key.R)) / 2
	dr := float64(int(r) - int(key.R))
	dg := float64(int(g) - int(key.G))
	db := float64(int(b) - int(key.B))
	return float32(math.Sqrt((2+rm/256)*dr*dr + 4*dg*dg + (2+(255-rm)/256)*db*db))
}

// ColorDistance returns the distance between two colors under the given metric.
func ColorDistance(a, b RGB, metric DistanceMetric) (float32, error) {
	dist, err := distanceFor(metric)
	if err != nil {
		return 0, err
	}
	return dist(a.R, a.G, a.B, b), nil
}

func validateKeyRange(tolerance, softness float32) error {
	if !finite(tolerance) || tolerance < 0 {
		return fmt.Errorf("%w: tolerance %v", ErrInvalidParameter, tolerance)
	}
	if !finite(softness) || softness < 0 {
		return fmt.Errorf("%w: softness %v", ErrInvalidParameter, softness)
	}
	return nil
}

// opacity maps a key distance to foreground opacity.
// Both band edges are inclusive: d <= tolerance is background, d >= tolerance+softness is foreground.
func opacity(d, tolerance, softness float32) float32 {
	if d <= tolerance {
		return 0
	}
	if d >= tolerance+softness {
		return 1
	}
	return clamp01((d - tolerance) / softness)
}

// ComputeMask builds the alpha mask of a foreground frame against the key color.
//
// Pixels within tolerance of the key get 0, pixels at or beyond tolerance+softness get 1
// and the band in between is interpolated linearly. Zero softness gives a binary mask.
func ComputeMask(frame *Frame, key RGB, tolerance, softness float32, metric DistanceMetric) (*AlphaMask, error) {
	if !frame.valid() {
		return nil, fmt.Errorf("%w: malformed foreground frame", ErrDimensionMismatch)
	}
	if err := validateKeyRange(tolerance, softness); err != nil {
		return nil, err
	}
	dist, err := distanceFor(metric)
	if err != nil {
		return nil, err
	}
	return computeMask(frame, key, tolerance, softness, dist), nil
}

func computeMask(frame *Frame, key RGB, tolerance, softness float32, dist distanceFunc) *AlphaMask {
	m := NewAlphaMask(frame.Width, frame.Height)
	pix := frame.Pix
	for i := range m.Alpha {
		off := i * 3
		m.Alpha[i] = opacity(dist(pix[off], pix[off+1], pix[off+2], key), tolerance, softness)
	}
	return m
}
