package chromakey

import (
	"math"
	"runtime"
	"sync"
)

type resampleWeights struct {
	coeffs       []float32
	start        []int
	filterLength int
}

type kernelDef struct {
	interp Interpolation
	taps   int
	kernel func(float64) float64
}

type weightsKey struct {
	src    int
	dst    int
	interp Interpolation
}

var weightsCache sync.Map

var float32Pool = sync.Pool{
	New: func() any {
		buf := make([]float32, 0)
		return &buf
	},
}

var (
	rowSemOnce sync.Once
	rowSem     chan struct{}
)

func kernelForInterpolation(interp Interpolation) kernelDef {
	switch interp {
	case InterpolationBilinear:
		return kernelDef{interp: InterpolationBilinear, taps: 2, kernel: linearKernel}
	case InterpolationBicubic:
		return kernelDef{interp: InterpolationBicubic, taps: 4, kernel: cubicKernel}
	case InterpolationMitchellNetravali:
		return kernelDef{interp: InterpolationMitchellNetravali, taps: 4, kernel: mitchellNetravaliKernel}
	case InterpolationLanczos2:
		return kernelDef{interp: InterpolationLanczos2, taps: 4, kernel: lanczos2Kernel}
	case InterpolationLanczos3:
		return kernelDef{interp: InterpolationLanczos3, taps: 6, kernel: lanczos3Kernel}
	default:
		return kernelDef{interp: InterpolationNearest, taps: 2, kernel: nearestKernel}
	}
}

func resampleRGB8(src []uint8, srcW, srcH, srcStride, dstW, dstH int, def kernelDef) []uint8 {
	scaleX := float64(srcW) / float64(dstW)
	scaleY := float64(srcH) / float64(dstH)
	wx := getWeights(srcW, dstW, def, scaleX)
	wy := getWeights(srcH, dstH, def, scaleY)

	temp := getFloat32(dstW * srcH * 3)
	parallelFor(srcH, func(start, end int) {
		for y := start; y < end; y++ {
			row := src[y*srcStride:]
			outRow := temp[y*dstW*3:]
			for x := 0; x < dstW; x++ {
				s := wx.start[x]
				base := x * wx.filterLength
				var r, g, b float32
				for i := 0; i < wx.filterLength; i++ {
					xi := s + i
					if xi < 0 {
						xi = 0
					} else if xi >= srcW {
						xi = srcW - 1
					}
					off := xi * 3
					w := wx.coeffs[base+i]
					r += float32(row[off+0]) * w
					g += float32(row[off+1]) * w
					b += float32(row[off+2]) * w
				}
				outOff := x * 3
				outRow[outOff+0] = r
				outRow[outOff+1] = g
				outRow[outOff+2] = b
			}
		}
	})

	out := make([]uint8, dstW*dstH*3)
	parallelFor(dstH, func(start, end int) {
		for y := start; y < end; y++ {
			s := wy.start[y]
			base := y * wy.filterLength
			row := out[y*dstW*3:]
			for x := 0; x < dstW; x++ {
				var r, g, b float32
				for i := 0; i < wy.filterLength; i++ {
					yi := s + i
					if yi < 0 {
						yi = 0
					} else if yi >= srcH {
						yi = srcH - 1
					}
					off := (yi*dstW + x) * 3
					w := wy.coeffs[base+i]
					r += temp[off+0] * w
					g += temp[off+1] * w
					b += temp[off+2] * w
				}
				outOff := x * 3
				row[outOff+0] = clampToByte(r)
				row[outOff+1] = clampToByte(g)
				row[outOff+2] = clampToByte(b)
			}
		}
	})

	putFloat32(temp)
	return out
}

func getWeights(src, dst int, def kernelDef, scale float64) resampleWeights {
	if src <= 0 || dst <= 0 {
		return resampleWeights{}
	}
	key := weightsKey{src: src, dst: dst, interp: def.interp}
	if cached, ok := weightsCache.Load(key); ok {
		return cached.(resampleWeights)
	}
	filterLength := def.taps * int(math.Max(math.Ceil(scale), 1))
	filterFactor := math.Min(1.0/scale, 1.0)
	coeffs := make([]float32, dst*filterLength)
	start := make([]int, dst)
	for y := 0; y < dst; y++ {
		interpX := scale*(float64(y)+0.5) - 0.5
		start[y] = int(interpX) - filterLength/2 + 1
		interpX -= float64(start[y])
		base := y * filterLength
		var sum float64
		for i := 0; i < filterLength; i++ {
			in := (interpX - float64(i)) * filterFactor
			w := def.kernel(in)
			coeffs[base+i] = float32(w)
			sum += w
		}
		if sum != 0 {
			inv := float32(1.0 / sum)
			for i := 0; i < filterLength; i++ {
				coeffs[base+i] *= inv
			}
		}
	}
	weights := resampleWeights{coeffs: coeffs, start: start, filterLength: filterLength}
	weightsCache.Store(key, weights)
	return weights
}

// parallelFor splits [0, total) into contiguous row ranges sharing one process-wide semaphore,
// so concurrent resizes do not oversubscribe the CPU.
func parallelFor(total int, fn func(start, end int)) {
	if total <= 0 {
		return
	}
	rowSemOnce.Do(func() {
		rowSem = make(chan struct{}, max(runtime.GOMAXPROCS(0), 1))
	})
	workers := min(cap(rowSem), total)
	if workers <= 1 {
		fn(0, total)
		return
	}
	step := (total + workers - 1) / workers
	var wg sync.WaitGroup
	for start := 0; start < total; start += step {
		start := start
		end := min(start+step, total)
		rowSem <- struct{}{}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-rowSem }()
			fn(start, end)
		}()
	}
	wg.Wait()
}

func getFloat32(n int) []float32 {
	bufPtr := float32Pool.Get().(*[]float32)
	buf := *bufPtr
	if cap(buf) < n {
		return make([]float32, n)
	}
	return buf[:n]
}

func putFloat32(buf []float32) {
	if buf == nil {
		return
	}
	for i := range buf {
		buf[i] = 0
	}
	buf = buf[:0]
	float32Pool.Put(&buf)
}

func nearestKernel(in float64) float64 {
	if in >= -0.5 && in < 0.5 {
		return 1
	}
	return 0
}

func linearKernel(in float64) float64 {
	in = math.Abs(in)
	if in <= 1 {
		return 1 - in
	}
	return 0
}

func cubicKernel(in float64) float64 {
	in = math.Abs(in)
	if in <= 1 {
		return in*in*(1.5*in-2.5) + 1.0
	}
	if in <= 2 {
		return in*(in*(2.5-0.5*in)-4.0) + 2.0
	}
	return 0
}

func mitchellNetravaliKernel(in float64) float64 {
	in = math.Abs(in)
	if in <= 1 {
		return (7.0*in*in*in - 12.0*in*in + 5.33333333333) * 0.16666666666
	}
	if in <= 2 {
		return (-2.33333333333*in*in*in + 12.0*in*in - 20.0*in + 10.6666666667) * 0.16666666666
	}
	return 0
}

func sinc(x float64) float64 {
	x = math.Abs(x) * math.Pi
	if x >= 1.220703e-4 {
		return math.Sin(x) / x
	}
	return 1
}

func lanczos2Kernel(in float64) float64 {
	if in > -2 && in < 2 {
		return sinc(in) * sinc(in*0.5)
	}
	return 0
}

func lanczos3Kernel(in float64) float64 {
	if in > -3 && in < 3 {
		return sinc(in) * sinc(in*0.3333333333333333)
	}
	return 0
}
