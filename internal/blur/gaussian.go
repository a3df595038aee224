package blur

import (
	"math"

	"github.com/anthonynsimon/bild/convolution"
	"github.com/anthonynsimon/bild/parallel"
	"github.com/rm-hull/fastblur/internal/raster"
)

// sigma maps a blur radius to the Gaussian standard deviation. Half the box
// window keeps the Gaussian centre weight below the box centre weight for
// every radius, so at equal radius Gaussian mode always smooths harder.
func sigma(radius int) float64 {
	return float64(radius) + 0.5
}

// gaussianKernel returns the normalized 1-D kernel as a single-row matrix.
// The full kernel reaches ceil(3σ) taps either side of the centre, but no
// line being filtered is longer than span+1 samples: any tap at or beyond
// offset span lands on the clamped edge sample, so its weight is folded into
// the outermost tap. The result is identical under the clamped border and the
// kernel never grows past 2*span+1 taps.
func gaussianKernel(radius, span int) convolution.Matrix {
	s := sigma(radius)
	half := int(math.Ceil(3 * s))
	twoSigmaSq := 2 * s * s
	weight := func(d int) float64 {
		x := float64(d)
		return math.Exp(-(x * x) / twoSigmaSq)
	}

	taps := min(half, max(span, 0))
	k := convolution.NewKernel(2*taps+1, 1)
	for d := -taps; d <= taps; d++ {
		k.Matrix[d+taps] = weight(d)
	}

	if taps < half {
		var tail float64
		for d := taps + 1; d <= half; d++ {
			tail += weight(d)
		}
		k.Matrix[0] += tail
		if taps > 0 {
			k.Matrix[2*taps] += tail
		}
	}

	return k.Normalized()
}

// gaussianBlur convolves rows into a float plane, then convolves that plane
// along columns and rounds back to the sample range.
func gaussianBlur(src, dst *raster.Buffer, kernel convolution.Matrix) {
	w, h, ch := src.Width, src.Height, src.Channels
	stride := src.Stride()

	weights := make([]float64, kernel.MaxX())
	for i := range weights {
		weights[i] = kernel.At(i, 0)
	}
	half := len(weights) / 2
	plane := make([]float64, len(src.Samples))

	parallel.Line(h, func(start, end int) {
		padded := make([]float64, w+2*half)
		for y := start; y < end; y++ {
			row := y * stride
			for c := range ch {
				for j := range padded {
					padded[j] = float64(src.Samples[row+clamp(j-half, w)*ch+c])
				}
				for x := range w {
					var acc float64
					for k, wk := range weights {
						acc += wk * padded[x+k]
					}
					plane[row+x*ch+c] = acc
				}
			}
		}
	})

	maxValue := float64(src.MaxValue())

	parallel.Line(h, func(start, end int) {
		acc := make([]float64, stride)
		for y := start; y < end; y++ {
			clear(acc)
			for k, wk := range weights {
				sy := clamp(y+k-half, h)
				srcRow := plane[sy*stride : (sy+1)*stride]
				for i, v := range srcRow {
					acc[i] += wk * v
				}
			}
			out := dst.Samples[y*stride : (y+1)*stride]
			for i, v := range acc {
				out[i] = uint16(math.Max(0, math.Min(math.Round(v), maxValue)))
			}
		}
	})
}
