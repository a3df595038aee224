package blur

import (
	"github.com/anthonynsimon/bild/parallel"
	"github.com/rm-hull/fastblur/internal/raster"
)

type summable interface {
	~uint16 | ~int64
}

// windowSums writes to out[i*outStride] the sum of in[j*inStride] over the
// window j in [i-r, i+r] for every i in [0, n), with j clamped to [0, n).
// The sum is maintained as a running total so each step costs O(1).
func windowSums[T summable](in []T, out []int64, n, inStride, outStride, r int) {
	at := func(i int) int64 {
		return int64(in[clamp(i, n)*inStride])
	}

	// indices -r..0 all clamp onto the first sample
	sum := int64(r+1) * at(0)
	for i := 1; i <= r; i++ {
		if i >= n {
			sum += int64(r-i+1) * at(n-1)
			break
		}
		sum += at(i)
	}
	out[0] = sum

	for i := 1; i < n; i++ {
		sum += at(i+r) - at(i-r-1)
		out[i*outStride] = sum
	}
}

// boxBlur runs a mean filter of window 2*radius+1 along rows, then along
// columns. The row pass keeps raw window sums, so rounding happens exactly
// once per sample, after the column pass.
func boxBlur(src, dst *raster.Buffer, radius int) {
	w, h, ch := src.Width, src.Height, src.Channels
	stride := src.Stride()
	rowSums := make([]int64, len(src.Samples))

	parallel.Line(h, func(start, end int) {
		for y := start; y < end; y++ {
			row := y * stride
			for c := range ch {
				windowSums(src.Samples[row+c:], rowSums[row+c:], w, ch, ch, radius)
			}
		}
	})

	window := int64(2*radius + 1)
	area := window * window
	maxValue := int64(src.MaxValue())

	parallel.Line(w, func(start, end int) {
		colSums := make([]int64, h)
		for x := start; x < end; x++ {
			for c := range ch {
				col := x*ch + c
				windowSums(rowSums[col:], colSums, h, stride, 1, radius)
				for y, sum := range colSums {
					v := (sum + area/2) / area
					if v > maxValue {
						v = maxValue
					}
					dst.Samples[y*stride+col] = uint16(v)
				}
			}
		}
	})
}
