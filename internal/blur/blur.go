// Package blur implements separable box and Gaussian blurs over raster buffers.
//
// Both filters run rows first, then columns, and extend the image at its
// borders by repeating the nearest edge sample. Every channel is filtered
// independently, alpha included.
package blur

import (
	"errors"
	"fmt"

	"github.com/rm-hull/fastblur/internal/raster"
)

// MaxRadius keeps box window sums inside int64: a 16-bit plane summed over a
// (2r+1)² window must stay below 2⁶³. Gaussian kernels are folded to the image
// extent, so neither filter's working memory grows with the radius.
const MaxRadius = 1 << 22

var ErrInvalidArgument = errors.New("invalid blur argument")

type Mode int

const (
	Box Mode = iota
	Gaussian
)

func (m Mode) String() string {
	switch m {
	case Box:
		return "box"
	case Gaussian:
		return "gaussian"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Intensity selects how many times the filter is run over the image.
type Intensity int

const (
	Single Intensity = iota
	Double
)

func (i Intensity) String() string {
	switch i {
	case Single:
		return "single"
	case Double:
		return "double"
	default:
		return fmt.Sprintf("Intensity(%d)", int(i))
	}
}

func (i Intensity) passes() int {
	if i == Double {
		return 2
	}
	return 1
}

type Options struct {
	Radius    int
	Mode      Mode
	Intensity Intensity
}

func (o Options) validate() error {
	if o.Radius < 1 || o.Radius > MaxRadius {
		return fmt.Errorf("%w: radius %d outside [1, %d]", ErrInvalidArgument, o.Radius, MaxRadius)
	}
	if o.Mode != Box && o.Mode != Gaussian {
		return fmt.Errorf("%w: unknown mode %s", ErrInvalidArgument, o.Mode)
	}
	if o.Intensity != Single && o.Intensity != Double {
		return fmt.Errorf("%w: unknown intensity %s", ErrInvalidArgument, o.Intensity)
	}
	return nil
}

// Apply blurs buf and returns the result in a new buffer; buf is left
// untouched. For a given buffer and options the output is always the same,
// however many goroutines the passes are split across.
func Apply(buf *raster.Buffer, opts Options) (*raster.Buffer, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if err := buf.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	var pass func(src, dst *raster.Buffer)
	switch opts.Mode {
	case Box:
		pass = func(src, dst *raster.Buffer) {
			boxBlur(src, dst, opts.Radius)
		}
	case Gaussian:
		kernel := gaussianKernel(opts.Radius, max(buf.Width, buf.Height)-1)
		pass = func(src, dst *raster.Buffer) {
			gaussianBlur(src, dst, kernel)
		}
	}

	out := buf
	for range opts.Intensity.passes() {
		next := &raster.Buffer{
			Width:    buf.Width,
			Height:   buf.Height,
			Channels: buf.Channels,
			BitDepth: buf.BitDepth,
			Samples:  make([]uint16, len(buf.Samples)),
		}
		pass(out, next)
		out = next
	}
	return out, nil
}

func clamp(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
