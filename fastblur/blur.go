// Package fastblur blurs PNG images.
//
// Input is decoded into a raster buffer, blurred with a box or Gaussian
// filter and encoded back into a complete PNG. Calls share no state and may
// run concurrently.
package fastblur

import (
	"fmt"

	"github.com/rm-hull/fastblur/internal/png"
	"github.com/rm-hull/fastblur/internal/png/stage"
)

// Blur decodes data, blurs it with the normalized radius and returns the
// re-encoded PNG. On failure no bytes are returned and the error matches one
// of the package sentinels via errors.Is.
func Blur(data []byte, radius int, opts Options) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty buffer", ErrInvalidInputKind)
	}

	img, err := png.NewImage(data)
	if err != nil {
		return nil, translate(err)
	}

	err = img.Pipeline(&stage.BlurStage{
		Radius:    NormalizeRadius(radius),
		Mode:      opts.Mode,
		Intensity: opts.Intensity,
	})
	if err != nil {
		return nil, translate(err)
	}

	out, err := img.Encode(&png.EncodeOptions{CompressionLevel: opts.CompressionLevel})
	if err != nil {
		return nil, translate(err)
	}
	return out, nil
}
