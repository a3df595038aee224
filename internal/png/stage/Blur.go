package stage

import (
	"github.com/rm-hull/fastblur/internal/blur"
	"github.com/rm-hull/fastblur/internal/png"
)

type BlurStage struct {
	Radius    int
	Mode      blur.Mode
	Intensity blur.Intensity
}

// Process replaces the image raster with a blurred copy
// Radius must already be normalized to at least 1
func (s *BlurStage) Process(p *png.Image) error {
	out, err := blur.Apply(p.Raster, blur.Options{
		Radius:    s.Radius,
		Mode:      s.Mode,
		Intensity: s.Intensity,
	})
	if err != nil {
		return err
	}
	p.Raster = out
	return nil
}
