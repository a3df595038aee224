package png

import (
	"github.com/rm-hull/fastblur/internal/raster"
)

type Image struct {
	Raster *raster.Buffer
}

type PipelineStage interface {
	Process(img *Image) error
}

func NewImage(data []byte) (*Image, error) {
	buf, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return &Image{Raster: buf}, nil
}

func (p *Image) Encode(opts *EncodeOptions) ([]byte, error) {
	return Encode(p.Raster, opts)
}

func (p *Image) Pipeline(stages ...PipelineStage) error {
	for _, stage := range stages {
		if err := stage.Process(p); err != nil {
			return err
		}
	}
	return nil
}
