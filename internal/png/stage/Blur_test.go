package stage

import (
	"testing"

	"github.com/rm-hull/fastblur/internal/blur"
	"github.com/rm-hull/fastblur/internal/png"
	"github.com/rm-hull/fastblur/internal/raster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func spotImage(t *testing.T) *png.Image {
	t.Helper()
	buf, err := raster.New(9, 9, 1, 8)
	require.NoError(t, err)
	buf.Samples[buf.Offset(4, 4)] = 255
	return &png.Image{Raster: buf}
}

func TestBlurStage(t *testing.T) {
	t.Run("replaces the raster", func(t *testing.T) {
		img := spotImage(t)
		orig := img.Raster

		stage := &BlurStage{Radius: 1, Mode: blur.Box, Intensity: blur.Single}
		require.NoError(t, img.Pipeline(stage))

		assert.NotSame(t, orig, img.Raster)
		assert.Equal(t, uint16(255), orig.Samples[orig.Offset(4, 4)])
		assert.Equal(t, uint16(28), img.Raster.Samples[img.Raster.Offset(4, 4)])
		assert.Equal(t, uint16(28), img.Raster.Samples[img.Raster.Offset(3, 5)])
		assert.Equal(t, uint16(0), img.Raster.Samples[img.Raster.Offset(2, 4)])
	})

	t.Run("keeps the raster on error", func(t *testing.T) {
		img := spotImage(t)
		orig := img.Raster

		err := img.Pipeline(&BlurStage{Radius: 0})
		assert.ErrorIs(t, err, blur.ErrInvalidArgument)
		assert.Same(t, orig, img.Raster)
	})
}
