package png

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/rm-hull/fastblur/internal/raster"
	"golang.org/x/image/draw"
)

// pixelFunc returns the straight (non-premultiplied) colour of the pixel at
// (x, y), relative to the image origin, scaled to the raster bit depth.
type pixelFunc func(x, y int) (r, g, b, a uint16)

// Decode turns PNG bytes into a raster buffer. Palette images are expanded to
// RGB (or RGBA when the palette carries transparency), tRNS on gray and RGB
// images becomes an alpha channel, Adam7 images are de-interlaced and sub-byte
// depths are widened to 8 bits.
func Decode(data []byte) (*raster.Buffer, error) {
	hdr, err := readHeader(data)
	if err != nil {
		return nil, err
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &FormatError{Reason: "failed to decode image data", Err: err}
	}

	bounds := img.Bounds()
	if bounds.Dx() != hdr.width || bounds.Dy() != hdr.height {
		return nil, &FormatError{Reason: fmt.Sprintf("decoded %dx%d image, header says %dx%d",
			bounds.Dx(), bounds.Dy(), hdr.width, hdr.height)}
	}

	depth := hdr.depth()
	channels := channelsFor(hdr, img)
	buf, err := raster.New(hdr.width, hdr.height, channels, depth)
	if err != nil {
		return nil, &FormatError{Reason: "unsupported image layout", Err: err}
	}

	pixel := pixelReader(img, depth)
	s := buf.Samples
	i := 0
	for y := range hdr.height {
		for x := range hdr.width {
			r, g, b, a := pixel(x, y)
			switch channels {
			case 1:
				s[i] = r
			case 2:
				s[i], s[i+1] = r, a
			case 3:
				s[i], s[i+1], s[i+2] = r, g, b
			case 4:
				s[i], s[i+1], s[i+2], s[i+3] = r, g, b, a
			}
			i += channels
		}
	}
	return buf, nil
}

// channelsFor derives the raster channel count from the colour type. The
// image decoder hands back NRGBA images for gray and RGB data carrying a tRNS
// chunk, which is how transparency is detected for those types.
func channelsFor(hdr header, img image.Image) int {
	_, nrgba := img.(*image.NRGBA)
	_, nrgba64 := img.(*image.NRGBA64)
	transparent := nrgba || nrgba64

	switch hdr.colorType {
	case colorGray:
		if transparent {
			return 2
		}
		return 1
	case colorGrayAlpha:
		return 2
	case colorRGB:
		if transparent {
			return 4
		}
		return 3
	case colorPalette:
		if p, ok := img.(*image.Paletted); ok && !paletteHasAlpha(p.Palette) {
			return 3
		}
		return 4
	default:
		return 4
	}
}

func paletteHasAlpha(p color.Palette) bool {
	for _, c := range p {
		if _, _, _, a := c.RGBA(); a != 0xffff {
			return true
		}
	}
	return false
}

func pixelReader(img image.Image, depth int) pixelFunc {
	b := img.Bounds()
	switch src := img.(type) {
	case *image.Gray:
		return func(x, y int) (uint16, uint16, uint16, uint16) {
			v := uint16(src.Pix[y*src.Stride+x])
			return v, v, v, 0xff
		}

	case *image.Gray16:
		return func(x, y int) (uint16, uint16, uint16, uint16) {
			i := y*src.Stride + x*2
			v := uint16(src.Pix[i])<<8 | uint16(src.Pix[i+1])
			return v, v, v, 0xffff
		}

	case *image.NRGBA:
		return func(x, y int) (uint16, uint16, uint16, uint16) {
			p := src.Pix[y*src.Stride+x*4 : y*src.Stride+x*4+4]
			return uint16(p[0]), uint16(p[1]), uint16(p[2]), uint16(p[3])
		}

	case *image.NRGBA64:
		return func(x, y int) (uint16, uint16, uint16, uint16) {
			p := src.Pix[y*src.Stride+x*8 : y*src.Stride+x*8+8]
			return uint16(p[0])<<8 | uint16(p[1]),
				uint16(p[2])<<8 | uint16(p[3]),
				uint16(p[4])<<8 | uint16(p[5]),
				uint16(p[6])<<8 | uint16(p[7])
		}

	case *image.Paletted:
		lut := make([]color.NRGBA, len(src.Palette))
		for i, c := range src.Palette {
			lut[i] = color.NRGBAModel.Convert(c).(color.NRGBA)
		}
		return func(x, y int) (uint16, uint16, uint16, uint16) {
			idx := int(src.Pix[y*src.Stride+x])
			if idx >= len(lut) {
				return 0, 0, 0, 0xff
			}
			c := lut[idx]
			return uint16(c.R), uint16(c.G), uint16(c.B), uint16(c.A)
		}
	}

	// RGB data without tRNS arrives as premultiplied RGBA/RGBA64. Every pixel
	// is opaque there, so the conversion to straight alpha is exact.
	if depth == 16 {
		dst := image.NewNRGBA64(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
		return pixelReader(dst, depth)
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return pixelReader(dst, depth)
}
