package png

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

var signature = []byte("\x89PNG\r\n\x1a\n")

const (
	colorGray      = 0
	colorRGB       = 2
	colorPalette   = 3
	colorGrayAlpha = 4
	colorRGBA      = 6
)

// IHDR chunk: length, type, 13 data bytes, CRC
const ihdrLength = 13

// Decoding allocates the full raster up front, and blurring adds a working
// plane of the same size, so headers are checked against these before any
// pixel data is read.
const (
	MaxDimension = 1 << 15
	MaxPixels    = 1 << 24
)

type header struct {
	width     int
	height    int
	bitDepth  int
	colorType int
	interlace int
}

// readHeader checks the signature and reads the IHDR fields that decide the
// raster layout. Everything past IHDR is left to the image decoder.
func readHeader(data []byte) (header, error) {
	if len(data) < len(signature) || !bytes.Equal(data[:len(signature)], signature) {
		return header{}, &FormatError{Reason: "missing PNG signature"}
	}

	rest := data[len(signature):]
	if len(rest) < 8+ihdrLength {
		return header{}, &FormatError{Reason: "truncated IHDR chunk"}
	}
	if length := binary.BigEndian.Uint32(rest[0:4]); length != ihdrLength {
		return header{}, &FormatError{Reason: fmt.Sprintf("bad IHDR length %d", length)}
	}
	if typ := string(rest[4:8]); typ != "IHDR" {
		return header{}, &FormatError{Reason: fmt.Sprintf("first chunk is %q, want IHDR", typ)}
	}

	d := rest[8 : 8+ihdrLength]
	hdr := header{
		width:     int(binary.BigEndian.Uint32(d[0:4])),
		height:    int(binary.BigEndian.Uint32(d[4:8])),
		bitDepth:  int(d[8]),
		colorType: int(d[9]),
		interlace: int(d[12]),
	}

	if hdr.width <= 0 || hdr.height <= 0 {
		return header{}, &FormatError{Reason: fmt.Sprintf("invalid dimensions %dx%d", hdr.width, hdr.height)}
	}
	if hdr.width > MaxDimension || hdr.height > MaxDimension || hdr.width*hdr.height > MaxPixels {
		return header{}, &FormatError{
			Reason: fmt.Sprintf("%dx%d exceeds %d pixels or %d per side", hdr.width, hdr.height, MaxPixels, MaxDimension),
			Err:    ErrTooLarge,
		}
	}
	switch hdr.colorType {
	case colorGray, colorRGB, colorPalette, colorGrayAlpha, colorRGBA:
	default:
		return header{}, &FormatError{Reason: fmt.Sprintf("unknown colour type %d", hdr.colorType)}
	}
	return hdr, nil
}

// depth is the raster bit depth: 16-bit samples stay 16-bit, everything
// else (including palette indices) is widened to 8.
func (h header) depth() int {
	if h.bitDepth == 16 && h.colorType != colorPalette {
		return 16
	}
	return 8
}

func colorTypeFor(channels int) byte {
	switch channels {
	case 1:
		return colorGray
	case 2:
		return colorGrayAlpha
	case 3:
		return colorRGB
	default:
		return colorRGBA
	}
}
