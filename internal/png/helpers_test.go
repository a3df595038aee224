package png

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/png"
	"testing"

	"github.com/klauspost/compress/zlib"
	"github.com/stretchr/testify/require"
)

type chunk struct {
	typ  string
	data []byte
}

// stdEncode produces fixture bytes with the standard library encoder.
func stdEncode(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// buildPNG assembles a PNG from raw (already filtered) scanlines, for layouts
// the standard encoder never writes: sub-byte depths, tRNS on gray/RGB and
// interlacing.
func buildPNG(t *testing.T, w, h, depth, colorType, interlace int, scanlines []byte, extra ...chunk) []byte {
	t.Helper()

	ihdr := make([]byte, ihdrLength)
	binary.BigEndian.PutUint32(ihdr[0:4], uint32(w))
	binary.BigEndian.PutUint32(ihdr[4:8], uint32(h))
	ihdr[8] = byte(depth)
	ihdr[9] = byte(colorType)
	ihdr[12] = byte(interlace)

	var z bytes.Buffer
	zw := zlib.NewWriter(&z)
	_, err := zw.Write(scanlines)
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	var out bytes.Buffer
	out.Write(signature)
	writeChunk(&out, "IHDR", ihdr)
	for _, c := range extra {
		writeChunk(&out, c.typ, c.data)
	}
	writeChunk(&out, "IDAT", z.Bytes())
	writeChunk(&out, "IEND", nil)
	return out.Bytes()
}
