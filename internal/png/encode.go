package png

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"

	"github.com/klauspost/compress/zlib"
	"github.com/rm-hull/fastblur/internal/raster"
)

// DefaultCompressionLevel favours speed over size.
const DefaultCompressionLevel = 2

type EncodeOptions struct {
	// CompressionLevel is a zlib level in [1, 9], or -2 for Huffman-only.
	// Zero selects DefaultCompressionLevel.
	CompressionLevel int
}

const (
	filterNone = iota
	filterSub
	filterUp
	filterAverage
	filterPaeth
	numFilters
)

// Encode writes buf as a non-interlaced PNG whose colour type matches the
// channel count (gray, gray+alpha, RGB, RGBA) at the buffer's bit depth.
func Encode(buf *raster.Buffer, opts *EncodeOptions) ([]byte, error) {
	if err := buf.Validate(); err != nil {
		return nil, &EncodeError{Reason: "invalid raster buffer", Err: err}
	}

	level := DefaultCompressionLevel
	if opts != nil && opts.CompressionLevel != 0 {
		level = opts.CompressionLevel
	}

	idat, err := compressRows(buf, level)
	if err != nil {
		return nil, &EncodeError{Reason: "failed to compress image data", Err: err}
	}

	ihdr := make([]byte, ihdrLength)
	binary.BigEndian.PutUint32(ihdr[0:4], uint32(buf.Width))
	binary.BigEndian.PutUint32(ihdr[4:8], uint32(buf.Height))
	ihdr[8] = byte(buf.BitDepth)
	ihdr[9] = colorTypeFor(buf.Channels)
	// compression, filter and interlace methods are all 0

	var out bytes.Buffer
	out.Grow(len(signature) + 3*12 + len(ihdr) + len(idat))
	out.Write(signature)
	writeChunk(&out, "IHDR", ihdr)
	writeChunk(&out, "IDAT", idat)
	writeChunk(&out, "IEND", nil)
	return out.Bytes(), nil
}

func writeChunk(out *bytes.Buffer, typ string, data []byte) {
	var n [4]byte
	binary.BigEndian.PutUint32(n[:], uint32(len(data)))
	out.Write(n[:])

	crc := crc32.NewIEEE()
	_, _ = crc.Write([]byte(typ))
	_, _ = crc.Write(data)

	out.WriteString(typ)
	out.Write(data)
	binary.BigEndian.PutUint32(n[:], crc.Sum32())
	out.Write(n[:])
}

// compressRows serializes each row big-endian, picks a filter per row and
// deflates the filtered stream.
func compressRows(buf *raster.Buffer, level int) ([]byte, error) {
	bytesPerSample := buf.BitDepth / 8
	bpp := buf.Channels * bytesPerSample
	rowLen := buf.Width * bpp

	var idat bytes.Buffer
	zw, err := zlib.NewWriterLevel(&idat, level)
	if err != nil {
		return nil, err
	}

	prev := make([]byte, rowLen)
	cur := make([]byte, rowLen)
	var candidates [numFilters][]byte
	for i := range candidates {
		candidates[i] = make([]byte, rowLen+1)
		candidates[i][0] = byte(i)
	}

	stride := buf.Stride()
	for y := range buf.Height {
		row := buf.Samples[y*stride : (y+1)*stride]
		if bytesPerSample == 2 {
			for i, s := range row {
				binary.BigEndian.PutUint16(cur[i*2:], s)
			}
		} else {
			for i, s := range row {
				cur[i] = byte(s)
			}
		}

		best := filterRow(cur, prev, bpp, &candidates)
		if _, err := zw.Write(best); err != nil {
			return nil, err
		}
		prev, cur = cur, prev
	}

	if err := zw.Close(); err != nil {
		return nil, err
	}
	return idat.Bytes(), nil
}

// filterRow fills every candidate with one filter applied to cur and returns
// the candidate with the smallest sum of absolute (signed) byte values.
func filterRow(cur, prev []byte, bpp int, candidates *[numFilters][]byte) []byte {
	none := candidates[filterNone][1:]
	sub := candidates[filterSub][1:]
	up := candidates[filterUp][1:]
	avg := candidates[filterAverage][1:]
	paeth := candidates[filterPaeth][1:]

	for i, c := range cur {
		var left, upLeft byte
		if i >= bpp {
			left = cur[i-bpp]
			upLeft = prev[i-bpp]
		}
		above := prev[i]

		none[i] = c
		sub[i] = c - left
		up[i] = c - above
		avg[i] = c - byte((int(left)+int(above))/2)
		paeth[i] = c - paethPredictor(left, above, upLeft)
	}

	best := filterNone
	bestScore := -1
	for f := range numFilters {
		score := 0
		for _, v := range candidates[f][1:] {
			score += abs(int(int8(v)))
		}
		if bestScore < 0 || score < bestScore {
			best, bestScore = f, score
		}
	}
	return candidates[best]
}

func paethPredictor(a, b, c byte) byte {
	p := int(a) + int(b) - int(c)
	pa := abs(p - int(a))
	pb := abs(p - int(b))
	pc := abs(p - int(c))

	if pa <= pb && pa <= pc {
		return a
	} else if pb <= pc {
		return b
	}
	return c
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
