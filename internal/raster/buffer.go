package raster

import (
	"errors"
	"fmt"
)

var ErrMalformed = errors.New("malformed raster buffer")

// Buffer is a decoded pixel grid. Samples are stored row-major with the
// channels of each pixel interleaved, one uint16 per sample regardless of
// bit depth.
type Buffer struct {
	Width    int
	Height   int
	Channels int
	BitDepth int
	Samples  []uint16
}

func New(width, height, channels, bitDepth int) (*Buffer, error) {
	b := &Buffer{
		Width:    width,
		Height:   height,
		Channels: channels,
		BitDepth: bitDepth,
	}
	if err := b.checkShape(); err != nil {
		return nil, err
	}
	b.Samples = make([]uint16, width*height*channels)
	return b, nil
}

// Validate reports whether the buffer dimensions, channel count, bit depth and
// sample count are consistent, and that no sample exceeds the bit depth.
func (b *Buffer) Validate() error {
	if b == nil {
		return fmt.Errorf("%w: nil buffer", ErrMalformed)
	}
	if err := b.checkShape(); err != nil {
		return err
	}
	if want := b.Width * b.Height * b.Channels; len(b.Samples) != want {
		return fmt.Errorf("%w: have %d samples, want %d (%dx%dx%d)",
			ErrMalformed, len(b.Samples), want, b.Width, b.Height, b.Channels)
	}
	if b.BitDepth == 8 {
		for i, s := range b.Samples {
			if s > 0xff {
				return fmt.Errorf("%w: sample %d out of range for 8-bit depth: %d", ErrMalformed, i, s)
			}
		}
	}
	return nil
}

func (b *Buffer) checkShape() error {
	if b.Width <= 0 || b.Height <= 0 {
		return fmt.Errorf("%w: invalid dimensions %dx%d", ErrMalformed, b.Width, b.Height)
	}
	if b.Channels < 1 || b.Channels > 4 {
		return fmt.Errorf("%w: unsupported channel count %d", ErrMalformed, b.Channels)
	}
	if b.BitDepth != 8 && b.BitDepth != 16 {
		return fmt.Errorf("%w: unsupported bit depth %d", ErrMalformed, b.BitDepth)
	}
	return nil
}

// MaxValue is the largest sample value representable at the buffer's bit depth.
func (b *Buffer) MaxValue() int {
	if b.BitDepth == 16 {
		return 0xffff
	}
	return 0xff
}

// Stride is the number of samples in one row.
func (b *Buffer) Stride() int {
	return b.Width * b.Channels
}

// Offset returns the index of the first channel of pixel (x, y).
func (b *Buffer) Offset(x, y int) int {
	return y*b.Stride() + x*b.Channels
}

func (b *Buffer) String() string {
	return fmt.Sprintf("%dx%d %dch %d-bit", b.Width, b.Height, b.Channels, b.BitDepth)
}
