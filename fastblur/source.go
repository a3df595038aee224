package fastblur

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// Source supplies the PNG bytes to blur.
type Source interface {
	Bytes() ([]byte, error)
}

type pathSource string

func FromPath(path string) Source {
	return pathSource(path)
}

func (p pathSource) Bytes() ([]byte, error) {
	path := string(p)
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidInputKind)
	}

	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrPathNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s is not a regular file", ErrPathNotFound, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrFormat, path)
	}
	return data, nil
}

type byteSource []byte

func FromBytes(data []byte) Source {
	return byteSource(data)
}

func (b byteSource) Bytes() ([]byte, error) {
	if len(b) == 0 {
		return nil, fmt.Errorf("%w: empty buffer", ErrInvalidInputKind)
	}
	return b, nil
}

type readerSource struct {
	r io.Reader
}

// FromReader reads the whole of r when the source is used.
func FromReader(r io.Reader) Source {
	return readerSource{r: r}
}

func (s readerSource) Bytes() ([]byte, error) {
	if s.r == nil {
		return nil, fmt.Errorf("%w: nil reader", ErrInvalidInputKind)
	}
	data, err := io.ReadAll(s.r)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty buffer", ErrInvalidInputKind)
	}
	return data, nil
}

// BlurSource resolves src to bytes and blurs them with Blur.
func BlurSource(src Source, radius int, opts Options) ([]byte, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: nil source", ErrInvalidInputKind)
	}
	data, err := src.Bytes()
	if err != nil {
		return nil, err
	}
	return Blur(data, radius, opts)
}
