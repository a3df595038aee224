package fastblur

import (
	"errors"
	"fmt"

	"github.com/rm-hull/fastblur/internal/blur"
	"github.com/rm-hull/fastblur/internal/png"
)

var (
	// ErrInvalidInputKind is returned when the source is neither a usable
	// path nor a non-empty byte buffer.
	ErrInvalidInputKind = errors.New("invalid input kind")
	ErrPathNotFound     = errors.New("path not found")
	ErrFormat           = errors.New("malformed PNG input")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrEncode           = errors.New("failed to encode PNG")

	// ErrTooLarge is returned, in place of ErrFormat, for a PNG whose header
	// declares more pixels than the decoder accepts.
	ErrTooLarge = errors.New("image too large")

	// ErrArgumentType is returned by the Parse helpers when a string argument
	// cannot be read as the expected type.
	ErrArgumentType = errors.New("argument has wrong type")
)

// translate maps codec and engine failures onto the caller-facing kinds,
// keeping the original error in the chain.
func translate(err error) error {
	var formatErr *png.FormatError
	var encodeErr *png.EncodeError

	switch {
	case errors.Is(err, png.ErrTooLarge):
		return fmt.Errorf("%w: %w", ErrTooLarge, err)
	case errors.As(err, &formatErr):
		return fmt.Errorf("%w: %w", ErrFormat, err)
	case errors.Is(err, blur.ErrInvalidArgument):
		return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	case errors.As(err, &encodeErr):
		return fmt.Errorf("%w: %w", ErrEncode, err)
	default:
		return err
	}
}

// KindOf names the kind of err for transport, e.g. in an HTTP error body.
func KindOf(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrArgumentType):
		return "ArgumentType"
	case errors.Is(err, ErrInvalidInputKind):
		return "InvalidInputKind"
	case errors.Is(err, ErrPathNotFound):
		return "PathNotFound"
	case errors.Is(err, ErrTooLarge):
		return "TooLarge"
	case errors.Is(err, ErrFormat):
		return "FormatError"
	case errors.Is(err, ErrInvalidArgument):
		return "InvalidArgument"
	case errors.Is(err, ErrEncode):
		return "EncodeError"
	default:
		return "Internal"
	}
}
