package png

import "errors"

// ErrTooLarge is wrapped by the FormatError returned for a header whose
// dimensions exceed MaxDimension or MaxPixels.
var ErrTooLarge = errors.New("image too large")

// FormatError reports input bytes that are not a decodable PNG stream:
// a missing signature, a malformed header, a CRC mismatch or truncated data.
type FormatError struct {
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return "png: " + e.Reason + ": " + e.Err.Error()
	}
	return "png: " + e.Reason
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// EncodeError reports a failure to produce PNG bytes from a raster buffer.
type EncodeError struct {
	Reason string
	Err    error
}

func (e *EncodeError) Error() string {
	if e.Err != nil {
		return "png: " + e.Reason + ": " + e.Err.Error()
	}
	return "png: " + e.Reason
}

func (e *EncodeError) Unwrap() error {
	return e.Err
}
