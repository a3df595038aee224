package fastblur

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rm-hull/fastblur/internal/blur"
)

type Mode = blur.Mode

type Intensity = blur.Intensity

const (
	Box      = blur.Box
	Gaussian = blur.Gaussian

	Single = blur.Single
	Double = blur.Double
)

const MaxRadius = blur.MaxRadius

type Options struct {
	Mode      Mode
	Intensity Intensity

	// CompressionLevel is passed to the PNG encoder; zero selects its default.
	CompressionLevel int
}

// FlagMode maps the boolean blur flag onto a mode: true selects Gaussian,
// false selects Box.
func FlagMode(gaussian bool) Mode {
	if gaussian {
		return Gaussian
	}
	return Box
}

// NormalizeRadius makes a radius usable by the blur engine: negative values
// are negated and zero becomes 1.
func NormalizeRadius(radius int) int {
	if radius < 0 {
		radius = -radius
	}
	if radius == 0 {
		return 1
	}
	return radius
}

func ParseRadius(s string) (int, error) {
	radius, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: radius must be an integer, got %q", ErrArgumentType, s)
	}
	return radius, nil
}

// ParseMode accepts a mode name, or a boolean in the same sense as FlagMode.
// An empty string selects Box.
func ParseMode(s string) (Mode, error) {
	switch v := strings.ToLower(strings.TrimSpace(s)); v {
	case "", "box":
		return Box, nil
	case "gaussian":
		return Gaussian, nil
	default:
		if b, err := strconv.ParseBool(v); err == nil {
			return FlagMode(b), nil
		}
		return Box, fmt.Errorf("%w: mode must be box or gaussian, got %q", ErrArgumentType, s)
	}
}

func ParseIntensity(s string) (Intensity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "single":
		return Single, nil
	case "double":
		return Double, nil
	default:
		return Single, fmt.Errorf("%w: intensity must be single or double, got %q", ErrArgumentType, s)
	}
}
