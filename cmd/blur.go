package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rm-hull/fastblur/fastblur"
	"github.com/rm-hull/fastblur/internal"
)

// Blur blurs the PNG at input and writes it to output, which defaults to
// <input>-blur.png next to the input. An output of "-" writes to stdout.
func Blur(input, output string, radius int, opts fastblur.Options) error {
	return blurTo(os.Stdout, input, output, radius, opts)
}

func blurTo(stdout io.Writer, input, output string, radius int, opts fastblur.Options) error {
	start := time.Now()
	data, err := fastblur.BlurSource(fastblur.FromPath(input), radius, opts)
	if err != nil {
		return err
	}
	log.Printf("Blurring %s took %d ms", input, time.Since(start).Milliseconds())

	return writeOutput(stdout, output, defaultOutput(input), data)
}

func writeOutput(stdout io.Writer, output, fallback string, data []byte) error {
	if output == "-" {
		if _, err := stdout.Write(data); err != nil {
			return fmt.Errorf("failed to write to stdout: %w", err)
		}
		return nil
	}
	if output == "" {
		output = fallback
	}
	if err := internal.WriteFileAtomic(output, data); err != nil {
		return err
	}
	log.Printf("Wrote %d bytes to %s", len(data), output)
	return nil
}

func defaultOutput(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + "-blur.png"
}
