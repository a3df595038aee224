package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/rm-hull/fastblur/fastblur"
	"github.com/rm-hull/fastblur/internal"
)

const remoteTimeout = 2 * time.Minute

// Remote sends the PNG at input to a fastblur API server and writes the
// blurred result like Blur does.
func Remote(serverURL, input, output string, params internal.BlurParams) error {
	return remoteTo(os.Stdout, internal.NewBlurClient(serverURL), input, output, params)
}

func remoteTo(stdout io.Writer, client internal.BlurClient, input, output string, params internal.BlurParams) error {
	data, err := fastblur.FromPath(input).Bytes()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), remoteTimeout)
	defer cancel()

	start := time.Now()
	body, err := client.Blur(ctx, bytes.NewReader(data), params)
	if err != nil {
		return fmt.Errorf("failed to blur %s remotely: %w", input, err)
	}
	defer func() {
		_ = body.Close()
	}()

	out, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	log.Printf("Remote blur of %s took %d ms", input, time.Since(start).Milliseconds())

	return writeOutput(stdout, output, defaultOutput(input), out)
}
