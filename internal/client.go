package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rm-hull/fastblur/fastblur"
	models "github.com/rm-hull/fastblur/models/blur"
)

// HTTPClient is satisfied by *http.Client.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type BlurClient interface {
	Blur(ctx context.Context, body io.Reader, params BlurParams) (io.ReadCloser, error)
}

type BlurParams struct {
	Radius    int
	Mode      fastblur.Mode
	Intensity fastblur.Intensity
}

func (p BlurParams) query() url.Values {
	q := url.Values{}
	q.Set("radius", strconv.Itoa(p.Radius))
	q.Set("mode", p.Mode.String())
	q.Set("intensity", p.Intensity.String())
	return q
}

type BlurServiceClient struct {
	baseUrl string
	client  HTTPClient
}

func NewBlurClient(baseUrl string) BlurClient {
	return &BlurServiceClient{
		baseUrl: baseUrl,
		client:  &http.Client{},
	}
}

// Blur posts a PNG to the blur API and returns the blurred PNG body, which
// the caller must close.
func (c *BlurServiceClient) Blur(ctx context.Context, body io.Reader, params BlurParams) (io.ReadCloser, error) {
	url := fmt.Sprintf("%s/v1/blur?%s", c.baseUrl, params.query().Encode())
	log.Printf("Posting to: %s", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "image/png")
	req.Header.Set("Accept", "image/png")

	res, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to post to %s: %w", url, err)
	}

	if res.StatusCode > 299 {
		defer res.Body.Close()
		var errResp models.ErrorResponse
		if err := json.NewDecoder(res.Body).Decode(&errResp); err == nil && errResp.Kind != "" {
			return nil, fmt.Errorf("http status response from %s: %s (%s: %s)", url, res.Status, errResp.Kind, errResp.Error)
		}
		return nil, fmt.Errorf("http status response from %s: %s", url, res.Status)
	}

	return res.Body, nil
}
