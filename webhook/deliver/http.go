package deliver

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxDrain bounds how much of a response body is read before closing it
const maxDrain = 64 << 10

/* HTTP posts delivery bodies with a plain net/http client
 * The per-attempt deadline comes from the context, the client timeout is only a backstop
 */
type HTTP struct {
	client *http.Client
}

// NewHTTP creates an HTTP deliverer; a zero timeout leaves the deadline to the context
func NewHTTP(timeout time.Duration) *HTTP {
	return &HTTP{
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// NewHTTPWithClient uses the given client, e.g. one with custom transport settings
func NewHTTPWithClient(client *http.Client) *HTTP {
	return &HTTP{client: client}
}

// Deliver sends a POST request and returns the response status code
func (h *HTTP) Deliver(ctx context.Context, url string, headers map[string]string, body []byte) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("building request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	// drain so the connection can be reused
	io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrain))

	return resp.StatusCode, nil
}
