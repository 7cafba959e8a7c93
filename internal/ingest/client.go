package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

func NewHTTPClient(timeout time.Duration) HTTPClient {
	return &http.Client{Timeout: timeout}
}

// statusError is a non-2xx answer from a remote source.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string { return fmt.Sprintf("non-2xx: %d body=%s", e.code, e.body) }

// retryable reports whether another attempt may succeed. Client errors
// other than 429 are final.
func retryable(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.code == http.StatusTooManyRequests || se.code >= 500
	}
	return true
}

func fetch(ctx context.Context, c HTTPClient, url string) ([]byte, error) {
	if url == "" {
		return nil, eris.New("ingest: empty url")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, eris.Wrap(err, "ingest: build request")
	}
	resp, err := c.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "ingest: fetch")
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &statusError{code: resp.StatusCode, body: string(b)}
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "ingest: read body")
	}
	return b, nil
}
