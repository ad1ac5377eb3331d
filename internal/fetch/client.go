// Package fetch issues the demo's single HTTP GET and turns every transport
// outcome into either the response body or a fixed error label.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/tidwall/gjson"
)

// Client fetches one configured endpoint. No headers, authentication or
// retries are applied.
type Client struct {
	http *http.Client
	url  string
}

// NewClient creates a client for endpoint. A zero timeout means no client-side
// limit beyond the caller's context.
func NewClient(endpoint string, timeout time.Duration) *Client {
	return &Client{
		http: &http.Client{Timeout: timeout},
		url:  endpoint,
	}
}

// Get performs the request and returns the body of a 2xx response. Failures
// are wrapped with one of ErrTimeout, ErrCanceled, ErrNetwork or ErrUnexpected,
// or returned as a *StatusError for non-2xx responses.
func (c *Client) Get(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return "", fmt.Errorf("%w: build request: %v", ErrUnexpected, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", classify(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", &StatusError{Code: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", classify(err)
	}
	return string(body), nil
}

// Fetch performs the request and returns the body on success or the matching
// error label otherwise. It never returns an error value.
func (c *Client) Fetch(ctx context.Context) string {
	body, err := c.Get(ctx)
	fetchTotal.WithLabelValues(outcomeName(err)).Inc()
	if err != nil {
		return Label(err)
	}
	return body
}

// classify maps a transport error onto the package's failure kinds. Timeouts
// are checked first: a client timeout also cancels the request context.
func classify(err error) error {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr) && netErr.Timeout():
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("%w: %v", ErrCanceled, err)
	}

	var urlErr *url.Error
	var opErr *net.OpError
	if errors.As(err, &urlErr) || errors.As(err, &opErr) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	return fmt.Errorf("%w: %v", ErrUnexpected, err)
}

// Summary returns the "title" field of a JSON body, or "" if the body is not
// JSON or has no title.
func Summary(body string) string {
	if !gjson.Valid(body) {
		return ""
	}
	return gjson.Get(body, "title").String()
}
