package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"
)

// RetryConfig bounds the backoff applied to retriable upstream failures.
// Delay before retry k is min(InitialDelay * 2^(k-1), MaxDelay).
type RetryConfig struct {
	MaxRetries   uint64
	InitialDelay time.Duration
	MaxDelay     time.Duration
}

// DefaultRetryConfig matches the client-side policy: at most three retries
// with delays of 1s, 2s, 4s.
var DefaultRetryConfig = RetryConfig{
	MaxRetries:   3,
	InitialDelay: time.Second,
	MaxDelay:     8 * time.Second,
}

// Client is a JSON HTTP client scoped to one provider. It normalizes
// failures to AppError and retries the retriable statuses with exponential
// backoff; all other failures, including network errors, propagate on the
// first attempt.
type Client struct {
	source string
	http   *http.Client
	retry  RetryConfig
}

// NewClient builds a Client for the named provider source.
func NewClient(source string, timeout time.Duration) *Client {
	return &Client{
		source: source,
		http:   &http.Client{Timeout: timeout},
		retry:  DefaultRetryConfig,
	}
}

// WithRetry overrides the retry policy. Mainly for tests, which shrink the
// delays to keep the suite fast.
func (c *Client) WithRetry(cfg RetryConfig) *Client {
	c.retry = cfg
	return c
}

// Source returns the provider name used in normalized errors.
func (c *Client) Source() string { return c.source }

// GetJSON issues a GET and decodes the 2xx response body into out.
// out may be nil to discard the body. Returned errors are always *AppError.
func (c *Client) GetJSON(ctx context.Context, url string, headers map[string]string, out any) error {
	body, err := c.do(ctx, http.MethodGet, url, headers, nil)
	if err != nil {
		return err
	}
	return c.decode(body, out)
}

// PostJSON issues a POST with a JSON-encoded body and decodes the 2xx
// response into out. Returned errors are always *AppError.
func (c *Client) PostJSON(ctx context.Context, url string, headers map[string]string, payload, out any) error {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return &AppError{
			Code:      "ENCODE",
			Message:   fmt.Sprintf("encode request body: %v", err),
			Source:    c.source,
			Timestamp: time.Now().UTC(),
		}
	}
	body, doErr := c.do(ctx, http.MethodPost, url, headers, encoded)
	if doErr != nil {
		return doErr
	}
	return c.decode(body, out)
}

// PostForm issues a POST with an application/x-www-form-urlencoded body and
// decodes the 2xx response into out. Used by the OAuth2 token endpoint.
func (c *Client) PostForm(ctx context.Context, url string, form string, out any) error {
	headers := map[string]string{"Content-Type": "application/x-www-form-urlencoded"}
	body, err := c.doRaw(ctx, http.MethodPost, url, headers, []byte(form))
	if err != nil {
		return err
	}
	return c.decode(body, out)
}

// do wraps doRaw with a JSON content type on request bodies.
func (c *Client) do(ctx context.Context, method, url string, headers map[string]string, body []byte) ([]byte, error) {
	merged := map[string]string{}
	if body != nil {
		merged["Content-Type"] = "application/json"
	}
	for k, v := range headers {
		merged[k] = v
	}
	return c.doRaw(ctx, method, url, merged, body)
}

// doRaw performs the request under the retry policy. Only AppErrors with a
// retriable status are retried; the last error propagates once the budget is
// exhausted.
func (c *Client) doRaw(ctx context.Context, method, url string, headers map[string]string, body []byte) ([]byte, error) {
	backoff := retry.WithMaxRetries(c.retry.MaxRetries,
		retry.WithCappedDuration(c.retry.MaxDelay,
			retry.NewExponential(c.retry.InitialDelay)))

	var respBody []byte
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, reader)
		if err != nil {
			return NetworkError(c.source, err)
		}
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return NetworkError(c.source, err)
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return NetworkError(c.source, err)
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			appErr := Normalize(c.source, resp.StatusCode, data)
			if IsRetriable(resp.StatusCode) {
				return retry.RetryableError(appErr)
			}
			return appErr
		}

		respBody = data
		return nil
	})
	if err != nil {
		var appErr *AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		// Context cancellation or deadline during backoff.
		return nil, NetworkError(c.source, err)
	}
	return respBody, nil
}

// decode unmarshals body into out, normalizing decode failures.
func (c *Client) decode(body []byte, out any) error {
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &AppError{
			Code:      "DECODE",
			Message:   fmt.Sprintf("decode response body: %v", err),
			Source:    c.source,
			Timestamp: time.Now().UTC(),
		}
	}
	return nil
}
