package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"net/url"
	"time"
)

// Error kinds. Every error returned by the client matches one of these with errors.Is.
var (
	// ErrUnreachable covers transport failures and non-200 responses.
	ErrUnreachable = errors.New("binance api unreachable")

	// ErrMalformedResponse covers bodies that are not JSON of the expected shape.
	ErrMalformedResponse = errors.New("malformed binance response")
)

// APIError represents a non-200 response from the Binance API.
type APIError struct {
	StatusCode int
	Code       int // Binance error code from the body, 0 if absent
	Message    string
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("binance api error %d: %s", e.StatusCode, e.Message)
}

// Unwrap lets errors.Is(err, ErrUnreachable) match API errors.
func (e *APIError) Unwrap() error {
	return ErrUnreachable
}

// IsRetryable returns true if the error should trigger a retry.
func (e *APIError) IsRetryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == 429
}

// errorBody is the JSON shape Binance uses for request errors.
type errorBody struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{
		StatusCode: status,
		Message:    http.StatusText(status),
		Body:       body,
	}

	var eb errorBody
	if json.Unmarshal(body, &eb) == nil && eb.Msg != "" {
		apiErr.Code = eb.Code
		apiErr.Message = eb.Msg
	}

	return apiErr
}

// doRequest performs an HTTP request with the given method and path.
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values) ([]byte, error) {
	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %w", ErrUnreachable, err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: do request: %w", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %w", ErrUnreachable, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, newAPIError(resp.StatusCode, body)
	}

	return body, nil
}

// doWithRetry performs a request with exponential backoff retry.
func (c *Client) doWithRetry(ctx context.Context, method, path string, query url.Values) ([]byte, error) {
	var lastErr error
	backoff := c.retryBackoff

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			jitter := retryDelay(backoff)
			c.logger.Debug("retrying request",
				"attempt", attempt,
				"backoff", jitter,
				"path", path,
			)

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(jitter):
			}

			backoff = nextBackoff(backoff)
		}

		body, err := c.doRequest(ctx, method, path, query)
		if err == nil {
			return body, nil
		}

		lastErr = err

		var apiErr *APIError
		if !errors.As(err, &apiErr) || !apiErr.IsRetryable() || c.maxRetries == 0 {
			return nil, err
		}
	}

	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}

// maxRetryBackoff caps the exponential backoff between retries.
const maxRetryBackoff = 30 * time.Second

// retryDelay adds jitter to backoff: backoff * (0.5 to 1.5). Non-positive
// backoffs retry immediately.
func retryDelay(backoff time.Duration) time.Duration {
	if backoff <= 0 {
		return 0
	}
	backoff = min(backoff, maxRetryBackoff)
	return backoff/2 + time.Duration(rand.Int64N(int64(backoff)))
}

// nextBackoff doubles backoff up to maxRetryBackoff.
func nextBackoff(backoff time.Duration) time.Duration {
	if backoff >= maxRetryBackoff/2 {
		return maxRetryBackoff
	}
	return backoff * 2
}

// get performs a GET request and decodes the JSON body into result.
func (c *Client) get(ctx context.Context, path string, query url.Values, result any) error {
	body, err := c.doWithRetry(ctx, http.MethodGet, path, query)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("%w: unmarshal response: %w", ErrMalformedResponse, err)
	}

	return nil
}
