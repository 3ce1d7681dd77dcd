package adapters

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"speech-gateway/application/ports/outbound"
)

// StatusError is returned by the fetcher for non-2xx upstream responses,
// with the body drained so callers can classify the failure.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP request returned non-success status code: %d", e.StatusCode)
}

// TimeoutError marks transport failures caused by deadlines rather than
// upstream refusal.
type TimeoutError struct {
	Cause error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("HTTP request timed out: %v", e.Cause)
}

func (e *TimeoutError) Unwrap() error {
	return e.Cause
}

type ContentFetcher interface {
	// FetchStream performs the request and returns the response with its
	// body still open on success. The caller owns closing the body.
	FetchStream(req *http.Request) (*http.Response, error)
}

type contentFetcher struct {
	logger  outbound.LoggerPort
	timeout time.Duration
}

func NewContentFetcher(logger outbound.LoggerPort, timeout time.Duration) ContentFetcher {
	return &contentFetcher{
		logger:  logger,
		timeout: timeout,
	}
}

func (c *contentFetcher) FetchStream(req *http.Request) (*http.Response, error) {
	client := &http.Client{Timeout: c.timeout}
	res, err := client.Do(req)
	if err != nil {
		c.logger.ErrorWithFields(err, "Failed to send the HTTP request", map[string]interface{}{
			"method": req.Method,
			"URL":    req.URL.String(),
		})
		if isTimeout(err) {
			return nil, &TimeoutError{Cause: err}
		}
		return nil, err
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		bodyPayload, readErr := io.ReadAll(res.Body)
		if closeErr := res.Body.Close(); closeErr != nil {
			c.logger.Error(closeErr, "Failed to close the response body")
		}
		if readErr != nil {
			c.logger.Error(readErr, "Failed to read the error response body")
		}
		statusErr := &StatusError{StatusCode: res.StatusCode, Body: string(bodyPayload)}
		c.logger.ErrorWithFields(statusErr, "HTTP request returned non-success status code", map[string]interface{}{
			"method":  req.Method,
			"URL":     req.URL.String(),
			"status":  res.StatusCode,
			"message": statusErr.Body,
		})
		return nil, statusErr
	}

	return res, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
