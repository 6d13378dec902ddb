// ABOUTME: This file classifies errors for retry decisions
// ABOUTME: Distinguishes transient fetch failures from permanent ones
package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"

	"briefcard/domain"
)

// HTTPError carries the status code of a failed page fetch so the retry
// policy can distinguish server-side failures from client errors.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// IsRetryableError determines if an extraction error should trigger a retry.
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	// A page that fetched fine but had nothing to extract will not improve
	// on a second attempt.
	if errors.Is(err, domain.ErrEmptyContent) {
		return false
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if opErr.Err != nil {
			if errno, ok := opErr.Err.(syscall.Errno); ok {
				return errno == syscall.ECONNREFUSED ||
					errno == syscall.ECONNRESET ||
					errno == syscall.ETIMEDOUT
			}
		}
		if opErr.Temporary() || opErr.Timeout() {
			return true
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout() || netErr.Temporary()
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return isRetryableHTTPStatus(httpErr.StatusCode)
	}

	return false
}

func isRetryableHTTPStatus(status int) bool {
	switch {
	case status >= 500 && status <= 599:
		return true
	case status == 408: // Request Timeout
		return true
	case status == 429: // Too Many Requests
		return true
	default:
		return false
	}
}
