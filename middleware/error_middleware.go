// ABOUTME: Centralized error handling middleware for Echo framework
// ABOUTME: Converts errors to consistent JSON responses and hides internal details
package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"briefcard/domain"
)

// ErrorResponse is the uniform error body every API error returns.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries the client-safe part of an error.
type ErrorDetail struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
}

const genericServerError = "An unexpected error occurred. Please try again later."

// CustomHTTPErrorHandler creates the centralized HTTP error handler for Echo.
//
// Error handling priority:
// 1. Domain sentinel errors - mapped to their natural status codes
// 2. echo.HTTPError - status preserved, 5xx messages hidden
// 3. Unknown errors - generic 500 response
func CustomHTTPErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		// Don't write to already committed responses
		if c.Response().Committed {
			return
		}

		ctx := c.Request().Context()

		var status int
		var response ErrorResponse

		var httpErr *echo.HTTPError

		switch {
		case errors.Is(err, domain.ErrBookmarkNotFound), errors.Is(err, domain.ErrFolderNotFound):
			status = http.StatusNotFound
			response = ErrorResponse{Error: ErrorDetail{
				Code:      "NOT_FOUND",
				Message:   err.Error(),
				Retryable: false,
			}}

			logger.WarnContext(ctx, "resource not found",
				"path", c.Request().URL.Path,
				"error", err)

		case errors.As(err, &httpErr):
			status = httpErr.Code

			message := "An error occurred"
			if m, ok := httpErr.Message.(string); ok {
				message = m
			}
			if status >= 500 {
				message = genericServerError
			}

			response = ErrorResponse{Error: ErrorDetail{
				Code:      "HTTP_ERROR",
				Message:   message,
				Retryable: isRetryableStatus(status),
			}}

			logger.WarnContext(ctx, "HTTP error",
				"path", c.Request().URL.Path,
				"status", status,
				"error", httpErr.Message)

		default:
			status = http.StatusInternalServerError
			response = ErrorResponse{Error: ErrorDetail{
				Code:      "INTERNAL_ERROR",
				Message:   genericServerError,
				Retryable: false,
			}}

			// Log the actual error for debugging, never expose it to clients.
			logger.ErrorContext(ctx, "unhandled error",
				"path", c.Request().URL.Path,
				"error", err)
		}

		if err := c.JSON(status, response); err != nil {
			logger.ErrorContext(ctx, "failed to send error response", "error", err)
		}
	}
}

func isRetryableStatus(status int) bool {
	switch status {
	case http.StatusTooManyRequests,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout,
		http.StatusBadGateway:
		return true
	default:
		return false
	}
}
