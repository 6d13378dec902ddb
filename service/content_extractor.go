// ABOUTME: This file implements readable content extraction from web pages
// ABOUTME: Fetches HTML over HTTP and pulls out title, description, image and body text
package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"briefcard/config"
	"briefcard/domain"
	"briefcard/utils/html_parser"
)

// maxPageBytes caps how much of a page body is read. Pages larger than this
// are truncated, not rejected.
const maxPageBytes = 10 << 20

// ContentExtractor implementation.
type contentExtractor struct {
	client *http.Client
	cfg    *config.HTTPConfig
	logger *slog.Logger
}

// NewContentExtractor creates a content extractor backed by a shared HTTP
// client with the configured timeout and redirect limit.
func NewContentExtractor(cfg *config.HTTPConfig, logger *slog.Logger) ContentExtractor {
	client := &http.Client{
		Timeout: cfg.Timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= cfg.MaxRedirects {
				return fmt.Errorf("stopped after %d redirects", cfg.MaxRedirects)
			}
			return nil
		},
	}

	return &contentExtractor{
		client: client,
		cfg:    cfg,
		logger: logger,
	}
}

// Extract fetches the page and returns its readable content. The returned
// error wraps domain.ErrExtractionFailed for transport and HTTP failures and
// domain.ErrEmptyContent when the page yields no usable text.
func (e *contentExtractor) Extract(ctx context.Context, pageURL string) (*ExtractionResult, error) {
	e.logger.InfoContext(ctx, "extracting page content", "url", pageURL)

	parsed, err := url.Parse(pageURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("%w: invalid url %q", domain.ErrExtractionFailed, pageURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrExtractionFailed, err)
	}
	req.Header.Set("User-Agent", e.cfg.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := e.client.Do(req)
	if err != nil {
		e.logger.ErrorContext(ctx, "failed to fetch page", "url", pageURL, "error", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrExtractionFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		e.logger.ErrorContext(ctx, "page returned non-success status", "url", pageURL, "status", resp.StatusCode)
		return nil, fmt.Errorf("%w: %w", domain.ErrExtractionFailed,
			&HTTPError{StatusCode: resp.StatusCode, Message: resp.Status})
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", domain.ErrExtractionFailed, err)
	}

	html := string(body)

	result := &ExtractionResult{
		Title:       html_parser.ExtractTitle(html),
		Description: html_parser.ExtractDescription(html),
		ImageURL:    html_parser.ExtractImageURL(html, parsed),
		Content:     html_parser.ExtractArticleText(html, parsed),
	}

	if strings.TrimSpace(result.Content) == "" && strings.TrimSpace(result.Title) == "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrEmptyContent, pageURL)
	}

	if e.cfg.MinContentLength > 0 && len(result.Content) < e.cfg.MinContentLength {
		return nil, fmt.Errorf("%w: content below %d bytes", domain.ErrEmptyContent, e.cfg.MinContentLength)
	}

	e.logger.InfoContext(ctx, "page content extracted",
		"url", pageURL,
		"title", result.Title,
		"content_length", len(result.Content))

	return result, nil
}
