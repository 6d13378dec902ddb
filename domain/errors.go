// ABOUTME: Domain-level sentinel errors for the briefcard service
// ABOUTME: These errors are used with errors.Is() for error type checking
package domain

import "errors"

var (
	// ErrBookmarkNotFound indicates the requested bookmark does not exist
	ErrBookmarkNotFound = errors.New("bookmark not found")

	// ErrFolderNotFound indicates the user has no matching folder
	ErrFolderNotFound = errors.New("folder not found")

	// ErrExtractionFailed indicates page content could not be fetched or parsed
	ErrExtractionFailed = errors.New("content extraction failed")

	// ErrEmptyContent indicates the page was fetched but yielded no usable content
	ErrEmptyContent = errors.New("extracted content is empty")
)
