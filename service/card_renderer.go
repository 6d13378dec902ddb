// ABOUTME: This file implements the pure bookmark-to-card projection
// ABOUTME: Applies truncation limits and fallback chains so rendering never fails
package service

import (
	"fmt"
	"strings"

	"briefcard/config"
	"briefcard/domain"
)

// Card display limits, measured in code points so CJK text truncates
// correctly.
const (
	cardTitleLimit = 60
	cardBodyLimit  = 100

	cardTitleFallback = "無標題"
	cardBodyFallback  = "📋 已保存此網頁書籤"
	cardAltFallback   = "新書籤"

	anonymousViewer = "anonymous"
)

// CardRenderer implementation.
type cardRenderer struct {
	frontendOrigin   string
	placeholderImage string
}

// NewCardRenderer creates the card renderer. Frontend origin is where the
// edit link points; the placeholder image backs bookmarks without one.
func NewCardRenderer(cfg *config.FrontendConfig) CardRenderer {
	return &cardRenderer{
		frontendOrigin:   cfg.Origin,
		placeholderImage: cfg.PlaceholderImage,
	}
}

// Render projects a bookmark into a card. It is pure: no I/O, no error, and
// the same bookmark always yields the same card.
func (r *cardRenderer) Render(bookmark *domain.Bookmark) *domain.Card {
	title := strings.TrimSpace(bookmark.Title)
	if title == "" {
		title = cardTitleFallback
	}

	body := strings.TrimSpace(bookmark.ContentMarkdown)
	if body == "" {
		body = strings.TrimSpace(bookmark.Description)
	}
	if body == "" {
		body = cardBodyFallback
	}

	image := strings.TrimSpace(bookmark.ImageURL)
	if image == "" {
		image = strings.TrimSpace(bookmark.PreviewImage)
	}
	if image == "" {
		image = r.placeholderImage
	}

	altTitle := strings.TrimSpace(bookmark.Title)
	if altTitle == "" {
		altTitle = cardAltFallback
	}

	viewer := bookmark.UserID
	if viewer == "" {
		viewer = anonymousViewer
	}

	return &domain.Card{
		AltText:  "📋 " + altTitle,
		Title:    truncate(title, cardTitleLimit),
		Body:     truncate(body, cardBodyLimit),
		ImageURL: image,
		EditURL:  fmt.Sprintf("%s?bookmarkId=%s&userId=%s", r.frontendOrigin, bookmark.ID, viewer),
		ReadOriginal: domain.CardAction{
			Label: "閱讀原文",
			URI:   bookmark.URL,
		},
		Save: domain.CardAction{
			Label: "保存書籤",
			Data:  domain.SaveActionData(bookmark.ID),
		},
	}
}

// truncate limits s to max code points, replacing the tail with "..." when
// it overflows.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}

	return string(runes[:max-3]) + "..."
}
