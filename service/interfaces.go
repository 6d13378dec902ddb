package service

import (
	"context"

	"briefcard/domain"
)

// ContentExtractor fetches a web page and extracts its readable content.
type ContentExtractor interface {
	Extract(ctx context.Context, pageURL string) (*ExtractionResult, error)
}

// ContentEnricher produces a summary, keywords and a category for extracted
// page content. Implementations must degrade gracefully: enrichment is
// best-effort and never blocks bookmark completion.
type ContentEnricher interface {
	Enrich(ctx context.Context, title, content string) (*EnrichmentResult, error)
}

// BookmarkPipeline drives a bookmark through extraction and enrichment to a
// terminal status.
type BookmarkPipeline interface {
	Run(ctx context.Context, bookmarkID string) (*domain.Bookmark, error)
}

// CardRenderer builds a preview card from a bookmark. Rendering is pure and
// never fails; missing fields fall back to placeholders.
type CardRenderer interface {
	Render(bookmark *domain.Bookmark) *domain.Card
}

// InteractionRouter dispatches incoming messaging events to the
// appropriate flow.
type InteractionRouter interface {
	HandleTextMessage(ctx context.Context, event *domain.TextMessageEvent) error
	HandlePostback(ctx context.Context, event *domain.PostbackEvent) error
}

// MessagingGateway sends outbound messages to the chat platform. Reply
// consumes the short-lived reply token; Push reaches the user at any time.
type MessagingGateway interface {
	ReplyText(ctx context.Context, replyToken, text string) error
	PushText(ctx context.Context, userID, text string) error
	PushCard(ctx context.Context, userID string, card *domain.Card) error
}

// ExtractionResult holds the readable content pulled from a page.
type ExtractionResult struct {
	Title       string
	Description string
	ImageURL    string
	Content     string
}

// EnrichmentResult holds the AI-generated metadata for a bookmark.
type EnrichmentResult struct {
	Summary  string
	Keywords []string
	Category string
}
