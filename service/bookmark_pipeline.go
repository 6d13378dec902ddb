// ABOUTME: This file implements the asynchronous bookmark processing pipeline
// ABOUTME: Drives a bookmark from pending through extraction and enrichment to a terminal status
package service

import (
	"context"
	"fmt"
	"log/slog"

	"briefcard/domain"
	"briefcard/repository"
	"briefcard/retry"
)

// extractionFailurePrefix marks extraction failures in the bookmark
// description so users see why a save produced no content.
const extractionFailurePrefix = "爬取失敗: "

// BookmarkPipeline implementation.
type bookmarkPipeline struct {
	bookmarkRepo repository.BookmarkRepository
	extractor    ContentExtractor
	enricher     ContentEnricher
	retrier      *retry.Retrier
	logger       *slog.Logger
}

// NewBookmarkPipeline creates the bookmark processing pipeline. The retrier
// governs extraction attempts only; enrichment is never retried because it is
// best-effort.
func NewBookmarkPipeline(
	bookmarkRepo repository.BookmarkRepository,
	extractor ContentExtractor,
	enricher ContentEnricher,
	retrier *retry.Retrier,
	logger *slog.Logger,
) BookmarkPipeline {
	return &bookmarkPipeline{
		bookmarkRepo: bookmarkRepo,
		extractor:    extractor,
		enricher:     enricher,
		retrier:      retrier,
		logger:       logger,
	}
}

// Run processes one bookmark to a terminal status. On success the returned
// bookmark is completed with extracted and enriched fields. On extraction
// failure the bookmark is marked failed with a reason in its description and
// an error is returned. A store failure during the final write leaves the
// bookmark in processing and returns an error without marking it failed.
func (p *bookmarkPipeline) Run(ctx context.Context, bookmarkID string) (bookmark *domain.Bookmark, err error) {
	p.logger.InfoContext(ctx, "starting bookmark pipeline", "bookmark_id", bookmarkID)

	// A panic anywhere below must not leave the bookmark stuck in
	// processing forever.
	defer func() {
		if r := recover(); r != nil {
			p.logger.ErrorContext(ctx, "panic in bookmark pipeline", "bookmark_id", bookmarkID, "panic", r)

			if _, markErr := p.bookmarkRepo.Update(ctx, bookmarkID, domain.StatusUpdate(domain.BookmarkStatusFailed)); markErr != nil {
				p.logger.ErrorContext(ctx, "failed to mark bookmark failed after panic", "bookmark_id", bookmarkID, "error", markErr)
			}

			bookmark = nil
			err = fmt.Errorf("bookmark pipeline panicked: %v", r)
		}
	}()

	current, err := p.bookmarkRepo.FindByID(ctx, bookmarkID)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to load bookmark", "bookmark_id", bookmarkID, "error", err)
		return nil, fmt.Errorf("failed to load bookmark %s: %w", bookmarkID, err)
	}

	if _, err := p.bookmarkRepo.Update(ctx, bookmarkID, domain.StatusUpdate(domain.BookmarkStatusProcessing)); err != nil {
		p.logger.ErrorContext(ctx, "failed to mark bookmark processing", "bookmark_id", bookmarkID, "error", err)
		return nil, fmt.Errorf("failed to mark bookmark processing: %w", err)
	}

	var extraction *ExtractionResult

	extractErr := p.retrier.Do(ctx, func() error {
		var opErr error
		extraction, opErr = p.extractor.Extract(ctx, current.URL)
		return opErr
	})
	if extractErr != nil {
		return nil, p.markExtractionFailed(ctx, bookmarkID, extractErr)
	}

	enrichment := p.enrich(ctx, bookmarkID, extraction)

	update := p.buildCompletion(extraction, enrichment)

	completed, err := p.bookmarkRepo.Update(ctx, bookmarkID, update)
	if err != nil {
		// Deliberately not marked failed: the content work succeeded and a
		// stuck processing row is diagnosable, a false failed row is not.
		p.logger.ErrorContext(ctx, "failed to persist completed bookmark", "bookmark_id", bookmarkID, "error", err)
		return nil, fmt.Errorf("failed to persist completed bookmark: %w", err)
	}

	p.logger.InfoContext(ctx, "bookmark pipeline completed",
		"bookmark_id", bookmarkID,
		"title", completed.Title,
		"category", completed.Category)

	return completed, nil
}

// markExtractionFailed records the failure reason on the bookmark and moves
// it to failed.
func (p *bookmarkPipeline) markExtractionFailed(ctx context.Context, bookmarkID string, extractErr error) error {
	p.logger.ErrorContext(ctx, "content extraction failed", "bookmark_id", bookmarkID, "error", extractErr)

	reason := extractionFailurePrefix + extractErr.Error()
	update := domain.StatusUpdate(domain.BookmarkStatusFailed)
	update.Description = &reason

	if _, err := p.bookmarkRepo.Update(ctx, bookmarkID, update); err != nil {
		p.logger.ErrorContext(ctx, "failed to mark bookmark failed", "bookmark_id", bookmarkID, "error", err)
	}

	return fmt.Errorf("extraction failed for bookmark %s: %w", bookmarkID, extractErr)
}

// enrich runs best-effort enrichment. Any failure degrades to the default
// category with no summary or tags.
func (p *bookmarkPipeline) enrich(ctx context.Context, bookmarkID string, extraction *ExtractionResult) *EnrichmentResult {
	enrichment, err := p.enricher.Enrich(ctx, extraction.Title, extraction.Content)
	if err != nil {
		p.logger.WarnContext(ctx, "enrichment failed, continuing without it", "bookmark_id", bookmarkID, "error", err)

		return &EnrichmentResult{Category: domain.DefaultCategory}
	}

	if enrichment.Category == "" {
		enrichment.Category = domain.DefaultCategory
	}

	return enrichment
}

// buildCompletion assembles the single terminal update so completion is one
// store write, not several.
func (p *bookmarkPipeline) buildCompletion(extraction *ExtractionResult, enrichment *EnrichmentResult) *domain.BookmarkUpdate {
	update := domain.StatusUpdate(domain.BookmarkStatusCompleted)
	update.Title = &extraction.Title
	update.Description = &extraction.Description
	update.ImageURL = &extraction.ImageURL
	update.PreviewImage = &extraction.ImageURL
	update.ContentMarkdown = &extraction.Content
	update.Summary = &enrichment.Summary
	update.Category = &enrichment.Category
	update.Tags = enrichment.Keywords

	return update
}
