// ABOUTME: Shared hand-written stubs for service layer tests
// ABOUTME: Records calls in memory so tests can assert on interactions
package service

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"briefcard/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stubBookmarkRepo is an in-memory BookmarkRepository.
type stubBookmarkRepo struct {
	mu        sync.Mutex
	bookmarks map[string]*domain.Bookmark
	updates   []recordedUpdate

	createErr error
	findErr   error
	updateErr error
	// failUpdateAfter makes Update fail once this many updates succeeded.
	failUpdateAfter int
}

type recordedUpdate struct {
	id     string
	update *domain.BookmarkUpdate
}

func newStubBookmarkRepo() *stubBookmarkRepo {
	return &stubBookmarkRepo{bookmarks: make(map[string]*domain.Bookmark), failUpdateAfter: -1}
}

func (s *stubBookmarkRepo) Create(ctx context.Context, bookmark *domain.Bookmark) (*domain.Bookmark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.createErr != nil {
		return nil, s.createErr
	}

	if bookmark.ID == "" {
		bookmark.ID = "generated-id"
	}
	s.bookmarks[bookmark.ID] = bookmark

	return bookmark, nil
}

func (s *stubBookmarkRepo) FindByID(ctx context.Context, id string) (*domain.Bookmark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findErr != nil {
		return nil, s.findErr
	}

	bookmark, ok := s.bookmarks[id]
	if !ok {
		return nil, domain.ErrBookmarkNotFound
	}

	return bookmark, nil
}

func (s *stubBookmarkRepo) Update(ctx context.Context, id string, update *domain.BookmarkUpdate) (*domain.Bookmark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.updateErr != nil {
		return nil, s.updateErr
	}
	if s.failUpdateAfter >= 0 && len(s.updates) >= s.failUpdateAfter {
		return nil, domain.ErrBookmarkNotFound
	}

	s.updates = append(s.updates, recordedUpdate{id: id, update: update})

	bookmark, ok := s.bookmarks[id]
	if !ok {
		return nil, domain.ErrBookmarkNotFound
	}

	applyUpdate(bookmark, update)

	return bookmark, nil
}

func applyUpdate(bookmark *domain.Bookmark, update *domain.BookmarkUpdate) {
	if update.Status != nil {
		bookmark.Status = *update.Status
	}
	if update.Title != nil {
		bookmark.Title = *update.Title
	}
	if update.Description != nil {
		bookmark.Description = *update.Description
	}
	if update.ImageURL != nil {
		bookmark.ImageURL = *update.ImageURL
	}
	if update.PreviewImage != nil {
		bookmark.PreviewImage = *update.PreviewImage
	}
	if update.ContentMarkdown != nil {
		bookmark.ContentMarkdown = *update.ContentMarkdown
	}
	if update.Summary != nil {
		bookmark.Summary = *update.Summary
	}
	if update.Category != nil {
		bookmark.Category = *update.Category
	}
	if update.Notes != nil {
		bookmark.Notes = *update.Notes
	}
	if update.FolderID != nil {
		bookmark.FolderID = update.FolderID
	}
	if update.Tags != nil {
		bookmark.Tags = update.Tags
	}
}

func (s *stubBookmarkRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Bookmark, error) {
	return nil, nil
}

func (s *stubBookmarkRepo) Search(ctx context.Context, userID, query string, limit int) ([]*domain.Bookmark, error) {
	return nil, nil
}

func (s *stubBookmarkRepo) Stats(ctx context.Context, userID string) (*domain.BookmarkStats, error) {
	return &domain.BookmarkStats{}, nil
}

func (s *stubBookmarkRepo) recordedUpdates() []recordedUpdate {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]recordedUpdate, len(s.updates))
	copy(out, s.updates)

	return out
}

// stubFolderRepo is an in-memory FolderRepository.
type stubFolderRepo struct {
	mu            sync.Mutex
	defaultFolder *domain.Folder
	createErr     error
	findErr       error
	created       []*domain.Folder
}

func (s *stubFolderRepo) Create(ctx context.Context, folder *domain.Folder) (*domain.Folder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.createErr != nil {
		return nil, s.createErr
	}

	if folder.ID == "" {
		folder.ID = "folder-created"
	}
	s.created = append(s.created, folder)
	s.defaultFolder = folder

	return folder, nil
}

func (s *stubFolderRepo) FindDefaultByUser(ctx context.Context, userID string) (*domain.Folder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findErr != nil {
		return nil, s.findErr
	}
	if s.defaultFolder == nil {
		return nil, domain.ErrFolderNotFound
	}

	return s.defaultFolder, nil
}

func (s *stubFolderRepo) ListByUser(ctx context.Context, userID string) ([]*domain.Folder, error) {
	return nil, nil
}

// stubExtractor returns a canned result or error, counting attempts.
type stubExtractor struct {
	mu       sync.Mutex
	result   *ExtractionResult
	err      error
	attempts int
}

func (s *stubExtractor) Extract(ctx context.Context, pageURL string) (*ExtractionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.attempts++
	if s.err != nil {
		return nil, s.err
	}

	return s.result, nil
}

// stubEnricher returns a canned result or error.
type stubEnricher struct {
	result *EnrichmentResult
	err    error
	panics bool
}

func (s *stubEnricher) Enrich(ctx context.Context, title, content string) (*EnrichmentResult, error) {
	if s.panics {
		panic("enricher exploded")
	}
	if s.err != nil {
		return nil, s.err
	}

	return s.result, nil
}

// stubPipeline satisfies BookmarkPipeline for router tests.
type stubPipeline struct {
	bookmark *domain.Bookmark
	err      error
	mu       sync.Mutex
	runs     []string
}

func (s *stubPipeline) Run(ctx context.Context, bookmarkID string) (*domain.Bookmark, error) {
	s.mu.Lock()
	s.runs = append(s.runs, bookmarkID)
	s.mu.Unlock()

	if s.err != nil {
		return nil, s.err
	}

	return s.bookmark, nil
}

// stubGateway records every outbound message.
type stubGateway struct {
	mu       sync.Mutex
	replies  []sentText
	pushes   []sentText
	cards    []sentCard
	replyErr error
	pushErr  error
}

type sentText struct {
	target string
	text   string
}

type sentCard struct {
	userID string
	card   *domain.Card
}

func (s *stubGateway) ReplyText(ctx context.Context, replyToken, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.replyErr != nil {
		return s.replyErr
	}
	s.replies = append(s.replies, sentText{target: replyToken, text: text})

	return nil
}

func (s *stubGateway) PushText(ctx context.Context, userID, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pushErr != nil {
		return s.pushErr
	}
	s.pushes = append(s.pushes, sentText{target: userID, text: text})

	return nil
}

func (s *stubGateway) PushCard(ctx context.Context, userID string, card *domain.Card) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cards = append(s.cards, sentCard{userID: userID, card: card})

	return nil
}

func (s *stubGateway) sentReplies() []sentText {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]sentText, len(s.replies))
	copy(out, s.replies)

	return out
}

func (s *stubGateway) sentPushes() []sentText {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]sentText, len(s.pushes))
	copy(out, s.pushes)

	return out
}

func (s *stubGateway) sentCards() []sentCard {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]sentCard, len(s.cards))
	copy(out, s.cards)

	return out
}
