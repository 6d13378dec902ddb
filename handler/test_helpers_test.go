// ABOUTME: Shared stubs and echo fixtures for handler tests
// ABOUTME: In-memory collaborators standing in for repositories, pipeline and gateway
package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/labstack/echo/v4"

	"briefcard/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newJSONRequest(method, target, body string) (*http.Request, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	return req, httptest.NewRecorder()
}

// stubBookmarkRepo is an in-memory bookmark repository for handler tests.
type stubBookmarkRepo struct {
	mu        sync.Mutex
	bookmarks map[string]*domain.Bookmark
	listed    []*domain.Bookmark
	stats     *domain.BookmarkStats

	createErr error
	listErr   error
	searchErr error
}

func newStubBookmarkRepo() *stubBookmarkRepo {
	return &stubBookmarkRepo{
		bookmarks: make(map[string]*domain.Bookmark),
		stats:     &domain.BookmarkStats{},
	}
}

func (s *stubBookmarkRepo) Create(ctx context.Context, bookmark *domain.Bookmark) (*domain.Bookmark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.createErr != nil {
		return nil, s.createErr
	}

	if bookmark.ID == "" {
		bookmark.ID = "bm-new"
	}
	s.bookmarks[bookmark.ID] = bookmark

	return bookmark, nil
}

func (s *stubBookmarkRepo) FindByID(ctx context.Context, id string) (*domain.Bookmark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bookmark, ok := s.bookmarks[id]
	if !ok {
		return nil, domain.ErrBookmarkNotFound
	}

	return bookmark, nil
}

func (s *stubBookmarkRepo) Update(ctx context.Context, id string, update *domain.BookmarkUpdate) (*domain.Bookmark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bookmark, ok := s.bookmarks[id]
	if !ok {
		return nil, domain.ErrBookmarkNotFound
	}

	if update.Title != nil {
		bookmark.Title = *update.Title
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

	return bookmark, nil
}

func (s *stubBookmarkRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Bookmark, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}

	return s.listed, nil
}

func (s *stubBookmarkRepo) Search(ctx context.Context, userID, query string, limit int) ([]*domain.Bookmark, error) {
	if s.searchErr != nil {
		return nil, s.searchErr
	}

	return s.listed, nil
}

func (s *stubBookmarkRepo) Stats(ctx context.Context, userID string) (*domain.BookmarkStats, error) {
	return s.stats, nil
}

// stubFolderRepo is an in-memory folder repository for handler tests.
type stubFolderRepo struct {
	folders   []*domain.Folder
	createErr error
}

func (s *stubFolderRepo) Create(ctx context.Context, folder *domain.Folder) (*domain.Folder, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}

	if folder.ID == "" {
		folder.ID = "folder-new"
	}
	s.folders = append(s.folders, folder)

	return folder, nil
}

func (s *stubFolderRepo) FindDefaultByUser(ctx context.Context, userID string) (*domain.Folder, error) {
	return nil, domain.ErrFolderNotFound
}

func (s *stubFolderRepo) ListByUser(ctx context.Context, userID string) ([]*domain.Folder, error) {
	return s.folders, nil
}

// stubPipeline records run requests.
type stubPipeline struct {
	mu   sync.Mutex
	runs []string
	err  error
}

func (s *stubPipeline) Run(ctx context.Context, bookmarkID string) (*domain.Bookmark, error) {
	s.mu.Lock()
	s.runs = append(s.runs, bookmarkID)
	s.mu.Unlock()

	if s.err != nil {
		return nil, s.err
	}

	return &domain.Bookmark{ID: bookmarkID, Status: domain.BookmarkStatusCompleted}, nil
}

func (s *stubPipeline) runCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.runs)
}

// stubRenderer returns a fixed card.
type stubRenderer struct{}

func (stubRenderer) Render(bookmark *domain.Bookmark) *domain.Card {
	return &domain.Card{
		AltText: "📋 " + bookmark.Title,
		Title:   bookmark.Title,
	}
}

// stubGateway records outbound messages.
type stubGateway struct {
	mu      sync.Mutex
	replies []string
	pushes  []string
	cards   []string
	pushErr error
}

func (s *stubGateway) ReplyText(ctx context.Context, replyToken, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.replies = append(s.replies, text)

	return nil
}

func (s *stubGateway) PushText(ctx context.Context, userID, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pushes = append(s.pushes, text)

	return nil
}

func (s *stubGateway) PushCard(ctx context.Context, userID string, card *domain.Card) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pushErr != nil {
		return s.pushErr
	}
	s.cards = append(s.cards, card.AltText)

	return nil
}

// stubRouter records routed events.
type stubRouter struct {
	mu        sync.Mutex
	texts     []*domain.TextMessageEvent
	postbacks []*domain.PostbackEvent
}

func (s *stubRouter) HandleTextMessage(ctx context.Context, event *domain.TextMessageEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.texts = append(s.texts, event)

	return nil
}

func (s *stubRouter) HandlePostback(ctx context.Context, event *domain.PostbackEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.postbacks = append(s.postbacks, event)

	return nil
}
