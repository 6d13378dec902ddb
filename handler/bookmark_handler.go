// ABOUTME: This file implements the bookmark REST API handlers
// ABOUTME: Covers create, read, update, history, search, stats and card resending
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"briefcard/domain"
	"briefcard/repository"
	"briefcard/service"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100

	searchMinQueryLength = 2
)

// backgroundTimeout bounds pipeline work spawned from API requests.
const backgroundTimeout = 5 * time.Minute

// CreateBookmarkRequest is the request body for bookmark creation.
type CreateBookmarkRequest struct {
	URL    string `json:"url"`
	UserID string `json:"user_id"`
}

// UpdateBookmarkRequest is the partial-update request body. Nil fields stay
// untouched.
type UpdateBookmarkRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Notes       *string  `json:"notes"`
	Category    *string  `json:"category"`
	FolderID    *string  `json:"folder_id"`
	Tags        []string `json:"tags"`
}

// SendCardRequest is the request body for pushing an updated card.
type SendCardRequest struct {
	BookmarkID string `json:"bookmark_id"`
	UserID     string `json:"user_id"`
}

// BookmarkResponse is the JSON projection of a bookmark.
type BookmarkResponse struct {
	ID              string   `json:"id"`
	UserID          string   `json:"user_id"`
	URL             string   `json:"url"`
	Status          string   `json:"status"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	ImageURL        string   `json:"image_url"`
	PreviewImage    string   `json:"preview_image"`
	ContentMarkdown string   `json:"content_markdown"`
	Summary         string   `json:"summary"`
	Category        string   `json:"category"`
	Notes           string   `json:"notes"`
	Tags            []string `json:"tags"`
	FolderID        *string  `json:"folder_id"`
	CreatedAt       string   `json:"created_at"`
	UpdatedAt       string   `json:"updated_at"`
}

// Pagination describes one page of a listed collection.
type Pagination struct {
	CurrentPage  int  `json:"current_page"`
	TotalPages   int  `json:"total_pages"`
	TotalItems   int  `json:"total_items"`
	ItemsPerPage int  `json:"items_per_page"`
	HasNext      bool `json:"has_next"`
	HasPrev      bool `json:"has_prev"`
}

// BookmarkHandler handles the bookmark REST API.
type BookmarkHandler struct {
	bookmarkRepo repository.BookmarkRepository
	pipeline     service.BookmarkPipeline
	renderer     service.CardRenderer
	gateway      service.MessagingGateway
	logger       *slog.Logger
	// spawn runs pipeline work detached from the request.
	spawn func(fn func())
}

// NewBookmarkHandler creates a new bookmark handler.
func NewBookmarkHandler(
	bookmarkRepo repository.BookmarkRepository,
	pipeline service.BookmarkPipeline,
	renderer service.CardRenderer,
	gateway service.MessagingGateway,
	logger *slog.Logger,
) *BookmarkHandler {
	return &BookmarkHandler{
		bookmarkRepo: bookmarkRepo,
		pipeline:     pipeline,
		renderer:     renderer,
		gateway:      gateway,
		logger:       logger,
		spawn:        func(fn func()) { go fn() },
	}
}

// HandleCreate handles POST /api/v1/bookmarks requests. The bookmark is
// created immediately and content processing runs in the background.
func (h *BookmarkHandler) HandleCreate(c echo.Context) error {
	ctx := c.Request().Context()

	var req CreateBookmarkRequest
	if err := c.Bind(&req); err != nil {
		h.logger.ErrorContext(ctx, "failed to bind create request", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	parsed, err := url.Parse(req.URL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid bookmark URL")
	}

	userID := req.UserID
	if userID == "" {
		userID = "anonymous"
	}

	bookmark, err := h.bookmarkRepo.Create(ctx, &domain.Bookmark{
		UserID: userID,
		URL:    req.URL,
		Status: domain.BookmarkStatusPending,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to create bookmark", "url", req.URL, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "建立書籤失敗")
	}

	h.spawn(func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), backgroundTimeout)
		defer cancel()

		if _, err := h.pipeline.Run(bgCtx, bookmark.ID); err != nil {
			h.logger.Error("background bookmark processing failed", "bookmark_id", bookmark.ID, "error", err)
		}
	})

	return c.JSON(http.StatusCreated, toBookmarkResponse(bookmark))
}

// HandleGet handles GET /api/v1/bookmarks/:id requests.
func (h *BookmarkHandler) HandleGet(c echo.Context) error {
	ctx := c.Request().Context()

	bookmark, err := h.bookmarkRepo.FindByID(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrBookmarkNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "書籤不存在")
		}

		h.logger.ErrorContext(ctx, "failed to load bookmark", "bookmark_id", c.Param("id"), "error", err)

		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load bookmark")
	}

	return c.JSON(http.StatusOK, toBookmarkResponse(bookmark))
}

// HandleUpdate handles PATCH /api/v1/bookmarks/:id requests.
func (h *BookmarkHandler) HandleUpdate(c echo.Context) error {
	ctx := c.Request().Context()

	var req UpdateBookmarkRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	update := &domain.BookmarkUpdate{
		Title:       req.Title,
		Description: req.Description,
		Notes:       req.Notes,
		Category:    req.Category,
		FolderID:    req.FolderID,
		Tags:        req.Tags,
	}

	bookmark, err := h.bookmarkRepo.Update(ctx, c.Param("id"), update)
	if err != nil {
		if errors.Is(err, domain.ErrBookmarkNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "書籤不存在")
		}

		h.logger.ErrorContext(ctx, "failed to update bookmark", "bookmark_id", c.Param("id"), "error", err)

		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update bookmark")
	}

	return c.JSON(http.StatusOK, toBookmarkResponse(bookmark))
}

// HandleHistory handles GET /api/v1/bookmarks/history requests with
// page-based pagination.
func (h *BookmarkHandler) HandleHistory(c echo.Context) error {
	ctx := c.Request().Context()

	userID := c.QueryParam("user_id")
	if userID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "user_id is required")
	}

	page := queryInt(c, "page", 1)
	if page < 1 {
		page = 1
	}

	limit := queryInt(c, "limit", defaultPageLimit)
	if limit < 1 || limit > maxPageLimit {
		limit = defaultPageLimit
	}

	offset := (page - 1) * limit

	bookmarks, err := h.bookmarkRepo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list bookmarks", "user_id", userID, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list bookmarks")
	}

	stats, err := h.bookmarkRepo.Stats(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load bookmark stats", "user_id", userID, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load bookmark stats")
	}

	totalPages := (stats.Total + limit - 1) / limit

	return c.JSON(http.StatusOK, map[string]any{
		"bookmarks": toBookmarkResponses(bookmarks),
		"pagination": Pagination{
			CurrentPage:  page,
			TotalPages:   totalPages,
			TotalItems:   stats.Total,
			ItemsPerPage: limit,
			HasNext:      page < totalPages,
			HasPrev:      page > 1,
		},
	})
}

// HandleSearch handles GET /api/v1/bookmarks/search requests.
func (h *BookmarkHandler) HandleSearch(c echo.Context) error {
	ctx := c.Request().Context()

	userID := c.QueryParam("user_id")
	if userID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "user_id is required")
	}

	query := strings.TrimSpace(c.QueryParam("q"))
	if len([]rune(query)) < searchMinQueryLength {
		return echo.NewHTTPError(http.StatusBadRequest, "搜索關鍵字至少需要2個字符")
	}

	limit := queryInt(c, "limit", defaultPageLimit)
	if limit < 1 || limit > maxPageLimit {
		limit = defaultPageLimit
	}

	bookmarks, err := h.bookmarkRepo.Search(ctx, userID, query, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to search bookmarks", "user_id", userID, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to search bookmarks")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"query":   query,
		"results": toBookmarkResponses(bookmarks),
		"count":   len(bookmarks),
	})
}

// HandleStats handles GET /api/v1/bookmarks/stats requests.
func (h *BookmarkHandler) HandleStats(c echo.Context) error {
	ctx := c.Request().Context()

	userID := c.QueryParam("user_id")
	if userID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "user_id is required")
	}

	stats, err := h.bookmarkRepo.Stats(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load bookmark stats", "user_id", userID, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load bookmark stats")
	}

	recent, err := h.bookmarkRepo.ListByUser(ctx, userID, 5, 0)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load recent bookmarks", "user_id", userID, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load recent bookmarks")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"statistics":       stats,
		"recent_bookmarks": toBookmarkResponses(recent),
		"summary": map[string]int{
			"growth_today": stats.Today,
			"growth_week":  stats.ThisWeek,
			"growth_month": stats.ThisMonth,
			"total_saved":  stats.Total,
		},
	})
}

// HandleSendCard handles POST /api/v1/cards/send requests. The frontend
// calls this after an edit so the user gets a refreshed card in chat.
func (h *BookmarkHandler) HandleSendCard(c echo.Context) error {
	ctx := c.Request().Context()

	var req SendCardRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if req.BookmarkID == "" || req.UserID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "缺少必要參數")
	}

	bookmark, err := h.bookmarkRepo.FindByID(ctx, req.BookmarkID)
	if err != nil {
		if errors.Is(err, domain.ErrBookmarkNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "書籤不存在")
		}

		h.logger.ErrorContext(ctx, "failed to load bookmark for card send", "bookmark_id", req.BookmarkID, "error", err)

		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load bookmark")
	}

	card := h.renderer.Render(bookmark)

	if err := h.gateway.PushCard(ctx, req.UserID, card); err != nil {
		h.logger.ErrorContext(ctx, "failed to push updated card", "bookmark_id", req.BookmarkID, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to send card")
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "success", "message": "卡片已發送"})
}

func queryInt(c echo.Context, name string, fallback int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}

	return value
}

func toBookmarkResponse(bookmark *domain.Bookmark) *BookmarkResponse {
	tags := bookmark.Tags
	if tags == nil {
		tags = []string{}
	}

	return &BookmarkResponse{
		ID:              bookmark.ID,
		UserID:          bookmark.UserID,
		URL:             bookmark.URL,
		Status:          string(bookmark.Status),
		Title:           bookmark.Title,
		Description:     bookmark.Description,
		ImageURL:        bookmark.ImageURL,
		PreviewImage:    bookmark.PreviewImage,
		ContentMarkdown: bookmark.ContentMarkdown,
		Summary:         bookmark.Summary,
		Category:        bookmark.Category,
		Notes:           bookmark.Notes,
		Tags:            tags,
		FolderID:        bookmark.FolderID,
		CreatedAt:       bookmark.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:       bookmark.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func toBookmarkResponses(bookmarks []*domain.Bookmark) []*BookmarkResponse {
	responses := make([]*BookmarkResponse, 0, len(bookmarks))
	for _, bookmark := range bookmarks {
		responses = append(responses, toBookmarkResponse(bookmark))
	}

	return responses
}
