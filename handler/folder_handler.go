// ABOUTME: This file implements the folder REST API handlers
// ABOUTME: Lists and creates user folders for the edit page
package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"briefcard/domain"
	"briefcard/repository"
)

// CreateFolderRequest is the request body for folder creation.
type CreateFolderRequest struct {
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	SortOrder int    `json:"sort_order"`
	IsDefault bool   `json:"is_default"`
}

// FolderResponse is the JSON projection of a folder.
type FolderResponse struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	SortOrder int    `json:"sort_order"`
	IsDefault bool   `json:"is_default"`
	CreatedAt string `json:"created_at"`
}

// FolderHandler handles the folder REST API.
type FolderHandler struct {
	folderRepo repository.FolderRepository
	logger     *slog.Logger
}

// NewFolderHandler creates a new folder handler.
func NewFolderHandler(folderRepo repository.FolderRepository, logger *slog.Logger) *FolderHandler {
	return &FolderHandler{
		folderRepo: folderRepo,
		logger:     logger,
	}
}

// HandleList handles GET /api/v1/folders requests.
func (h *FolderHandler) HandleList(c echo.Context) error {
	ctx := c.Request().Context()

	userID := c.QueryParam("user_id")
	if userID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "user_id is required")
	}

	folders, err := h.folderRepo.ListByUser(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list folders", "user_id", userID, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list folders")
	}

	responses := make([]*FolderResponse, 0, len(folders))
	for _, folder := range folders {
		responses = append(responses, toFolderResponse(folder))
	}

	return c.JSON(http.StatusOK, map[string]any{
		"folders": responses,
		"count":   len(responses),
	})
}

// HandleCreate handles POST /api/v1/folders requests.
func (h *FolderHandler) HandleCreate(c echo.Context) error {
	ctx := c.Request().Context()

	var req CreateFolderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if req.UserID == "" || req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "user_id and name are required")
	}

	folder, err := h.folderRepo.Create(ctx, &domain.Folder{
		UserID:    req.UserID,
		Name:      req.Name,
		Color:     req.Color,
		SortOrder: req.SortOrder,
		IsDefault: req.IsDefault,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to create folder", "user_id", req.UserID, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "建立資料夾失敗")
	}

	return c.JSON(http.StatusCreated, toFolderResponse(folder))
}

func toFolderResponse(folder *domain.Folder) *FolderResponse {
	return &FolderResponse{
		ID:        folder.ID,
		UserID:    folder.UserID,
		Name:      folder.Name,
		Color:     folder.Color,
		SortOrder: folder.SortOrder,
		IsDefault: folder.IsDefault,
		CreatedAt: folder.CreatedAt.UTC().Format(time.RFC3339),
	}
}
