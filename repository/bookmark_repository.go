package repository

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"briefcard/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const bookmarkColumns = `id, user_id, url, status, title, description, image_url,
	preview_image, content_markdown, summary, tags, category, folder_id, notes,
	created_at, updated_at`

// BookmarkRepository implementation.
type bookmarkRepository struct {
	db     *pgxpool.Pool
	logger *slog.Logger
}

// NewBookmarkRepository creates a new bookmark repository.
func NewBookmarkRepository(db *pgxpool.Pool, logger *slog.Logger) BookmarkRepository {
	return &bookmarkRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new bookmark. The id and timestamps are assigned here when
// absent so concurrent readers never observe a half-initialized record.
func (r *bookmarkRepository) Create(ctx context.Context, bookmark *domain.Bookmark) (*domain.Bookmark, error) {
	if r.db == nil {
		r.logger.ErrorContext(ctx, "database connection is nil")
		return nil, fmt.Errorf("failed to create bookmark: database connection is nil")
	}

	if bookmark.URL == "" {
		r.logger.ErrorContext(ctx, "bookmark URL cannot be empty")
		return nil, fmt.Errorf("bookmark URL cannot be empty")
	}

	if bookmark.ID == "" {
		bookmark.ID = uuid.New().String()
	}

	if bookmark.Status == "" {
		bookmark.Status = domain.BookmarkStatusPending
	}

	now := time.Now().UTC()
	bookmark.CreatedAt = now
	bookmark.UpdatedAt = now

	r.logger.InfoContext(ctx, "creating bookmark", "bookmark_id", bookmark.ID, "url", bookmark.URL)

	query := `
		INSERT INTO bookmarks (id, user_id, url, status, title, description, image_url,
			preview_image, content_markdown, summary, tags, category, folder_id, notes,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	_, err := r.db.Exec(ctx, query,
		bookmark.ID,
		bookmark.UserID,
		bookmark.URL,
		bookmark.Status,
		bookmark.Title,
		bookmark.Description,
		bookmark.ImageURL,
		bookmark.PreviewImage,
		bookmark.ContentMarkdown,
		bookmark.Summary,
		bookmark.Tags,
		bookmark.Category,
		bookmark.FolderID,
		bookmark.Notes,
		bookmark.CreatedAt,
		bookmark.UpdatedAt,
	)
	if err != nil {
		r.logger.ErrorContext(ctx, "failed to create bookmark", "error", err, "bookmark_id", bookmark.ID)
		return nil, fmt.Errorf("failed to create bookmark: %w", err)
	}

	r.logger.InfoContext(ctx, "bookmark created successfully", "bookmark_id", bookmark.ID)

	return bookmark, nil
}

// FindByID retrieves a bookmark by id.
func (r *bookmarkRepository) FindByID(ctx context.Context, id string) (*domain.Bookmark, error) {
	if r.db == nil {
		r.logger.ErrorContext(ctx, "database connection is nil")
		return nil, fmt.Errorf("failed to find bookmark: database connection is nil")
	}

	if id == "" {
		return nil, fmt.Errorf("bookmark id cannot be empty")
	}

	query := `SELECT ` + bookmarkColumns + ` FROM bookmarks WHERE id = $1`

	bookmark, err := scanBookmark(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.WarnContext(ctx, "bookmark not found", "bookmark_id", id)
			return nil, domain.ErrBookmarkNotFound
		}

		r.logger.ErrorContext(ctx, "failed to find bookmark", "error", err, "bookmark_id", id)

		return nil, fmt.Errorf("failed to find bookmark: %w", err)
	}

	return bookmark, nil
}

// Update applies a partial update and returns the updated record. Fields left
// nil in the update are not touched.
func (r *bookmarkRepository) Update(ctx context.Context, id string, update *domain.BookmarkUpdate) (*domain.Bookmark, error) {
	if r.db == nil {
		r.logger.ErrorContext(ctx, "database connection is nil")
		return nil, fmt.Errorf("failed to update bookmark: database connection is nil")
	}

	if id == "" {
		return nil, fmt.Errorf("bookmark id cannot be empty")
	}

	if update == nil {
		return nil, fmt.Errorf("bookmark update cannot be nil")
	}

	setClauses := []string{}
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if update.Title != nil {
		setClauses = append(setClauses, "title = "+arg(*update.Title))
	}
	if update.Description != nil {
		setClauses = append(setClauses, "description = "+arg(*update.Description))
	}
	if update.ImageURL != nil {
		setClauses = append(setClauses, "image_url = "+arg(*update.ImageURL))
	}
	if update.PreviewImage != nil {
		setClauses = append(setClauses, "preview_image = "+arg(*update.PreviewImage))
	}
	if update.ContentMarkdown != nil {
		setClauses = append(setClauses, "content_markdown = "+arg(*update.ContentMarkdown))
	}
	if update.Summary != nil {
		setClauses = append(setClauses, "summary = "+arg(*update.Summary))
	}
	if update.Category != nil {
		setClauses = append(setClauses, "category = "+arg(*update.Category))
	}
	if update.Notes != nil {
		setClauses = append(setClauses, "notes = "+arg(*update.Notes))
	}
	if update.Status != nil {
		setClauses = append(setClauses, "status = "+arg(string(*update.Status)))
	}
	if update.FolderID != nil {
		setClauses = append(setClauses, "folder_id = "+arg(*update.FolderID))
	}
	if update.Tags != nil {
		setClauses = append(setClauses, "tags = "+arg(update.Tags))
	}

	if len(setClauses) == 0 {
		return r.FindByID(ctx, id)
	}

	setClauses = append(setClauses, "updated_at = "+arg(time.Now().UTC()))

	query := fmt.Sprintf(`UPDATE bookmarks SET %s WHERE id = %s RETURNING `+bookmarkColumns,
		strings.Join(setClauses, ", "), arg(id))

	r.logger.InfoContext(ctx, "updating bookmark", "bookmark_id", id, "fields", len(setClauses))

	bookmark, err := scanBookmark(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.WarnContext(ctx, "bookmark not found for update", "bookmark_id", id)
			return nil, domain.ErrBookmarkNotFound
		}

		r.logger.ErrorContext(ctx, "failed to update bookmark", "error", err, "bookmark_id", id)

		return nil, fmt.Errorf("failed to update bookmark: %w", err)
	}

	r.logger.InfoContext(ctx, "bookmark updated successfully", "bookmark_id", id)

	return bookmark, nil
}

// ListByUser returns a page of a user's bookmarks, newest first.
func (r *bookmarkRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Bookmark, error) {
	if r.db == nil {
		r.logger.ErrorContext(ctx, "database connection is nil")
		return nil, fmt.Errorf("failed to list bookmarks: database connection is nil")
	}

	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + bookmarkColumns + `
		FROM bookmarks
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		r.logger.ErrorContext(ctx, "failed to list bookmarks", "error", err, "user_id", userID)
		return nil, fmt.Errorf("failed to list bookmarks: %w", err)
	}
	defer rows.Close()

	return collectBookmarks(rows)
}

// Search returns a user's bookmarks whose title, description or summary
// matches the query, newest first.
func (r *bookmarkRepository) Search(ctx context.Context, userID, query string, limit int) ([]*domain.Bookmark, error) {
	if r.db == nil {
		r.logger.ErrorContext(ctx, "database connection is nil")
		return nil, fmt.Errorf("failed to search bookmarks: database connection is nil")
	}

	if limit <= 0 {
		limit = 20
	}

	pattern := "%" + query + "%"
	sqlQuery := `SELECT ` + bookmarkColumns + `
		FROM bookmarks
		WHERE user_id = $1
		  AND (title ILIKE $2 OR description ILIKE $2 OR summary ILIKE $2)
		ORDER BY created_at DESC
		LIMIT $3`

	rows, err := r.db.Query(ctx, sqlQuery, userID, pattern, limit)
	if err != nil {
		r.logger.ErrorContext(ctx, "failed to search bookmarks", "error", err, "user_id", userID)
		return nil, fmt.Errorf("failed to search bookmarks: %w", err)
	}
	defer rows.Close()

	return collectBookmarks(rows)
}

// Stats aggregates a user's bookmark counts over common windows.
func (r *bookmarkRepository) Stats(ctx context.Context, userID string) (*domain.BookmarkStats, error) {
	if r.db == nil {
		r.logger.ErrorContext(ctx, "database connection is nil")
		return nil, fmt.Errorf("failed to get bookmark stats: database connection is nil")
	}

	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE created_at >= date_trunc('day', now())),
			COUNT(*) FILTER (WHERE created_at >= date_trunc('week', now())),
			COUNT(*) FILTER (WHERE created_at >= date_trunc('month', now()))
		FROM bookmarks
		WHERE user_id = $1
	`

	var stats domain.BookmarkStats
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&stats.Total,
		&stats.Today,
		&stats.ThisWeek,
		&stats.ThisMonth,
	)
	if err != nil {
		r.logger.ErrorContext(ctx, "failed to get bookmark stats", "error", err, "user_id", userID)
		return nil, fmt.Errorf("failed to get bookmark stats: %w", err)
	}

	return &stats, nil
}

func scanBookmark(row pgx.Row) (*domain.Bookmark, error) {
	var b domain.Bookmark

	err := row.Scan(
		&b.ID,
		&b.UserID,
		&b.URL,
		&b.Status,
		&b.Title,
		&b.Description,
		&b.ImageURL,
		&b.PreviewImage,
		&b.ContentMarkdown,
		&b.Summary,
		&b.Tags,
		&b.Category,
		&b.FolderID,
		&b.Notes,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &b, nil
}

func collectBookmarks(rows pgx.Rows) ([]*domain.Bookmark, error) {
	bookmarks := []*domain.Bookmark{}

	for rows.Next() {
		bookmark, err := scanBookmark(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bookmark: %w", err)
		}

		bookmarks = append(bookmarks, bookmark)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read bookmarks: %w", err)
	}

	return bookmarks, nil
}
