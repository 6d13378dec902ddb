package repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"briefcard/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// FolderRepository implementation.
type folderRepository struct {
	db     *pgxpool.Pool
	logger *slog.Logger
}

// NewFolderRepository creates a new folder repository.
func NewFolderRepository(db *pgxpool.Pool, logger *slog.Logger) FolderRepository {
	return &folderRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new folder.
func (r *folderRepository) Create(ctx context.Context, folder *domain.Folder) (*domain.Folder, error) {
	if r.db == nil {
		r.logger.ErrorContext(ctx, "database connection is nil")
		return nil, fmt.Errorf("failed to create folder: database connection is nil")
	}

	if folder.UserID == "" {
		return nil, fmt.Errorf("folder user id cannot be empty")
	}

	if folder.Name == "" {
		return nil, fmt.Errorf("folder name cannot be empty")
	}

	if folder.ID == "" {
		folder.ID = uuid.New().String()
	}

	folder.CreatedAt = time.Now().UTC()

	r.logger.InfoContext(ctx, "creating folder",
		"folder_id", folder.ID,
		"user_id", folder.UserID,
		"is_default", folder.IsDefault)

	query := `
		INSERT INTO folders (id, user_id, name, color, is_default, sort_order, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		folder.ID,
		folder.UserID,
		folder.Name,
		folder.Color,
		folder.IsDefault,
		folder.SortOrder,
		folder.CreatedAt,
	)
	if err != nil {
		r.logger.ErrorContext(ctx, "failed to create folder", "error", err, "folder_id", folder.ID)
		return nil, fmt.Errorf("failed to create folder: %w", err)
	}

	r.logger.InfoContext(ctx, "folder created successfully", "folder_id", folder.ID)

	return folder, nil
}

// FindDefaultByUser returns the user's default folder, or ErrFolderNotFound
// when the user has none.
func (r *folderRepository) FindDefaultByUser(ctx context.Context, userID string) (*domain.Folder, error) {
	if r.db == nil {
		r.logger.ErrorContext(ctx, "database connection is nil")
		return nil, fmt.Errorf("failed to find default folder: database connection is nil")
	}

	if userID == "" {
		return nil, fmt.Errorf("user id cannot be empty")
	}

	query := `
		SELECT id, user_id, name, color, is_default, sort_order, created_at
		FROM folders
		WHERE user_id = $1 AND is_default = TRUE
		ORDER BY created_at ASC
		LIMIT 1
	`

	var f domain.Folder
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&f.ID,
		&f.UserID,
		&f.Name,
		&f.Color,
		&f.IsDefault,
		&f.SortOrder,
		&f.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrFolderNotFound
		}

		r.logger.ErrorContext(ctx, "failed to find default folder", "error", err, "user_id", userID)

		return nil, fmt.Errorf("failed to find default folder: %w", err)
	}

	return &f, nil
}

// ListByUser returns all of a user's folders in sort order.
func (r *folderRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Folder, error) {
	if r.db == nil {
		r.logger.ErrorContext(ctx, "database connection is nil")
		return nil, fmt.Errorf("failed to list folders: database connection is nil")
	}

	query := `
		SELECT id, user_id, name, color, is_default, sort_order, created_at
		FROM folders
		WHERE user_id = $1
		ORDER BY sort_order ASC, created_at ASC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.logger.ErrorContext(ctx, "failed to list folders", "error", err, "user_id", userID)
		return nil, fmt.Errorf("failed to list folders: %w", err)
	}
	defer rows.Close()

	folders := []*domain.Folder{}

	for rows.Next() {
		var f domain.Folder
		if err := rows.Scan(&f.ID, &f.UserID, &f.Name, &f.Color, &f.IsDefault, &f.SortOrder, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan folder: %w", err)
		}

		folders = append(folders, &f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read folders: %w", err)
	}

	return folders, nil
}
