package repository

import (
	"context"

	"briefcard/domain"
)

// BookmarkRepository handles bookmark data persistence.
type BookmarkRepository interface {
	Create(ctx context.Context, bookmark *domain.Bookmark) (*domain.Bookmark, error)
	FindByID(ctx context.Context, id string) (*domain.Bookmark, error)
	Update(ctx context.Context, id string, update *domain.BookmarkUpdate) (*domain.Bookmark, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Bookmark, error)
	Search(ctx context.Context, userID, query string, limit int) ([]*domain.Bookmark, error)
	Stats(ctx context.Context, userID string) (*domain.BookmarkStats, error)
}

// FolderRepository handles folder data persistence.
type FolderRepository interface {
	Create(ctx context.Context, folder *domain.Folder) (*domain.Folder, error)
	FindDefaultByUser(ctx context.Context, userID string) (*domain.Folder, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Folder, error)
}
