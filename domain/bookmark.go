package domain

import (
	"time"
)

// DefaultCategory is assigned when enrichment is skipped or returns a
// category outside the known set.
const DefaultCategory = "其他"

// BookmarkStatus represents the processing lifecycle of a bookmark.
type BookmarkStatus string

const (
	BookmarkStatusPending    BookmarkStatus = "pending"
	BookmarkStatusProcessing BookmarkStatus = "processing"
	BookmarkStatusCompleted  BookmarkStatus = "completed"
	BookmarkStatusFailed     BookmarkStatus = "failed"
)

// IsTerminal returns true if the status is terminal (completed or failed).
func (s BookmarkStatus) IsTerminal() bool {
	return s == BookmarkStatusCompleted || s == BookmarkStatusFailed
}

// CanTransitionTo reports whether the lifecycle allows moving to next.
// Valid moves: pending -> processing -> {completed, failed}. A terminal
// status only moves again through an explicit new processing request.
func (s BookmarkStatus) CanTransitionTo(next BookmarkStatus) bool {
	switch s {
	case BookmarkStatusPending:
		return next == BookmarkStatusProcessing
	case BookmarkStatusProcessing:
		return next == BookmarkStatusCompleted || next == BookmarkStatusFailed
	default:
		return next == BookmarkStatusProcessing
	}
}

// Bookmark represents one saved URL and its derived content.
type Bookmark struct {
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
	FolderID        *string        `db:"folder_id"`
	ID              string         `db:"id"`
	UserID          string         `db:"user_id"`
	URL             string         `db:"url"`
	Status          BookmarkStatus `db:"status"`
	Title           string         `db:"title"`
	Description     string         `db:"description"`
	ImageURL        string         `db:"image_url"`
	PreviewImage    string         `db:"preview_image"`
	ContentMarkdown string         `db:"content_markdown"`
	Summary         string         `db:"summary"`
	Category        string         `db:"category"`
	Notes           string         `db:"notes"`
	Tags            []string       `db:"tags"`
}

// BookmarkUpdate is a partial update applied to a bookmark. Nil fields are
// left untouched by the store.
type BookmarkUpdate struct {
	Title           *string
	Description     *string
	ImageURL        *string
	PreviewImage    *string
	ContentMarkdown *string
	Summary         *string
	Category        *string
	Notes           *string
	Status          *BookmarkStatus
	FolderID        *string
	Tags            []string
}

// StatusUpdate is a convenience constructor for a status-only update.
func StatusUpdate(status BookmarkStatus) *BookmarkUpdate {
	return &BookmarkUpdate{Status: &status}
}

// BookmarkStats aggregates per-user bookmark counts.
type BookmarkStats struct {
	Total     int `json:"total"`
	Today     int `json:"today"`
	ThisWeek  int `json:"this_week"`
	ThisMonth int `json:"this_month"`
}
