package domain

import (
	"time"
)

// Attributes used when a default folder is created implicitly by the save
// flow. At most one default folder exists per user; the get-or-create
// operation enforces this, not the store.
const (
	DefaultFolderName      = "稍後閱讀"
	DefaultFolderColor     = "#1976D2"
	DefaultFolderSortOrder = 0
)

// Folder is a user-owned named grouping for bookmarks. A bookmark holds a
// weak reference by id; deleting a folder does not cascade.
type Folder struct {
	CreatedAt time.Time `db:"created_at"`
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Name      string    `db:"name"`
	Color     string    `db:"color"`
	SortOrder int       `db:"sort_order"`
	IsDefault bool      `db:"is_default"`
}
