package interactions

import (
	"time"

	"github.com/DHEENA0007/notsharing/internal/notes"
)

// Bookmark and Download are per-(note, user) facts. The composite unique
// index is the source of truth for idempotency — concurrent duplicates fail
// at the constraint, never at an application-level existence check.

type Bookmark struct {
	ID     uint64 `gorm:"primaryKey"`
	NoteID uint64 `gorm:"not null;uniqueIndex:uq_bookmarks_note_user"`
	UserID uint64 `gorm:"not null;index;uniqueIndex:uq_bookmarks_note_user"`

	Note notes.Note `gorm:"foreignKey:NoteID"`

	CreatedAt time.Time `gorm:"not null"`
}

// Download records that a user fetched a note at least once. Monotonic: the
// row is created on the first download and never deleted, no matter how many
// times the file is re-fetched.
type Download struct {
	ID     uint64 `gorm:"primaryKey"`
	NoteID uint64 `gorm:"not null;uniqueIndex:uq_downloads_note_user"`
	UserID uint64 `gorm:"not null;index;uniqueIndex:uq_downloads_note_user"`

	Note notes.Note `gorm:"foreignKey:NoteID"`

	DownloadedAt time.Time `gorm:"not null;autoCreateTime"`
}
