package notes

import (
	"time"

	"github.com/lib/pq"
)

// Note is a study document uploaded by a student. File and thumbnail are
// opaque storage refs; the service never inspects content.
//
// DownloadsCount and ViewsCount are derived counters, mutated only through
// IncrementViews / IncrementDownloads (atomic column updates, never
// read-modify-write).
type Note struct {
	ID           uint64  `gorm:"primaryKey"`
	Title        string  `gorm:"not null"`
	Description  string  `gorm:"type:text;not null"`
	FileRef      string  `gorm:"not null"`
	ThumbnailRef *string
	SubjectID    uint64  `gorm:"index;not null"`
	UploadedByID uint64  `gorm:"index;not null"`

	DownloadsCount uint64 `gorm:"not null;default:0"`
	ViewsCount     uint64 `gorm:"not null;default:0"`
	IsApproved     bool   `gorm:"not null;default:true"`

	Tags pq.StringArray `gorm:"type:text[];not null;default:'{}'"`

	CreatedAt time.Time `gorm:"index;not null"`
	UpdatedAt time.Time `gorm:"not null"`
}
