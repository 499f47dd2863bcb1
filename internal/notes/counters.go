package notes

import (
	"fmt"

	"github.com/DHEENA0007/notsharing/internal/domain"

	"gorm.io/gorm"
)

// Counter maintenance. Both increments run as a single UPDATE against the
// stored value so concurrent callers cannot lose updates. The handle may be
// a transaction; callers that need the increment atomic with other writes
// pass their tx.

func IncrementViews(db *gorm.DB, noteID uint64) error {
	return increment(db, noteID, "views_count")
}

func IncrementDownloads(db *gorm.DB, noteID uint64) error {
	return increment(db, noteID, "downloads_count")
}

func increment(db *gorm.DB, noteID uint64, column string) error {
	res := db.Model(&Note{}).
		Where("id = ?", noteID).
		UpdateColumn(column, gorm.Expr(column+" + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("note %d: %w", noteID, domain.ErrNotFound)
	}
	return nil
}
