package interactions

import (
	"context"
	"fmt"

	"github.com/DHEENA0007/notsharing/internal/domain"
	"github.com/DHEENA0007/notsharing/internal/notes"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Store struct {
	DB *gorm.DB
}

// ToggleBookmark flips the bookmark fact for (note, user) and reports the
// resulting state. The insert carries an ON CONFLICT DO NOTHING clause, so an
// existing bookmark shows up as zero rows affected (not a statement error that
// would abort the transaction on postgres) and is removed instead. Either way
// the end state is well-defined under concurrent toggles.
func (s *Store) ToggleBookmark(ctx context.Context, noteID, userID uint64) (bool, error) {
	active := false
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureNote(tx, noteID); err != nil {
			return err
		}

		b := Bookmark{NoteID: noteID, UserID: userID}
		res := tx.Omit(clause.Associations).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "note_id"}, {Name: "user_id"}},
				DoNothing: true,
			}).
			Create(&b)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			active = true
			return nil
		}
		return tx.Where("note_id = ? and user_id = ?", noteID, userID).Delete(&Bookmark{}).Error
	})
	if err != nil {
		return false, err
	}
	return active, nil
}

// RecordDownload stores the unique download fact and bumps the note's
// counter exactly once per (note, user). A repeat call conflicts on the
// unique index, inserts nothing, and reports alreadyRecorded=true with the
// counter untouched: the counter reflects unique downloaders, not download
// attempts.
func (s *Store) RecordDownload(ctx context.Context, noteID, userID uint64) (bool, error) {
	already := false
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureNote(tx, noteID); err != nil {
			return err
		}

		d := Download{NoteID: noteID, UserID: userID}
		res := tx.Omit(clause.Associations).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "note_id"}, {Name: "user_id"}},
				DoNothing: true,
			}).
			Create(&d)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			already = true
			return nil
		}
		return notes.IncrementDownloads(tx, noteID)
	})
	if err != nil {
		return false, err
	}
	return already, nil
}

func (s *Store) IsBookmarked(ctx context.Context, noteID, userID uint64) (bool, error) {
	var n int64
	err := s.DB.WithContext(ctx).Model(&Bookmark{}).
		Where("note_id = ? and user_id = ?", noteID, userID).
		Count(&n).Error
	return n > 0, err
}

func (s *Store) IsDownloaded(ctx context.Context, noteID, userID uint64) (bool, error) {
	var n int64
	err := s.DB.WithContext(ctx).Model(&Download{}).
		Where("note_id = ? and user_id = ?", noteID, userID).
		Count(&n).Error
	return n > 0, err
}

func (s *Store) ListBookmarks(ctx context.Context, userID uint64) ([]Bookmark, error) {
	var rows []Bookmark
	err := s.DB.WithContext(ctx).
		Preload("Note").
		Where("user_id = ?", userID).
		Order("created_at desc, id desc").
		Find(&rows).Error
	return rows, err
}

func (s *Store) ListDownloads(ctx context.Context, userID uint64) ([]Download, error) {
	var rows []Download
	err := s.DB.WithContext(ctx).
		Preload("Note").
		Where("user_id = ?", userID).
		Order("downloaded_at desc, id desc").
		Find(&rows).Error
	return rows, err
}

func (s *Store) CountBookmarks(ctx context.Context, userID uint64) (int64, error) {
	var n int64
	err := s.DB.WithContext(ctx).Model(&Bookmark{}).Where("user_id = ?", userID).Count(&n).Error
	return n, err
}

func (s *Store) CountDownloads(ctx context.Context, userID uint64) (int64, error) {
	var n int64
	err := s.DB.WithContext(ctx).Model(&Download{}).Where("user_id = ?", userID).Count(&n).Error
	return n, err
}

func ensureNote(tx *gorm.DB, noteID uint64) error {
	var n int64
	if err := tx.Model(&notes.Note{}).Where("id = ?", noteID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("note %d: %w", noteID, domain.ErrNotFound)
	}
	return nil
}
