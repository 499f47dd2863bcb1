package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/DHEENA0007/notsharing/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Service struct {
	DB *gorm.DB
}

type SubjectWithCount struct {
	Subject
	NotesCount int64 `gorm:"column:notes_count"`
}

func (s *Service) List(ctx context.Context) ([]SubjectWithCount, error) {
	var out []SubjectWithCount
	err := s.DB.WithContext(ctx).
		Model(&Subject{}).
		Select("subjects.*, (select count(*) from notes where notes.subject_id = subjects.id) as notes_count").
		Order("name asc").
		Find(&out).Error
	return out, err
}

func (s *Service) Get(ctx context.Context, id uint64) (*Subject, error) {
	var sub Subject
	if err := s.DB.WithContext(ctx).First(&sub, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("subject %d: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}
	return &sub, nil
}

func (s *Service) Exists(ctx context.Context, id uint64) (bool, error) {
	var n int64
	err := s.DB.WithContext(ctx).Model(&Subject{}).Where("id = ?", id).Count(&n).Error
	return n > 0, err
}

// GetOrCreate resolves a subject by name, creating it on first use. Runs on
// the caller's handle so it can join an enclosing transaction. The insert
// carries ON CONFLICT DO NOTHING so an existing name (including one created
// concurrently) never aborts that transaction; zero rows affected means the
// row is already there and we re-read it.
func GetOrCreate(tx *gorm.DB, name, description, icon, color string) (*Subject, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("subject name required: %w", domain.ErrInvalid)
	}
	if icon == "" {
		icon = "book"
	}
	if color == "" {
		color = "#6366F1"
	}

	sub := Subject{Name: name, Description: description, Icon: icon, Color: color}
	res := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&sub)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		if err := tx.Where("name = ?", name).First(&sub).Error; err != nil {
			return nil, err
		}
	}
	return &sub, nil
}
