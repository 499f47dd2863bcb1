package notes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/DHEENA0007/notsharing/internal/catalog"
	"github.com/DHEENA0007/notsharing/internal/domain"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

type Service struct {
	DB *gorm.DB
}

type CreateInput struct {
	Title        string
	Description  string
	FileRef      string
	ThumbnailRef *string
	SubjectID    *uint64
	SubjectName  string
	Tags         string // free-text, comma separated
}

func (s *Service) Create(ctx context.Context, uploaderID uint64, in CreateInput) (*Note, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	if in.Title == "" || in.Description == "" || in.FileRef == "" {
		return nil, fmt.Errorf("title, description and file are required: %w", domain.ErrInvalid)
	}
	if in.SubjectID == nil && strings.TrimSpace(in.SubjectName) == "" {
		return nil, fmt.Errorf("either subject_id or subject_name is required: %w", domain.ErrInvalid)
	}

	var n *Note
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var sub *catalog.Subject
		if in.SubjectID != nil {
			var cs catalog.Subject
			if err := tx.First(&cs, *in.SubjectID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("subject %d: %w", *in.SubjectID, domain.ErrNotFound)
				}
				return err
			}
			sub = &cs
		} else {
			var err error
			sub, err = catalog.GetOrCreate(tx, in.SubjectName, "Notes for "+strings.TrimSpace(in.SubjectName), "", "")
			if err != nil {
				return err
			}
		}

		tags := NormalizeTags(in.Tags)
		if tags == nil {
			tags = []string{}
		}

		n = &Note{
			Title:        in.Title,
			Description:  in.Description,
			FileRef:      in.FileRef,
			ThumbnailRef: in.ThumbnailRef,
			SubjectID:    sub.ID,
			UploadedByID: uploaderID,
			IsApproved:   true,
			Tags:         pq.StringArray(tags),
		}
		return tx.Create(n).Error
	})
	if err != nil {
		return nil, err
	}
	return n, nil
}

// Get returns a note's detail view. Every retrieval counts as a view: the
// counter is bumped atomically in the same transaction as the read.
func (s *Service) Get(ctx context.Context, id uint64) (*Note, error) {
	var n Note
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("is_approved = ?", true).First(&n, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("note %d: %w", id, domain.ErrNotFound)
			}
			return err
		}
		if err := IncrementViews(tx, id); err != nil {
			return err
		}
		n.ViewsCount++ // reflect the bump in the returned snapshot
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// Peek loads a note without counting a view.
func (s *Service) Peek(ctx context.Context, id uint64) (*Note, error) {
	var n Note
	if err := s.DB.WithContext(ctx).Where("is_approved = ?", true).First(&n, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("note %d: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}
	return &n, nil
}

type ListFilter struct {
	SubjectID  *uint64
	Search     string // substring match on title/description
	Tag        string // exact tag match
	UploaderID *uint64
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]Note, error) {
	q := s.DB.WithContext(ctx).Model(&Note{}).Where("is_approved = ?", true)

	if f.SubjectID != nil {
		q = q.Where("subject_id = ?", *f.SubjectID)
	}
	if f.UploaderID != nil {
		q = q.Where("uploaded_by_id = ?", *f.UploaderID)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		pat := "%" + strings.ToLower(s) + "%"
		q = q.Where("lower(title) like ? or lower(description) like ?", pat, pat)
	}
	if t := strings.ToLower(strings.TrimSpace(f.Tag)); t != "" {
		q = q.Where("? = any(tags)", t)
	}

	var rows []Note
	if err := q.Order("created_at desc, id desc").Limit(50).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
