package requests

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/DHEENA0007/notsharing/internal/auth"
	"github.com/DHEENA0007/notsharing/internal/catalog"
	"github.com/DHEENA0007/notsharing/internal/domain"
	"github.com/DHEENA0007/notsharing/internal/notes"
	"github.com/DHEENA0007/notsharing/internal/notifications"

	"gorm.io/gorm"
)

type Workflow struct {
	DB       *gorm.DB
	Notifier *notifications.Dispatcher
}

type CreateInput struct {
	Title       string
	Description string
	SubjectID   *uint64
	SubjectName string
}

func (w *Workflow) Create(ctx context.Context, requesterID uint64, in CreateInput) (*NoteRequest, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	if in.Title == "" || in.Description == "" {
		return nil, fmt.Errorf("title and description are required: %w", domain.ErrInvalid)
	}

	var r *NoteRequest
	err := w.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Subject is optional. An unknown subject_id is ignored rather than
		// rejected; a subject_name is created on first use.
		var subjectID *uint64
		if in.SubjectID != nil {
			var sub catalog.Subject
			err := tx.First(&sub, *in.SubjectID).Error
			if err == nil {
				subjectID = &sub.ID
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		} else if name := strings.TrimSpace(in.SubjectName); name != "" {
			sub, err := catalog.GetOrCreate(tx, name, "Requests for "+name, "help_outline", "#FF4081")
			if err != nil {
				return err
			}
			subjectID = &sub.ID
		}

		r = &NoteRequest{
			Title:         in.Title,
			Description:   in.Description,
			SubjectID:     subjectID,
			RequestedByID: requesterID,
			Status:        StatusOpen,
		}
		return tx.Create(r).Error
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Fulfill links an open request to an existing note and notifies the
// requester (unless they fulfilled it themselves). The open→fulfilled
// transition is a conditional UPDATE on status, so of two concurrent calls
// exactly one wins; the loser sees a conflict. A fulfilled or closed request
// is never overwritten.
func (w *Workflow) Fulfill(ctx context.Context, requestID, noteID, actorID uint64) (*NoteRequest, error) {
	var r NoteRequest
	err := w.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n notes.Note
		if err := tx.First(&n, noteID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("note %d: %w", noteID, domain.ErrNotFound)
			}
			return err
		}

		res := tx.Model(&NoteRequest{}).
			Where("id = ? and status = ?", requestID, StatusOpen).
			Updates(map[string]any{
				"status":          StatusFulfilled,
				"fulfilled_by_id": noteID,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			if err := tx.First(&r, requestID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("request %d: %w", requestID, domain.ErrNotFound)
				}
				return err
			}
			return fmt.Errorf("request %d is %s: %w", requestID, r.Status, domain.ErrConflict)
		}

		if err := tx.First(&r, requestID).Error; err != nil {
			return err
		}

		if r.RequestedByID != actorID {
			var actor auth.User
			if err := tx.First(&actor, actorID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("user %d: %w", actorID, domain.ErrNotFound)
				}
				return err
			}
			msg := fmt.Sprintf("Your request %q was fulfilled by %s.", r.Title, actor.FullName)
			return w.Notifier.Notify(tx, r.RequestedByID, "Request Fulfilled", msg)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Close is the requester shutting their own open request. No linkage, no
// notification; closed is terminal.
func (w *Workflow) Close(ctx context.Context, requestID, actorID uint64) error {
	return w.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var r NoteRequest
		if err := tx.First(&r, requestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("request %d: %w", requestID, domain.ErrNotFound)
			}
			return err
		}
		if r.RequestedByID != actorID {
			return fmt.Errorf("only the requester may close a request: %w", domain.ErrForbidden)
		}

		res := tx.Model(&NoteRequest{}).
			Where("id = ? and status = ?", requestID, StatusOpen).
			Update("status", StatusClosed)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("request %d is not open: %w", requestID, domain.ErrConflict)
		}
		return nil
	})
}

func (w *Workflow) Get(ctx context.Context, id uint64) (*NoteRequest, error) {
	var r NoteRequest
	if err := w.DB.WithContext(ctx).First(&r, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("request %d: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}
	return &r, nil
}

type ListFilter struct {
	Status      Status
	SubjectID   *uint64
	Search      string
	RequesterID *uint64
}

func (w *Workflow) List(ctx context.Context, f ListFilter) ([]NoteRequest, error) {
	q := w.DB.WithContext(ctx).Model(&NoteRequest{})

	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.SubjectID != nil {
		q = q.Where("subject_id = ?", *f.SubjectID)
	}
	if f.RequesterID != nil {
		q = q.Where("requested_by_id = ?", *f.RequesterID)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		pat := "%" + strings.ToLower(s) + "%"
		q = q.Where("lower(title) like ? or lower(description) like ?", pat, pat)
	}

	var rows []NoteRequest
	if err := q.Order("created_at desc, id desc").Limit(50).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
