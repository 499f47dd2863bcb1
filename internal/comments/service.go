package comments

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/DHEENA0007/notsharing/internal/auth"
	"github.com/DHEENA0007/notsharing/internal/domain"
	"github.com/DHEENA0007/notsharing/internal/notes"
	"github.com/DHEENA0007/notsharing/internal/notifications"
	"github.com/DHEENA0007/notsharing/internal/requests"

	"gorm.io/gorm"
)

type Service struct {
	DB       *gorm.DB
	Notifier *notifications.Dispatcher
}

type CreateInput struct {
	Anchor        Anchor
	AuthorID      uint64
	Text          string
	AttachmentRef *string
	ParentID      *uint64
}

// Create validates the anchor, stores the comment, and notifies the anchor's
// owner — all in one transaction. The owner is not notified about their own
// comments. Replies must target the same anchor as their parent.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Comment, error) {
	in.Text = strings.TrimSpace(in.Text)
	if in.Text == "" {
		return nil, fmt.Errorf("comment text required: %w", domain.ErrInvalid)
	}
	if !in.Anchor.Valid() {
		return nil, fmt.Errorf("comment anchor not resolvable: %w", domain.ErrInvalid)
	}

	var c *Comment
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var author auth.User
		if err := tx.First(&author, in.AuthorID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("user %d: %w", in.AuthorID, domain.ErrNotFound)
			}
			return err
		}

		ownerID, notifTitle, notifMsg, err := resolveAnchor(tx, in.Anchor, author.FullName)
		if err != nil {
			return err
		}

		if in.ParentID != nil {
			var parent Comment
			if err := tx.First(&parent, *in.ParentID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("parent comment %d: %w", *in.ParentID, domain.ErrNotFound)
				}
				return err
			}
			if parent.Anchor() != in.Anchor {
				return fmt.Errorf("reply anchor does not match parent: %w", domain.ErrInvalid)
			}
		}

		c = &Comment{
			UserID:        in.AuthorID,
			Text:          in.Text,
			AttachmentRef: in.AttachmentRef,
			ParentID:      in.ParentID,
		}
		c.setAnchor(in.Anchor)
		if err := tx.Create(c).Error; err != nil {
			return err
		}

		if ownerID != in.AuthorID {
			return s.Notifier.Notify(tx, ownerID, notifTitle, notifMsg)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// resolveAnchor checks the anchor target exists and returns its owner along
// with the composed notification text.
func resolveAnchor(tx *gorm.DB, a Anchor, actorName string) (uint64, string, string, error) {
	switch a.Kind {
	case AnchorNote:
		var n notes.Note
		if err := tx.First(&n, a.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, "", "", fmt.Errorf("note %d: %w", a.ID, domain.ErrNotFound)
			}
			return 0, "", "", err
		}
		msg := fmt.Sprintf("%s commented on your note %q.", actorName, n.Title)
		return n.UploadedByID, "New Comment on Note", msg, nil

	case AnchorRequest:
		var r requests.NoteRequest
		if err := tx.First(&r, a.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, "", "", fmt.Errorf("request %d: %w", a.ID, domain.ErrNotFound)
			}
			return 0, "", "", err
		}
		msg := fmt.Sprintf("%s commented on your request %q.", actorName, r.Title)
		return r.RequestedByID, "New Comment on Request", msg, nil
	}
	return 0, "", "", fmt.Errorf("comment anchor not resolvable: %w", domain.ErrInvalid)
}

// ListThread returns the anchor's top-level comments, each carrying its full
// reply subtree. Oldest first at every level — conversation order, the
// opposite of the newest-first note/request listings.
func (s *Service) ListThread(ctx context.Context, a Anchor) ([]*Node, error) {
	if !a.Valid() {
		return nil, fmt.Errorf("comment anchor not resolvable: %w", domain.ErrInvalid)
	}

	if err := s.ensureAnchorExists(ctx, a); err != nil {
		return nil, err
	}

	var rows []Comment
	q := s.DB.WithContext(ctx)
	switch a.Kind {
	case AnchorNote:
		q = q.Where("note_id = ?", a.ID)
	case AnchorRequest:
		q = q.Where("request_id = ?", a.ID)
	}
	if err := q.Order("created_at asc, id asc").Find(&rows).Error; err != nil {
		return nil, err
	}

	return buildTree(rows), nil
}

func (s *Service) ensureAnchorExists(ctx context.Context, a Anchor) error {
	var (
		n   int64
		err error
	)
	switch a.Kind {
	case AnchorNote:
		err = s.DB.WithContext(ctx).Model(&notes.Note{}).Where("id = ?", a.ID).Count(&n).Error
	case AnchorRequest:
		err = s.DB.WithContext(ctx).Model(&requests.NoteRequest{}).Where("id = ?", a.ID).Count(&n).Error
	}
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", a.Kind, a.ID, domain.ErrNotFound)
	}
	return nil
}

// buildTree groups rows by parent id. Rows arrive sorted, and appends keep
// that order, so every Replies slice stays oldest-first.
func buildTree(rows []Comment) []*Node {
	nodes := make(map[uint64]*Node, len(rows))
	order := make([]*Node, 0, len(rows))
	for i := range rows {
		n := &Node{Comment: rows[i]}
		nodes[n.ID] = n
		order = append(order, n)
	}

	roots := make([]*Node, 0, len(order))
	for _, n := range order {
		if n.ParentID == nil {
			roots = append(roots, n)
			continue
		}
		if p, ok := nodes[*n.ParentID]; ok {
			p.Replies = append(p.Replies, n)
		}
	}
	return roots
}

// CountFor reports the total number of comments (replies included) on an anchor.
func (s *Service) CountFor(ctx context.Context, a Anchor) (int64, error) {
	q := s.DB.WithContext(ctx).Model(&Comment{})
	switch a.Kind {
	case AnchorNote:
		q = q.Where("note_id = ?", a.ID)
	case AnchorRequest:
		q = q.Where("request_id = ?", a.ID)
	default:
		return 0, fmt.Errorf("comment anchor not resolvable: %w", domain.ErrInvalid)
	}
	var n int64
	err := q.Count(&n).Error
	return n, err
}
