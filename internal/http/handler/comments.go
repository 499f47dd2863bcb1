package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/DHEENA0007/notsharing/internal/auth"
	"github.com/DHEENA0007/notsharing/internal/comments"
	"github.com/DHEENA0007/notsharing/internal/domain"
	"github.com/DHEENA0007/notsharing/internal/storage"
)

type CommentHandler struct {
	Svc   *comments.Service
	Files storage.Store
}

type commentDTO struct {
	ID            uint64       `json:"id"`
	ContentType   string       `json:"content_type"`
	NoteID        *uint64      `json:"note_id,omitempty"`
	RequestID     *uint64      `json:"request_id,omitempty"`
	UserID        uint64       `json:"user_id"`
	Text          string       `json:"text"`
	AttachmentURL *string      `json:"attachment_url"`
	ParentID      *uint64      `json:"parent_id"`
	CreatedAt     time.Time    `json:"created_at"`
	Replies       []commentDTO `json:"replies"`
}

func toCommentDTO(c *comments.Comment, files storage.Store) commentDTO {
	var attachment *string
	if c.AttachmentRef != nil {
		u := files.URL(*c.AttachmentRef)
		attachment = &u
	}
	return commentDTO{
		ID:            c.ID,
		ContentType:   c.ContentType,
		NoteID:        c.NoteID,
		RequestID:     c.RequestID,
		UserID:        c.UserID,
		Text:          c.Text,
		AttachmentURL: attachment,
		ParentID:      c.ParentID,
		CreatedAt:     c.CreatedAt,
		Replies:       []commentDTO{},
	}
}

func toThreadDTO(nodes []*comments.Node, files storage.Store) []commentDTO {
	out := make([]commentDTO, 0, len(nodes))
	for _, n := range nodes {
		dto := toCommentDTO(&n.Comment, files)
		dto.Replies = toThreadDTO(n.Replies, files)
		out = append(out, dto)
	}
	return out
}

type createCommentReq struct {
	ContentType   string  `json:"content_type"` // "note" or "request"
	NoteID        *uint64 `json:"note_id"`
	RequestID     *uint64 `json:"request_id"`
	Text          string  `json:"text"`
	AttachmentRef *string `json:"attachment_ref"`
	ParentID      *uint64 `json:"parent_id"`
}

func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	var req createCommentReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	var anchor comments.Anchor
	switch comments.AnchorKind(req.ContentType) {
	case comments.AnchorNote:
		if req.NoteID == nil {
			writeError(w, domain.ErrInvalid)
			return
		}
		anchor = comments.NoteAnchor(*req.NoteID)
	case comments.AnchorRequest:
		if req.RequestID == nil {
			writeError(w, domain.ErrInvalid)
			return
		}
		anchor = comments.RequestAnchor(*req.RequestID)
	default:
		writeError(w, domain.ErrInvalid)
		return
	}

	c, err := h.Svc.Create(r.Context(), comments.CreateInput{
		Anchor:        anchor,
		AuthorID:      uid,
		Text:          req.Text,
		AttachmentRef: req.AttachmentRef,
		ParentID:      req.ParentID,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toCommentDTO(c, h.Files))
}
