package handler

import (
	"net/http"
	"time"

	"github.com/DHEENA0007/notsharing/internal/catalog"
)

type SubjectHandler struct {
	Svc *catalog.Service
}

type subjectDTO struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Color       string    `json:"color"`
	NotesCount  int64     `json:"notes_count"`
	CreatedAt   time.Time `json:"created_at"`
}

func (h *SubjectHandler) List(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Svc.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]subjectDTO, 0, len(rows))
	for _, s := range rows {
		out = append(out, subjectDTO{
			ID:          s.ID,
			Name:        s.Name,
			Description: s.Description,
			Icon:        s.Icon,
			Color:       s.Color,
			NotesCount:  s.NotesCount,
			CreatedAt:   s.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}
