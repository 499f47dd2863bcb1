package handler

import (
	"net/http"
	"time"

	"github.com/DHEENA0007/notsharing/internal/auth"
	"github.com/DHEENA0007/notsharing/internal/interactions"
	"github.com/DHEENA0007/notsharing/internal/notes"
	"github.com/DHEENA0007/notsharing/internal/requests"
	"github.com/DHEENA0007/notsharing/internal/storage"

	"gorm.io/gorm"
)

type MeHandler struct {
	DB           *gorm.DB
	Interactions *interactions.Store
	Files        storage.Store
}

func (h *MeHandler) Me(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{"user_id": uid})
}

type bookmarkDTO struct {
	ID        uint64    `json:"id"`
	Note      noteDTO   `json:"note"`
	CreatedAt time.Time `json:"created_at"`
}

func (h *MeHandler) Bookmarks(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	rows, err := h.Interactions.ListBookmarks(r.Context(), uid)
	if err != nil {
		writeError(w, err)
		return
	}

	nh := NoteHandler{Files: h.Files}
	out := make([]bookmarkDTO, 0, len(rows))
	for i := range rows {
		out = append(out, bookmarkDTO{
			ID:        rows[i].ID,
			Note:      nh.toDTO(&rows[i].Note),
			CreatedAt: rows[i].CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

type downloadDTO struct {
	ID           uint64    `json:"id"`
	Note         noteDTO   `json:"note"`
	DownloadedAt time.Time `json:"downloaded_at"`
}

func (h *MeHandler) Downloads(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	rows, err := h.Interactions.ListDownloads(r.Context(), uid)
	if err != nil {
		writeError(w, err)
		return
	}

	nh := NoteHandler{Files: h.Files}
	out := make([]downloadDTO, 0, len(rows))
	for i := range rows {
		out = append(out, downloadDTO{
			ID:           rows[i].ID,
			Note:         nh.toDTO(&rows[i].Note),
			DownloadedAt: rows[i].DownloadedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *MeHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	ctx := r.Context()

	var uploads, myRequests, openRequests, totalNotes int64
	if err := h.DB.WithContext(ctx).Model(&notes.Note{}).Where("uploaded_by_id = ?", uid).Count(&uploads).Error; err != nil {
		writeError(w, err)
		return
	}
	if err := h.DB.WithContext(ctx).Model(&requests.NoteRequest{}).Where("requested_by_id = ?", uid).Count(&myRequests).Error; err != nil {
		writeError(w, err)
		return
	}
	if err := h.DB.WithContext(ctx).Model(&requests.NoteRequest{}).Where("status = ?", requests.StatusOpen).Count(&openRequests).Error; err != nil {
		writeError(w, err)
		return
	}
	if err := h.DB.WithContext(ctx).Model(&notes.Note{}).Where("is_approved = ?", true).Count(&totalNotes).Error; err != nil {
		writeError(w, err)
		return
	}

	downloads, err := h.Interactions.CountDownloads(ctx, uid)
	if err != nil {
		writeError(w, err)
		return
	}
	bookmarks, err := h.Interactions.CountBookmarks(ctx, uid)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"total_uploads":   uploads,
		"total_downloads": downloads,
		"total_bookmarks": bookmarks,
		"total_requests":  myRequests,
		"open_requests":   openRequests,
		"total_notes":     totalNotes,
	})
}
