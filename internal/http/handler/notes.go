package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/DHEENA0007/notsharing/internal/auth"
	"github.com/DHEENA0007/notsharing/internal/comments"
	"github.com/DHEENA0007/notsharing/internal/interactions"
	"github.com/DHEENA0007/notsharing/internal/notes"
	"github.com/DHEENA0007/notsharing/internal/storage"

	"github.com/go-chi/chi/v5"
)

type NoteHandler struct {
	Svc          *notes.Service
	Interactions *interactions.Store
	Comments     *comments.Service
	Files        storage.Store
}

type noteDTO struct {
	ID             uint64    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	ThumbnailURL   *string   `json:"thumbnail_url"`
	SubjectID      uint64    `json:"subject_id"`
	UploadedByID   uint64    `json:"uploaded_by_id"`
	DownloadsCount uint64    `json:"downloads_count"`
	ViewsCount     uint64    `json:"views_count"`
	Tags           []string  `json:"tags"`
	CreatedAt      time.Time `json:"created_at"`
}

type noteDetailDTO struct {
	noteDTO
	FileURL       string `json:"file_url"`
	IsBookmarked  bool   `json:"is_bookmarked"`
	IsDownloaded  bool   `json:"is_downloaded"`
	CommentsCount int64  `json:"comments_count"`
}

func (h *NoteHandler) toDTO(n *notes.Note) noteDTO {
	var thumb *string
	if n.ThumbnailRef != nil {
		u := h.Files.URL(*n.ThumbnailRef)
		thumb = &u
	}
	return noteDTO{
		ID:             n.ID,
		Title:          n.Title,
		Description:    n.Description,
		ThumbnailURL:   thumb,
		SubjectID:      n.SubjectID,
		UploadedByID:   n.UploadedByID,
		DownloadsCount: n.DownloadsCount,
		ViewsCount:     n.ViewsCount,
		Tags:           []string(n.Tags),
		CreatedAt:      n.CreatedAt,
	}
}

type createNoteReq struct {
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	FileRef      string  `json:"file_ref"`
	ThumbnailRef *string `json:"thumbnail_ref"`
	SubjectID    *uint64 `json:"subject_id"`
	SubjectName  string  `json:"subject_name"`
	Tags         string  `json:"tags"`
}

func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	var req createNoteReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	n, err := h.Svc.Create(r.Context(), uid, notes.CreateInput{
		Title:        req.Title,
		Description:  req.Description,
		FileRef:      req.FileRef,
		ThumbnailRef: req.ThumbnailRef,
		SubjectID:    req.SubjectID,
		SubjectName:  req.SubjectName,
		Tags:         req.Tags,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, h.toDTO(n))
}

func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	f := notes.ListFilter{
		Search: r.URL.Query().Get("search"),
		Tag:    r.URL.Query().Get("tag"),
	}
	if v := strings.TrimSpace(r.URL.Query().Get("subject")); v != "" {
		if id, err := strconv.ParseUint(v, 10, 64); err == nil {
			f.SubjectID = &id
		}
	}
	if v := r.URL.Query().Get("my_notes"); v == "true" || v == "1" {
		f.UploaderID = &uid
	}

	rows, err := h.Svc.List(r.Context(), f)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]noteDTO, 0, len(rows))
	for i := range rows {
		out = append(out, h.toDTO(&rows[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

// Get serves the detail view. Each retrieval counts one view.
func (h *NoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	id, err := paramID(r, "id")
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	n, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	bookmarked, err := h.Interactions.IsBookmarked(r.Context(), id, uid)
	if err != nil {
		writeError(w, err)
		return
	}
	downloaded, err := h.Interactions.IsDownloaded(r.Context(), id, uid)
	if err != nil {
		writeError(w, err)
		return
	}
	commentsCount, err := h.Comments.CountFor(r.Context(), comments.NoteAnchor(id))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, noteDetailDTO{
		noteDTO:       h.toDTO(n),
		FileURL:       h.Files.URL(n.FileRef),
		IsBookmarked:  bookmarked,
		IsDownloaded:  downloaded,
		CommentsCount: commentsCount,
	})
}

// Download records the fact and hands back the file URL. Repeat downloads by
// the same user are fine; they just don't move the counter again.
func (h *NoteHandler) Download(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	id, err := paramID(r, "id")
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	already, err := h.Interactions.RecordDownload(r.Context(), id, uid)
	if err != nil {
		writeError(w, err)
		return
	}

	n, err := h.Svc.Peek(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"file_url":         h.Files.URL(n.FileRef),
		"downloads_count":  n.DownloadsCount,
		"already_recorded": already,
	})
}

func (h *NoteHandler) Bookmark(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	id, err := paramID(r, "id")
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	active, err := h.Interactions.ToggleBookmark(r.Context(), id, uid)
	if err != nil {
		writeError(w, err)
		return
	}

	msg := "Bookmark removed"
	if active {
		msg = "Note bookmarked"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"bookmarked": active,
		"message":    msg,
	})
}

func (h *NoteHandler) CommentsThread(w http.ResponseWriter, r *http.Request) {
	id, err := paramID(r, "id")
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	thread, err := h.Comments.ListThread(r.Context(), comments.NoteAnchor(id))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toThreadDTO(thread, h.Files))
}

func paramID(r *http.Request, name string) (uint64, error) {
	return strconv.ParseUint(chi.URLParam(r, name), 10, 64)
}
