package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/DHEENA0007/notsharing/internal/auth"
	"github.com/DHEENA0007/notsharing/internal/comments"
	"github.com/DHEENA0007/notsharing/internal/requests"
	"github.com/DHEENA0007/notsharing/internal/storage"
)

type RequestHandler struct {
	Workflow *requests.Workflow
	Comments *comments.Service
	Files    storage.Store
}

type requestDTO struct {
	ID            uint64    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	SubjectID     *uint64   `json:"subject_id"`
	RequestedByID uint64    `json:"requested_by_id"`
	Status        string    `json:"status"`
	FulfilledByID *uint64   `json:"fulfilled_by_id"`
	CommentsCount int64     `json:"comments_count"`
	CreatedAt     time.Time `json:"created_at"`
}

func toRequestDTO(r *requests.NoteRequest, commentsCount int64) requestDTO {
	return requestDTO{
		ID:            r.ID,
		Title:         r.Title,
		Description:   r.Description,
		SubjectID:     r.SubjectID,
		RequestedByID: r.RequestedByID,
		Status:        string(r.Status),
		FulfilledByID: r.FulfilledByID,
		CommentsCount: commentsCount,
		CreatedAt:     r.CreatedAt,
	}
}

type createRequestReq struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	SubjectID   *uint64 `json:"subject_id"`
	SubjectName string  `json:"subject_name"`
}

func (h *RequestHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	var req createRequestReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	nr, err := h.Workflow.Create(r.Context(), uid, requests.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		SubjectID:   req.SubjectID,
		SubjectName: req.SubjectName,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toRequestDTO(nr, 0))
}

func (h *RequestHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	f := requests.ListFilter{
		Status: requests.Status(strings.TrimSpace(r.URL.Query().Get("status"))),
		Search: r.URL.Query().Get("search"),
	}
	if v := strings.TrimSpace(r.URL.Query().Get("subject")); v != "" {
		if id, err := strconv.ParseUint(v, 10, 64); err == nil {
			f.SubjectID = &id
		}
	}
	if v := r.URL.Query().Get("my_requests"); v == "true" || v == "1" {
		f.RequesterID = &uid
	}

	rows, err := h.Workflow.List(r.Context(), f)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]requestDTO, 0, len(rows))
	for i := range rows {
		count, err := h.Comments.CountFor(r.Context(), comments.RequestAnchor(rows[i].ID))
		if err != nil {
			writeError(w, err)
			return
		}
		out = append(out, toRequestDTO(&rows[i], count))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *RequestHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := paramID(r, "id")
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	nr, err := h.Workflow.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	count, err := h.Comments.CountFor(r.Context(), comments.RequestAnchor(id))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRequestDTO(nr, count))
}

type fulfillReq struct {
	NoteID uint64 `json:"note_id"`
}

func (h *RequestHandler) Fulfill(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	id, err := paramID(r, "id")
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req fulfillReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.NoteID == 0 {
		http.Error(w, "note_id is required", http.StatusBadRequest)
		return
	}

	nr, err := h.Workflow.Fulfill(r.Context(), id, req.NoteID, uid)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Request marked as fulfilled",
		"request": toRequestDTO(nr, 0),
	})
}

func (h *RequestHandler) Close(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())

	id, err := paramID(r, "id")
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.Workflow.Close(r.Context(), id, uid); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Request closed"})
}

func (h *RequestHandler) CommentsThread(w http.ResponseWriter, r *http.Request) {
	id, err := paramID(r, "id")
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	thread, err := h.Comments.ListThread(r.Context(), comments.RequestAnchor(id))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toThreadDTO(thread, h.Files))
}
