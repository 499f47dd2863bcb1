package handler

import (
	"io"
	"net/http"

	"github.com/DHEENA0007/notsharing/internal/storage"

	"github.com/go-chi/chi/v5"
)

type FileHandler struct {
	Store storage.Store
}

// Upload accepts one multipart file and returns its opaque ref. Clients
// attach refs to notes/comments; bytes never travel through those endpoints.
func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	kind, err := storage.ParseKind(r.URL.Query().Get("kind"))
	if err != nil {
		writeError(w, err)
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, "bad multipart body", http.StatusBadRequest)
		return
	}
	f, hdr, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field required", http.StatusBadRequest)
		return
	}
	defer f.Close()

	ref, err := h.Store.Save(kind, hdr.Filename, f)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"ref": ref,
		"url": h.Store.URL(ref),
	})
}

// Serve streams a stored blob back by ref.
func (h *FileHandler) Serve(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "*")

	rc, err := h.Store.Open(ref)
	if err != nil {
		writeError(w, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	_, _ = io.Copy(w, rc)
}
