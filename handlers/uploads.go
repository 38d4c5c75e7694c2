package handlers

import (
	"errors"
	"net/http"

	"everafter/services/uploads"
)

// UploadsHandler handles media upload and serving.
type UploadsHandler struct {
	uploads *uploads.Service
}

// NewUploadsHandler creates a new uploads handler.
func NewUploadsHandler(uploadsSvc *uploads.Service) *UploadsHandler {
	return &UploadsHandler{uploads: uploadsSvc}
}

// Upload accepts a multipart file upload and returns its public URL.
func (h *UploadsHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(uploads.MaxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	url, err := h.uploads.Save(file)
	if err != nil {
		switch {
		case errors.Is(err, uploads.ErrEmptyFile),
			errors.Is(err, uploads.ErrUnsupportedType):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, uploads.ErrFileTooLarge):
			writeError(w, http.StatusRequestEntityTooLarge, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to store upload")
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"url": url})
}

// Serve returns a stored upload. Content is immutable once written, so
// clients may cache aggressively.
func (h *UploadsHandler) Serve(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	http.StripPrefix("/uploads/", http.FileServer(h.uploads.HTTPFileSystem())).ServeHTTP(w, r)
}
