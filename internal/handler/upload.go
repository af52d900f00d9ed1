package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/msomdec/bis-arena/internal/domain"
	"github.com/msomdec/bis-arena/internal/service"
)

// UploadHandler serves stored profile pictures under the public uploads path.
type UploadHandler struct {
	profiles *service.ProfileService
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(profiles *service.ProfileService) *UploadHandler {
	return &UploadHandler{profiles: profiles}
}

// HandleServe serves image bytes with the correct Content-Type.
// GET /uploads/profiles/{key}
func (h *UploadHandler) HandleServe(w http.ResponseWriter, r *http.Request) {
	key := "profiles/" + r.PathValue("key")

	data, contentType, err := h.profiles.Picture(r.Context(), key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.Error(w, "Not Found", http.StatusNotFound)
			return
		}
		slog.Error("serve upload", "error", err, "key", key)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)
}
