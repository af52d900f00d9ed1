package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/msomdec/bis-arena/internal/domain"
	"github.com/msomdec/bis-arena/internal/service"
)

// maxUploadBytes bounds the whole multipart body: 5MB picture plus form fields.
const maxUploadBytes = 5<<20 + 512*1024

// ProfileHandler handles profile read and update requests.
type ProfileHandler struct {
	profiles *service.ProfileService
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profiles *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// HandleGet returns the public profile for the email in the path.
// GET /api/user/profile/{email}
// Response: 200 {"user":{...}}
func (h *ProfileHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	user, err := h.profiles.Get(r.Context(), r.PathValue("email"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		slog.Error("get profile", "error", err)
		writeError(w, http.StatusInternalServerError, "Error fetching user profile")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"user": toUserDTO(user)})
}

// HandleUpdate applies a partial profile update from a multipart form.
// Text fields: username, email, age, college, currentPassword, newPassword.
// File field: profilePic (jpeg/png, max 5MB). Only supplied fields change.
// PUT /api/user/profile/{email}
// Response: 200 {"user":{...}}
func (h *ProfileHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid or oversized form data")
		return
	}

	upd := service.ProfileUpdate{
		Username:        formValue(r, "username"),
		Email:           formValue(r, "email"),
		College:         formValue(r, "college"),
		CurrentPassword: r.FormValue("currentPassword"),
		NewPassword:     r.FormValue("newPassword"),
	}

	if v := r.FormValue("age"); v != "" {
		age, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid age")
			return
		}
		upd.Age = &age
	}

	file, header, err := r.FormFile("profilePic")
	if err == nil {
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			slog.Error("read upload", "error", err)
			writeError(w, http.StatusInternalServerError, "Error updating profile")
			return
		}
		upd.Image = &service.ImageUpload{
			Filename: header.Filename,
			// Sniffing the bytes is more reliable than the multipart header.
			ContentType: http.DetectContentType(data),
			Data:        data,
		}
	} else if !errors.Is(err, http.ErrMissingFile) {
		writeError(w, http.StatusBadRequest, "Invalid profile picture upload")
		return
	}

	user, err := h.profiles.Update(r.Context(), r.PathValue("email"), upd)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "User not found")
		case errors.Is(err, domain.ErrUnauthorized):
			writeError(w, http.StatusUnauthorized, "Current password is incorrect")
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrDuplicateEmail):
			writeError(w, http.StatusBadRequest, "User already exists with this email")
		default:
			slog.Error("update profile", "error", err)
			writeError(w, http.StatusInternalServerError, "Error updating profile")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"user": toUserDTO(user)})
}

// formValue returns a pointer to the form field value, or nil when the field
// is absent or empty. Empty submissions leave the stored value untouched.
func formValue(r *http.Request, name string) *string {
	v := r.FormValue(name)
	if v == "" {
		return nil
	}
	return &v
}
