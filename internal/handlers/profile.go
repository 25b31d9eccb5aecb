package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/voxpoll/voxpoll-backend/internal/middleware"
	"github.com/voxpoll/voxpoll-backend/internal/services"
)

type UpdateProfileRequest struct {
	Name string `json:"name"`
	Bio  string `json:"bio"`
}

type ProfileHandler struct {
	profiles   *services.ProfileService
	cloudinary *services.CloudinaryService
}

func NewProfileHandler(profiles *services.ProfileService, cloudinary *services.CloudinaryService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, cloudinary: cloudinary}
}

// Get returns a user's public profile by username.
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	user, profile, err := h.profiles.GetByUsername(r.Context(), username)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"profile": map[string]interface{}{
			"user_id":         user.ID,
			"username":        user.Username,
			"name":            profile.Name,
			"bio":             profile.Bio,
			"profile_picture": profile.ProfilePicture,
		},
	})
}

// Update changes the authenticated user's display name and bio.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if len(req.Name) > 100 {
		writeMessage(w, http.StatusBadRequest, "Name must be at most 100 characters")
		return
	}
	if len(req.Bio) > 500 {
		writeMessage(w, http.StatusBadRequest, "Bio must be at most 500 characters")
		return
	}

	if err := h.profiles.Update(r.Context(), userID, req.Name, req.Bio); err != nil {
		writeError(w, r, err)
		return
	}

	writeMessage(w, http.StatusOK, "Profile updated successfully")
}

// UploadPicture uploads a new profile picture to Cloudinary and stores its URL.
func (h *ProfileHandler) UploadPicture(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	if h.cloudinary == nil {
		writeMessage(w, http.StatusInternalServerError, "File upload service not available")
		return
	}

	// Parse multipart form (max 10MB)
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		writeMessage(w, http.StatusBadRequest, "Failed to parse form: "+err.Error())
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	url, err := h.cloudinary.UploadImage(r.Context(), fileHeader, "voxpoll/avatars")
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.profiles.UpdatePicture(r.Context(), userID, url); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Profile picture updated",
		"url":     url,
	})
}
