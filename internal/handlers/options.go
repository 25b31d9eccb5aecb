package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/voxpoll/voxpoll-backend/internal/middleware"
	"github.com/voxpoll/voxpoll-backend/internal/models"
	"github.com/voxpoll/voxpoll-backend/internal/repository"
	"github.com/voxpoll/voxpoll-backend/internal/services"
)

type OptionRequest struct {
	OptionText string `json:"option_text"`
}

type OptionsResponse struct {
	Success bool            `json:"success"`
	IsOwner bool            `json:"is_owner"`
	Options []models.Option `json:"options"`
}

type OptionsHandler struct {
	polls *services.PollService
	users *repository.UserRepository
}

func NewOptionsHandler(polls *services.PollService, users *repository.UserRepository) *OptionsHandler {
	return &OptionsHandler{polls: polls, users: users}
}

// Get returns a poll's options.
func (h *OptionsHandler) Get(w http.ResponseWriter, r *http.Request) {
	pollID := chi.URLParam(r, "pollID")

	isOwner, doc, err := h.polls.GetOptions(r.Context(), pollID, viewerID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, OptionsResponse{
		Success: true,
		IsOwner: isOwner,
		Options: doc.Options,
	})
}

// Add appends a new option to an existing poll (requires authentication).
func (h *OptionsHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req OptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	pollID := chi.URLParam(r, "pollID")
	creator := models.CreatedBy{UserID: user.ID, Username: user.Username}
	if err := h.polls.AddOption(r.Context(), pollID, creator, req.OptionText); err != nil {
		writeError(w, r, err)
		return
	}

	writeMessage(w, http.StatusCreated, "Option added successfully")
}

// Remove deletes an option from a poll. Only the poll owner may remove options.
func (h *OptionsHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req OptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	pollID := chi.URLParam(r, "pollID")
	if err := h.polls.RemoveOption(r.Context(), pollID, userID, req.OptionText); err != nil {
		writeError(w, r, err)
		return
	}

	writeMessage(w, http.StatusOK, "Option removed successfully")
}
