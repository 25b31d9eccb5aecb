package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/voxpoll/voxpoll-backend/internal/middleware"
	"github.com/voxpoll/voxpoll-backend/internal/services"
)

type VoteRequest struct {
	OptionText string `json:"option_text"`
}

type FlagRequest struct {
	Value bool `json:"value"`
}

// ActionsHandler exposes the per-user poll interactions: voting, sharing
// and bookmarking. All endpoints require authentication.
type ActionsHandler struct {
	actions *services.UserActionsService
}

func NewActionsHandler(actions *services.UserActionsService) *ActionsHandler {
	return &ActionsHandler{actions: actions}
}

// Vote casts or moves the user's vote on a poll.
func (h *ActionsHandler) Vote(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req VoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	pollID := chi.URLParam(r, "pollID")
	if err := h.actions.CastVote(r.Context(), pollID, userID, req.OptionText); err != nil {
		writeError(w, r, err)
		return
	}

	writeMessage(w, http.StatusOK, "Vote recorded")
}

// RetractVote removes the user's vote from a poll.
func (h *ActionsHandler) RetractVote(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	pollID := chi.URLParam(r, "pollID")
	if err := h.actions.RetractVote(r.Context(), pollID, userID); err != nil {
		writeError(w, r, err)
		return
	}

	writeMessage(w, http.StatusOK, "Vote removed")
}

// Share marks or unmarks a poll as shared by the user.
func (h *ActionsHandler) Share(w http.ResponseWriter, r *http.Request) {
	h.setFlag(w, r, h.actions.SetShared, "Share state updated")
}

// Bookmark marks or unmarks a poll as bookmarked by the user.
func (h *ActionsHandler) Bookmark(w http.ResponseWriter, r *http.Request) {
	h.setFlag(w, r, h.actions.SetBookmarked, "Bookmark state updated")
}

func (h *ActionsHandler) setFlag(w http.ResponseWriter, r *http.Request, set func(ctx context.Context, pollID string, userID int64, value bool) error, message string) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req FlagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	pollID := chi.URLParam(r, "pollID")
	if err := set(r.Context(), pollID, userID, req.Value); err != nil {
		writeError(w, r, err)
		return
	}

	writeMessage(w, http.StatusOK, message)
}
