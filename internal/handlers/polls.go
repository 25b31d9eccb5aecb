package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/voxpoll/voxpoll-backend/internal/middleware"
	"github.com/voxpoll/voxpoll-backend/internal/models"
	"github.com/voxpoll/voxpoll-backend/internal/repository"
	"github.com/voxpoll/voxpoll-backend/internal/services"
)

type CreatePollRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category"`
	Privacy     string   `json:"privacy,omitempty"`
	Options     []string `json:"options"`
}

type CreatePollResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	PollID  string `json:"poll_id,omitempty"`
}

// PollPageResponse wraps a page of polls.
type PollPageResponse struct {
	Success bool             `json:"success"`
	Data    *models.PollPage `json:"data"`
}

type PollHandler struct {
	polls *services.PollService
	lists *services.PollListService
	users *repository.UserRepository
}

func NewPollHandler(polls *services.PollService, lists *services.PollListService, users *repository.UserRepository) *PollHandler {
	return &PollHandler{polls: polls, lists: lists, users: users}
}

// Create handles poll creation (requires authentication).
func (h *PollHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req CreatePollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	creator := models.CreatedBy{UserID: user.ID, Username: user.Username}
	pollID, err := h.polls.Create(r.Context(), services.CreatePollInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Privacy:     req.Privacy,
		Options:     req.Options,
	}, creator)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, CreatePollResponse{
		Success: true,
		Message: "Poll created successfully",
		PollID:  pollID,
	})
}

// Get returns a single poll if the viewer may see it.
func (h *PollHandler) Get(w http.ResponseWriter, r *http.Request) {
	pollID := chi.URLParam(r, "pollID")

	poll, err := h.polls.Get(r.Context(), pollID, viewerID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"poll":    poll,
	})
}

// List searches public polls (plus the viewer's private ones) by keyword.
// An empty keyword lists everything visible.
func (h *PollHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pageParams(r)
	keyword := r.URL.Query().Get("keyword")

	result, err := h.lists.ByKeyword(r.Context(), keyword, page, pageSize, viewerID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, PollPageResponse{Success: true, Data: result})
}

// ListByCategory lists visible polls in a category.
func (h *PollHandler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pageParams(r)
	category := chi.URLParam(r, "category")

	result, err := h.lists.ByCategory(r.Context(), category, page, pageSize, viewerID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, PollPageResponse{Success: true, Data: result})
}

// ListByAuthor lists polls created by the given user.
func (h *PollHandler) ListByAuthor(w http.ResponseWriter, r *http.Request) {
	h.listByUser(w, r, h.lists.ByAuthor)
}

// ListVoted lists polls the given user has voted on.
func (h *PollHandler) ListVoted(w http.ResponseWriter, r *http.Request) {
	h.listByUser(w, r, h.lists.ByVoter)
}

// ListShared lists polls the given user has shared.
func (h *PollHandler) ListShared(w http.ResponseWriter, r *http.Request) {
	h.listByUser(w, r, h.lists.BySharer)
}

// ListBookmarked lists polls the given user has bookmarked.
func (h *PollHandler) ListBookmarked(w http.ResponseWriter, r *http.Request) {
	h.listByUser(w, r, h.lists.ByBookmarker)
}

func (h *PollHandler) listByUser(w http.ResponseWriter, r *http.Request, list func(ctx context.Context, userID int64, page, pageSize int, viewerID *int64) (*models.PollPage, error)) {
	page, pageSize := pageParams(r)

	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	result, err := list(r.Context(), userID, page, pageSize, viewerID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, PollPageResponse{Success: true, Data: result})
}
