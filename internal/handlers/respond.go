package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/voxpoll/voxpoll-backend/internal/apperrors"
	"github.com/voxpoll/voxpoll-backend/internal/middleware"
)

const (
	defaultPageSize = 10
	maxPageSize     = 50
)

// MessageResponse is the generic success/error envelope.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, MessageResponse{Success: status < 400, Message: message})
}

// writeError maps a service error to its HTTP status. Internal errors are
// logged and replaced with a generic message so datastore details never
// reach clients.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.HTTPStatus(err)
	message := err.Error()
	if status >= http.StatusInternalServerError {
		log.Printf("⚠️ %s %s: %v", r.Method, r.URL.Path, err)
		message = "Internal server error"
	}
	writeMessage(w, status, message)
}

// pageParams reads page and page_size query parameters, falling back to
// page 1 and the default size.
func pageParams(r *http.Request) (int, int) {
	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			page = n
		}
	}
	pageSize := defaultPageSize
	if raw := r.URL.Query().Get("page_size"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			pageSize = n
		}
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

// viewerID returns a pointer to the authenticated user's ID, or nil for
// anonymous requests.
func viewerID(r *http.Request) *int64 {
	id, ok := middleware.UserID(r.Context())
	if !ok {
		return nil
	}
	return &id
}
