package handlers

import (
	"net/http"

	"github.com/voxpoll/voxpoll-backend/internal/services"
)

type CategoryHandler struct {
	categories *services.CategoryService
}

func NewCategoryHandler(categories *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

// List returns the fixed set of poll categories. The list never changes at
// runtime so clients may cache it aggressively.
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "public, max-age=86400")
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"categories": services.Categories,
	})
}

// Data returns per-category poll counts and vote totals.
func (h *CategoryHandler) Data(w http.ResponseWriter, r *http.Request) {
	data, err := h.categories.Data(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"categories": data,
	})
}
