package pagination

import (
	"fmt"

	"github.com/voxpoll/voxpoll-backend/internal/apperrors"
)

// PageResult wraps one page of an ordered sequence. Items keeps the input
// order; TotalCount is the length of the full sequence, not the page.
type PageResult[T any] struct {
	Items      []T  `json:"items"`
	Page       int  `json:"page"`
	PageSize   int  `json:"page_size"`
	TotalCount int  `json:"total_count"`
	HasNext    bool `json:"has_next"`
}

// Paginate slices items into the requested page. Page and pageSize are
// 1-based and must be >= 1. A page past the end returns an empty slice with
// an accurate TotalCount and HasNext=false; callers decide whether that is
// worth surfacing to the client.
func Paginate[T any](items []T, page, pageSize int) (PageResult[T], error) {
	if page < 1 {
		return PageResult[T]{}, fmt.Errorf("page must be >= 1, got %d: %w", page, apperrors.ErrInvalidArgument)
	}
	if pageSize < 1 {
		return PageResult[T]{}, fmt.Errorf("page_size must be >= 1, got %d: %w", pageSize, apperrors.ErrInvalidArgument)
	}

	total := len(items)
	start := (page - 1) * pageSize
	end := start + pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return PageResult[T]{
		Items:      items[start:end],
		Page:       page,
		PageSize:   pageSize,
		TotalCount: total,
		HasNext:    end < total,
	}, nil
}
