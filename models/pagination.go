package models

import "math"

// Page is one slice of a paginated listing.
type Page[T any] struct {
	Items      []T   `json:"items"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// NewPage computes TotalPages from total and pageSize.
func NewPage[T any](items []T, page, pageSize int, total int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := 0
	if pageSize > 0 {
		totalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	return Page[T]{
		Items:      items,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}

// Skip returns the number of documents before page (1-based). Pages below 1 count as 1.
func Skip(page, pageSize int) int64 {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		return 0
	}
	// Saturate instead of wrapping negative for absurd page numbers.
	if int64(page-1) > math.MaxInt64/int64(pageSize) {
		return math.MaxInt64
	}
	return int64(page-1) * int64(pageSize)
}
