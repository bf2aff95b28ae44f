package common

import (
	"net/http"
	"strconv"

	pkgerrors "ideaforge-backend/pkg/errors"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// PaginationParams represents pagination parameters
type PaginationParams struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// DefaultPaginationParams returns default pagination parameters
func DefaultPaginationParams() PaginationParams {
	return PaginationParams{
		Page:  1,
		Limit: defaultPageSize,
	}
}

// Validate enforces page >= 1 and limit > 0
func (p PaginationParams) Validate() error {
	if p.Page < 1 {
		return pkgerrors.NewInvalidValueError("page must be at least 1").
			WithDetail("page", p.Page)
	}
	if p.Limit < 1 {
		return pkgerrors.NewInvalidValueError("limit must be positive").
			WithDetail("limit", p.Limit)
	}
	return nil
}

// ExtractPaginationParams extracts pagination parameters from request
func ExtractPaginationParams(r *http.Request) PaginationParams {
	params := DefaultPaginationParams()

	if page := r.URL.Query().Get("page"); page != "" {
		if p, err := strconv.Atoi(page); err == nil && p > 0 {
			params.Page = p
		}
	}

	if limit := r.URL.Query().Get("limit"); limit != "" {
		if l, err := strconv.Atoi(limit); err == nil && l > 0 {
			if l > maxPageSize {
				l = maxPageSize
			}
			params.Limit = l
		}
	}

	return params
}

// Offset calculates the zero-based offset for the requested page
func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// CalculateTotalPages calculates total number of pages
func CalculateTotalPages(total, limit int) int {
	if limit <= 0 {
		return 0
	}
	pages := total / limit
	if total%limit > 0 {
		pages++
	}
	return pages
}

// Page is one page of a result set together with its position in the whole
type Page[T any] struct {
	Items       []T  `json:"items"`
	Total       int  `json:"total"`
	Page        int  `json:"page"`
	Limit       int  `json:"limit"`
	TotalPages  int  `json:"total_pages"`
	HasNext     bool `json:"has_next"`
	HasPrevious bool `json:"has_previous"`
}

// NewPage assembles a page from its items and the total match count
func NewPage[T any](items []T, total int, params PaginationParams) Page[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := CalculateTotalPages(total, params.Limit)
	return Page[T]{
		Items:       items,
		Total:       total,
		Page:        params.Page,
		Limit:       params.Limit,
		TotalPages:  totalPages,
		HasNext:     params.Page < totalPages,
		HasPrevious: params.Page > 1,
	}
}

// EmptyPage returns a page with no items for the given params
func EmptyPage[T any](params PaginationParams) Page[T] {
	return NewPage[T]([]T{}, 0, params)
}

// SlicePage applies pagination to an already-materialized slice. Used by the
// in-memory store and for post-filter pagination.
func SlicePage[T any](all []T, params PaginationParams) Page[T] {
	total := len(all)
	start := params.Offset()
	if start > total {
		start = total
	}
	end := start + params.Limit
	if end > total {
		end = total
	}
	items := make([]T, end-start)
	copy(items, all[start:end])
	return NewPage(items, total, params)
}
