package common

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// PaginationParams represents pagination parameters
type PaginationParams struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// ExtractPaginationParams reads page and page_size. Missing values take the
// defaults; present values are passed through unchecked so the paginator can
// reject them with its own error.
func ExtractPaginationParams(r *http.Request, defaultPageSize int) (PaginationParams, error) {
	params := PaginationParams{Page: 1, PageSize: defaultPageSize}
	q := r.URL.Query()

	var err error
	if params.Page, err = intParam(q.Get("page"), params.Page); err != nil {
		return params, fmt.Errorf("page: %w", err)
	}
	if params.PageSize, err = intParam(q.Get("page_size"), params.PageSize); err != nil {
		return params, fmt.Errorf("page_size: %w", err)
	}
	return params, nil
}

func intParam(raw string, fallback int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", raw)
	}
	return n, nil
}

// PaginationInfo contains pagination details
type PaginationInfo struct {
	Page       int  `json:"page"`
	PageSize   int  `json:"page_size"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// BuildPaginationMeta builds pagination metadata for a served page
func BuildPaginationMeta(page, pageSize, total, totalPages int) *PaginationInfo {
	return &PaginationInfo{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}
