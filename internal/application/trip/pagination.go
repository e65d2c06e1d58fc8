package trip

import "math"

const (
	DefaultLimit = 10
	MaxLimit     = 50
)

type PageRequest struct {
	Page  int
	Limit int
}

// NewPageRequest clamps display paging input instead of rejecting it.
func NewPageRequest(page, limit int) PageRequest {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	// (page-1)*limit must stay a valid non-negative offset.
	if maxPage := math.MaxInt32 / limit; page > maxPage {
		page = maxPage
	}
	return PageRequest{Page: page, Limit: limit}
}

func (p PageRequest) Offset() int { return (p.Page - 1) * p.Limit }

type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
}

func NewPagination(p PageRequest, total int) Pagination {
	p = NewPageRequest(p.Page, p.Limit)
	pages := 0
	if total > 0 {
		pages = (total + p.Limit - 1) / p.Limit
	}
	return Pagination{
		Page:       p.Page,
		Limit:      p.Limit,
		Total:      total,
		TotalPages: pages,
		HasNext:    p.Page < pages,
	}
}
