package params

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultLimit = 15
	MaxLimit     = 30
)

// Pagination is read from ?page=&limit= and completed with ComputeMeta once the
// total row count is known. /v1/freelancers/7/reviews?page=2&limit=10 gives
// LIMIT 10 OFFSET 10.
type Pagination struct {
	Limit      int  `json:"limit"`
	Offset     int  `json:"offset"`
	Page       int  `json:"page"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// positiveInt returns the trimmed integer value of key, or 0 when it is missing,
// malformed or not positive.
func positiveInt(q url.Values, key string) int {
	n, err := strconv.Atoi(strings.TrimSpace(q.Get(key)))
	if err != nil || n <= 0 {
		return 0
	}
	return n
}

// ParsePagination never fails: bad values fall back to page 1 and DefaultLimit,
// and limit is capped at MaxLimit. Keys are case sensitive.
func ParsePagination(q url.Values) Pagination {
	limit := positiveInt(q, "limit")
	switch {
	case limit == 0:
		limit = DefaultLimit
	case limit > MaxLimit:
		limit = MaxLimit
	}

	page := max(positiveInt(q, "page"), 1)

	return Pagination{
		Limit:  limit,
		Page:   page,
		Offset: (page - 1) * limit,
	}
}

// ComputeMeta fills the totals after the count query.
func (p *Pagination) ComputeMeta(total int) {
	p.Total = total
	if p.Limit > 0 {
		p.TotalPages = int(math.Ceil(float64(total) / float64(p.Limit)))
	}
	p.HasPrev = p.Page > 1
	p.HasNext = p.Page*p.Limit < total
}
