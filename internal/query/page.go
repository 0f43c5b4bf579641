package query

import "strings"

// Pagination defaults and bounds. limit is clamped to [1, MaxLimit]
// with DefaultLimit substituted for zero or negative values.
const (
	DefaultPage   = 1
	DefaultLimit  = 10
	MaxLimit      = 100
	DefaultSortBy = "submissionTimestamp"
)

// PageRequest holds raw pagination/sorting inputs as parsed from query
// parameters. Zero values mean "not provided".
type PageRequest struct {
	Page     int
	Limit    int
	SortBy   string // API field name; validated by the record store, not here
	SortType string // "asc" or "desc"
}

// PageSpec is the resolved pagination handed to the record store plus
// the echoed page/limit for the response envelope.
type PageSpec struct {
	Page     int    // echoed back to the client
	Limit    int    // rows per page, also echoed
	Offset   int    // (Page-1)*Limit
	SortBy   string // API field name, resolved to a column by the store
	SortType string // normalized "asc" or "desc"
}

// Resolve clamps a PageRequest into a concrete PageSpec. It never
// errors: page values below 1 become 1, a non-positive limit falls back
// to the default and oversized limits are capped. SortBy is passed
// through untouched; an unknown field name is rejected by the record
// store when the query is built (see repository.ErrBadSortField).
func Resolve(r PageRequest) PageSpec {
	page := r.Page
	if page < 1 {
		page = DefaultPage
	}
	limit := r.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	sortBy := strings.TrimSpace(r.SortBy)
	if sortBy == "" {
		sortBy = DefaultSortBy
	}
	sortType := strings.ToLower(strings.TrimSpace(r.SortType))
	if sortType != "asc" && sortType != "desc" {
		sortType = "desc"
	}
	return PageSpec{
		Page:     page,
		Limit:    limit,
		Offset:   (page - 1) * limit,
		SortBy:   sortBy,
		SortType: sortType,
	}
}
