package model

import (
	"net/url"
	"strconv"
	"time"
)

// Query parameter names used by the backend list endpoints.
const (
	ParamPage   = "page"
	ParamLimit  = "limit"
	ParamSearch = "search"
	ParamStatus = "status"
	ParamType   = "type"
	ParamRole   = "role"
)

// Bounds applied to list requests before a network call is issued.
const (
	MinPage         = 1
	MinPageSize     = 1
	MaxPageSize     = 100
	DefaultPageSize = 10
)

// FacetAll is the sentinel facet value meaning "no constraint". Categorical
// filters set to it (or left empty) are omitted from the query string
// entirely, never sent as empty strings that would over-constrain the backend.
const FacetAll = "all"

// QueryRequest is an immutable description of one list fetch.
type QueryRequest struct {
	Page     int
	PageSize int
	Search   string
	Status   string
	Type     string
	Role     string
	// Facets carries additional categorical filters forwarded verbatim as
	// query parameters, subject to the same sentinel omission.
	Facets map[string]string
}

// Normalize returns a copy with page and page size clamped into bounds.
func (q QueryRequest) Normalize() QueryRequest {
	if q.Page < MinPage {
		q.Page = MinPage
	}
	if q.PageSize < MinPageSize {
		q.PageSize = DefaultPageSize
	}
	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}
	return q
}

// WithPage returns a copy targeting the given page.
func (q QueryRequest) WithPage(page int) QueryRequest {
	q.Page = page
	return q.Normalize()
}

// Values renders the request as URL query parameters. Categorical filters
// whose value is empty or the "all" sentinel are omitted; search is free text,
// so it is omitted only when empty ("all" is a legitimate search term).
func (q QueryRequest) Values() url.Values {
	q = q.Normalize()
	v := url.Values{}
	v.Set(ParamPage, strconv.Itoa(q.Page))
	v.Set(ParamLimit, strconv.Itoa(q.PageSize))
	if q.Search != "" {
		v.Set(ParamSearch, q.Search)
	}
	setFacet(v, ParamStatus, q.Status)
	setFacet(v, ParamType, q.Type)
	setFacet(v, ParamRole, q.Role)
	for name, value := range q.Facets {
		setFacet(v, name, value)
	}
	return v
}

func setFacet(v url.Values, name, value string) {
	if value == "" || value == FacetAll {
		return
	}
	v.Set(name, value)
}

// Pagination mirrors the pagination block returned by the backend.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// Clamp forces Page into 1..max(1, Pages). The backend is expected to return a
// consistent block; this guards local state against a misbehaving response.
func (p Pagination) Clamp() Pagination {
	pages := p.Pages
	if pages < 1 {
		pages = 1
	}
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Page > pages {
		p.Page = pages
	}
	return p
}

// QueryResult is one loaded page of a list resource. Items keep the server
// order; the client never re-sorts them.
type QueryResult[T any] struct {
	Items      []T
	Pagination Pagination
	FetchedAt  time.Time
}
