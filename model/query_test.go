package model

import "testing"

func TestQueryRequest_normalizeClampsBounds(t *testing.T) {
	q := QueryRequest{Page: 0, PageSize: 500}.Normalize()
	if q.Page != 1 {
		t.Errorf("Page = %d, want 1", q.Page)
	}
	if q.PageSize != MaxPageSize {
		t.Errorf("PageSize = %d, want %d", q.PageSize, MaxPageSize)
	}

	q = QueryRequest{Page: -3, PageSize: 0}.Normalize()
	if q.Page != 1 || q.PageSize != DefaultPageSize {
		t.Errorf("got page=%d size=%d, want 1/%d", q.Page, q.PageSize, DefaultPageSize)
	}
}

func TestQueryRequest_valuesOmitsSentinels(t *testing.T) {
	q := QueryRequest{
		Page:     2,
		PageSize: 25,
		Search:   "alice",
		Status:   FacetAll,
		Type:     "",
		Role:     "employer",
		Facets:   map[string]string{"window": "7days", "plan": FacetAll},
	}

	v := q.Values()
	if got := v.Get(ParamPage); got != "2" {
		t.Errorf("page = %q, want 2", got)
	}
	if got := v.Get(ParamLimit); got != "25" {
		t.Errorf("limit = %q, want 25", got)
	}
	if got := v.Get(ParamSearch); got != "alice" {
		t.Errorf("search = %q, want alice", got)
	}
	if _, present := v[ParamStatus]; present {
		t.Error("status sentinel should be omitted entirely")
	}
	if _, present := v[ParamType]; present {
		t.Error("empty type should be omitted entirely")
	}
	if got := v.Get(ParamRole); got != "employer" {
		t.Errorf("role = %q, want employer", got)
	}
	if got := v.Get("window"); got != "7days" {
		t.Errorf("window = %q, want 7days", got)
	}
	if _, present := v["plan"]; present {
		t.Error("facet sentinel should be omitted entirely")
	}
}

func TestQueryRequest_searchIsFreeTextNotAFacet(t *testing.T) {
	// A user searching for the literal word "all" still constrains the query;
	// the sentinel applies to categorical filters only.
	v := QueryRequest{Search: "all"}.Values()
	if got := v.Get(ParamSearch); got != "all" {
		t.Errorf("search = %q, want the literal text preserved", got)
	}

	v = QueryRequest{Search: ""}.Values()
	if _, present := v[ParamSearch]; present {
		t.Error("empty search should be omitted entirely")
	}
}

func TestPagination_clamp(t *testing.T) {
	cases := []struct {
		name string
		in   Pagination
		want int
	}{
		{"within range", Pagination{Page: 2, Pages: 3}, 2},
		{"beyond last page", Pagination{Page: 5, Pages: 3}, 3},
		{"zero pages", Pagination{Page: 5, Pages: 0}, 1},
		{"zero page", Pagination{Page: 0, Pages: 4}, 1},
	}
	for _, tc := range cases {
		if got := tc.in.Clamp().Page; got != tc.want {
			t.Errorf("%s: page = %d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestKindFromStatus(t *testing.T) {
	cases := map[int]ErrorKind{
		429: KindThrottled,
		401: KindUnauthorized,
		403: KindForbidden,
		404: KindNotFound,
		409: KindConflict,
		400: KindValidation,
		422: KindValidation,
		504: KindTimeout,
		500: KindServerError,
		502: KindServerError,
	}
	for status, want := range cases {
		if got := KindFromStatus(status); got != want {
			t.Errorf("KindFromStatus(%d) = %v, want %v", status, got, want)
		}
	}
}

func TestNewHTTPError_synthesizesMessage(t *testing.T) {
	err := NewHTTPError(503, "")
	if err.Message != "HTTP 503: Service Unavailable" {
		t.Errorf("message = %q", err.Message)
	}
	err = NewHTTPError(429, "slow down")
	if err.Message != "slow down" {
		t.Errorf("message = %q, want body message preserved", err.Message)
	}
	if !err.Retryable() {
		t.Error("429 error should be retryable")
	}
	if NewHTTPError(500, "").Retryable() {
		t.Error("500 error should not be retryable")
	}
}
