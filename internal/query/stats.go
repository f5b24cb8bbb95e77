package query

import "github.com/trustidity/trustidity-go/model"

// Stats is the reduction recomputed synchronously after every successful
// fetch. Total comes from the server's pagination count; only the category
// breakdown is page-local, and it is labelled as such.
type Stats struct {
	// Total is the full result-set size reported by the backend.
	Total int
	// PageCount is the number of items on the loaded page.
	PageCount int
	// PageByCategory buckets the loaded page's items by the controller's
	// Classify function. It describes the current page only, never the full
	// result set.
	PageByCategory map[string]int
}

// computeStats reduces the loaded page. An empty page produces zero counts.
func computeStats[T any](items []T, p model.Pagination, classify func(T) string) Stats {
	s := Stats{
		Total:     p.Total,
		PageCount: len(items),
	}
	if classify == nil {
		return s
	}
	s.PageByCategory = make(map[string]int)
	for _, item := range items {
		s.PageByCategory[classify(item)]++
	}
	return s
}
