// Package filter narrows the currently loaded page for instant local
// interactions. Every predicate is pure and synchronous: no fetching, no
// re-pagination, no mutation of the input slice.
package filter

import (
	"strings"
	"time"

	"github.com/trustidity/trustidity-go/model"
)

// Predicate decides whether an item stays in the view.
type Predicate[T any] func(T) bool

// Apply returns the items matching all predicates, preserving order. The
// input slice is never mutated.
func Apply[T any](items []T, predicates ...Predicate[T]) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		keep := true
		for _, p := range predicates {
			if !p(item) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, item)
		}
	}
	return out
}

// Text builds a case-insensitive substring predicate over a named field set.
// Empty search text matches everything; otherwise an item matches when any
// designated field contains the text.
func Text[T any](search string, fields func(T) []string) Predicate[T] {
	search = strings.ToLower(strings.TrimSpace(search))
	return func(item T) bool {
		if search == "" {
			return true
		}
		for _, field := range fields(item) {
			if strings.Contains(strings.ToLower(field), search) {
				return true
			}
		}
		return false
	}
}

// Facet builds an exact-match predicate with the "all" sentinel meaning no
// constraint.
func Facet[T any](selected string, value func(T) string) Predicate[T] {
	return func(item T) bool {
		if selected == "" || selected == model.FacetAll {
			return true
		}
		return value(item) == selected
	}
}

// Window is a relative date-window tag.
type Window string

const (
	Window7Days  Window = "7days"
	Window30Days Window = "30days"
	Window90Days Window = "90days"
	WindowAll    Window = "all"
)

// days returns the window size, or -1 for the unbounded window. Unknown tags
// behave as unbounded rather than silently hiding rows.
func (w Window) days() int {
	switch w {
	case Window7Days:
		return 7
	case Window30Days:
		return 30
	case Window90Days:
		return 90
	default:
		return -1
	}
}

// Contains reports whether ts falls inside the window relative to now.
// The difference is truncated to whole days, so the window rolls with the
// caller's clock: two calls a day apart can include different items.
func (w Window) Contains(now, ts time.Time) bool {
	days := w.days()
	if days < 0 {
		return true
	}
	diff := int(now.Sub(ts).Hours() / 24)
	return diff <= days
}

// InWindow builds a date-window predicate against the given now.
func InWindow[T any](w Window, now time.Time, date func(T) time.Time) Predicate[T] {
	return func(item T) bool {
		return w.Contains(now, date(item))
	}
}
