// Package listing implements the fetch-filter-present cycle shared by the
// listing views: parallel loading of raw record sets, AND-combined predicates
// over them, and the positional featured split.
package listing

import "strings"

// All is the selection that lets every record through.
const All = "all"

// Predicate reports whether a record should stay visible.
type Predicate[T any] func(T) bool

// Selection normalizes a user selection, mapping the empty string to All.
func Selection(v string) string {
	if v == "" {
		return All
	}
	return v
}

// Filter returns the records of raw that pass every predicate, in their
// original order. raw is never modified and the result is never nil.
func Filter[T any](raw []T, preds ...Predicate[T]) []T {
	out := make([]T, 0, len(raw))
	for _, r := range raw {
		if keep(r, preds) {
			out = append(out, r)
		}
	}
	return out
}

func keep[T any](r T, preds []Predicate[T]) bool {
	for _, p := range preds {
		if p != nil && !p(r) {
			return false
		}
	}
	return true
}

// MatchRef matches records whose optional reference equals selected.
// A record with no reference only passes the All selection.
func MatchRef[T any](selected string, ref func(T) *string) Predicate[T] {
	selected = Selection(selected)
	return func(r T) bool {
		if selected == All {
			return true
		}
		v := ref(r)
		return v != nil && *v == selected
	}
}

// MatchValue matches records whose field equals selected.
func MatchValue[T any](selected string, field func(T) string) Predicate[T] {
	selected = Selection(selected)
	return func(r T) bool {
		return selected == All || field(r) == selected
	}
}

// MatchText is a case-insensitive substring search over the record's title
// and, when present, its secondary text. An empty query matches everything.
func MatchText[T any](query string, title func(T) string, detail func(T) *string) Predicate[T] {
	needle := strings.ToLower(query)
	return func(r T) bool {
		if needle == "" {
			return true
		}
		if strings.Contains(strings.ToLower(title(r)), needle) {
			return true
		}
		if detail == nil {
			return false
		}
		d := detail(r)
		return d != nil && strings.Contains(strings.ToLower(*d), needle)
	}
}

// Split cuts items into the first min(n, len) elements and the rest.
// Both halves are non-nil.
func Split[T any](items []T, n int) (head, tail []T) {
	if n < 0 {
		n = 0
	}
	if n > len(items) {
		n = len(items)
	}
	head = append(make([]T, 0, n), items[:n]...)
	tail = append(make([]T, 0, len(items)-n), items[n:]...)
	return head, tail
}
