package resource

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Searchable records expose the fields matched by the search box.
type Searchable interface {
	SearchFields() []string
}

// Sortable records expose a value per sort key. Unknown keys return nil.
type Sortable interface {
	SortValue(key string) any
}

// Viewable is the constraint for records rendered through Derive.
type Viewable interface {
	Searchable
	Sortable
}

// Query holds the operator-controlled inputs of a derived view.
type Query struct {
	Search   string
	SortKey  string
	Desc     bool
	Page     int
	PageSize int
}

// ToggleSort selects key as the sort column. Selecting the current key flips
// the direction; a new key starts ascending. The page resets to 1.
func (q *Query) ToggleSort(key string) {
	if q.SortKey == key {
		q.Desc = !q.Desc
	} else {
		q.SortKey = key
		q.Desc = false
	}
	q.Page = 1
}

// SetSearch changes the search term and resets the page to 1.
func (q *Query) SetSearch(term string) {
	q.Search = term
	q.Page = 1
}

// NextPage and PrevPage move the page window; Derive clamps the result.
func (q *Query) NextPage() { q.Page++ }

func (q *Query) PrevPage() {
	if q.Page > 1 {
		q.Page--
	}
}

// Page is one window of a derived view.
type Page[T any] struct {
	Items     []T
	Page      int // clamped, 1-based
	PageCount int // at least 1
	Total     int // matching records before slicing
}

// Offset is the index of Items[0] within the filtered collection.
func (p Page[T]) Offset(pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	return (p.Page - 1) * pageSize
}

// Derive filters, sorts and paginates items. The input slice is not modified.
func Derive[T Viewable](items []T, q Query) Page[T] {
	filtered := Filter(items, q.Search)
	if q.SortKey != "" {
		SortBy(filtered, q.SortKey, q.Desc)
	}
	return Paginate(filtered, q.Page, q.PageSize)
}

// Filter keeps records where term, as typed, is a case-insensitive substring
// of one of their search fields. An empty term keeps everything.
func Filter[T Searchable](items []T, term string) []T {
	needle := strings.ToLower(term)
	out := make([]T, 0, len(items))
	for _, item := range items {
		if needle == "" || matches(item.SearchFields(), needle) {
			out = append(out, item)
		}
	}
	return out
}

func matches(fields []string, needle string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

// SortBy stable-sorts items in place by key.
func SortBy[T Sortable](items []T, key string, desc bool) {
	slices.SortStableFunc(items, func(a, b T) int {
		c := CompareValues(a.SortValue(key), b.SortValue(key))
		if desc {
			return -c
		}
		return c
	})
}

// Paginate clamps page to [1, max(1, pageCount)] and slices the window.
// pageSize <= 0 yields a single page holding everything.
func Paginate[T any](items []T, page, pageSize int) Page[T] {
	total := len(items)
	if pageSize <= 0 {
		return Page[T]{Items: items, Page: 1, PageCount: 1, Total: total}
	}
	pageCount := (total + pageSize - 1) / pageSize
	if pageCount < 1 {
		pageCount = 1
	}
	page = max(1, min(page, pageCount))
	start := (page - 1) * pageSize
	end := min(start+pageSize, total)
	return Page[T]{Items: items[start:end], Page: page, PageCount: pageCount, Total: total}
}

// CompareValues orders two sort values. Numbers compare numerically with nil
// treated as zero, strings compare case-insensitively, false sorts before
// true, and times chronologically. Mixed kinds fall back to their string form.
func CompareValues(a, b any) int {
	an, aNum := toNumber(a)
	bn, bNum := toNumber(b)
	if (aNum || a == nil) && (bNum || b == nil) && (aNum || bNum) {
		return compareFloat(an, bn)
	}

	switch av := a.(type) {
	case bool:
		if bv, ok := b.(bool); ok {
			return compareBool(av, bv)
		}
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			return av.Compare(bv)
		}
	}
	return compareString(toString(a), toString(b))
}

func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func toString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	}
	return fmt.Sprint(v)
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	}
	return 1
}

func compareString(a, b string) int {
	if c := strings.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}
