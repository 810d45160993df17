// Package pagination slices ordered result sets into fixed-size pages.
package pagination

import "strconv"

// Paginator produces page windows of a fixed size. The size comes from
// configuration; call sites never hard-code it.
type Paginator struct {
	PageSize int
}

// Page describes one window over an ordered result set. Offset and Limit are
// ready to feed into a repository query; the remaining fields are template
// context for pagination controls.
type Page struct {
	Number     int  `json:"number"`
	TotalPages int  `json:"total_pages"`
	TotalItems int  `json:"total_items"`
	Offset     int  `json:"-"`
	Limit      int  `json:"-"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// New returns a Paginator with the given page size. Sizes below 1 fall back
// to a single-item page rather than panicking at request time.
func New(pageSize int) Paginator {
	if pageSize < 1 {
		pageSize = 1
	}
	return Paginator{PageSize: pageSize}
}

// Page resolves the raw `page` query value against the total item count.
// Absent, non-numeric, zero, and negative values resolve to page 1; values
// beyond the last page clamp to the last page. An empty result set still has
// one (empty) page so every request renders.
func (p Paginator) Page(totalItems int, raw string) Page {
	if totalItems < 0 {
		totalItems = 0
	}

	totalPages := (totalItems + p.PageSize - 1) / p.PageSize
	if totalPages < 1 {
		totalPages = 1
	}

	number := 1
	if n, err := strconv.Atoi(raw); err == nil && n > 1 {
		number = n
	}
	if number > totalPages {
		number = totalPages
	}

	return Page{
		Number:     number,
		TotalPages: totalPages,
		TotalItems: totalItems,
		Offset:     (number - 1) * p.PageSize,
		Limit:      p.PageSize,
		HasNext:    number < totalPages,
		HasPrev:    number > 1,
	}
}
