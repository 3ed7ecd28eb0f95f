// Package repository implements the data access layer for the application.
package repository

// Page describes one page of a filtered, ordered result set.
type Page struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

const maxPageLimit = 100

// NormalizePage clamps page/limit to sane bounds.
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}

// NewPage computes the page descriptor for a total row count.
func NewPage(page, limit int, total int64) Page {
	pages := int((total + int64(limit) - 1) / int64(limit))
	return Page{Page: page, Limit: limit, Total: total, Pages: pages}
}
