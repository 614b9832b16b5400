// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination provides client-side, fixed-size page slicing.
//
// # Overview
//
// Moderation tables receive their whole collection in one response and page
// through it locally. Pages are 1-indexed; a page outside the valid range is
// clamped rather than rejected.
package pagination

const (
	// DefaultPage is the starting page (1-indexed).
	DefaultPage = 1
)

// Meta is the pagination metadata of one rendered page.
type Meta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewMeta constructs pagination metadata.
//
// It automatically calculates the TotalPages based on the total count and limit.
func NewMeta(page, limit, total int) Meta {
	return Meta{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: PageCount(total, limit),
	}
}

// HasPrev reports whether a previous page exists.
func (m Meta) HasPrev() bool { return m.Page > 1 }

// HasNext reports whether a next page exists.
func (m Meta) HasNext() bool { return m.Page < m.TotalPages }

// PageCount returns ceil(total/limit), or 0 for an empty collection.
func PageCount(total, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

// Clamp keeps page inside [1, totalPages]. An empty collection has page 1.
func Clamp(page, totalPages int) int {
	if page > totalPages {
		page = totalPages
	}
	if page < DefaultPage {
		page = DefaultPage
	}
	return page
}

// Slice returns the items of the given page (after clamping) and its metadata.
//
// # Example
//
//	items, meta := pagination.Slice(reports, 3, 5) // items 11..15
func Slice[T any](items []T, page, limit int) ([]T, Meta) {
	total := len(items)
	meta := NewMeta(Clamp(page, PageCount(total, limit)), limit, total)

	if total == 0 || limit <= 0 {
		return nil, meta
	}

	start := (meta.Page - 1) * limit
	end := start + limit
	if end > total {
		end = total
	}

	return items[start:end], meta
}
