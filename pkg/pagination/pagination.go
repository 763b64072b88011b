// Package pagination implements paged search with eager association loading.
//
// A search runs in two steps so that joins against collections never multiply
// or drop rows inside a page:
//
//  1. PageIDs selects DISTINCT ids (plus the sort key) matching the filter,
//     ordered and sliced to the page window. Count runs COUNT(DISTINCT id)
//     with the identical predicate.
//  2. Hydrate loads exactly those ids with their associations eagerly fetched.
//
// Search then maps the hydrated rows to DTOs in step-1 order. Page metadata
// always comes from step 1, so a row deleted between the two steps makes the
// page shorter but never changes the total.
package pagination

import (
	"fmt"
	"math"
	"strings"
	"sync/atomic"
)

// Limits bounds page sizes.
type Limits struct {
	DefaultSize int
	MaxSize     int
}

// DefaultLimits applies until Configure runs.
func DefaultLimits() Limits {
	return Limits{DefaultSize: 12, MaxSize: 100}
}

var active atomic.Pointer[Limits]

// Configure installs the process-wide limits used by PageRequest.Normalize.
// main calls it once from configuration before the services are wired; code
// that needs other bounds calls Limits.Normalize directly.
func Configure(l Limits) error {
	if l.DefaultSize <= 0 || (l.MaxSize > 0 && l.MaxSize < l.DefaultSize) {
		return fmt.Errorf("invalid page limits: default=%d max=%d", l.DefaultSize, l.MaxSize)
	}
	active.Store(&l)
	return nil
}

// ActiveLimits returns the configured limits, or DefaultLimits.
func ActiveLimits() Limits {
	if l := active.Load(); l != nil {
		return *l
	}
	return DefaultLimits()
}

// PageRequest is a zero-based page window plus an optional sort.
type PageRequest struct {
	Page int    `json:"page"`
	Size int    `json:"size"`
	Sort string `json:"sort,omitempty"` // field name, mapped to a column by the repository
	Desc bool   `json:"desc,omitempty"`
}

// Of builds a PageRequest sorted ascending by sort.
func Of(page, size int, sort string) PageRequest {
	return PageRequest{Page: page, Size: size, Sort: sort}
}

// Normalize clamps the request with ActiveLimits.
func (r PageRequest) Normalize() PageRequest {
	return ActiveLimits().Normalize(r)
}

// Normalize clamps page and size.
func (l Limits) Normalize(r PageRequest) PageRequest {
	if r.Page < 0 {
		r.Page = 0
	}
	if r.Size <= 0 {
		r.Size = l.DefaultSize
	}
	if l.MaxSize > 0 && r.Size > l.MaxSize {
		r.Size = l.MaxSize
	}
	return r
}

// Offset is the number of rows before this page. It saturates at
// math.MaxInt instead of overflowing for huge page indexes.
func (r PageRequest) Offset() int {
	if r.Page <= 0 || r.Size <= 0 {
		return 0
	}
	if r.Page > math.MaxInt/r.Size {
		return math.MaxInt
	}
	return r.Page * r.Size
}

// Beyond reports whether the page starts at or after row total, i.e. whether
// it has no content. It compares page indexes, so Page*Size never overflows.
func (r PageRequest) Beyond(total int64) bool {
	if r.Size <= 0 || total <= 0 {
		return true
	}
	pages := (total + int64(r.Size) - 1) / int64(r.Size)
	return int64(r.Page) >= pages
}

// SortOr returns the requested sort field, or def when none was given.
func (r PageRequest) SortOr(def string) string {
	if r.Sort == "" {
		return def
	}
	return r.Sort
}

// ParseSort splits a "field,dir" sort parameter. Direction defaults to ascending.
func ParseSort(s string) (field string, desc bool) {
	field, dir, _ := strings.Cut(strings.TrimSpace(s), ",")
	field = strings.TrimSpace(field)
	desc = strings.EqualFold(strings.TrimSpace(dir), "desc")
	return field, desc
}

// Page is one window of a result set.
type Page[T any] struct {
	Content       []T   `json:"content"`
	PageNumber    int   `json:"page_number"`
	PageSize      int   `json:"page_size"`
	TotalElements int64 `json:"total_elements"`
	TotalPages    int   `json:"total_pages"`
	First         bool  `json:"first"`
	Last          bool  `json:"last"`
	Empty         bool  `json:"empty"`
}

// NewPage assembles page metadata from the request and the filtered total.
func NewPage[T any](content []T, req PageRequest, total int64) *Page[T] {
	if content == nil {
		content = []T{}
	}
	totalPages := 0
	if req.Size > 0 {
		totalPages = int((total + int64(req.Size) - 1) / int64(req.Size))
	}
	return &Page[T]{
		Content:       content,
		PageNumber:    req.Page,
		PageSize:      req.Size,
		TotalElements: total,
		TotalPages:    totalPages,
		First:         req.Page == 0,
		Last:          req.Page+1 >= totalPages,
		Empty:         len(content) == 0,
	}
}

// Map converts the content of a page and keeps its metadata.
func Map[T, D any](p *Page[T], fn func(T) D) *Page[D] {
	out := make([]D, len(p.Content))
	for i, v := range p.Content {
		out[i] = fn(v)
	}
	return &Page[D]{
		Content:       out,
		PageNumber:    p.PageNumber,
		PageSize:      p.PageSize,
		TotalElements: p.TotalElements,
		TotalPages:    p.TotalPages,
		First:         p.First,
		Last:          p.Last,
		Empty:         len(out) == 0,
	}
}
