package domain

// PageRequest is a normalised 1-based page/limit pair.
type PageRequest struct {
	Page  int
	Limit int
}

// NewPageRequest clamps page to >= 1 and limit to [1, maxLimit], substituting def for limit < 1.
func NewPageRequest(page, limit, def, maxLimit int) PageRequest {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = def
	}
	if maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}
	return PageRequest{Page: page, Limit: limit}
}

// Offset is the zero-based index of the first item of the page.
func (p PageRequest) Offset() int { return (p.Page - 1) * p.Limit }

// Page is one slice of an ordered result set.
type Page[T any] struct {
	Items []T
	Total int
	Page  int
	Limit int
}

// NewPage builds a page for req. A nil items slice is replaced by an empty one.
func NewPage[T any](items []T, total int, req PageRequest) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, Total: total, Page: req.Page, Limit: req.Limit}
}

// HasNext reports whether items exist past this page.
func (p Page[T]) HasNext() bool { return p.offset()+p.Limit < p.Total }

// HasPrev reports whether this is not the first page.
func (p Page[T]) HasPrev() bool { return p.offset() > 0 }

// TotalPages is ceil(Total / Limit).
func (p Page[T]) TotalPages() int {
	if p.Limit <= 0 {
		return 0
	}
	return (p.Total + p.Limit - 1) / p.Limit
}

func (p Page[T]) offset() int { return (p.Page - 1) * p.Limit }

// MapPage converts the items of a page, keeping its position.
func MapPage[T, U any](p Page[T], fn func(T) U) Page[U] {
	out := make([]U, len(p.Items))
	for i, it := range p.Items {
		out[i] = fn(it)
	}
	return Page[U]{Items: out, Total: p.Total, Page: p.Page, Limit: p.Limit}
}

// Scored is a full-text hit with its relevance score.
type Scored[T any] struct {
	Item  T
	Score float64
}
