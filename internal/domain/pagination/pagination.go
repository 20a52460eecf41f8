// Package pagination holds the shared page/limit/sort options and result
// metadata used by every list operation.
package pagination

// DefaultLimit is applied when a request does not specify a page size.
const DefaultLimit = 10

// Options controls a paginated query. SortBy uses the "field:direction"
// form, e.g. "createdAt:desc". An empty SortBy leaves ordering to the
// repository default.
type Options struct {
	Page   int
	Limit  int
	SortBy string
}

// Normalize returns a copy with page and limit clamped to sane values.
func (o Options) Normalize() Options {
	if o.Page < 1 {
		o.Page = 1
	}
	if o.Limit < 1 {
		o.Limit = DefaultLimit
	}
	return o
}

// Offset returns the row offset for the normalized options.
func (o Options) Offset() int {
	return (o.Page - 1) * o.Limit
}

// Meta describes the page of results actually returned.
type Meta struct {
	Page         int `json:"page"`
	Limit        int `json:"limit"`
	TotalPages   int `json:"totalPages"`
	TotalResults int `json:"totalResults"`
}

// NewMeta computes page metadata from normalized options and a total row count.
func NewMeta(o Options, total int) Meta {
	pages := total / o.Limit
	if total%o.Limit != 0 {
		pages++
	}
	return Meta{
		Page:         o.Page,
		Limit:        o.Limit,
		TotalPages:   pages,
		TotalResults: total,
	}
}
