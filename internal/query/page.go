package query

// Page is one page of results plus the metadata clients need to compute
// total pages.
type Page[T any] struct {
	Items   []T
	Page    int // 1-based
	Limit   int
	Total   int64 // full filtered set, independent of the page window
	HasNext bool
	HasPrev bool
}

func NewPage[T any](items []T, page, limit int, total int64) Page[T] {
	end := int64(page) * int64(limit)
	return Page[T]{
		Items:   items,
		Page:    page,
		Limit:   limit,
		Total:   total,
		HasNext: end < total,
		HasPrev: page > 1,
	}
}
