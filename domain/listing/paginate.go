package listing

import "ifn-backend/pkg/errors"

// PageRequest selects one page. Both fields are 1-based and positive.
type PageRequest struct {
	Number int `json:"page"`
	Size   int `json:"page_size"`
}

// FirstPage returns page 1 of the given size
func FirstPage(size int) PageRequest {
	return PageRequest{Number: 1, Size: size}
}

// Validate checks the request shape
func (r PageRequest) Validate() error {
	if r.Size <= 0 || r.Number < 1 {
		return errors.NewInvalidPageRequest(r.Number, r.Size)
	}
	return nil
}

// PageResult is one page of an ordered sequence. It is derived on demand.
type PageResult[T any] struct {
	Items      []T
	Number     int
	Size       int
	TotalPages int
	TotalItems int
}

// HasPrev reports whether a previous page exists
func (p PageResult[T]) HasPrev() bool { return p.Number > 1 }

// HasNext reports whether a following page exists
func (p PageResult[T]) HasNext() bool { return p.Number < p.TotalPages }

// IsEmpty reports whether the underlying sequence has no items
func (p PageResult[T]) IsEmpty() bool { return p.TotalItems == 0 }

// FirstIndex returns the 1-based position of the first item, 0 when empty
func (p PageResult[T]) FirstIndex() int {
	if p.TotalItems == 0 {
		return 0
	}
	return (p.Number-1)*p.Size + 1
}

// LastIndex returns the 1-based position of the last item, 0 when empty
func (p PageResult[T]) LastIndex() int {
	return min(p.Number*p.Size, p.TotalItems)
}

// TotalPages returns ceil(total/size), never less than 1
func TotalPages(total, size int) int {
	if size <= 0 || total <= 0 {
		return 1
	}
	return (total + size - 1) / size
}

// Paginate slices one page out of items. A page past the end is clamped to
// the last page; an empty sequence yields page 1 of 1 with no items.
func Paginate[T any](items []T, req PageRequest) (PageResult[T], error) {
	if err := req.Validate(); err != nil {
		return PageResult[T]{}, err
	}

	total := len(items)
	pages := TotalPages(total, req.Size)
	number := min(req.Number, pages)

	start := min((number-1)*req.Size, total)
	end := min(start+req.Size, total)

	page := make([]T, end-start)
	copy(page, items[start:end])

	return PageResult[T]{
		Items:      page,
		Number:     number,
		Size:       req.Size,
		TotalPages: pages,
		TotalItems: total,
	}, nil
}
