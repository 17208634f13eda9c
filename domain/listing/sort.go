package listing

import (
	"slices"

	"ifn-backend/domain/core/valueobjects"
)

// SortByDateDesc orders items newest first. The sort is stable: items on the
// same day keep their input order. Items without a usable date are dropped
// and reported. The input slice is not modified.
func SortByDateDesc[T any](items []T, s Schema[T]) Outcome[T] {
	type dated struct {
		item T
		day  valueobjects.Day
	}

	keyed := make([]dated, 0, len(items))
	var out Outcome[T]
	for _, item := range items {
		d, ok := s.Day(item)
		if !ok {
			out.Malformed = append(out.Malformed, s.malformed(item, s.DateField))
			continue
		}
		keyed = append(keyed, dated{item: item, day: d})
	}

	slices.SortStableFunc(keyed, func(a, b dated) int {
		return b.day.Compare(a.day)
	})

	out.Items = make([]T, len(keyed))
	for i, k := range keyed {
		out.Items[i] = k.item
	}
	return out
}
