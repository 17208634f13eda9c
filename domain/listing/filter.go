package listing

import (
	"strings"

	"ifn-backend/pkg/errors"
)

// Outcome carries the surviving items of a stage and the items it had to drop
type Outcome[T any] struct {
	Items     []T
	Malformed []*errors.AppError
}

// Filter keeps the items satisfying every present criterion, in input order.
// Items lacking a field that a present criterion needs are excluded and reported.
// An unknown preset is treated as absent; Schema.Validate catches it upstream.
func Filter[T any](items []T, c Criteria, s Schema[T]) Outcome[T] {
	out := Outcome[T]{Items: make([]T, 0, len(items))}

	needle := c.Needle()
	category := strings.TrimSpace(c.Category)
	useCategory := !s.IsSentinel(category) && s.CategoryField != ""
	useDate := c.HasDate() && s.DateField != ""
	preset, usePreset := s.Preset(c.Preset)

	for _, item := range items {
		if needle != "" {
			matched, present := matchText(item, needle, s)
			if !present {
				out.Malformed = append(out.Malformed, s.malformed(item, firstOr(s.SearchFields, "texto")))
				continue
			}
			if !matched {
				continue
			}
		}

		if useCategory {
			v, ok := s.Get(item, s.CategoryField)
			if !ok {
				out.Malformed = append(out.Malformed, s.malformed(item, s.CategoryField))
				continue
			}
			if strings.TrimSpace(v.Text()) != category {
				continue
			}
		}

		if useDate {
			d, ok := s.Day(item)
			if !ok {
				out.Malformed = append(out.Malformed, s.malformed(item, s.DateField))
				continue
			}
			if !d.Equal(c.Date) {
				continue
			}
		}

		if usePreset && !preset.Match(item) {
			continue
		}

		out.Items = append(out.Items, item)
	}
	return out
}

// matchText reports whether any searchable field contains needle, and whether
// the item had any searchable field at all.
func matchText[T any](item T, needle string, s Schema[T]) (matched, present bool) {
	for _, field := range s.SearchFields {
		v, ok := s.Get(item, field)
		if !ok {
			continue
		}
		present = true
		if strings.Contains(strings.ToLower(v.Text()), needle) {
			return true, true
		}
	}
	return false, present
}

func firstOr(values []string, fallback string) string {
	if len(values) == 0 {
		return fallback
	}
	return values[0]
}
