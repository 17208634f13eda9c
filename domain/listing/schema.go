package listing

import (
	"strings"

	"ifn-backend/domain/core/valueobjects"
	"ifn-backend/pkg/errors"
)

// DefaultSentinels are category values that mean "no category constraint"
var DefaultSentinels = []string{"todos", "all"}

// Accessor reads a named field from an item
type Accessor[T any] func(item T, field string) (valueobjects.FieldValue, bool)

// Preset is a named quick filter, e.g. the supervision shortcuts
type Preset[T any] struct {
	Name  string
	Label string
	Match func(item T) bool
}

// Schema tells the engine where to find things inside an item.
// One schema serves every stage of the pipeline for a collection.
type Schema[T any] struct {
	Name          string
	ID            func(item T) string
	Get           Accessor[T]
	SearchFields  []string
	CategoryField string
	DateField     string
	Sentinels     []string
	Presets       []Preset[T]
}

// IsSentinel reports whether a category value means "no constraint"
func (s Schema[T]) IsSentinel(category string) bool {
	category = strings.TrimSpace(category)
	if category == "" {
		return true
	}
	sentinels := s.Sentinels
	if len(sentinels) == 0 {
		sentinels = DefaultSentinels
	}
	for _, v := range sentinels {
		if strings.EqualFold(category, v) {
			return true
		}
	}
	return false
}

// Preset looks up a preset by name
func (s Schema[T]) Preset(name string) (Preset[T], bool) {
	for _, p := range s.Presets {
		if p.Name == name {
			return p, true
		}
	}
	return Preset[T]{}, false
}

// Validate rejects criteria the schema cannot evaluate
func (s Schema[T]) Validate(c Criteria) error {
	if !s.IsSentinel(c.Category) && s.CategoryField == "" {
		return errors.NewValidationError("collection " + s.Name + " has no category field")
	}
	if c.HasDate() && s.DateField == "" {
		return errors.NewValidationError("collection " + s.Name + " has no date field")
	}
	if !s.IsSentinel(c.Preset) {
		if _, ok := s.Preset(c.Preset); !ok {
			return errors.NewValidationError("unknown preset " + c.Preset).
				WithCode(errors.CodeUnknownPreset).
				WithDetails(map[string]interface{}{"preset": c.Preset, "collection": s.Name})
		}
	}
	return nil
}

// Day extracts the date field. Strings in YYYY-MM-DD form are accepted too.
func (s Schema[T]) Day(item T) (valueobjects.Day, bool) {
	v, ok := s.Get(item, s.DateField)
	if !ok {
		return valueobjects.Day{}, false
	}
	if d, ok := v.Day(); ok {
		return d, true
	}
	if v.Kind() == valueobjects.KindString {
		if d, err := valueobjects.ParseDay(strings.TrimSpace(v.Text())); err == nil {
			return d, true
		}
	}
	return valueobjects.Day{}, false
}

func (s Schema[T]) malformed(item T, field string) *errors.AppError {
	id := ""
	if s.ID != nil {
		id = s.ID(item)
	}
	return errors.NewMalformedRecord(id, field)
}
