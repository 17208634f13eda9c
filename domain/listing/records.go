package listing

import (
	"strings"

	"ifn-backend/domain/core/entities"
	"ifn-backend/domain/core/valueobjects"
)

// RecordAccessor reads fields straight off a record
func RecordAccessor(r *entities.Record, field string) (valueobjects.FieldValue, bool) {
	return r.Field(field)
}

// RecordID returns the record id as a string
func RecordID(r *entities.Record) string {
	return r.ID().String()
}

// RecordSchema starts a schema for record collections
func RecordSchema(name string) Schema[*entities.Record] {
	return Schema[*entities.Record]{
		Name: name,
		ID:   RecordID,
		Get:  RecordAccessor,
	}
}

// FieldEquals matches records whose field equals value, ignoring case
func FieldEquals(field, value string) func(*entities.Record) bool {
	return func(r *entities.Record) bool {
		v, ok := r.Field(field)
		return ok && strings.EqualFold(strings.TrimSpace(v.Text()), value)
	}
}

// FieldContains matches records whose field contains any of the fragments, ignoring case
func FieldContains(field string, fragments ...string) func(*entities.Record) bool {
	return func(r *entities.Record) bool {
		v, ok := r.Field(field)
		if !ok {
			return false
		}
		text := strings.ToLower(v.Text())
		for _, f := range fragments {
			if strings.Contains(text, strings.ToLower(f)) {
				return true
			}
		}
		return false
	}
}

// AnyOf matches when at least one predicate matches
func AnyOf(preds ...func(*entities.Record) bool) func(*entities.Record) bool {
	return func(r *entities.Record) bool {
		for _, p := range preds {
			if p(r) {
				return true
			}
		}
		return false
	}
}
