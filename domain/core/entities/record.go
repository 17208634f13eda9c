package entities

import (
	"encoding/json"
	"sort"

	"ifn-backend/domain/core/valueobjects"
	pkgerrors "ifn-backend/pkg/errors"
)

// IDField is the reserved field name holding the record identifier
const IDField = "id"

// Record is one inventory entry: a sample, a reported problem, a brigade.
// Its fields are opaque to the listing machinery, which reaches them through a schema.
type Record struct {
	id     valueobjects.RecordID
	fields map[string]valueobjects.FieldValue
}

// NewRecord creates a record. The fields map is copied and any "id" entry is ignored.
func NewRecord(id valueobjects.RecordID, fields map[string]valueobjects.FieldValue) (*Record, error) {
	if id.IsZero() {
		return nil, pkgerrors.NewValidationError("record id cannot be empty")
	}

	cp := make(map[string]valueobjects.FieldValue, len(fields))
	for name, v := range fields {
		if name == IDField {
			continue
		}
		cp[name] = v
	}
	return &Record{id: id, fields: cp}, nil
}

// MustRecord panics when NewRecord fails. Intended for fixtures.
func MustRecord(id string, fields map[string]valueobjects.FieldValue) *Record {
	r, err := NewRecord(valueobjects.MustRecordID(id), fields)
	if err != nil {
		panic(err)
	}
	return r
}

// ID returns the record identifier
func (r *Record) ID() valueobjects.RecordID {
	return r.id
}

// Field returns the named field. The id is reachable under IDField.
func (r *Record) Field(name string) (valueobjects.FieldValue, bool) {
	if name == IDField {
		return valueobjects.String(r.id.String()), true
	}
	v, ok := r.fields[name]
	return v, ok
}

// Text returns the field rendered as text, or "" when absent
func (r *Record) Text(name string) string {
	v, ok := r.Field(name)
	if !ok {
		return ""
	}
	return v.Text()
}

// FieldNames returns the field names in sorted order, id excluded
func (r *Record) FieldNames() []string {
	names := make([]string, 0, len(r.fields))
	for name := range r.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Fields returns a copy of the field map
func (r *Record) Fields() map[string]valueobjects.FieldValue {
	cp := make(map[string]valueobjects.FieldValue, len(r.fields))
	for k, v := range r.fields {
		cp[k] = v
	}
	return cp
}

// With returns a copy of the record with one field replaced
func (r *Record) With(name string, v valueobjects.FieldValue) *Record {
	fields := r.Fields()
	fields[name] = v
	return &Record{id: r.id, fields: fields}
}

// MarshalJSON writes the record as a flat object with its id under "id"
func (r *Record) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(r.fields)+1)
	for k, v := range r.fields {
		out[k] = v
	}
	out[IDField] = r.id
	return json.Marshal(out)
}
