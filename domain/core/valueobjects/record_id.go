package valueobjects

import (
	"encoding/json"
	"errors"
	"strings"
)

// RecordID identifies a record inside its collection, e.g. "ARB-2024-001".
// Unlike generated ids it keeps whatever the source system assigned.
type RecordID struct {
	value string
}

// NewRecordID creates a RecordID from an existing identifier
func NewRecordID(id string) (RecordID, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return RecordID{}, errors.New("record ID cannot be empty")
	}
	return RecordID{value: id}, nil
}

// MustRecordID panics on an empty id. Intended for fixtures.
func MustRecordID(id string) RecordID {
	rid, err := NewRecordID(id)
	if err != nil {
		panic(err)
	}
	return rid
}

// String returns the string representation of the RecordID
func (id RecordID) String() string {
	return id.value
}

// Equals checks if two RecordIDs are equal
func (id RecordID) Equals(other RecordID) bool {
	return id.value == other.value
}

// IsZero checks if the RecordID is the zero value
func (id RecordID) IsZero() bool {
	return id.value == ""
}

// MarshalJSON implements json.Marshaler
func (id RecordID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.value)
}

// UnmarshalJSON implements json.Unmarshaler
func (id *RecordID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.New("RecordID must be a string")
	}
	parsed, err := NewRecordID(s)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
