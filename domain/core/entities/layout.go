package entities

import (
	"bytes"
	"encoding/json"
	"fmt"

	"ifn-backend/domain/core/valueobjects"
	pkgerrors "ifn-backend/pkg/errors"
)

// Layout tells a decoder which plain JSON strings are really days or categories.
type Layout struct {
	DayFields      []string `json:"day_fields" yaml:"day_fields"`
	CategoryFields []string `json:"category_fields" yaml:"category_fields"`
}

// Decode builds a record from a decoded JSON object.
// A day field that does not parse stays a string; the listing pipeline reports it.
func (l Layout) Decode(raw map[string]interface{}) (*Record, error) {
	rawID, ok := raw[IDField]
	if !ok {
		return nil, pkgerrors.NewMalformedRecord("", IDField)
	}
	idValue, err := valueobjects.FieldValueFromAny(rawID)
	if err != nil {
		return nil, pkgerrors.NewMalformedRecord("", IDField).WithCause(err)
	}
	id, err := valueobjects.NewRecordID(idValue.Text())
	if err != nil {
		return nil, pkgerrors.NewMalformedRecord("", IDField).WithCause(err)
	}

	fields := make(map[string]valueobjects.FieldValue, len(raw))
	for name, value := range raw {
		if name == IDField {
			continue
		}
		v, err := valueobjects.FieldValueFromAny(value)
		if err != nil {
			return nil, pkgerrors.NewMalformedRecord(id.String(), name).WithCause(err)
		}
		fields[name] = v
	}

	for _, name := range l.DayFields {
		v, ok := fields[name]
		if !ok || v.Kind() != valueobjects.KindString {
			continue
		}
		if day, err := valueobjects.ParseDay(v.Text()); err == nil {
			fields[name] = valueobjects.DayValue(day)
		}
	}
	for _, name := range l.CategoryFields {
		if v, ok := fields[name]; ok && v.Kind() == valueobjects.KindString {
			fields[name] = valueobjects.Category(v.Text())
		}
	}

	return NewRecord(id, fields)
}

// DecodeJSON decodes a single JSON object
func (l Layout) DecodeJSON(data []byte) (*Record, error) {
	raw, err := decodeObject(data)
	if err != nil {
		return nil, err
	}
	return l.Decode(raw)
}

// DecodeList decodes a JSON array of objects. Entries that cannot become a record
// are returned separately so one bad row does not sink the whole collection.
func (l Layout) DecodeList(data []byte) ([]*Record, []error, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var rows []map[string]interface{}
	if err := dec.Decode(&rows); err != nil {
		return nil, nil, fmt.Errorf("decode record list: %w", err)
	}

	records := make([]*Record, 0, len(rows))
	var rejected []error
	for _, row := range rows {
		rec, err := l.Decode(row)
		if err != nil {
			rejected = append(rejected, err)
			continue
		}
		records = append(records, rec)
	}
	return records, rejected, nil
}

func decodeObject(data []byte) (map[string]interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]interface{}
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return raw, nil
}
