package queries

import (
	"strings"

	"ifn-backend/application/views"
	"ifn-backend/domain/core/valueobjects"
	"ifn-backend/domain/inventory"
	"ifn-backend/domain/listing"
	"ifn-backend/pkg/errors"
	"ifn-backend/pkg/utils"
)

// ListRecordsQuery asks for one rendered page of a collection
type ListRecordsQuery struct {
	Collection string   `validate:"required"`
	Text       string   `validate:"max=200"`
	Category   string   `validate:"max=64"`
	Date       string   `validate:"omitempty,datetime=2006-01-02"`
	Preset     string   `validate:"max=64"`
	Page       int      `validate:"-"`
	PageSize   int      `validate:"-"`
	Roles      []string `validate:"-"`
}

// Validate validates the query. Page bounds are checked by the paginator.
func (q ListRecordsQuery) Validate() error {
	if err := utils.ValidateStruct(q); err != nil {
		return errors.NewValidationError(err.Error())
	}
	return nil
}

// Criteria converts the query into listing criteria
func (q ListRecordsQuery) Criteria() listing.Criteria {
	c := listing.Criteria{
		Text:     q.Text,
		Category: strings.TrimSpace(q.Category),
		Preset:   strings.TrimSpace(q.Preset),
	}
	if q.Date != "" {
		// Validate guarantees the layout
		c.Date, _ = valueobjects.ParseDay(q.Date)
	}
	return c
}

// CollectionName returns the requested collection as a domain name
func (q ListRecordsQuery) CollectionName() inventory.Name {
	return inventory.Name(strings.TrimSpace(q.Collection))
}

// PageRequest returns the requested page
func (q ListRecordsQuery) PageRequest() listing.PageRequest {
	return listing.PageRequest{Number: q.Page, Size: q.PageSize}
}

// ListRecordsResult is one rendered page plus the state behind it
type ListRecordsResult struct {
	Model     views.DisplayModel      `json:"model"`
	Stats     *views.Stats            `json:"stats,omitempty"`
	Malformed []views.MalformedReport `json:"malformed"`
	Version   uint64                  `json:"version"`
}
