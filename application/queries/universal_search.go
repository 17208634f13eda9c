package queries

import (
	"ifn-backend/pkg/errors"
	"ifn-backend/pkg/utils"
)

// UniversalSearchQuery searches every panel's data for a term
type UniversalSearchQuery struct {
	Term string `validate:"max=200"`
}

// Validate validates the query. Short terms are valid and yield no search.
func (q UniversalSearchQuery) Validate() error {
	if err := utils.ValidateStruct(q); err != nil {
		return errors.NewValidationError(err.Error())
	}
	return nil
}
