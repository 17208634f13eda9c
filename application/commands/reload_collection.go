package commands

import (
	"strings"

	"ifn-backend/domain/inventory"
	"ifn-backend/pkg/errors"
	"ifn-backend/pkg/utils"
)

// ReloadCollectionCommand refreshes a store from the configured record source
type ReloadCollectionCommand struct {
	Collection  string `validate:"required,max=64"`
	RequestedBy string `validate:"omitempty,max=128"`
}

// Validate validates the command
func (c ReloadCollectionCommand) Validate() error {
	if err := utils.ValidateStruct(c); err != nil {
		return errors.NewValidationError(err.Error())
	}
	return nil
}

// CollectionName returns the target collection
func (c ReloadCollectionCommand) CollectionName() inventory.Name {
	return inventory.Name(strings.TrimSpace(c.Collection))
}

// ImportRecordsCommand replaces a collection with the records in Payload, a JSON array of objects
type ImportRecordsCommand struct {
	Collection  string `validate:"required,max=64"`
	Payload     []byte `validate:"required"`
	RequestedBy string `validate:"omitempty,max=128"`
}

// Validate validates the command
func (c ImportRecordsCommand) Validate() error {
	if err := utils.ValidateStruct(c); err != nil {
		return errors.NewValidationError(err.Error())
	}
	return nil
}

// CollectionName returns the target collection
func (c ImportRecordsCommand) CollectionName() inventory.Name {
	return inventory.Name(strings.TrimSpace(c.Collection))
}
