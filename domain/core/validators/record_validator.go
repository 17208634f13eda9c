package validators

import (
	"ifn-backend/domain/core/entities"
	"ifn-backend/pkg/errors"
)

// RecordValidator checks collection-wide rules before a store accepts a collection
type RecordValidator struct {
	requiredFields []string
}

// NewRecordValidator creates a validator. Required fields are checked on every record.
func NewRecordValidator(requiredFields ...string) *RecordValidator {
	return &RecordValidator{requiredFields: requiredFields}
}

// ValidateCollection rejects duplicate ids. Records without a required field
// are not rejected here; they are returned so callers can report them.
func (v *RecordValidator) ValidateCollection(records []*entities.Record) ([]*errors.AppError, error) {
	seen := make(map[string]struct{}, len(records))
	var incomplete []*errors.AppError

	for _, r := range records {
		if r == nil {
			return nil, errors.NewValidationError("collection contains a nil record")
		}
		id := r.ID().String()
		if _, dup := seen[id]; dup {
			return nil, errors.NewConflictError("duplicate record id " + id).
				WithCode(errors.CodeDuplicateRecord).
				WithDetails(map[string]interface{}{"record_id": id})
		}
		seen[id] = struct{}{}

		for _, field := range v.requiredFields {
			if fv, ok := r.Field(field); !ok || fv.IsBlank() {
				incomplete = append(incomplete, errors.NewMalformedRecord(id, field))
			}
		}
	}
	return incomplete, nil
}
