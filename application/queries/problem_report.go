package queries

import (
	"ifn-backend/domain/core/valueobjects"
	"ifn-backend/pkg/errors"
	"ifn-backend/pkg/utils"
)

// ProblemReportQuery summarises problems reported between two days, inclusive
type ProblemReportQuery struct {
	From string `validate:"required,datetime=2006-01-02"`
	To   string `validate:"required,datetime=2006-01-02"`
}

// Validate validates the query
func (q ProblemReportQuery) Validate() error {
	if err := utils.ValidateStruct(q); err != nil {
		return errors.NewValidationError(err.Error())
	}
	from, to := q.Range()
	if to.Before(from) {
		return errors.NewValidationError("report period ends before it starts")
	}
	return nil
}

// Range returns the parsed period
func (q ProblemReportQuery) Range() (valueobjects.Day, valueobjects.Day) {
	from, _ := valueobjects.ParseDay(q.From)
	to, _ := valueobjects.ParseDay(q.To)
	return from, to
}
