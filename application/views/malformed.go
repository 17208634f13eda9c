package views

import "ifn-backend/pkg/errors"

// MalformedReport describes one record the pipeline had to leave out
type MalformedReport struct {
	RecordID string `json:"record_id"`
	Field    string `json:"field"`
	Message  string `json:"message"`
}

// Reports converts malformed-record errors for display
func Reports(errs []*errors.AppError) []MalformedReport {
	out := make([]MalformedReport, 0, len(errs))
	for _, e := range errs {
		r := MalformedReport{Message: e.Message}
		if id, ok := e.Details["record_id"].(string); ok {
			r.RecordID = id
		}
		if f, ok := e.Details["field"].(string); ok {
			r.Field = f
		}
		out = append(out, r)
	}
	return out
}
