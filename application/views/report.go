package views

import (
	"fmt"

	"ifn-backend/domain/core/entities"
	"ifn-backend/domain/core/valueobjects"
	"ifn-backend/domain/inventory"
	"ifn-backend/domain/listing"
)

// ProblemReport summarises reported problems over a period, inclusive on both ends
type ProblemReport struct {
	From       string         `json:"desde"`
	To         string         `json:"hasta"`
	Period     string         `json:"periodo"`
	Total      int            `json:"total_incidencias"`
	Severities map[string]int `json:"severidades"`
	RecordIDs  []string       `json:"registros"`
}

// BuildProblemReport counts the problems dated within [from, to]
func BuildProblemReport(records []*entities.Record, schema listing.Schema[*entities.Record], from, to valueobjects.Day) ProblemReport {
	report := ProblemReport{
		From:       from.String(),
		To:         to.String(),
		Period:     fmt.Sprintf("%s - %s", from.Display(), to.Display()),
		Severities: map[string]int{"critico": 0, "medio": 0, "bajo": 0},
		RecordIDs:  []string{},
	}
	for _, r := range records {
		d, ok := schema.Day(r)
		if !ok || d.Before(from) || to.Before(d) {
			continue
		}
		report.Total++
		report.RecordIDs = append(report.RecordIDs, r.ID().String())
		if sev := r.Text(inventory.FieldSeveridad); sev != "" {
			report.Severities[sev]++
		}
	}
	return report
}
