package views

import (
	"ifn-backend/domain/core/entities"
	"ifn-backend/domain/inventory"
)

// Stats are the summary cards shown above a listing. They count the filtered
// set, not just the visible page.
type Stats struct {
	Total      int            `json:"total"`
	Arboles    int            `json:"arboles"`
	Suelos     int            `json:"suelos"`
	Completos  int            `json:"completos"`
	EnProceso  int            `json:"en_proceso"`
	Severities map[string]int `json:"severidades,omitempty"`
}

// ComputeStats counts records by type, state and severity
func ComputeStats(records []*entities.Record) Stats {
	s := Stats{Total: len(records)}
	for _, r := range records {
		switch r.Text(inventory.FieldTipo) {
		case "arbol":
			s.Arboles++
		case "suelo":
			s.Suelos++
		}
		switch r.Text(inventory.FieldEstado) {
		case "completo":
			s.Completos++
		case "proceso", "pendiente":
			s.EnProceso++
		}
		if sev := r.Text(inventory.FieldSeveridad); sev != "" {
			if s.Severities == nil {
				s.Severities = map[string]int{"critico": 0, "medio": 0, "bajo": 0}
			}
			s.Severities[sev]++
		}
	}
	return s
}
