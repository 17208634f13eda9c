package inventory

import (
	"ifn-backend/domain/core/entities"
	"ifn-backend/domain/listing"
)

// Supervision quick filters over reported problems
const (
	PresetFormato         = "formato"
	PresetIncompletos     = "incompletos"
	PresetInconsistencias = "inconsistencias"
	PresetRango           = "rango"
)

// SupervisionPresets returns the quick filters offered on the supervision board
func SupervisionPresets() []listing.Preset[*entities.Record] {
	return []listing.Preset[*entities.Record]{
		{
			Name:  PresetFormato,
			Label: "Formato",
			Match: listing.FieldEquals(FieldTipo, "formato"),
		},
		{
			Name:  PresetIncompletos,
			Label: "Incompletos",
			Match: listing.FieldContains(FieldProblema, "incompletos"),
		},
		{
			Name:  PresetInconsistencias,
			Label: "Inconsistencias",
			Match: listing.AnyOf(
				listing.FieldEquals(FieldTipo, "informacion_especie"),
				listing.FieldContains(FieldProblema, "inconsistencias"),
			),
		},
		{
			Name:  PresetRango,
			Label: "Fuera de rango",
			Match: listing.FieldContains(FieldProblema, "rango", "fuera"),
		},
	}
}
