package inventory

// Roles recognised by the inventory
const (
	RoleBrigadista = "brigadista"
	RoleEncargado  = "encargado"
)

var labels = map[string]map[string]string{
	FieldTipo: {
		"arbol":               "Árbol",
		"suelo":               "Suelo",
		"geolocalizacion":     "Geolocalización",
		"informacion_especie": "Información de especie",
		"formato":             "Formato",
		"mediciones":          "Mediciones",
	},
	FieldEstado: {
		"completo":  "Completo",
		"pendiente": "Pendiente",
		"proceso":   "En proceso",
	},
	FieldSeveridad: {
		"critico": "Crítico",
		"medio":   "Medio",
		"bajo":    "Bajo",
	},
}

// Label returns the display label of a category value, or the value itself when unknown
func Label(field, value string) string {
	if byValue, ok := labels[field]; ok {
		if l, ok := byValue[value]; ok {
			return l
		}
	}
	return value
}

// VisibleActions filters actions down to those any of roles may use
func VisibleActions(actions []Action, roles []string) []Action {
	var out []Action
	for _, a := range actions {
		if allows(a.Roles, roles) {
			out = append(out, a)
		}
	}
	return out
}

func allows(allowed, roles []string) bool {
	for _, want := range allowed {
		for _, have := range roles {
			if want == have {
				return true
			}
		}
	}
	return false
}
