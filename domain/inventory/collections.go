// Package inventory describes the record collections of the forestry inventory
// and how each one is searched, filtered and displayed.
package inventory

import (
	"sort"

	"ifn-backend/domain/core/entities"
	"ifn-backend/domain/listing"
)

// Name identifies a collection
type Name string

const (
	Muestras  Name = "muestras"
	Problemas Name = "problemas"
	Brigadas  Name = "brigadas"
	Miembros  Name = "miembros"
	Especies  Name = "especies"
	Tareas    Name = "tareas"
)

// Field names shared by several collections
const (
	FieldTipo      = "tipo"
	FieldEstado    = "estado"
	FieldFecha     = "fecha"
	FieldSeveridad = "severidad"
	FieldProblema  = "problema"
)

// Action is a row-level operation a viewer may be offered
type Action struct {
	Name  string   `json:"name"`
	Label string   `json:"label"`
	Roles []string `json:"-"`
}

// Collection bundles everything the listing machinery needs to know about one collection
type Collection struct {
	Name       Name
	Title      string
	Layout     entities.Layout
	Schema     listing.Schema[*entities.Record]
	Columns    []string
	Badges     []string
	Actions    []Action
	EmptyTitle string
	EmptyHint  string
}

// Definitions returns every collection. Sentinels override the category values meaning "all".
func Definitions(sentinels []string) []Collection {
	defs := []Collection{
		muestras(),
		problemas(),
		simple(Brigadas, "Brigadas", []string{"nombre", "lider", "zona"}, []string{"nombre", "lider", "miembros", "zona"}),
		simple(Miembros, "Miembros", []string{"nombre", "brigada", "rol"}, []string{"nombre", "brigada", "rol"}),
		simple(Especies, "Especies", []string{"nombre", "nombreCientifico", "ubicacion"}, []string{"nombre", "nombreCientifico", "ubicacion"}),
		tareas(),
	}
	for i := range defs {
		defs[i].Schema.Sentinels = sentinels
	}
	return defs
}

// Registry indexes collection definitions by name
type Registry struct {
	byName map[Name]Collection
}

// NewRegistry builds a registry from definitions
func NewRegistry(defs []Collection) *Registry {
	r := &Registry{byName: make(map[Name]Collection, len(defs))}
	for _, d := range defs {
		r.byName[d.Name] = d
	}
	return r
}

// Get looks up a collection
func (r *Registry) Get(name Name) (Collection, bool) {
	c, ok := r.byName[name]
	return c, ok
}

// Names returns the registered collection names in sorted order
func (r *Registry) Names() []Name {
	names := make([]Name, 0, len(r.byName))
	for n := range r.byName {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

func muestras() Collection {
	schema := listing.RecordSchema(string(Muestras))
	schema.SearchFields = []string{entities.IDField, "especie", "ubicacion"}
	schema.CategoryField = FieldTipo
	schema.DateField = FieldFecha

	return Collection{
		Name:  Muestras,
		Title: "Registros",
		Layout: entities.Layout{
			DayFields:      []string{FieldFecha},
			CategoryFields: []string{FieldTipo, FieldEstado},
		},
		Schema:  schema,
		Columns: []string{entities.IDField, FieldTipo, "especie", "ubicacion", FieldFecha, FieldEstado},
		Badges:  []string{FieldTipo, FieldEstado},
		Actions: []Action{
			{Name: "editar", Label: "Editar", Roles: []string{RoleBrigadista}},
			{Name: "ver", Label: "Ver", Roles: []string{RoleBrigadista, RoleEncargado}},
		},
	}
}

func problemas() Collection {
	schema := listing.RecordSchema(string(Problemas))
	schema.SearchFields = []string{entities.IDField, FieldProblema, "brigada", "descripcion"}
	schema.CategoryField = FieldTipo
	schema.DateField = FieldFecha
	schema.Presets = SupervisionPresets()

	return Collection{
		Name:  Problemas,
		Title: "Registros problemáticos",
		Layout: entities.Layout{
			DayFields:      []string{FieldFecha},
			CategoryFields: []string{FieldTipo, FieldSeveridad},
		},
		Schema:  schema,
		Columns: []string{entities.IDField, FieldSeveridad, FieldProblema, FieldFecha, "brigada", FieldTipo},
		Badges:  []string{FieldSeveridad, FieldTipo},
		Actions: []Action{
			{Name: "corregir", Label: "Corregir", Roles: []string{RoleEncargado}},
			{Name: "ignorar", Label: "Ignorar", Roles: []string{RoleEncargado}},
			{Name: "detalles", Label: "Ver detalles", Roles: []string{RoleBrigadista, RoleEncargado}},
		},
		EmptyTitle: "No se encontraron registros problemáticos",
		EmptyHint:  "Los filtros aplicados no coinciden con ningún registro.",
	}
}

func tareas() Collection {
	c := simple(Tareas, "Tareas", []string{"descripcion", "brigada"}, []string{"descripcion", "brigada", FieldEstado})
	c.Schema.CategoryField = FieldEstado
	c.Layout.CategoryFields = []string{FieldEstado}
	c.Badges = []string{FieldEstado}
	return c
}

func simple(name Name, title string, search, columns []string) Collection {
	schema := listing.RecordSchema(string(name))
	schema.SearchFields = search
	return Collection{
		Name:    name,
		Title:   title,
		Schema:  schema,
		Columns: append([]string{entities.IDField}, columns...),
	}
}
