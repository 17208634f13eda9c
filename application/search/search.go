// Package search implements the search box shared by every panel: one term
// matched across brigades, members, species and tasks.
package search

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"ifn-backend/application/ports"
	"ifn-backend/domain/core/entities"
	"ifn-backend/domain/inventory"
)

// DefaultMinChars is the shortest trimmed term that triggers a search
const DefaultMinChars = 2

// Category is one group of searchable records
type Category struct {
	Collection inventory.Name
	Title      string
	Fields     []string
	Heading    func(*entities.Record) string
	Subtitle   func(*entities.Record) string
}

// Hit is one matching record
type Hit struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
}

// Group collects the hits of a category
type Group struct {
	Category string `json:"categoria"`
	Title    string `json:"titulo"`
	Count    int    `json:"count"`
	Hits     []Hit  `json:"items"`
}

// Results is the outcome of one search. Searched is false when the term was
// too short to run.
type Results struct {
	Term     string  `json:"term"`
	Searched bool    `json:"searched"`
	Total    int     `json:"total"`
	Message  string  `json:"message,omitempty"`
	Groups   []Group `json:"groups"`
}

// DefaultCategories returns the categories in display order
func DefaultCategories() []Category {
	return []Category{
		{
			Collection: inventory.Brigadas,
			Title:      "Brigadas",
			Fields:     []string{"nombre", "lider", "zona"},
			Heading:    field("nombre"),
			Subtitle: func(r *entities.Record) string {
				return fmt.Sprintf("Líder: %s | Miembros: %s | Zona: %s", r.Text("lider"), r.Text("miembros"), r.Text("zona"))
			},
		},
		{
			Collection: inventory.Miembros,
			Title:      "Miembros",
			Fields:     []string{"nombre", "brigada", "rol"},
			Heading:    field("nombre"),
			Subtitle: func(r *entities.Record) string {
				return fmt.Sprintf("%s | Brigada: %s", r.Text("rol"), r.Text("brigada"))
			},
		},
		{
			Collection: inventory.Especies,
			Title:      "Especies",
			Fields:     []string{"nombre", "nombreCientifico", "ubicacion"},
			Heading:    field("nombre"),
			Subtitle: func(r *entities.Record) string {
				sub := "Ubicación: " + r.Text("ubicacion")
				if c := r.Text("nombreCientifico"); c != "" {
					sub = "Científico: " + c + " | " + sub
				}
				return sub
			},
		},
		{
			Collection: inventory.Tareas,
			Title:      "Tareas",
			Fields:     []string{"descripcion", "brigada"},
			Heading:    field("descripcion"),
			Subtitle: func(r *entities.Record) string {
				return fmt.Sprintf("Brigada: %s | Estado: %s", r.Text("brigada"), r.Text("estado"))
			},
		},
	}
}

func field(name string) func(*entities.Record) string {
	return func(r *entities.Record) string { return r.Text(name) }
}

// Searcher runs universal searches against the record stores
type Searcher struct {
	catalog    ports.StoreCatalog
	categories []Category
	minChars   int
}

// NewSearcher creates a searcher. A minChars below 1 uses the default.
func NewSearcher(catalog ports.StoreCatalog, categories []Category, minChars int) *Searcher {
	if minChars < 1 {
		minChars = DefaultMinChars
	}
	if categories == nil {
		categories = DefaultCategories()
	}
	return &Searcher{catalog: catalog, categories: categories, minChars: minChars}
}

// MinChars returns the shortest term that runs a search
func (s *Searcher) MinChars() int {
	return s.minChars
}

// Search matches term case-insensitively against every category. Groups
// without hits are omitted; the remaining ones keep category order.
func (s *Searcher) Search(term string) (Results, error) {
	term = strings.TrimSpace(term)
	res := Results{Term: term, Groups: []Group{}}
	if utf8.RuneCountInString(term) < s.minChars {
		return res, nil
	}
	res.Searched = true
	needle := strings.ToLower(term)

	for _, cat := range s.categories {
		store, err := s.catalog.Store(cat.Collection)
		if err != nil {
			return Results{}, err
		}
		group := Group{Category: string(cat.Collection), Title: cat.Title}
		for _, r := range store.GetAll() {
			if !matches(r, cat.Fields, needle) {
				continue
			}
			group.Hits = append(group.Hits, hit(cat, r))
		}
		if group.Count = len(group.Hits); group.Count > 0 {
			res.Groups = append(res.Groups, group)
			res.Total += group.Count
		}
	}

	if res.Total == 0 {
		res.Message = fmt.Sprintf("No se encontraron resultados para \"%s\"", term)
	} else {
		res.Message = fmt.Sprintf("Se encontraron %d resultados para \"%s\"", res.Total, term)
	}
	return res, nil
}

func matches(r *entities.Record, fields []string, needle string) bool {
	for _, f := range fields {
		v, ok := r.Field(f)
		if ok && strings.Contains(strings.ToLower(v.Text()), needle) {
			return true
		}
	}
	return false
}

func hit(cat Category, r *entities.Record) Hit {
	h := Hit{ID: r.ID().String()}
	if cat.Heading != nil {
		h.Title = cat.Heading(r)
	}
	if cat.Subtitle != nil {
		h.Subtitle = cat.Subtitle(r)
	}
	return h
}
