package views

import (
	"fmt"

	"ifn-backend/domain/core/entities"
	"ifn-backend/domain/inventory"
	"ifn-backend/domain/listing"
)

// DefaultPageWindow is the number of page controls shown around the current page
const DefaultPageWindow = 5

// Renderer turns a page of records into a DisplayModel. It is pure: the same
// page and roles always produce the same model.
type Renderer struct {
	collection inventory.Collection
	window     int
	roles      []string
}

// NewRenderer creates a renderer for a collection
func NewRenderer(collection inventory.Collection, window int) *Renderer {
	if window < 1 {
		window = DefaultPageWindow
	}
	return &Renderer{collection: collection, window: window}
}

// WithRoles returns a renderer that shows the row actions available to roles
func (r *Renderer) WithRoles(roles []string) *Renderer {
	cp := *r
	cp.roles = append([]string(nil), roles...)
	return &cp
}

// Render builds the display model for one page
func (r *Renderer) Render(page listing.PageResult[*entities.Record]) DisplayModel {
	model := DisplayModel{
		Collection:  string(r.collection.Name),
		Title:       r.collection.Title,
		Rows:        make([]Row, 0, len(page.Items)),
		CurrentPage: page.Number,
		TotalPages:  page.TotalPages,
		TotalItems:  page.TotalItems,
	}

	if page.IsEmpty() {
		model.Empty = true
		model.Range = NoRecordsRange
		model.EmptyTitle = r.collection.EmptyTitle
		if model.EmptyTitle == "" {
			model.EmptyTitle = NoRecordsTitle
		}
		model.EmptyHint = r.collection.EmptyHint
		if model.EmptyHint == "" {
			model.EmptyHint = NoRecordsHint
		}
		model.Pages = []PageControl{}
		return model
	}

	actions := inventory.VisibleActions(r.collection.Actions, r.roles)
	for _, rec := range page.Items {
		model.Rows = append(model.Rows, r.row(rec, actions))
	}

	model.Range = fmt.Sprintf("Mostrando %d-%d de %d registros", page.FirstIndex(), page.LastIndex(), page.TotalItems)
	model.Pages = PageWindow(page.Number, page.TotalPages, r.window)
	model.HasPrev = page.HasPrev()
	model.HasNext = page.HasNext()
	return model
}

func (r *Renderer) row(rec *entities.Record, actions []inventory.Action) Row {
	row := Row{
		ID:    rec.ID().String(),
		Cells: make([]Cell, 0, len(r.collection.Columns)),
	}
	if len(actions) > 0 {
		row.Actions = actions
	}

	if d, ok := r.collection.Schema.Day(rec); ok && r.collection.Schema.DateField != "" {
		row.FormattedDate = d.Display()
	}

	for _, field := range r.collection.Columns {
		raw := rec.Text(field)
		cell := Cell{Field: field, Value: raw}
		switch {
		case field == r.collection.Schema.DateField && row.FormattedDate != "":
			cell.Value = row.FormattedDate
			cell.Raw = raw
		case r.isBadge(field):
			cell.Value = inventory.Label(field, raw)
			cell.Raw = raw
			cell.Badge = true
		}
		row.Cells = append(row.Cells, cell)
	}
	return row
}

func (r *Renderer) isBadge(field string) bool {
	for _, b := range r.collection.Badges {
		if b == field {
			return true
		}
	}
	return false
}

// PageWindow returns the page controls centred on current: at most window
// numbers clamped to [1, total]. An even window leans forward.
func PageWindow(current, total, window int) []PageControl {
	if total < 1 {
		return []PageControl{}
	}
	window = max(1, window)
	start := max(1, current-(window-1)/2)
	end := min(total, current+window/2)

	pages := make([]PageControl, 0, end-start+1)
	for n := start; n <= end; n++ {
		pages = append(pages, PageControl{Number: n, Active: n == current})
	}
	return pages
}
