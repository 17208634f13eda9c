package views

import "ifn-backend/domain/inventory"

// Default texts shown when a listing has nothing to show
const (
	NoRecordsRange = "No hay registros para mostrar"
	NoRecordsTitle = "No se encontraron registros"
	NoRecordsHint  = "Intente ajustar los filtros de búsqueda"
)

// Cell is one displayed column of a row
type Cell struct {
	Field string `json:"field"`
	Value string `json:"value"`
	Raw   string `json:"raw,omitempty"`
	Badge bool   `json:"badge,omitempty"`
}

// Row is one rendered record
type Row struct {
	ID            string             `json:"id"`
	Cells         []Cell             `json:"cells"`
	FormattedDate string             `json:"formatted_date,omitempty"`
	Actions       []inventory.Action `json:"actions,omitempty"`
}

// PageControl is one clickable page number
type PageControl struct {
	Number int  `json:"number"`
	Active bool `json:"active"`
}

// DisplayModel is everything a UI needs to draw a listing. It carries no markup.
type DisplayModel struct {
	Collection  string        `json:"collection"`
	Title       string        `json:"title"`
	Rows        []Row         `json:"rows"`
	Range       string        `json:"range"`
	Pages       []PageControl `json:"pages"`
	CurrentPage int           `json:"current_page"`
	TotalPages  int           `json:"total_pages"`
	TotalItems  int           `json:"total_items"`
	HasPrev     bool          `json:"has_prev"`
	HasNext     bool          `json:"has_next"`
	Empty       bool          `json:"empty"`
	EmptyTitle  string        `json:"empty_title,omitempty"`
	EmptyHint   string        `json:"empty_hint,omitempty"`
}
