package listview

import (
	"ifn-backend/application/search"
	"ifn-backend/application/views"
	"ifn-backend/domain/listing"
)

// State is the debounce state of a controller
type State int

const (
	// Idle means no text input is waiting to be applied
	Idle State = iota
	// PendingDebounce means a text input timer is running
	PendingDebounce
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case PendingDebounce:
		return "pending_debounce"
	default:
		return "unknown"
	}
}

// MarshalText lets State appear as a string in JSON
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Snapshot is a point-in-time copy of a controller
type Snapshot struct {
	Collection  string                  `json:"collection"`
	State       State                   `json:"state"`
	PendingText string                  `json:"pending_text,omitempty"`
	Criteria    CriteriaView            `json:"criteria"`
	Model       views.DisplayModel      `json:"model"`
	Stats       *views.Stats            `json:"stats,omitempty"`
	Malformed   []views.MalformedReport `json:"malformed,omitempty"`
	Search      *search.Results         `json:"search,omitempty"`
}

// CriteriaView is the applied criteria in wire form
type CriteriaView struct {
	Text     string `json:"text,omitempty"`
	Category string `json:"category,omitempty"`
	Date     string `json:"date,omitempty"`
	Preset   string `json:"preset,omitempty"`
}

func viewOf(c listing.Criteria) CriteriaView {
	return CriteriaView{
		Text:     c.Text,
		Category: c.Category,
		Date:     c.Date.String(),
		Preset:   c.Preset,
	}
}
