package listing

import (
	"strings"

	"ifn-backend/domain/core/valueobjects"
)

// Criteria is the set of user-supplied filters for a listing.
// A zero field means the criterion is absent.
type Criteria struct {
	Text     string
	Category string
	Date     valueobjects.Day
	Preset   string
}

// Needle returns the lowercased trimmed search text, "" when absent
func (c Criteria) Needle() string {
	return strings.ToLower(strings.TrimSpace(c.Text))
}

// HasText reports whether a non-blank text criterion is present
func (c Criteria) HasText() bool {
	return c.Needle() != ""
}

// HasDate reports whether a date criterion is present
func (c Criteria) HasDate() bool {
	return !c.Date.IsZero()
}
