package queries

// ListCollectionsQuery describes the listable collections
type ListCollectionsQuery struct{}

// Validate validates the query
func (q ListCollectionsQuery) Validate() error {
	return nil
}

// CollectionInfo is what a UI needs to build filters for a collection
type CollectionInfo struct {
	Name          string       `json:"name"`
	Title         string       `json:"title"`
	SearchFields  []string     `json:"search_fields"`
	CategoryField string       `json:"category_field,omitempty"`
	DateField     string       `json:"date_field,omitempty"`
	Presets       []PresetInfo `json:"presets,omitempty"`
	Version       uint64       `json:"version"`
	Count         int          `json:"count"`
}

// PresetInfo names a quick filter
type PresetInfo struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

// ListCollectionsResult lists every collection
type ListCollectionsResult struct {
	Collections []CollectionInfo `json:"collections"`
}
