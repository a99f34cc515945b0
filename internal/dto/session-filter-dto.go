package dto

// SelectionFilters is the operator's saved session filter state for the
// fresh-pool tier. At most one filter applies per selection; resolution
// order is campaign, then priority suffixes, then returns-only.
type SelectionFilters struct {
	Campaign         string   `json:"campaign,omitempty"`
	PrioritySuffixes []string `json:"priority_suffixes,omitempty"`
	ReturnsOnly      bool     `json:"returns_only,omitempty"`
}

func (f SelectionFilters) Empty() bool {
	return f.Campaign == "" && len(f.PrioritySuffixes) == 0 && !f.ReturnsOnly
}

// FilterOptionsDTO lists the distinct values the operator UI offers.
type FilterOptionsDTO struct {
	Campaigns        []string `json:"campaigns"`
	PrioritySuffixes []string `json:"priority_suffixes"`
}
