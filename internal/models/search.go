package models

// SearchResults groups cross-entity matches for one query.
type SearchResults struct {
	Students []Student `json:"students"`
	Teachers []Teacher `json:"teachers"`
	Courses  []Course  `json:"courses"`
	Rooms    []Room    `json:"rooms"`
}
