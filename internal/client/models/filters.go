package models

import "encoding/json"

// Filters are exact-match constraints over the filterable attributes.
// Empty fields do not constrain; set fields are ANDed.
type Filters struct {
	Location string `json:"location,omitempty"`
	Brand    string `json:"brand,omitempty"`
	Area     string `json:"area,omitempty"`
	Title    string `json:"title,omitempty"`
}

func (f Filters) IsEmpty() bool {
	return f == Filters{}
}

// Canonical returns the stable JSON form used in result-cache keys.
func (f Filters) Canonical() string {
	b, _ := json.Marshal(f)
	return string(b)
}

// Match reports whether e satisfies every set filter. An attribute missing
// on e never satisfies a filter on it.
func (f Filters) Match(e Employee) bool {
	return matchField(f.Location, e.Location) &&
		matchField(f.Brand, e.Brand) &&
		matchField(f.Area, e.Area) &&
		matchField(f.Title, e.Title)
}

func matchField(want, got string) bool {
	return want == "" || want == got
}
