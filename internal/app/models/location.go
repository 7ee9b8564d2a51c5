package models

import "fmt"

// Location is a pair of device coordinates resolved by the geolocation collaborator.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (l Location) String() string {
	return fmt.Sprintf("%.6f,%.6f", l.Latitude, l.Longitude)
}

// SearchMode selects where a search is anchored.
type SearchMode string

const (
	SearchModeNearMe           SearchMode = "near_me"
	SearchModeSpecificLocation SearchMode = "specific_location"
)

// Valid reports whether m is one of the known modes.
func (m SearchMode) Valid() bool {
	return m == SearchModeNearMe || m == SearchModeSpecificLocation
}

// SearchQuery is the user's free-text prompt plus the resolved location context.
type SearchQuery struct {
	Prompt        string     `json:"prompt"`
	Mode          SearchMode `json:"searchMode"`
	LocationQuery string     `json:"locationQuery"`
	Location      *Location  `json:"location,omitempty"`
}
