package models

import "time"

// AppState is the lifecycle state of a search session.
type AppState string

const (
	StateIdle               AppState = "idle"
	StateRequestingLocation AppState = "requesting_location"
	StateLocationGranted    AppState = "location_granted"
	StateLocationDenied     AppState = "location_denied"
	StateLoading            AppState = "loading"
	StateResultsFound       AppState = "results_found"
	StateError              AppState = "error"
)

// SearchSession is a read-only view of one device's session.
type SearchSession struct {
	State         AppState        `json:"appState"`
	Prompt        string          `json:"prompt"`
	Mode          SearchMode      `json:"searchMode"`
	LocationQuery string          `json:"locationQuery"`
	Location      *Location       `json:"location,omitempty"`
	Result        *SearchResult   `json:"result"`
	ActiveFilters []PlaceCategory `json:"activeFilters"`
	Error         string          `json:"error,omitempty"`
}

// SessionSnapshot is the persisted form of a session.
type SessionSnapshot struct {
	AppState      AppState        `json:"appState"`
	Prompt        string          `json:"prompt"`
	SearchMode    SearchMode      `json:"searchMode"`
	LocationQuery string          `json:"locationQuery"`
	Result        *SearchResult   `json:"result"`
	ActiveFilters []PlaceCategory `json:"activeFilters"`
	Timestamp     int64           `json:"timestamp"`
}

// SavedAt converts the millisecond timestamp back into a time.
func (s SessionSnapshot) SavedAt() time.Time {
	return time.UnixMilli(s.Timestamp)
}

// Theme is the persisted colour scheme preference.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Review is user feedback on a place. Reviews are append-only.
type Review struct {
	Rating        int       `json:"rating"`
	Comment       string    `json:"comment"`
	PhotoFilename string    `json:"photoFilename,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}
