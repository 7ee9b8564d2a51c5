package models

import (
	"fmt"
	"strings"
)

// PlaceCategory is the closed set of categories a discovered place can fall into.
type PlaceCategory string

const (
	CategoryFood        PlaceCategory = "food"
	CategoryView        PlaceCategory = "view"
	CategoryTranquility PlaceCategory = "tranquility"
	CategoryPark        PlaceCategory = "park"
	CategoryCafe        PlaceCategory = "cafe"
	CategoryScenic      PlaceCategory = "scenic"
	CategoryOther       PlaceCategory = "other"
)

// PlaceCategories lists every category in display order.
var PlaceCategories = []PlaceCategory{
	CategoryFood,
	CategoryView,
	CategoryTranquility,
	CategoryPark,
	CategoryCafe,
	CategoryScenic,
	CategoryOther,
}

// ParseCategory lower-cases s and maps it onto the closed category set.
// Unknown or empty words become CategoryOther.
func ParseCategory(s string) PlaceCategory {
	c := PlaceCategory(strings.ToLower(strings.TrimSpace(s)))
	if c.Valid() {
		return c
	}
	return CategoryOther
}

// Valid reports whether c belongs to the closed category set.
func (c PlaceCategory) Valid() bool {
	for _, known := range PlaceCategories {
		if c == known {
			return true
		}
	}
	return false
}

// Place is a discovered point of interest. It is built once by the response
// parser and never mutated afterwards.
type Place struct {
	Name            string        `json:"name"`
	Description     string        `json:"description"`
	Lat             float64       `json:"lat"`
	Lng             float64       `json:"lng"`
	Category        PlaceCategory `json:"category"`
	EstimatedRating float64       `json:"estimatedRating"`
}

// Key returns the identity key shared by favorites, recently viewed and reviews.
func (p Place) Key() string {
	return PlaceKey(p.Name, p.Lat, p.Lng)
}

// PlaceKey builds an identity key from its parts. Coordinates are rounded to
// six decimals, the precision the model is asked to produce.
func PlaceKey(name string, lat, lng float64) string {
	return fmt.Sprintf("%s@%.6f,%.6f", strings.ToLower(strings.TrimSpace(name)), lat, lng)
}

// SourceType tags a grounding citation with the retrieval tool that produced it.
type SourceType string

const (
	SourceTypeMaps SourceType = "maps"
	SourceTypeWeb  SourceType = "web"
)

// Source is a citation backing the result set.
type Source struct {
	URI   string     `json:"uri"`
	Title string     `json:"title"`
	Type  SourceType `json:"type"`
}

// SearchResult is the structured outcome of one successful search.
type SearchResult struct {
	Text    string   `json:"text"`
	Sources []Source `json:"sources"`
	Places  []Place  `json:"places"`
}

// FilterPlaces returns the places whose category is in filters, or all of
// them when filters is empty. The input slice is never modified.
func FilterPlaces(places []Place, filters []PlaceCategory) []Place {
	if len(filters) == 0 {
		out := make([]Place, len(places))
		copy(out, places)
		return out
	}
	active := make(map[PlaceCategory]struct{}, len(filters))
	for _, f := range filters {
		active[f] = struct{}{}
	}
	out := make([]Place, 0, len(places))
	for _, p := range places {
		if _, ok := active[p.Category]; ok {
			out = append(out, p)
		}
	}
	return out
}
