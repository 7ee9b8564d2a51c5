package gems

import (
	"fmt"
	"strings"

	"github.com/FACorreiaa/hidden-gems/internal/app/models"
)

// LocationContext renders the clause that anchors the search. A named
// location wins over device coordinates; with neither the clause is empty.
func LocationContext(locationQuery string, location *models.Location) string {
	if q := strings.TrimSpace(locationQuery); q != "" {
		return fmt.Sprintf("near %q", q)
	}
	if location != nil {
		return "near the user's current location"
	}
	return ""
}

// BuildPrompt returns the instruction sent to the model for one search.
func BuildPrompt(userPrompt, locationContext string) string {
	if locationContext != "" {
		locationContext = " " + locationContext
	}
	return fmt.Sprintf(`Find at least 10-15 hidden places that are calm and less populated, with good views or food, where guests can relax%s. The user is looking for: "%s".

Your primary goal is to act as a savvy local guide. Use your search tools to find personal recommendations and unique suggestions from Google Maps, Reddit, Quora, and travel blogs.

For each place you find, you MUST provide an estimated rating. To do this, synthesize information from Google ratings, Reddit discussions, and Quora answers. Provide this as an "estimated rating" on a scale of 1.0 to 5.0, with one decimal place. If explicit ratings aren't available, make a reasonable estimate based on the overall sentiment and descriptions you find online.

Start with a one or two paragraph introduction to the places you found, then list the places.

For each place, categorize it into ONE of the following: %s.

IMPORTANT: For each place you suggest, you MUST format it exactly like this example, including the category, rating, and coordinate formatting:
%s **Name of the Place**
A one or two-sentence description of why this place is a hidden gem, citing information from your search if relevant.
[category: food]
[rating: 4.7]
[lat: 34.0522, lng: -118.2437]
`, locationContext, userPrompt, categoryList(), SectionMarker)
}

func categoryList() string {
	names := make([]string, len(models.PlaceCategories))
	for i, c := range models.PlaceCategories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}
