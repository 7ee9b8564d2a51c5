package gems

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/FACorreiaa/hidden-gems/internal/app/models"
)

// SectionMarker delimits one place in the model's answer.
const SectionMarker = "###"

const maxRating = 5.0

var (
	coordsToken   = regexp.MustCompile(`(?i)\[\s*lat:\s*([^,\]]*?)\s*,\s*lng:\s*([^\]]*?)\s*\]`)
	categoryToken = regexp.MustCompile(`(?i)\[\s*category:\s*(\w*)\s*\]`)
	ratingToken   = regexp.MustCompile(`(?i)\[\s*rating:\s*([^\]]*?)\s*\]`)
	// Leftover heading marker when a section opened with more than three '#'.
	leftoverMarker = regexp.MustCompile(`^#+\s+`)
)

// DropReason explains why a section did not yield a place.
type DropReason string

const (
	DropMissingCoordinates DropReason = "missing_coordinates"
	DropInvalidCoordinates DropReason = "invalid_coordinates"
	DropMissingName        DropReason = "missing_name"
	DropMissingDescription DropReason = "missing_description"
	DropUnexpected         DropReason = "unexpected"
)

// DroppedSection records one section that was skipped.
type DroppedSection struct {
	Index  int        `json:"index"`
	Reason DropReason `json:"reason"`
	Detail string     `json:"detail,omitempty"`
}

// ParseReport is the full outcome of parsing one response.
type ParseReport struct {
	Sections int
	Places   []models.Place
	Dropped  []DroppedSection
}

// sectionTokens holds the structured matches found in one section.
type sectionTokens struct {
	lat, lng    string
	hasCoords   bool
	category    string
	hasCategory bool
	rating      string
	hasRating   bool
}

func scanTokens(section string) sectionTokens {
	var t sectionTokens
	if m := coordsToken.FindStringSubmatch(section); m != nil {
		t.lat, t.lng, t.hasCoords = m[1], m[2], true
	}
	if m := categoryToken.FindStringSubmatch(section); m != nil {
		t.category, t.hasCategory = m[1], true
	}
	if m := ratingToken.FindStringSubmatch(section); m != nil {
		t.rating, t.hasRating = m[1], true
	}
	return t
}

func stripTokens(s string) string {
	s = coordsToken.ReplaceAllString(s, " ")
	s = categoryToken.ReplaceAllString(s, " ")
	s = ratingToken.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// ParseResponse extracts the places described in an AI answer. It never
// fails: malformed sections are dropped and the rest are returned in order.
func ParseResponse(text string) []models.Place {
	return ParseResponseWithReport(text).Places
}

// ParseResponseWithReport is ParseResponse plus a record of every dropped section.
func ParseResponseWithReport(text string) ParseReport {
	report := ParseReport{Places: []models.Place{}}

	parts := strings.Split(text, SectionMarker)
	if len(parts) < 2 {
		return report
	}

	// parts[0] is the free-text introduction.
	for i, section := range parts[1:] {
		if strings.TrimSpace(section) == "" {
			continue
		}
		report.Sections++

		place, drop := parseSectionSafe(i, section)
		if drop != nil {
			report.Dropped = append(report.Dropped, *drop)
			continue
		}
		report.Places = append(report.Places, place)
	}
	return report
}

func parseSectionSafe(index int, section string) (place models.Place, drop *DroppedSection) {
	defer func() {
		if r := recover(); r != nil {
			drop = &DroppedSection{Index: index, Reason: DropUnexpected, Detail: fmt.Sprint(r)}
		}
	}()
	return parseSection(index, section)
}

func parseSection(index int, section string) (models.Place, *DroppedSection) {
	tokens := scanTokens(section)
	if !tokens.hasCoords {
		return models.Place{}, &DroppedSection{Index: index, Reason: DropMissingCoordinates}
	}

	lat, latErr := parseFinite(tokens.lat)
	lng, lngErr := parseFinite(tokens.lng)
	if latErr != nil || lngErr != nil {
		return models.Place{}, &DroppedSection{
			Index:  index,
			Reason: DropInvalidCoordinates,
			Detail: fmt.Sprintf("lat=%q lng=%q", tokens.lat, tokens.lng),
		}
	}

	lines := strings.Split(strings.TrimSpace(section), "\n")
	name := strings.ReplaceAll(stripTokens(lines[0]), "*", "")
	name = strings.TrimSpace(leftoverMarker.ReplaceAllString(strings.TrimSpace(name), ""))
	if name == "" {
		return models.Place{}, &DroppedSection{Index: index, Reason: DropMissingName}
	}

	description := stripTokens(strings.Join(lines[1:], " "))
	if description == "" {
		return models.Place{}, &DroppedSection{Index: index, Reason: DropMissingDescription}
	}

	category := models.CategoryOther
	if tokens.hasCategory {
		category = models.ParseCategory(tokens.category)
	}

	var rating float64
	if tokens.hasRating {
		if r, err := parseFinite(tokens.rating); err == nil {
			rating = normalizeRating(r)
		}
	}

	return models.Place{
		Name:            name,
		Description:     description,
		Lat:             lat,
		Lng:             lng,
		Category:        category,
		EstimatedRating: rating,
	}, nil
}

func parseFinite(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite value %q", s)
	}
	return v, nil
}

// normalizeRating clamps r into [0, 5] at one-decimal granularity.
func normalizeRating(r float64) float64 {
	r = math.Max(0, math.Min(maxRating, r))
	return math.Round(r*10) / 10
}
