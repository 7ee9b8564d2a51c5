package session

import (
	"strings"

	ahocorasick "github.com/petar-dambovaliev/aho-corasick"
)

// User-facing messages attached to session state.
const (
	MsgLocationDenied   = "Location access denied. Please enable location services in your browser settings to find hidden gems near you."
	MsgLocationRequired = "We need your location to find gems near you. Please grant access."
	MsgConfiguration    = "There was an issue with the API configuration. Please ensure your API key is valid and has the necessary permissions."
	MsgUnexpected       = "An unexpected error occurred. Please try again."
)

// Prompts used when the user gives none.
const (
	DefaultNearMePrompt = "interesting and unique spots"
	UseMyLocationPrompt = "scenic spots, quiet cafes, and secluded parks"
)

// credentialSignatures identify upstream failures caused by a missing or
// rejected API credential.
var credentialSignatures = []string{
	"API key not valid",
	"API_KEY",
	"Requested entity was not found",
}

var credentialMatcher = func() ahocorasick.AhoCorasick {
	builder := ahocorasick.NewAhoCorasickBuilder(ahocorasick.Opts{
		AsciiCaseInsensitive: false,
		MatchOnlyWholeWords:  false,
		MatchKind:            ahocorasick.LeftMostLongestMatch,
		DFA:                  true,
	})
	return builder.Build(credentialSignatures)
}()

// ErrorMessage derives the message shown to the user for a failed search.
func ErrorMessage(err error) string {
	if err == nil {
		return MsgUnexpected
	}
	msg := err.Error()
	if strings.TrimSpace(msg) == "" {
		return MsgUnexpected
	}
	if len(credentialMatcher.FindAll(msg)) > 0 {
		return MsgConfiguration
	}
	return msg
}
