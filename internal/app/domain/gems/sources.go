package gems

import (
	"strings"

	"google.golang.org/genai"

	"github.com/FACorreiaa/hidden-gems/internal/app/models"
)

// DedupSources keeps one entry per URI in order of first occurrence and drops
// entries that lack a URI or a title.
func DedupSources(sources []models.Source) []models.Source {
	seen := make(map[string]struct{}, len(sources))
	out := make([]models.Source, 0, len(sources))
	for _, s := range sources {
		if strings.TrimSpace(s.URI) == "" || strings.TrimSpace(s.Title) == "" {
			continue
		}
		if _, dup := seen[s.URI]; dup {
			continue
		}
		seen[s.URI] = struct{}{}
		out = append(out, s)
	}
	return out
}

// sourcesFromResponse collects the grounding citations of the first candidate.
func sourcesFromResponse(resp *genai.GenerateContentResponse) []models.Source {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return nil
	}
	meta := resp.Candidates[0].GroundingMetadata
	if meta == nil {
		return nil
	}

	var sources []models.Source
	for _, chunk := range meta.GroundingChunks {
		if chunk == nil {
			continue
		}
		if chunk.Maps != nil {
			sources = append(sources, models.Source{URI: chunk.Maps.URI, Title: chunk.Maps.Title, Type: models.SourceTypeMaps})
		}
		if chunk.Web != nil {
			sources = append(sources, models.Source{URI: chunk.Web.URI, Title: chunk.Web.Title, Type: models.SourceTypeWeb})
		}
	}
	return DedupSources(sources)
}
