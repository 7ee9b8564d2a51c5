package gems

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/FACorreiaa/hidden-gems/internal/app/models"
	"github.com/FACorreiaa/hidden-gems/internal/app/observability/metrics"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

// ErrMissingAPIKey is returned by every search when no credential is configured.
var ErrMissingAPIKey = errors.New("API_KEY environment variable not set. Please ensure it is configured")

// Finder is the outbound collaborator that turns a search query into a result.
type Finder interface {
	FindHiddenGems(ctx context.Context, query models.SearchQuery) (*models.SearchResult, error)
}

// ContentGenerator is the subset of *genai.Models used by GeminiFinder.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

var _ Finder = (*GeminiFinder)(nil)

// GeminiFinder queries a Gemini model grounded with Google Maps and Google Search.
type GeminiFinder struct {
	models ContentGenerator
	model  string
	logger *zap.Logger
}

// NewGeminiFinder builds a finder backed by the Gemini API. An empty apiKey
// yields a finder whose searches fail with ErrMissingAPIKey.
func NewGeminiFinder(ctx context.Context, apiKey, model string, logger *zap.Logger) (*GeminiFinder, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if model == "" {
		model = DefaultModel
	}
	if apiKey == "" {
		logger.Warn("Gemini API key not configured, searches will fail until it is set")
		return &GeminiFinder{model: model, logger: logger}, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return NewFinderWithGenerator(client.Models, model, logger), nil
}

// NewFinderWithGenerator wires a finder around an existing generator.
func NewFinderWithGenerator(gen ContentGenerator, model string, logger *zap.Logger) *GeminiFinder {
	if logger == nil {
		logger = zap.NewNop()
	}
	if model == "" {
		model = DefaultModel
	}
	return &GeminiFinder{models: gen, model: model, logger: logger}
}

// FindHiddenGems issues exactly one model call for query and parses the answer.
func (f *GeminiFinder) FindHiddenGems(ctx context.Context, query models.SearchQuery) (*models.SearchResult, error) {
	ctx, span := otel.Tracer("GemsFinder").Start(ctx, "FindHiddenGems", trace.WithAttributes(
		attribute.String("model", f.model),
		attribute.String("search.mode", string(query.Mode)),
		attribute.Bool("search.location_bias", query.Location != nil),
	))
	defer span.End()

	l := f.logger.With(zap.String("method", "FindHiddenGems"))
	m := metrics.Get()

	if f.models == nil {
		span.RecordError(ErrMissingAPIKey)
		span.SetStatus(codes.Error, "API key not set")
		m.SearchRequestsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "misconfigured")))
		return nil, &models.UpstreamError{Err: ErrMissingAPIKey}
	}

	prompt := BuildPrompt(query.Prompt, LocationContext(query.LocationQuery, query.Location))
	config := &genai.GenerateContentConfig{
		Tools: []*genai.Tool{
			{GoogleMaps: &genai.GoogleMaps{}},
			{GoogleSearch: &genai.GoogleSearch{}},
		},
	}
	if query.Location != nil {
		config.ToolConfig = &genai.ToolConfig{
			RetrievalConfig: &genai.RetrievalConfig{
				LatLng: &genai.LatLng{
					Latitude:  genai.Ptr(query.Location.Latitude),
					Longitude: genai.Ptr(query.Location.Longitude),
				},
			},
		}
	}

	start := time.Now()
	resp, err := f.models.GenerateContent(ctx, f.model, genai.Text(prompt), config)
	latency := time.Since(start)
	m.SearchDuration.Record(ctx, latency.Seconds())

	rec := interaction{
		Model:      f.model,
		PromptHash: HashPrompt(prompt),
		Grounded:   query.Location != nil,
		Latency:    latency,
	}

	if err != nil {
		rec.Err = err
		logInteraction(l, rec)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to generate content")
		m.SearchRequestsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "error")))
		return nil, &models.UpstreamError{Err: err}
	}

	var text string
	if resp != nil {
		text = resp.Text()
		rec.Usage = resp.UsageMetadata
	}

	report := ParseResponseWithReport(text)
	for _, d := range report.Dropped {
		l.Debug("Dropped response section",
			zap.Int("index", d.Index),
			zap.String("reason", string(d.Reason)),
			zap.String("detail", d.Detail))
		m.DroppedSectionsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", string(d.Reason))))
	}
	m.ParsedPlacesTotal.Add(ctx, int64(len(report.Places)))

	sources := sourcesFromResponse(resp)
	if sources == nil {
		sources = []models.Source{}
	}

	rec.Places, rec.Dropped, rec.Sources = len(report.Places), len(report.Dropped), len(sources)
	logInteraction(l, rec)

	span.SetAttributes(
		attribute.Int("results.places", len(report.Places)),
		attribute.Int("results.dropped", len(report.Dropped)),
		attribute.Int("results.sources", len(sources)),
	)
	span.SetStatus(codes.Ok, "Hidden gems found")
	m.SearchRequestsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "ok")))

	return &models.SearchResult{
		Text:    text,
		Sources: sources,
		Places:  report.Places,
	}, nil
}
