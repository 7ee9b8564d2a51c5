package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	SearchRequestsTotal   metric.Int64Counter
	SearchDuration        metric.Float64Histogram
	ParsedPlacesTotal     metric.Int64Counter
	DroppedSectionsTotal  metric.Int64Counter
	LocationRequestsTotal metric.Int64Counter
	StorageErrorsTotal    metric.Int64Counter
	ActiveSessions        metric.Int64UpDownCounter
	ReviewsSubmittedTotal metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the metric instruments once, using the Meter
// from the globally configured MeterProvider. Before the provider is set up
// the global noop provider is used.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("hidden-gems")
		var err error
		m := &AppMetrics{}

		m.SearchRequestsTotal, err = meter.Int64Counter(
			"gems_search_requests_total",
			metric.WithDescription("Total number of hidden gems searches sent to the model"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create gems_search_requests_total: %v", err)
		}

		m.SearchDuration, err = meter.Float64Histogram(
			"gems_search_duration_seconds",
			metric.WithDescription("Duration of model searches in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create gems_search_duration_seconds: %v", err)
		}

		m.ParsedPlacesTotal, err = meter.Int64Counter(
			"gems_parsed_places_total",
			metric.WithDescription("Places extracted from model responses"),
			metric.WithUnit("{place}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create gems_parsed_places_total: %v", err)
		}

		m.DroppedSectionsTotal, err = meter.Int64Counter(
			"gems_dropped_sections_total",
			metric.WithDescription("Response sections dropped by the parser"),
			metric.WithUnit("{section}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create gems_dropped_sections_total: %v", err)
		}

		m.LocationRequestsTotal, err = meter.Int64Counter(
			"gems_location_requests_total",
			metric.WithDescription("Device location lookups by outcome"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create gems_location_requests_total: %v", err)
		}

		m.StorageErrorsTotal, err = meter.Int64Counter(
			"gems_storage_errors_total",
			metric.WithDescription("Storage reads or writes that failed and were degraded"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create gems_storage_errors_total: %v", err)
		}

		m.ActiveSessions, err = meter.Int64UpDownCounter(
			"gems_active_sessions",
			metric.WithDescription("Search sessions currently held in memory"),
			metric.WithUnit("{session}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create gems_active_sessions: %v", err)
		}

		m.ReviewsSubmittedTotal, err = meter.Int64Counter(
			"gems_reviews_submitted_total",
			metric.WithDescription("Reviews appended to places"),
			metric.WithUnit("{review}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create gems_reviews_submitted_total: %v", err)
		}

		log.Println("Application metrics instruments initialized.")
		appMetrics = m
	})
}

// Get returns the AppMetrics instance, initializing it on first use.
func Get() *AppMetrics {
	InitAppMetrics()
	return appMetrics
}
