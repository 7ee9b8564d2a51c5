// Package session implements the search session state machine: location
// permission, search submission, result filtering and the short-lived
// persisted snapshot that lets a reload resume where the user left off.
package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/FACorreiaa/hidden-gems/internal/app/domain/gems"
	"github.com/FACorreiaa/hidden-gems/internal/app/models"
	"github.com/FACorreiaa/hidden-gems/internal/app/observability/metrics"
	"github.com/FACorreiaa/hidden-gems/internal/pkg/storage"
)

// DefaultSnapshotTTL is how long a persisted session stays restorable.
const DefaultSnapshotTTL = 5 * time.Minute

var (
	// ErrSuperseded is returned to a search whose response arrived after a
	// newer submission took over the session. The response was discarded.
	ErrSuperseded = errors.New("search superseded by a newer submission")
	// ErrSearchInProgress rejects a location request while a search is loading.
	ErrSearchInProgress = errors.New("a search is already in progress")
)

// Config wires a Machine to its collaborators.
type Config struct {
	Finder      gems.Finder
	Store       storage.Store
	SnapshotTTL time.Duration
	Now         func() time.Time
	Logger      *zap.Logger
}

// Machine owns one device's search session. All transitions are serialised;
// the outbound search runs without holding the lock.
type Machine struct {
	mu      sync.Mutex
	session models.SearchSession
	pending bool

	generation uint64
	cancel     context.CancelFunc

	finder      gems.Finder
	store       storage.Store
	snapshotTTL time.Duration
	now         func() time.Time
	logger      *zap.Logger
}

func NewMachine(cfg Config) *Machine {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.SnapshotTTL <= 0 {
		cfg.SnapshotTTL = DefaultSnapshotTTL
	}
	if cfg.Store == nil {
		cfg.Store = storage.NewMemoryStore()
	}
	return &Machine{
		session: models.SearchSession{
			State:         models.StateIdle,
			Mode:          models.SearchModeNearMe,
			ActiveFilters: []models.PlaceCategory{},
		},
		finder:      cfg.Finder,
		store:       cfg.Store,
		snapshotTTL: cfg.SnapshotTTL,
		now:         cfg.Now,
		logger:      cfg.Logger,
	}
}

// Snapshot returns a copy of the session safe to hand to the renderer.
func (m *Machine) Snapshot() models.SearchSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Machine) snapshotLocked() models.SearchSession {
	s := m.session
	s.ActiveFilters = slices.Clone(m.session.ActiveFilters)
	if s.ActiveFilters == nil {
		s.ActiveFilters = []models.PlaceCategory{}
	}
	if m.session.Location != nil {
		loc := *m.session.Location
		s.Location = &loc
	}
	return s
}

// Filtered returns the places of the current result that pass the active
// filters. Without a result it is empty.
func (m *Machine) Filtered() []models.Place {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session.Result == nil {
		return []models.Place{}
	}
	return models.FilterPlaces(m.session.Result.Places, m.session.ActiveFilters)
}

// PendingSearch reports whether a location-based search is queued behind a
// permission request.
func (m *Machine) PendingSearch() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending
}

func (m *Machine) SetMode(mode models.SearchMode) error {
	if !mode.Valid() {
		return fmt.Errorf("%w: unknown search mode %q", models.ErrValidation, mode)
	}
	m.mu.Lock()
	m.session.Mode = mode
	m.mu.Unlock()
	return nil
}

func (m *Machine) SetPrompt(prompt string) {
	m.mu.Lock()
	m.session.Prompt = prompt
	m.mu.Unlock()
}

func (m *Machine) SetLocationQuery(q string) {
	m.mu.Lock()
	m.session.LocationQuery = q
	m.mu.Unlock()
}

// BeginLocationRequest moves the session into requesting_location. It fails
// while a search is loading.
func (m *Machine) BeginLocationRequest() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.beginLocationLocked()
}

func (m *Machine) beginLocationLocked() error {
	if m.session.State == models.StateLoading {
		return ErrSearchInProgress
	}
	m.session.State = models.StateRequestingLocation
	m.session.Error = ""
	return nil
}

// RequestLocation performs one geolocation lookup through provider. On
// success the coordinates are cached and any queued search runs; on failure
// the queued search is abandoned.
func (m *Machine) RequestLocation(ctx context.Context, provider LocationProvider) (models.SearchSession, error) {
	if err := m.BeginLocationRequest(); err != nil {
		return m.Snapshot(), err
	}
	loc, err := provider.CurrentLocation(ctx)
	return m.ResolveLocation(ctx, loc, err)
}

// ResolveLocation applies the outcome of a geolocation lookup started with
// BeginLocationRequest. Outcomes arriving in any other state are ignored.
func (m *Machine) ResolveLocation(ctx context.Context, loc models.Location, lookupErr error) (models.SearchSession, error) {
	l := m.logger.With(zap.String("method", "ResolveLocation"))
	mtr := metrics.Get()

	m.mu.Lock()
	if m.session.State != models.StateRequestingLocation {
		// A late grant still refreshes the cached coordinates.
		if lookupErr == nil {
			m.session.Location = &loc
		}
		l.Debug("Ignoring location outcome outside of a request", zap.String("state", string(m.session.State)))
		s := m.snapshotLocked()
		m.mu.Unlock()
		return s, nil
	}

	if lookupErr != nil {
		m.session.State = models.StateLocationDenied
		m.session.Error = MsgLocationDenied
		m.session.Location = nil
		m.pending = false
		s := m.snapshotLocked()
		m.mu.Unlock()

		l.Info("Location unavailable", zap.Error(lookupErr))
		mtr.LocationRequestsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "denied")))
		if !errors.Is(lookupErr, models.ErrLocationUnavailable) {
			lookupErr = fmt.Errorf("%w: %w", models.ErrLocationUnavailable, lookupErr)
		}
		return s, lookupErr
	}

	m.session.State = models.StateLocationGranted
	m.session.Error = ""
	m.session.Location = &loc
	runPending := m.pending
	m.pending = false
	s := m.snapshotLocked()
	m.mu.Unlock()

	mtr.LocationRequestsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "granted")))
	if runPending {
		l.Debug("Running search queued behind location permission")
		return m.Submit(ctx, models.SearchQuery{Prompt: UseMyLocationPrompt, Mode: models.SearchModeNearMe})
	}
	return s, nil
}

// UseMyLocation is the one-tap shortcut: search near the device for a fixed
// prompt. Without cached coordinates the search is queued and a location
// request starts; a nil provider leaves the request open for ResolveLocation.
func (m *Machine) UseMyLocation(ctx context.Context, provider LocationProvider) (models.SearchSession, error) {
	m.mu.Lock()
	m.session.Mode = models.SearchModeNearMe
	m.session.Prompt = UseMyLocationPrompt
	if m.session.Location != nil {
		m.mu.Unlock()
		return m.Submit(ctx, models.SearchQuery{Prompt: UseMyLocationPrompt, Mode: models.SearchModeNearMe})
	}

	if err := m.beginLocationLocked(); err != nil {
		s := m.snapshotLocked()
		m.mu.Unlock()
		return s, err
	}
	m.pending = true
	m.mu.Unlock()

	if provider == nil {
		return m.Snapshot(), nil
	}
	loc, err := provider.CurrentLocation(ctx)
	return m.ResolveLocation(ctx, loc, err)
}

// Submit validates q and, when valid, runs exactly one outbound search. A
// newer submission cancels and supersedes an older one still in flight.
func (m *Machine) Submit(ctx context.Context, q models.SearchQuery) (models.SearchSession, error) {
	ctx, span := otel.Tracer("SearchSession").Start(ctx, "Submit", trace.WithAttributes(
		attribute.String("search.mode", string(q.Mode)),
	))
	defer span.End()

	l := m.logger.With(zap.String("method", "Submit"))

	m.mu.Lock()
	mode := q.Mode
	if !mode.Valid() {
		mode = m.session.Mode
	}
	prompt := strings.TrimSpace(q.Prompt)
	locationQuery := strings.TrimSpace(q.LocationQuery)

	query := models.SearchQuery{Prompt: prompt, Mode: mode}
	switch mode {
	case models.SearchModeSpecificLocation:
		if prompt == "" || locationQuery == "" {
			s := m.snapshotLocked()
			m.mu.Unlock()
			span.SetStatus(codes.Ok, "Ignored incomplete submission")
			return s, models.ErrInvalidSubmission
		}
		query.LocationQuery = locationQuery
	default:
		if m.session.Location == nil {
			if m.cancel != nil {
				m.cancel()
				m.cancel = nil
			}
			m.generation++
			m.pending = false
			m.session.Mode = mode
			m.session.Prompt = q.Prompt
			m.session.State = models.StateLocationDenied
			m.session.Error = MsgLocationRequired
			s := m.snapshotLocked()
			m.mu.Unlock()
			l.Info("Near-me search without a resolved location")
			span.SetStatus(codes.Error, "Location unavailable")
			return s, models.ErrLocationUnavailable
		}
		if query.Prompt == "" {
			query.Prompt = DefaultNearMePrompt
		}
		loc := *m.session.Location
		query.Location = &loc
	}

	if m.cancel != nil {
		m.cancel()
	}
	m.generation++
	gen := m.generation
	reqCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	m.cancel = cancel

	m.pending = false
	m.session.State = models.StateLoading
	m.session.Mode = mode
	m.session.Prompt = q.Prompt
	m.session.LocationQuery = locationQuery
	m.session.Error = ""
	m.session.Result = nil
	m.session.ActiveFilters = []models.PlaceCategory{}
	m.clearSnapshotLocked(ctx)
	finder := m.finder
	m.mu.Unlock()

	span.SetAttributes(attribute.Int64("search.generation", int64(gen)))
	l.Info("Search started", zap.Uint64("generation", gen), zap.String("mode", string(mode)))

	var (
		result *models.SearchResult
		err    error
	)
	if finder == nil {
		err = &models.UpstreamError{Err: gems.ErrMissingAPIKey}
	} else {
		result, err = finder.FindHiddenGems(reqCtx, query)
	}
	cancel()

	m.mu.Lock()
	defer m.mu.Unlock()

	if gen != m.generation {
		l.Debug("Discarding superseded search response", zap.Uint64("generation", gen), zap.Uint64("current", m.generation))
		span.SetStatus(codes.Ok, "Superseded")
		return m.snapshotLocked(), ErrSuperseded
	}
	m.cancel = nil

	if err != nil {
		m.session.State = models.StateError
		m.session.Error = ErrorMessage(err)
		m.persistLocked(ctx)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Search failed")
		l.Warn("Search failed", zap.Error(err))
		if !errors.Is(err, models.ErrUpstreamRequestFailed) {
			err = &models.UpstreamError{Err: err}
		}
		return m.snapshotLocked(), err
	}

	if result == nil {
		result = &models.SearchResult{}
	}
	if result.Places == nil {
		result.Places = []models.Place{}
	}
	if result.Sources == nil {
		result.Sources = []models.Source{}
	}
	m.session.State = models.StateResultsFound
	m.session.Error = ""
	m.session.Result = result
	m.persistLocked(ctx)

	span.SetAttributes(attribute.Int("results.places", len(result.Places)))
	span.SetStatus(codes.Ok, "Results found")
	l.Info("Search completed", zap.Uint64("generation", gen), zap.Int("places", len(result.Places)))
	return m.snapshotLocked(), nil
}

// ToggleFilter adds category to the active filters, or removes it when
// already active.
func (m *Machine) ToggleFilter(ctx context.Context, category models.PlaceCategory) (models.SearchSession, error) {
	if !category.Valid() {
		return m.Snapshot(), fmt.Errorf("%w: unknown category %q", models.ErrValidation, category)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if i := slices.Index(m.session.ActiveFilters, category); i >= 0 {
		m.session.ActiveFilters = slices.Delete(slices.Clone(m.session.ActiveFilters), i, i+1)
	} else {
		m.session.ActiveFilters = append(slices.Clone(m.session.ActiveFilters), category)
	}
	m.persistLocked(ctx)
	return m.snapshotLocked(), nil
}

// SetFilters replaces the active filter set. Duplicates are collapsed.
func (m *Machine) SetFilters(ctx context.Context, categories []models.PlaceCategory) (models.SearchSession, error) {
	filters := make([]models.PlaceCategory, 0, len(categories))
	for _, c := range categories {
		if !c.Valid() {
			return m.Snapshot(), fmt.Errorf("%w: unknown category %q", models.ErrValidation, c)
		}
		if !slices.Contains(filters, c) {
			filters = append(filters, c)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.session.ActiveFilters = filters
	m.persistLocked(ctx)
	return m.snapshotLocked(), nil
}

// Close cancels any search still in flight.
func (m *Machine) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}
