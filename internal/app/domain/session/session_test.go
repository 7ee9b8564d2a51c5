package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/FACorreiaa/hidden-gems/internal/app/domain/gems"
	"github.com/FACorreiaa/hidden-gems/internal/app/models"
	"github.com/FACorreiaa/hidden-gems/internal/pkg/storage"
)

type MockFinder struct {
	mock.Mock
}

func (m *MockFinder) FindHiddenGems(ctx context.Context, q models.SearchQuery) (*models.SearchResult, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SearchResult), args.Error(1)
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

var lisbon = models.Location{Latitude: 38.7223, Longitude: -9.1393}

func sampleResult() *models.SearchResult {
	return &models.SearchResult{
		Text: "Intro\n### Quiet Cove\nA calm beach.",
		Places: []models.Place{
			{Name: "Quiet Cove", Description: "A calm beach.", Lat: 10, Lng: 20, Category: models.CategoryScenic, EstimatedRating: 4.5},
			{Name: "Bean There", Description: "Small roastery.", Lat: 11, Lng: 21, Category: models.CategoryCafe, EstimatedRating: 4.1},
		},
		Sources: []models.Source{{URI: "https://maps.example/cove", Title: "Quiet Cove", Type: models.SourceTypeMaps}},
	}
}

func newTestMachine(finder gems.Finder, store storage.Store, clock *fakeClock) *Machine {
	return NewMachine(Config{Finder: finder, Store: store, Now: clock.Now, Logger: zap.NewNop()})
}

func grant(t *testing.T, m *Machine) {
	t.Helper()
	s, err := m.RequestLocation(context.Background(), ClientLocation{Granted: true, Latitude: lisbon.Latitude, Longitude: lisbon.Longitude})
	require.NoError(t, err)
	require.Equal(t, models.StateLocationGranted, s.State)
}

func TestSubmit_NearMeWithoutLocation(t *testing.T) {
	finder := new(MockFinder)
	m := newTestMachine(finder, storage.NewMemoryStore(), newFakeClock())

	s, err := m.Submit(context.Background(), models.SearchQuery{Prompt: "cafes", Mode: models.SearchModeNearMe})

	assert.ErrorIs(t, err, models.ErrLocationUnavailable)
	assert.Equal(t, models.StateLocationDenied, s.State)
	assert.Equal(t, MsgLocationRequired, s.Error)
	finder.AssertNotCalled(t, "FindHiddenGems", mock.Anything, mock.Anything)
}

func TestSubmit_SpecificLocationValidation(t *testing.T) {
	tests := []struct {
		name  string
		query models.SearchQuery
	}{
		{"blank prompt", models.SearchQuery{Prompt: "  ", Mode: models.SearchModeSpecificLocation, LocationQuery: "Porto"}},
		{"blank location", models.SearchQuery{Prompt: "bookstores", Mode: models.SearchModeSpecificLocation, LocationQuery: ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			finder := new(MockFinder)
			m := newTestMachine(finder, storage.NewMemoryStore(), newFakeClock())

			s, err := m.Submit(context.Background(), tt.query)
			assert.ErrorIs(t, err, models.ErrInvalidSubmission)
			assert.Equal(t, models.StateIdle, s.State)
			assert.Empty(t, s.Error)
			finder.AssertNotCalled(t, "FindHiddenGems", mock.Anything, mock.Anything)
		})
	}
}

func TestSubmit_Success(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	clock := newFakeClock()
	finder := new(MockFinder)
	m := newTestMachine(finder, store, clock)
	grant(t, m)

	finder.On("FindHiddenGems", mock.Anything, mock.MatchedBy(func(q models.SearchQuery) bool {
		return q.Prompt == DefaultNearMePrompt && q.Location != nil && *q.Location == lisbon && q.LocationQuery == ""
	})).Return(sampleResult(), nil).Once()

	s, err := m.Submit(ctx, models.SearchQuery{Prompt: "", Mode: models.SearchModeNearMe})
	require.NoError(t, err)
	assert.Equal(t, models.StateResultsFound, s.State)
	require.NotNil(t, s.Result)
	assert.Len(t, s.Result.Places, 2)

	snap := storage.LoadJSON[*models.SessionSnapshot](ctx, store, SnapshotKey, zap.NewNop())
	require.NotNil(t, snap)
	assert.Equal(t, models.StateResultsFound, snap.AppState)
	assert.Equal(t, clock.Now().UnixMilli(), snap.Timestamp)
	finder.AssertExpectations(t)
}

func TestSubmit_ZeroPlacesIsNotAnError(t *testing.T) {
	finder := new(MockFinder)
	m := newTestMachine(finder, storage.NewMemoryStore(), newFakeClock())

	finder.On("FindHiddenGems", mock.Anything, mock.Anything).
		Return(&models.SearchResult{Text: "Nothing matched."}, nil).Once()

	s, err := m.Submit(context.Background(), models.SearchQuery{Prompt: "bookstores", Mode: models.SearchModeSpecificLocation, LocationQuery: "Porto"})
	require.NoError(t, err)
	assert.Equal(t, models.StateResultsFound, s.State)
	assert.NotNil(t, s.Result.Places)
	assert.Empty(t, s.Result.Places)
	assert.NotNil(t, s.Result.Sources)
}

func TestSubmit_UpstreamErrors(t *testing.T) {
	tests := []struct {
		name            string
		err             error
		expectedMessage string
	}{
		{"credential rejected", errors.New("Error 400: API key not valid. Please pass a valid API key."), MsgConfiguration},
		{"missing key", &models.UpstreamError{Err: gems.ErrMissingAPIKey}, MsgConfiguration},
		{"unknown model", errors.New("Requested entity was not found."), MsgConfiguration},
		{"raw passthrough", errors.New("Error 503: model overloaded"), "Error 503: model overloaded"},
		{"empty message", errors.New(""), MsgUnexpected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := storage.NewMemoryStore()
			finder := new(MockFinder)
			m := newTestMachine(finder, store, newFakeClock())

			finder.On("FindHiddenGems", mock.Anything, mock.Anything).Return(nil, tt.err).Once()

			s, err := m.Submit(ctx, models.SearchQuery{Prompt: "x", Mode: models.SearchModeSpecificLocation, LocationQuery: "Porto"})
			assert.ErrorIs(t, err, models.ErrUpstreamRequestFailed)
			assert.Equal(t, models.StateError, s.State)
			assert.Equal(t, tt.expectedMessage, s.Error)
			assert.Nil(t, s.Result)

			_, getErr := store.Get(ctx, SnapshotKey)
			assert.ErrorIs(t, getErr, storage.ErrNotFound)
		})
	}
}

func TestSubmit_ClearsStateBeforeResponse(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	finder := new(MockFinder)
	m := newTestMachine(finder, store, newFakeClock())

	finder.On("FindHiddenGems", mock.Anything, mock.Anything).Return(sampleResult(), nil).Once()
	_, err := m.Submit(ctx, models.SearchQuery{Prompt: "cafes", Mode: models.SearchModeSpecificLocation, LocationQuery: "Lisbon"})
	require.NoError(t, err)
	_, err = m.ToggleFilter(ctx, models.CategoryCafe)
	require.NoError(t, err)
	_, err = store.Get(ctx, SnapshotKey)
	require.NoError(t, err)

	started := make(chan struct{})
	release := make(chan struct{})
	finder.On("FindHiddenGems", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(sampleResult(), nil).Once()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = m.Submit(ctx, models.SearchQuery{Prompt: "parks", Mode: models.SearchModeSpecificLocation, LocationQuery: "Lisbon"})
	}()
	<-started

	s := m.Snapshot()
	assert.Equal(t, models.StateLoading, s.State)
	assert.Empty(t, s.ActiveFilters)
	assert.Nil(t, s.Result)
	assert.Empty(t, s.Error)
	_, err = store.Get(ctx, SnapshotKey)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	close(release)
	<-done
	assert.Equal(t, models.StateResultsFound, m.Snapshot().State)
}

func TestSubmit_StaleResponseIsDiscarded(t *testing.T) {
	ctx := context.Background()
	finder := new(MockFinder)
	m := newTestMachine(finder, storage.NewMemoryStore(), newFakeClock())

	firstStarted := make(chan struct{})
	finder.On("FindHiddenGems", mock.Anything, mock.MatchedBy(func(q models.SearchQuery) bool { return q.Prompt == "first" })).
		Run(func(args mock.Arguments) {
			close(firstStarted)
			<-args.Get(0).(context.Context).Done()
		}).
		Return(nil, context.Canceled).Once()

	newer := &models.SearchResult{Text: "newer", Places: []models.Place{{Name: "Newer", Description: "d", Category: models.CategoryPark}}}
	finder.On("FindHiddenGems", mock.Anything, mock.MatchedBy(func(q models.SearchQuery) bool { return q.Prompt == "second" })).
		Return(newer, nil).Once()

	firstErr := make(chan error, 1)
	go func() {
		_, err := m.Submit(ctx, models.SearchQuery{Prompt: "first", Mode: models.SearchModeSpecificLocation, LocationQuery: "Porto"})
		firstErr <- err
	}()
	<-firstStarted

	s, err := m.Submit(ctx, models.SearchQuery{Prompt: "second", Mode: models.SearchModeSpecificLocation, LocationQuery: "Porto"})
	require.NoError(t, err)
	assert.Equal(t, "newer", s.Result.Text)

	assert.ErrorIs(t, <-firstErr, ErrSuperseded)
	final := m.Snapshot()
	assert.Equal(t, models.StateResultsFound, final.State)
	assert.Equal(t, "newer", final.Result.Text)
	finder.AssertExpectations(t)
}

func TestSubmit_NearMeWithoutLocationSupersedesInFlight(t *testing.T) {
	ctx := context.Background()
	finder := new(MockFinder)
	m := newTestMachine(finder, storage.NewMemoryStore(), newFakeClock())

	started := make(chan struct{})
	release := make(chan struct{})
	finder.On("FindHiddenGems", mock.Anything, mock.MatchedBy(func(q models.SearchQuery) bool { return q.Prompt == "first" })).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(sampleResult(), nil).Once()

	firstErr := make(chan error, 1)
	go func() {
		_, err := m.Submit(ctx, models.SearchQuery{Prompt: "first", Mode: models.SearchModeSpecificLocation, LocationQuery: "Porto"})
		firstErr <- err
	}()
	<-started

	s, err := m.Submit(ctx, models.SearchQuery{Prompt: "second", Mode: models.SearchModeNearMe})
	assert.ErrorIs(t, err, models.ErrLocationUnavailable)
	assert.Equal(t, models.StateLocationDenied, s.State)

	close(release)
	assert.ErrorIs(t, <-firstErr, ErrSuperseded)

	final := m.Snapshot()
	assert.Equal(t, models.StateLocationDenied, final.State)
	assert.Equal(t, MsgLocationRequired, final.Error)
	assert.Nil(t, final.Result)
	finder.AssertExpectations(t)
}

func TestRequestLocation(t *testing.T) {
	t.Run("denied", func(t *testing.T) {
		m := newTestMachine(new(MockFinder), storage.NewMemoryStore(), newFakeClock())
		s, err := m.RequestLocation(context.Background(), ClientLocation{Granted: false})
		assert.ErrorIs(t, err, models.ErrLocationUnavailable)
		assert.Equal(t, models.StateLocationDenied, s.State)
		assert.Equal(t, MsgLocationDenied, s.Error)
		assert.Nil(t, s.Location)
	})

	t.Run("out of range coordinates", func(t *testing.T) {
		m := newTestMachine(new(MockFinder), storage.NewMemoryStore(), newFakeClock())
		s, err := m.RequestLocation(context.Background(), ClientLocation{Granted: true, Latitude: 120})
		assert.ErrorIs(t, err, models.ErrLocationUnavailable)
		assert.Equal(t, models.StateLocationDenied, s.State)
	})

	t.Run("provider failure is wrapped", func(t *testing.T) {
		m := newTestMachine(new(MockFinder), storage.NewMemoryStore(), newFakeClock())
		timeout := errors.New("timeout expired")
		_, err := m.RequestLocation(context.Background(), LocationFunc(func(context.Context) (models.Location, error) {
			return models.Location{}, timeout
		}))
		assert.ErrorIs(t, err, models.ErrLocationUnavailable)
		assert.ErrorIs(t, err, timeout)
	})

	t.Run("granted", func(t *testing.T) {
		m := newTestMachine(new(MockFinder), storage.NewMemoryStore(), newFakeClock())
		grant(t, m)
		s := m.Snapshot()
		require.NotNil(t, s.Location)
		assert.Equal(t, lisbon, *s.Location)
		assert.Empty(t, s.Error)
	})

	t.Run("late grant keeps state but caches coordinates", func(t *testing.T) {
		m := newTestMachine(new(MockFinder), storage.NewMemoryStore(), newFakeClock())
		s, err := m.ResolveLocation(context.Background(), lisbon, nil)
		require.NoError(t, err)
		assert.Equal(t, models.StateIdle, s.State)
		require.NotNil(t, s.Location)
		assert.Equal(t, lisbon, *s.Location)
	})

	t.Run("grant after switching to a typed search", func(t *testing.T) {
		ctx := context.Background()
		finder := new(MockFinder)
		m := newTestMachine(finder, storage.NewMemoryStore(), newFakeClock())

		_, err := m.UseMyLocation(ctx, nil)
		require.NoError(t, err)

		finder.On("FindHiddenGems", mock.Anything, mock.MatchedBy(func(q models.SearchQuery) bool { return q.Prompt == "bakeries" })).
			Return(sampleResult(), nil).Once()
		s, err := m.Submit(ctx, models.SearchQuery{Prompt: "bakeries", Mode: models.SearchModeSpecificLocation, LocationQuery: "Porto"})
		require.NoError(t, err)
		require.Equal(t, models.StateResultsFound, s.State)

		s, err = m.ResolveLocation(ctx, lisbon, nil)
		require.NoError(t, err)
		assert.Equal(t, models.StateResultsFound, s.State)
		require.NotNil(t, s.Location)
		assert.Equal(t, lisbon, *s.Location)
		finder.AssertExpectations(t)
	})

	t.Run("late failure is ignored", func(t *testing.T) {
		m := newTestMachine(new(MockFinder), storage.NewMemoryStore(), newFakeClock())
		s, err := m.ResolveLocation(context.Background(), models.Location{}, errors.New("timeout expired"))
		require.NoError(t, err)
		assert.Equal(t, models.StateIdle, s.State)
		assert.Nil(t, s.Location)
	})
}

func TestUseMyLocation(t *testing.T) {
	t.Run("queued search runs once permission is granted", func(t *testing.T) {
		ctx := context.Background()
		finder := new(MockFinder)
		m := newTestMachine(finder, storage.NewMemoryStore(), newFakeClock())

		s, err := m.UseMyLocation(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, models.StateRequestingLocation, s.State)
		assert.True(t, m.PendingSearch())

		finder.On("FindHiddenGems", mock.Anything, mock.MatchedBy(func(q models.SearchQuery) bool {
			return q.Prompt == UseMyLocationPrompt && q.Mode == models.SearchModeNearMe && q.Location != nil
		})).Return(sampleResult(), nil).Once()

		s, err = m.ResolveLocation(ctx, lisbon, nil)
		require.NoError(t, err)
		assert.Equal(t, models.StateResultsFound, s.State)
		assert.False(t, m.PendingSearch())
		finder.AssertExpectations(t)
	})

	t.Run("denial abandons queued search", func(t *testing.T) {
		finder := new(MockFinder)
		m := newTestMachine(finder, storage.NewMemoryStore(), newFakeClock())

		s, err := m.UseMyLocation(context.Background(), ClientLocation{Granted: false})
		assert.ErrorIs(t, err, models.ErrLocationUnavailable)
		assert.Equal(t, models.StateLocationDenied, s.State)
		assert.False(t, m.PendingSearch())
		finder.AssertNotCalled(t, "FindHiddenGems", mock.Anything, mock.Anything)
	})

	t.Run("cached location searches immediately", func(t *testing.T) {
		finder := new(MockFinder)
		m := newTestMachine(finder, storage.NewMemoryStore(), newFakeClock())
		grant(t, m)

		finder.On("FindHiddenGems", mock.Anything, mock.Anything).Return(sampleResult(), nil).Once()
		s, err := m.UseMyLocation(context.Background(), nil)
		require.NoError(t, err)
		assert.Equal(t, models.StateResultsFound, s.State)
		assert.Equal(t, UseMyLocationPrompt, s.Prompt)
	})
}

func TestFilters(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	finder := new(MockFinder)
	m := newTestMachine(finder, store, newFakeClock())

	assert.Empty(t, m.Filtered())

	finder.On("FindHiddenGems", mock.Anything, mock.Anything).Return(sampleResult(), nil).Once()
	_, err := m.Submit(ctx, models.SearchQuery{Prompt: "x", Mode: models.SearchModeSpecificLocation, LocationQuery: "Lisbon"})
	require.NoError(t, err)
	assert.Len(t, m.Filtered(), 2)

	s, err := m.ToggleFilter(ctx, models.CategoryCafe)
	require.NoError(t, err)
	assert.Equal(t, []models.PlaceCategory{models.CategoryCafe}, s.ActiveFilters)
	filtered := m.Filtered()
	require.Len(t, filtered, 1)
	assert.Equal(t, "Bean There", filtered[0].Name)
	assert.Len(t, m.Snapshot().Result.Places, 2)

	snap := storage.LoadJSON[*models.SessionSnapshot](ctx, store, SnapshotKey, zap.NewNop())
	require.NotNil(t, snap)
	assert.Equal(t, []models.PlaceCategory{models.CategoryCafe}, snap.ActiveFilters)

	s, err = m.ToggleFilter(ctx, models.CategoryCafe)
	require.NoError(t, err)
	assert.Empty(t, s.ActiveFilters)

	s, err = m.SetFilters(ctx, []models.PlaceCategory{models.CategoryScenic, models.CategoryScenic, models.CategoryFood})
	require.NoError(t, err)
	assert.Equal(t, []models.PlaceCategory{models.CategoryScenic, models.CategoryFood}, s.ActiveFilters)

	_, err = m.ToggleFilter(ctx, models.PlaceCategory("nightlife"))
	assert.ErrorIs(t, err, models.ErrValidation)
	_, err = m.SetFilters(ctx, []models.PlaceCategory{"nightlife"})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestRestore(t *testing.T) {
	tests := []struct {
		name     string
		age      time.Duration
		restored bool
	}{
		{"four minutes old", 4 * time.Minute, true},
		{"just under the window", 5*time.Minute - time.Second, true},
		{"exactly five minutes", 5 * time.Minute, false},
		{"older than five minutes", 5*time.Minute + time.Second, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := storage.NewMemoryStore()
			clock := newFakeClock()

			finder := new(MockFinder)
			first := newTestMachine(finder, store, clock)
			finder.On("FindHiddenGems", mock.Anything, mock.Anything).Return(sampleResult(), nil).Once()
			before, err := first.Submit(ctx, models.SearchQuery{Prompt: "cafes", Mode: models.SearchModeSpecificLocation, LocationQuery: "Lisbon"})
			require.NoError(t, err)

			clock.Advance(tt.age)
			second := newTestMachine(new(MockFinder), store, clock)
			assert.Equal(t, tt.restored, second.Restore(ctx))

			after := second.Snapshot()
			if tt.restored {
				assert.Equal(t, before.State, after.State)
				assert.Equal(t, before.Prompt, after.Prompt)
				assert.Equal(t, before.Result, after.Result)
				assert.Equal(t, before.LocationQuery, after.LocationQuery)
				return
			}
			assert.Equal(t, models.StateIdle, after.State)
			assert.Nil(t, after.Result)
			_, err = store.Get(ctx, SnapshotKey)
			assert.ErrorIs(t, err, storage.ErrNotFound)
		})
	}
}

func TestRestore_MalformedSnapshot(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	require.NoError(t, store.Set(ctx, SnapshotKey, "{corrupted"))

	m := newTestMachine(new(MockFinder), store, newFakeClock())
	assert.False(t, m.Restore(ctx))
	assert.Equal(t, models.StateIdle, m.Snapshot().State)
}

func TestRestore_NonPersistableState(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	clock := newFakeClock()
	raw, err := json.Marshal(models.SessionSnapshot{AppState: models.StateLoading, Timestamp: clock.Now().UnixMilli()})
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, SnapshotKey, string(raw)))

	m := newTestMachine(new(MockFinder), store, clock)
	assert.False(t, m.Restore(ctx))
}

func TestRegistry(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	clock := newFakeClock()
	finder := new(MockFinder)

	r := NewRegistry(RegistryConfig{Finder: finder, Store: store, IdleTTL: time.Minute, Now: clock.Now})

	a := r.Get(ctx, "device-a")
	assert.Same(t, a, r.Get(ctx, "device-a"))
	assert.NotSame(t, a, r.Get(ctx, "device-b"))
	assert.Equal(t, RegistryStats{Active: 2, Resumed: 1, Created: 2}, r.Stats())

	finder.On("FindHiddenGems", mock.Anything, mock.Anything).Return(sampleResult(), nil).Once()
	_, err := a.Submit(ctx, models.SearchQuery{Prompt: "x", Mode: models.SearchModeSpecificLocation, LocationQuery: "Lisbon"})
	require.NoError(t, err)

	clock.Advance(2 * time.Minute)
	assert.Equal(t, 2, r.Purge())
	stats := r.Stats()
	assert.Equal(t, 0, stats.Active)
	assert.Equal(t, int64(2), stats.Evictions)

	// Rebuilt machine resumes from the device's own snapshot.
	resumed := r.Get(ctx, "device-a")
	assert.NotSame(t, a, resumed)
	assert.Equal(t, models.StateResultsFound, resumed.Snapshot().State)
	assert.Equal(t, models.StateIdle, r.Get(ctx, "device-b").Snapshot().State)
}

func TestRegistry_CloseCancelsInFlight(t *testing.T) {
	ctx := context.Background()
	finder := new(MockFinder)
	started := make(chan struct{})
	finder.On("FindHiddenGems", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			close(started)
			<-args.Get(0).(context.Context).Done()
		}).
		Return(nil, context.Canceled).Once()

	r := NewRegistry(RegistryConfig{Finder: finder})
	m := r.Get(ctx, "device-a")

	done := make(chan error, 1)
	go func() {
		_, err := m.Submit(ctx, models.SearchQuery{Prompt: "x", Mode: models.SearchModeSpecificLocation, LocationQuery: "Lisbon"})
		done <- err
	}()
	<-started

	r.Close()
	assert.Equal(t, 0, r.Stats().Active)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("search was not cancelled")
	}
}

func TestStartJanitor(t *testing.T) {
	r := NewRegistry(RegistryConfig{})
	_, err := StartJanitor(r, "not a schedule", nil)
	assert.Error(t, err)

	j, err := StartJanitor(r, "@every 1h", nil)
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	j.Stop(ctx)
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, MsgUnexpected, ErrorMessage(nil))
	assert.Equal(t, MsgConfiguration, ErrorMessage(errors.New("rpc error: API_KEY_INVALID")))
	assert.Equal(t, "boom", ErrorMessage(errors.New("boom")))
	assert.Equal(t, MsgUnexpected, ErrorMessage(errors.New("   ")))
}
