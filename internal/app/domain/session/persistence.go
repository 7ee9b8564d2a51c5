package session

import (
	"context"
	"slices"

	"go.uber.org/zap"

	"github.com/FACorreiaa/hidden-gems/internal/app/models"
	"github.com/FACorreiaa/hidden-gems/internal/pkg/storage"
)

// SnapshotKey is the storage record holding the persisted session.
const SnapshotKey = "echospot_app_state"

func persistable(s models.SearchSession) bool {
	return s.State == models.StateResultsFound || (s.State == models.StateError && s.Result != nil)
}

// persistLocked writes the session when it is in a persistable state.
// Storage failures are logged and otherwise ignored.
func (m *Machine) persistLocked(ctx context.Context) {
	if !persistable(m.session) {
		return
	}
	snap := models.SessionSnapshot{
		AppState:      m.session.State,
		Prompt:        m.session.Prompt,
		SearchMode:    m.session.Mode,
		LocationQuery: m.session.LocationQuery,
		Result:        m.session.Result,
		ActiveFilters: slices.Clone(m.session.ActiveFilters),
		Timestamp:     m.now().UnixMilli(),
	}
	_ = storage.SaveJSON(ctx, m.store, SnapshotKey, snap, m.logger)
}

func (m *Machine) clearSnapshotLocked(ctx context.Context) {
	if err := m.store.Delete(ctx, SnapshotKey); err != nil {
		m.logger.Warn("Failed to clear persisted session", zap.Error(err))
	}
}

// Restore loads the persisted session if it is younger than the snapshot
// TTL. Stale or unusable snapshots are deleted. Only a session that has not
// been used yet can be restored.
func (m *Machine) Restore(ctx context.Context) bool {
	l := m.logger.With(zap.String("method", "Restore"))

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.generation != 0 || m.session.State != models.StateIdle {
		return false
	}

	snap := storage.LoadJSON[*models.SessionSnapshot](ctx, m.store, SnapshotKey, m.logger)
	if snap == nil || snap.Timestamp == 0 {
		m.clearSnapshotLocked(ctx)
		return false
	}

	age := m.now().Sub(snap.SavedAt())
	if age >= m.snapshotTTL {
		l.Debug("Discarding stale persisted session", zap.Duration("age", age))
		m.clearSnapshotLocked(ctx)
		return false
	}

	restored := models.SearchSession{
		State:         snap.AppState,
		Prompt:        snap.Prompt,
		Mode:          snap.SearchMode,
		LocationQuery: snap.LocationQuery,
		Result:        snap.Result,
		ActiveFilters: snap.ActiveFilters,
	}
	if !persistable(restored) {
		m.clearSnapshotLocked(ctx)
		return false
	}
	if !restored.Mode.Valid() {
		restored.Mode = models.SearchModeNearMe
	}
	if restored.ActiveFilters == nil {
		restored.ActiveFilters = []models.PlaceCategory{}
	}
	m.session = restored

	l.Info("Restored persisted session", zap.Duration("age", age), zap.String("state", string(restored.State)))
	return true
}
