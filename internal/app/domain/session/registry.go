package session

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/FACorreiaa/hidden-gems/internal/app/domain/gems"
	"github.com/FACorreiaa/hidden-gems/internal/app/observability/metrics"
	"github.com/FACorreiaa/hidden-gems/internal/pkg/cache"
	"github.com/FACorreiaa/hidden-gems/internal/pkg/storage"
)

// DefaultIdleTTL is how long an untouched session stays in memory.
const DefaultIdleTTL = 30 * time.Minute

// RegistryConfig wires a Registry.
type RegistryConfig struct {
	Finder      gems.Finder
	Store       storage.Store
	IdleTTL     time.Duration
	SnapshotTTL time.Duration
	Now         func() time.Time
	Logger      *zap.Logger
}

// Registry keeps one Machine per device. A machine evicted after IdleTTL is
// rebuilt on next access and resumes from its persisted snapshot if fresh.
type Registry struct {
	sessions *cache.UnifiedCache[*Machine]
	cfg      RegistryConfig
}

func NewRegistry(cfg RegistryConfig) *Registry {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = DefaultIdleTTL
	}
	if cfg.Store == nil {
		cfg.Store = storage.NewMemoryStore()
	}

	r := &Registry{cfg: cfg}
	r.sessions = cache.NewUnifiedCache[*Machine](cfg.IdleTTL, "sessions", cfg.Logger,
		cache.WithClock[*Machine](cfg.Now),
		cache.WithEvictHook[*Machine](func(_ string, m *Machine) {
			m.Close()
			metrics.Get().ActiveSessions.Add(context.Background(), -1)
		}),
	)
	return r
}

// Get returns the device's machine, creating and restoring it on first use.
func (r *Registry) Get(ctx context.Context, deviceID string) *Machine {
	m, existed := r.sessions.GetOrCreate(deviceID, func() *Machine {
		return NewMachine(Config{
			Finder:      r.cfg.Finder,
			Store:       storage.Namespace(r.cfg.Store, deviceID),
			SnapshotTTL: r.cfg.SnapshotTTL,
			Now:         r.cfg.Now,
			Logger:      r.cfg.Logger.With(zap.String("device_id", deviceID)),
		})
	})
	if !existed {
		metrics.Get().ActiveSessions.Add(ctx, 1)
		m.Restore(ctx)
	}
	return m
}

// Purge evicts idle sessions and returns how many were removed.
func (r *Registry) Purge() int {
	return r.sessions.Purge()
}

// Close ends every session, cancelling searches still in flight.
func (r *Registry) Close() {
	if n := r.sessions.Drain(); n > 0 {
		r.cfg.Logger.Info("Closed sessions", zap.Int("sessions", n))
	}
}

// RegistryStats describes the in-memory session set.
type RegistryStats struct {
	Active    int   `json:"active"`
	Resumed   int64 `json:"resumed"`
	Created   int64 `json:"created"`
	Evictions int64 `json:"evictions"`
}

// Stats reports how many sessions are live and how often lookups found,
// created or evicted one.
func (r *Registry) Stats() RegistryStats {
	m := r.sessions.GetMetrics()
	return RegistryStats{
		Active:    r.sessions.Size(),
		Resumed:   m.Hits,
		Created:   m.Sets,
		Evictions: m.Evictions,
	}
}

// Janitor periodically purges idle sessions.
type Janitor struct {
	cron   *cron.Cron
	logger *zap.Logger
}

// StartJanitor schedules Registry.Purge on the given cron spec, for example
// "@every 1m". Each extra purge runs on the same schedule.
func StartJanitor(r *Registry, spec string, logger *zap.Logger, extra ...func() int) (*Janitor, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		if n := r.Purge(); n > 0 {
			stats := r.Stats()
			logger.Info("Evicted idle sessions",
				zap.Int("evicted", n),
				zap.Int("remaining", stats.Active),
				zap.Int64("evictions_total", stats.Evictions),
				zap.Int64("created_total", stats.Created),
			)
		}
		for _, purge := range extra {
			purge()
		}
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	logger.Info("Session janitor started", zap.String("schedule", spec))
	return &Janitor{cron: c, logger: logger}, nil
}

// Stop waits for a running purge to finish, or for ctx to end.
func (j *Janitor) Stop(ctx context.Context) {
	done := j.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		j.logger.Warn("Session janitor did not stop in time")
	}
}
