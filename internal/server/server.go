package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/FACorreiaa/hidden-gems/internal/app/domain/gems"
	"github.com/FACorreiaa/hidden-gems/internal/app/domain/session"
	"github.com/FACorreiaa/hidden-gems/internal/app/middleware"
	database "github.com/FACorreiaa/hidden-gems/internal/db"
	"github.com/FACorreiaa/hidden-gems/internal/pkg/config"
	"github.com/FACorreiaa/hidden-gems/internal/pkg/storage"
)

// Server holds the dependencies for the HTTP server
type Server struct {
	cfg      *config.Config
	logger   *zap.Logger
	dbPool   *pgxpool.Pool
	store    storage.Store
	finder   gems.Finder
	registry *session.Registry
	limiter  *middleware.RateLimiter
	janitor  *session.Janitor
	router   http.Handler
}

// New creates a new Server instance with all dependencies
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Server, error) {
	s := &Server{
		cfg:    cfg,
		logger: logger,
	}

	store, err := s.setupStorage(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to setup storage: %w", err)
	}
	s.store = store

	finder, err := gems.NewGeminiFinder(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, logger.Named("gems"))
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to setup finder: %w", err)
	}
	s.finder = finder

	s.registry = session.NewRegistry(session.RegistryConfig{
		Finder:      finder,
		Store:       store,
		IdleTTL:     cfg.Session.IdleTTL.Duration,
		SnapshotTTL: cfg.Session.SnapshotTTL.Duration,
		Logger:      logger.Named("session"),
	})
	s.limiter = middleware.NewRateLimiter(cfg.SearchRatePerMinute)

	janitor, err := session.StartJanitor(s.registry, cfg.Session.JanitorSchedule, logger, s.limiter.Purge)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to start session janitor: %w", err)
	}
	s.janitor = janitor

	return s, nil
}

// setupStorage opens the key-value store selected by the configured driver.
func (s *Server) setupStorage(ctx context.Context) (storage.Store, error) {
	driver := s.cfg.Repositories.Driver
	s.logger.Info("Setting up storage", zap.String("driver", driver))

	switch driver {
	case storage.DriverMemory:
		return storage.NewMemoryStore(), nil
	case storage.DriverBadger:
		return storage.NewBadgerStore(s.cfg.Repositories.Badger.Path, s.logger)
	case storage.DriverPostgres:
		pool, err := s.setupDatabase(ctx)
		if err != nil {
			return nil, err
		}
		s.dbPool = pool
		return storage.NewPostgresStore(pool, s.logger), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}

// setupDatabase initializes the database connection and runs migrations
func (s *Server) setupDatabase(ctx context.Context) (*pgxpool.Pool, error) {
	s.logger.Info("Setting up database connection and migrations")

	dbConfig, err := database.NewDatabaseConfig(s.cfg, s.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database configuration: %w", err)
	}

	pool, err := database.Init(ctx, dbConfig.ConnectionURL, s.cfg.Repositories.Postgres, s.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database pool: %w", err)
	}

	if !database.WaitForDB(ctx, pool, s.logger) {
		pool.Close()
		return nil, fmt.Errorf("database did not become ready")
	}
	s.logger.Info("Connected to Postgres",
		zap.String("host", s.cfg.Repositories.Postgres.Host),
		zap.String("port", s.cfg.Repositories.Postgres.Port),
		zap.String("database", s.cfg.Repositories.Postgres.DB))

	if err = database.RunMigrations(dbConfig.ConnectionURL, s.logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	s.logger.Info("Database setup completed successfully")
	return pool, nil
}

// HTTPServer creates and configures the HTTP server. The write timeout
// leaves room for a slow model response.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         ":" + s.cfg.ServerPort,
		Handler:      s.router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 2 * time.Minute,
	}
}

// SetRouter sets the HTTP router/handler
func (s *Server) SetRouter(router http.Handler) {
	s.router = router
}

func (s *Server) Store() storage.Store {
	return s.store
}

func (s *Server) Registry() *session.Registry {
	return s.registry
}

func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.limiter
}

// GetLogger returns the logger instance
func (s *Server) GetLogger() *zap.Logger {
	return s.logger
}

// GetConfig returns the configuration
func (s *Server) GetConfig() *config.Config {
	return s.cfg
}

// Close stops the janitor, ends live sessions and releases storage.
func (s *Server) Close() {
	if s.janitor != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		s.janitor.Stop(ctx)
		cancel()
	}
	if s.registry != nil {
		s.registry.Close()
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Warn("Failed to close storage", zap.Error(err))
		}
	}
	if s.dbPool != nil {
		s.dbPool.Close()
	}
}
