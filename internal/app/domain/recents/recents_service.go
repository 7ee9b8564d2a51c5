// Package recents keeps the short most-recent-first list of places a device
// has opened.
package recents

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/FACorreiaa/hidden-gems/internal/app/models"
)

// MaxRecent is the length cap of the list.
const MaxRecent = 5

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	List(ctx context.Context, deviceID string) ([]models.Place, error)
	Add(ctx context.Context, deviceID string, place models.Place) ([]models.Place, error)
}

type ServiceImpl struct {
	mu     sync.Mutex
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{
		repo:   repo,
		logger: logger,
	}
}

func (s *ServiceImpl) List(ctx context.Context, deviceID string) ([]models.Place, error) {
	ctx, span := otel.Tracer("RecentsService").Start(ctx, "List", trace.WithAttributes(
		attribute.String("device.id", deviceID),
	))
	defer span.End()

	places := s.repo.Load(ctx, deviceID)
	if len(places) > MaxRecent {
		places = places[:MaxRecent]
	}
	return places, nil
}

// Add moves place to the front of the list, dropping any earlier entry with
// the same identity and anything beyond MaxRecent.
func (s *ServiceImpl) Add(ctx context.Context, deviceID string, place models.Place) ([]models.Place, error) {
	ctx, span := otel.Tracer("RecentsService").Start(ctx, "Add", trace.WithAttributes(
		attribute.String("device.id", deviceID),
		attribute.String("place.name", place.Name),
	))
	defer span.End()

	l := s.logger.With(zap.String("method", "Add"), zap.String("device_id", deviceID))

	if strings.TrimSpace(place.Name) == "" {
		return nil, fmt.Errorf("%w: place name is required", models.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := place.Key()
	updated := make([]models.Place, 0, MaxRecent)
	updated = append(updated, place)
	for _, p := range s.repo.Load(ctx, deviceID) {
		if len(updated) == MaxRecent {
			break
		}
		if p.Key() != key {
			updated = append(updated, p)
		}
	}

	if err := s.repo.Save(ctx, deviceID, updated); err != nil {
		l.Error("Failed to save recently viewed places", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to save recents")
		return nil, fmt.Errorf("error saving recently viewed places: %w", err)
	}

	span.SetStatus(codes.Ok, "Recent place recorded")
	return updated, nil
}
