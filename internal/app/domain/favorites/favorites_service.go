// Package favorites maintains each device's list of saved places.
package favorites

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

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	List(ctx context.Context, deviceID string) ([]models.Place, error)
	Toggle(ctx context.Context, deviceID string, place models.Place) (bool, error)
	IsFavorite(ctx context.Context, deviceID, placeKey string) (bool, error)
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
	ctx, span := otel.Tracer("FavoritesService").Start(ctx, "List", trace.WithAttributes(
		attribute.String("device.id", deviceID),
	))
	defer span.End()

	places := s.repo.Load(ctx, deviceID)
	span.SetAttributes(attribute.Int("favorites.count", len(places)))
	return places, nil
}

// Toggle adds place to the favorites, or removes it when already saved.
// It reports whether the place is a favorite afterwards.
func (s *ServiceImpl) Toggle(ctx context.Context, deviceID string, place models.Place) (bool, error) {
	ctx, span := otel.Tracer("FavoritesService").Start(ctx, "Toggle", trace.WithAttributes(
		attribute.String("device.id", deviceID),
		attribute.String("place.name", place.Name),
	))
	defer span.End()

	l := s.logger.With(zap.String("method", "Toggle"), zap.String("device_id", deviceID))

	if strings.TrimSpace(place.Name) == "" {
		return false, fmt.Errorf("%w: place name is required", models.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := place.Key()
	places := s.repo.Load(ctx, deviceID)
	updated := make([]models.Place, 0, len(places)+1)
	removed := false
	for _, p := range places {
		if p.Key() == key {
			removed = true
			continue
		}
		updated = append(updated, p)
	}
	if !removed {
		updated = append(updated, place)
	}

	if err := s.repo.Save(ctx, deviceID, updated); err != nil {
		l.Error("Failed to save favorites", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to save favorites")
		return removed, fmt.Errorf("error saving favorites: %w", err)
	}

	l.Debug("Favorite toggled", zap.String("place_key", key), zap.Bool("favorite", !removed))
	span.SetStatus(codes.Ok, "Favorite toggled")
	return !removed, nil
}

func (s *ServiceImpl) IsFavorite(ctx context.Context, deviceID, placeKey string) (bool, error) {
	for _, p := range s.repo.Load(ctx, deviceID) {
		if p.Key() == placeKey {
			return true, nil
		}
	}
	return false, nil
}
