// Package reviews stores user reviews per place. Reviews are append-only.
package reviews

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/FACorreiaa/hidden-gems/internal/app/models"
	"github.com/FACorreiaa/hidden-gems/internal/app/observability/metrics"
)

// DefaultUploadDelay simulates the latency of uploading a review.
const DefaultUploadDelay = 1500 * time.Millisecond

const maxCommentLength = 2000

// Submission is a review as entered by the user.
type Submission struct {
	Rating        int    `json:"rating"`
	Comment       string `json:"comment"`
	PhotoFilename string `json:"photoFilename,omitempty"`
}

// Validate checks the rating range and trims the free-text fields.
func (s *Submission) Validate() error {
	if s.Rating < 1 || s.Rating > 5 {
		return fmt.Errorf("%w: rating must be between 1 and 5", models.ErrValidation)
	}
	s.Comment = strings.TrimSpace(s.Comment)
	if len(s.Comment) > maxCommentLength {
		return fmt.Errorf("%w: comment is longer than %d characters", models.ErrValidation, maxCommentLength)
	}
	// Only the display name of the photo is kept.
	if s.PhotoFilename != "" {
		s.PhotoFilename = filepath.Base(strings.TrimSpace(s.PhotoFilename))
	}
	return nil
}

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	ForPlace(ctx context.Context, deviceID, placeKey string) ([]models.Review, error)
	Add(ctx context.Context, deviceID, placeKey string, sub Submission) (models.Review, error)
}

type ServiceImpl struct {
	mu          sync.Mutex
	repo        Repository
	uploadDelay time.Duration
	now         func() time.Time
	logger      *zap.Logger
}

func NewService(repo Repository, uploadDelay time.Duration, logger *zap.Logger) *ServiceImpl {
	if uploadDelay < 0 {
		uploadDelay = 0
	}
	return &ServiceImpl{
		repo:        repo,
		uploadDelay: uploadDelay,
		now:         time.Now,
		logger:      logger,
	}
}

func (s *ServiceImpl) ForPlace(ctx context.Context, deviceID, placeKey string) ([]models.Review, error) {
	ctx, span := otel.Tracer("ReviewsService").Start(ctx, "ForPlace", trace.WithAttributes(
		attribute.String("device.id", deviceID),
		attribute.String("place.key", placeKey),
	))
	defer span.End()

	list := s.repo.Load(ctx, deviceID)[placeKey]
	if list == nil {
		return []models.Review{}, nil
	}
	return list, nil
}

// Add validates sub, waits out the simulated upload and appends the review
// to the place's list.
func (s *ServiceImpl) Add(ctx context.Context, deviceID, placeKey string, sub Submission) (models.Review, error) {
	ctx, span := otel.Tracer("ReviewsService").Start(ctx, "Add", trace.WithAttributes(
		attribute.String("device.id", deviceID),
		attribute.String("place.key", placeKey),
		attribute.Int("review.rating", sub.Rating),
	))
	defer span.End()

	l := s.logger.With(zap.String("method", "Add"), zap.String("device_id", deviceID), zap.String("place_key", placeKey))

	if strings.TrimSpace(placeKey) == "" {
		return models.Review{}, fmt.Errorf("%w: place key is required", models.ErrValidation)
	}
	if err := sub.Validate(); err != nil {
		return models.Review{}, err
	}

	if s.uploadDelay > 0 {
		timer := time.NewTimer(s.uploadDelay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			span.SetStatus(codes.Error, "Review upload cancelled")
			return models.Review{}, ctx.Err()
		}
	}

	review := models.Review{
		Rating:        sub.Rating,
		Comment:       sub.Comment,
		PhotoFilename: sub.PhotoFilename,
		CreatedAt:     s.now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.repo.Load(ctx, deviceID)
	all[placeKey] = append(slices.Clone(all[placeKey]), review)
	if err := s.repo.Save(ctx, deviceID, all); err != nil {
		l.Error("Failed to save review", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to save review")
		return models.Review{}, fmt.Errorf("error saving review: %w", err)
	}

	metrics.Get().ReviewsSubmittedTotal.Add(ctx, 1)
	l.Info("Review submitted", zap.Int("rating", review.Rating), zap.Int("place_reviews", len(all[placeKey])))
	span.SetStatus(codes.Ok, "Review submitted")
	return review, nil
}
