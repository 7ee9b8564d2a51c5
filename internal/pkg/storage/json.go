package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/FACorreiaa/hidden-gems/internal/app/models"
	"github.com/FACorreiaa/hidden-gems/internal/app/observability/metrics"
)

// LoadJSON reads key and decodes it into T. Absent, malformed or unreadable
// records all yield the zero value; the latter two are logged.
func LoadJSON[T any](ctx context.Context, s Store, key string, logger *zap.Logger) T {
	var out T
	raw, err := s.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return out
	}
	if err != nil {
		if logger != nil {
			logger.Warn("Failed to read record", zap.String("key", key), zap.Error(err))
		}
		metrics.Get().StorageErrorsTotal.Add(ctx, 1)
		return out
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		if logger != nil {
			logger.Warn("Discarding malformed record", zap.String("key", key), zap.Error(err))
		}
		var zero T
		return zero
	}
	return out
}

// SaveJSON encodes v and writes it under key.
func SaveJSON(ctx context.Context, s Store, key string, v any, logger *zap.Logger) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode record %q: %w", key, err)
	}
	if err := s.Set(ctx, key, string(data)); err != nil {
		if logger != nil {
			logger.Warn("Failed to write record", zap.String("key", key), zap.Error(err))
		}
		metrics.Get().StorageErrorsTotal.Add(ctx, 1)
		return fmt.Errorf("%w: %w", models.ErrStorageUnavailable, err)
	}
	return nil
}
