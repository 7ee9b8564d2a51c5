package recents

import (
	"context"

	"go.uber.org/zap"

	"github.com/FACorreiaa/hidden-gems/internal/app/models"
	"github.com/FACorreiaa/hidden-gems/internal/pkg/storage"
)

// StorageKey is the record holding a device's recently viewed places.
const StorageKey = "hidden_gems_recently_viewed"

type Repository interface {
	Load(ctx context.Context, deviceID string) []models.Place
	Save(ctx context.Context, deviceID string, places []models.Place) error
}

var _ Repository = (*StoreRepository)(nil)

type StoreRepository struct {
	store  storage.Store
	logger *zap.Logger
}

func NewRepository(store storage.Store, logger *zap.Logger) *StoreRepository {
	return &StoreRepository{store: store, logger: logger}
}

func (r *StoreRepository) Load(ctx context.Context, deviceID string) []models.Place {
	places := storage.LoadJSON[[]models.Place](ctx, storage.Namespace(r.store, deviceID), StorageKey, r.logger)
	if places == nil {
		return []models.Place{}
	}
	return places
}

func (r *StoreRepository) Save(ctx context.Context, deviceID string, places []models.Place) error {
	return storage.SaveJSON(ctx, storage.Namespace(r.store, deviceID), StorageKey, places, r.logger)
}
