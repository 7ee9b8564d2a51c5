package reviews

import (
	"context"

	"go.uber.org/zap"

	"github.com/FACorreiaa/hidden-gems/internal/app/models"
	"github.com/FACorreiaa/hidden-gems/internal/pkg/storage"
)

// StorageKey is the record mapping place identity keys to their reviews.
const StorageKey = "hidden_gems_reviews"

// Reviews maps a place identity key to its reviews in submission order.
type Reviews map[string][]models.Review

type Repository interface {
	Load(ctx context.Context, deviceID string) Reviews
	Save(ctx context.Context, deviceID string, reviews Reviews) error
}

var _ Repository = (*StoreRepository)(nil)

type StoreRepository struct {
	store  storage.Store
	logger *zap.Logger
}

func NewRepository(store storage.Store, logger *zap.Logger) *StoreRepository {
	return &StoreRepository{store: store, logger: logger}
}

func (r *StoreRepository) Load(ctx context.Context, deviceID string) Reviews {
	reviews := storage.LoadJSON[Reviews](ctx, storage.Namespace(r.store, deviceID), StorageKey, r.logger)
	if reviews == nil {
		return Reviews{}
	}
	return reviews
}

func (r *StoreRepository) Save(ctx context.Context, deviceID string, reviews Reviews) error {
	return storage.SaveJSON(ctx, storage.Namespace(r.store, deviceID), StorageKey, reviews, r.logger)
}
