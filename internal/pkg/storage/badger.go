package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/timshannon/badgerhold/v4"
	"go.uber.org/zap"
)

var _ Store = (*BadgerStore)(nil)

// kvRecord is the value persisted for every key.
type kvRecord struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

// BadgerStore persists records in an embedded Badger database on local disk.
type BadgerStore struct {
	store  *badgerhold.Store
	logger *zap.Logger
}

// NewBadgerStore opens (creating if needed) the database directory at path.
func NewBadgerStore(path string, logger *zap.Logger) (*BadgerStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	options := badgerhold.DefaultOptions
	options.Dir = path
	options.ValueDir = path
	options.Logger = nil

	store, err := badgerhold.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database: %w", err)
	}
	logger.Info("Badger store opened", zap.String("path", path))

	return &BadgerStore{store: store, logger: logger}, nil
}

func (b *BadgerStore) Get(_ context.Context, key string) (string, error) {
	var rec kvRecord
	err := b.store.Get(key, &rec)
	if errors.Is(err, badgerhold.ErrNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get key %q: %w", key, err)
	}
	return rec.Value, nil
}

func (b *BadgerStore) Set(_ context.Context, key, value string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	rec := kvRecord{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	if err := b.store.Upsert(key, &rec); err != nil {
		return fmt.Errorf("failed to set key %q: %w", key, err)
	}
	return nil
}

func (b *BadgerStore) Delete(_ context.Context, key string) error {
	err := b.store.Delete(key, kvRecord{})
	if err != nil && !errors.Is(err, badgerhold.ErrNotFound) {
		return fmt.Errorf("failed to delete key %q: %w", key, err)
	}
	return nil
}

func (b *BadgerStore) Close() error {
	if b.store != nil {
		return b.store.Close()
	}
	return nil
}
