// Package storage provides the key-value persistence port used by the
// discovery session and its side stores, plus its backends.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by Get when the key has never been written or was deleted.
var ErrNotFound = errors.New("storage: key not found")

// Store is string key-value storage. Implementations must be safe for
// concurrent use.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Driver names selectable through STORAGE_DRIVER.
const (
	DriverMemory   = "memory"
	DriverBadger   = "badger"
	DriverPostgres = "postgres"
)

type namespaced struct {
	Store
	prefix string
}

// Namespace scopes every key of s under ns. Closing the returned store does
// not close s.
func Namespace(s Store, ns string) Store {
	return &namespaced{Store: s, prefix: strings.TrimSpace(ns) + ":"}
}

func (n *namespaced) Get(ctx context.Context, key string) (string, error) {
	return n.Store.Get(ctx, n.prefix+key)
}

func (n *namespaced) Set(ctx context.Context, key, value string) error {
	return n.Store.Set(ctx, n.prefix+key, value)
}

func (n *namespaced) Delete(ctx context.Context, key string) error {
	return n.Store.Delete(ctx, n.prefix+key)
}

func (n *namespaced) Close() error { return nil }

func validateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("storage: empty key")
	}
	return nil
}
