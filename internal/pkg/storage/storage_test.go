package storage

import (
	"context"
	"errors"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/FACorreiaa/hidden-gems/internal/app/models"
)

type failingStore struct{ MemoryStore }

func (f *failingStore) Get(context.Context, string) (string, error) {
	return "", errors.New("disk on fire")
}

func (f *failingStore) Set(context.Context, string, string) error {
	return errors.New("quota exceeded")
}

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set(ctx, "theme", "dark"))
	v, err := s.Get(ctx, "theme")
	require.NoError(t, err)
	assert.Equal(t, "dark", v)

	require.NoError(t, s.Set(ctx, "theme", "light"))
	v, err = s.Get(ctx, "theme")
	require.NoError(t, err)
	assert.Equal(t, "light", v)

	require.NoError(t, s.Delete(ctx, "theme"))
	_, err = s.Get(ctx, "theme")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, s.Delete(ctx, "never-written"))
	assert.Error(t, s.Set(ctx, "  ", "x"))
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	exerciseStore(t, s)
}

func TestBadgerStore(t *testing.T) {
	s, err := NewBadgerStore(filepath.Join(t.TempDir(), "kv"), zap.NewNop())
	require.NoError(t, err)
	defer s.Close()
	exerciseStore(t, s)
}

func TestNamespace(t *testing.T) {
	ctx := context.Background()
	base := NewMemoryStore()
	a := Namespace(base, "device-a")
	b := Namespace(base, "device-b")

	require.NoError(t, a.Set(ctx, "theme", "dark"))
	_, err := b.Get(ctx, "theme")
	assert.ErrorIs(t, err, ErrNotFound)

	raw, err := base.Get(ctx, "device-a:theme")
	require.NoError(t, err)
	assert.Equal(t, "dark", raw)

	require.NoError(t, a.Close())
	v, err := base.Get(ctx, "device-a:theme")
	require.NoError(t, err)
	assert.Equal(t, "dark", v)
}

func TestLoadJSON(t *testing.T) {
	ctx := context.Background()
	type payload struct {
		Names []string `json:"names"`
	}

	tests := []struct {
		name     string
		store    func() Store
		expected payload
	}{
		{
			name:     "absent key",
			store:    func() Store { return NewMemoryStore() },
			expected: payload{},
		},
		{
			name: "malformed record",
			store: func() Store {
				s := NewMemoryStore()
				_ = s.Set(ctx, "k", "{not json")
				return s
			},
			expected: payload{},
		},
		{
			name: "valid record",
			store: func() Store {
				s := NewMemoryStore()
				_ = s.Set(ctx, "k", `{"names":["a","b"]}`)
				return s
			},
			expected: payload{Names: []string{"a", "b"}},
		},
		{
			name:     "read failure",
			store:    func() Store { return &failingStore{MemoryStore: *NewMemoryStore()} },
			expected: payload{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LoadJSON[payload](ctx, tt.store(), "k", zap.NewNop())
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSaveJSON(t *testing.T) {
	ctx := context.Background()

	s := NewMemoryStore()
	require.NoError(t, SaveJSON(ctx, s, "k", []string{"x"}, zap.NewNop()))
	raw, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.JSONEq(t, `["x"]`, raw)

	err = SaveJSON(ctx, &failingStore{MemoryStore: *NewMemoryStore()}, "k", []string{"x"}, zap.NewNop())
	assert.ErrorIs(t, err, models.ErrStorageUnavailable)
}

func TestPostgresStore(t *testing.T) {
	ctx := context.Background()

	t.Run("get existing", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM kv_store WHERE key = $1")).
			WithArgs("theme").
			WillReturnRows(pgxmock.NewRows([]string{"value"}).AddRow("dark"))

		v, err := NewPostgresStore(mock, zap.NewNop()).Get(ctx, "theme")
		require.NoError(t, err)
		assert.Equal(t, "dark", v)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("get missing", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM kv_store")).
			WithArgs("theme").
			WillReturnError(pgx.ErrNoRows)

		_, err = NewPostgresStore(mock, zap.NewNop()).Get(ctx, "theme")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("set upserts", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO kv_store (key,value,updated_at) VALUES ($1,$2,NOW()) ON CONFLICT (key) DO UPDATE")).
			WithArgs("theme", "light").
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		require.NoError(t, NewPostgresStore(mock, zap.NewNop()).Set(ctx, "theme", "light"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("delete", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM kv_store WHERE key = $1")).
			WithArgs("theme").
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		require.NoError(t, NewPostgresStore(mock, zap.NewNop()).Delete(ctx, "theme"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("exec failure is wrapped", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		boom := errors.New("connection reset")
		mock.ExpectExec("INSERT INTO kv_store").
			WithArgs("theme", "light").
			WillReturnError(boom)

		err = NewPostgresStore(mock, zap.NewNop()).Set(ctx, "theme", "light")
		assert.ErrorIs(t, err, boom)
	})
}
