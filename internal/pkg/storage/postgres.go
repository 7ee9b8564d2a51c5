package storage

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const kvTable = "kv_store"

// DBTX is the part of *pgxpool.Pool used by PostgresStore.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ Store = (*PostgresStore)(nil)

// PostgresStore keeps records in the kv_store table.
type PostgresStore struct {
	db     DBTX
	psql   sq.StatementBuilderType
	logger *zap.Logger
}

func NewPostgresStore(db DBTX, logger *zap.Logger) *PostgresStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostgresStore{
		db:     db,
		psql:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
		logger: logger,
	}
}

func (p *PostgresStore) Get(ctx context.Context, key string) (string, error) {
	ctx, span := otel.Tracer("KVRepo").Start(ctx, "Get", trace.WithAttributes(
		semconv.DBSystemNamePostgreSQL,
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", kvTable),
	))
	defer span.End()

	query, args, err := p.psql.Select("value").From(kvTable).Where(sq.Eq{"key": key}).ToSql()
	if err != nil {
		return "", fmt.Errorf("failed to build select: %w", err)
	}

	var value string
	err = p.db.QueryRow(ctx, query, args...).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return "", fmt.Errorf("failed to get key %q: %w", key, err)
	}
	return value, nil
}

func (p *PostgresStore) Set(ctx context.Context, key, value string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	ctx, span := otel.Tracer("KVRepo").Start(ctx, "Set", trace.WithAttributes(
		semconv.DBSystemNamePostgreSQL,
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", kvTable),
	))
	defer span.End()

	query, args, err := p.psql.Insert(kvTable).
		Columns("key", "value", "updated_at").
		Values(key, value, sq.Expr("NOW()")).
		Suffix("ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build upsert: %w", err)
	}

	if _, err := p.db.Exec(ctx, query, args...); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "upsert failed")
		return fmt.Errorf("failed to set key %q: %w", key, err)
	}
	return nil
}

func (p *PostgresStore) Delete(ctx context.Context, key string) error {
	ctx, span := otel.Tracer("KVRepo").Start(ctx, "Delete", trace.WithAttributes(
		semconv.DBSystemNamePostgreSQL,
		attribute.String("db.operation", "DELETE"),
		attribute.String("db.sql.table", kvTable),
	))
	defer span.End()

	query, args, err := p.psql.Delete(kvTable).Where(sq.Eq{"key": key}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete: %w", err)
	}
	if _, err := p.db.Exec(ctx, query, args...); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "delete failed")
		return fmt.Errorf("failed to delete key %q: %w", key, err)
	}
	return nil
}

// Close is a no-op; the pool is owned by the server.
func (p *PostgresStore) Close() error { return nil }
