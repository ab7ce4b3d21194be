package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"tcofront/internal/front/ports/storage"
	"tcofront/pkg/logger"
)

// PgxPoolInterface определяет методы пула соединений, используемые хранилищем.
type PgxPoolInterface interface {
	QueryRow(ctx context.Context, query string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, query string, args ...interface{}) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Close()
}

const (
	selectCredentialQuery = `SELECT value FROM credentials WHERE key = $1`

	upsertCredentialQuery = `
        INSERT INTO credentials (key, value, updated_at)
        VALUES ($1, $2, NOW())
        ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
    `

	deleteCredentialsQuery = `DELETE FROM credentials WHERE key = ANY($1)`
)

// PostgresStore реализует KeyValueStore поверх таблицы credentials.
type PostgresStore struct {
	pool PgxPoolInterface
}

var _ storage.KeyValueStore = (*PostgresStore)(nil)

// NewPostgresStore создает хранилище поверх пула соединений.
func NewPostgresStore(pool PgxPoolInterface) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Get получает значение по ключу.
func (s *PostgresStore) Get(ctx context.Context, key string) (string, bool, error) {
	log := logger.Log(ctx).With(zap.String("repository", "credentials"), zap.String("method", LogMethodGet))

	var value string
	if err := s.pool.QueryRow(ctx, selectCredentialQuery, key).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		log.Error(ctx, ErrorFailedToGet, zap.String("key", key), zap.Error(err))
		return "", false, fmt.Errorf("%s: %w", ErrorFailedToGet, err)
	}

	return value, true, nil
}

// Set устанавливает значение для ключа.
func (s *PostgresStore) Set(ctx context.Context, key, value string) error {
	log := logger.Log(ctx).With(zap.String("repository", "credentials"), zap.String("method", LogMethodSet))

	if _, err := s.pool.Exec(ctx, upsertCredentialQuery, key, value); err != nil {
		log.Error(ctx, ErrorFailedToSet, zap.String("key", key), zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorFailedToSet, err)
	}

	return nil
}

// Delete удаляет значения по ключам.
func (s *PostgresStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	log := logger.Log(ctx).With(zap.String("repository", "credentials"), zap.String("method", LogMethodDelete))

	if _, err := s.pool.Exec(ctx, deleteCredentialsQuery, keys); err != nil {
		log.Error(ctx, ErrorFailedToDelete, zap.Strings("keys", keys), zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorFailedToDelete, err)
	}

	return nil
}

// Apply применяет пакет изменений в одной транзакции. Ключи записываются в алфавитном порядке.
func (s *PostgresStore) Apply(ctx context.Context, batch storage.Batch) error {
	if batch.Empty() {
		return nil
	}
	log := logger.Log(ctx).With(zap.String("repository", "credentials"), zap.String("method", LogMethodApply))

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		log.Error(ctx, ErrorFailedToApply, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorFailedToApply, err)
	}

	keys := make([]string, 0, len(batch.Set))
	for k := range batch.Set {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if _, err := tx.Exec(ctx, upsertCredentialQuery, k, batch.Set[k]); err != nil {
			return s.rollback(ctx, tx, err)
		}
	}

	if len(batch.Delete) > 0 {
		if _, err := tx.Exec(ctx, deleteCredentialsQuery, batch.Delete); err != nil {
			return s.rollback(ctx, tx, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		log.Error(ctx, ErrorFailedToApply, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorFailedToApply, err)
	}

	return nil
}

func (s *PostgresStore) rollback(ctx context.Context, tx pgx.Tx, cause error) error {
	log := logger.Log(ctx)
	if err := tx.Rollback(ctx); err != nil {
		log.Warn(ctx, "failed to rollback credentials transaction", zap.Error(err))
	}
	log.Error(ctx, ErrorFailedToApply, zap.Error(cause))
	return fmt.Errorf("%s: %w", ErrorFailedToApply, cause)
}

// Close закрывает пул соединений.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
