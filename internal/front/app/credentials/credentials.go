// Package credentials хранит учетные данные сессии в долговременном хранилище.
package credentials

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"tcofront/internal/front/ports/storage"
	"tcofront/pkg/logger"
)

// Ключи долговременного хранилища.
const (
	KeyToken                = "token"
	KeyRefreshToken         = "refreshToken"
	KeyTokenInfo            = "tokenInfo"
	KeyIsAutoConnectSession = "isAutoConnectSession"
)

// Константы для логирования и ошибок.
const (
	ErrLoadCredentials  = "failed to load credentials"
	ErrSaveCredentials  = "failed to save credentials"
	ErrClearCredentials = "failed to clear credentials"

	LogInvalidTokenInfo = "stored token info is not valid JSON, ignoring"
)

// Record зеркалирует токеновые поля сессии.
type Record struct {
	Token         string
	RefreshToken  string
	TokenInfo     map[string]any
	IsAutoConnect bool
}

// Store читает и пишет Record через KeyValueStore.
type Store struct {
	kv storage.KeyValueStore
}

// NewStore создает хранилище учетных данных.
func NewStore(kv storage.KeyValueStore) *Store {
	return &Store{kv: kv}
}

// Load читает запись. Отсутствующие ключи дают нулевые значения.
func (s *Store) Load(ctx context.Context) (Record, error) {
	var rec Record

	token, _, err := s.kv.Get(ctx, KeyToken)
	if err != nil {
		return Record{}, fmt.Errorf("%s: %w", ErrLoadCredentials, err)
	}
	refresh, _, err := s.kv.Get(ctx, KeyRefreshToken)
	if err != nil {
		return Record{}, fmt.Errorf("%s: %w", ErrLoadCredentials, err)
	}
	info, ok, err := s.kv.Get(ctx, KeyTokenInfo)
	if err != nil {
		return Record{}, fmt.Errorf("%s: %w", ErrLoadCredentials, err)
	}
	auto, _, err := s.kv.Get(ctx, KeyIsAutoConnectSession)
	if err != nil {
		return Record{}, fmt.Errorf("%s: %w", ErrLoadCredentials, err)
	}

	rec.Token = token
	rec.RefreshToken = refresh
	rec.IsAutoConnect, _ = strconv.ParseBool(auto)

	if ok && info != "" {
		if err := json.Unmarshal([]byte(info), &rec.TokenInfo); err != nil {
			logger.Log(ctx).Warn(ctx, LogInvalidTokenInfo, zap.Error(err))
			rec.TokenInfo = nil
		}
	}

	return rec, nil
}

// Save синхронно записывает запись целиком. Пустые значения удаляются.
func (s *Store) Save(ctx context.Context, rec Record) error {
	batch := storage.Batch{Set: map[string]string{}}

	put := func(key, value string) {
		if value == "" {
			batch.Delete = append(batch.Delete, key)
			return
		}
		batch.Set[key] = value
	}

	put(KeyToken, rec.Token)
	put(KeyRefreshToken, rec.RefreshToken)

	if rec.TokenInfo != nil {
		raw, err := json.Marshal(rec.TokenInfo)
		if err != nil {
			return fmt.Errorf("%s: %w", ErrSaveCredentials, err)
		}
		put(KeyTokenInfo, string(raw))
	} else {
		put(KeyTokenInfo, "")
	}

	batch.Set[KeyIsAutoConnectSession] = strconv.FormatBool(rec.IsAutoConnect)

	if err := s.kv.Apply(ctx, batch); err != nil {
		return fmt.Errorf("%s: %w", ErrSaveCredentials, err)
	}
	return nil
}

// Clear удаляет все ключи записи.
func (s *Store) Clear(ctx context.Context) error {
	err := s.kv.Delete(ctx, KeyToken, KeyRefreshToken, KeyTokenInfo, KeyIsAutoConnectSession)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrClearCredentials, err)
	}
	return nil
}
