// Package user хранит профиль текущего пользователя.
package user

import (
	"context"
	"encoding/json"
	"maps"
	"strings"
	"sync"

	"go.uber.org/zap"

	"tcofront/internal/front/adapters/api"
	"tcofront/internal/front/app/dto"
	"tcofront/pkg/logger"
)

// Сообщения об ошибках для пользователя.
const (
	DefaultFetchError    = "Échec de récupération du profil utilisateur"
	DefaultUpdateError   = "Échec de la mise à jour du profil"
	DefaultPasswordError = "Échec du changement de mot de passe"
)

// Константы для логирования.
const (
	LogFetchFailed    = "failed to fetch user profile"
	LogUpdateFailed   = "failed to update user profile"
	LogPasswordFailed = "failed to change password"
)

// FieldPrefix префикс полей профиля в API.
const FieldPrefix = "field_"

// ComptableFields поля, по которым определяется наличие данных бухгалтера.
var ComptableFields = []string{
	"field_comptable_nom",
	"field_comptable_prenom",
	"field_comptable_fonction",
	"field_comptable_tel",
	"field_comptable_rue",
	"field_comptable_cp",
	"field_comptable_ville",
}

// Service операции API профиля.
type Service interface {
	Get(ctx context.Context) (json.RawMessage, error)
	Update(ctx context.Context, fields map[string]any) (json.RawMessage, error)
	ChangePassword(ctx context.Context, current, next string) error
	ResetPassword(ctx context.Context, next string) error
}

// Store кэширует профиль и возвращает результаты в виде dto.Result.
type Store struct {
	svc Service

	mu        sync.RWMutex
	user      map[string]any
	loading   bool
	lastError string
}

// NewStore создает хранилище профиля.
func NewStore(svc Service) *Store {
	return &Store{svc: svc}
}

// FetchProfile загружает профиль.
func (s *Store) FetchProfile(ctx context.Context) dto.Result {
	s.begin()
	defer s.end()

	raw, err := s.svc.Get(ctx)
	if err != nil {
		logger.Log(ctx).Warn(ctx, LogFetchFailed, zap.Error(err))
		return s.fail(api.MessageOf(err, DefaultFetchError))
	}

	var u map[string]any
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &u); err != nil {
			logger.Log(ctx).Warn(ctx, LogFetchFailed, zap.Error(err))
			return s.fail(DefaultFetchError)
		}
	}

	s.mu.Lock()
	s.user = u
	s.mu.Unlock()

	return dto.OK(maps.Clone(u))
}

// UpdateProfile отправляет поля и переносит их в локальный профиль с префиксом field_.
func (s *Store) UpdateProfile(ctx context.Context, fields map[string]any) dto.Result {
	s.begin()
	defer s.end()

	raw, err := s.svc.Update(ctx, fields)
	if err != nil {
		logger.Log(ctx).Warn(ctx, LogUpdateFailed, zap.Error(err))
		return s.fail(api.MessageOf(err, DefaultUpdateError))
	}

	s.mu.Lock()
	if s.user == nil {
		s.user = make(map[string]any, len(fields))
	}
	for k, v := range fields {
		if !strings.HasPrefix(k, FieldPrefix) {
			k = FieldPrefix + k
		}
		s.user[k] = v
	}
	s.mu.Unlock()

	return dto.OK(raw)
}

// ChangePassword меняет пароль.
func (s *Store) ChangePassword(ctx context.Context, current, next string) dto.Result {
	s.begin()
	defer s.end()

	if err := s.svc.ChangePassword(ctx, current, next); err != nil {
		logger.Log(ctx).Warn(ctx, LogPasswordFailed, zap.Error(err))
		return s.fail(api.MessageOf(err, DefaultPasswordError))
	}
	return dto.OK(nil)
}

// ChangePasswordAfterAutoConnect задает пароль после входа по ссылке.
func (s *Store) ChangePasswordAfterAutoConnect(ctx context.Context, next string) dto.Result {
	s.begin()
	defer s.end()

	if err := s.svc.ResetPassword(ctx, next); err != nil {
		logger.Log(ctx).Warn(ctx, LogPasswordFailed, zap.Error(err))
		return s.fail(api.MessageOf(err, DefaultPasswordError))
	}
	return dto.OK(nil)
}

// User возвращает копию профиля или nil.
func (s *Store) User() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.user)
}

// HasComptableInfo сообщает, что заполнено хотя бы одно поле бухгалтера.
func (s *Store) HasComptableInfo() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.user == nil {
		return false
	}
	for _, f := range ComptableFields {
		if v, ok := s.user[f].(string); ok && strings.TrimSpace(v) != "" {
			return true
		}
	}
	return false
}

// Loading сообщает, что идет операция.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Error возвращает последнюю ошибку.
func (s *Store) Error() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastError
}

// Reset забывает профиль.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.lastError = ""
}

func (s *Store) begin() {
	s.mu.Lock()
	s.loading = true
	s.lastError = ""
	s.mu.Unlock()
}

func (s *Store) end() {
	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()
}

func (s *Store) fail(msg string) dto.Result {
	s.mu.Lock()
	s.lastError = msg
	s.mu.Unlock()
	return dto.Fail(msg)
}
