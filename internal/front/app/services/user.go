package services

import (
	"context"
	"encoding/json"
	"net/http"

	"tcofront/internal/front/adapters/api"
)

const (
	userPath          = "/api/user"
	userUpdatePath    = "/api/user/update"
	changePassword    = "/api/change-password"
	resetPasswordPath = "/api/change-password/reset"
)

// UserService работает с профилем пользователя.
type UserService struct {
	client Doer
}

// NewUserService создает сервис профиля.
func NewUserService(client Doer) *UserService {
	return &UserService{client: client}
}

// Get возвращает профиль текущего пользователя.
func (s *UserService) Get(ctx context.Context) (json.RawMessage, error) {
	return call(ctx, s.client, "user", &api.Request{Method: http.MethodGet, Path: userPath})
}

// Update отправляет измененные поля профиля.
func (s *UserService) Update(ctx context.Context, fields map[string]any) (json.RawMessage, error) {
	return call(ctx, s.client, "user", &api.Request{
		Method: http.MethodPost, Path: userUpdatePath, Body: fields, ContentType: api.ContentTypeJSONAPI,
	})
}

// ChangePassword меняет пароль.
func (s *UserService) ChangePassword(ctx context.Context, current, next string) error {
	_, err := call(ctx, s.client, "user", &api.Request{
		Method:      http.MethodPatch,
		Path:        changePassword,
		Body:        map[string]string{"oldpassword": current, "newpassword": next},
		ContentType: api.ContentTypeJSONAPI,
	})
	return err
}

// ResetPassword задает пароль после автоматического входа.
func (s *UserService) ResetPassword(ctx context.Context, next string) error {
	_, err := call(ctx, s.client, "user", &api.Request{
		Method:      http.MethodPatch,
		Path:        resetPasswordPath,
		Body:        map[string]string{"newpassword": next},
		ContentType: api.ContentTypeJSONAPI,
	})
	return err
}
