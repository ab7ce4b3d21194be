package api

import (
	"context"
	"encoding/base64"
	"net/http"
)

// TokenPair пара токенов, выдаваемая эндпоинтами /jwt/*.
type TokenPair struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthClient обращается к эндпоинтам обмена токенами.
type AuthClient struct {
	client *Client
}

// NewAuthClient создает клиент эндпоинтов авторизации.
func NewAuthClient(client *Client) *AuthClient {
	return &AuthClient{client: client}
}

// Login обменивает логин и пароль на пару токенов (Basic auth).
func (a *AuthClient) Login(ctx context.Context, identifier, secret string) (TokenPair, error) {
	basic := base64.StdEncoding.EncodeToString([]byte(identifier + ":" + secret))
	return a.exchange(ctx, &Request{
		Method:  http.MethodPost,
		Path:    PathToken,
		Headers: map[string]string{HeaderAuthorization: "Basic " + basic},
		Body:    struct{}{},
	})
}

// AutoConnect обменивает одноразовый токен на полную пару токенов.
func (a *AuthClient) AutoConnect(ctx context.Context, bootstrapToken string) (TokenPair, error) {
	req := &Request{Method: http.MethodGet, Path: PathRefreshByJWT}
	req.SetBearer(bootstrapToken)
	return a.exchange(ctx, req)
}

// Refresh обменивает refresh токен на новую пару.
func (a *AuthClient) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	return a.exchange(ctx, &Request{
		Method: http.MethodPost,
		Path:   PathRefresh,
		Body:   map[string]string{"refresh_token": refreshToken},
	})
}

// ForgotPassword запрашивает письмо для сброса пароля.
func (a *AuthClient) ForgotPassword(ctx context.Context, email string) error {
	_, err := a.client.Do(ctx, &Request{
		Method: http.MethodPost,
		Path:   PathForgotPassword,
		Body:   map[string]string{"email": email},
	})
	return err
}

func (a *AuthClient) exchange(ctx context.Context, req *Request) (TokenPair, error) {
	var pair TokenPair
	if err := a.client.JSON(ctx, req, &pair); err != nil {
		return TokenPair{}, err
	}
	if pair.Token == "" {
		return TokenPair{}, ErrEmptyToken
	}
	return pair, nil
}
