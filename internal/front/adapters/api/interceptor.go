package api

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"go.uber.org/zap"

	"tcofront/internal/front/metrics"
	"tcofront/pkg/logger"
)

// Пути обмена токенами, которые не проходят через автомат повторов.
const (
	PathToken          = "/jwt/token"
	PathRefresh        = "/jwt/refresh"
	PathRefreshByJWT   = "/jwt/refreshByJwt"
	PathForgotPassword = "/api/user/forget"
)

// Маршрут входа и код причины для истекшей сессии.
const (
	LoginRoute           = "/login"
	ReasonSessionExpired = "se"
)

// Состояния автомата повторов для логов и метрик.
const (
	StateRefreshAttempted = "refresh_attempted"
	StateResolved         = "resolved"
	StateTerminal         = "terminal"
	StateCleared          = "cleared"
)

// Константы для логирования.
const (
	LogShortCircuit     = "no credentials, request not sent"
	LogRefreshAttempted = "authorization expired, refreshing tokens"
	LogRefreshFailed    = "token refresh failed"
	LogResolved         = "request resolved after refresh"
	LogTerminal         = "authorization expired after refresh, session terminated"
	LogNoRefreshToken   = "authorization expired without refresh token, session cleared"
	LogClearFailed      = "failed to clear session"
)

var exemptPaths = map[string]struct{}{
	PathToken:          {},
	PathRefresh:        {},
	PathRefreshByJWT:   {},
	PathForgotPassword: {},
}

// IsExempt сообщает, что путь не требует авторизации.
func IsExempt(path string) bool {
	_, ok := exemptPaths[path]
	return ok
}

// Session определяет операции сессии, нужные перехватчику.
type Session interface {
	AccessToken() string
	RefreshToken() string
	// RefreshRejected обновляет токены, если отклоненный access токен еще актуален.
	RefreshRejected(ctx context.Context, rejected string) error
	Logout(ctx context.Context) error
}

// Navigator переводит UI на указанный маршрут.
type Navigator interface {
	Navigate(ctx context.Context, route string)
}

// NavigatorFunc адаптер функции к Navigator.
type NavigatorFunc func(ctx context.Context, route string)

// Navigate вызывает f.
func (f NavigatorFunc) Navigate(ctx context.Context, route string) {
	f(ctx, route)
}

// SessionExpiredRoute маршрут входа с причиной истекшей сессии.
func SessionExpiredRoute() string {
	return LoginRoute + "?" + url.Values{"reason": {ReasonSessionExpired}}.Encode()
}

// AuthInterceptor добавляет bearer токен и делает не более одного обновления токенов
// на логический запрос при ответе 403.
type AuthInterceptor struct {
	session   Session
	navigator Navigator
	metrics   *metrics.Metrics

	mu     sync.RWMutex
	client *Client
}

// NewAuthInterceptor создает перехватчик.
func NewAuthInterceptor(session Session, navigator Navigator, m *metrics.Metrics) *AuthInterceptor {
	if navigator == nil {
		navigator = NavigatorFunc(func(context.Context, string) {})
	}
	return &AuthInterceptor{session: session, navigator: navigator, metrics: m}
}

// Install регистрирует перехватчик в клиенте.
func (a *AuthInterceptor) Install(c *Client) {
	a.mu.Lock()
	a.client = c
	a.mu.Unlock()

	c.UseRequest(a.OnRequest)
	c.UseResponse(a.OnResponse)
}

// OnRequest добавляет заголовок Authorization.
func (a *AuthInterceptor) OnRequest(ctx context.Context, req *Request) error {
	if IsExempt(req.Path) {
		return nil
	}

	token := a.session.AccessToken()
	if token == "" && a.session.RefreshToken() == "" {
		logger.Log(ctx).Debug(ctx, LogShortCircuit, zap.String("path", req.Path))
		return ErrNotAuthenticated
	}
	if token != "" {
		req.SetBearer(token)
	}
	return nil
}

// OnResponse реализует автомат повторов при ответе 403.
func (a *AuthInterceptor) OnResponse(ctx context.Context, req *Request, resp *Response, err error) (*Response, error) {
	if IsExempt(req.Path) {
		return resp, err
	}
	log := logger.Log(ctx).With(zap.String("method", req.Method), zap.String("path", req.Path))

	if !IsForbidden(err) {
		if err == nil && req.retried {
			log.Debug(ctx, LogResolved)
			a.metrics.IncRetryTransition(StateResolved)
		}
		return resp, err
	}

	if req.retried {
		log.Warn(ctx, LogTerminal)
		a.metrics.IncRetryTransition(StateTerminal)
		a.clear(ctx, log)
		a.navigator.Navigate(ctx, SessionExpiredRoute())
		return nil, fmt.Errorf("%w: %w", ErrSessionExpired, err)
	}

	if a.session.RefreshToken() == "" {
		log.Info(ctx, LogNoRefreshToken)
		a.metrics.IncRetryTransition(StateCleared)
		a.clear(ctx, log)
		return resp, err
	}

	req.retried = true
	a.metrics.IncRetryTransition(StateRefreshAttempted)

	log.Info(ctx, LogRefreshAttempted)
	if err := a.session.RefreshRejected(ctx, req.token); err != nil {
		log.Warn(ctx, LogRefreshFailed, zap.Error(err))
		return nil, err
	}

	a.mu.RLock()
	client := a.client
	a.mu.RUnlock()

	return client.Do(ctx, req)
}

func (a *AuthInterceptor) clear(ctx context.Context, log *logger.Logger) {
	if err := a.session.Logout(ctx); err != nil {
		log.Error(ctx, LogClearFailed, zap.Error(err))
	}
}
