// Package session управляет жизненным циклом сессии: вход, обновление токенов, выход.
package session

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sync"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"tcofront/internal/front/adapters/api"
	"tcofront/internal/front/app/credentials"
	"tcofront/internal/front/metrics"
	"tcofront/pkg/logger"
)

// Сообщения об ошибках для пользователя.
const (
	DefaultLoginError  = "Échec de connexion"
	DefaultForgotError = "Échec de la demande de réinitialisation"
	DefaultAutoError   = "Échec de la connexion automatique"
)

// Константы для логирования.
const (
	LogSessionRestored = "session restored from storage"
	LogLoginSucceeded  = "login succeeded"
	LogLoginFailed     = "login failed"
	LogAutoConnected   = "auto-connect succeeded"
	LogAutoFailed      = "auto-connect failed"
	LogRefreshed       = "tokens refreshed"
	LogAlreadyRotated  = "tokens already rotated by a concurrent request"
	LogRefreshFailed   = "token refresh failed, session cleared"
	LogLoggedOut       = "session cleared"
	LogPersistFailed   = "failed to persist session"
	LogForgotFailed    = "password reset request failed"

	ErrRestoreSession = "failed to restore session"
)

// Ошибки сессии.
var (
	// ErrRefreshFailed возвращается при любой неудаче обновления; сессия уже очищена.
	ErrRefreshFailed = errors.New("token refresh failed")
	// ErrNoRefreshToken возвращается при обновлении без refresh токена.
	ErrNoRefreshToken = errors.New("no refresh token")
)

const refreshKey = "refresh"

// TokenExchanger обменивает учетные данные на токены через API.
type TokenExchanger interface {
	Login(ctx context.Context, identifier, secret string) (api.TokenPair, error)
	AutoConnect(ctx context.Context, bootstrapToken string) (api.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (api.TokenPair, error)
	ForgotPassword(ctx context.Context, email string) error
}

// Session снимок состояния сессии.
type Session struct {
	AccessToken   string        `json:"-"`
	RefreshToken  string        `json:"-"`
	TokenInfo     jwt.MapClaims `json:"tokenInfo,omitempty"`
	IsAutoConnect bool          `json:"isAutoConnectSession"`
	LastError     string        `json:"error,omitempty"`
	IsLoading     bool          `json:"loading"`
}

// Authenticated сообщает, что у сессии есть access токен.
func (s Session) Authenticated() bool {
	return s.AccessToken != ""
}

// Manager владеет единственной сессией процесса.
type Manager struct {
	store     *credentials.Store
	exchanger TokenExchanger
	metrics   *metrics.Metrics

	// writeMu упорядочивает запись в хранилище и применение в памяти.
	writeMu sync.Mutex
	mu      sync.RWMutex
	state   Session

	refreshGroup singleflight.Group
	events       *broadcaster
}

// Option настраивает Manager.
type Option func(*Manager)

// WithMetrics задает сборщик метрик.
func WithMetrics(m *metrics.Metrics) Option {
	return func(mgr *Manager) { mgr.metrics = m }
}

// NewManager восстанавливает сессию из хранилища.
func NewManager(ctx context.Context, store *credentials.Store, exchanger TokenExchanger, opts ...Option) (*Manager, error) {
	m := &Manager{
		store:     store,
		exchanger: exchanger,
		events:    newBroadcaster(),
	}
	for _, opt := range opts {
		opt(m)
	}

	rec, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrRestoreSession, err)
	}

	m.state = Session{
		AccessToken:   rec.Token,
		RefreshToken:  rec.RefreshToken,
		TokenInfo:     DecodeClaims(rec.Token),
		IsAutoConnect: rec.IsAutoConnect,
	}

	logger.Log(ctx).Info(ctx, LogSessionRestored,
		zap.Bool("authenticated", m.state.Authenticated()),
		zap.Bool("auto_connect", m.state.IsAutoConnect))

	return m, nil
}

// DecodeClaims декодирует claims токена без проверки подписи. Возвращает nil при ошибке.
func DecodeClaims(token string) jwt.MapClaims {
	if token == "" {
		return nil
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil
	}
	return claims
}

// Snapshot возвращает копию состояния.
func (m *Manager) Snapshot() Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := m.state
	s.TokenInfo = maps.Clone(m.state.TokenInfo)
	return s
}

// AccessToken возвращает текущий access токен.
func (m *Manager) AccessToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.AccessToken
}

// RefreshToken возвращает текущий refresh токен.
func (m *Manager) RefreshToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.RefreshToken
}

// IsAuthenticated сообщает, что сессия авторизована.
func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.Authenticated()
}

// Subscribe подписывает на события смены сессии. cancel прекращает доставку.
// Медленный подписчик теряет самые старые события, но не задерживает изменения сессии.
func (m *Manager) Subscribe() (<-chan Event, func()) {
	return m.events.subscribe()
}

// Login выполняет вход по логину и паролю. Ошибка не меняет токены.
func (m *Manager) Login(ctx context.Context, identifier, secret string) error {
	log := logger.Log(ctx).With(zap.String("operation", "login"))

	m.startLoading()
	defer m.stopLoading()

	pair, err := m.exchanger.Login(ctx, identifier, secret)
	if err != nil {
		log.Warn(ctx, LogLoginFailed, zap.Error(err))
		m.setError(api.MessageOf(err, DefaultLoginError))
		return err
	}

	if err := m.commit(ctx, pair, false); err != nil {
		m.setError(DefaultLoginError)
		return err
	}

	log.Info(ctx, LogLoginSucceeded)
	return nil
}

// AutoConnect обменивает одноразовый токен на сессию.
func (m *Manager) AutoConnect(ctx context.Context, bootstrapToken string) error {
	log := logger.Log(ctx).With(zap.String("operation", "auto_connect"))

	m.startLoading()
	defer m.stopLoading()

	pair, err := m.exchanger.AutoConnect(ctx, bootstrapToken)
	if err != nil {
		log.Warn(ctx, LogAutoFailed, zap.Error(err))
		m.setError(api.MessageOf(err, DefaultAutoError))
		return err
	}

	if err := m.commit(ctx, pair, true); err != nil {
		m.setError(DefaultAutoError)
		return err
	}

	log.Info(ctx, LogAutoConnected)
	return nil
}

// Refresh обменивает refresh токен на новую пару. Одновременные вызовы выполняют
// один обмен. Любая неудача очищает сессию и возвращает ErrRefreshFailed.
func (m *Manager) Refresh(ctx context.Context) error {
	return m.refreshOnce(ctx, "")
}

// RefreshRejected обновляет токены после отказа API с токеном rejected. Если токен
// уже заменен другим запросом, обмен не выполняется.
func (m *Manager) RefreshRejected(ctx context.Context, rejected string) error {
	return m.refreshOnce(ctx, rejected)
}

func (m *Manager) refreshOnce(ctx context.Context, rejected string) error {
	_, err, _ := m.refreshGroup.Do(refreshKey, func() (any, error) {
		if rejected != "" {
			if current := m.AccessToken(); current != "" && current != rejected {
				logger.Log(ctx).Debug(ctx, LogAlreadyRotated)
				return nil, nil
			}
		}
		return nil, m.refresh(ctx)
	})
	return err
}

func (m *Manager) refresh(ctx context.Context) error {
	log := logger.Log(ctx).With(zap.String("operation", "refresh"))

	m.mu.RLock()
	refreshToken := m.state.RefreshToken
	isAuto := m.state.IsAutoConnect
	m.mu.RUnlock()

	fail := func(cause error) error {
		log.Warn(ctx, LogRefreshFailed, zap.Error(cause))
		m.metrics.IncRefresh(metrics.ResultFailure)
		if err := m.clear(ctx); err != nil {
			log.Error(ctx, LogPersistFailed, zap.Error(err))
		}
		return fmt.Errorf("%w: %w", ErrRefreshFailed, cause)
	}

	if refreshToken == "" {
		return fail(ErrNoRefreshToken)
	}

	pair, err := m.exchanger.Refresh(ctx, refreshToken)
	if err != nil {
		return fail(err)
	}

	if err := m.commit(ctx, pair, isAuto); err != nil {
		return fail(err)
	}

	m.metrics.IncRefresh(metrics.ResultSuccess)
	log.Info(ctx, LogRefreshed)
	return nil
}

// Logout очищает сессию и хранилище. Повторный вызов безопасен.
func (m *Manager) Logout(ctx context.Context) error {
	err := m.clear(ctx)
	if err != nil {
		logger.Log(ctx).Error(ctx, LogPersistFailed, zap.Error(err))
		return err
	}
	logger.Log(ctx).Info(ctx, LogLoggedOut)
	return nil
}

// ForgotPassword запрашивает сброс пароля. Не требует авторизации.
func (m *Manager) ForgotPassword(ctx context.Context, email string) error {
	m.startLoading()
	defer m.stopLoading()

	if err := m.exchanger.ForgotPassword(ctx, email); err != nil {
		logger.Log(ctx).Warn(ctx, LogForgotFailed, zap.Error(err))
		m.setError(api.MessageOf(err, DefaultForgotError))
		return err
	}
	return nil
}

// commit сначала сохраняет пару токенов, затем применяет ее в памяти.
func (m *Manager) commit(ctx context.Context, pair api.TokenPair, isAuto bool) error {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	claims := DecodeClaims(pair.Token)
	rec := credentials.Record{
		Token:         pair.Token,
		RefreshToken:  pair.RefreshToken,
		TokenInfo:     claims,
		IsAutoConnect: isAuto,
	}
	if err := m.store.Save(ctx, rec); err != nil {
		logger.Log(ctx).Error(ctx, LogPersistFailed, zap.Error(err))
		return err
	}

	m.mu.Lock()
	m.state.AccessToken = pair.Token
	m.state.RefreshToken = pair.RefreshToken
	m.state.TokenInfo = claims
	m.state.IsAutoConnect = isAuto
	m.mu.Unlock()

	m.events.publish(Event{Authenticated: pair.Token != ""})
	return nil
}

// clear всегда очищает память; ошибка хранилища возвращается.
func (m *Manager) clear(ctx context.Context) error {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	err := m.store.Clear(ctx)

	m.mu.Lock()
	m.state.AccessToken = ""
	m.state.RefreshToken = ""
	m.state.TokenInfo = nil
	m.state.IsAutoConnect = false
	m.mu.Unlock()

	m.events.publish(Event{Authenticated: false})
	return err
}

func (m *Manager) startLoading() {
	m.mu.Lock()
	m.state.IsLoading = true
	m.state.LastError = ""
	m.mu.Unlock()
}

func (m *Manager) stopLoading() {
	m.mu.Lock()
	m.state.IsLoading = false
	m.mu.Unlock()
}

func (m *Manager) setError(msg string) {
	m.mu.Lock()
	m.state.LastError = msg
	m.mu.Unlock()
}
