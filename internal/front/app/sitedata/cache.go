// Package sitedata кэширует общие данные сайта с ограниченным временем жизни.
package sitedata

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"tcofront/internal/front/adapters/api"
	"tcofront/internal/front/metrics"
	"tcofront/pkg/logger"
)

// DefaultTTL время, после которого данные считаются устаревшими.
const DefaultTTL = 5 * time.Minute

// Сообщения об ошибках для пользователя.
const (
	ErrNotAuthenticatedMessage = "Utilisateur non authentifié"
	DefaultFetchError          = "Erreur lors de la récupération des données"
)

// Константы для логирования.
const (
	LogFetchSkipped   = "site data fetch skipped, user not authenticated"
	LogFetchFailed    = "site data fetch failed"
	LogFetchSucceeded = "site data fetched"
	LogFetchDiscarded = "site data reset during fetch, result discarded"
	LogReset          = "site data reset"
)

// Fetcher загружает общие данные.
type Fetcher interface {
	GetShareData(ctx context.Context) (json.RawMessage, error)
}

// AuthChecker сообщает, авторизована ли сессия.
type AuthChecker interface {
	IsAuthenticated() bool
}

// Cache одна запись общих данных сайта.
type Cache struct {
	fetcher Fetcher
	auth    AuthChecker
	metrics *metrics.Metrics
	ttl     time.Duration
	now     func() time.Time

	mu         sync.RWMutex
	payload    json.RawMessage
	fetchedAt  time.Time
	inflight   int
	lastError  string
	generation uint64
}

// Option настраивает Cache.
type Option func(*Cache)

// WithTTL задает время жизни данных.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock задает источник времени.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// WithMetrics задает сборщик метрик.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Cache) { c.metrics = m }
}

// New создает пустой кэш.
func New(fetcher Fetcher, auth AuthChecker, opts ...Option) *Cache {
	c := &Cache{
		fetcher: fetcher,
		auth:    auth,
		ttl:     DefaultTTL,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchIfNeeded загружает данные, если их нет или они устарели и загрузка не идет.
// Возвращает наличие данных.
func (c *Cache) FetchIfNeeded(ctx context.Context) bool {
	c.mu.Lock()
	stale := c.payload == nil || c.now().Sub(c.fetchedAt) > c.ttl
	if !c.auth.IsAuthenticated() || !stale || c.inflight > 0 {
		has := c.payload != nil
		c.mu.Unlock()
		return has
	}
	gen := c.begin()
	c.mu.Unlock()

	return c.load(ctx, gen)
}

// Fetch загружает данные без проверки срока годности.
func (c *Cache) Fetch(ctx context.Context) bool {
	c.mu.Lock()
	if !c.auth.IsAuthenticated() {
		c.lastError = ErrNotAuthenticatedMessage
		c.mu.Unlock()
		logger.Log(ctx).Debug(ctx, LogFetchSkipped)
		c.metrics.IncSiteDataFetch(metrics.ResultSkipped)
		return false
	}
	gen := c.begin()
	c.mu.Unlock()

	return c.load(ctx, gen)
}

// begin отмечает начало загрузки; вызывается под c.mu.
func (c *Cache) begin() uint64 {
	c.inflight++
	c.lastError = ""
	return c.generation
}

func (c *Cache) load(ctx context.Context, gen uint64) bool {
	log := logger.Log(ctx)

	data, err := c.fetcher.GetShareData(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.inflight--

	if gen != c.generation {
		log.Debug(ctx, LogFetchDiscarded)
		return c.payload != nil
	}

	if err != nil {
		log.Warn(ctx, LogFetchFailed, zap.Error(err))
		c.lastError = api.MessageOf(err, DefaultFetchError)
		c.metrics.IncSiteDataFetch(metrics.ResultFailure)
		return false
	}

	c.payload = data
	c.fetchedAt = c.now()
	c.metrics.IncSiteDataFetch(metrics.ResultSuccess)
	log.Debug(ctx, LogFetchSucceeded, zap.Int("bytes", len(data)))
	return c.payload != nil
}

// Reset очищает данные и ошибку. Счетчик загрузок не трогает: идущая загрузка
// завершится сама, но ее результат будет отброшен.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.payload = nil
	c.fetchedAt = time.Time{}
	c.lastError = ""
	c.generation++
}

// Data возвращает данные или nil.
func (c *Cache) Data() json.RawMessage {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.payload
}

// Nested возвращает вложенное значение по цепочке ключей.
func (c *Cache) Nested(keys ...string) (json.RawMessage, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.payload == nil {
		return nil, false
	}
	if len(keys) == 0 {
		return c.payload, true
	}

	escaped := make([]string, len(keys))
	for i, k := range keys {
		escaped[i] = escapeKey(k)
	}

	res := gjson.GetBytes(c.payload, strings.Join(escaped, "."))
	if !res.Exists() {
		return nil, false
	}
	return json.RawMessage(res.Raw), true
}

// IsLoading сообщает, что идет хотя бы одна загрузка.
func (c *Cache) IsLoading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.inflight > 0
}

// Error возвращает последнюю ошибку или пустую строку.
func (c *Cache) Error() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastError
}

// FetchedAt возвращает время последней успешной загрузки.
func (c *Cache) FetchedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fetchedAt
}

var gjsonSpecial = strings.NewReplacer(
	`\`, `\\`,
	`.`, `\.`,
	`*`, `\*`,
	`?`, `\?`,
	`|`, `\|`,
	`#`, `\#`,
	`@`, `\@`,
	`!`, `\!`,
	`=`, `\=`,
	`<`, `\<`,
	`>`, `\>`,
	`%`, `\%`,
)

func escapeKey(k string) string {
	return gjsonSpecial.Replace(k)
}
