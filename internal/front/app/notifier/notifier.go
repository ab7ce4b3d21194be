// Package notifier связывает переходы авторизации сессии с кэшем общих данных.
package notifier

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"tcofront/internal/front/app/session"
	"tcofront/pkg/logger"
)

// DefaultFetchDelay задержка перед загрузкой данных после входа.
const DefaultFetchDelay = 100 * time.Millisecond

// Константы для логирования.
const (
	LogStarted      = "auth change notifier started"
	LogStopped      = "auth change notifier stopped"
	LogLoggedIn     = "session authenticated, scheduling site data fetch"
	LogLoggedOut    = "session cleared, resetting site data"
	LogFetchFailed  = "site data fetch after login failed"
	LogAlreadyStart = "auth change notifier already started"
)

// Source источник событий сессии.
type Source interface {
	Subscribe() (<-chan session.Event, func())
	IsAuthenticated() bool
}

// Cache операции кэша общих данных, вызываемые при переходах.
type Cache interface {
	Fetch(ctx context.Context) bool
	Reset()
}

// Notifier реагирует на переходы false→true и true→false. Начальное состояние
// при Start переходом не считается.
type Notifier struct {
	source Source
	cache  Cache
	delay  time.Duration

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	pending *time.Timer
}

// New создает Notifier. Неположительная задержка заменяется DefaultFetchDelay.
func New(source Source, cache Cache, delay time.Duration) *Notifier {
	if delay <= 0 {
		delay = DefaultFetchDelay
	}
	return &Notifier{source: source, cache: cache, delay: delay}
}

// Start подписывается на события сессии и запускает обработку.
func (n *Notifier) Start(ctx context.Context) {
	n.mu.Lock()
	defer n.mu.Unlock()

	log := logger.Log(ctx)
	if n.cancel != nil {
		log.Warn(ctx, LogAlreadyStart)
		return
	}

	events, unsubscribe := n.source.Subscribe()
	baseline := n.source.IsAuthenticated()

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	n.cancel = cancel
	n.done = make(chan struct{})

	go n.run(runCtx, events, unsubscribe, baseline)
	log.Info(ctx, LogStarted, zap.Bool("authenticated", baseline))
}

func (n *Notifier) run(ctx context.Context, events <-chan session.Event, unsubscribe func(), prev bool) {
	defer close(n.done)
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-events:
			if ev.Authenticated == prev {
				continue
			}
			prev = ev.Authenticated
			if ev.Authenticated {
				n.scheduleFetch(ctx)
			} else {
				n.reset(ctx)
			}
		}
	}
}

func (n *Notifier) scheduleFetch(ctx context.Context) {
	logger.Log(ctx).Debug(ctx, LogLoggedIn, zap.Duration("delay", n.delay))

	n.mu.Lock()
	defer n.mu.Unlock()

	if n.pending != nil {
		n.pending.Stop()
	}
	n.pending = time.AfterFunc(n.delay, func() {
		if ctx.Err() != nil {
			return
		}
		if !n.cache.Fetch(ctx) {
			logger.Log(ctx).Warn(ctx, LogFetchFailed)
		}
	})
}

func (n *Notifier) reset(ctx context.Context) {
	logger.Log(ctx).Debug(ctx, LogLoggedOut)

	n.mu.Lock()
	if n.pending != nil {
		n.pending.Stop()
		n.pending = nil
	}
	n.mu.Unlock()

	n.cache.Reset()
}

// Stop прекращает обработку и отменяет отложенную загрузку.
func (n *Notifier) Stop(ctx context.Context) error {
	n.mu.Lock()
	cancel, done := n.cancel, n.done
	n.cancel = nil
	if n.pending != nil {
		n.pending.Stop()
		n.pending = nil
	}
	n.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	logger.Log(ctx).Info(ctx, LogStopped)
	return nil
}
