package notifier_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tcofront/internal/front/app/notifier"
	"tcofront/internal/front/app/session"
)

type fakeSource struct {
	mu            sync.Mutex
	authenticated bool
	ch            chan session.Event
}

func newSource(authenticated bool) *fakeSource {
	return &fakeSource{authenticated: authenticated, ch: make(chan session.Event, 8)}
}

func (s *fakeSource) Subscribe() (<-chan session.Event, func()) {
	return s.ch, func() {}
}

func (s *fakeSource) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticated
}

func (s *fakeSource) emit(authenticated bool) {
	s.mu.Lock()
	s.authenticated = authenticated
	s.mu.Unlock()
	s.ch <- session.Event{Authenticated: authenticated}
}

type fakeCache struct {
	fetches atomic.Int32
	resets  atomic.Int32
}

func (c *fakeCache) Fetch(context.Context) bool {
	c.fetches.Add(1)
	return true
}

func (c *fakeCache) Reset() {
	c.resets.Add(1)
}

const delay = 20 * time.Millisecond

func start(t *testing.T, src *fakeSource, cache *fakeCache) *notifier.Notifier {
	t.Helper()

	n := notifier.New(src, cache, delay)
	n.Start(context.Background())
	t.Cleanup(func() { require.NoError(t, n.Stop(context.Background())) })
	return n
}

func TestNotifier_BootstrapStateNeverFires(t *testing.T) {
	src := newSource(true)
	cache := &fakeCache{}
	start(t, src, cache)

	src.emit(true)
	time.Sleep(5 * delay)

	assert.Zero(t, cache.fetches.Load(), "restored session is not a login")
	assert.Zero(t, cache.resets.Load())
}

func TestNotifier_LoginFetchesAfterDelay(t *testing.T) {
	src := newSource(false)
	cache := &fakeCache{}
	start(t, src, cache)

	begin := time.Now()
	src.emit(true)

	require.Eventually(t, func() bool { return cache.fetches.Load() == 1 }, time.Second, time.Millisecond)
	assert.GreaterOrEqual(t, time.Since(begin), delay)
}

func TestNotifier_LogoutResets(t *testing.T) {
	src := newSource(true)
	cache := &fakeCache{}
	start(t, src, cache)

	src.emit(false)
	require.Eventually(t, func() bool { return cache.resets.Load() == 1 }, time.Second, time.Millisecond)

	src.emit(false)
	time.Sleep(2 * delay)
	assert.Equal(t, int32(1), cache.resets.Load(), "no transition, no action")
}

func TestNotifier_LogoutCancelsPendingFetch(t *testing.T) {
	src := newSource(false)
	cache := &fakeCache{}
	start(t, src, cache)

	src.emit(true)
	src.emit(false)

	require.Eventually(t, func() bool { return cache.resets.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(3 * delay)
	assert.Zero(t, cache.fetches.Load())
}

func TestNotifier_StopIsIdempotent(t *testing.T) {
	n := notifier.New(newSource(false), &fakeCache{}, 0)
	require.NoError(t, n.Stop(context.Background()))

	n.Start(context.Background())
	require.NoError(t, n.Stop(context.Background()))
	require.NoError(t, n.Stop(context.Background()))
}
