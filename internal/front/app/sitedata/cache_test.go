package sitedata_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tcofront/internal/front/adapters/api"
	"tcofront/internal/front/app/sitedata"
)

type fakeFetcher struct {
	calls   atomic.Int32
	payload json.RawMessage
	err     error
	block   chan struct{}
}

func (f *fakeFetcher) GetShareData(context.Context) (json.RawMessage, error) {
	f.calls.Add(1)
	if f.block != nil {
		<-f.block
	}
	return f.payload, f.err
}

type fakeAuth struct{ ok atomic.Bool }

func (a *fakeAuth) IsAuthenticated() bool { return a.ok.Load() }

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newCache(f *fakeFetcher, authenticated bool) (*sitedata.Cache, *fakeClock, *fakeAuth) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	auth := &fakeAuth{}
	auth.ok.Store(authenticated)
	return sitedata.New(f, auth, sitedata.WithClock(clock.Now)), clock, auth
}

func TestFetchIfNeeded_WithinTTLHitsNetworkOnce(t *testing.T) {
	ctx := context.Background()
	f := &fakeFetcher{payload: json.RawMessage(`{"a":1}`)}
	c, clock, _ := newCache(f, true)

	assert.True(t, c.FetchIfNeeded(ctx))
	clock.Advance(4*time.Minute + 59*time.Second)
	assert.True(t, c.FetchIfNeeded(ctx))

	assert.Equal(t, int32(1), f.calls.Load())
}

func TestFetchIfNeeded_AfterTTLFetchesAgain(t *testing.T) {
	ctx := context.Background()
	f := &fakeFetcher{payload: json.RawMessage(`{"a":1}`)}
	c, clock, _ := newCache(f, true)

	require.True(t, c.FetchIfNeeded(ctx))
	clock.Advance(5*time.Minute + time.Second)
	require.True(t, c.FetchIfNeeded(ctx))

	assert.Equal(t, int32(2), f.calls.Load())
}

func TestFetchIfNeeded_Unauthenticated(t *testing.T) {
	f := &fakeFetcher{payload: json.RawMessage(`{}`)}
	c, _, _ := newCache(f, false)

	assert.False(t, c.FetchIfNeeded(context.Background()))
	assert.Zero(t, f.calls.Load())
}

func TestFetchIfNeeded_SkipsWhileLoading(t *testing.T) {
	ctx := context.Background()
	f := &fakeFetcher{payload: json.RawMessage(`{}`), block: make(chan struct{})}
	c, _, _ := newCache(f, true)

	done := make(chan bool)
	go func() { done <- c.Fetch(ctx) }()
	require.Eventually(t, c.IsLoading, time.Second, 5*time.Millisecond)

	assert.False(t, c.FetchIfNeeded(ctx), "no data yet and a fetch is in flight")
	close(f.block)
	assert.True(t, <-done)
	assert.Equal(t, int32(1), f.calls.Load())
	assert.False(t, c.IsLoading())
}

func TestFetch_UnauthenticatedSetsError(t *testing.T) {
	f := &fakeFetcher{}
	c, _, _ := newCache(f, false)

	assert.False(t, c.Fetch(context.Background()))
	assert.Equal(t, sitedata.ErrNotAuthenticatedMessage, c.Error())
	assert.Zero(t, f.calls.Load())
}

func TestFetch_FailureKeepsMessage(t *testing.T) {
	ctx := context.Background()

	f := &fakeFetcher{err: &api.Error{StatusCode: 500, Message: "Service indisponible"}}
	c, _, _ := newCache(f, true)
	assert.False(t, c.Fetch(ctx))
	assert.Equal(t, "Service indisponible", c.Error())

	f.err = errors.New("timeout")
	assert.False(t, c.Fetch(ctx))
	assert.Equal(t, sitedata.DefaultFetchError, c.Error())
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	f := &fakeFetcher{payload: json.RawMessage(`{"a":1}`)}
	c, _, _ := newCache(f, true)

	require.True(t, c.Fetch(ctx))
	c.Reset()

	assert.Nil(t, c.Data())
	assert.Empty(t, c.Error())
	assert.True(t, c.FetchIfNeeded(ctx), "reset data is fetched again")
	assert.Equal(t, int32(2), f.calls.Load())
}

func TestReset_DuringFetchDiscardsResult(t *testing.T) {
	ctx := context.Background()
	f := &fakeFetcher{payload: json.RawMessage(`{"a":1}`), block: make(chan struct{})}
	c, _, _ := newCache(f, true)

	done := make(chan bool)
	go func() { done <- c.Fetch(ctx) }()
	require.Eventually(t, c.IsLoading, time.Second, 5*time.Millisecond)

	c.Reset()
	assert.True(t, c.IsLoading(), "reset leaves an in-flight fetch alone")

	close(f.block)
	assert.False(t, <-done)
	assert.Nil(t, c.Data())
	assert.False(t, c.IsLoading())
}

type gatedFetcher struct {
	mu    sync.Mutex
	gates []chan struct{}
	calls atomic.Int32
}

func (f *gatedFetcher) GetShareData(context.Context) (json.RawMessage, error) {
	n := f.calls.Add(1)
	gate := f.gate(int(n) - 1)
	<-gate
	return json.RawMessage(fmt.Sprintf(`{"call":%d}`, n)), nil
}

func (f *gatedFetcher) gate(i int) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	for len(f.gates) <= i {
		f.gates = append(f.gates, make(chan struct{}))
	}
	return f.gates[i]
}

func TestReset_StaleFetchKeepsNewerFetchLoading(t *testing.T) {
	ctx := context.Background()
	f := &gatedFetcher{}
	auth := &fakeAuth{}
	auth.ok.Store(true)
	c := sitedata.New(f, auth)

	first := make(chan bool)
	go func() { first <- c.Fetch(ctx) }()
	require.Eventually(t, func() bool { return f.calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	c.Reset()

	second := make(chan bool)
	go func() { second <- c.Fetch(ctx) }()
	require.Eventually(t, func() bool { return f.calls.Load() == 2 }, time.Second, 5*time.Millisecond)

	close(f.gate(0))
	assert.False(t, <-first)
	assert.True(t, c.IsLoading(), "the newer fetch is still running")

	assert.False(t, c.FetchIfNeeded(ctx))
	assert.Equal(t, int32(2), f.calls.Load())

	close(f.gate(1))
	assert.True(t, <-second)
	assert.False(t, c.IsLoading())
	assert.JSONEq(t, `{"call":2}`, string(c.Data()))
}

func TestNested(t *testing.T) {
	ctx := context.Background()
	f := &fakeFetcher{payload: json.RawMessage(`{"site":{"menu":{"items":["a","b"]},"a.b":"dotted"}}`)}
	c, _, _ := newCache(f, true)

	_, ok := c.Nested("site")
	assert.False(t, ok, "nothing before the first fetch")

	require.True(t, c.Fetch(ctx))

	v, ok := c.Nested("site", "menu", "items")
	require.True(t, ok)
	assert.JSONEq(t, `["a","b"]`, string(v))

	v, ok = c.Nested("site", "a.b")
	require.True(t, ok)
	assert.JSONEq(t, `"dotted"`, string(v))

	_, ok = c.Nested("site", "missing")
	assert.False(t, ok)

	v, ok = c.Nested()
	require.True(t, ok)
	assert.JSONEq(t, string(f.payload), string(v))
}
