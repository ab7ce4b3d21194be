package resilience_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tcofront/internal/front/resilience"
)

var errTransport = errors.New("connection refused")

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func newBreaker(clock *fakeClock, transitions *[]string) *resilience.CircuitBreaker {
	return resilience.NewCircuitBreaker("test", resilience.CircuitBreakerConfig{
		ErrorThreshold:   2,
		Timeout:          time.Second,
		SuccessThreshold: 1,
		Now:              clock.Now,
		OnStateChange: func(_, to resilience.CircuitState) {
			*transitions = append(*transitions, to.String())
		},
	})
}

func TestCircuitBreaker_TripAndRecover(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Unix(0, 0)}
	var transitions []string
	cb := newBreaker(clock, &transitions)

	failing := func() error { return errTransport }
	calls := 0
	ok := func() error { calls++; return nil }

	assert.ErrorIs(t, cb.Execute(ctx, failing), errTransport)
	assert.Equal(t, resilience.StateClosed, cb.GetState())
	assert.ErrorIs(t, cb.Execute(ctx, failing), errTransport)
	assert.Equal(t, resilience.StateOpen, cb.GetState())

	err := cb.Execute(ctx, ok)
	require.ErrorIs(t, err, resilience.ErrCircuitOpen)
	assert.Zero(t, calls, "open breaker must not call through")

	clock.now = clock.now.Add(2 * time.Second)
	require.NoError(t, cb.Execute(ctx, ok))
	assert.Equal(t, 1, calls)
	assert.Equal(t, resilience.StateClosed, cb.GetState())

	assert.Equal(t, []string{"open", "half_open", "closed"}, transitions)
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Unix(0, 0)}
	var transitions []string
	cb := newBreaker(clock, &transitions)

	for range 2 {
		_ = cb.Execute(ctx, func() error { return errTransport })
	}
	clock.now = clock.now.Add(2 * time.Second)
	_ = cb.Execute(ctx, func() error { return errTransport })

	assert.Equal(t, resilience.StateOpen, cb.GetState())
	assert.Equal(t, []string{"open", "half_open", "open"}, transitions)
}

func TestCircuitBreaker_IgnoresClassifiedErrors(t *testing.T) {
	ctx := context.Background()
	errForbidden := errors.New("403")
	cb := resilience.NewCircuitBreaker("test", resilience.CircuitBreakerConfig{
		ErrorThreshold: 1,
		Timeout:        time.Minute,
		IsFailure: func(err error) bool {
			return err != nil && !errors.Is(err, errForbidden)
		},
	})

	for range 5 {
		assert.ErrorIs(t, cb.Execute(ctx, func() error { return errForbidden }), errForbidden)
	}
	assert.Equal(t, resilience.StateClosed, cb.GetState())
}
