package storage_test

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tcofront/internal/front/adapters/storage"
	"tcofront/internal/front/config"
	ports "tcofront/internal/front/ports/storage"
)

const testPrefix = "tco:test:"

func mockRedisServer(t *testing.T) (*miniredis.Miniredis, *config.RedisConfig) {
	t.Helper()

	s, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(s.Close)

	host, portStr, _ := strings.Cut(s.Addr(), ":")
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	return s, &config.RedisConfig{
		Host:           host,
		Port:           port,
		ConnectTimeout: time.Second,
		ReadTimeout:    time.Second,
		WriteTimeout:   time.Second,
		PoolSize:       2,
	}
}

func newRedisStore(t *testing.T) (*miniredis.Miniredis, *storage.RedisStore) {
	t.Helper()

	srv, cfg := mockRedisServer(t)
	s, err := storage.NewRedisStore(context.Background(), cfg, testPrefix)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return srv, s
}

func TestNewRedisStore_ConnectionFailure(t *testing.T) {
	cfg := &config.RedisConfig{
		Host:           "127.0.0.1",
		Port:           1,
		ConnectTimeout: 100 * time.Millisecond,
		ReadTimeout:    100 * time.Millisecond,
		WriteTimeout:   100 * time.Millisecond,
	}

	s, err := storage.NewRedisStore(context.Background(), cfg, testPrefix)

	require.Error(t, err)
	assert.Nil(t, s)
	assert.Contains(t, err.Error(), storage.ErrorFailedToConnect)
}

func TestRedisStore_GetSetDelete(t *testing.T) {
	ctx := context.Background()
	srv, s := newRedisStore(t)

	_, ok, err := s.Get(ctx, "token")
	require.NoError(t, err)
	assert.False(t, ok, "missing key should not be reported as present")

	require.NoError(t, s.Set(ctx, "token", "access"))

	raw, err := srv.Get(testPrefix + "token")
	require.NoError(t, err)
	assert.Equal(t, "access", raw, "key should be namespaced by prefix")
	assert.Zero(t, srv.TTL(testPrefix+"token"), "credentials must not expire")

	v, ok, err := s.Get(ctx, "token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "access", v)

	require.NoError(t, s.Delete(ctx, "token"))
	assert.False(t, srv.Exists(testPrefix+"token"))
	require.NoError(t, s.Delete(ctx))
}

func TestRedisStore_Apply(t *testing.T) {
	ctx := context.Background()
	srv, s := newRedisStore(t)

	require.NoError(t, srv.Set(testPrefix+"tokenInfo", "{}"))

	err := s.Apply(ctx, ports.Batch{
		Set: map[string]string{
			"token":                "a1",
			"refreshToken":         "r1",
			"isAutoConnectSession": "false",
		},
		Delete: []string{"tokenInfo"},
	})
	require.NoError(t, err)

	srv.CheckGet(t, testPrefix+"token", "a1")
	srv.CheckGet(t, testPrefix+"refreshToken", "r1")
	srv.CheckGet(t, testPrefix+"isAutoConnectSession", "false")
	assert.False(t, srv.Exists(testPrefix+"tokenInfo"))

	assert.NoError(t, s.Apply(ctx, ports.Batch{}), "empty batch is a no-op")
}

func TestRedisStore_ServerDown(t *testing.T) {
	ctx := context.Background()
	srv, s := newRedisStore(t)
	srv.Close()

	_, _, err := s.Get(ctx, "token")
	require.Error(t, err)
	assert.Contains(t, err.Error(), storage.ErrorFailedToGet)

	err = s.Apply(ctx, ports.Batch{Set: map[string]string{"token": "x"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), storage.ErrorFailedToApply)
}
