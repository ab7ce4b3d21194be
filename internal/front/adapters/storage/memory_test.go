package storage_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tcofront/internal/front/adapters/storage"
	ports "tcofront/internal/front/ports/storage"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := storage.NewMemoryStore()

	_, ok, err := s.Get(ctx, "token")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "token", "abc"))
	v, ok, err := s.Get(ctx, "token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "abc", v)

	require.NoError(t, s.Apply(ctx, ports.Batch{
		Set:    map[string]string{"refreshToken": "r1"},
		Delete: []string{"token"},
	}))
	assert.Equal(t, map[string]string{"refreshToken": "r1"}, s.Snapshot())

	require.NoError(t, s.Delete(ctx, "refreshToken", "missing"))
	assert.Empty(t, s.Snapshot())
	assert.NoError(t, s.Close())
}
