package favoritestore_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inft_dashboard/internal/app/port"
	"inft_dashboard/internal/infrastructure/configloader"
	"inft_dashboard/internal/infrastructure/favoritestore"
	"inft_dashboard/internal/pkg/logger"
)

// exerciseStore runs the behaviour shared by every backend.
func exerciseStore(t *testing.T, store port.FavoritesStore, owner string) {
	t.Helper()
	ctx := context.Background()

	ids, err := store.Load(ctx, owner)
	require.NoError(t, err)
	assert.NotNil(t, ids)
	assert.Empty(t, ids)

	require.NoError(t, store.Save(ctx, owner, []string{"0x1", "0x2"}))
	ids, err = store.Load(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, []string{"0x1", "0x2"}, ids)

	require.NoError(t, store.Save(ctx, owner, []string{"0x2"}))
	ids, err = store.Load(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, []string{"0x2"}, ids)

	other, err := store.Load(ctx, owner+"ff")
	require.NoError(t, err)
	assert.Empty(t, other)

	require.NoError(t, store.Save(ctx, owner, nil))
	ids, err = store.Load(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, favoritestore.NewMemoryStore(), "0xabc")
}

func TestMemoryStore_CopiesSlices(t *testing.T) {
	store := favoritestore.NewMemoryStore()
	ctx := context.Background()
	saved := []string{"0x1"}
	require.NoError(t, store.Save(ctx, "0xabc", saved))
	saved[0] = "0xchanged"

	ids, err := store.Load(ctx, "0xabc")
	require.NoError(t, err)
	ids[0] = "0xmutated"

	again, err := store.Load(ctx, "0xabc")
	require.NoError(t, err)
	assert.Equal(t, []string{"0x1"}, again)
}

func TestMemoryStore_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := favoritestore.NewMemoryStore().Load(ctx, "0xabc")
	assert.ErrorIs(t, err, context.Canceled)
}

// TestRedisStore needs a reachable Redis, e.g. REDIS_ADDR=localhost:6379.
func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	store, err := favoritestore.NewRedisStore(configloader.RedisConfig{
		Addr:      addr,
		Password:  os.Getenv("REDIS_PASSWORD"),
		KeyPrefix: fmt.Sprintf("inft:test:%d:", time.Now().UnixNano()),
	}, logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	exerciseStore(t, store, "0xabc")
}

func TestNewRedisStore_Unreachable(t *testing.T) {
	_, err := favoritestore.NewRedisStore(configloader.RedisConfig{
		Addr:               "127.0.0.1:1",
		DialTimeoutSeconds: 1,
	}, logger.NewNop())
	assert.Error(t, err)

	_, err = favoritestore.NewRedisStore(configloader.RedisConfig{}, logger.NewNop())
	assert.Error(t, err)
}
