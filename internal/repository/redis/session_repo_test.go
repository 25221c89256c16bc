package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func startRedis(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("redis integration test skipped in -short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := tcredis.Run(ctx, "redis:7-alpine")
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err)

	addr, err := container.Endpoint(ctx, "")
	require.NoError(t, err)
	return addr
}

func TestSessionRepository(t *testing.T) {
	addr := startRedis(t)
	ctx := context.Background()

	client, err := Init(ctx, addr, "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	repo := NewSessionRepository(client, time.Minute, time.Hour)

	_, err = repo.Get(ctx, 1)
	assert.ErrorIs(t, err, ErrTokenNotFound)
	_, err = repo.RefreshID(ctx, 1)
	assert.ErrorIs(t, err, ErrTokenNotFound)
	assert.ErrorIs(t, repo.Touch(ctx, 1), ErrTokenNotFound)

	require.NoError(t, repo.Save(ctx, 1, "first", "r1"))
	require.NoError(t, repo.Save(ctx, 1, "second", "r2"))
	tok, err := repo.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "second", tok)
	rid, err := repo.RefreshID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "r2", rid)
	refreshTTL, err := client.TTL(ctx, repo.refreshKey(1)).Result()
	require.NoError(t, err)
	assert.Greater(t, refreshTTL, 30*time.Minute)

	require.NoError(t, client.Expire(ctx, repo.key(1), 5*time.Second).Err())
	require.NoError(t, repo.Touch(ctx, 1))
	ttl, err := client.TTL(ctx, repo.key(1)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 30*time.Second)

	require.NoError(t, repo.Delete(ctx, 1))
	_, err = repo.Get(ctx, 1)
	assert.ErrorIs(t, err, ErrTokenNotFound)
	_, err = repo.RefreshID(ctx, 1)
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestInit_Unreachable(t *testing.T) {
	_, err := Init(context.Background(), "127.0.0.1:1", "", 0)
	assert.Error(t, err)
}

func TestSessionRepository_Key(t *testing.T) {
	repo := NewSessionRepository(nil, time.Minute, time.Hour)
	assert.Equal(t, "login:user:token:42", repo.key(42))
	assert.Equal(t, "login:user:refresh:42", repo.refreshKey(42))
}
