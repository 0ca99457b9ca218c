package integration

import (
	"context"
	"testing"
	"time"

	redisprogress "github.com/digitalprobr/supoclip/internal/infra/redis"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"go.uber.org/zap"
)

func setupRedis(t *testing.T, ctx context.Context) *goredis.Client {
	t.Helper()

	redisContainer, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { redisContainer.Terminate(context.Background()) })

	connStr, err := redisContainer.ConnectionString(ctx)
	require.NoError(t, err)

	opts, err := goredis.ParseURL(connStr)
	require.NoError(t, err)

	client := goredis.NewClient(opts)
	t.Cleanup(func() { client.Close() })
	require.NoError(t, client.Ping(ctx).Err())

	return client
}

func TestProgressStoreLastWriteWins(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	client := setupRedis(t, ctx)
	store := redisprogress.NewStore(client, zap.NewNop())

	require.NoError(t, store.Update(ctx, "task-1", 10, "Downloading video..."))
	require.NoError(t, store.Update(ctx, "task-1", 30, "Generating transcript..."))

	snap, err := store.Get(ctx, "task-1")
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, "task-1", snap.TaskID)
	assert.Equal(t, 30, snap.Progress)
	assert.Equal(t, "Generating transcript...", snap.Message)
	assert.Equal(t, "processing", string(snap.Status))

	// Each write resets the hour-long retention window.
	ttl, err := client.TTL(ctx, "progress:task-1").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 3500*time.Second)
	assert.LessOrEqual(t, ttl, 3600*time.Second)
}

func TestProgressStoreIsolatesTasks(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	client := setupRedis(t, ctx)
	store := redisprogress.NewStore(client, zap.NewNop())

	require.NoError(t, store.Update(ctx, "task-a", 10, "a"))
	require.NoError(t, store.Complete(ctx, "task-b", "done"))

	a, err := store.Get(ctx, "task-a")
	require.NoError(t, err)
	assert.Equal(t, 10, a.Progress)

	b, err := store.Get(ctx, "task-b")
	require.NoError(t, err)
	assert.Equal(t, 100, b.Progress)
	assert.Equal(t, "completed", string(b.Status))
}

func TestProgressGetAbsent(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	client := setupRedis(t, ctx)
	store := redisprogress.NewStore(client, zap.NewNop())

	snap, err := store.Get(ctx, "never-written")
	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestSubscriptionReceivesLiveUpdates(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	client := setupRedis(t, ctx)
	store := redisprogress.NewStore(client, zap.NewNop())

	// A snapshot written before subscribing must not be replayed.
	require.NoError(t, store.Update(ctx, "task-live", 10, "before subscribe"))

	sub, err := store.Subscribe(ctx, "task-live")
	require.NoError(t, err)
	defer sub.Close()

	require.NoError(t, store.Update(ctx, "task-live", 30, "Generating transcript..."))
	require.NoError(t, store.Complete(ctx, "task-live", "Processing complete!"))

	var got []int
	for snap := range sub.Updates() {
		got = append(got, snap.Progress)
		if snap.Status == "completed" {
			break
		}
	}
	assert.Equal(t, []int{30, 100}, got)
}

func TestSubscriptionCloseStopsDelivery(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	client := setupRedis(t, ctx)
	store := redisprogress.NewStore(client, zap.NewNop())

	sub, err := store.Subscribe(ctx, "task-close")
	require.NoError(t, err)

	require.NoError(t, store.Update(ctx, "task-close", 10, "one"))

	snap, ok := <-sub.Updates()
	require.True(t, ok)
	assert.Equal(t, 10, snap.Progress)

	require.NoError(t, sub.Close())
	assert.NoError(t, sub.Close(), "close is idempotent")

	// Updates published after close never reach this consumer; the feed
	// channel drains and closes.
	require.NoError(t, store.Update(ctx, "task-close", 30, "two"))

	deadline := time.After(5 * time.Second)
	for {
		select {
		case snap, ok := <-sub.Updates():
			if !ok {
				return
			}
			assert.Equal(t, 10, snap.Progress, "no snapshot published after close may arrive")
		case <-deadline:
			t.Fatal("updates channel did not close after Close")
		}
	}
}

func TestSubscriptionClosesOnContextCancel(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	client := setupRedis(t, ctx)
	store := redisprogress.NewStore(client, zap.NewNop())

	subCtx, subCancel := context.WithCancel(ctx)
	sub, err := store.Subscribe(subCtx, "task-ctx")
	require.NoError(t, err)

	subCancel()

	select {
	case _, ok := <-sub.Updates():
		assert.False(t, ok, "updates channel closes when the context is cancelled")
	case <-time.After(5 * time.Second):
		t.Fatal("updates channel did not close after context cancellation")
	}
}
