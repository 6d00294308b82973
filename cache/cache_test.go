package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisCache(client, WithTTL(time.Minute)), mr
}

type entry struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

func TestRedisCache_RoundTrip(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Ping(ctx))

	var got []entry
	found, err := c.GetJSON(ctx, "ruraldraft:search:x", &got)
	require.NoError(t, err)
	assert.False(t, found)

	want := []entry{{Title: "TNU", Snippet: "segurada especial"}}
	require.NoError(t, c.SetJSON(ctx, "ruraldraft:search:x", want))
	assert.Equal(t, time.Minute, mr.TTL("ruraldraft:search:x"))

	found, err = c.GetJSON(ctx, "ruraldraft:search:x", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, want, got)

	mr.FastForward(2 * time.Minute)
	found, err = c.GetJSON(ctx, "ruraldraft:search:x", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisCache_DecodeError(t *testing.T) {
	c, mr := newTestCache(t)
	require.NoError(t, mr.Set("ruraldraft:knowledge:a", "not json"))

	var got []entry
	found, err := c.GetJSON(context.Background(), "ruraldraft:knowledge:a", &got)
	assert.Error(t, err)
	assert.False(t, found)
}

func TestRedisCache_Delete(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.SetJSON(ctx, "k1", 1))
	require.NoError(t, c.Delete(ctx, "k1"))
	assert.False(t, mr.Exists("k1"))
	require.NoError(t, c.Delete(ctx))
}

func TestRedisCache_ServerDown(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	c := NewRedisCache(client)
	mr.Close()

	var v int
	_, err = c.GetJSON(context.Background(), "k", &v)
	assert.Error(t, err)
}

func TestKey(t *testing.T) {
	assert.Equal(t, Key("knowledge", "rural", "Salario"), Key("knowledge", "salario", " RURAL "))
	assert.Equal(t, "ruraldraft:knowledge:maternidade|rural", Key("knowledge", "rural", "", "maternidade"))
	assert.Equal(t, "knowledge", namespace(Key("knowledge", "a")))
	assert.Equal(t, "other", namespace("foo"))
}

func TestNop(t *testing.T) {
	var c Cache = Nop{}
	found, err := c.GetJSON(context.Background(), "k", new(int))
	assert.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, c.SetJSON(context.Background(), "k", 1))
}

func TestNewRedisClient(t *testing.T) {
	client, err := NewRedisClient("redis://localhost:6379/2")
	require.NoError(t, err)
	assert.Equal(t, 2, client.Options().DB)
	_ = client.Close()

	_, err = NewRedisClient("http://nope")
	assert.Error(t, err)
}
