package utils

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedItem struct {
	Title string `json:"title"`
}

func TestCache_NilClientIsNoop(t *testing.T) {
	ctx := context.Background()
	c := NewCache(nil)
	c.SetJSON(ctx, "k", cachedItem{Title: "x"}, time.Minute)

	var got cachedItem
	assert.False(t, c.GetJSON(ctx, "k", &got))
	c.InvalidateByPrefix(ctx, "k")
	c.Bump(ctx, "gen")

	_, ok := c.Generation(ctx, "gen")
	assert.False(t, ok)
}

func TestCache_Generation(t *testing.T) {
	ctx := context.Background()
	_, rc := newMiniRedis(t)
	c := NewCache(rc)

	gen, ok := c.Generation(ctx, "cache:posts:gen")
	require.True(t, ok)
	assert.Equal(t, int64(0), gen)

	c.Bump(ctx, "cache:posts:gen")
	c.Bump(ctx, "cache:posts:gen")
	gen, ok = c.Generation(ctx, "cache:posts:gen")
	require.True(t, ok)
	assert.Equal(t, int64(2), gen)
}

func TestCache_SetGetInvalidate(t *testing.T) {
	ctx := context.Background()
	mr, rc := newMiniRedis(t)
	c := NewCache(rc)

	c.SetJSON(ctx, "cache:posts:list", []cachedItem{{Title: "Hello"}}, 0)
	c.SetJSON(ctx, "cache:posts:other", cachedItem{Title: "x"}, time.Minute)
	c.SetJSON(ctx, "cache:users:1", cachedItem{Title: "y"}, time.Minute)

	var got []cachedItem
	require.True(t, c.GetJSON(ctx, "cache:posts:list", &got))
	assert.Equal(t, []cachedItem{{Title: "Hello"}}, got)
	assert.Equal(t, time.Hour, mr.TTL("cache:posts:list"))

	c.InvalidateByPrefix(ctx, "cache:posts:")
	assert.False(t, mr.Exists("cache:posts:list"))
	assert.False(t, mr.Exists("cache:posts:other"))
	assert.True(t, mr.Exists("cache:users:1"))
}

func TestCache_CorruptEntryMisses(t *testing.T) {
	ctx := context.Background()
	mr, rc := newMiniRedis(t)
	require.NoError(t, mr.Set("k", "{not json"))

	var got cachedItem
	assert.False(t, NewCache(rc).GetJSON(ctx, "k", &got))
}
