package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/trendwatch/pkg/config"
)

func disabledClient(t *testing.T) *Client {
	t.Helper()
	cfg := &config.Config{
		Redis: config.RedisConfig{
			Enabled: false,
		},
	}

	client, err := New(cfg)
	require.NoError(t, err)
	return client
}

func TestNewClient_Disabled(t *testing.T) {
	client := disabledClient(t)

	assert.False(t, client.Enabled())
	assert.Nil(t, client.Redis())
	assert.NoError(t, client.Ping(context.Background()))
	assert.NoError(t, client.Close())
}

func TestNewClient_Unreachable(t *testing.T) {
	cfg := &config.Config{
		Redis: config.RedisConfig{
			Host:    "127.0.0.1",
			Port:    "1",
			Enabled: true,
		},
	}

	client, err := New(cfg)
	require.Error(t, err)
	assert.Nil(t, client)
	assert.Contains(t, err.Error(), "redis connection failed")
}

func TestCache_Disabled(t *testing.T) {
	cache := NewCache(disabledClient(t), "test")
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "key", "value", time.Minute))

	var result string
	found, err := cache.Get(ctx, "key", &result)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, result)

	assert.NoError(t, cache.Delete(ctx, "key"))
}

func TestCacheKeys(t *testing.T) {
	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{"QuoteKey", QuoteKey("0050.TW"), "quote:0050.TW"},
		{"fullKey", NewCache(&Client{}, "trendwatch").fullKey(QuoteKey("2330.TW")), "trendwatch:cache:quote:2330.TW"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.got)
		})
	}
}
