package cache

import (
	"context"
	"strconv"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academy-api/pkg/config"
)

func redisConfig(t *testing.T, srv *miniredis.Miniredis) config.RedisConfig {
	t.Helper()
	port, err := strconv.Atoi(srv.Port())
	require.NoError(t, err)
	return config.RedisConfig{Host: srv.Host(), Port: port}
}

func TestNewRedisPingsServer(t *testing.T) {
	srv := miniredis.RunT(t)

	client, err := NewRedis(redisConfig(t, srv))
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.Set(context.Background(), "k", "v", 0).Err())
	srv.CheckGet(t, "k", "v")
}

func TestNewRedisFailsWhenUnreachable(t *testing.T) {
	srv := miniredis.RunT(t)
	cfg := redisConfig(t, srv)
	srv.Close()

	_, err := NewRedis(cfg)
	require.Error(t, err)
}
