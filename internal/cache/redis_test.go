package cache

import (
	"context"
	"testing"

	"blog/internal/middleware"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitRedis_Connects(t *testing.T) {
	mr := miniredis.RunT(t)
	t.Cleanup(func() { _ = Close() })

	InitRedis(mr.Addr())
	require.NotNil(t, GetClient())
	assert.NoError(t, GetClient().Set(context.Background(), "k", "v", 0).Err())
	got, err := mr.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

func TestInitRedis_URL(t *testing.T) {
	mr := miniredis.RunT(t)
	t.Cleanup(func() { _ = Close() })

	InitRedis("redis://" + mr.Addr() + "/0")
	assert.NotNil(t, GetClient())
}

func TestInitRedis_InvalidURL(t *testing.T) {
	InitRedis("redis://:bad url")
	assert.Nil(t, GetClient())
}

func TestInitRedis_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	InitRedis(addr)
	assert.Nil(t, GetClient())
}

func TestMetricsHook_CountsFailures(t *testing.T) {
	mr := miniredis.RunT(t)
	c, err := NewClient(mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	mr.SetError("boom")
	before := testutil.ToFloat64(middleware.RedisErrors.WithLabelValues("get"))
	_ = c.Get(context.Background(), "missing").Err()
	after := testutil.ToFloat64(middleware.RedisErrors.WithLabelValues("get"))
	assert.Equal(t, before+1, after)
}
