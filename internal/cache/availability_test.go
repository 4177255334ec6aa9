package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*Availability, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewAvailability(rdb, time.Minute), mr
}

func TestAvailability_MissThenHit(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	k := Key{CompanyID: 1, ServiceID: 2, Date: "2026-03-02"}

	_, found, err := c.Get(ctx, k)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.Set(ctx, k, []byte(`{"slots":[]}`)))

	got, found, err := c.Get(ctx, k)
	require.NoError(t, err)
	assert.True(t, found)
	assert.JSONEq(t, `{"slots":[]}`, string(got))
}

func TestAvailability_WorkerScopedKeys(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	w := uint(9)

	require.NoError(t, c.Set(ctx, Key{CompanyID: 1, ServiceID: 2, Date: "2026-03-02"}, []byte("any")))

	_, found, err := c.Get(ctx, Key{CompanyID: 1, ServiceID: 2, Date: "2026-03-02", WorkerID: &w})
	require.NoError(t, err)
	assert.False(t, found)
}

func TestAvailability_InvalidateDropsOnlyThatDay(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	monday := Key{CompanyID: 1, ServiceID: 2, Date: "2026-03-02"}
	tuesday := Key{CompanyID: 1, ServiceID: 2, Date: "2026-03-03"}

	require.NoError(t, c.Set(ctx, monday, []byte("mon")))
	require.NoError(t, c.Set(ctx, tuesday, []byte("tue")))

	require.NoError(t, c.Invalidate(ctx, 1, "2026-03-02"))

	_, found, err := c.Get(ctx, monday)
	require.NoError(t, err)
	assert.False(t, found)

	got, found, err := c.Get(ctx, tuesday)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "tue", string(got))
}

func TestAvailability_EntriesExpire(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	k := Key{CompanyID: 1, ServiceID: 2, Date: "2026-03-02"}

	require.NoError(t, c.Set(ctx, k, []byte("x")))
	mr.FastForward(2 * time.Minute)

	_, found, err := c.Get(ctx, k)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestAvailability_RedisDown(t *testing.T) {
	c, mr := newTestCache(t)
	mr.Close()

	_, _, err := c.Get(context.Background(), Key{CompanyID: 1, ServiceID: 2, Date: "2026-03-02"})
	assert.Error(t, err)
}
