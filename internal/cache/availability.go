package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	availabilityPrefix = "availability"
	generationPrefix   = "availability:gen"

	// generation keys outlive any cached entry that references them.
	generationTTL = 48 * time.Hour
)

// Key identifies one availability answer.
type Key struct {
	CompanyID uint
	ServiceID uint
	Date      string
	WorkerID  *uint
}

// Availability is a read-through cache for computed slot lists. Entries are
// namespaced by a per (company, date) generation counter, so one INCR drops
// every cached answer for that day without scanning keys.
type Availability struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewAvailability(rdb *redis.Client, ttl time.Duration) *Availability {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Availability{rdb: rdb, ttl: ttl}
}

func generationKey(companyID uint, date string) string {
	return fmt.Sprintf("%s:%d:%s", generationPrefix, companyID, date)
}

func entryKey(k Key, generation int64) string {
	worker := "any"
	if k.WorkerID != nil {
		worker = fmt.Sprintf("%d", *k.WorkerID)
	}
	return fmt.Sprintf("%s:%d:%s:%d:%d:%s",
		availabilityPrefix, k.CompanyID, k.Date, generation, k.ServiceID, worker)
}

func (c *Availability) generation(ctx context.Context, companyID uint, date string) (int64, error) {
	n, err := c.rdb.Get(ctx, generationKey(companyID, date)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}

// Get returns the cached payload; found is false on a miss.
func (c *Availability) Get(ctx context.Context, k Key) ([]byte, bool, error) {
	gen, err := c.generation(ctx, k.CompanyID, k.Date)
	if err != nil {
		return nil, false, err
	}

	b, err := c.rdb.Get(ctx, entryKey(k, gen)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (c *Availability) Set(ctx context.Context, k Key, payload []byte) error {
	gen, err := c.generation(ctx, k.CompanyID, k.Date)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, entryKey(k, gen), payload, c.ttl).Err()
}

// Invalidate bumps the (company, date) generation. Called after every write
// that changes the day's occupancy.
func (c *Availability) Invalidate(ctx context.Context, companyID uint, date string) error {
	key := generationKey(companyID, date)
	pipe := c.rdb.TxPipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, generationTTL)
	_, err := pipe.Exec(ctx)
	return err
}
