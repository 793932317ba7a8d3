package dedup

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Deduper is a SetNX guard against the same work item being processed twice
// by concurrent sweepers.
type Deduper struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewDeduper(rdb *redis.Client, ttl time.Duration) *Deduper {
	return &Deduper{rdb: rdb, ttl: ttl}
}

// AcquireOnce returns true when this is the first time the (scope, id) pair
// is processed. Fails open: if redis is unreachable, processing proceeds and
// the storage-level uniqueness constraint is the backstop.
func (d *Deduper) AcquireOnce(ctx context.Context, scope string, id int64) bool {
	key := fmt.Sprintf("dedup:%s:%d", scope, id)

	ok, err := d.rdb.SetNX(ctx, key, 1, d.ttl).Result()
	if err != nil {
		return true
	}
	return ok
}
