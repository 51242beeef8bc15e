package source

import (
	"context"
	"fmt"
	"time"

	"github.com/filecoin-project/go-stakeflow/stake"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"
)

var _ Backend = (*CachingBackend)(nil)

// CachingBackend caches the snapshot of each commitment level for a fixed
// time to live. Concurrent misses for the same commitment share one fetch,
// and at most a fixed number of fetches run at a time.
type CachingBackend struct {
	Backend

	cache *expirable.LRU[Commitment, *stake.Snapshot]

	semaphore chan struct{}
	dedup     singleflight.Group
}

// NewCachingBackend wraps backend with a cache whose entries expire after ttl.
// A ttl of zero or less never expires entries.
func NewCachingBackend(backend Backend, concurrency int, ttl time.Duration) *CachingBackend {
	return &CachingBackend{
		Backend:   backend,
		cache:     expirable.NewLRU[Commitment, *stake.Snapshot](len(Commitments), nil, ttl),
		semaphore: make(chan struct{}, max(concurrency, 1)),
	}
}

func (c *CachingBackend) GetStakes(ctx context.Context, commitment Commitment) (*stake.Snapshot, error) {
	if snapshot, ok := c.cache.Get(commitment); ok {
		recordCacheResult(ctx, attrCacheHit)
		log.Debugw("using cached stake snapshot", "commitment", commitment, "participants", snapshot.Len())
		return snapshot, nil
	}
	recordCacheResult(ctx, attrCacheMiss)

	ch := c.dedup.DoChan(string(commitment),
		// Detach from the caller's cancellation; another caller may be waiting on the same fetch.
		func() (any, error) { return c.fetch(context.WithoutCancel(ctx), commitment) })

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, fmt.Errorf("getting stakes at %s: %w", commitment, res.Err)
		}
		return res.Val.(*stake.Snapshot), nil
	}
}

// Invalidate drops every cached snapshot, forcing the next call per
// commitment to fetch.
func (c *CachingBackend) Invalidate() {
	c.cache.Purge()
}

func (c *CachingBackend) fetch(ctx context.Context, commitment Commitment) (*stake.Snapshot, error) {
	// A previous flight may have completed since the caller missed the cache.
	if snapshot, ok := c.cache.Get(commitment); ok {
		return snapshot, nil
	}

	c.semaphore <- struct{}{}
	defer func() { <-c.semaphore }()

	snapshot, err := c.Backend.GetStakes(ctx, commitment)
	if err != nil {
		return nil, err
	}
	c.cache.Add(commitment, snapshot)
	return snapshot, nil
}
