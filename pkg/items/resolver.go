// Package items resolves legacy SKU text to internal ids through a per-run
// memo, the shared Redis cache, and finally the item dictionary table.
package items

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/fern/internal/repositories/item"
	"github.com/Ramsey-B/fern/pkg/redis"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

const cacheKeyPrefix = "fern:item:sku:"

// notFoundSentinel marks a confirmed miss in the memo so repeated unknown
// SKUs in one run hit the database once.
var notFoundSentinel = int64(-1)

// Repository is the database tier of the chain.
type Repository interface {
	GetBySKU(ctx context.Context, sku string) (*item.Item, error)
}

// Resolver is a per-run SKU resolver. Construct one per ingest run so the
// memo does not leak across runs; the Redis tier is shared and TTL-bound.
type Resolver struct {
	mu     sync.Mutex
	memo   map[string]int64
	cache  *redis.Client
	ttl    time.Duration
	repo   Repository
	logger ectologger.Logger
}

// NewResolver builds a resolver. cache may be nil to skip the Redis tier.
func NewResolver(cache *redis.Client, ttl time.Duration, repo Repository, logger ectologger.Logger) *Resolver {
	return &Resolver{
		memo:   make(map[string]int64),
		cache:  cache,
		ttl:    ttl,
		repo:   repo,
		logger: logger,
	}
}

// ResolveSKU returns the internal id for a SKU, or nil when the SKU is
// unknown. Cache failures degrade to the database rather than failing the
// lookup.
func (r *Resolver) ResolveSKU(ctx context.Context, sku string) (*int64, error) {
	ctx, span := tracing.StartSpan(ctx, "items.Resolver.ResolveSKU")
	defer span.End()

	key := strings.ToLower(strings.TrimSpace(sku))
	if key == "" {
		return nil, nil
	}

	r.mu.Lock()
	memoized, ok := r.memo[key]
	r.mu.Unlock()
	if ok {
		if memoized == notFoundSentinel {
			return nil, nil
		}
		return &memoized, nil
	}

	if id, ok := r.fromCache(ctx, key); ok {
		r.remember(key, id)
		return &id, nil
	}

	found, err := r.repo.GetBySKU(ctx, key)
	if err != nil {
		return nil, err
	}
	if found == nil {
		r.remember(key, notFoundSentinel)
		return nil, nil
	}

	r.remember(key, found.InternalID)
	r.toCache(ctx, key, found.InternalID)

	return &found.InternalID, nil
}

func (r *Resolver) remember(key string, id int64) {
	r.mu.Lock()
	r.memo[key] = id
	r.mu.Unlock()
}

func (r *Resolver) fromCache(ctx context.Context, key string) (int64, bool) {
	if r.cache == nil {
		return 0, false
	}

	value, err := r.cache.Get(ctx, cacheKeyPrefix+key)
	if err != nil {
		if !redis.IsNil(err) {
			r.logger.WithContext(ctx).WithError(err).WithField("sku", key).Warn("item cache read failed")
		}
		return 0, false
	}

	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithField("sku", key).Warn("item cache holds a non-numeric id, ignoring")
		return 0, false
	}
	return id, true
}

func (r *Resolver) toCache(ctx context.Context, key string, id int64) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Set(ctx, cacheKeyPrefix+key, strconv.FormatInt(id, 10), r.ttl); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithField("sku", key).Warn("item cache write failed")
	}
}
