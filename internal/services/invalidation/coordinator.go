package invalidation

import (
	"context"
	"log/slog"
)

const pkg = "invalidationCoordinator/"

type SearchCacheInvalidator interface {
	InvalidateAll(ctx context.Context) error
}

// Coordinator flushes the search cache after catalog writes. It must only
// be invoked once the store write has been acknowledged; invalidating first
// would let a concurrent search repopulate the cache with a stale result
// set the sweep can no longer reach.
type Coordinator struct {
	log   *slog.Logger
	cache SearchCacheInvalidator
}

func New(log *slog.Logger, cache SearchCacheInvalidator) *Coordinator {
	return &Coordinator{
		log:   log,
		cache: cache,
	}
}

// DocumentPublished sweeps every cached search result set. A failed sweep
// is reported but never surfaced: the caller's publish already succeeded,
// and stale entries are bounded by the cache TTL.
func (c *Coordinator) DocumentPublished(ctx context.Context) {
	op := pkg + "DocumentPublished"

	log := c.log.With(slog.String("op", op))

	if err := c.cache.InvalidateAll(ctx); err != nil {
		log.Warn("failed to invalidate search cache", slog.String("error", err.Error()))
		return
	}

	log.Debug("search cache invalidated")
}
