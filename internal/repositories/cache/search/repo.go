package cachesearchrepo

import (
	"context"
	cacherepo "pdfcatalog/internal/repositories/cache"
	"time"
)

// keyPattern covers every key produced by models.SearchQuery.CacheKey.
const keyPattern = "search:*"

type repository struct {
	cache     cacherepo.Cache
	searchTTL time.Duration
}

func New(cache cacherepo.Cache, searchTTL time.Duration) *repository {
	return &repository{
		cache:     cache,
		searchTTL: searchTTL,
	}
}

func (r *repository) Get(ctx context.Context, key string) (string, error) {
	resultsJSON, err := r.cache.Get(ctx, key).Result()
	if err != nil {
		return "", err
	}

	return resultsJSON, nil
}

func (r *repository) Set(ctx context.Context, key string, value interface{}) error {
	return r.cache.Set(ctx, key, value, r.searchTTL).Err()
}

// InvalidateAll drops every cached search result set. There is no per-key
// variant: a new document can match any cached filter combination, so the
// whole namespace is swept.
func (r *repository) InvalidateAll(ctx context.Context) error {
	keys, err := r.cache.Keys(ctx, keyPattern).Result()
	if err != nil {
		return err
	}

	if len(keys) == 0 {
		return nil
	}

	return r.cache.Del(ctx, keys...).Err()
}
