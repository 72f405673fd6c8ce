package services

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"foodorder_server/structs/tables"

	"github.com/MonkyMars/gecho"
)

// KeyValueCache is the slice of the redis cache the catalogue needs.
type KeyValueCache interface {
	Key(parts ...string) string
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

// CatalogCache serves restaurant listings and menus from redis for ttl before
// going back to the store. Everything else passes straight through. Cache
// failures are logged and fall back to the store.
type CatalogCache struct {
	Store
	logger *gecho.Logger
	cache  KeyValueCache
	ttl    time.Duration
}

func NewCatalogCache(logger *gecho.Logger, store Store, cache KeyValueCache, ttl time.Duration) *CatalogCache {
	return &CatalogCache{
		Store:  store,
		logger: logger,
		cache:  cache,
		ttl:    ttl,
	}
}

func (cc *CatalogCache) ListRestaurants(ctx context.Context) ([]tables.Restaurant, error) {
	return cachedList(ctx, cc, cc.cache.Key("catalog", "restaurants"), cc.Store.ListRestaurants)
}

func (cc *CatalogCache) ListMenuItems(ctx context.Context, restaurantID int64) ([]tables.MenuItem, error) {
	key := cc.cache.Key("catalog", "menu", strconv.FormatInt(restaurantID, 10))
	return cachedList(ctx, cc, key, func(ctx context.Context) ([]tables.MenuItem, error) {
		return cc.Store.ListMenuItems(ctx, restaurantID)
	})
}

func cachedList[T any](ctx context.Context, cc *CatalogCache, key string, load func(context.Context) ([]T, error)) ([]T, error) {
	startTime := time.Now()

	raw, err := cc.cache.Get(ctx, key)
	if err != nil {
		cc.logger.Warn("Failed to read catalogue from cache", gecho.Field("error", err), gecho.Field("key", key))
	} else if raw != "" {
		var items []T
		if err := json.Unmarshal([]byte(raw), &items); err == nil {
			cc.logger.Debug("Catalogue retrieved from cache",
				gecho.Field("key", key),
				gecho.Field("count", len(items)),
				gecho.Field("duration", time.Since(startTime)),
			)
			return items, nil
		}
		cc.logger.Warn("Discarding undecodable catalogue entry", gecho.Field("key", key))
	}

	// Cache miss - fetch from database
	items, err := load(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(items)
	if err != nil {
		cc.logger.Warn("Failed to encode catalogue", gecho.Field("error", err), gecho.Field("key", key))
		return items, nil
	}
	if err := cc.cache.Set(ctx, key, payload, cc.ttl); err != nil {
		cc.logger.Warn("Failed to cache catalogue", gecho.Field("error", err), gecho.Field("key", key))
	}
	return items, nil
}
