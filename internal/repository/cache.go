package repository

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/FACorreiaa/go-city-info-api/internal/types"
)

const citiesCacheKey = "cities:all"

// CachedProvider serves ListCities from an in-process TTL cache. Cities are
// seeded at startup and have no write endpoints, so the entry never goes stale
// through this API; a restart or TTL expiry picks up out-of-band edits.
type CachedProvider struct {
	next  Provider
	cache *cache.Cache
}

func NewCachedProvider(next Provider, ttl time.Duration) *CachedProvider {
	return &CachedProvider{
		next:  next,
		cache: cache.New(ttl, 2*ttl),
	}
}

func (p *CachedProvider) Open() Repository {
	return &cachedRepository{Repository: p.next.Open(), cache: p.cache}
}

type cachedRepository struct {
	Repository
	cache *cache.Cache
}

func (r *cachedRepository) ListCities(ctx context.Context) ([]types.City, error) {
	if cached, found := r.cache.Get(citiesCacheKey); found {
		if cities, ok := cached.([]types.City); ok {
			return cloneCities(cities), nil
		}
	}

	cities, err := r.Repository.ListCities(ctx)
	if err != nil {
		return nil, err
	}
	r.cache.Set(citiesCacheKey, cloneCities(cities), cache.DefaultExpiration)
	return cities, nil
}

func cloneCities(cities []types.City) []types.City {
	out := make([]types.City, len(cities))
	copy(out, cities)
	return out
}
