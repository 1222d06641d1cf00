package cache

import (
	"context"
	"sync"
	"time"

	"vetgateway/models"
)

// GeocodeCache stores geocoder answers by normalized query key.
type GeocodeCache interface {
	Get(ctx context.Context, key string) ([]models.Place, bool, error)
	Set(ctx context.Context, key string, places []models.Place, ttl time.Duration) error
}

type geocodeEntry struct {
	places    []models.Place
	expiresAt time.Time
}

// MemoryGeocodeCache is the in-process cache used when no Redis is configured.
type MemoryGeocodeCache struct {
	mu      sync.RWMutex
	entries map[string]geocodeEntry
	now     func() time.Time
}

func NewMemoryGeocodeCache() *MemoryGeocodeCache {
	return &MemoryGeocodeCache{entries: make(map[string]geocodeEntry), now: time.Now}
}

func (c *MemoryGeocodeCache) Get(_ context.Context, key string) ([]models.Place, bool, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !e.expiresAt.IsZero() && c.now().After(e.expiresAt) {
		c.mu.Lock()
		if cur, still := c.entries[key]; still && cur.expiresAt.Equal(e.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false, nil
	}
	return append([]models.Place(nil), e.places...), true, nil
}

func (c *MemoryGeocodeCache) Set(_ context.Context, key string, places []models.Place, ttl time.Duration) error {
	e := geocodeEntry{places: append([]models.Place(nil), places...)}
	if ttl > 0 {
		e.expiresAt = c.now().Add(ttl)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = e
	return nil
}

// Len reports the number of stored entries, expired or not.
func (c *MemoryGeocodeCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
