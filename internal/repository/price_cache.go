package repository

import (
	"sync"
	"time"

	"kvt-storefront/internal/model"
)

// CacheDuration is how long a composed price set stays fresh.
const CacheDuration = 5 * time.Minute

// PriceCache keeps the last composed price set. A fresh entry avoids
// redundant provider calls; a stale one (up to twice the TTL) is still usable
// as a degraded-mode fallback when providers fail.
type PriceCache struct {
	now func() time.Time

	mu      sync.RWMutex
	records []model.PriceRecord
	setAt   time.Time
}

func NewPriceCache() *PriceCache {
	return NewPriceCacheWithClock(time.Now)
}

// NewPriceCacheWithClock lets tests drive the TTL without sleeping.
func NewPriceCacheWithClock(now func() time.Time) *PriceCache {
	return &PriceCache{now: now}
}

// Set stores a freshly composed record set.
func (c *PriceCache) Set(records []model.PriceRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = copyRecords(records)
	c.setAt = c.now()
}

// Get returns the cached set while it is within the TTL, nil otherwise.
func (c *PriceCache) Get() []model.PriceRecord {
	return c.getWithin(CacheDuration)
}

// GetStale tolerates up to twice the TTL; used only on the failure path.
func (c *PriceCache) GetStale() []model.PriceRecord {
	return c.getWithin(2 * CacheDuration)
}

func (c *PriceCache) getWithin(maxAge time.Duration) []model.PriceRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.records == nil || c.now().Sub(c.setAt) >= maxAge {
		return nil
	}
	return copyRecords(c.records)
}

func copyRecords(in []model.PriceRecord) []model.PriceRecord {
	out := make([]model.PriceRecord, len(in))
	copy(out, in)
	return out
}
