package repository

import (
	"testing"
	"time"

	"kvt-storefront/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecords() []model.PriceRecord {
	return []model.PriceRecord{
		{ID: "gold-c", Type: model.PriceGoldC, FetchedPrice: 362.3, Currency: model.CurrencyMYR, IsPublished: true, LastUpdated: time.Now()},
	}
}

func TestPriceCacheEmptyReturnsNil(t *testing.T) {
	cache := NewPriceCache()
	assert.Nil(t, cache.Get())
	assert.Nil(t, cache.GetStale())
}

func TestPriceCacheFreshHit(t *testing.T) {
	cache := NewPriceCache()
	cache.Set(testRecords())

	got := cache.Get()
	require.Len(t, got, 1)
	assert.Equal(t, "gold-c", got[0].ID)
}

func TestPriceCacheExpiry(t *testing.T) {
	now := time.Now()
	cache := NewPriceCacheWithClock(func() time.Time { return now })
	cache.Set(testRecords())

	// Age the entry past the TTL but within the stale window.
	now = now.Add(CacheDuration + time.Second)
	assert.Nil(t, cache.Get())
	assert.NotNil(t, cache.GetStale())

	// Past twice the TTL even the stale path gives up.
	now = now.Add(CacheDuration + time.Second)
	assert.Nil(t, cache.GetStale())
}

func TestPriceCacheReturnsCopies(t *testing.T) {
	cache := NewPriceCache()
	cache.Set(testRecords())

	got := cache.Get()
	got[0].FetchedPrice = 1

	again := cache.Get()
	assert.Equal(t, 362.3, again[0].FetchedPrice)
}
