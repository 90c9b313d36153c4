package repository

import (
	"testing"

	"kvt-storefront/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }
func boolPtr(v bool) *bool        { return &v }

func TestOverrideStoreSetMergesFields(t *testing.T) {
	store := NewOverrideStore()

	store.Set("gold-c", model.OverrideEntry{OverridePrice: floatPtr(300)})
	store.Set("gold-c", model.OverrideEntry{IsPublished: boolPtr(false)})

	entry, ok := store.Get("gold-c")
	require.True(t, ok)
	require.NotNil(t, entry.OverridePrice)
	assert.Equal(t, 300.0, *entry.OverridePrice)
	require.NotNil(t, entry.IsPublished)
	assert.False(t, *entry.IsPublished)
}

func TestOverrideStoreNilFieldNeverClears(t *testing.T) {
	store := NewOverrideStore()

	store.Set("sing", model.OverrideEntry{OverridePrice: floatPtr(330), BuyPercentage: floatPtr(2)})
	// A later update that omits those fields must leave them alone.
	store.Set("sing", model.OverrideEntry{SellPercentage: floatPtr(3)})

	entry, ok := store.Get("sing")
	require.True(t, ok)
	assert.Equal(t, 330.0, *entry.OverridePrice)
	assert.Equal(t, 2.0, *entry.BuyPercentage)
	assert.Equal(t, 3.0, *entry.SellPercentage)
}

func TestOverrideStoreGetMissing(t *testing.T) {
	store := NewOverrideStore()

	_, ok := store.Get("silver-usd")
	assert.False(t, ok)
	assert.Empty(t, store.All())
}

func TestOverrideStoreAllSnapshots(t *testing.T) {
	store := NewOverrideStore()
	store.Set("gold-c", model.OverrideEntry{OverridePrice: floatPtr(310)})
	store.Set("myr-usd", model.OverrideEntry{UsePresetExchangeRate: boolPtr(true), PresetExchangeRate: floatPtr(4.5)})

	all := store.All()
	assert.Len(t, all, 2)

	// Mutating the snapshot must not leak back into the store.
	entry := all["gold-c"]
	entry.OverridePrice = floatPtr(999)
	stored, _ := store.Get("gold-c")
	assert.Equal(t, 310.0, *stored.OverridePrice)
}
