package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func floatPtr(v float64) *float64 { return &v }
func boolPtr(v bool) *bool        { return &v }

func TestDisplayPricePrefersOverride(t *testing.T) {
	p := PriceRecord{FetchedPrice: 362.3}
	assert.Equal(t, 362.3, p.DisplayPrice())

	p.OverridePrice = floatPtr(350)
	assert.Equal(t, 350.0, p.DisplayPrice())
}

func TestBuySellDerivedFromEffectivePrice(t *testing.T) {
	p := PriceRecord{
		FetchedPrice:   100,
		OverridePrice:  floatPtr(200),
		BuyPercentage:  floatPtr(2),
		SellPercentage: floatPtr(3),
	}

	// Margins always apply to the override, never the fetched price.
	assert.InDelta(t, 196, p.BuyPrice(), 1e-9)
	assert.InDelta(t, 206, p.SellPrice(), 1e-9)
}

func TestBuySellZeroMarginIsIdentity(t *testing.T) {
	p := PriceRecord{FetchedPrice: 123.45}
	assert.Equal(t, p.DisplayPrice(), p.BuyPrice())
	assert.Equal(t, p.DisplayPrice(), p.SellPrice())
}

func TestOverrideEntryMergeKeepsUnsetFields(t *testing.T) {
	e := OverrideEntry{OverridePrice: floatPtr(300), IsPublished: boolPtr(false)}
	e.Merge(OverrideEntry{BuyPercentage: floatPtr(1.5)})

	assert.Equal(t, 300.0, *e.OverridePrice)
	assert.False(t, *e.IsPublished)
	assert.Equal(t, 1.5, *e.BuyPercentage)
}

func TestOverrideEntryApply(t *testing.T) {
	p := PriceRecord{ID: "gold-c", FetchedPrice: 362.3, IsPublished: true}
	e := OverrideEntry{OverridePrice: floatPtr(355), IsPublished: boolPtr(false)}
	e.Apply(&p)

	assert.Equal(t, 355.0, *p.OverridePrice)
	assert.False(t, p.IsPublished)
	// System value stays intact underneath.
	assert.Equal(t, 362.3, p.FetchedPrice)
}

func TestExchangeRateSubFamily(t *testing.T) {
	assert.True(t, PriceMYRUSD.IsExchangeRate())
	assert.True(t, PriceMYRINR.IsExchangeRate())
	assert.False(t, PriceGoldC.IsExchangeRate())
	assert.False(t, PriceSing.IsExchangeRate())
}

func TestToPublicHidesBookkeeping(t *testing.T) {
	p := PriceRecord{
		ID:            "sing",
		Type:          PriceSing,
		FetchedPrice:  331.9,
		OverridePrice: floatPtr(340),
		Currency:      CurrencyMYR,
	}

	pub := p.ToPublic()
	assert.Equal(t, 340.0, pub.Price)
	assert.Equal(t, PriceSing, pub.Type)
}
