package model

import "time"

// PriceType tags one quoted instrument. Two sub-families share this tag:
// metal quotes (GOLD_C, GOLD_USD, SILVER_C, SILVER_USD, SING) and FX pairs
// (MYR_USD, MYR_INR). Buy/sell margins only apply to metal quotes.
type PriceType string

const (
	PriceGoldC     PriceType = "GOLD_C"     // gold, MYR per gram
	PriceGoldUSD   PriceType = "GOLD_USD"   // gold, USD per gram
	PriceSilverC   PriceType = "SILVER_C"   // silver, MYR per gram
	PriceSilverUSD PriceType = "SILVER_USD" // silver, USD per gram
	PriceSing      PriceType = "SING"       // 916 (91.6% purity) gold, MYR per gram
	PriceMYRUSD    PriceType = "MYR_USD"    // USD -> MYR rate
	PriceMYRINR    PriceType = "MYR_INR"    // MYR -> INR cross rate
)

// IsExchangeRate reports whether t belongs to the FX-pair sub-family.
func (t PriceType) IsExchangeRate() bool {
	return t == PriceMYRUSD || t == PriceMYRINR
}

type Currency string

const (
	CurrencyMYR Currency = "MYR"
	CurrencyUSD Currency = "USD"
	CurrencyINR Currency = "INR"
)

// PriceRecord is one quoted instrument as served to the staff console.
// Records are recomposed on every fetch; only overrides persist.
type PriceRecord struct {
	ID           string    `json:"id"`
	Type         PriceType `json:"type"`
	FetchedPrice float64   `json:"fetched_price"`
	// OverridePrice, when set, wins over FetchedPrice everywhere a price is shown.
	OverridePrice *float64 `json:"override_price,omitempty"`
	IsPublished   bool     `json:"is_published"`
	Currency      Currency `json:"currency"`
	// Margins as percentages of the effective price. Zero means no margin.
	BuyPercentage  *float64 `json:"buy_percentage,omitempty"`
	SellPercentage *float64 `json:"sell_percentage,omitempty"`
	// Preset exchange rate support, only meaningful on FX-pair records.
	UsePresetExchangeRate bool      `json:"use_preset_exchange_rate"`
	PresetExchangeRate    *float64  `json:"preset_exchange_rate,omitempty"`
	LastUpdated           time.Time `json:"last_updated"`
}

// DisplayPrice returns the effective price: the override when present,
// otherwise the system-fetched value.
func (p *PriceRecord) DisplayPrice() float64 {
	if p.OverridePrice != nil {
		return *p.OverridePrice
	}
	return p.FetchedPrice
}

// BuyPrice derives the price the business pays customers, from the effective
// price. Not meaningful for FX-pair records.
func (p *PriceRecord) BuyPrice() float64 {
	pct := 0.0
	if p.BuyPercentage != nil {
		pct = *p.BuyPercentage
	}
	return p.DisplayPrice() * (1 - pct/100)
}

// SellPrice derives the price customers pay the business.
func (p *PriceRecord) SellPrice() float64 {
	pct := 0.0
	if p.SellPercentage != nil {
		pct = *p.SellPercentage
	}
	return p.DisplayPrice() * (1 + pct/100)
}

// PublicPrice is the trimmed shape exposed on the public endpoint. Override
// bookkeeping never leaves the staff surface.
type PublicPrice struct {
	ID          string    `json:"id"`
	Type        PriceType `json:"type"`
	Price       float64   `json:"price"`
	Currency    Currency  `json:"currency"`
	LastUpdated time.Time `json:"last_updated"`
}

// ToPublic projects a record to its public shape.
func (p *PriceRecord) ToPublic() PublicPrice {
	return PublicPrice{
		ID:          p.ID,
		Type:        p.Type,
		Price:       p.DisplayPrice(),
		Currency:    p.Currency,
		LastUpdated: p.LastUpdated,
	}
}

// OverrideEntry holds the staff-set fields for one price record. All fields
// are optional; a nil field means "use the system value". Entries are sparse:
// a record with no entry behaves as fully system-driven.
type OverrideEntry struct {
	OverridePrice         *float64 `json:"override_price,omitempty"`
	IsPublished           *bool    `json:"is_published,omitempty"`
	BuyPercentage         *float64 `json:"buy_percentage,omitempty"`
	SellPercentage        *float64 `json:"sell_percentage,omitempty"`
	UsePresetExchangeRate *bool    `json:"use_preset_exchange_rate,omitempty"`
	PresetExchangeRate    *float64 `json:"preset_exchange_rate,omitempty"`
}

// Merge copies the non-nil fields of in over e. Nil fields in the input never
// clear previously set values.
func (e *OverrideEntry) Merge(in OverrideEntry) {
	if in.OverridePrice != nil {
		e.OverridePrice = in.OverridePrice
	}
	if in.IsPublished != nil {
		e.IsPublished = in.IsPublished
	}
	if in.BuyPercentage != nil {
		e.BuyPercentage = in.BuyPercentage
	}
	if in.SellPercentage != nil {
		e.SellPercentage = in.SellPercentage
	}
	if in.UsePresetExchangeRate != nil {
		e.UsePresetExchangeRate = in.UsePresetExchangeRate
	}
	if in.PresetExchangeRate != nil {
		e.PresetExchangeRate = in.PresetExchangeRate
	}
}

// Apply overlays the entry's set fields onto a freshly composed record.
func (e *OverrideEntry) Apply(p *PriceRecord) {
	if e.OverridePrice != nil {
		p.OverridePrice = e.OverridePrice
	}
	if e.IsPublished != nil {
		p.IsPublished = *e.IsPublished
	}
	if e.BuyPercentage != nil {
		p.BuyPercentage = e.BuyPercentage
	}
	if e.SellPercentage != nil {
		p.SellPercentage = e.SellPercentage
	}
	if e.UsePresetExchangeRate != nil {
		p.UsePresetExchangeRate = *e.UsePresetExchangeRate
	}
	if e.PresetExchangeRate != nil {
		p.PresetExchangeRate = e.PresetExchangeRate
	}
}

// ExchangeRates is a USD-based rate snapshot.
type ExchangeRates struct {
	USD       float64   `json:"usd"` // always 1
	MYR       float64   `json:"myr"`
	INR       float64   `json:"inr"`
	Timestamp time.Time `json:"timestamp"`
}
