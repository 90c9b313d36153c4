package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"kvt-storefront/internal/model"
	"kvt-storefront/internal/provider"
	"kvt-storefront/internal/repository"
	"kvt-storefront/internal/ws"
	"kvt-storefront/pkg/units"
)

var ErrPriceNotFound = errors.New("price record not found")

// Purity factor for 916 (22-karat) retail gold.
const singPurity = 0.916

// UpdatePriceRequest carries a staff price mutation. Nil fields are left
// untouched; IsBulk marks the request as part of a multi-record batch for
// audit classification.
type UpdatePriceRequest struct {
	PriceID               string   `json:"price_id"`
	OverridePrice         *float64 `json:"override_price,omitempty"`
	IsPublished           *bool    `json:"is_published,omitempty"`
	BuyPercentage         *float64 `json:"buy_percentage,omitempty"`
	SellPercentage        *float64 `json:"sell_percentage,omitempty"`
	UsePresetExchangeRate *bool    `json:"use_preset_exchange_rate,omitempty"`
	PresetExchangeRate    *float64 `json:"preset_exchange_rate,omitempty"`
	IsBulk                bool     `json:"is_bulk,omitempty"`
}

type PriceService interface {
	FetchAll(ctx context.Context) []model.PriceRecord
	FetchPublished(ctx context.Context) []model.PriceRecord
	ApplyUpdate(ctx context.Context, req UpdatePriceRequest, actor model.Actor) ([]model.PriceRecord, error)
}

type priceService struct {
	spot      provider.SpotProvider
	rates     provider.RateProvider
	overrides *repository.OverrideStore
	cache     *repository.PriceCache
	activity  *repository.ActivityLog
	wsHub     *ws.Hub
}

func NewPriceService(
	spot provider.SpotProvider,
	rates provider.RateProvider,
	overrides *repository.OverrideStore,
	cache *repository.PriceCache,
	activity *repository.ActivityLog,
	hub *ws.Hub,
) PriceService {
	return &priceService{
		spot:      spot,
		rates:     rates,
		overrides: overrides,
		cache:     cache,
		activity:  activity,
		wsHub:     hub,
	}
}

// FetchAll returns the full record set, published or not. A fresh cache entry
// short-circuits the providers; otherwise the set is recomposed. Provider
// failure degrades to the stale cache, then to a static mock set. Never fails.
func (s *priceService) FetchAll(ctx context.Context) []model.PriceRecord {
	if cached := s.cache.Get(); cached != nil {
		// Overrides may have changed since the cache write.
		s.applyOverrides(cached)
		return cached
	}

	records, err := s.compose(ctx)
	if err != nil {
		if stale := s.cache.GetStale(); stale != nil {
			s.applyOverrides(stale)
			return stale
		}
		records = s.mockRecords()
		s.applyOverrides(records)
		return records
	}

	s.applyOverrides(records)
	s.cache.Set(records)
	return records
}

// FetchPublished filters FetchAll down to the records the public may see.
func (s *priceService) FetchPublished(ctx context.Context) []model.PriceRecord {
	var out []model.PriceRecord
	for _, r := range s.FetchAll(ctx) {
		if r.IsPublished {
			out = append(out, r)
		}
	}
	return out
}

// compose builds the full instrument list from live provider data.
func (s *priceService) compose(ctx context.Context) ([]model.PriceRecord, error) {
	// Gold and silver spots are independent; fetch them concurrently.
	type spotResult struct {
		metal provider.Metal
		price float64
		err   error
	}
	results := make(chan spotResult, 2)
	for _, metal := range []provider.Metal{provider.MetalGold, provider.MetalSilver} {
		go func(m provider.Metal) {
			p, err := s.spot.SpotUSD(ctx, m)
			results <- spotResult{metal: m, price: p, err: err}
		}(metal)
	}

	spots := make(map[provider.Metal]float64, 2)
	for i := 0; i < 2; i++ {
		r := <-results
		if r.err != nil {
			return nil, fmt.Errorf("spot %s: %w", r.metal, r.err)
		}
		spots[r.metal] = r.price
	}

	rates, err := s.rates.Rates(ctx)
	if err != nil {
		return nil, fmt.Errorf("exchange rates: %w", err)
	}

	goldUSDGram := units.OunceToGram(spots[provider.MetalGold])
	silverUSDGram := units.OunceToGram(spots[provider.MetalSilver])
	goldMYRGram := goldUSDGram * rates.MYR
	silverMYRGram := silverUSDGram * rates.MYR

	now := time.Now()
	record := func(id string, t model.PriceType, price float64, cur model.Currency) model.PriceRecord {
		return model.PriceRecord{
			ID:           id,
			Type:         t,
			FetchedPrice: price,
			IsPublished:  true,
			Currency:     cur,
			LastUpdated:  now,
		}
	}

	return []model.PriceRecord{
		record("gold-c", model.PriceGoldC, goldMYRGram, model.CurrencyMYR),
		record("gold-usd", model.PriceGoldUSD, goldUSDGram, model.CurrencyUSD),
		record("silver-c", model.PriceSilverC, silverMYRGram, model.CurrencyMYR),
		record("silver-usd", model.PriceSilverUSD, silverUSDGram, model.CurrencyUSD),
		record("sing", model.PriceSing, goldMYRGram*singPurity, model.CurrencyMYR),
		record("myr-usd", model.PriceMYRUSD, s.effectiveRate("myr-usd", rates.MYR), model.CurrencyMYR),
		// Cross rate as INR per MYR. The direction is long-standing product
		// behavior; see DESIGN.md before touching it.
		record("myr-inr", model.PriceMYRINR, s.effectiveRate("myr-inr", rates.INR/rates.MYR), model.CurrencyINR),
	}, nil
}

// effectiveRate substitutes a staff preset for the fetched exchange rate when
// the record is flagged to use one.
func (s *priceService) effectiveRate(id string, fetched float64) float64 {
	ov, ok := s.overrides.Get(id)
	if !ok {
		return fetched
	}
	if ov.UsePresetExchangeRate != nil && *ov.UsePresetExchangeRate && ov.PresetExchangeRate != nil {
		return *ov.PresetExchangeRate
	}
	return fetched
}

func (s *priceService) applyOverrides(records []model.PriceRecord) {
	for i := range records {
		if ov, ok := s.overrides.Get(records[i].ID); ok {
			ov.Apply(&records[i])
		}
	}
}

// mockRecords is the last-resort static set, used when the providers fail and
// no cached composition survives.
func (s *priceService) mockRecords() []model.PriceRecord {
	now := time.Now()
	record := func(id string, t model.PriceType, price float64, cur model.Currency) model.PriceRecord {
		return model.PriceRecord{
			ID:           id,
			Type:         t,
			FetchedPrice: price,
			IsPublished:  true,
			Currency:     cur,
			LastUpdated:  now,
		}
	}
	return []model.PriceRecord{
		record("gold-c", model.PriceGoldC, 285.50, model.CurrencyMYR),
		record("gold-usd", model.PriceGoldUSD, 68.52, model.CurrencyUSD),
		record("silver-c", model.PriceSilverC, 3.25, model.CurrencyMYR),
		record("silver-usd", model.PriceSilverUSD, 0.78, model.CurrencyUSD),
		record("sing", model.PriceSing, 261.72, model.CurrencyMYR),
		record("myr-usd", model.PriceMYRUSD, 4.7, model.CurrencyMYR),
		record("myr-inr", model.PriceMYRINR, 17.66, model.CurrencyINR),
	}
}

// ApplyUpdate merges a staff mutation into the override store, audits the
// change when anything actually changed, and returns the refreshed set.
func (s *priceService) ApplyUpdate(ctx context.Context, req UpdatePriceRequest, actor model.Actor) ([]model.PriceRecord, error) {
	current, ok := s.findRecord(ctx, req.PriceID)
	if !ok {
		return nil, ErrPriceNotFound
	}

	changes := diffUpdate(current, req)

	s.overrides.Set(req.PriceID, model.OverrideEntry{
		OverridePrice:         req.OverridePrice,
		IsPublished:           req.IsPublished,
		BuyPercentage:         req.BuyPercentage,
		SellPercentage:        req.SellPercentage,
		UsePresetExchangeRate: req.UsePresetExchangeRate,
		PresetExchangeRate:    req.PresetExchangeRate,
	})

	if len(changes) > 0 {
		s.activity.Append(model.ActivityEntry{
			Type:       classifyPriceActivity(req, changes),
			UserID:     actor.ID,
			UserName:   actor.Name,
			EntityType: model.EntityPrice,
			EntityID:   req.PriceID,
			EntityName: string(current.Type),
			Action:     fmt.Sprintf("Updated price %s", req.PriceID),
			Changes:    changes,
		})
	}

	refreshed := s.FetchAll(ctx)

	if s.wsHub != nil && len(changes) > 0 {
		published := make([]model.PublicPrice, 0)
		for _, r := range refreshed {
			if r.IsPublished {
				published = append(published, r.ToPublic())
			}
		}
		go s.wsHub.BroadcastJSON(map[string]interface{}{
			"type":   "price_update",
			"prices": published,
		})
	}

	return refreshed, nil
}

func (s *priceService) findRecord(ctx context.Context, id string) (model.PriceRecord, bool) {
	for _, r := range s.FetchAll(ctx) {
		if r.ID == id {
			return r, true
		}
	}
	return model.PriceRecord{}, false
}

// diffUpdate compares only the fields present in the request against the
// current record. An update that restates current values is a no-op.
func diffUpdate(current model.PriceRecord, req UpdatePriceRequest) map[string]model.FieldChange {
	changes := make(map[string]model.FieldChange)

	if req.OverridePrice != nil {
		if current.OverridePrice == nil || *current.OverridePrice != *req.OverridePrice {
			var from interface{}
			if current.OverridePrice != nil {
				from = *current.OverridePrice
			}
			changes["override_price"] = model.FieldChange{From: from, To: *req.OverridePrice}
		}
	}
	if req.IsPublished != nil && current.IsPublished != *req.IsPublished {
		changes["is_published"] = model.FieldChange{From: current.IsPublished, To: *req.IsPublished}
	}
	if req.BuyPercentage != nil {
		if current.BuyPercentage == nil || *current.BuyPercentage != *req.BuyPercentage {
			var from interface{}
			if current.BuyPercentage != nil {
				from = *current.BuyPercentage
			}
			changes["buy_percentage"] = model.FieldChange{From: from, To: *req.BuyPercentage}
		}
	}
	if req.SellPercentage != nil {
		if current.SellPercentage == nil || *current.SellPercentage != *req.SellPercentage {
			var from interface{}
			if current.SellPercentage != nil {
				from = *current.SellPercentage
			}
			changes["sell_percentage"] = model.FieldChange{From: from, To: *req.SellPercentage}
		}
	}
	if req.UsePresetExchangeRate != nil && current.UsePresetExchangeRate != *req.UsePresetExchangeRate {
		changes["use_preset_exchange_rate"] = model.FieldChange{From: current.UsePresetExchangeRate, To: *req.UsePresetExchangeRate}
	}
	if req.PresetExchangeRate != nil {
		if current.PresetExchangeRate == nil || *current.PresetExchangeRate != *req.PresetExchangeRate {
			var from interface{}
			if current.PresetExchangeRate != nil {
				from = *current.PresetExchangeRate
			}
			changes["preset_exchange_rate"] = model.FieldChange{From: from, To: *req.PresetExchangeRate}
		}
	}

	return changes
}

// classifyPriceActivity picks the audit type: publish-state flips get their
// own types, batch members are bulk updates, everything else is an update.
func classifyPriceActivity(req UpdatePriceRequest, changes map[string]model.FieldChange) model.ActivityType {
	if _, flipped := changes["is_published"]; flipped && req.IsPublished != nil {
		if *req.IsPublished {
			return model.ActivityPricePublished
		}
		return model.ActivityPriceUnpublished
	}
	if req.IsBulk {
		return model.ActivityBulkUpdate
	}
	return model.ActivityPriceUpdated
}
