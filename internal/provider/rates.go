package provider

import (
	"context"
	"log"
	"os"
	"sync"
	"time"

	"kvt-storefront/internal/model"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

// RateProvider supplies USD-based exchange rates. Implementations are
// expected to absorb upstream failure; the error return exists so the price
// service can degrade when a provider genuinely cannot produce a value.
type RateProvider interface {
	Rates(ctx context.Context) (model.ExchangeRates, error)
}

const (
	rateCacheDuration = time.Hour

	// Approximate rates used when the upstream source has never answered.
	fallbackMYR = 4.7
	fallbackINR = 83.0
)

// ExchangeRateProvider fetches USD->MYR and USD->INR rates from an
// exchangerate-api.com style endpoint. The last good answer is cached for an
// hour; on failure the cached value is reused regardless of age, and a static
// table covers the cold-start case. Callers never see an error.
type ExchangeRateProvider struct {
	client  *resty.Client
	baseURL string

	mu     sync.Mutex
	cached *model.ExchangeRates
}

func NewExchangeRateProvider() *ExchangeRateProvider {
	baseURL := os.Getenv("EXCHANGE_RATE_API_URL")
	if baseURL == "" {
		baseURL = "https://api.exchangerate-api.com/v4/latest"
	}
	return &ExchangeRateProvider{
		client:  resty.New().SetTimeout(10 * time.Second),
		baseURL: baseURL,
	}
}

func (p *ExchangeRateProvider) Rates(ctx context.Context) (model.ExchangeRates, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cached != nil && time.Since(p.cached.Timestamp) < rateCacheDuration {
		return *p.cached, nil
	}

	rates, err := p.fetch(ctx)
	if err != nil {
		log.Printf("exchange rate fetch failed: %v", err)
		if p.cached != nil {
			// Stale beats static.
			return *p.cached, nil
		}
		return model.ExchangeRates{
			USD:       1,
			MYR:       fallbackMYR,
			INR:       fallbackINR,
			Timestamp: time.Now(),
		}, nil
	}

	p.cached = &rates
	return rates, nil
}

func (p *ExchangeRateProvider) fetch(ctx context.Context) (model.ExchangeRates, error) {
	resp, err := p.client.R().SetContext(ctx).Get(p.baseURL + "/USD")
	if err != nil {
		return model.ExchangeRates{}, err
	}
	if resp.IsError() {
		return model.ExchangeRates{}, &StatusError{Endpoint: "exchange rates", Status: resp.StatusCode()}
	}

	body := resp.Body()
	myr := gjson.GetBytes(body, "rates.MYR").Float()
	inr := gjson.GetBytes(body, "rates.INR").Float()
	if myr <= 0 {
		myr = fallbackMYR
	}
	if inr <= 0 {
		inr = fallbackINR
	}

	return model.ExchangeRates{
		USD:       1,
		MYR:       myr,
		INR:       inr,
		Timestamp: time.Now(),
	}, nil
}
