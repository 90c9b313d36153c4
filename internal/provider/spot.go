package provider

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

// Metal identifies a quoted metal.
type Metal string

const (
	MetalGold   Metal = "gold"
	MetalSilver Metal = "silver"
)

// SpotProvider supplies USD-per-troy-ounce spot prices.
type SpotProvider interface {
	SpotUSD(ctx context.Context, metal Metal) (float64, error)
}

// StatusError reports a non-2xx answer from an upstream source.
type StatusError struct {
	Endpoint string
	Status   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s API returned %d", e.Endpoint, e.Status)
}

const spotCacheDuration = 5 * time.Minute

// Approximate spot prices used when the upstream source is unreachable.
var spotFallbackUSD = map[Metal]float64{
	MetalGold:   2200,
	MetalSilver: 25,
}

var metalSymbols = map[Metal]string{
	MetalGold:   "XAU",
	MetalSilver: "XAG",
}

type cachedSpot struct {
	price     float64
	fetchedAt time.Time
}

// GoldAPIProvider fetches spot prices from a gold-api.com style endpoint,
// one call per metal, revalidated every five minutes. A non-positive or
// missing price counts as a failure and falls back to an approximate
// constant. Callers never see an error.
type GoldAPIProvider struct {
	client  *resty.Client
	baseURL string

	mu     sync.Mutex
	cached map[Metal]cachedSpot
}

func NewGoldAPIProvider() *GoldAPIProvider {
	baseURL := os.Getenv("GOLD_API_URL")
	if baseURL == "" {
		baseURL = "https://api.gold-api.com"
	}
	return &GoldAPIProvider{
		client:  resty.New().SetTimeout(10 * time.Second),
		baseURL: baseURL,
		cached:  make(map[Metal]cachedSpot),
	}
}

func (p *GoldAPIProvider) SpotUSD(ctx context.Context, metal Metal) (float64, error) {
	symbol, ok := metalSymbols[metal]
	if !ok {
		return 0, fmt.Errorf("unknown metal %q", metal)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if c, ok := p.cached[metal]; ok && time.Since(c.fetchedAt) < spotCacheDuration {
		return c.price, nil
	}

	price, err := p.fetch(ctx, symbol)
	if err != nil {
		log.Printf("%s spot fetch failed: %v", metal, err)
		if c, ok := p.cached[metal]; ok {
			return c.price, nil
		}
		return spotFallbackUSD[metal], nil
	}

	p.cached[metal] = cachedSpot{price: price, fetchedAt: time.Now()}
	return price, nil
}

func (p *GoldAPIProvider) fetch(ctx context.Context, symbol string) (float64, error) {
	resp, err := p.client.R().SetContext(ctx).Get(p.baseURL + "/price/" + symbol)
	if err != nil {
		return 0, err
	}
	if resp.IsError() {
		return 0, &StatusError{Endpoint: "spot price", Status: resp.StatusCode()}
	}

	price := gjson.GetBytes(resp.Body(), "price").Float()
	if price <= 0 {
		return 0, fmt.Errorf("invalid price data for %s", symbol)
	}
	return price, nil
}
