// Package rates converts USD amounts into XRP using a cached exchange rate.
// A degraded price feed never fails a conversion: lookups fall back to a
// fixed default rate instead.
package rates

import (
	"context"
	"time"

	"github.com/sohamgherwada/PayQI/internal/repositories/cache"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const rateCacheKey = "rates:xrp:usd"

// Config tunes the price feed client.
type Config struct {
	FeedBaseURL  string
	Timeout      time.Duration
	CacheTTL     time.Duration
	FallbackRate decimal.Decimal
}

// DefaultConfig matches the CoinGecko simple-price feed.
func DefaultConfig() Config {
	return Config{
		FeedBaseURL:  "https://api.coingecko.com",
		Timeout:      10 * time.Second,
		CacheTTL:     60 * time.Second,
		FallbackRate: decimal.NewFromFloat(0.5),
	}
}

// Converter converts USD amounts to XRP amounts.
type Converter interface {
	Convert(ctx context.Context, usdAmount decimal.Decimal) decimal.Decimal
}

type service struct {
	client *resty.Client
	cache  cache.Cache
	cfg    Config
	logger *zap.Logger
}

// NewService creates a new rate converter backed by the given cache.
func NewService(c cache.Cache, cfg Config, logger *zap.Logger) Converter {
	client := resty.New().
		SetBaseURL(cfg.FeedBaseURL).
		SetTimeout(cfg.Timeout)

	return &service{
		client: client,
		cache:  c,
		cfg:    cfg,
		logger: logger,
	}
}

type simplePriceResponse struct {
	Ripple struct {
		USD float64 `json:"usd"`
	} `json:"ripple"`
}

// Convert divides the USD amount by the current USD/XRP rate in decimal
// arithmetic. The rate is cached; feed failures and zero rates fall back
// to the configured default rather than surfacing an error.
func (s *service) Convert(ctx context.Context, usdAmount decimal.Decimal) decimal.Decimal {
	rate := s.currentRate(ctx)
	return usdAmount.Div(rate)
}

func (s *service) currentRate(ctx context.Context) decimal.Decimal {
	if cached, err := s.cache.Get(ctx, rateCacheKey); err == nil {
		if rate, err := decimal.NewFromString(cached); err == nil && rate.IsPositive() {
			return rate
		}
	}

	rate, err := s.fetchRate(ctx)
	if err != nil {
		s.logger.Warn("price feed lookup failed, using fallback rate",
			zap.Error(err),
			zap.String("fallback_rate", s.cfg.FallbackRate.String()))
		return s.cfg.FallbackRate
	}

	if err := s.cache.Set(ctx, rateCacheKey, rate.String(), s.cfg.CacheTTL); err != nil {
		s.logger.Warn("failed to cache exchange rate", zap.Error(err))
	}
	return rate
}

func (s *service) fetchRate(ctx context.Context) (decimal.Decimal, error) {
	var out simplePriceResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"ids":           "ripple",
			"vs_currencies": "usd",
		}).
		SetResult(&out).
		Get("/api/v3/simple/price")
	if err != nil {
		return decimal.Decimal{}, err
	}
	if resp.IsError() {
		return decimal.Decimal{}, errFeedStatus(resp.StatusCode())
	}

	rate := decimal.NewFromFloat(out.Ripple.USD)
	if !rate.IsPositive() {
		// A zero rate would divide by zero downstream; treat as a failure.
		return decimal.Decimal{}, errZeroRate
	}
	return rate, nil
}
