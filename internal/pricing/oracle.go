// Package pricing supplies the SOL/USD exchange rate and the conversion of
// USD-cent prices into lamport settlement amounts.
package pricing

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/solsins/aurum/internal/models"
	"github.com/solsins/aurum/pkg/logger"
)

const (
	LamportsPerSol = 1_000_000_000

	feedTimeout = 10 * time.Second
)

// Oracle fetches the SOL/USD price from an external feed and keeps the last
// successful quote as a fallback. With no feed configured it serves the static
// fallback price only.
type Oracle struct {
	logger   *logger.Logger
	feedURL  string
	fallback float64
	client   *resty.Client

	mu        sync.RWMutex
	lastPrice float64
	lastAt    time.Time
}

// NewOracle creates a price oracle. feedURL may be empty; fallback <= 0 means
// no static fallback, in which case a dead feed makes quotes unavailable.
func NewOracle(feedURL string, fallback float64, logger *logger.Logger) *Oracle {
	return &Oracle{
		logger:   logger,
		feedURL:  feedURL,
		fallback: fallback,
		client:   resty.New().SetTimeout(feedTimeout),
	}
}

// feedResponse mirrors the CoinGecko simple-price shape:
// {"solana": {"usd": 140.25}}
type feedResponse struct {
	Solana struct {
		Usd float64 `json:"usd"`
	} `json:"solana"`
}

// SolUsd returns the current quote: live feed first, then last known good,
// then the static fallback. models.ErrPricingUnavailable when all three fail.
func (o *Oracle) SolUsd(ctx context.Context) (float64, error) {
	price, err := o.fetch(ctx)
	if err == nil {
		o.mu.Lock()
		o.lastPrice = price
		o.lastAt = time.Now()
		o.mu.Unlock()
		return price, nil
	}

	o.mu.RLock()
	last := o.lastPrice
	lastAt := o.lastAt
	o.mu.RUnlock()

	if last > 0 {
		o.logger.Warn("Price feed unavailable, using last known quote ", "error ", err, "quotedAt ", lastAt.Unix())
		return last, nil
	}

	if o.fallback > 0 {
		o.logger.Warn("Price feed unavailable, using static fallback ", "error ", err, "fallback ", o.fallback)
		return o.fallback, nil
	}

	return 0, fmt.Errorf("%w: %s", models.ErrPricingUnavailable, err)
}

func (o *Oracle) fetch(ctx context.Context) (float64, error) {
	if o.feedURL == "" {
		return 0, fmt.Errorf("no price feed configured")
	}

	var parsed feedResponse
	resp, err := o.client.R().
		SetContext(ctx).
		SetResult(&parsed).
		Get(o.feedURL)
	if err != nil {
		return 0, fmt.Errorf("price feed request failed: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return 0, fmt.Errorf("price feed status: %d", resp.StatusCode())
	}

	if parsed.Solana.Usd <= 0 {
		return 0, fmt.Errorf("price feed returned non-positive quote: %f", parsed.Solana.Usd)
	}
	return parsed.Solana.Usd, nil
}

// UsdCentsToLamports converts a USD-cent amount into lamports at the given quote.
func UsdCentsToLamports(usdCents int64, solUsd float64) (int64, error) {
	if usdCents <= 0 {
		return 0, fmt.Errorf("invalid usd cents amount: %d", usdCents)
	}
	if solUsd <= 0 {
		return 0, fmt.Errorf("invalid sol/usd quote: %f", solUsd)
	}

	usd := float64(usdCents) / 100
	lamports := int64(math.Floor(usd / solUsd * LamportsPerSol))
	if lamports <= 0 {
		return 0, fmt.Errorf("amount of %d usd cents converts to zero lamports at quote %f", usdCents, solUsd)
	}
	return lamports, nil
}
