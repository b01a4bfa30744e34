package models

import (
	"context"
	"errors"
)

// ErrPricingUnavailable is returned when no price can be obtained and no
// fallback exists. Checkout creation fails on it; it is never retried silently.
var ErrPricingUnavailable = errors.New("pricing unavailable")

// PriceOracle supplies the current SOL/USD exchange rate. The quote is
// advisory: callers lock the computed settlement amount into the order at
// creation time and never re-derive it.
type PriceOracle interface {
	SolUsd(ctx context.Context) (float64, error)
}
