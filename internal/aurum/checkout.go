package aurum

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mr-tron/base58"

	"github.com/solsins/aurum/internal/models"
	"github.com/solsins/aurum/internal/pricing"
	"github.com/solsins/aurum/pkg/payuri"
	"github.com/solsins/aurum/pkg/validation"
)

var (
	ErrMissingFields       = errors.New("missing required fields")
	ErrUnsupportedCurrency = errors.New("unsupported settlement currency")
	ErrNonPositiveAmount   = errors.New("amount must be positive")
	ErrMediaNotPurchasable = errors.New("media not purchasable")
	ErrReferenceCollision  = errors.New("could not generate unique reference")
)

// maxReferenceAttempts bounds reference regeneration. A collision on 32
// random bytes indicates something badly broken, not bad luck.
const maxReferenceAttempts = 5

// CreateOrder validates the checkout request, locks the settlement amount at
// the current quote, selects a destination address and persists a PENDING
// order. The returned descriptor carries everything the payer's wallet needs.
func (a *Aurum) CreateOrder(ctx context.Context, req models.CheckoutRequest) (*models.CheckoutResult, error) {
	if req.BuyerID == "" || req.CreatorID == "" {
		return nil, ErrMissingFields
	}

	currency := req.Currency
	if currency == "" {
		currency = models.SettlementCurrency
	}
	if currency != models.SettlementCurrency {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCurrency, req.Currency)
	}

	kind := req.Kind
	if kind == "" {
		kind = models.OrderKindPPV
	}

	// Media-bound orders take the price from the media record. The caller's
	// amount is ignored so a tampered client cannot set its own price.
	amountUsdCents := req.AmountUsdCents
	if req.MediaID != "" {
		media, err := a.repo.GetMedia(req.MediaID)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return nil, fmt.Errorf("%w: media %s not found", ErrMediaNotPurchasable, req.MediaID)
			}
			return nil, err
		}
		if !media.Purchasable() {
			return nil, fmt.Errorf("%w: media %s has no price", ErrMediaNotPurchasable, req.MediaID)
		}
		amountUsdCents = *media.PriceUsdCents
	}

	if amountUsdCents <= 0 {
		return nil, ErrNonPositiveAmount
	}

	solUsd, err := a.oracle.SolUsd(ctx)
	if err != nil {
		return nil, err
	}
	amountLamports, err := pricing.UsdCentsToLamports(amountUsdCents, solUsd)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", models.ErrPricingUnavailable, err)
	}

	destination := a.pool.SelectDestination(ctx)

	reference, err := a.newReference()
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		ID:             uuid.NewString(),
		Reference:      reference,
		BuyerID:        req.BuyerID,
		CreatorID:      req.CreatorID,
		MediaID:        req.MediaID,
		Kind:           kind,
		Currency:       currency,
		AmountUsdCents: amountUsdCents,
		AmountLamports: amountLamports,
		Destination:    destination,
		Status:         models.OrderStatusPending,
		CreatedAt:      time.Now().Unix(),
	}
	if err := a.repo.CreateOrder(order); err != nil {
		return nil, err
	}

	payURL := payuri.Request{
		Recipient:      destination,
		AmountLamports: amountLamports,
		Reference:      reference,
		Label:          a.config.PayLabel,
		Message:        fmt.Sprintf("%s • %s", order.Kind, order.CreatorID),
	}.Encode()

	a.logger.Info("Order created ", "order ", order.ID, "reference ", reference, "destination ", destination, "lamports ", amountLamports)
	return &models.CheckoutResult{Order: order, PayURL: payURL}, nil
}

// newReference generates an unguessable base58 reference token: 32 random
// bytes, the same shape as the pubkey a wallet attaches to the transfer.
// Collisions with existing orders trigger regeneration.
func (a *Aurum) newReference() (string, error) {
	for attempt := 0; attempt < maxReferenceAttempts; attempt++ {
		raw := make([]byte, validation.PubkeyLength)
		if _, err := rand.Read(raw); err != nil {
			return "", fmt.Errorf("failed to generate reference: %w", err)
		}
		reference := base58.Encode(raw)

		exists, err := a.repo.OrderReferenceExists(reference)
		if err != nil {
			return "", err
		}
		if !exists {
			return reference, nil
		}
		a.logger.Warn("Reference collision, regenerating ", "reference ", reference)
	}
	return "", ErrReferenceCollision
}
