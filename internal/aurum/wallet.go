package aurum

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/solsins/aurum/internal/models"
	"github.com/solsins/aurum/internal/pricing"
)

// recentDepositsLimit is how many credited deposits the wallet summary shows.
const recentDepositsLimit = 10

// WalletSummary returns the user's balance and recent credited deposits,
// creating the wallet account row on first touch.
func (a *Aurum) WalletSummary(ctx context.Context, userID string) (*models.WalletSummary, error) {
	if userID == "" {
		return nil, ErrMissingFields
	}

	account, err := a.repo.GetOrCreateWalletAccount(userID)
	if err != nil {
		return nil, err
	}

	deposits, err := a.repo.GetCreditedDeposits(userID, recentDepositsLimit)
	if err != nil {
		return nil, err
	}

	return &models.WalletSummary{
		BalanceLamports: account.BalanceLamports,
		Deposits:        deposits,
	}, nil
}

// StartDeposit assigns a platform deposit address to the user and creates a
// PENDING zero-amount deposit record for the sweeper to watch.
func (a *Aurum) StartDeposit(ctx context.Context, userID string) (*models.WalletDeposit, error) {
	if userID == "" {
		return nil, ErrMissingFields
	}

	deposit := &models.WalletDeposit{
		ID:        uuid.NewString(),
		UserID:    userID,
		Address:   a.pool.RandomAddress(),
		Status:    models.DepositStatusPending,
		CreatedAt: time.Now().Unix(),
	}
	if err := a.repo.CreateDeposit(deposit); err != nil {
		return nil, err
	}

	a.logger.Info("Deposit started ", "deposit ", deposit.ID, "user ", userID, "address ", deposit.Address)
	return deposit, nil
}

// BuyWithWallet buys gated media from the user's internal lamport balance.
// The price is converted at the current quote and the debit plus the access
// grant commit in one repository transaction.
func (a *Aurum) BuyWithWallet(ctx context.Context, userID, mediaID string) (*models.MediaPurchase, int64, error) {
	if userID == "" || mediaID == "" {
		return nil, 0, ErrMissingFields
	}

	media, err := a.repo.GetMedia(mediaID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, 0, fmt.Errorf("%w: media %s not found", ErrMediaNotPurchasable, mediaID)
		}
		return nil, 0, err
	}
	if !media.Purchasable() {
		return nil, 0, fmt.Errorf("%w: media %s has no price", ErrMediaNotPurchasable, mediaID)
	}

	solUsd, err := a.oracle.SolUsd(ctx)
	if err != nil {
		return nil, 0, err
	}
	priceLamports, err := pricing.UsdCentsToLamports(*media.PriceUsdCents, solUsd)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %s", models.ErrPricingUnavailable, err)
	}

	purchase, newBalance, err := a.repo.PurchaseWithWallet(userID, mediaID, priceLamports)
	if err != nil {
		return nil, 0, err
	}

	a.logger.Info("Wallet purchase ", "user ", userID, "media ", mediaID, "lamports ", priceLamports)
	return purchase, newBalance, nil
}
