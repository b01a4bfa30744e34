package models

import "context"

// Payment statuses reported by the status API.
const (
	PayStatusNotFound  = "not_found"
	PayStatusPending   = "pending"
	PayStatusConfirmed = "confirmed"
)

// CheckoutRequest is the input to order creation.
type CheckoutRequest struct {
	BuyerID        string
	CreatorID      string
	MediaID        string
	Kind           string
	Currency       string
	AmountUsdCents int64
}

// CheckoutResult is the payment request descriptor returned to the caller.
type CheckoutResult struct {
	Order *Order
	// PayURL is a scannable Solana Pay URI carrying destination, amount and reference.
	PayURL string
}

// StatusResult is the outcome of a status poll.
type StatusResult struct {
	Status    string
	Signature string
}

// WalletSummary is a user's wallet balance with recent credited deposits.
type WalletSummary struct {
	BalanceLamports int64
	Deposits        []*WalletDeposit
}

// AurumI is the application interface serving all payment business logic.
type AurumI interface {
	// Start runs the deposit sweep loop. Blocks until Shutdown.
	Start()
	// Shutdown stops the sweep loop.
	Shutdown()

	// CreateOrder validates the request, locks the price, selects a
	// destination and persists a PENDING order.
	CreateOrder(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error)
	// CheckStatus reconciles the order with the chain and reports
	// not_found, pending or confirmed.
	CheckStatus(ctx context.Context, reference string) (*StatusResult, error)

	// WalletSummary returns the user's balance and recent credited deposits.
	WalletSummary(ctx context.Context, userID string) (*WalletSummary, error)
	// StartDeposit assigns a deposit address to the user.
	StartDeposit(ctx context.Context, userID string) (*WalletDeposit, error)
	// SweepDeposits runs one sweep over pending deposits, returning the number credited.
	SweepDeposits(ctx context.Context) (int, error)
	// BuyWithWallet buys gated media from the user's internal balance.
	BuyWithWallet(ctx context.Context, userID, mediaID string) (*MediaPurchase, int64, error)

	// CurrentPrice returns the current SOL/USD quote.
	CurrentPrice(ctx context.Context) (float64, error)
}
