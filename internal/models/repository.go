package models

import "errors"

// ErrNotFound is returned by repository lookups when the record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrInsufficientFunds is returned when a wallet debit would go below zero.
var ErrInsufficientFunds = errors.New("insufficient wallet balance")

type Repository interface {
	// CreateOrder persists a new PENDING order.
	CreateOrder(order *Order) error
	// GetOrderByReference returns the order with the given reference token.
	GetOrderByReference(reference string) (*Order, error)
	// OrderReferenceExists reports whether any order already uses the reference.
	OrderReferenceExists(reference string) (bool, error)
	// ConfirmOrder transitions the order PENDING -> CONFIRMED, records the
	// signature, grants media access and credits the creator balance in one
	// database transaction. The transition is a conditional update on
	// status=PENDING so concurrent callers apply the side effects at most once.
	// Returns the order and whether this call performed the transition.
	ConfirmOrder(reference, signature string) (*Order, bool, error)

	// GetMedia returns the media item with the given id.
	GetMedia(id string) (*Media, error)

	// CreateDeposit persists a new PENDING deposit record.
	CreateDeposit(deposit *WalletDeposit) error
	// GetPendingDeposits returns all deposits still awaiting on-chain activity.
	GetPendingDeposits() ([]*WalletDeposit, error)
	// ConfirmDeposit marks the deposit CONFIRMED with the computed amount and
	// signature and credits the user's wallet balance in one database
	// transaction. Returns whether this call performed the transition.
	ConfirmDeposit(id string, amountLamports int64, signature string, confirmedAt int64) (bool, error)

	// GetOrCreateWalletAccount returns the user's wallet, creating an empty one on first touch.
	GetOrCreateWalletAccount(userID string) (*WalletAccount, error)
	// GetCreditedDeposits returns the user's most recent deposits with a positive amount.
	GetCreditedDeposits(userID string, limit int) ([]*WalletDeposit, error)
	// PurchaseWithWallet debits the user's wallet and creates the access grant
	// in one database transaction. The debit is conditional on the balance
	// covering the amount; otherwise ErrInsufficientFunds.
	PurchaseWithWallet(userID, mediaID string, amountLamports int64) (*MediaPurchase, int64, error)

	// GetBalance returns the creator's earnings balance, zero row if absent.
	GetBalance(userID string) (*Balance, error)

	Close() error
}
