package models

// Order statuses. Transitions are monotonic: PENDING -> CONFIRMED, never reversed.
const (
	OrderStatusPending   = "PENDING"
	OrderStatusConfirmed = "CONFIRMED"
)

// Order kinds.
const (
	OrderKindPPV          = "PPV"
	OrderKindTip          = "TIP"
	OrderKindSubscription = "SUB"
)

// SettlementCurrency is the only settlement currency accepted at checkout.
const SettlementCurrency = "SOL"

// Order represents a requested payment for content access, a tip or a subscription.
// Rows are never deleted; confirmed orders are the audit trail.
type Order struct {
	// ID is the unique identifier of the order.
	ID string `json:"id" gorm:"column:id;primaryKey"`
	// Reference is the unguessable base58 token correlating this order with
	// an on-chain transaction. Wallets attach it to the transfer as a read-only
	// account key (Solana Pay convention).
	Reference string `json:"reference" gorm:"column:reference;unique;not null"`
	// BuyerID is the paying user.
	BuyerID string `json:"buyer_id" gorm:"column:buyer_id;index;not null"`
	// CreatorID is the payee creator.
	CreatorID string `json:"creator_id" gorm:"column:creator_id;index;not null"`
	// MediaID links the order to a gated media item, empty for tips and subscriptions.
	MediaID string `json:"media_id" gorm:"column:media_id;index"`
	// Kind is one of PPV, TIP, SUB.
	Kind string `json:"kind" gorm:"column:kind"`
	// Currency is the settlement currency. Only SOL is supported.
	Currency string `json:"currency" gorm:"column:currency"`
	// AmountUsdCents is the requested price in USD cents.
	AmountUsdCents int64 `json:"amount_usd_cents" gorm:"column:amount_usd_cents"`
	// AmountLamports is the settlement amount locked at creation time.
	// Confirmation validates against this value, never against a fresh quote.
	AmountLamports int64 `json:"amount_lamports" gorm:"column:amount_lamports"`
	// Destination is the platform wallet the payer must send to.
	Destination string `json:"destination" gorm:"column:destination"`
	// Status is PENDING or CONFIRMED.
	Status string `json:"status" gorm:"column:status;index"`
	// Signature is the on-chain transaction signature, set exactly once at confirmation.
	Signature string `json:"signature" gorm:"column:signature"`
	// CreatedAt is the unix timestamp of order creation.
	CreatedAt int64 `json:"created_at" gorm:"column:created_at;index"`
	// ConfirmedAt is the unix timestamp of confirmation, zero while pending.
	ConfirmedAt int64 `json:"confirmed_at" gorm:"column:confirmed_at"`
}
