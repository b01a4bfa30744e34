package models

// Deposit statuses.
const (
	DepositStatusPending   = "PENDING"
	DepositStatusConfirmed = "CONFIRMED"
	DepositStatusCancelled = "CANCELLED"
)

// WalletDeposit is an open-ended top-up of a user's internal balance.
// Created with a zero amount when a deposit address is issued; the sweeper
// fills in the amount and signature when activity is observed on chain.
type WalletDeposit struct {
	// ID is the unique identifier of the deposit.
	ID string `json:"id" gorm:"column:id;primaryKey"`
	// UserID is the depositing user.
	UserID string `json:"user_id" gorm:"column:user_id;index:idx_deposit_user_address"`
	// Address is the platform-controlled deposit address assigned to this deposit.
	Address string `json:"address" gorm:"column:address;index:idx_deposit_user_address"`
	// AmountLamports is the credited amount, write-once by the sweeper.
	AmountLamports int64 `json:"amount_lamports" gorm:"column:amount_lamports"`
	// Status is PENDING, CONFIRMED or CANCELLED.
	Status string `json:"status" gorm:"column:status;index"`
	// TxSignature is the on-chain signature the credit was computed from.
	TxSignature string `json:"tx_signature" gorm:"column:tx_signature"`
	// CreatedAt is the unix timestamp of deposit issuance.
	CreatedAt int64 `json:"created_at" gorm:"column:created_at;index"`
	// ConfirmedAt is the unix timestamp of confirmation, zero while pending.
	ConfirmedAt int64 `json:"confirmed_at" gorm:"column:confirmed_at"`
}

// WalletAccount is a user's internal lamport balance. Mutated only inside the
// same database transaction as the deposit or purchase that justifies the change.
type WalletAccount struct {
	// UserID is the owning user.
	UserID string `json:"user_id" gorm:"column:user_id;primaryKey"`
	// BalanceLamports is the running total, non-negative.
	BalanceLamports int64 `json:"balance_lamports" gorm:"column:balance_lamports"`
}
