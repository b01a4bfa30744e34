package models

import (
	"context"
	"errors"
)

// ErrNoTransaction is returned when no transaction matches the query yet.
// Expected during polling: a just-broadcast transfer may not be queryable.
var ErrNoTransaction = errors.New("no matching transaction")

// ErrTransferInvalid is returned when a candidate transaction does not satisfy
// the expected recipient, amount or finality.
var ErrTransferInvalid = errors.New("transfer validation failed")

// TransactionInfo is a summary of an on-chain transaction signature.
type TransactionInfo struct {
	Signature string
	Slot      uint64
	// BlockTime is the unix timestamp of the containing block, zero if unknown.
	BlockTime int64
	// Failed is true when the transaction executed with an error.
	Failed bool
	// ConfirmationStatus is processed, confirmed or finalized.
	ConfirmationStatus string
}

// ChainService queries the external settlement ledger. It is read-only:
// the platform observes transfers, it never signs them.
type ChainService interface {
	// GetBalance returns the confirmed lamport balance of an address.
	GetBalance(ctx context.Context, address string) (int64, error)
	// FindTransactionByReference returns the oldest confirmed transaction that
	// includes the reference key, or ErrNoTransaction.
	FindTransactionByReference(ctx context.Context, reference string) (*TransactionInfo, error)
	// GetRecentActivity returns the most recent signatures involving the
	// address, newest first.
	GetRecentActivity(ctx context.Context, address string, limit int) ([]*TransactionInfo, error)
	// TransferDelta returns the lamport balance change of the address within
	// the transaction (post-balance minus pre-balance). Zero when the address
	// is not part of the transaction; negative for outbound transfers.
	TransferDelta(ctx context.Context, signature, address string) (int64, error)
	// ValidateTransfer checks that the confirmed transaction credited the
	// recipient with exactly the expected lamports. ErrTransferInvalid otherwise.
	ValidateTransfer(ctx context.Context, signature, recipient string, expectedLamports int64) error
}
