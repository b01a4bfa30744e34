package aurum

import (
	"context"
	"time"

	"github.com/solsins/aurum/internal/models"
	"github.com/solsins/aurum/pkg/validation"
)

// depositActivityLimit bounds the signature page per deposit address.
const depositActivityLimit = 10

// SweepDeposits runs one sweep over all pending deposits and returns the
// number credited. Deposits are processed independently: one failing record
// is logged and skipped, it never aborts the batch.
func (a *Aurum) SweepDeposits(ctx context.Context) (int, error) {
	pending, err := a.repo.GetPendingDeposits()
	if err != nil {
		return 0, err
	}

	processed := 0
	for _, deposit := range pending {
		credited, err := a.sweepDeposit(ctx, deposit)
		if err != nil {
			a.logger.Error("Failed to process deposit ", "deposit ", deposit.ID, "error ", err)
			continue
		}
		if credited {
			processed++
		}
	}
	return processed, nil
}

func (a *Aurum) sweepDeposit(ctx context.Context, deposit *models.WalletDeposit) (bool, error) {
	// A malformed stored address is a data bug, not a transient condition.
	// Skip it every sweep rather than hammering the RPC node with it.
	if err := validation.ValidateAddress(deposit.Address); err != nil {
		a.logger.Warn("Skipping deposit with malformed address ", "deposit ", deposit.ID, "address ", deposit.Address, "error ", err)
		return false, nil
	}

	activity, err := a.chain.GetRecentActivity(ctx, deposit.Address, depositActivityLimit)
	if err != nil {
		return false, err
	}
	if len(activity) == 0 {
		// Nothing has hit this address yet.
		return false, nil
	}

	// Signature idempotence guard, independent of the status field: if a prior
	// sweep already recorded this signature, the credit happened.
	latest := activity[0]
	if deposit.TxSignature != "" && deposit.TxSignature == latest.Signature {
		return false, nil
	}

	// Credited amount is the positive balance delta of the deposit address
	// within the transaction. Claimed amounts are never trusted.
	delta, err := a.chain.TransferDelta(ctx, latest.Signature, deposit.Address)
	if err != nil {
		return false, err
	}
	if delta <= 0 {
		// No net credit; could be an outbound transfer from the address.
		return false, nil
	}

	confirmedAt := latest.BlockTime
	if confirmedAt == 0 {
		confirmedAt = time.Now().Unix()
	}

	credited, err := a.repo.ConfirmDeposit(deposit.ID, delta, latest.Signature, confirmedAt)
	if err != nil {
		return false, err
	}
	if credited {
		a.logger.Info("Deposit confirmed ", "deposit ", deposit.ID, "user ", deposit.UserID, "lamports ", delta, "signature ", latest.Signature)
	}
	return credited, nil
}
