package aurum

import (
	"context"
	"errors"

	"github.com/solsins/aurum/internal/models"
)

// CheckStatus reconciles one order against the chain.
//
// The three reports map to the caller's polling loop: not_found is a bad
// reference, confirmed is terminal, everything else is pending. Transient
// chain failures and non-matching transactions both collapse to pending:
// the caller retries on its next poll interval.
func (a *Aurum) CheckStatus(ctx context.Context, reference string) (*models.StatusResult, error) {
	order, err := a.repo.GetOrderByReference(reference)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return &models.StatusResult{Status: models.PayStatusNotFound}, nil
		}
		return nil, err
	}

	// Idempotent short-circuit: once confirmed, never re-validate.
	if order.Status == models.OrderStatusConfirmed {
		return &models.StatusResult{Status: models.PayStatusConfirmed, Signature: order.Signature}, nil
	}

	txInfo, err := a.chain.FindTransactionByReference(ctx, reference)
	if err != nil {
		if !errors.Is(err, models.ErrNoTransaction) {
			a.logger.Warn("Chain query failed, order stays pending ", "reference ", reference, "error ", err)
		}
		return &models.StatusResult{Status: models.PayStatusPending}, nil
	}

	// Strict validation against the locked destination and amount. Anyone can
	// broadcast a transaction mentioning the reference; a non-matching one is
	// silently ignored and the order keeps waiting for the real payment.
	if err := a.chain.ValidateTransfer(ctx, txInfo.Signature, order.Destination, order.AmountLamports); err != nil {
		if errors.Is(err, models.ErrTransferInvalid) {
			a.logger.Warn("Non-matching transaction for reference ", "reference ", reference, "signature ", txInfo.Signature, "error ", err)
		} else {
			a.logger.Warn("Transfer validation query failed ", "reference ", reference, "error ", err)
		}
		return &models.StatusResult{Status: models.PayStatusPending}, nil
	}

	confirmed, confirmedNow, err := a.repo.ConfirmOrder(reference, txInfo.Signature)
	if err != nil {
		// Nothing was applied; the next poll retries the whole transition.
		a.logger.Error("Order confirmation failed ", "reference ", reference, "error ", err)
		return &models.StatusResult{Status: models.PayStatusPending}, nil
	}

	if confirmedNow {
		a.logger.Info("Order confirmed ", "order ", confirmed.ID, "reference ", reference, "signature ", txInfo.Signature)
		a.notificator.SendPaymentNotification(&models.PaymentNotification{
			OrderID:        confirmed.ID,
			CreatorID:      confirmed.CreatorID,
			Kind:           confirmed.Kind,
			AmountUsdCents: confirmed.AmountUsdCents,
			Signature:      confirmed.Signature,
		})
	}

	return &models.StatusResult{Status: models.PayStatusConfirmed, Signature: confirmed.Signature}, nil
}
