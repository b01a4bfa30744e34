package models

import "fmt"

type NotificationService interface {
	SendPaymentNotification(notification *PaymentNotification)
}

// PaymentNotification describes a confirmed payment for the notification feed.
type PaymentNotification struct {
	OrderID        string `json:"order_id"`
	CreatorID      string `json:"creator_id"`
	Kind           string `json:"kind"`
	AmountUsdCents int64  `json:"amount_usd_cents"`
	Signature      string `json:"signature"`
}

func (n *PaymentNotification) String() string {
	return fmt.Sprintf("%s payment of $%d.%02d confirmed for creator %s (tx %s)",
		n.Kind, n.AmountUsdCents/100, n.AmountUsdCents%100, n.CreatorID, n.Signature)
}
