package notificator

import (
	"runtime/debug"

	"github.com/solsins/aurum/internal/models"
	"github.com/solsins/aurum/pkg/logger"
)

// Notificator announces confirmed payments on the operator feed. Delivery is
// best effort: a failed or panicking notification is logged and dropped, it
// never blocks or fails settlement.
type Notificator struct {
	logger *logger.Logger

	TelegramNotificator *TelegramNotificator
}

func NewNotificator(logger *logger.Logger, telNotif *TelegramNotificator) *Notificator {
	return &Notificator{logger: logger, TelegramNotificator: telNotif}
}

// safeCall runs a function with panic recovery
func (n *Notificator) safeCall(fn func(), context string) {
	defer func() {
		if r := recover(); r != nil {
			n.logger.Error("Function panicked",
				"context", context,
				"panic", r,
				"stack", string(debug.Stack()))
		}
	}()
	fn()
}

func (n *Notificator) SendPaymentNotification(notification *models.PaymentNotification) {
	n.logger.Info("Payment notification ", "order ", notification.OrderID, "creator ", notification.CreatorID)

	if n.TelegramNotificator != nil {
		message := notification.String()
		n.safeCall(func() { n.TelegramNotificator.SendNotification(message) }, "telegramNotification")
	}
}
