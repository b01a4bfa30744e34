package http_api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/solsins/aurum/internal/aurum"
	"github.com/solsins/aurum/internal/models"
)

// CheckoutRequest represents the JSON body for order creation
type CheckoutRequest struct {
	BuyerID        string `json:"buyer_id" binding:"required"`
	CreatorID      string `json:"creator_id" binding:"required"`
	MediaID        string `json:"media_id"`
	Kind           string `json:"kind" binding:"omitempty,oneof=PPV TIP SUB"`
	Currency       string `json:"currency"`
	AmountUsdCents int64  `json:"amount_usd_cents"`
}

// CheckoutResponse represents the payment request descriptor returned to the payer
type CheckoutResponse struct {
	OrderID        string `json:"order_id"`
	Reference      string `json:"reference"`
	Destination    string `json:"destination"`
	AmountLamports int64  `json:"amount_lamports"`
	PayURL         string `json:"pay_url"`
}

// StatusResponse represents the outcome of a status poll
type StatusResponse struct {
	Status    string `json:"status"`
	Signature string `json:"signature,omitempty"`
}

// UserRequest represents JSON bodies carrying just a user id
type UserRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

// PurchaseRequest represents the JSON body for a wallet-funded purchase
type PurchaseRequest struct {
	UserID  string `json:"user_id" binding:"required"`
	MediaID string `json:"media_id" binding:"required"`
}

// checkout is a handler for the /checkout endpoint.
func (s *HTTPServer) checkout(c *gin.Context) {
	var req CheckoutRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		s.logger.Debug("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	result, err := s.aurum.CreateOrder(c.Request.Context(), models.CheckoutRequest{
		BuyerID:        req.BuyerID,
		CreatorID:      req.CreatorID,
		MediaID:        req.MediaID,
		Kind:           req.Kind,
		Currency:       req.Currency,
		AmountUsdCents: req.AmountUsdCents,
	})
	if err != nil {
		switch {
		case errors.Is(err, aurum.ErrMissingFields),
			errors.Is(err, aurum.ErrUnsupportedCurrency),
			errors.Is(err, aurum.ErrNonPositiveAmount),
			errors.Is(err, aurum.ErrMediaNotPurchasable):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, models.ErrPricingUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		default:
			s.logger.Error("Failed to create order", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
		}
		return
	}

	c.JSON(http.StatusCreated, CheckoutResponse{
		OrderID:        result.Order.ID,
		Reference:      result.Order.Reference,
		Destination:    result.Order.Destination,
		AmountLamports: result.Order.AmountLamports,
		PayURL:         result.PayURL,
	})
}

// checkoutStatus is a handler for the /checkout/status endpoint.
// "pending" is the expected answer while the payment is in flight; the caller
// re-polls with a timeout of its own choosing.
func (s *HTTPServer) checkoutStatus(c *gin.Context) {
	reference := c.Query("reference")
	if reference == "" {
		c.JSON(http.StatusBadRequest, StatusResponse{Status: "bad_request"})
		return
	}

	result, err := s.aurum.CheckStatus(c.Request.Context(), reference)
	if err != nil {
		s.logger.Error("Failed to check order status", "error", err, "reference", reference)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check status"})
		return
	}

	if result.Status == models.PayStatusNotFound {
		c.JSON(http.StatusNotFound, StatusResponse{Status: result.Status})
		return
	}

	c.JSON(http.StatusOK, StatusResponse{Status: result.Status, Signature: result.Signature})
}

// walletSummary is a handler for the /wallet/me endpoint.
func (s *HTTPServer) walletSummary(c *gin.Context) {
	var req UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	summary, err := s.aurum.WalletSummary(c.Request.Context(), req.UserID)
	if err != nil {
		s.logger.Error("Failed to load wallet", "error", err, "user", req.UserID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load wallet"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"balance_lamports": summary.BalanceLamports,
		"deposits":         summary.Deposits,
	})
}

// startDeposit is a handler for the /wallet/deposit endpoint.
func (s *HTTPServer) startDeposit(c *gin.Context) {
	var req UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	deposit, err := s.aurum.StartDeposit(c.Request.Context(), req.UserID)
	if err != nil {
		s.logger.Error("Failed to start deposit", "error", err, "user", req.UserID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start deposit"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"deposit_id": deposit.ID,
		"address":    deposit.Address,
	})
}

// sweepDeposits is a handler for the /wallet/sync endpoint, invoked by the
// scheduler or an operator to run one sweep immediately.
func (s *HTTPServer) sweepDeposits(c *gin.Context) {
	processed, err := s.aurum.SweepDeposits(c.Request.Context())
	if err != nil {
		s.logger.Error("Failed to sweep deposits", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sync deposits"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "processed": processed})
}

// buyWithWallet is a handler for the /media/purchase endpoint.
func (s *HTTPServer) buyWithWallet(c *gin.Context) {
	var req PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	purchase, newBalance, err := s.aurum.BuyWithWallet(c.Request.Context(), req.UserID, req.MediaID)
	if err != nil {
		switch {
		case errors.Is(err, aurum.ErrMediaNotPurchasable):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, models.ErrInsufficientFunds):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Insufficient wallet balance"})
		case errors.Is(err, models.ErrPricingUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		default:
			s.logger.Error("Failed to buy with wallet", "error", err, "user", req.UserID, "media", req.MediaID)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to buy with wallet"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":                   true,
		"purchase_id":          purchase.ID,
		"new_balance_lamports": newBalance,
	})
}

// solPrice is a handler for the /pricing/sol endpoint.
func (s *HTTPServer) solPrice(c *gin.Context) {
	price, err := s.aurum.CurrentPrice(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false, "error": "Failed to fetch SOL price"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "sol_usd": price})
}
