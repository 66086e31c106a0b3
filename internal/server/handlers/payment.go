package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/tuncanbit/lnpay/internal/application/services"
	"github.com/tuncanbit/lnpay/internal/domain"
	"github.com/tuncanbit/lnpay/internal/domain/interfaces"
	"github.com/tuncanbit/lnpay/internal/domain/models"
)

type PaymentHandler struct {
	paymentService services.IPaymentFlowService
	wsManager      interfaces.WebSocketManager
}

func NewPaymentHandler(paymentService services.IPaymentFlowService, wsManager interfaces.WebSocketManager) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		wsManager:      wsManager,
	}
}

// CreatePaymentIntent validates a lightning payment against the flow
// builder and the rolling-window limits, returning a quote or a typed
// rejection. It never executes the payment.
func (h *PaymentHandler) CreatePaymentIntent(c *gin.Context) {
	var req models.PaymentIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad Request",
			"message": err.Error(),
		})
		return
	}

	h.broadcastStatusUpdate("payment_intent_started", "", req.WalletID, "processing", "Payment intent validation started")

	response, err := h.paymentService.CreatePaymentIntent(c.Request.Context(), &req)
	if err != nil {
		status := http.StatusInternalServerError
		message := "Failed to validate payment intent"
		switch {
		case errors.Is(err, domain.ErrWalletNotFound),
			errors.Is(err, domain.ErrAccountNotFound),
			errors.Is(err, domain.ErrInvoiceNotFound):
			status = http.StatusNotFound
			message = err.Error()
		}

		log.Error().Err(err).Str("wallet_id", req.WalletID).Msg("Payment intent validation error")
		c.JSON(status, gin.H{
			"error":   http.StatusText(status),
			"message": message,
		})
		return
	}

	h.broadcastStatusUpdate("payment_intent_completed", response.PaymentHash, req.WalletID, string(response.Status), response.Message)

	httpStatus := http.StatusOK
	if response.Status == models.IntentStatusLimitExceeded {
		httpStatus = http.StatusUnprocessableEntity
	}
	if response.Status == models.IntentStatusRejected {
		httpStatus = http.StatusBadRequest
	}

	c.JSON(httpStatus, response)
}

func (h *PaymentHandler) broadcastStatusUpdate(updateType, paymentHash, walletID, status, message string) {
	if h.wsManager == nil {
		return
	}

	update := &models.StatusUpdate{
		Type:        updateType,
		PaymentHash: paymentHash,
		WalletID:    walletID,
		Status:      status,
		Message:     message,
		Timestamp:   time.Now(),
	}

	if err := h.wsManager.Broadcast(update); err != nil {
		log.Error().Err(err).Str("type", updateType).Msg("Failed to broadcast status update")
	}
}
