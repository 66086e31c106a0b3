package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	authservice "github.com/tuncanbit/lnpay/internal/application/auth"
	"github.com/tuncanbit/lnpay/internal/application/services"
	"github.com/tuncanbit/lnpay/internal/server/middleware"
	"github.com/tuncanbit/lnpay/internal/server/websocket"
	"github.com/tuncanbit/lnpay/pkg/config"
)

type Handlers struct {
	PaymentSvc services.IPaymentFlowService
	AuthSvc    authservice.IAuthService
	Logger     zerolog.Logger
	Config     *config.Config
}

func New(paymentSvc services.IPaymentFlowService, authSvc authservice.IAuthService, logger zerolog.Logger, config *config.Config) *Handlers {
	return &Handlers{
		PaymentSvc: paymentSvc,
		AuthSvc:    authSvc,
		Logger:     logger,
		Config:     config,
	}
}

func (h *Handlers) SetupHandlers(router *gin.Engine) {
	mw := middleware.NewMiddleware(h.AuthSvc, h.Logger)
	mw.SetupMiddleware(router)

	wsManager := websocket.NewManager()
	paymentHandler := NewPaymentHandler(h.PaymentSvc, wsManager)
	wsHandler := NewWebSocketHandler(wsManager)
	healthHandler := NewHealthHandler()

	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	// WebSocket endpoint for payment status updates; browser clients
	// cannot set headers on the upgrade request, so the key may also
	// arrive as a query parameter.
	router.GET("/status", mw.APIKeyMiddleware(), wsHandler.HandleConnection)

	v1 := router.Group("/v1")
	v1.Use(mw.AuthMiddleware())
	{
		payments := v1.Group("/payments")
		{
			payments.POST("/ln/intent", paymentHandler.CreatePaymentIntent)
		}
	}
}
