package main

import (
	authservice "github.com/tuncanbit/lnpay/internal/application/auth"
	"github.com/tuncanbit/lnpay/internal/application/services"
	"github.com/tuncanbit/lnpay/internal/infrastructure/clients"
	"github.com/tuncanbit/lnpay/internal/infrastructure/database"
	"github.com/tuncanbit/lnpay/internal/repositories/accountrepo"
	"github.com/tuncanbit/lnpay/internal/repositories/invoicerepo"
	"github.com/tuncanbit/lnpay/internal/repositories/ledgerrepo"
	"github.com/tuncanbit/lnpay/internal/repositories/walletrepo"
	"github.com/tuncanbit/lnpay/internal/server"
	"github.com/tuncanbit/lnpay/pkg/config"
	"github.com/tuncanbit/lnpay/pkg/logger"
)

func main() {
	logger := logger.New()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load configuration")
	}

	db, err := database.New(&cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.ShutDown()

	walletRepo := walletrepo.New(db.Db, logger)
	accountRepo := accountrepo.New(db.Db, logger)
	invoiceRepo := invoicerepo.New(db.Db, logger)
	ledgerRepo := ledgerrepo.New(db.Db, logger)

	lndClient, err := clients.NewLndClient(&cfg.Lnd, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize lnd client")
	}
	priceOracle := clients.NewPriceOracleClient(&cfg.PriceOracle, logger)

	paymentService := services.NewPaymentFlowService(
		walletRepo,
		accountRepo,
		invoiceRepo,
		ledgerRepo,
		lndClient,
		priceOracle,
		cfg.Limits,
		logger,
	)
	authService := authservice.NewAuthService(cfg, logger)

	srv := server.New(cfg, paymentService, authService, logger)
	srv.Start()
}
