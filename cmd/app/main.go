package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gfuture/internal/catalog"
	"gfuture/internal/config"
	"gfuture/internal/db"
	"gfuture/internal/email"
	"gfuture/internal/ledger"
	"gfuture/internal/logger"
	"gfuture/internal/offer"
	"gfuture/internal/order"
	"gfuture/internal/payment"
	"gfuture/internal/plan"
	"gfuture/internal/server"
	"gfuture/internal/settlement"
	"gfuture/internal/user"
	"gfuture/internal/wallet"

	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Init("info", "json")
		logger.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.LogLevel, cfg.LogFormat)
	defer logger.Sync()
	logger.Info("Starting GFuture backend")

	logger.Info("Connecting to database...")
	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()
	logger.Info("Database connected")

	if err := db.RunMigrations(database, cfg.MigrationsPath); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}
	logger.Info("Migrations completed")

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	emailService := email.New(rdb, email.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		User:     cfg.SMTPUser,
		Pass:     cfg.SMTPPass,
		From:     cfg.EmailFrom,
		FromName: cfg.EmailFromName,
	})
	defer emailService.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go emailService.Start(ctx)
	logger.Info("Email worker started")

	ledgerRepo := ledger.NewRepository(database)
	orderRepo := order.NewRepository(database)
	paymentRepo := payment.NewRepository(database)
	offerRepo := offer.NewRepository(database)
	userRepo := user.NewRepository(database)
	catalogRepo := catalog.NewRepository(database)
	tx := db.NewTransactor(database)

	orchestrator := settlement.New(settlement.Deps{
		Tx:       tx,
		Catalog:  catalogRepo,
		Offers:   offerRepo,
		Orders:   orderRepo,
		Payments: paymentRepo,
		Ledger:   ledgerRepo,
		Users:    userRepo,
		Mailer:   emailService,
		FeeRate:  cfg.PlatformFeeRate,
	})

	merchant := payment.Merchant{UPIID: cfg.MerchantUPIID, Name: cfg.MerchantName}

	srv := server.New(cfg, server.Handlers{
		Wallet:   wallet.NewHandler(wallet.NewService(ledgerRepo, orchestrator)),
		Orders:   order.NewHandler(order.NewService(orderRepo, tx), orchestrator),
		Payments: payment.NewHandler(payment.NewService(paymentRepo, orderRepo, merchant), orchestrator),
		Offers:   offer.NewHandler(offer.NewService(offerRepo)),
		Catalog:  catalog.NewHandler(catalog.NewService(catalogRepo)),
		Plans:    plan.NewHandler(plan.NewService(plan.NewRepository(database))),
		Users:    user.NewHandler(userRepo),
		Queue:    emailService,
		Ping:     database.PingContext,
	})

	serverErrChan := make(chan error, 1)
	go func() {
		logger.Infof("Server starting on port %s", cfg.Port)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Infof("Received signal: %v", sig)
	case err := <-serverErrChan:
		logger.Errorf("Server error: %v", err)
	}

	logger.Info("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Error during server shutdown: %v", err)
	}
	cancel()

	logger.Info("Server stopped")
}
