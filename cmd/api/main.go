package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"

	"eosoracle/internal/config"
	"eosoracle/internal/ledger"
	"eosoracle/internal/logger"
	"eosoracle/internal/middleware"
	"eosoracle/internal/router"
	"eosoracle/internal/services"
	"eosoracle/internal/validator"
)

// @title           EOS Oracle API
// @version         1.0
// @description     Price and security oracle backed by an EOSIO contract. Mutating endpoints require HTTP Basic credentials.

// @BasePath  /

// @securityDefinitions.basic BasicAuth

const shutdownTimeout = 15 * time.Second

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Connect the ledger gateway
	gateway, err := ledger.NewGateway(ledger.Config{
		RPCURL:        appConfig.RPCServer,
		Account:       appConfig.AccountName,
		PrivateKey:    appConfig.PrivateKey,
		Timeout:       appConfig.LedgerTimeout,
		ExpireSeconds: appConfig.ExpireSeconds,
	}, nil)
	if err != nil {
		return fmt.Errorf("failed to create ledger gateway: %w", err)
	}
	if pub := gateway.PublicKey(); pub != "" {
		log.Infof("Signing as %s@active with public key %s", gateway.Account(), pub)
	} else {
		log.Warnf("EOS_PRIVATE_KEY not set, %s is read-only", gateway.Account())
	}

	validator.Register()

	securityService := services.NewSecurityService(gateway)
	engine := router.New(securityService, router.Options{
		Credentials: middleware.ParseCredentials(appConfig.Users),
		UIPath:      appConfig.UIPath,
	})

	srv := &http.Server{
		Addr:              ":" + appConfig.Port,
		Handler:           cors.AllowAll().Handler(engine),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting EOS oracle API on port %s against %s", appConfig.Port, appConfig.RPCServer)
		log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-quit:
		log.Infof("Received %s, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	log.Info("Server stopped")
	return nil
}
