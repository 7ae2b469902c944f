package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/multichain-wallet/multichain-wallet/internal/api"
	"github.com/multichain-wallet/multichain-wallet/internal/app"
	"github.com/multichain-wallet/multichain-wallet/internal/chains"
	"github.com/multichain-wallet/multichain-wallet/internal/config"
	"github.com/multichain-wallet/multichain-wallet/internal/logger"
	"github.com/multichain-wallet/multichain-wallet/internal/prices"
	"github.com/multichain-wallet/multichain-wallet/internal/storage"
	"github.com/multichain-wallet/multichain-wallet/internal/vault"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Init(); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	// Initialize storage. Without a DSN the daemon runs on in-memory state,
	// which does not survive a restart.
	var (
		kv         storage.KV
		tokenStore storage.TokenStore
	)
	if cfg.PostgresDSN != "" {
		store, err := storage.New(cfg.PostgresDSN)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer store.Close()
		kv = storage.NewSecretRepository(store)
		tokenStore = storage.NewTokenRepository(store)

		slog.Info("connected to database")
	} else {
		kv = storage.NewMemoryKV()
		tokenStore = storage.NewMemoryTokenStore()

		slog.Warn("no database configured, wallet state is in-memory only")
	}

	// Initialize chain providers
	httpClient := &http.Client{Timeout: cfg.FetchTimeout}
	chainConfigs := cfg.Chains()
	providers := make(map[string]chains.Provider, len(chainConfigs))
	for _, chainCfg := range chainConfigs {
		provider, err := chains.NewProvider(chainCfg, httpClient)
		if err != nil {
			slog.Error("failed to initialize chain provider", "chain", chainCfg.ID, "error", err)
			os.Exit(1)
		}
		providers[chainCfg.ID] = provider
	}

	slog.Info("initialized chain providers", "chains", len(providers))

	// Initialize application services
	registry := app.NewRegistry(chainConfigs, providers)
	defer registry.Close()

	lifecycle := app.NewLifecycleService(kv, vault.NewCipher())
	tokens := app.NewTokenService(tokenStore, registry)
	oracle := prices.NewClient(cfg.CoinGeckoURL, httpClient)
	balances := app.NewBalanceService(registry, tokens, oracle, cfg.FetchTimeout)
	session := app.NewWalletSession()

	// Initialize API server
	server := api.NewServer(cfg, lifecycle, balances, tokens, registry, session)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		slog.Error("server error", "error", err)
		os.Exit(1)

	case sig := <-shutdown:
		slog.Info("received shutdown signal", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			slog.Error("error during shutdown", "error", err)
			slog.Warn("forcing shutdown")
		}

		// The session holds the unlocked secret; drop it before exit.
		session.Clear()
		slog.Info("server stopped")
	}
}
