package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/emberforge/craftcost/internal/catalog"
	"github.com/emberforge/craftcost/internal/config"
	"github.com/emberforge/craftcost/internal/database"
	"github.com/emberforge/craftcost/internal/database/postgres"
	"github.com/emberforge/craftcost/internal/handler"
	"github.com/emberforge/craftcost/internal/logger"
	"github.com/emberforge/craftcost/internal/market"
	"github.com/emberforge/craftcost/internal/pricing"
	"github.com/emberforge/craftcost/internal/resolver"
	"github.com/emberforge/craftcost/internal/server"
	syncsvc "github.com/emberforge/craftcost/internal/sync"
	"github.com/emberforge/craftcost/internal/validation"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger.InitLogger(logger.NewConfig(cfg.LogLevel, cfg.LogFormat, cfg.ServiceName, cfg.Version, cfg.Environment, false))

	ctx := context.Background()
	pool, err := database.NewPool(ctx, cfg.GetDBConnString(), database.DefaultMaxConnections, 5*time.Minute, 30*time.Minute)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	sv := validation.NewSchemaValidator()
	vendors, err := catalog.LoadVendorTable(config.ConfigPathVendorReagents, sv)
	if err != nil {
		slog.Error("Failed to load vendor reagent config", "error", err)
		os.Exit(1)
	}
	ranks, err := catalog.LoadRankTable(config.ConfigPathRecipeRanks, sv)
	if err != nil {
		slog.Error("Failed to load recipe rank config", "error", err)
		os.Exit(1)
	}

	priceRepo := postgres.NewPriceRepository(pool)
	recipeRepo := postgres.NewRecipeRepository(pool)

	pricingService := pricing.NewService(priceRepo)
	catalogService := catalog.NewService(recipeRepo, ranks)

	resolvers := handler.Resolvers{
		PerCraft: resolver.NewService(catalogService, pricingService, vendors, resolver.PolicyPerCraft),
		PerUnit:  resolver.NewService(catalogService, pricingService, vendors, resolver.PolicyPerUnit),
	}

	marketClient, err := market.NewClient(market.Config{
		ClientID:     cfg.MarketClientID,
		ClientSecret: cfg.MarketClientSecret,
		APIBaseURL:   cfg.MarketAPIBaseURL,
		TokenURL:     cfg.MarketTokenURL,
	})
	if err != nil {
		slog.Error("Failed to create market client", "error", err)
		os.Exit(1)
	}
	syncService := syncsvc.NewService(marketClient, pricingService, catalogService)

	handler.InitValidator()

	srv := server.NewServer(server.Options{
		Port:           cfg.Port,
		APIKey:         cfg.APIKey,
		TrustedProxies: cfg.TrustedProxies,
		DefaultRealm:   cfg.RealmID,
		ResyncInterval: cfg.ResyncInterval,
	}, pool, resolvers, catalogService, pricingService, syncService)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	case sig := <-stop:
		slog.Info("Shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}
