// Package app wires configuration, storage, clients and services into one
// application core shared by cmd/folio-server and tests.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/oliverwade/folio/internal/clients/eodhd"
	"github.com/oliverwade/folio/internal/clients/frankfurter"
	"github.com/oliverwade/folio/internal/common"
	"github.com/oliverwade/folio/internal/interfaces"
	"github.com/oliverwade/folio/internal/services/portfolio"
	"github.com/oliverwade/folio/internal/services/rates"
	"github.com/oliverwade/folio/internal/storage"
)

// App holds all initialized services and clients.
type App struct {
	Config           *common.Config
	Logger           *common.Logger
	Storage          interfaces.StorageManager
	QuoteClient      interfaces.QuoteClient
	RateClient       interfaces.RateClient
	PortfolioService interfaces.PortfolioService
	RateService      interfaces.RateService
	StartupTime      time.Time

	schedulerCancel context.CancelFunc
}

// NewApp initializes storage, clients and services from configuration.
// configPath may be empty, in which case FOLIO_CONFIG and the default
// locations are tried.
func NewApp(configPath string) (*App, error) {
	if configPath == "" {
		configPath = os.Getenv("FOLIO_CONFIG")
	}
	if configPath == "" {
		configPath = "folio.toml"
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = filepath.Join("config", "folio.toml")
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	storageManager, err := storage.NewStorageManager(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	rateClient := frankfurter.NewClient(
		frankfurter.WithBaseURL(config.Clients.Rates.BaseURL),
		frankfurter.WithTimeout(config.Clients.Rates.GetTimeout()),
		frankfurter.WithLogger(logger),
	)

	var quoteClient interfaces.QuoteClient
	if config.Clients.Quotes.APIKey != "" {
		quoteClient = eodhd.NewClient(
			config.Clients.Quotes.APIKey,
			eodhd.WithBaseURL(config.Clients.Quotes.BaseURL),
			eodhd.WithTimeout(config.Clients.Quotes.GetTimeout()),
			eodhd.WithRateLimit(config.Clients.Quotes.RateLimit),
			eodhd.WithLogger(logger),
		)
	} else {
		logger.Warn().Msg("Quote provider API key not configured - price refresh will be unavailable")
	}

	rateService := rates.NewService(storageManager, rateClient, config, logger)
	portfolioService := portfolio.NewService(storageManager, quoteClient, rateService, config, logger)

	return &App{
		Config:           config,
		Logger:           logger,
		Storage:          storageManager,
		QuoteClient:      quoteClient,
		RateClient:       rateClient,
		PortfolioService: portfolioService,
		RateService:      rateService,
		StartupTime:      time.Now(),
	}, nil
}

// StartRateScheduler launches the background rate-refresh loop.
func (a *App) StartRateScheduler() {
	ctx, cancel := context.WithCancel(context.Background())
	a.schedulerCancel = cancel
	go startRateScheduler(ctx, a.RateService, a.Logger, a.Config.Clients.Rates.GetRefreshInterval())
}

// Close stops background work and releases storage.
func (a *App) Close() {
	if a.schedulerCancel != nil {
		a.schedulerCancel()
	}
	if a.Storage != nil {
		if err := a.Storage.Close(); err != nil {
			a.Logger.Error().Err(err).Msg("Failed to close storage")
		}
	}
}
