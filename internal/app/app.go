// Package app wires configuration, clients, and services into one
// application core shared by the server binary and tests.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/finsightapp/finsight/internal/clients/ddg"
	"github.com/finsightapp/finsight/internal/clients/gemini"
	"github.com/finsightapp/finsight/internal/clients/stooq"
	"github.com/finsightapp/finsight/internal/clients/yahoo"
	"github.com/finsightapp/finsight/internal/common"
	"github.com/finsightapp/finsight/internal/interfaces"
	"github.com/finsightapp/finsight/internal/services/analyst"
	"github.com/finsightapp/finsight/internal/services/recommend"
)

// App holds all initialized clients and services.
type App struct {
	Config           *common.Config
	Logger           *common.Logger
	CompletionClient interfaces.CompletionClient
	SearchClient     interfaces.SearchClient
	MarketClient     interfaces.MarketDataClient
	FallbackClient   interfaces.QuoteFallbackClient
	AnalystService   interfaces.AnalystService
	RecommendService interfaces.RecommendService
	StartupTime      time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes configuration, logging, clients, and services.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(ctx context.Context, configPath string) (*App, error) {
	startupStart := time.Now()

	// Load version from .version file (fallback if ldflags not set)
	common.LoadVersionFromFile()

	// Load configuration - check provided path, FINSIGHT_CONFIG, then binary dir, then fallback
	if configPath == "" {
		configPath = os.Getenv("FINSIGHT_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(getBinaryDir(), "finsight.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/finsight.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := common.NewLoggerFromConfig(config.Logging)
	logger.Info().
		Str("config", configPath).
		Str("environment", config.Environment).
		Msg("FinSight starting")

	completion, err := gemini.NewClient(ctx, config.Clients.Gemini.APIKey,
		gemini.WithModel(config.Clients.Gemini.Model),
		gemini.WithTimeout(config.Clients.Gemini.GetTimeout()),
		gemini.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create completion client: %w", err)
	}

	search := ddg.NewClient(
		ddg.WithBaseURL(config.Clients.Search.BaseURL),
		ddg.WithTimeout(config.Clients.Search.GetTimeout()),
		ddg.WithRateLimit(config.Clients.Search.RateLimit),
		ddg.WithLogger(logger),
	)

	market := yahoo.NewClient(
		yahoo.WithBaseURL(config.Clients.Yahoo.BaseURL),
		yahoo.WithTimeout(config.Clients.Yahoo.GetTimeout()),
		yahoo.WithRateLimit(config.Clients.Yahoo.RateLimit),
		yahoo.WithLogger(logger),
	)

	fallback := stooq.NewClient(
		stooq.WithBaseURL(config.Clients.Stooq.BaseURL),
		stooq.WithTimeout(config.Clients.Stooq.GetTimeout()),
		stooq.WithLogger(logger),
	)

	analystOpts := []analyst.Option{}
	if config.Clients.Search.MaxResults > 0 {
		analystOpts = append(analystOpts, analyst.WithMaxResults(config.Clients.Search.MaxResults))
	}
	analystService, err := analyst.NewService(completion, search, market, fallback, logger, analystOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create analyst service: %w", err)
	}

	app := &App{
		Config:           config,
		Logger:           logger,
		CompletionClient: completion,
		SearchClient:     search,
		MarketClient:     market,
		FallbackClient:   fallback,
		AnalystService:   analystService,
		RecommendService: recommend.NewService(logger),
		StartupTime:      startupStart,
	}

	logger.Info().
		Dur("startup", time.Since(startupStart)).
		Msg("Application initialized")

	return app, nil
}

// Close releases client resources.
func (a *App) Close() {
	a.Logger.Debug().Msg("Application closed")
}
