package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/simaogato/wealthsnap-backend/internal/adapter/ai"
	"github.com/simaogato/wealthsnap-backend/internal/adapter/ai/chatmodel"
	"github.com/simaogato/wealthsnap-backend/internal/adapter/ai/gemini"
	"github.com/simaogato/wealthsnap-backend/internal/adapter/repository/kv"
	"github.com/simaogato/wealthsnap-backend/internal/adapter/repository/memory"
	"github.com/simaogato/wealthsnap-backend/internal/adapter/repository/postgres"
	"github.com/simaogato/wealthsnap-backend/internal/adapter/repository/redis"
	"github.com/simaogato/wealthsnap-backend/internal/adapter/repository/sqlite"
	"github.com/simaogato/wealthsnap-backend/internal/config"
	"github.com/simaogato/wealthsnap-backend/internal/domain"
	"github.com/simaogato/wealthsnap-backend/internal/telemetry"
	"github.com/simaogato/wealthsnap-backend/internal/usecase/portfolio"
)

// errProvidersDisabled is returned by commands that were started without AI providers
var errProvidersDisabled = errors.New("AI providers are not configured for this command")

// buildService opens the store, wires the providers and loads the persisted state
func buildService(ctx context.Context, cfg *config.Config, logger *logrus.Logger, m *telemetry.Metrics, needAI bool) (*portfolio.Service, func(), error) {
	store, err := openStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if err := store.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close store")
		}
	}

	var (
		extractor domain.Extractor = disabledProvider{}
		analyzer  domain.Analyzer  = disabledProvider{}
	)
	if needAI {
		extractor, analyzer, err = newProviders(ctx, cfg, logger)
		if err != nil {
			closeFn()
			return nil, nil, err
		}
	}

	repo := kv.NewPortfolioRepository(store, cfg.StoreKeyPrefix)
	svc := portfolio.NewPortfolioService(repo, extractor, analyzer, m, logger)
	// Validate has already resolved the zone
	svc.Location, _ = cfg.Location()
	svc.HistoryMode = portfolio.HistoryTotalMode(cfg.HistoryTotalMode)

	if err := svc.Load(ctx); err != nil {
		closeFn()
		return nil, nil, err
	}

	return svc, closeFn, nil
}

// openStore creates the key-value store selected by STORE_DRIVER
func openStore(cfg *config.Config) (domain.KeyValueStore, error) {
	switch cfg.StoreDriver {
	case config.StoreMemory:
		return memory.NewStore(), nil
	case config.StoreSQLite:
		store, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.StorePostgres:
		db, err := postgres.NewDB(cfg.DBConnStr)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		return postgres.NewKeyValueStore(db), nil
	case config.StoreRedis:
		store, err := redis.Open(cfg.RedisAddr, cfg.RedisPoolSize)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

// newProviders builds the extraction and analysis clients, sharing one client when both use the same provider
func newProviders(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (domain.Extractor, domain.Analyzer, error) {
	if err := cfg.ValidateProviders(); err != nil {
		return nil, nil, err
	}

	clients := make(map[string]interface{})
	build := func(provider string) (interface{}, error) {
		if c, ok := clients[provider]; ok {
			return c, nil
		}
		log := logger.WithField("provider", provider)

		var (
			c   interface{}
			err error
		)
		switch provider {
		case config.ProviderGemini:
			c, err = gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, log)
		case config.ProviderOpenAI:
			c, err = chatmodel.NewOpenAI(ctx, cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIModel, log)
		case config.ProviderDeepSeek:
			c, err = chatmodel.NewDeepSeek(ctx, cfg.DeepSeekAPIKey, cfg.DeepSeekModel, log)
		default:
			err = fmt.Errorf("unknown provider %q", provider)
		}
		if err != nil {
			return nil, err
		}
		clients[provider] = c
		return c, nil
	}

	e, err := build(cfg.ExtractionProvider)
	if err != nil {
		return nil, nil, err
	}
	extractor, ok := e.(domain.Extractor)
	if !ok {
		return nil, nil, fmt.Errorf("provider %s cannot extract holdings", cfg.ExtractionProvider)
	}

	an, err := build(cfg.AnalysisProvider)
	if err != nil {
		return nil, nil, err
	}
	analyzer, ok := an.(domain.Analyzer)
	if !ok {
		return nil, nil, fmt.Errorf("provider %s cannot analyze holdings", cfg.AnalysisProvider)
	}

	return ai.ExtractorWithTimeout(extractor, cfg.AITimeout), ai.AnalyzerWithTimeout(analyzer, cfg.AITimeout), nil
}

// disabledProvider stands in for the AI clients in read-only commands
type disabledProvider struct{}

func (disabledProvider) Extract(context.Context, []byte, string) ([]domain.ExtractedAsset, error) {
	return nil, errProvidersDisabled
}

func (disabledProvider) Analyze(context.Context, []domain.Asset) (*domain.AnalysisResult, error) {
	return nil, errProvidersDisabled
}
