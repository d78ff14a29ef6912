package commands

import (
	"fmt"

	"github.com/wonny/edgelab/internal/backtest"
	"github.com/wonny/edgelab/internal/benchmark"
	"github.com/wonny/edgelab/internal/consistency"
	"github.com/wonny/edgelab/internal/contracts"
	"github.com/wonny/edgelab/internal/marketdata"
	"github.com/wonny/edgelab/internal/strategy"
	"github.com/wonny/edgelab/internal/strategy/builtins"
	"github.com/wonny/edgelab/pkg/config"
	"github.com/wonny/edgelab/pkg/logger"
	"github.com/wonny/edgelab/pkg/redis"
)

// deps is the shared dependency bundle for every command
// ⭐ SSOT: 커맨드 의존성 조립은 여기서만
type deps struct {
	cfg      *config.Config
	logger   *logger.Logger
	provider contracts.PriceProvider
	engine   *backtest.Engine
	analyzer *consistency.Analyzer
	registry *strategy.Registry
}

// initDeps wires the data path and the engines. Redis가 죽어 있으면
// 캐시 없이 계속 진행한다 — CLI는 외부 의존 없이도 돌아야 함.
func initDeps() (*deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg)

	redisClient, err := redis.New(cfg)
	if err != nil {
		log.WithError(err).Warn("Redis unavailable, running without price cache")
		redisClient = redis.Disabled()
	}
	cache := redis.NewCache(redisClient, "edgelab")

	client := marketdata.NewClient(cfg.MarketData, log)
	provider := marketdata.NewCachedProvider(client, cache, cfg.MarketData.CacheTTL, log)

	registry := strategy.NewRegistry()
	if err := builtins.RegisterAll(registry); err != nil {
		return nil, fmt.Errorf("register strategies: %w", err)
	}

	comparator := benchmark.NewComparator(cfg.Backtest.RiskFreeRate)
	engine := backtest.NewEngine(provider, backtest.NewSimulator(), comparator, cfg.Backtest, log)
	analyzer := consistency.NewAnalyzer(engine, cfg.Consistency, log)

	return &deps{
		cfg:      cfg,
		logger:   log,
		provider: provider,
		engine:   engine,
		analyzer: analyzer,
		registry: registry,
	}, nil
}
