package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENV", "development")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// 백테스트 기본값 확인
	if cfg.Backtest.InitialCapital != 100_000 {
		t.Errorf("expected initial capital 100000, got %f", cfg.Backtest.InitialCapital)
	}
	if cfg.Backtest.FeeRate != 0.001 {
		t.Errorf("expected fee rate 0.001, got %f", cfg.Backtest.FeeRate)
	}
	if cfg.Backtest.SlippageRate != 0.0005 {
		t.Errorf("expected slippage rate 0.0005, got %f", cfg.Backtest.SlippageRate)
	}
	if cfg.Backtest.BenchmarkTicker != "SPY" {
		t.Errorf("expected benchmark SPY, got %s", cfg.Backtest.BenchmarkTicker)
	}

	// 일별 데이터 캐시 TTL
	if cfg.MarketData.CacheTTL != 24*time.Hour {
		t.Errorf("expected cache TTL 24h, got %s", cfg.MarketData.CacheTTL)
	}

	if cfg.Consistency.SharpeStdThreshold != 0.5 {
		t.Errorf("expected sharpe std threshold 0.5, got %f", cfg.Consistency.SharpeStdThreshold)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("BACKTEST_INITIAL_CAPITAL", "250000")
	t.Setenv("BACKTEST_BENCHMARK_TICKER", "QQQ")
	t.Setenv("CONSISTENCY_MAX_PARALLEL", "8")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Env != "production" {
		t.Errorf("expected production, got %s", cfg.Env)
	}
	if cfg.Backtest.InitialCapital != 250_000 {
		t.Errorf("expected 250000, got %f", cfg.Backtest.InitialCapital)
	}
	if cfg.Backtest.BenchmarkTicker != "QQQ" {
		t.Errorf("expected QQQ, got %s", cfg.Backtest.BenchmarkTicker)
	}
	if cfg.Consistency.MaxParallel != 8 {
		t.Errorf("expected 8, got %d", cfg.Consistency.MaxParallel)
	}
}

func TestLoad_InvalidEnv(t *testing.T) {
	t.Setenv("ENV", "sandbox")

	if _, err := Load(); err == nil {
		t.Error("expected validation error for invalid ENV")
	}
}

func TestLoad_InvalidCapital(t *testing.T) {
	t.Setenv("ENV", "development")
	t.Setenv("BACKTEST_INITIAL_CAPITAL", "-100")

	if _, err := Load(); err == nil {
		t.Error("expected validation error for negative capital")
	}
}
