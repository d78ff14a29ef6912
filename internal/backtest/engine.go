package backtest

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/edgelab/internal/benchmark"
	"github.com/wonny/edgelab/internal/contracts"
	"github.com/wonny/edgelab/internal/metrics"
	"github.com/wonny/edgelab/pkg/config"
	"github.com/wonny/edgelab/pkg/logger"
)

// Engine runs a full strategy evaluation for one ticker and window
// ⭐ SSOT: 백테스트 실행 오케스트레이션은 여기서만
type Engine struct {
	provider   contracts.PriceProvider
	simulator  *Simulator
	comparator *benchmark.Comparator
	logger     *logger.Logger

	riskFreeRate    float64
	benchmarkTicker string
}

// RunConfig holds per-run simulation parameters
type RunConfig struct {
	Ticker         string
	Years          int
	InitialCapital float64
	FeeRate        float64 // 레그당 수수료율
	SlippageRate   float64 // 레그당 슬리피지율
	SkipBenchmark  bool
}

// WindowLabel formats a lookback window in years as a report key, e.g. "5Y"
func WindowLabel(years int) string {
	return fmt.Sprintf("%dY", years)
}

// NewEngine creates a new backtest engine
func NewEngine(
	provider contracts.PriceProvider,
	simulator *Simulator,
	comparator *benchmark.Comparator,
	cfg config.BacktestConfig,
	log *logger.Logger,
) *Engine {
	return &Engine{
		provider:        provider,
		simulator:       simulator,
		comparator:      comparator,
		logger:          log,
		riskFreeRate:    cfg.RiskFreeRate,
		benchmarkTicker: cfg.BenchmarkTicker,
	}
}

// Run fetches the price window, generates signals, simulates the portfolio
// and derives the performance report with an attached benchmark comparison.
func (e *Engine) Run(ctx context.Context, strategy contracts.Strategy, cfg RunConfig) (*contracts.PerformanceReport, error) {
	if cfg.Years <= 0 {
		return nil, fmt.Errorf("%w: window must be at least 1 year", contracts.ErrSimulation)
	}

	to := time.Now()
	from := to.AddDate(-cfg.Years, 0, 0)

	e.logger.WithFields(map[string]interface{}{
		"ticker":   cfg.Ticker,
		"strategy": strategy.Name(),
		"window":   WindowLabel(cfg.Years),
		"capital":  cfg.InitialCapital,
	}).Info("Starting backtest")

	// 1. Fetch price history
	prices, err := e.provider.History(ctx, cfg.Ticker, from, to)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", contracts.ErrDataUnavailable, cfg.Ticker, err)
	}
	if prices.Len() == 0 {
		return nil, fmt.Errorf("%w: no bars for %s", contracts.ErrDataUnavailable, cfg.Ticker)
	}

	// 2. Generate and validate signals
	signals, err := strategy.GenerateSignals(prices)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", contracts.ErrStrategyContract, strategy.Name(), err)
	}
	if err := signals.Validate(prices.Len()); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", contracts.ErrStrategyContract, strategy.Name(), err)
	}

	// 3. Simulate
	ledger, equity, err := e.simulator.Simulate(prices, signals, cfg.InitialCapital, cfg.FeeRate, cfg.SlippageRate)
	if err != nil {
		return nil, err
	}

	// 4. Derive metrics
	report := e.buildReport(strategy.Name(), cfg, prices, ledger, equity)

	// 5. Benchmark comparison (비교 실패는 리포트를 막지 않음)
	if !cfg.SkipBenchmark && e.benchmarkTicker != "" {
		e.attachBenchmark(ctx, report, equity, from, to)
	}

	e.logger.WithFields(map[string]interface{}{
		"ticker":       report.Ticker,
		"window":       report.Window,
		"total_return": fmt.Sprintf("%.2f%%", report.TotalReturnPct),
		"sharpe":       fmt.Sprintf("%.2f", report.SharpeRatio),
		"max_drawdown": fmt.Sprintf("%.2f%%", report.MaxDrawdownPct),
		"trades":       report.TotalTrades,
	}).Info("Backtest completed")

	return report, nil
}

// buildReport assembles the performance report from simulation output
func (e *Engine) buildReport(
	strategyName string,
	cfg RunConfig,
	prices *contracts.PriceSeries,
	ledger contracts.TradeLedger,
	equity contracts.EquityCurve,
) *contracts.PerformanceReport {
	returns := equity.Returns()
	values := returns.Values()
	maxDD := metrics.MaxDrawdown(equity)
	monthly := metrics.Monthly(returns)

	return &contracts.PerformanceReport{
		Ticker:    cfg.Ticker,
		Strategy:  strategyName,
		Window:    WindowLabel(cfg.Years),
		StartDate: prices.Bars[0].Timestamp,
		EndDate:   prices.Bars[prices.Len()-1].Timestamp,

		TotalReturnPct: metrics.TotalReturnPct(equity, cfg.InitialCapital),
		FinalValue:     equity.FinalValue(),

		SharpeRatio:    metrics.Sharpe(values, e.riskFreeRate),
		SortinoRatio:   metrics.Sortino(values, e.riskFreeRate),
		CalmarRatio:    metrics.Calmar(values, maxDD),
		MaxDrawdownPct: maxDD,

		WinRatePct:           metrics.WinRate(ledger),
		ProfitFactor:         contracts.Float(metrics.ProfitFactor(ledger)),
		TotalTrades:          len(ledger),
		AvgTradeDurationDays: metrics.AvgTradeDurationDays(ledger),
		TotalFeesPaid:        ledger.TotalFees(),

		BestMonthPct:   monthly.BestMonthPct,
		WorstMonthPct:  monthly.WorstMonthPct,
		PositiveMonths: monthly.PositiveMonths,
		NegativeMonths: monthly.NegativeMonths,
	}
}

// attachBenchmark fetches the benchmark window and attaches the comparison.
// 벤치마크 조회 실패는 경고만 남기고 리포트는 그대로 반환
func (e *Engine) attachBenchmark(ctx context.Context, report *contracts.PerformanceReport, equity contracts.EquityCurve, from, to time.Time) {
	bench, err := e.provider.History(ctx, e.benchmarkTicker, from, to)
	if err != nil || bench.Len() < 2 {
		e.logger.WithFields(map[string]interface{}{
			"benchmark": e.benchmarkTicker,
			"error":     fmt.Sprintf("%v", err),
		}).Warn("Benchmark data unavailable, skipping comparison")
		return
	}

	report.Benchmark = e.comparator.Compare(
		equity.Returns(),
		bench.Returns(),
		report.TotalReturnPct,
		benchmark.TotalReturnPct(bench),
	)
	report.Benchmark.BenchmarkTicker = e.benchmarkTicker
}
