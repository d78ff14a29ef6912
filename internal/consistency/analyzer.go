package consistency

import (
	"context"
	"sort"
	"sync"

	"github.com/wonny/edgelab/internal/backtest"
	"github.com/wonny/edgelab/internal/contracts"
	"github.com/wonny/edgelab/internal/metrics"
	"github.com/wonny/edgelab/pkg/config"
	"github.com/wonny/edgelab/pkg/logger"
)

// Runner runs one backtest window. *backtest.Engine satisfies this.
type Runner interface {
	Run(ctx context.Context, strategy contracts.Strategy, cfg backtest.RunConfig) (*contracts.PerformanceReport, error)
}

// ProgressEvent reports one finished window during a multi-window run
type ProgressEvent struct {
	Window    string `json:"window"`
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
	Error     string `json:"error,omitempty"`
}

// Progress receives per-window completion events. 호출 순서는 완료 순서이며
// 윈도우 순서가 아님.
type Progress func(event ProgressEvent)

// Analyzer runs the same strategy across multiple lookback windows and
// judges whether performance holds up across them
// ⭐ SSOT: 멀티 윈도우 일관성 판정은 여기서만
type Analyzer struct {
	runner Runner
	logger *logger.Logger

	maxParallel int
	threshold   float64
	cfg         config.ConsistencyConfig
}

// NewAnalyzer creates a consistency analyzer
func NewAnalyzer(runner Runner, cfg config.ConsistencyConfig, log *logger.Logger) *Analyzer {
	return &Analyzer{
		runner:      runner,
		logger:      log,
		maxParallel: cfg.MaxParallel,
		threshold:   cfg.SharpeStdThreshold,
		cfg:         cfg,
	}
}

// windowResult pairs one window's outcome with its input index
type windowResult struct {
	years  int
	report *contracts.PerformanceReport
	err    error
}

// Analyze runs the strategy over every window in parallel (bounded by
// MaxParallel) and aggregates the surviving reports.
//
// 개별 윈도우 실패는 Failures에 기록될 뿐 배치를 중단시키지 않는다.
// 모든 윈도우가 실패하면 빈 리포트(IsConsistent=false)를 반환한다.
func (a *Analyzer) Analyze(
	ctx context.Context,
	strategy contracts.Strategy,
	base backtest.RunConfig,
	windows []int,
	progress Progress,
) *contracts.ConsistencyReport {
	report := &contracts.ConsistencyReport{
		Ticker:   base.Ticker,
		Strategy: strategy.Name(),
		Reports:  make(map[string]*contracts.PerformanceReport),
	}
	if len(windows) == 0 {
		return report
	}

	a.logger.WithFields(map[string]interface{}{
		"ticker":       base.Ticker,
		"strategy":     strategy.Name(),
		"windows":      len(windows),
		"max_parallel": a.maxParallel,
	}).Info("Starting consistency analysis")

	results := make([]windowResult, len(windows))
	sem := make(chan struct{}, a.maxParallel)
	var wg sync.WaitGroup
	var completed int
	var mu sync.Mutex

	for i, years := range windows {
		wg.Add(1)
		go func(i, years int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			runCtx, cancel := context.WithTimeout(ctx, a.cfg.WindowTimeout)
			defer cancel()

			cfg := base
			cfg.Years = years
			r, err := a.runner.Run(runCtx, strategy, cfg)
			results[i] = windowResult{years: years, report: r, err: err}

			if progress != nil {
				mu.Lock()
				completed++
				event := ProgressEvent{
					Window:    backtest.WindowLabel(years),
					Completed: completed,
					Total:     len(windows),
				}
				if err != nil {
					event.Error = err.Error()
				}
				progress(event)
				mu.Unlock()
			}
		}(i, years)
	}
	wg.Wait()

	a.aggregate(report, results)
	return report
}

// aggregate folds per-window results into the consistency verdict
func (a *Analyzer) aggregate(report *contracts.ConsistencyReport, results []windowResult) {
	var sharpes, returns []float64

	for _, r := range results {
		label := backtest.WindowLabel(r.years)
		if r.err != nil {
			a.logger.WithError(r.err).WithField("window", label).Warn("Window failed")
			report.Failures = append(report.Failures, contracts.WindowFailure{
				Window: label,
				Reason: r.err.Error(),
			})
			continue
		}
		report.Reports[label] = r.report
		sharpes = append(sharpes, r.report.SharpeRatio)
		returns = append(returns, r.report.TotalReturnPct)
	}

	// 실패 목록도 결정적 순서로
	sort.Slice(report.Failures, func(i, j int) bool {
		return report.Failures[i].Window < report.Failures[j].Window
	})

	if len(sharpes) == 0 {
		return
	}

	report.AvgSharpe = metrics.Mean(sharpes)
	report.AvgReturn = metrics.Mean(returns)
	report.SharpeStd = metrics.StdPopulation(sharpes)
	report.ReturnStd = metrics.StdPopulation(returns)
	report.IsConsistent = report.SharpeStd < a.threshold

	a.logger.WithFields(map[string]interface{}{
		"ticker":        report.Ticker,
		"windows_ok":    len(report.Reports),
		"windows_fail":  len(report.Failures),
		"sharpe_std":    report.SharpeStd,
		"is_consistent": report.IsConsistent,
	}).Info("Consistency analysis completed")
}
