package commands

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wonny/edgelab/internal/backtest"
	"github.com/wonny/edgelab/internal/consistency"
	"github.com/wonny/edgelab/internal/contracts"
)

// backtestCmd represents the backtest command
var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "시그널 기반 백테스팅",
	Long: `과거 일봉 데이터로 전략 시그널을 시뮬레이션합니다.

검증 항목:
- 전략 수익률 및 월별 분포
- 리스크 지표 (Sharpe, Sortino, Calmar, MDD)
- 승률, 수익 팩터, 평균 보유기간
- 벤치마크 대비 알파/베타

Example:
  go run ./cmd/edgelab backtest run --ticker AAPL --strategy sma_cross_20_50 --years 5
  go run ./cmd/edgelab backtest multi --ticker AAPL --strategy rsi_14_30_70 --windows 1,3,5,10`,
}

var (
	backtestRunCmd = &cobra.Command{
		Use:   "run",
		Short: "단일 윈도우 백테스트 실행",
		Long: `지정한 룩백 윈도우에서 전략을 1회 실행합니다.

Flags:
  --ticker    대상 티커 (필수)
  --strategy  전략 이름 (필수, strategies 커맨드로 목록 확인)
  --years     룩백 기간 (년, 기본: 5)
  --capital   초기 자본 (기본: 설정값)
  --fee       레그당 수수료율 (기본: 설정값)
  --slippage  레그당 슬리피지율 (기본: 설정값)

Example:
  go run ./cmd/edgelab backtest run --ticker AAPL --strategy sma_cross_20_50 --years 5
  go run ./cmd/edgelab backtest run --ticker TSLA --strategy buy_hold --capital 50000`,
		RunE: runBacktest,
	}

	backtestMultiCmd = &cobra.Command{
		Use:   "multi",
		Short: "멀티 윈도우 일관성 분석",
		Long: `여러 룩백 윈도우에서 같은 전략을 실행하고 성과의
일관성(샤프 표준편차 기준)을 판정합니다.

Example:
  go run ./cmd/edgelab backtest multi --ticker AAPL --strategy sma_cross_20_50 --windows 1,3,5,10`,
		RunE: runBacktestMulti,
	}

	strategiesCmd = &cobra.Command{
		Use:   "strategies",
		Short: "등록된 전략 목록",
		RunE:  runStrategies,
	}

	// Flags
	backtestTicker   string
	backtestStrategy string
	backtestYears    int
	backtestCapital  float64
	backtestFee      float64
	backtestSlippage float64
	backtestWindows  []int
)

func init() {
	rootCmd.AddCommand(backtestCmd)
	rootCmd.AddCommand(strategiesCmd)
	backtestCmd.AddCommand(backtestRunCmd)
	backtestCmd.AddCommand(backtestMultiCmd)

	for _, cmd := range []*cobra.Command{backtestRunCmd, backtestMultiCmd} {
		cmd.Flags().StringVar(&backtestTicker, "ticker", "", "대상 티커 (필수)")
		cmd.Flags().StringVar(&backtestStrategy, "strategy", "", "전략 이름 (필수)")
		cmd.Flags().Float64Var(&backtestCapital, "capital", 0, "초기 자본 (0이면 설정값)")
		cmd.Flags().Float64Var(&backtestFee, "fee", -1, "레그당 수수료율 (-1이면 설정값)")
		cmd.Flags().Float64Var(&backtestSlippage, "slippage", -1, "레그당 슬리피지율 (-1이면 설정값)")
		_ = cmd.MarkFlagRequired("ticker")
		_ = cmd.MarkFlagRequired("strategy")
	}

	backtestRunCmd.Flags().IntVar(&backtestYears, "years", 5, "룩백 기간 (년)")
	backtestMultiCmd.Flags().IntSliceVar(&backtestWindows, "windows", []int{1, 3, 5, 10}, "룩백 윈도우 목록 (년)")
}

// buildRunConfig merges flags with configured defaults
func buildRunConfig(d *deps, years int) backtest.RunConfig {
	cfg := backtest.RunConfig{
		Ticker:         backtestTicker,
		Years:          years,
		InitialCapital: d.cfg.Backtest.InitialCapital,
		FeeRate:        d.cfg.Backtest.FeeRate,
		SlippageRate:   d.cfg.Backtest.SlippageRate,
	}
	if backtestCapital > 0 {
		cfg.InitialCapital = backtestCapital
	}
	if backtestFee >= 0 {
		cfg.FeeRate = backtestFee
	}
	if backtestSlippage >= 0 {
		cfg.SlippageRate = backtestSlippage
	}
	return cfg
}

func runBacktest(cmd *cobra.Command, args []string) error {
	fmt.Println("=== EdgeLab Backtest ===")

	d, err := initDeps()
	if err != nil {
		return err
	}

	strat, err := d.registry.Get(backtestStrategy)
	if err != nil {
		return err
	}

	cfg := buildRunConfig(d, backtestYears)
	fmt.Printf("\n📅 Window: %s  💰 Capital: %s  💸 Fee: %.2f%%  📉 Slippage: %.2f%%\n\n",
		backtest.WindowLabel(cfg.Years), formatMoney(cfg.InitialCapital),
		cfg.FeeRate*100, cfg.SlippageRate*100)

	report, err := d.engine.Run(cmd.Context(), strat, cfg)
	if err != nil {
		return fmt.Errorf("backtest failed: %w", err)
	}

	printReport(report)
	return nil
}

func runBacktestMulti(cmd *cobra.Command, args []string) error {
	fmt.Println("=== EdgeLab Multi-Window Analysis ===")

	d, err := initDeps()
	if err != nil {
		return err
	}

	strat, err := d.registry.Get(backtestStrategy)
	if err != nil {
		return err
	}

	total := len(backtestWindows)
	fmt.Printf("\n🔎 %s / %s — %d windows\n\n", backtestTicker, strat.Name(), total)

	report := d.analyzer.Analyze(cmd.Context(), strat, buildRunConfig(d, 0), backtestWindows,
		func(event consistency.ProgressEvent) {
			status := "✅"
			if event.Error != "" {
				status = "❌"
			}
			fmt.Printf("  %s %-4s [%d/%d] %s\n", status, event.Window, event.Completed, event.Total, event.Error)
		})

	printConsistencyReport(report)
	return nil
}

func runStrategies(cmd *cobra.Command, args []string) error {
	d, err := initDeps()
	if err != nil {
		return err
	}

	fmt.Println("📋 Registered strategies:")
	for _, name := range d.registry.Names() {
		fmt.Printf("   • %s\n", name)
	}
	return nil
}

// printReport prints a single-window performance report
func printReport(report *contracts.PerformanceReport) {
	fmt.Println("\n✅ Backtest Completed")
	fmt.Println(strings.Repeat("═", 60))

	fmt.Println("\n📊 Summary")
	fmt.Printf("%s / %s (%s: %s ~ %s)\n",
		report.Ticker, report.Strategy, report.Window,
		report.StartDate.Format("2006-01-02"), report.EndDate.Format("2006-01-02"))

	fmt.Println("\n💰 Performance")
	fmt.Printf("Total Return:    %+.2f%%\n", report.TotalReturnPct)
	fmt.Printf("Final Value:     %s\n", formatMoney(report.FinalValue))
	fmt.Printf("Best Month:      %+.2f%%   Worst Month: %+.2f%%\n", report.BestMonthPct, report.WorstMonthPct)
	fmt.Printf("Months:          %d up / %d down\n", report.PositiveMonths, report.NegativeMonths)

	fmt.Println("\n📉 Risk Metrics")
	fmt.Printf("Sharpe Ratio:    %.2f%s\n", report.SharpeRatio, sharpeBadge(report.SharpeRatio))
	fmt.Printf("Sortino Ratio:   %.2f\n", report.SortinoRatio)
	fmt.Printf("Calmar Ratio:    %.2f\n", report.CalmarRatio)
	fmt.Printf("Max Drawdown:    %.2f%%\n", report.MaxDrawdownPct)

	fmt.Println("\n💹 Trading Metrics")
	fmt.Printf("Total Trades:    %d\n", report.TotalTrades)
	fmt.Printf("Win Rate:        %.1f%%\n", report.WinRatePct)
	fmt.Printf("Profit Factor:   %s\n", formatProfitFactor(float64(report.ProfitFactor)))
	fmt.Printf("Avg Duration:    %.1f days\n", report.AvgTradeDurationDays)
	fmt.Printf("Total Fees:      %s\n", formatMoney(report.TotalFeesPaid))

	if report.Benchmark != nil {
		b := report.Benchmark
		fmt.Printf("\n🆚 vs %s\n", b.BenchmarkTicker)
		fmt.Printf("Benchmark:       %+.2f%%   Strategy: %+.2f%%\n", b.BenchmarkReturnPct, b.StrategyReturnPct)
		fmt.Printf("Alpha:           %+.2f%%   Beta: %.2f   Corr: %.2f\n", b.AlphaPct, b.Beta, b.Correlation)
		fmt.Printf("Relative Sharpe: %.2f\n", b.RelativeSharpe)
		if b.InsufficientOverlap {
			fmt.Println("⚠️  겹치는 거래일이 30일 미만 — 회귀 지표는 중립값")
		}
		if b.Outperformance {
			fmt.Println("✅ Benchmark outperformed")
		} else {
			fmt.Println("❌ Benchmark not beaten")
		}
	}
	fmt.Println()
}

// printConsistencyReport prints the multi-window verdict
func printConsistencyReport(report *contracts.ConsistencyReport) {
	fmt.Println("\n" + strings.Repeat("═", 60))

	if report.Empty() {
		fmt.Println("❌ 모든 윈도우 실패 — 집계 불가")
		for _, f := range report.Failures {
			fmt.Printf("   • %s: %s\n", f.Window, f.Reason)
		}
		return
	}

	labels := make([]string, 0, len(report.Reports))
	for label := range report.Reports {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		return len(labels[i]) < len(labels[j]) || (len(labels[i]) == len(labels[j]) && labels[i] < labels[j])
	})

	fmt.Println("\n📊 Per-Window Results")
	for _, label := range labels {
		r := report.Reports[label]
		fmt.Printf("%-4s  return %+8.2f%%   sharpe %6.2f   mdd %6.2f%%   trades %d\n",
			label, r.TotalReturnPct, r.SharpeRatio, r.MaxDrawdownPct, r.TotalTrades)
	}

	for _, f := range report.Failures {
		fmt.Printf("%-4s  ❌ %s\n", f.Window, f.Reason)
	}

	fmt.Println("\n📈 Aggregates")
	fmt.Printf("Avg Sharpe:  %.2f (std %.2f)\n", report.AvgSharpe, report.SharpeStd)
	fmt.Printf("Avg Return:  %+.2f%% (std %.2f)\n", report.AvgReturn, report.ReturnStd)

	if report.IsConsistent {
		fmt.Println("\n✅ Consistent — 윈도우 간 성과 안정적")
	} else {
		fmt.Println("\n⚠️  Inconsistent — 특정 구간 의존 가능성")
	}
	fmt.Println()
}

func sharpeBadge(sharpe float64) string {
	switch {
	case sharpe > 2.0:
		return " 🌟 (Excellent)"
	case sharpe > 1.0:
		return " ✅ (Good)"
	case sharpe > 0:
		return " ⚠️  (Fair)"
	default:
		return " ❌ (Poor)"
	}
}

func formatProfitFactor(pf float64) string {
	if math.IsInf(pf, 1) {
		return "∞ (무손실)"
	}
	return fmt.Sprintf("%.2f", pf)
}
