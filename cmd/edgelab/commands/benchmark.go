package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/edgelab/internal/backtest"
)

// benchmarkCmd represents the benchmark command
var benchmarkCmd = &cobra.Command{
	Use:   "benchmark",
	Short: "벤치마크 대비 비교",
	Long: `전략 성과를 벤치마크(기본: SPY)와 비교합니다.

알파/베타/상관은 거래일 교집합 기준으로 회귀하며, 겹치는 날이
30일 미만이면 중립값으로 강등됩니다.

Example:
  go run ./cmd/edgelab benchmark --ticker AAPL --years 3
  go run ./cmd/edgelab benchmark --ticker TSLA --strategy rsi_14_30_70 --years 5`,
	RunE: runBenchmark,
}

var (
	benchmarkTicker   string
	benchmarkStrategy string
	benchmarkYears    int
)

func init() {
	rootCmd.AddCommand(benchmarkCmd)

	benchmarkCmd.Flags().StringVar(&benchmarkTicker, "ticker", "", "대상 티커 (필수)")
	benchmarkCmd.Flags().StringVar(&benchmarkStrategy, "strategy", "buy_hold", "전략 이름 (기본: buy_hold)")
	benchmarkCmd.Flags().IntVar(&benchmarkYears, "years", 3, "룩백 기간 (년)")
	_ = benchmarkCmd.MarkFlagRequired("ticker")
}

func runBenchmark(cmd *cobra.Command, args []string) error {
	fmt.Println("=== EdgeLab Benchmark Comparison ===")

	d, err := initDeps()
	if err != nil {
		return err
	}

	strat, err := d.registry.Get(benchmarkStrategy)
	if err != nil {
		return err
	}

	cfg := backtest.RunConfig{
		Ticker:         benchmarkTicker,
		Years:          benchmarkYears,
		InitialCapital: d.cfg.Backtest.InitialCapital,
		FeeRate:        d.cfg.Backtest.FeeRate,
		SlippageRate:   d.cfg.Backtest.SlippageRate,
	}

	report, err := d.engine.Run(cmd.Context(), strat, cfg)
	if err != nil {
		return fmt.Errorf("benchmark run failed: %w", err)
	}
	if report.Benchmark == nil {
		return fmt.Errorf("benchmark data unavailable for %s", d.cfg.Backtest.BenchmarkTicker)
	}

	b := report.Benchmark
	fmt.Printf("\n🆚 %s (%s) vs %s\n", report.Ticker, report.Strategy, b.BenchmarkTicker)
	PrintSeparator()
	fmt.Printf("Strategy Return:  %+.2f%%\n", b.StrategyReturnPct)
	fmt.Printf("Benchmark Return: %+.2f%%\n", b.BenchmarkReturnPct)
	fmt.Printf("Alpha:            %+.2f%% (연환산)\n", b.AlphaPct)
	fmt.Printf("Beta:             %.2f\n", b.Beta)
	fmt.Printf("Correlation:      %.2f\n", b.Correlation)
	fmt.Printf("Relative Sharpe:  %.2f\n", b.RelativeSharpe)

	if b.InsufficientOverlap {
		fmt.Println("\n⚠️  겹치는 거래일 30일 미만 — 회귀 지표는 중립값")
	}
	if b.Outperformance {
		PrintSuccess("Benchmark outperformed")
	} else {
		PrintError("Benchmark not beaten")
	}
	return nil
}
