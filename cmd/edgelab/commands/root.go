package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "edgelab",
	Short: "EdgeLab - 포트폴리오 시뮬레이션 & 성과 분석 엔진",
	Long: `EdgeLab Unified CLI

시그널 기반 백테스팅, 성과 지표 산출, 벤치마크 비교,
멀티 윈도우 일관성 분석을 한 바이너리로 제공합니다.

Usage:
  go run ./cmd/edgelab [command]

Examples:
  go run ./cmd/edgelab backtest run --ticker AAPL --strategy sma_cross_20_50 --years 5
  go run ./cmd/edgelab backtest multi --ticker AAPL --strategy rsi_14_30_70 --windows 1,3,5,10
  go run ./cmd/edgelab benchmark --ticker AAPL --years 3
  go run ./cmd/edgelab api`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
