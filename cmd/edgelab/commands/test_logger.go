package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/edgelab/pkg/config"
	"github.com/wonny/edgelab/pkg/logger"
)

// testLoggerCmd represents the test-logger command
var testLoggerCmd = &cobra.Command{
	Use:   "test-logger",
	Short: "Logger 기능 테스트",
	Long: `구조화된 로깅 기능을 테스트합니다.

이 명령어는:
- JSON/Console 포맷 테스트
- 로그 레벨 테스트
- 구조화된 필드 로깅
- 에러 컨텍스트 로깅

Example:
  go run ./cmd/edgelab test-logger`,
	RunE: runTestLogger,
}

func init() {
	rootCmd.AddCommand(testLoggerCmd)
}

func runTestLogger(cmd *cobra.Command, args []string) error {
	fmt.Println("=== EdgeLab Logger Test ===")

	fmt.Println("1. JSON Format (Production)")
	fmt.Println("--------------------------------")
	jsonLog := logger.New(&config.Config{Env: "production", LogLevel: "info", LogFormat: "json"})
	jsonLog.Info("Service started")
	jsonLog.Warn("High memory usage detected")
	jsonLog.Error("Failed to reach market data API")
	fmt.Println()

	fmt.Println("2. Console Format (Development)")
	fmt.Println("--------------------------------")
	consoleLog := logger.New(&config.Config{Env: "development", LogLevel: "debug", LogFormat: "console"})
	consoleLog.Debug("Debugging application flow")
	consoleLog.Info("Request received from client")
	consoleLog.Warn("Price cache miss, fetching upstream")
	fmt.Println()

	fmt.Println("3. Structured Logging with Fields")
	fmt.Println("--------------------------------")
	jsonLog.WithField("ticker", "AAPL").Info("Backtest started")
	jsonLog.WithFields(map[string]interface{}{
		"ticker":   "AAPL",
		"strategy": "sma_cross_20_50",
		"window":   "5Y",
		"sharpe":   1.42,
	}).Info("Backtest completed")
	jsonLog.WithField("module", "marketdata").
		WithField("source", "chart-api").
		Info("Price fetch started")
	fmt.Println()

	fmt.Println("4. Error Logging")
	fmt.Println("--------------------------------")
	err := errors.New("connection timeout")
	jsonLog.WithError(err).Error("Failed to fetch price history")
	jsonLog.WithError(err).
		WithFields(map[string]interface{}{
			"retry_count": 3,
			"timeout_ms":  5000,
			"ticker":      "SPY",
		}).
		Error("Connection failed after retries")
	fmt.Println()

	fmt.Println("✅ All logger tests completed!")
	return nil
}
