package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/edgelab/internal/api"
	"github.com/wonny/edgelab/internal/api/handlers"
	"github.com/wonny/edgelab/internal/marketdata"
	"github.com/wonny/edgelab/internal/scheduler"
	"github.com/wonny/edgelab/internal/scheduler/jobs"
	"github.com/wonny/edgelab/pkg/database"
	"github.com/wonny/edgelab/pkg/redis"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `REST API 서버를 시작합니다.

Endpoints:
  GET  /health                 - Health check
  POST /api/backtest/run       - 단일 윈도우 백테스트
  POST /api/backtest/multi     - 멀티 윈도우 일관성 분석
  GET  /api/backtest/multi/ws  - 멀티 윈도우 진행 스트림 (websocket)
  POST /api/benchmark          - 벤치마크 비교
  GET  /api/strategies         - 전략 목록

Example:
  go run ./cmd/edgelab api
  go run ./cmd/edgelab api --port 8090 --refresh AAPL,MSFT`,
	RunE: runAPIServer,
}

var (
	apiPort        string
	refreshTickers []string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트 (기본: 설정값)")
	apiCmd.Flags().StringSliceVar(&refreshTickers, "refresh", nil, "일일 가격 갱신 대상 티커 목록")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== EdgeLab API Server ===")

	d, err := initDeps()
	if err != nil {
		return err
	}
	if apiPort != "" {
		d.cfg.Port = apiPort
	}
	log := d.logger

	// Handlers + router
	backtestHandler := handlers.NewBacktestHandler(d.engine, d.analyzer, d.registry, d.cfg.Backtest, log)
	streamHandler := handlers.NewStreamHandler(backtestHandler, log)
	router := api.NewRouter(backtestHandler, streamHandler, log)
	server := api.New(d.cfg, log, router)

	// 일일 가격 갱신 스케줄러 — 벤치마크는 항상 포함
	sched := scheduler.New(log)
	tickers := append([]string{d.cfg.Backtest.BenchmarkTicker}, refreshTickers...)

	redisClient, err := redis.New(d.cfg)
	if err != nil {
		log.WithError(err).Warn("Redis unavailable for refresh job")
		redisClient = redis.Disabled()
	}
	cache := redis.NewCache(redisClient, "edgelab")
	source := marketdata.NewClient(d.cfg.MarketData, log)

	// DB가 있으면 일봉을 같이 적재한다 — 없어도 캐시 갱신은 동작
	var repo *marketdata.Repository
	if db, err := database.New(d.cfg); err != nil {
		log.WithError(err).Warn("Database unavailable, refresh job will skip persistence")
	} else {
		defer db.Close()
		repo = marketdata.NewRepository(db, log)
	}

	refreshJob := jobs.NewPriceRefreshJob(source, repo, cache, tickers, 10, log)
	if err := sched.AddJob(refreshJob); err != nil {
		return fmt.Errorf("schedule refresh job: %w", err)
	}
	server.AttachScheduler(sched)

	// Start server with graceful shutdown
	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	fmt.Printf("\n✅ Server running on http://localhost:%s\n", d.cfg.Port)
	fmt.Println("\nAvailable endpoints:")
	fmt.Println("  GET  /health")
	fmt.Println("  POST /api/backtest/run")
	fmt.Println("  POST /api/backtest/multi")
	fmt.Println("  GET  /api/backtest/multi/ws")
	fmt.Println("  POST /api/benchmark")
	fmt.Println("  GET  /api/strategies")
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
