package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/wonny/edgelab/internal/scheduler"
	"github.com/wonny/edgelab/pkg/config"
	"github.com/wonny/edgelab/pkg/logger"
)

// Server hosts the backtest HTTP API and, optionally, the daily refresh
// scheduler so both share one lifecycle.
// ⭐ SSOT: API 서버 설정은 이 파일에서만
type Server struct {
	httpServer *http.Server
	scheduler  *scheduler.Scheduler
	logger     *logger.Logger
	config     *config.Config
}

// New creates a new API server.
//
// WriteTimeout은 멀티 윈도우 분석이 응답을 쓰기 전까지 걸리는 최대 시간에
// 맞춘다: 윈도우들은 병렬이지만 최악의 경우 윈도우 타임아웃만큼 대기하므로
// CONSISTENCY_WINDOW_TIMEOUT + 여유분.
func New(cfg *config.Config, log *logger.Logger, router http.Handler) *Server {
	writeTimeout := cfg.Consistency.WindowTimeout + 30*time.Second
	if writeTimeout < 30*time.Second {
		writeTimeout = 30 * time.Second
	}

	return &Server{
		httpServer: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           router,
			ReadTimeout:       15 * time.Second,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      writeTimeout,
			IdleTimeout:       60 * time.Second,
		},
		logger: log,
		config: cfg,
	}
}

// AttachScheduler ties a job scheduler to the server lifecycle:
// Start()가 같이 시작하고 Shutdown()이 같이 정지시킨다.
func (s *Server) AttachScheduler(sched *scheduler.Scheduler) {
	s.scheduler = sched
}

// Start starts the scheduler (if attached) and the HTTP server.
// HTTP 서버가 닫힐 때까지 블로킹한다.
func (s *Server) Start() error {
	if s.scheduler != nil {
		s.scheduler.Start()
		s.logger.WithField("jobs", s.scheduler.JobNames()).Info("Scheduler started")
	}

	s.logger.WithFields(map[string]interface{}{
		"port": s.config.Port,
		"env":  s.config.Env,
	}).Info("Starting API server")

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown stops the scheduler first so no new backtest jobs land on a
// draining server, then gracefully shuts down HTTP.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.scheduler != nil {
		s.scheduler.Stop()
		s.logger.Info("Scheduler stopped")
	}

	s.logger.Info("Shutting down API server")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	return nil
}
