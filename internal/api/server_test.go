package api

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/edgelab/internal/scheduler"
	"github.com/wonny/edgelab/pkg/config"
	"github.com/wonny/edgelab/pkg/logger"
)

func serverConfig(windowTimeout time.Duration) *config.Config {
	return &config.Config{
		Port: "8090",
		Env:  "development",
		Consistency: config.ConsistencyConfig{
			MaxParallel:   4,
			WindowTimeout: windowTimeout,
		},
	}
}

func TestNew_WriteTimeoutCoversMultiWindowRuns(t *testing.T) {
	// 멀티 윈도우 분석은 윈도우 타임아웃만큼 걸릴 수 있으므로
	// WriteTimeout = 윈도우 타임아웃 + 30초
	s := New(serverConfig(2*time.Minute), logger.NewNop(), http.NewServeMux())

	assert.Equal(t, ":8090", s.httpServer.Addr)
	assert.Equal(t, 2*time.Minute+30*time.Second, s.httpServer.WriteTimeout)
	assert.Equal(t, 15*time.Second, s.httpServer.ReadTimeout)
}

func TestNew_WriteTimeoutFloor(t *testing.T) {
	// 윈도우 타임아웃이 설정되지 않아도 최소 30초는 보장
	s := New(serverConfig(0), logger.NewNop(), http.NewServeMux())

	assert.Equal(t, 30*time.Second, s.httpServer.WriteTimeout)
}

func TestServer_ShutdownStopsAttachedScheduler(t *testing.T) {
	s := New(serverConfig(time.Minute), logger.NewNop(), http.NewServeMux())

	sched := scheduler.New(logger.NewNop())
	s.AttachScheduler(sched)
	sched.Start()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Shutdown(ctx))
}
