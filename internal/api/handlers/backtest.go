package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/wonny/edgelab/internal/backtest"
	"github.com/wonny/edgelab/internal/consistency"
	"github.com/wonny/edgelab/internal/contracts"
	"github.com/wonny/edgelab/internal/strategy"
	"github.com/wonny/edgelab/pkg/config"
	"github.com/wonny/edgelab/pkg/logger"
)

// Runner runs one backtest window (implemented by *backtest.Engine)
type Runner interface {
	Run(ctx context.Context, s contracts.Strategy, cfg backtest.RunConfig) (*contracts.PerformanceReport, error)
}

// MultiRunner runs a multi-window consistency analysis
type MultiRunner interface {
	Analyze(ctx context.Context, s contracts.Strategy, base backtest.RunConfig,
		windows []int, progress consistency.Progress) *contracts.ConsistencyReport
}

// BacktestHandler serves the simulation endpoints
// ⭐ SSOT: 백테스트 HTTP 요청 파싱/응답은 여기서만
type BacktestHandler struct {
	runner   Runner
	analyzer MultiRunner
	registry *strategy.Registry
	defaults config.BacktestConfig
	logger   *logger.Logger
}

// NewBacktestHandler creates the backtest handler
func NewBacktestHandler(
	runner Runner,
	analyzer MultiRunner,
	registry *strategy.Registry,
	defaults config.BacktestConfig,
	log *logger.Logger,
) *BacktestHandler {
	return &BacktestHandler{
		runner:   runner,
		analyzer: analyzer,
		registry: registry,
		defaults: defaults,
		logger:   log,
	}
}

// runRequest is the body for /api/backtest/run and /api/benchmark
type runRequest struct {
	Ticker         string   `json:"ticker"`
	Strategy       string   `json:"strategy"`
	Years          int      `json:"years"`
	InitialCapital *float64 `json:"initial_capital,omitempty"`
	FeeRate        *float64 `json:"fee_rate,omitempty"`
	SlippageRate   *float64 `json:"slippage_rate,omitempty"`
}

// multiRequest is the body for /api/backtest/multi
type multiRequest struct {
	runRequest
	Windows []int `json:"windows"`
}

// toRunConfig applies defaults to optional request fields
func (h *BacktestHandler) toRunConfig(req runRequest) backtest.RunConfig {
	cfg := backtest.RunConfig{
		Ticker:         req.Ticker,
		Years:          req.Years,
		InitialCapital: h.defaults.InitialCapital,
		FeeRate:        h.defaults.FeeRate,
		SlippageRate:   h.defaults.SlippageRate,
	}
	if req.InitialCapital != nil {
		cfg.InitialCapital = *req.InitialCapital
	}
	if req.FeeRate != nil {
		cfg.FeeRate = *req.FeeRate
	}
	if req.SlippageRate != nil {
		cfg.SlippageRate = *req.SlippageRate
	}
	return cfg
}

// parseRun decodes and validates the shared run request fields
func (h *BacktestHandler) parseRun(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", contracts.ErrSimulation, err)
	}
	return nil
}

func (h *BacktestHandler) resolve(req runRequest) (contracts.Strategy, error) {
	if req.Ticker == "" {
		return nil, fmt.Errorf("%w: ticker is required", contracts.ErrSimulation)
	}
	if req.Strategy == "" {
		return nil, fmt.Errorf("%w: strategy is required", contracts.ErrStrategyContract)
	}
	return h.registry.Get(req.Strategy)
}

// Run handles POST /api/backtest/run
func (h *BacktestHandler) Run(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if err := h.parseRun(r, &req); err != nil {
		respondError(w, err)
		return
	}

	strat, err := h.resolve(req)
	if err != nil {
		respondError(w, err)
		return
	}

	report, err := h.runner.Run(r.Context(), strat, h.toRunConfig(req))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}

// RunMulti handles POST /api/backtest/multi
func (h *BacktestHandler) RunMulti(w http.ResponseWriter, r *http.Request) {
	var req multiRequest
	if err := h.parseRun(r, &req); err != nil {
		respondError(w, err)
		return
	}

	strat, err := h.resolve(req.runRequest)
	if err != nil {
		respondError(w, err)
		return
	}
	if len(req.Windows) == 0 {
		respondError(w, fmt.Errorf("%w: windows are required", contracts.ErrSimulation))
		return
	}

	report := h.analyzer.Analyze(r.Context(), strat, h.toRunConfig(req.runRequest), req.Windows, nil)
	respondJSON(w, http.StatusOK, report)
}

// Benchmark handles POST /api/benchmark — 전략 성과의 벤치마크 대비 비교만 반환
func (h *BacktestHandler) Benchmark(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if err := h.parseRun(r, &req); err != nil {
		respondError(w, err)
		return
	}

	strat, err := h.resolve(req)
	if err != nil {
		respondError(w, err)
		return
	}

	report, err := h.runner.Run(r.Context(), strat, h.toRunConfig(req))
	if err != nil {
		respondError(w, err)
		return
	}
	if report.Benchmark == nil {
		respondError(w, fmt.Errorf("%w: benchmark data unavailable", contracts.ErrDataUnavailable))
		return
	}
	respondJSON(w, http.StatusOK, report.Benchmark)
}

// Strategies handles GET /api/strategies
func (h *BacktestHandler) Strategies(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"strategies": h.registry.Names(),
	})
}
