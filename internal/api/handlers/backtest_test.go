package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/edgelab/internal/backtest"
	"github.com/wonny/edgelab/internal/consistency"
	"github.com/wonny/edgelab/internal/contracts"
	"github.com/wonny/edgelab/internal/strategy"
	"github.com/wonny/edgelab/pkg/config"
	"github.com/wonny/edgelab/pkg/logger"
)

type stubStrategy string

func (s stubStrategy) Name() string { return string(s) }

func (s stubStrategy) GenerateSignals(prices *contracts.PriceSeries) (*contracts.SignalSeries, error) {
	n := prices.Len()
	return &contracts.SignalSeries{Entries: make([]bool, n), Exits: make([]bool, n)}, nil
}

// fakeRunner records the last run config
type fakeRunner struct {
	report  *contracts.PerformanceReport
	err     error
	lastCfg backtest.RunConfig
}

func (f *fakeRunner) Run(_ context.Context, _ contracts.Strategy, cfg backtest.RunConfig) (*contracts.PerformanceReport, error) {
	f.lastCfg = cfg
	return f.report, f.err
}

type fakeAnalyzer struct {
	report      *contracts.ConsistencyReport
	lastWindows []int
}

func (f *fakeAnalyzer) Analyze(_ context.Context, _ contracts.Strategy, _ backtest.RunConfig,
	windows []int, _ consistency.Progress) *contracts.ConsistencyReport {
	f.lastWindows = windows
	return f.report
}

func testHandler(runner Runner, analyzer MultiRunner) *BacktestHandler {
	registry := strategy.NewRegistry()
	_ = registry.Register(stubStrategy("sma_cross_20_50"))

	return NewBacktestHandler(runner, analyzer, registry, config.BacktestConfig{
		InitialCapital: 100_000,
		FeeRate:        0.001,
		SlippageRate:   0.0005,
	}, logger.NewNop())
}

func postJSON(t *testing.T, handler http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestRun_Success(t *testing.T) {
	runner := &fakeRunner{report: &contracts.PerformanceReport{
		Ticker:         "AAPL",
		Strategy:       "sma_cross_20_50",
		TotalReturnPct: 12.5,
	}}
	h := testHandler(runner, &fakeAnalyzer{})

	rec := postJSON(t, h.Run, `{"ticker":"AAPL","strategy":"sma_cross_20_50","years":5}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var report contracts.PerformanceReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, "AAPL", report.Ticker)
	assert.InDelta(t, 12.5, report.TotalReturnPct, 1e-9)

	// 생략된 파라미터는 설정 기본값으로
	assert.Equal(t, 100_000.0, runner.lastCfg.InitialCapital)
	assert.Equal(t, 0.001, runner.lastCfg.FeeRate)
	assert.Equal(t, 5, runner.lastCfg.Years)
}

func TestRun_OverridesDefaults(t *testing.T) {
	runner := &fakeRunner{report: &contracts.PerformanceReport{}}
	h := testHandler(runner, &fakeAnalyzer{})

	rec := postJSON(t, h.Run,
		`{"ticker":"AAPL","strategy":"sma_cross_20_50","years":1,"initial_capital":50000,"fee_rate":0}`)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, 50_000.0, runner.lastCfg.InitialCapital)
	assert.Equal(t, 0.0, runner.lastCfg.FeeRate)
	assert.Equal(t, 0.0005, runner.lastCfg.SlippageRate) // 생략 → 기본값
}

func TestRun_UnknownStrategy(t *testing.T) {
	h := testHandler(&fakeRunner{}, &fakeAnalyzer{})
	rec := postJSON(t, h.Run, `{"ticker":"AAPL","strategy":"nope","years":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRun_MissingFields(t *testing.T) {
	h := testHandler(&fakeRunner{}, &fakeAnalyzer{})

	rec := postJSON(t, h.Run, `{"strategy":"sma_cross_20_50","years":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postJSON(t, h.Run, `{"ticker":"AAPL","years":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postJSON(t, h.Run, `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRun_DataUnavailableIs404(t *testing.T) {
	runner := &fakeRunner{err: fmt.Errorf("%w: no bars", contracts.ErrDataUnavailable)}
	h := testHandler(runner, &fakeAnalyzer{})

	rec := postJSON(t, h.Run, `{"ticker":"GONE","strategy":"sma_cross_20_50","years":1}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRunMulti(t *testing.T) {
	analyzer := &fakeAnalyzer{report: &contracts.ConsistencyReport{
		Ticker:       "AAPL",
		IsConsistent: true,
		Reports:      map[string]*contracts.PerformanceReport{"1Y": {}},
	}}
	h := testHandler(&fakeRunner{}, analyzer)

	rec := postJSON(t, h.RunMulti,
		`{"ticker":"AAPL","strategy":"sma_cross_20_50","windows":[1,3,5]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []int{1, 3, 5}, analyzer.lastWindows)

	var report contracts.ConsistencyReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.True(t, report.IsConsistent)
}

func TestRunMulti_NoWindows(t *testing.T) {
	h := testHandler(&fakeRunner{}, &fakeAnalyzer{})
	rec := postJSON(t, h.RunMulti, `{"ticker":"AAPL","strategy":"sma_cross_20_50"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBenchmark(t *testing.T) {
	runner := &fakeRunner{report: &contracts.PerformanceReport{
		Benchmark: &contracts.BenchmarkComparison{
			BenchmarkTicker: "SPY",
			Beta:            1.2,
		},
	}}
	h := testHandler(runner, &fakeAnalyzer{})

	rec := postJSON(t, h.Benchmark, `{"ticker":"AAPL","strategy":"sma_cross_20_50","years":3}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var cmp contracts.BenchmarkComparison
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cmp))
	assert.Equal(t, "SPY", cmp.BenchmarkTicker)
	assert.InDelta(t, 1.2, cmp.Beta, 1e-9)
}

func TestBenchmark_NoComparison(t *testing.T) {
	// 벤치마크 데이터가 없어 비교가 빠진 리포트 → 404
	runner := &fakeRunner{report: &contracts.PerformanceReport{}}
	h := testHandler(runner, &fakeAnalyzer{})

	rec := postJSON(t, h.Benchmark, `{"ticker":"AAPL","strategy":"sma_cross_20_50","years":3}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStrategies(t *testing.T) {
	h := testHandler(&fakeRunner{}, &fakeAnalyzer{})

	req := httptest.NewRequest(http.MethodGet, "/api/strategies", nil)
	rec := httptest.NewRecorder()
	h.Strategies(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Strategies []string `json:"strategies"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []string{"sma_cross_20_50"}, body.Strategies)
}
