package backtest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/edgelab/internal/benchmark"
	"github.com/wonny/edgelab/internal/contracts"
	"github.com/wonny/edgelab/pkg/config"
	"github.com/wonny/edgelab/pkg/logger"
)

// fakeProvider serves canned series per ticker
type fakeProvider struct {
	series map[string]*contracts.PriceSeries
	err    error
}

func (f *fakeProvider) History(_ context.Context, ticker string, _, _ time.Time) (*contracts.PriceSeries, error) {
	if f.err != nil {
		return nil, f.err
	}
	s, ok := f.series[ticker]
	if !ok {
		return nil, errors.New("unknown ticker")
	}
	return s, nil
}

// fakeStrategy returns fixed signals
type fakeStrategy struct {
	name    string
	signals *contracts.SignalSeries
	err     error
}

func (f *fakeStrategy) Name() string { return f.name }

func (f *fakeStrategy) GenerateSignals(_ *contracts.PriceSeries) (*contracts.SignalSeries, error) {
	return f.signals, f.err
}

func testEngine(provider contracts.PriceProvider) *Engine {
	cfg := config.BacktestConfig{
		InitialCapital:  100_000,
		FeeRate:         0.001,
		SlippageRate:    0.0005,
		RiskFreeRate:    0.02,
		BenchmarkTicker: "SPY",
	}
	return NewEngine(provider, NewSimulator(), benchmark.NewComparator(cfg.RiskFreeRate), cfg, logger.NewNop())
}

// trendingSeries: 40일 동안 서서히 상승하는 시계열
func trendingSeries(ticker string, start, step float64) *contracts.PriceSeries {
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = start + step*float64(i)
	}
	s := priceSeries(closes...)
	s.Ticker = ticker
	return s
}

func TestEngineRun_FullReport(t *testing.T) {
	prices := trendingSeries("AAPL", 100, 1)
	provider := &fakeProvider{series: map[string]*contracts.PriceSeries{
		"AAPL": prices,
		"SPY":  trendingSeries("SPY", 400, 0.5),
	}}

	strategy := &fakeStrategy{
		name:    "sma_cross",
		signals: signals(40, []int{2}, []int{35}),
	}

	report, err := testEngine(provider).Run(context.Background(), strategy, RunConfig{
		Ticker:         "AAPL",
		Years:          1,
		InitialCapital: 100_000,
		FeeRate:        0.001,
		SlippageRate:   0.0005,
	})
	require.NoError(t, err)

	assert.Equal(t, "AAPL", report.Ticker)
	assert.Equal(t, "sma_cross", report.Strategy)
	assert.Equal(t, "1Y", report.Window)
	assert.Equal(t, prices.Bars[0].Timestamp, report.StartDate)
	assert.Equal(t, prices.Bars[39].Timestamp, report.EndDate)

	// 상승 추세에서 1회 왕복 → 수익, 트레이드 1건
	assert.Greater(t, report.TotalReturnPct, 0.0)
	assert.Equal(t, 1, report.TotalTrades)
	assert.InDelta(t, 100.0, report.WinRatePct, 1e-9)
	assert.Greater(t, report.TotalFeesPaid, 0.0)

	// 벤치마크 비교 첨부
	require.NotNil(t, report.Benchmark)
	assert.Equal(t, "SPY", report.Benchmark.BenchmarkTicker)
	assert.Greater(t, report.Benchmark.BenchmarkReturnPct, 0.0)
}

func TestEngineRun_BenchmarkFailureIsNotFatal(t *testing.T) {
	// 벤치마크 티커 조회 실패 → 리포트는 나오고 Benchmark만 nil
	provider := &fakeProvider{series: map[string]*contracts.PriceSeries{
		"AAPL": trendingSeries("AAPL", 100, 1),
	}}
	strategy := &fakeStrategy{name: "buy_hold", signals: signals(40, []int{0}, []int{39})}

	report, err := testEngine(provider).Run(context.Background(), strategy, RunConfig{
		Ticker: "AAPL", Years: 1, InitialCapital: 100_000,
	})
	require.NoError(t, err)
	assert.Nil(t, report.Benchmark)
}

func TestEngineRun_SkipBenchmark(t *testing.T) {
	provider := &fakeProvider{series: map[string]*contracts.PriceSeries{
		"AAPL": trendingSeries("AAPL", 100, 1),
	}}
	strategy := &fakeStrategy{name: "buy_hold", signals: signals(40, []int{0}, []int{39})}

	report, err := testEngine(provider).Run(context.Background(), strategy, RunConfig{
		Ticker: "AAPL", Years: 1, InitialCapital: 100_000, SkipBenchmark: true,
	})
	require.NoError(t, err)
	assert.Nil(t, report.Benchmark)
}

func TestEngineRun_DataUnavailable(t *testing.T) {
	provider := &fakeProvider{err: errors.New("api down")}
	strategy := &fakeStrategy{name: "buy_hold", signals: signals(1, nil, nil)}

	_, err := testEngine(provider).Run(context.Background(), strategy, RunConfig{
		Ticker: "AAPL", Years: 1, InitialCapital: 100_000,
	})
	assert.ErrorIs(t, err, contracts.ErrDataUnavailable)
}

func TestEngineRun_StrategyContractViolations(t *testing.T) {
	provider := &fakeProvider{series: map[string]*contracts.PriceSeries{
		"AAPL": trendingSeries("AAPL", 100, 1),
	}}
	engine := testEngine(provider)

	// 전략이 에러 반환
	_, err := engine.Run(context.Background(),
		&fakeStrategy{name: "broken", err: errors.New("boom")},
		RunConfig{Ticker: "AAPL", Years: 1, InitialCapital: 100_000})
	assert.ErrorIs(t, err, contracts.ErrStrategyContract)

	// 신호 길이가 바 수와 불일치
	_, err = engine.Run(context.Background(),
		&fakeStrategy{name: "misaligned", signals: signals(10, nil, nil)},
		RunConfig{Ticker: "AAPL", Years: 1, InitialCapital: 100_000})
	assert.ErrorIs(t, err, contracts.ErrStrategyContract)
}

func TestEngineRun_InvalidWindow(t *testing.T) {
	provider := &fakeProvider{}
	strategy := &fakeStrategy{name: "buy_hold"}

	_, err := testEngine(provider).Run(context.Background(), strategy, RunConfig{
		Ticker: "AAPL", Years: 0, InitialCapital: 100_000,
	})
	assert.ErrorIs(t, err, contracts.ErrSimulation)
}

func TestWindowLabel(t *testing.T) {
	assert.Equal(t, "1Y", WindowLabel(1))
	assert.Equal(t, "10Y", WindowLabel(10))
}
