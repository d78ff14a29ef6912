package metrics

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/wonny/edgelab/internal/contracts"
)

func curve(values ...float64) contracts.EquityCurve {
	base := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	points := make(contracts.EquityCurve, len(values))
	for i, v := range values {
		points[i] = contracts.EquityPoint{Date: base.AddDate(0, 0, i), Value: v}
	}
	return points
}

func TestSharpe_ZeroVariance(t *testing.T) {
	// 수익률이 전부 동일하면 std=0 → 0 반환
	returns := []float64{0.001, 0.001, 0.001, 0.001}
	assert.Equal(t, 0.0, Sharpe(returns, 0.02))

	// 빈 시계열도 0
	assert.Equal(t, 0.0, Sharpe(nil, 0.02))
	assert.Equal(t, 0.0, Sharpe([]float64{0.01}, 0.02))
}

func TestSharpe_Positive(t *testing.T) {
	returns := []float64{0.01, -0.005, 0.02, 0.003, -0.001, 0.007}
	got := Sharpe(returns, 0.0)

	// 수작업 검증: mean/std(n-1)*sqrt(252)
	m := Mean(returns)
	assert.Greater(t, m, 0.0)
	assert.Greater(t, got, 0.0)
	assert.False(t, math.IsNaN(got))
}

func TestSortino_NoDownside(t *testing.T) {
	// 하방 수익률 없음 → 0
	returns := []float64{0.01, 0.02, 0.015}
	assert.Equal(t, 0.0, Sortino(returns, 0.0))

	// 하방이 1개뿐이면 표본 std 미정의 → 0
	returns = []float64{0.01, -0.02, 0.015}
	assert.Equal(t, 0.0, Sortino(returns, 0.0))
}

func TestSortino_WithDownside(t *testing.T) {
	returns := []float64{0.01, -0.02, 0.015, -0.005, 0.008}
	got := Sortino(returns, 0.0)
	assert.False(t, math.IsNaN(got))
	assert.NotEqual(t, 0.0, got)

	// Sortino는 하방 변동성만 보므로 같은 시계열의 Sharpe와 다르다
	assert.NotEqual(t, Sharpe(returns, 0.0), got)
}

func TestMaxDrawdown_NonDecreasing(t *testing.T) {
	// 단조 증가 → 0
	assert.Equal(t, 0.0, MaxDrawdown(curve(100, 100, 110, 120, 120)))
	assert.Equal(t, 0.0, MaxDrawdown(nil))
}

func TestMaxDrawdown_Decline(t *testing.T) {
	// 100 → 120 → 90: 고점 120 대비 25% 하락
	got := MaxDrawdown(curve(100, 120, 90, 110))
	assert.InDelta(t, 25.0, got, 1e-9)

	// 어느 지점이든 고점 아래로 내려가면 > 0
	assert.Greater(t, MaxDrawdown(curve(100, 99, 100, 100)), 0.0)
}

func TestCalmar(t *testing.T) {
	// 드로다운 0 → 0
	assert.Equal(t, 0.0, Calmar([]float64{0.01, 0.02}, 0))

	returns := []float64{0.001, 0.002, -0.001}
	annual := math.Pow(1.0+Mean(returns), 252) - 1.0
	assert.InDelta(t, annual/0.10, Calmar(returns, 10.0), 1e-12)
}

func ledgerWithPnL(pnls ...float64) contracts.TradeLedger {
	ledger := make(contracts.TradeLedger, len(pnls))
	for i, pnl := range pnls {
		ledger[i] = contracts.Trade{NetPnL: pnl}
	}
	return ledger
}

func TestWinRate(t *testing.T) {
	assert.Equal(t, 0.0, WinRate(nil))
	assert.InDelta(t, 50.0, WinRate(ledgerWithPnL(100, -50, 200, -10)), 1e-12)
	assert.InDelta(t, 100.0, WinRate(ledgerWithPnL(1, 2)), 1e-12)

	// 손익 0인 트레이드는 승리가 아님
	assert.InDelta(t, 0.0, WinRate(ledgerWithPnL(0)), 1e-12)
}

func TestProfitFactor(t *testing.T) {
	assert.Equal(t, 0.0, ProfitFactor(nil))

	// 손실 없음 + 이익 있음 → +Inf
	assert.True(t, math.IsInf(ProfitFactor(ledgerWithPnL(100, 50)), 1))

	// 이익도 손실도 없음 → 0
	assert.Equal(t, 0.0, ProfitFactor(ledgerWithPnL(0, 0)))

	// 일반 케이스
	assert.InDelta(t, 2.0, ProfitFactor(ledgerWithPnL(100, 100, -100)), 1e-12)
}

func TestTotalReturnPct(t *testing.T) {
	// (final - initial) / initial * 100
	assert.InDelta(t, 10.0, TotalReturnPct(curve(100000, 105000, 110000), 100000), 1e-12)
	assert.InDelta(t, -5.0, TotalReturnPct(curve(100000, 95000), 100000), 1e-12)
	assert.Equal(t, 0.0, TotalReturnPct(nil, 100000))
}

func TestAvgTradeDurationDays(t *testing.T) {
	assert.Equal(t, 0.0, AvgTradeDurationDays(nil))

	ledger := contracts.TradeLedger{
		{Duration: 48 * time.Hour},
		{Duration: 24 * time.Hour},
	}
	assert.InDelta(t, 1.5, AvgTradeDurationDays(ledger), 1e-12)
}

func TestStdPopulation(t *testing.T) {
	assert.Equal(t, 0.0, StdPopulation(nil))
	assert.Equal(t, 0.0, StdPopulation([]float64{1.5}))

	// 동일 값 → 0 (consistency 판정의 기반)
	assert.Equal(t, 0.0, StdPopulation([]float64{1.2, 1.2, 1.2}))

	// {1, 3}: 모표준편차 = 1
	assert.InDelta(t, 1.0, StdPopulation([]float64{1, 3}), 1e-12)
}

func TestMonthly(t *testing.T) {
	// 2개월: 1월 상승, 2월 하락
	jan1 := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	jan2 := time.Date(2024, 1, 11, 0, 0, 0, 0, time.UTC)
	feb1 := time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC)

	returns := contracts.ReturnSeries{
		{Date: jan1, Value: 0.10},
		{Date: jan2, Value: 0.10},
		{Date: feb1, Value: -0.05},
	}

	summary := Monthly(returns)

	// 1월: 1.1*1.1-1 = 21%
	assert.InDelta(t, 21.0, summary.BestMonthPct, 1e-9)
	assert.InDelta(t, -5.0, summary.WorstMonthPct, 1e-9)
	assert.Equal(t, 1, summary.PositiveMonths)
	assert.Equal(t, 1, summary.NegativeMonths)
}

func TestMonthly_Empty(t *testing.T) {
	summary := Monthly(nil)
	assert.Equal(t, 0.0, summary.BestMonthPct)
	assert.Equal(t, 0.0, summary.WorstMonthPct)
	assert.Equal(t, 0, summary.PositiveMonths)
	assert.Equal(t, 0, summary.NegativeMonths)
}
