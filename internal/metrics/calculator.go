package metrics

import (
	"math"

	"github.com/wonny/edgelab/internal/contracts"
)

// 순수 계산기 패키지. 데이터 조회/리포트 조립은 상위 레이어(backtest)에서.
// ⭐ SSOT: 성과 지표 공식은 여기서만

// TradingDaysPerYear is the annualization constant for daily data
const TradingDaysPerYear = 252

// Sharpe calculates the annualized Sharpe ratio over daily returns.
// riskFreeAnnual is the annual risk-free rate (e.g. 0.02).
// Returns 0 when the excess-return std is zero (degenerate, not an error).
func Sharpe(returns []float64, riskFreeAnnual float64) float64 {
	excess := excessReturns(returns, riskFreeAnnual)
	std := stdSample(excess)
	if std == 0 {
		return 0
	}
	return mean(excess) / std * math.Sqrt(TradingDaysPerYear)
}

// Sortino calculates the annualized Sortino ratio (downside deviation only).
// Returns 0 when there are no downside returns or their std is zero.
func Sortino(returns []float64, riskFreeAnnual float64) float64 {
	excess := excessReturns(returns, riskFreeAnnual)

	downside := make([]float64, 0, len(excess))
	for _, r := range excess {
		if r < 0 {
			downside = append(downside, r)
		}
	}
	if len(downside) == 0 {
		return 0
	}

	std := stdSample(downside)
	if std == 0 {
		return 0
	}
	return mean(excess) / std * math.Sqrt(TradingDaysPerYear)
}

// MaxDrawdown calculates the maximum peak-to-trough decline of an equity
// curve, as a positive percentage. 0 for a non-decreasing curve.
func MaxDrawdown(equity contracts.EquityCurve) float64 {
	if len(equity) == 0 {
		return 0
	}

	peak := equity[0].Value
	minDD := 0.0
	for _, point := range equity {
		if point.Value > peak {
			peak = point.Value
		}
		dd := (point.Value - peak) / peak
		if dd < minDD {
			minDD = dd
		}
	}

	return math.Abs(minDD) * 100
}

// Calmar calculates annualized return over max drawdown.
// maxDrawdownPct is a percentage (as returned by MaxDrawdown).
// Returns 0 when drawdown is zero.
func Calmar(returns []float64, maxDrawdownPct float64) float64 {
	if maxDrawdownPct == 0 {
		return 0
	}
	annualReturn := math.Pow(1.0+mean(returns), TradingDaysPerYear) - 1.0
	return annualReturn / (maxDrawdownPct / 100)
}

// WinRate calculates the percentage of closed trades with positive net PnL.
// 0 for an empty ledger.
func WinRate(ledger contracts.TradeLedger) float64 {
	if len(ledger) == 0 {
		return 0
	}

	wins := 0
	for _, t := range ledger {
		if t.NetPnL > 0 {
			wins++
		}
	}
	return float64(wins) / float64(len(ledger)) * 100
}

// ProfitFactor calculates gross profit over gross loss across closed trades.
// +Inf when there are profits but no losses; 0 when the ledger is empty or
// has neither profits nor losses.
func ProfitFactor(ledger contracts.TradeLedger) float64 {
	if len(ledger) == 0 {
		return 0
	}

	var grossProfit, grossLoss float64
	for _, t := range ledger {
		if t.NetPnL > 0 {
			grossProfit += t.NetPnL
		} else if t.NetPnL < 0 {
			grossLoss += math.Abs(t.NetPnL)
		}
	}

	if grossLoss == 0 {
		if grossProfit > 0 {
			return math.Inf(1)
		}
		return 0
	}

	return grossProfit / grossLoss
}

// TotalReturnPct calculates the total return of an equity curve against the
// initial capital, in percent.
func TotalReturnPct(equity contracts.EquityCurve, initialCapital float64) float64 {
	if len(equity) == 0 || initialCapital == 0 {
		return 0
	}
	return (equity.FinalValue() - initialCapital) / initialCapital * 100
}

// AvgTradeDurationDays calculates the mean holding period in days.
// 0 for an empty ledger.
func AvgTradeDurationDays(ledger contracts.TradeLedger) float64 {
	if len(ledger) == 0 {
		return 0
	}

	var total float64
	for _, t := range ledger {
		total += t.Duration.Hours() / 24
	}
	return total / float64(len(ledger))
}

// Helpers. 표본 표준편차(n-1)는 원 구현(pandas)과 일치, 모표준편차는
// consistency 집계용.

func excessReturns(returns []float64, riskFreeAnnual float64) []float64 {
	dailyRF := riskFreeAnnual / TradingDaysPerYear
	excess := make([]float64, len(returns))
	for i, r := range returns {
		excess[i] = r - dailyRF
	}
	return excess
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func stdSample(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}

	m := mean(values)
	var variance float64
	for _, v := range values {
		diff := v - m
		variance += diff * diff
	}
	variance /= float64(len(values) - 1)

	return math.Sqrt(variance)
}

// StdPopulation calculates the population standard deviation (n divisor)
func StdPopulation(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	m := mean(values)
	var variance float64
	for _, v := range values {
		diff := v - m
		variance += diff * diff
	}
	variance /= float64(len(values))

	return math.Sqrt(variance)
}

// Mean is the exported arithmetic mean (0 for empty input)
func Mean(values []float64) float64 {
	return mean(values)
}
