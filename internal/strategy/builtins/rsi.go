package builtins

import (
	"fmt"

	"github.com/wonny/edgelab/internal/contracts"
)

// RSIReversal is a mean-reversion strategy: enter on an oversold RSI reading,
// exit on an overbought one. Wilder 평활 RSI 사용.
type RSIReversal struct {
	period     int
	oversold   float64
	overbought float64
}

// NewRSIReversal creates an RSI reversal strategy with the classic 14/30/70
// parameters when given (14, 30, 70).
func NewRSIReversal(period int, oversold, overbought float64) (*RSIReversal, error) {
	if period < 2 {
		return nil, fmt.Errorf("%w: rsi period must be >= 2, got %d",
			contracts.ErrStrategyContract, period)
	}
	if oversold >= overbought || oversold < 0 || overbought > 100 {
		return nil, fmt.Errorf("%w: rsi thresholds must satisfy 0 <= oversold < overbought <= 100",
			contracts.ErrStrategyContract)
	}
	return &RSIReversal{period: period, oversold: oversold, overbought: overbought}, nil
}

// Name returns the registry key, e.g. "rsi_14_30_70"
func (r *RSIReversal) Name() string {
	return fmt.Sprintf("rsi_%d_%.0f_%.0f", r.period, r.oversold, r.overbought)
}

// GenerateSignals emits threshold-crossing signals. 임계값 교차 시점에만 신호
// 발생 — 과매도 구간에 머무는 동안 반복 진입하지 않음.
func (r *RSIReversal) GenerateSignals(prices *contracts.PriceSeries) (*contracts.SignalSeries, error) {
	n := prices.Len()
	signals := &contracts.SignalSeries{
		Entries: make([]bool, n),
		Exits:   make([]bool, n),
	}

	rsi := wilderRSI(prices.Closes(), r.period)
	for i := r.period + 1; i < n; i++ {
		if rsi[i-1] >= r.oversold && rsi[i] < r.oversold {
			signals.Entries[i] = true
		}
		if rsi[i-1] <= r.overbought && rsi[i] > r.overbought {
			signals.Exits[i] = true
		}
	}

	return signals, nil
}

// wilderRSI computes the RSI with Wilder's smoothing.
// 인덱스 < period는 0 (미정의 구간)
func wilderRSI(closes []float64, period int) []float64 {
	out := make([]float64, len(closes))
	if len(closes) <= period {
		return out
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		diff := closes[i] - closes[i-1]
		if diff > 0 {
			avgGain += diff
		} else {
			avgLoss -= diff
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	out[period] = rsiValue(avgGain, avgLoss)

	for i := period + 1; i < len(closes); i++ {
		diff := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if diff > 0 {
			gain = diff
		} else {
			loss = -diff
		}

		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		out[i] = rsiValue(avgGain, avgLoss)
	}

	return out
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		if avgGain == 0 {
			return 50 // 무변동 구간은 중립
		}
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}
