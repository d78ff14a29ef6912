package builtins

import (
	"fmt"

	"github.com/wonny/edgelab/internal/contracts"
)

// SMACross is a moving-average crossover strategy: enter when the fast SMA
// crosses above the slow SMA, exit when it crosses back below.
// 골든크로스 진입 / 데드크로스 청산
type SMACross struct {
	fast int
	slow int
}

// NewSMACross creates an SMA crossover strategy. fast must be < slow.
func NewSMACross(fast, slow int) (*SMACross, error) {
	if fast < 1 || slow <= fast {
		return nil, fmt.Errorf("%w: sma windows must satisfy 1 <= fast < slow, got fast=%d slow=%d",
			contracts.ErrStrategyContract, fast, slow)
	}
	return &SMACross{fast: fast, slow: slow}, nil
}

// Name returns the registry key, e.g. "sma_cross_20_50"
func (s *SMACross) Name() string {
	return fmt.Sprintf("sma_cross_%d_%d", s.fast, s.slow)
}

// GenerateSignals emits crossover signals. 바 i의 신호는 [0..i] 종가만 사용.
func (s *SMACross) GenerateSignals(prices *contracts.PriceSeries) (*contracts.SignalSeries, error) {
	n := prices.Len()
	signals := &contracts.SignalSeries{
		Entries: make([]bool, n),
		Exits:   make([]bool, n),
	}

	closes := prices.Closes()
	fastSMA := rollingMean(closes, s.fast)
	slowSMA := rollingMean(closes, s.slow)

	// 양쪽 SMA가 모두 정의된 첫 바 이후부터 교차 판정
	for i := s.slow; i < n; i++ {
		prevDiff := fastSMA[i-1] - slowSMA[i-1]
		currDiff := fastSMA[i] - slowSMA[i]

		if prevDiff <= 0 && currDiff > 0 {
			signals.Entries[i] = true
		}
		if prevDiff >= 0 && currDiff < 0 {
			signals.Exits[i] = true
		}
	}

	return signals, nil
}

// rollingMean computes the trailing window mean; indexes before window-1 hold 0
func rollingMean(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		if i >= window-1 {
			out[i] = sum / float64(window)
		}
	}
	return out
}
