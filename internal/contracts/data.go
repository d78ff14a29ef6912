package contracts

import (
	"fmt"
	"math"
	"time"
)

// PriceBar represents one daily OHLCV bar
type PriceBar struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
}

// PriceSeries is an ordered daily price history for one ticker
// ⭐ SSOT: 가격 시계열 불변식 검증은 여기서만
type PriceSeries struct {
	Ticker string     `json:"ticker"`
	Bars   []PriceBar `json:"bars"`
}

// Len returns the number of bars
func (p *PriceSeries) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Bars)
}

// Closes returns the close prices in bar order
func (p *PriceSeries) Closes() []float64 {
	closes := make([]float64, len(p.Bars))
	for i, b := range p.Bars {
		closes[i] = b.Close
	}
	return closes
}

// Validate checks series invariants: non-empty, strictly increasing
// timestamps, finite positive closes
func (p *PriceSeries) Validate() error {
	if p.Len() == 0 {
		return fmt.Errorf("%w: empty price series for %s", ErrDataUnavailable, p.Ticker)
	}

	for i, b := range p.Bars {
		if b.Close <= 0 || math.IsNaN(b.Close) || math.IsInf(b.Close, 0) {
			return fmt.Errorf("%w: bad close %f at bar %d (%s)",
				ErrSimulation, b.Close, i, b.Timestamp.Format("2006-01-02"))
		}
		if i > 0 && !p.Bars[i-1].Timestamp.Before(b.Timestamp) {
			return fmt.Errorf("%w: non-increasing timestamp at bar %d (%s)",
				ErrSimulation, i, b.Timestamp.Format("2006-01-02"))
		}
	}

	return nil
}

// Returns computes the daily close-to-close return series.
// 길이는 bars-1 (첫 바는 기준점)
func (p *PriceSeries) Returns() ReturnSeries {
	if p.Len() < 2 {
		return nil
	}

	returns := make(ReturnSeries, 0, len(p.Bars)-1)
	for i := 1; i < len(p.Bars); i++ {
		returns = append(returns, ReturnPoint{
			Date:  p.Bars[i].Timestamp,
			Value: p.Bars[i].Close/p.Bars[i-1].Close - 1.0,
		})
	}
	return returns
}

// SignalSeries holds entry/exit signals aligned 1:1 with a price series
type SignalSeries struct {
	Entries []bool `json:"entries"`
	Exits   []bool `json:"exits"`
}

// Len returns the signal length (entries and exits must match)
func (s *SignalSeries) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Entries)
}

// Validate checks the signal series against the expected bar count
func (s *SignalSeries) Validate(bars int) error {
	if s == nil {
		return fmt.Errorf("%w: nil signal series", ErrSignalAlignment)
	}
	if len(s.Entries) != len(s.Exits) {
		return fmt.Errorf("%w: entries=%d exits=%d", ErrSignalAlignment, len(s.Entries), len(s.Exits))
	}
	if len(s.Entries) != bars {
		return fmt.Errorf("%w: signals=%d bars=%d", ErrSignalAlignment, len(s.Entries), bars)
	}
	return nil
}

// Trade is a closed round-trip, created only by the simulator
type Trade struct {
	EntryDate  time.Time     `json:"entry_date"`
	ExitDate   time.Time     `json:"exit_date"`
	EntryPrice float64       `json:"entry_price"`
	ExitPrice  float64       `json:"exit_price"`
	Quantity   float64       `json:"quantity"`
	GrossPnL   float64       `json:"gross_pnl"`
	FeesPaid   float64       `json:"fees_paid"`
	NetPnL     float64       `json:"net_pnl"`
	Duration   time.Duration `json:"duration"`
}

// TradeLedger is the ordered sequence of closed trades for one run
type TradeLedger []Trade

// TotalFees sums fees across all closed trades
func (t TradeLedger) TotalFees() float64 {
	var total float64
	for _, trade := range t {
		total += trade.FeesPaid
	}
	return total
}

// EquityPoint is one mark-to-market portfolio value
type EquityPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// EquityCurve is the per-bar portfolio value series, one entry per price bar
type EquityCurve []EquityPoint

// FinalValue returns the last portfolio value (0 for an empty curve)
func (e EquityCurve) FinalValue() float64 {
	if len(e) == 0 {
		return 0
	}
	return e[len(e)-1].Value
}

// Returns computes the daily equity return series (length len-1)
func (e EquityCurve) Returns() ReturnSeries {
	if len(e) < 2 {
		return nil
	}

	returns := make(ReturnSeries, 0, len(e)-1)
	for i := 1; i < len(e); i++ {
		returns = append(returns, ReturnPoint{
			Date:  e[i].Date,
			Value: e[i].Value/e[i-1].Value - 1.0,
		})
	}
	return returns
}

// ReturnPoint is one dated daily return
type ReturnPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// ReturnSeries is an ordered, timestamped daily return series.
// 타임스탬프는 벤치마크 정렬과 월별 집계에 사용
type ReturnSeries []ReturnPoint

// Values returns the raw return values in order
func (r ReturnSeries) Values() []float64 {
	values := make([]float64, len(r))
	for i, p := range r {
		values[i] = p.Value
	}
	return values
}
