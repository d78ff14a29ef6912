package contracts

import (
	"encoding/json"
	"math"
	"time"
)

// Float is a float64 whose JSON form survives non-finite values.
// profit factor가 +Inf일 수 있어 encoding/json 기본 동작으로는 직렬화 실패
type Float float64

// MarshalJSON encodes non-finite values as strings, finite values as numbers
func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	switch {
	case math.IsInf(v, 1):
		return []byte(`"Infinity"`), nil
	case math.IsInf(v, -1):
		return []byte(`"-Infinity"`), nil
	case math.IsNaN(v):
		return []byte("null"), nil
	default:
		return json.Marshal(v)
	}
}

// UnmarshalJSON accepts both the string and numeric encodings
func (f *Float) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case `"Infinity"`:
		*f = Float(math.Inf(1))
		return nil
	case `"-Infinity"`:
		*f = Float(math.Inf(-1))
		return nil
	case "null":
		*f = Float(math.NaN())
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = Float(v)
	return nil
}

// PerformanceReport is the durable output of one simulation run
// ⭐ SSOT: 성과 리포트 스키마는 여기서만
type PerformanceReport struct {
	Ticker    string    `json:"ticker"`
	Strategy  string    `json:"strategy"`
	Window    string    `json:"window"` // e.g. "1Y", "5Y"
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`

	// 수익률
	TotalReturnPct float64 `json:"total_return_pct"`
	FinalValue     float64 `json:"final_value"`

	// 리스크 지표
	SharpeRatio    float64 `json:"sharpe_ratio"`
	SortinoRatio   float64 `json:"sortino_ratio"`
	CalmarRatio    float64 `json:"calmar_ratio"`
	MaxDrawdownPct float64 `json:"max_drawdown_pct"`

	// 트레이딩 지표
	WinRatePct           float64 `json:"win_rate_pct"`
	ProfitFactor         Float   `json:"profit_factor"`
	TotalTrades          int     `json:"total_trades"`
	AvgTradeDurationDays float64 `json:"avg_trade_duration_days"`
	TotalFeesPaid        float64 `json:"total_fees_paid"`

	// 월별 지표
	BestMonthPct   float64 `json:"best_month_pct"`
	WorstMonthPct  float64 `json:"worst_month_pct"`
	PositiveMonths int     `json:"positive_months"`
	NegativeMonths int     `json:"negative_months"`

	// 벤치마크 비교 (벤치마크 데이터 없으면 nil)
	Benchmark *BenchmarkComparison `json:"benchmark,omitempty"`
}

// BenchmarkComparison compares a strategy run against a passive benchmark
type BenchmarkComparison struct {
	BenchmarkTicker     string  `json:"benchmark_ticker"`
	BenchmarkReturnPct  float64 `json:"benchmark_return_pct"`
	StrategyReturnPct   float64 `json:"strategy_return_pct"`
	AlphaPct            float64 `json:"alpha_pct"`
	Beta                float64 `json:"beta"`
	Correlation         float64 `json:"correlation"`
	RelativeSharpe      float64 `json:"relative_sharpe"`
	Outperformance      bool    `json:"outperformance"`
	InsufficientOverlap bool    `json:"insufficient_overlap"`
}

// WindowFailure records one failed window in a multi-window run
type WindowFailure struct {
	Window string `json:"window"`
	Reason string `json:"reason"`
}

// ConsistencyReport aggregates per-window reports into a consistency verdict
type ConsistencyReport struct {
	Ticker   string `json:"ticker"`
	Strategy string `json:"strategy"`

	// 윈도우 라벨별 리포트 (성공한 윈도우만)
	Reports map[string]*PerformanceReport `json:"reports"`

	// 실패한 윈도우 (배치를 중단시키지 않음)
	Failures []WindowFailure `json:"failures,omitempty"`

	SharpeStd    float64 `json:"sharpe_std"`
	ReturnStd    float64 `json:"return_std"`
	AvgSharpe    float64 `json:"avg_sharpe"`
	AvgReturn    float64 `json:"avg_return"`
	IsConsistent bool    `json:"is_consistent"`
}

// Empty reports true when no window succeeded
func (c *ConsistencyReport) Empty() bool {
	return len(c.Reports) == 0
}
