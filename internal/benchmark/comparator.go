package benchmark

import (
	"math"

	"github.com/wonny/edgelab/internal/contracts"
	"github.com/wonny/edgelab/internal/metrics"
)

// MinOverlapDays is the minimum number of shared trading days required for a
// meaningful regression. 미만이면 중립값(alpha=0, beta=1, corr=0)으로 강등.
const MinOverlapDays = 30

// Comparator compares a strategy return series against a benchmark
// ⭐ SSOT: 벤치마크 비교(알파/베타/상관)는 여기서만
type Comparator struct {
	riskFreeRate float64
}

// NewComparator creates a comparator using the given annual risk-free rate
func NewComparator(riskFreeRate float64) *Comparator {
	return &Comparator{riskFreeRate: riskFreeRate}
}

// TotalReturnPct is the buy-and-hold total return of a price series in percent
func TotalReturnPct(prices *contracts.PriceSeries) float64 {
	if prices.Len() < 2 {
		return 0
	}
	first := prices.Bars[0].Close
	last := prices.Bars[prices.Len()-1].Close
	return (last/first - 1.0) * 100
}

// Compare aligns the two return series on shared dates and derives alpha,
// beta and correlation, plus full-series relative measures.
//
// 정렬은 날짜 교집합 기준: 거래일 차이(상장일, 휴장)는 자동으로 제외된다.
// RelativeSharpe와 Outperformance는 정렬 전 전체 시계열로 계산.
func (c *Comparator) Compare(
	strategy, bench contracts.ReturnSeries,
	strategyTotalPct, benchTotalPct float64,
) *contracts.BenchmarkComparison {
	cmp := &contracts.BenchmarkComparison{
		StrategyReturnPct:  strategyTotalPct,
		BenchmarkReturnPct: benchTotalPct,
		Outperformance:     strategyTotalPct > benchTotalPct,
	}

	benchSharpe := metrics.Sharpe(bench.Values(), c.riskFreeRate)
	if benchSharpe != 0 {
		cmp.RelativeSharpe = metrics.Sharpe(strategy.Values(), c.riskFreeRate) / benchSharpe
	}

	alignedStrategy, alignedBench := alignByDate(strategy, bench)
	if len(alignedStrategy) < MinOverlapDays {
		cmp.AlphaPct = 0
		cmp.Beta = 1
		cmp.Correlation = 0
		cmp.InsufficientOverlap = true
		return cmp
	}

	cmp.Beta = beta(alignedStrategy, alignedBench)
	cmp.Correlation = correlation(alignedStrategy, alignedBench)
	cmp.AlphaPct = alpha(alignedStrategy, alignedBench, cmp.Beta)
	return cmp
}

// alignByDate intersects the two series on calendar date, preserving the
// strategy's order. 양쪽 모두 날짜 오름차순이라는 전제.
func alignByDate(strategy, bench contracts.ReturnSeries) ([]float64, []float64) {
	benchByDate := make(map[string]float64, len(bench))
	for _, p := range bench {
		benchByDate[p.Date.Format("2006-01-02")] = p.Value
	}

	s := make([]float64, 0, len(strategy))
	b := make([]float64, 0, len(strategy))
	for _, p := range strategy {
		if v, ok := benchByDate[p.Date.Format("2006-01-02")]; ok {
			s = append(s, p.Value)
			b = append(b, v)
		}
	}
	return s, b
}

// beta is cov(strategy, bench) / var(bench), population estimators.
// 모추정량으로 통일해야 beta(x, x) == 1이 정확히 성립한다.
// 벤치마크 분산이 0이면 시장 민감도를 알 수 없으므로 중립값 1.0.
func beta(strategy, bench []float64) float64 {
	varBench := covariance(bench, bench)
	if varBench == 0 {
		return 1.0
	}
	return covariance(strategy, bench) / varBench
}

// correlation is the Pearson correlation coefficient (0 when either side is
// degenerate)
func correlation(strategy, bench []float64) float64 {
	stdS := metrics.StdPopulation(strategy)
	stdB := metrics.StdPopulation(bench)
	if stdS == 0 || stdB == 0 {
		return 0
	}
	return covariance(strategy, bench) / (stdS * stdB)
}

// alpha is the annualized excess return in percent, both legs compounded:
// ((1+mean(strategy))^252 − 1) − beta·((1+mean(bench))^252 − 1), ×100
func alpha(strategy, bench []float64, beta float64) float64 {
	annualS := math.Pow(1+metrics.Mean(strategy), metrics.TradingDaysPerYear) - 1
	annualB := math.Pow(1+metrics.Mean(bench), metrics.TradingDaysPerYear) - 1
	return (annualS - beta*annualB) * 100
}

func covariance(x, y []float64) float64 {
	if len(x) == 0 || len(x) != len(y) {
		return 0
	}

	mx := metrics.Mean(x)
	my := metrics.Mean(y)
	var sum float64
	for i := range x {
		sum += (x[i] - mx) * (y[i] - my)
	}
	return sum / float64(len(x))
}
