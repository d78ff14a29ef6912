package metrics

import (
	"sort"

	"github.com/wonny/edgelab/internal/contracts"
)

// MonthlySummary holds calendar-month aggregates of a daily return series
type MonthlySummary struct {
	BestMonthPct   float64
	WorstMonthPct  float64
	PositiveMonths int
	NegativeMonths int
}

// Monthly resamples daily returns into compounded calendar-month returns and
// summarizes them. 월별 수익률 = ∏(1+r) − 1
func Monthly(returns contracts.ReturnSeries) MonthlySummary {
	if len(returns) == 0 {
		return MonthlySummary{}
	}

	// Compound by (year, month), keyed for deterministic ordering
	compounded := make(map[int]float64)
	for _, p := range returns {
		key := p.Date.Year()*100 + int(p.Date.Month())
		cum, ok := compounded[key]
		if !ok {
			cum = 1.0
		}
		compounded[key] = cum * (1.0 + p.Value)
	}

	keys := make([]int, 0, len(compounded))
	for k := range compounded {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	summary := MonthlySummary{}
	best, worst := 0.0, 0.0
	for i, k := range keys {
		monthReturn := compounded[k] - 1.0

		if i == 0 || monthReturn > best {
			best = monthReturn
		}
		if i == 0 || monthReturn < worst {
			worst = monthReturn
		}

		if monthReturn > 0 {
			summary.PositiveMonths++
		} else if monthReturn < 0 {
			summary.NegativeMonths++
		}
	}

	summary.BestMonthPct = best * 100
	summary.WorstMonthPct = worst * 100
	return summary
}
