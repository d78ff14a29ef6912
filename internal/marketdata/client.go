package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"golang.org/x/time/rate"

	"github.com/wonny/edgelab/internal/contracts"
	"github.com/wonny/edgelab/pkg/config"
	"github.com/wonny/edgelab/pkg/httputil"
	"github.com/wonny/edgelab/pkg/logger"
)

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"

// Client fetches daily price history from the chart API
// ⭐ SSOT: 외부 차트 API 호출은 여기서만
// contracts.PriceProvider 구현체. 레이트 리밋은 클라이언트 측에서 적용.
type Client struct {
	http         *httputil.Client
	limiter      *rate.Limiter
	logger       *logger.Logger
	chartBaseURL string
}

// NewClient creates a chart API client
func NewClient(cfg config.MarketDataConfig, log *logger.Logger) *Client {
	return &Client{
		http:         httputil.New(log, cfg.RequestTimeout),
		limiter:      rate.NewLimiter(rate.Limit(cfg.RatePerSec), cfg.RateBurst),
		logger:       log,
		chartBaseURL: cfg.ChartBaseURL,
	}
}

// chartResponse mirrors the chart API envelope
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// History fetches the daily bar history for a ticker
func (c *Client) History(ctx context.Context, ticker string, from, to time.Time) (*contracts.PriceSeries, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	url := fmt.Sprintf("%s/%s?period1=%d&period2=%d&interval=1d",
		c.chartBaseURL, ticker, from.Unix(), to.Unix())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", contracts.ErrDataUnavailable, ticker, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: unknown ticker %s", contracts.ErrDataUnavailable, ticker)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s: unexpected status %d", contracts.ErrDataUnavailable, ticker, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body failed: %w", err)
	}

	series, err := parseChartResponse(ticker, body)
	if err != nil {
		return nil, err
	}

	c.logger.WithFields(map[string]interface{}{
		"ticker": ticker,
		"bars":   series.Len(),
	}).Debug("Fetched price history")
	return series, nil
}

// parseChartResponse decodes the chart envelope into a validated series.
// null 바(휴장/결측)는 건너뜀, 타임스탬프 오름차순 보장
func parseChartResponse(ticker string, body []byte) (*contracts.PriceSeries, error) {
	var decoded chartResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("%w: %s: parse failed: %v", contracts.ErrDataUnavailable, ticker, err)
	}

	if decoded.Chart.Error != nil {
		return nil, fmt.Errorf("%w: %s: %s", contracts.ErrDataUnavailable, ticker, decoded.Chart.Error.Description)
	}
	if len(decoded.Chart.Result) == 0 || len(decoded.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("%w: %s: empty chart result", contracts.ErrDataUnavailable, ticker)
	}

	result := decoded.Chart.Result[0]
	quote := result.Indicators.Quote[0]

	bars := make([]contracts.PriceBar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) || quote.Close[i] == nil || *quote.Close[i] <= 0 {
			continue
		}
		bar := contracts.PriceBar{
			Timestamp: time.Unix(ts, 0).UTC().Truncate(24 * time.Hour),
			Close:     *quote.Close[i],
		}
		if i < len(quote.Open) && quote.Open[i] != nil {
			bar.Open = *quote.Open[i]
		}
		if i < len(quote.High) && quote.High[i] != nil {
			bar.High = *quote.High[i]
		}
		if i < len(quote.Low) && quote.Low[i] != nil {
			bar.Low = *quote.Low[i]
		}
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			bar.Volume = *quote.Volume[i]
		}
		bars = append(bars, bar)
	}

	sort.Slice(bars, func(i, j int) bool {
		return bars[i].Timestamp.Before(bars[j].Timestamp)
	})

	series := &contracts.PriceSeries{Ticker: ticker, Bars: bars}
	if err := series.Validate(); err != nil {
		return nil, err
	}
	return series, nil
}
