package marketdata

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/wonny/edgelab/internal/contracts"
	"github.com/wonny/edgelab/pkg/config"
	"github.com/wonny/edgelab/pkg/httputil"
	"github.com/wonny/edgelab/pkg/logger"
)

// TickerProfile holds scraped company metadata
type TickerProfile struct {
	Ticker   string `json:"ticker"`
	Name     string `json:"name"`
	Sector   string `json:"sector"`
	Industry string `json:"industry"`
}

// ProfileScraper scrapes the ticker profile page
// ⭐ SSOT: 프로필 HTML 파싱은 여기서만
type ProfileScraper struct {
	http    *httputil.Client
	logger  *logger.Logger
	baseURL string
}

// NewProfileScraper creates a profile scraper
func NewProfileScraper(cfg config.MarketDataConfig, log *logger.Logger) *ProfileScraper {
	return &ProfileScraper{
		http:    httputil.New(log, cfg.RequestTimeout),
		logger:  log,
		baseURL: cfg.ProfileBaseURL,
	}
}

// Fetch retrieves and parses the profile page for a ticker
func (s *ProfileScraper) Fetch(ctx context.Context, ticker string) (*TickerProfile, error) {
	url := fmt.Sprintf("%s/%s/profile", s.baseURL, ticker)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: profile %s: %v", contracts.ErrDataUnavailable, ticker, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: profile %s: unexpected status %d",
			contracts.ErrDataUnavailable, ticker, resp.StatusCode)
	}

	profile, err := parseProfile(ticker, resp)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"ticker": ticker,
		"sector": profile.Sector,
	}).Debug("Fetched ticker profile")
	return profile, nil
}

// parseProfile extracts name/sector/industry from the profile HTML
func parseProfile(ticker string, resp *http.Response) (*TickerProfile, error) {
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse profile HTML failed: %w", err)
	}

	profile := &TickerProfile{Ticker: ticker}
	profile.Name = strings.TrimSpace(doc.Find("h1").First().Text())

	// 프로필 페이지의 dt/dd 쌍에서 섹터/산업 추출
	doc.Find("dt").Each(func(_ int, dt *goquery.Selection) {
		label := strings.ToLower(strings.TrimSpace(dt.Text()))
		value := strings.TrimSpace(dt.Next().Text())
		switch {
		case strings.HasPrefix(label, "sector"):
			profile.Sector = value
		case strings.HasPrefix(label, "industry"):
			profile.Industry = value
		}
	})

	if profile.Name == "" {
		return nil, fmt.Errorf("%w: profile %s: page missing company name", contracts.ErrDataUnavailable, ticker)
	}
	return profile, nil
}
