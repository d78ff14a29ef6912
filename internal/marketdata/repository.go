package marketdata

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/wonny/edgelab/internal/contracts"
	"github.com/wonny/edgelab/pkg/database"
	"github.com/wonny/edgelab/pkg/logger"
)

// Repository persists daily bars in PostgreSQL
// ⭐ SSOT: daily_bars 테이블 접근은 여기서만
// contracts.PriceProvider 구현체 — 오프라인/재현 실행용 로컬 저장소.
type Repository struct {
	db     *database.DB
	logger *logger.Logger
}

// NewRepository creates a price repository
func NewRepository(db *database.DB, log *logger.Logger) *Repository {
	return &Repository{db: db, logger: log}
}

// SaveBars upserts a price series. 동일 (ticker, trade_date)는 덮어씀.
func (r *Repository) SaveBars(ctx context.Context, series *contracts.PriceSeries) error {
	if series.Len() == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, bar := range series.Bars {
		batch.Queue(`
			INSERT INTO daily_bars (ticker, trade_date, open, high, low, close, volume)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (ticker, trade_date)
			DO UPDATE SET open = $3, high = $4, low = $5, close = $6, volume = $7`,
			series.Ticker, bar.Timestamp, bar.Open, bar.High, bar.Low, bar.Close, bar.Volume,
		)
	}

	results := r.db.Pool.SendBatch(ctx, batch)
	defer results.Close()

	for range series.Bars {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("save bars for %s failed: %w", series.Ticker, err)
		}
	}

	r.logger.WithFields(map[string]interface{}{
		"ticker": series.Ticker,
		"bars":   series.Len(),
	}).Debug("Saved price bars")
	return nil
}

// History loads the stored daily bars for a ticker in [from, to]
func (r *Repository) History(ctx context.Context, ticker string, from, to time.Time) (*contracts.PriceSeries, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT trade_date, open, high, low, close, volume
		FROM daily_bars
		WHERE ticker = $1 AND trade_date BETWEEN $2 AND $3
		ORDER BY trade_date`,
		ticker, from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("query bars for %s failed: %w", ticker, err)
	}
	defer rows.Close()

	series := &contracts.PriceSeries{Ticker: ticker}
	for rows.Next() {
		var bar contracts.PriceBar
		if err := rows.Scan(&bar.Timestamp, &bar.Open, &bar.High, &bar.Low, &bar.Close, &bar.Volume); err != nil {
			return nil, fmt.Errorf("scan bar failed: %w", err)
		}
		series.Bars = append(series.Bars, bar)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bars failed: %w", err)
	}

	if series.Len() == 0 {
		return nil, fmt.Errorf("%w: no stored bars for %s", contracts.ErrDataUnavailable, ticker)
	}
	return series, nil
}

// LatestDate returns the most recent stored trade date for a ticker
func (r *Repository) LatestDate(ctx context.Context, ticker string) (time.Time, error) {
	var latest time.Time
	err := r.db.Pool.QueryRow(ctx,
		`SELECT max(trade_date) FROM daily_bars WHERE ticker = $1`, ticker,
	).Scan(&latest)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: latest date for %s: %v", contracts.ErrDataUnavailable, ticker, err)
	}
	return latest, nil
}
