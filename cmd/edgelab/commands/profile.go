package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/edgelab/internal/marketdata"
	"github.com/wonny/edgelab/pkg/config"
	"github.com/wonny/edgelab/pkg/logger"
	"github.com/wonny/edgelab/pkg/redis"
)

// profileCmd represents the profile command
var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "종목 프로필 조회",
	Long: `종목 프로필 페이지에서 회사명/섹터/산업을 조회합니다.
결과는 1시간 동안 캐시됩니다.

Example:
  go run ./cmd/edgelab profile --ticker AAPL`,
	RunE: runProfile,
}

var profileTicker string

func init() {
	rootCmd.AddCommand(profileCmd)

	profileCmd.Flags().StringVar(&profileTicker, "ticker", "", "대상 티커 (필수)")
	_ = profileCmd.MarkFlagRequired("ticker")
}

func runProfile(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg)

	redisClient, err := redis.New(cfg)
	if err != nil {
		log.WithError(err).Warn("Redis unavailable, running without profile cache")
		redisClient = redis.Disabled()
	}
	cache := redis.NewCache(redisClient, "edgelab")
	scraper := marketdata.NewProfileScraper(cfg.MarketData, log)

	var profile marketdata.TickerProfile
	err = cache.GetOrSet(cmd.Context(), redis.ProfileKey(profileTicker), &profile, redis.TTLLong,
		func() (interface{}, error) {
			return scraper.Fetch(cmd.Context(), profileTicker)
		})
	if err != nil {
		return fmt.Errorf("profile fetch failed: %w", err)
	}

	fmt.Printf("\n🏢 %s\n", profile.Ticker)
	PrintSeparator()
	fmt.Printf("Name:     %s\n", profile.Name)
	fmt.Printf("Sector:   %s\n", orDash(profile.Sector))
	fmt.Printf("Industry: %s\n", orDash(profile.Industry))
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
