package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// Market data provider
	MarketData MarketDataConfig

	// Backtest defaults
	Backtest BacktestConfig

	// Multi-window consistency analysis
	Consistency ConsistencyConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	URL      string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// MarketDataConfig holds the external price data provider configuration
type MarketDataConfig struct {
	ChartBaseURL   string // 일봉 차트 API
	ProfileBaseURL string // 종목 프로필 페이지 (HTML)
	RequestTimeout time.Duration
	RatePerSec     float64 // 초당 요청 수 제한
	RateBurst      int
	CacheTTL       time.Duration // 일별 데이터 캐시 TTL
}

// BacktestConfig holds default simulation parameters
type BacktestConfig struct {
	InitialCapital  float64
	FeeRate         float64 // 거래 수수료율 (레그당)
	SlippageRate    float64 // 슬리피지율 (레그당)
	RiskFreeRate    float64 // 연 무위험 수익률
	BenchmarkTicker string
}

// ConsistencyConfig holds multi-window analysis parameters
type ConsistencyConfig struct {
	MaxParallel        int           // 동시 실행 윈도우 수
	WindowTimeout      time.Duration // 윈도우당 타임아웃 (데이터 조회 포함)
	SharpeStdThreshold float64       // is_consistent 판정 기준
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	// Try multiple paths for .env file
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8090"),
		Env:  getEnv("ENV", "development"),

		// Database
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			Name:            getEnv("DB_NAME", "edgelab"),
			User:            getEnv("DB_USER", "edgelab"),
			Password:        getEnv("DB_PASSWORD", ""),
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 5),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		// Redis
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", true),
		},

		// Market data provider
		MarketData: MarketDataConfig{
			ChartBaseURL:   getEnv("MARKETDATA_CHART_URL", "https://query1.finance.yahoo.com/v8/finance/chart"),
			ProfileBaseURL: getEnv("MARKETDATA_PROFILE_URL", "https://finance.yahoo.com/quote"),
			RequestTimeout: getEnvAsDuration("MARKETDATA_TIMEOUT", "30s"),
			RatePerSec:     getEnvAsFloat("MARKETDATA_RATE_PER_SEC", 2.0),
			RateBurst:      getEnvAsInt("MARKETDATA_RATE_BURST", 4),
			CacheTTL:       getEnvAsDuration("MARKETDATA_CACHE_TTL", "24h"),
		},

		// Backtest defaults
		Backtest: BacktestConfig{
			InitialCapital:  getEnvAsFloat("BACKTEST_INITIAL_CAPITAL", 100_000),
			FeeRate:         getEnvAsFloat("BACKTEST_FEE_RATE", 0.001),
			SlippageRate:    getEnvAsFloat("BACKTEST_SLIPPAGE_RATE", 0.0005),
			RiskFreeRate:    getEnvAsFloat("BACKTEST_RISK_FREE_RATE", 0.02),
			BenchmarkTicker: getEnv("BACKTEST_BENCHMARK_TICKER", "SPY"),
		},

		// Consistency analysis
		Consistency: ConsistencyConfig{
			MaxParallel:        getEnvAsInt("CONSISTENCY_MAX_PARALLEL", 4),
			WindowTimeout:      getEnvAsDuration("CONSISTENCY_WINDOW_TIMEOUT", "2m"),
			SharpeStdThreshold: getEnvAsFloat("CONSISTENCY_SHARPE_STD_THRESHOLD", 0.5),
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "debug"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	// Validate environment
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Backtest.InitialCapital <= 0 {
		return fmt.Errorf("BACKTEST_INITIAL_CAPITAL must be positive")
	}
	if c.Backtest.FeeRate < 0 || c.Backtest.SlippageRate < 0 {
		return fmt.Errorf("fee and slippage rates must be non-negative")
	}
	if c.Consistency.MaxParallel < 1 {
		return fmt.Errorf("CONSISTENCY_MAX_PARALLEL must be >= 1")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	// Try paths in order of priority
	paths := []string{
		".env", // Current directory
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
			filepath.Join(exeDir, "..", "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		// Fallback to default
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
