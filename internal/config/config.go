package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Logging   LoggingConfig
	Analysis  AnalysisConfig
	Pricing   PricingConfig
	Collector CollectorConfig
	Scheduler SchedulerConfig
	OpenAI    OpenAIConfig
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	DashboardPort   int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	Environment     string
}

// DatabaseConfig contains database configuration
type DatabaseConfig struct {
	Driver          string
	Host            string
	Port            int
	Name            string
	User            string
	Password        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	// For SQLite
	Path string
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string
	Format string // json or console
}

// AnalysisConfig carries the tunable thresholds of the analysis
// pipeline. Defaults match the documented behavior; overrides come from
// the environment.
type AnalysisConfig struct {
	ZScoreThreshold     float64
	MADThreshold        float64
	MovingAvgWindow     int // 0 means max(3, len/10)
	MinSeriesLength     int
	FlatSlopeRatio      float64 // |slope per day| below this fraction of the mean is flat
	PatternCVThreshold  float64
	TierSpilloverMargin float64
	MaxPerCategory      int
	MaxRecommendations  int
	DedupTolerance      time.Duration
	Workers             int
}

// PricingConfig locates the egress pricing table
type PricingConfig struct {
	TablePath       string
	DefaultRegion   string
	WarningUSD      float64
	CriticalUSD     float64
	ProjectionDays  int
}

// CollectorConfig contains cloud provider collection configuration
type CollectorConfig struct {
	Providers      []string // azure, aws, static
	WindowDays     int
	IntervalHours  int
	StaticDataPath string

	AzureSubscriptionID string
	AzureTenantID       string
	AzureClientID       string
	AzureClientSecret   string

	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
}

// SchedulerConfig contains the background run schedule
type SchedulerConfig struct {
	Enabled  bool
	CronSpec string
}

// OpenAIConfig contains the optional enrichment configuration
type OpenAIConfig struct {
	APIKey string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore errors as it's optional)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			DashboardPort:   getEnvAsInt("DASHBOARD_PORT", 8081),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
			Environment:     getEnv("ENVIRONMENT", "development"),
		},
		Database: DatabaseConfig{
			Driver:          getEnv("DB_DRIVER", "sqlite"),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			Name:            getEnv("DB_NAME", "egresswatch"),
			User:            getEnv("DB_USER", ""),
			Password:        getEnv("DB_PASSWORD", ""),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
			Path:            getEnv("DB_PATH", "./egresswatch.db"),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Analysis: AnalysisConfig{
			ZScoreThreshold:     getEnvAsFloat("ANALYSIS_ZSCORE_THRESHOLD", 3.0),
			MADThreshold:        getEnvAsFloat("ANALYSIS_MAD_THRESHOLD", 3.5),
			MovingAvgWindow:     getEnvAsInt("ANALYSIS_MOVING_AVG_WINDOW", 0),
			MinSeriesLength:     getEnvAsInt("ANALYSIS_MIN_SERIES_LENGTH", 5),
			FlatSlopeRatio:      getEnvAsFloat("ANALYSIS_FLAT_SLOPE_RATIO", 0.01),
			PatternCVThreshold:  getEnvAsFloat("ANALYSIS_PATTERN_CV_THRESHOLD", 0.15),
			TierSpilloverMargin: getEnvAsFloat("ANALYSIS_TIER_SPILLOVER_MARGIN", 0.05),
			MaxPerCategory:      getEnvAsInt("ANALYSIS_MAX_PER_CATEGORY", 10),
			MaxRecommendations:  getEnvAsInt("ANALYSIS_MAX_RECOMMENDATIONS", 25),
			DedupTolerance:      getEnvAsDuration("ANALYSIS_DEDUP_TOLERANCE", 2*time.Minute),
			Workers:             getEnvAsInt("ANALYSIS_WORKERS", 8),
		},
		Pricing: PricingConfig{
			TablePath:      getEnv("PRICING_TABLE_PATH", ""),
			DefaultRegion:  getEnv("PRICING_DEFAULT_REGION", "default"),
			WarningUSD:     getEnvAsFloat("PRICING_WARNING_USD", 100),
			CriticalUSD:    getEnvAsFloat("PRICING_CRITICAL_USD", 500),
			ProjectionDays: getEnvAsInt("PRICING_PROJECTION_DAYS", 30),
		},
		Collector: CollectorConfig{
			Providers:      getEnvAsSlice("COLLECTOR_PROVIDERS", []string{"static"}),
			WindowDays:     getEnvAsInt("COLLECTOR_WINDOW_DAYS", 7),
			IntervalHours:  getEnvAsInt("COLLECTOR_INTERVAL_HOURS", 1),
			StaticDataPath: getEnv("COLLECTOR_STATIC_PATH", ""),

			AzureSubscriptionID: getEnv("AZURE_SUBSCRIPTION_ID", ""),
			AzureTenantID:       getEnv("AZURE_TENANT_ID", ""),
			AzureClientID:       getEnv("AZURE_CLIENT_ID", ""),
			AzureClientSecret:   getEnv("AZURE_CLIENT_SECRET", ""),

			AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
			AWSAccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			AWSSecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		},
		Scheduler: SchedulerConfig{
			Enabled:  getEnvAsBool("SCHEDULER_ENABLED", false),
			CronSpec: getEnv("SCHEDULER_CRON", "0 */6 * * *"),
		},
		OpenAI: OpenAIConfig{
			APIKey: getEnv("OPENAI_API_KEY", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Driver != "sqlite" && c.Database.Driver != "postgres" {
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}

	if c.Analysis.ZScoreThreshold <= 0 || c.Analysis.MADThreshold <= 0 {
		return fmt.Errorf("anomaly thresholds must be positive")
	}

	if c.Analysis.MinSeriesLength < 2 {
		return fmt.Errorf("minimum series length must be at least 2")
	}

	if c.Analysis.MaxPerCategory < 1 || c.Analysis.MaxRecommendations < 1 {
		return fmt.Errorf("recommendation caps must be at least 1")
	}

	if c.Collector.WindowDays < 1 {
		return fmt.Errorf("collection window must be at least one day")
	}

	for _, p := range c.Collector.Providers {
		switch p {
		case "azure", "aws", "static":
		default:
			return fmt.Errorf("unsupported collector provider: %s", p)
		}
	}

	return nil
}

// Helper functions

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

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
