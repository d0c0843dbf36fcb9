package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Environment string           `mapstructure:"environment"`
	LogLevel    string           `mapstructure:"log_level"`
	Server      ServerConfig     `mapstructure:"server"`
	Redis       RedisConfig      `mapstructure:"redis"`
	Database    DatabaseConfig   `mapstructure:"database"`
	MarketData  MarketDataConfig `mapstructure:"market_data"`
	AI          AIConfig         `mapstructure:"ai"`
	Extraction  ExtractionConfig `mapstructure:"extraction"`
}

type ServerConfig struct {
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	CacheTTL string `mapstructure:"cache_ttl"`
}

type DatabaseConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	User        string `mapstructure:"user"`
	Password    string `mapstructure:"password"`
	DBName      string `mapstructure:"dbname"`
	SSLMode     string `mapstructure:"sslmode"`
	DatabaseURL string `mapstructure:"database_url"`
	MaxConns    int    `mapstructure:"max_conns"`
}

// MarketDataConfig configures the Finnhub-compatible market data provider.
// An empty APIKey switches the client into mock mode.
type MarketDataConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key" json:"-" yaml:"-"`
	Timeout int    `mapstructure:"timeout"`
}

// AIConfig configures the OpenAI-compatible chat completion endpoint that
// produces the raw analysis documents. When APIVersion is set the client
// speaks the Azure dialect (api-key header + api-version query parameter).
type AIConfig struct {
	Endpoint    string  `mapstructure:"endpoint"`
	APIKey      string  `mapstructure:"api_key" json:"-" yaml:"-"`
	Deployment  string  `mapstructure:"deployment"`
	APIVersion  string  `mapstructure:"api_version"`
	Timeout     int     `mapstructure:"timeout"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float64 `mapstructure:"temperature"`
}

// ExtractionConfig carries the numeric fallback constants substituted when no
// pattern variant matches. The placeholder levels have no domain meaning, they
// only guarantee a usable non-null number for the frontend.
type ExtractionConfig struct {
	RSIDefault        float64 `mapstructure:"rsi_default"`
	MACDDefault       float64 `mapstructure:"macd_default"`
	SupportDefault    float64 `mapstructure:"support_default"`
	ResistanceDefault float64 `mapstructure:"resistance_default"`
	MA50Default       float64 `mapstructure:"ma50_default"`
	MA200Default      float64 `mapstructure:"ma200_default"`
	ScoreDefault      float64 `mapstructure:"score_default"`
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")

	setDefaults()

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Bind the provider credentials to their conventional variable names
	envBindings := map[string]string{
		"market_data.api_key": "FINNHUB_API_KEY",
		"ai.endpoint":         "AZURE_OPENAI_ENDPOINT",
		"ai.api_key":          "AZURE_OPENAI_API_KEY",
		"ai.deployment":       "AZURE_OPENAI_DEPLOYMENT",
	}
	for key, env := range envBindings {
		if err := viper.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s environment variable: %w", env, err)
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		// Config file not found, use defaults and environment variables
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	config.Environment = strings.ToLower(config.Environment)

	if config.AI.Temperature < 0 || config.AI.Temperature > 2 {
		return nil, fmt.Errorf("ai temperature must be between 0 and 2, got %v", config.AI.Temperature)
	}
	if config.Environment != "development" && config.AI.Endpoint == "" {
		return nil, fmt.Errorf("ai.endpoint (AZURE_OPENAI_ENDPOINT) is required in %s environment", config.Environment)
	}

	return &config, nil
}

func setDefaults() {
	// Environment
	viper.SetDefault("environment", "development")
	viper.SetDefault("log_level", "info")

	// Server
	viper.SetDefault("server.port", 8000)
	viper.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// Redis
	viper.SetDefault("redis.enabled", false)
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.cache_ttl", "5m")

	// Database
	viper.SetDefault("database.enabled", false)
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "postgres")
	viper.SetDefault("database.dbname", "market_analysis")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("database.database_url", "")
	viper.SetDefault("database.max_conns", 10)

	// Market data provider
	viper.SetDefault("market_data.base_url", "https://finnhub.io/api/v1")
	viper.SetDefault("market_data.api_key", "")
	viper.SetDefault("market_data.timeout", 15)

	// AI provider
	viper.SetDefault("ai.endpoint", "")
	viper.SetDefault("ai.api_key", "")
	viper.SetDefault("ai.deployment", "gpt-4o")
	viper.SetDefault("ai.api_version", "2024-02-15-preview")
	viper.SetDefault("ai.timeout", 120)
	viper.SetDefault("ai.max_tokens", 3000)
	viper.SetDefault("ai.temperature", 0.7)

	// Extraction fallbacks
	viper.SetDefault("extraction.rsi_default", 50.0)
	viper.SetDefault("extraction.macd_default", 0.0)
	viper.SetDefault("extraction.support_default", 100.0)
	viper.SetDefault("extraction.resistance_default", 120.0)
	viper.SetDefault("extraction.ma50_default", 110.0)
	viper.SetDefault("extraction.ma200_default", 105.0)
	viper.SetDefault("extraction.score_default", 5.0)
}
