package config

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server     Server
	Database   Database
	Gemini     Gemini
	Analytics  Analytics
	Resilience Resilience
	RateLimit  RateLimit
}

type Server struct {
	Port string
}

type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type Gemini struct {
	APIKey string
	Model  string
}

// Analytics points at the sibling analytics service that receives
// completed-test events and answers result-verification queries.
type Analytics struct {
	BaseURL     string
	ServiceName string
	Timeout     time.Duration
}

// Resilience tunes the circuit breakers and the consistency retry loop
// guarding every outbound call to a sibling service.
type Resilience struct {
	BreakerThreshold    int
	BreakerWindow       time.Duration
	BreakerResetTimeout time.Duration
	MaxRetries          int
	RetryDelay          time.Duration
}

type RateLimit struct {
	RequestsPerMinute int
	Burst             int
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("DATABASE_SSLMODE", "disable")
	viper.SetDefault("GEMINI_MODEL", "gemini-1.5-flash")
	viper.SetDefault("ANALYTICS_SERVICE_NAME", "analytics-service")
	viper.SetDefault("ANALYTICS_TIMEOUT_SECONDS", 10)
	viper.SetDefault("BREAKER_THRESHOLD", 5)
	viper.SetDefault("BREAKER_WINDOW_SECONDS", 60)
	viper.SetDefault("BREAKER_RESET_TIMEOUT_SECONDS", 30)
	viper.SetDefault("CONSISTENCY_MAX_RETRIES", 3)
	viper.SetDefault("CONSISTENCY_RETRY_DELAY_MS", 500)
	viper.SetDefault("RATE_LIMIT_PER_MINUTE", 120)
	viper.SetDefault("RATE_LIMIT_BURST", 20)

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")
	config.Database.SSLMode = viper.GetString("DATABASE_SSLMODE")

	config.Gemini.APIKey = viper.GetString("GEMINI_API_KEY")
	config.Gemini.Model = viper.GetString("GEMINI_MODEL")

	config.Analytics.BaseURL = viper.GetString("ANALYTICS_BASE_URL")
	config.Analytics.ServiceName = viper.GetString("ANALYTICS_SERVICE_NAME")
	config.Analytics.Timeout = time.Duration(viper.GetInt("ANALYTICS_TIMEOUT_SECONDS")) * time.Second

	config.Resilience.BreakerThreshold = viper.GetInt("BREAKER_THRESHOLD")
	config.Resilience.BreakerWindow = time.Duration(viper.GetInt("BREAKER_WINDOW_SECONDS")) * time.Second
	config.Resilience.BreakerResetTimeout = time.Duration(viper.GetInt("BREAKER_RESET_TIMEOUT_SECONDS")) * time.Second
	config.Resilience.MaxRetries = viper.GetInt("CONSISTENCY_MAX_RETRIES")
	config.Resilience.RetryDelay = time.Duration(viper.GetInt("CONSISTENCY_RETRY_DELAY_MS")) * time.Millisecond

	config.RateLimit.RequestsPerMinute = viper.GetInt("RATE_LIMIT_PER_MINUTE")
	config.RateLimit.Burst = viper.GetInt("RATE_LIMIT_BURST")

	log.Info().Str("port", config.Server.Port).Str("db_host", config.Database.Host).Msg("Config loaded")
	return &config, nil
}
