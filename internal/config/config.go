package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Configuration constants
const (
	// API Configuration
	APIBaseURL  = "API_BASE_URL"
	HTTPTimeout = "HTTP_TIMEOUT"

	// Logging Configuration
	LogLevel  = "LOG_LEVEL"
	LogFormat = "LOG_FORMAT"

	// Query Cache Configuration
	QueryWorkers  = "QUERY_WORKERS"
	QueryCapacity = "QUERY_CAPACITY"
	CacheTTL      = "CACHE_TTL"
)

// Config holds all application configuration
type Config struct {
	API     APIConfig
	Logging LoggingConfig
	Query   QueryConfig
}

// APIConfig holds backend endpoint configuration
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// QueryConfig holds query cache configuration
type QueryConfig struct {
	Workers  int
	Capacity int
	TTL      time.Duration
}

// LoadConfig loads configuration from environment variables and .envrc file
func LoadConfig() (*Config, error) {
	// Set up Viper
	viper.SetConfigName(".envrc")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("../config")

	// Enable environment variable reading
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set default values
	setDefaults()

	// Read config file (optional, will use env vars if file doesn't exist)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, but that's okay - we'll use environment variables
	}

	config := &Config{
		API: APIConfig{
			BaseURL: strings.TrimRight(viper.GetString(APIBaseURL), "/"),
			Timeout: viper.GetDuration(HTTPTimeout),
		},
		Logging: LoggingConfig{
			Level:  viper.GetString(LogLevel),
			Format: viper.GetString(LogFormat),
		},
		Query: QueryConfig{
			Workers:  viper.GetInt(QueryWorkers),
			Capacity: viper.GetInt(QueryCapacity),
			TTL:      viper.GetDuration(CacheTTL),
		},
	}

	return config, nil
}

// setDefaults sets default values for configuration
func setDefaults() {
	// API defaults
	viper.SetDefault(APIBaseURL, "http://localhost:3000")
	viper.SetDefault(HTTPTimeout, "15s")

	// Logging defaults
	viper.SetDefault(LogLevel, "info")
	viper.SetDefault(LogFormat, "console")

	// Query cache defaults
	viper.SetDefault(QueryWorkers, 4)
	viper.SetDefault(QueryCapacity, 64)
	viper.SetDefault(CacheTTL, "30s")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("API base URL is required")
	}

	if c.API.Timeout <= 0 {
		return fmt.Errorf("HTTP timeout must be positive")
	}

	if c.Query.Workers <= 0 {
		return fmt.Errorf("query workers must be positive")
	}

	if c.Query.Capacity <= 0 {
		return fmt.Errorf("query capacity must be positive")
	}

	// The cache sweep ticker requires a positive interval
	if c.Query.TTL <= 0 {
		return fmt.Errorf("cache TTL must be positive")
	}

	return nil
}
