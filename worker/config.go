package worker

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds configuration for a scoring run
type Config struct {
	LogLevel          string        `yaml:"log_level"`
	LogFormat         string        `yaml:"log_format"`
	Workers           int           `yaml:"workers"`
	CacheSize         int           `yaml:"cache_size"`
	ComplexityPenalty float64       `yaml:"complexity_penalty"`
	EvalTimeout       time.Duration `yaml:"eval_timeout"`
	JaegerEndpoint    string        `yaml:"jaeger_endpoint"`
	ServiceName       string        `yaml:"service_name"`
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	config := &Config{
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFormat:         getEnv("LOG_FORMAT", "json"),
		Workers:           getEnvInt("WORKERS", 0),
		CacheSize:         getEnvInt("CACHE_SIZE", 10000),
		ComplexityPenalty: getEnvFloat("COMPLEXITY_PENALTY", 0.0),
		EvalTimeout:       getEnvDuration("EVAL_TIMEOUT", "5m"),
		JaegerEndpoint:    getEnv("JAEGER_ENDPOINT", ""),
		ServiceName:       getEnv("SERVICE_NAME", "featsel"),
	}

	return config
}

// LoadConfigFile overlays the YAML file at path onto the environment
// configuration. A missing file leaves the environment values in place. The
// result is validated whichever source it came from.
func LoadConfigFile(path string) (*Config, error) {
	config := LoadConfig()
	if err := overlayFile(config, path); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func overlayFile(config *Config, path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse YAML config: %w", err)
	}
	return nil
}

// Validate rejects settings no run can use.
func (c *Config) Validate() error {
	if c.CacheSize < 0 {
		return fmt.Errorf("cache_size must be non-negative, got %d", c.CacheSize)
	}
	if c.ComplexityPenalty < 0 {
		return fmt.Errorf("complexity_penalty must be non-negative, got %g", c.ComplexityPenalty)
	}
	if c.EvalTimeout < 0 {
		return fmt.Errorf("eval_timeout must be non-negative, got %s", c.EvalTimeout)
	}
	return nil
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvFloat gets a float environment variable with a default value
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvDuration gets a duration environment variable with a default value
func getEnvDuration(key, defaultValue string) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
