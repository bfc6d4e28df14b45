package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port              string
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Backend selection
	DataBackend string

	// Database
	SQLiteDBPath string

	// AMQP (optional; empty URL disables event publication)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Report service
	GeminiAPIKey  string
	GeminiModel   string
	ReportTimeout time.Duration

	// Tuition worker
	TuitionGenerationDay int
	TuitionCheckInterval time.Duration
}

func Load() *Config {
	return &Config{
		Port:              getEnv("PORT", "8082"),
		RateLimitRequests: getEnvInt("RATE_LIMIT_REQUESTS", 60),
		RateLimitWindow:   getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),

		DataBackend:  getEnv("DATA_BACKEND", "memory"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/escolar.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "escolar"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "ledger_events"),

		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		GeminiModel:   getEnv("GEMINI_MODEL", ""),
		ReportTimeout: getEnvDuration("REPORT_TIMEOUT", 30*time.Second),

		TuitionGenerationDay: getEnvInt("TUITION_GENERATION_DAY", 1),
		TuitionCheckInterval: getEnvDuration("TUITION_CHECK_INTERVAL", time.Hour),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.RateLimitRequests < 1 || c.RateLimitRequests > 100000 {
		errs = append(errs, fmt.Sprintf("invalid rate limit %d: must be between 1 and 100000 requests", c.RateLimitRequests))
	}

	if c.RateLimitWindow < time.Second {
		errs = append(errs, fmt.Sprintf("invalid rate limit window %v: must be at least 1 second", c.RateLimitWindow))
	} else if c.RateLimitWindow > time.Hour {
		errs = append(errs, fmt.Sprintf("invalid rate limit window %v: must be at most 1 hour", c.RateLimitWindow))
	}

	validBackends := []string{"memory", "sqlite"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errs = append(errs, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	if c.DataBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errs = append(errs, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errs = append(errs, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errs = append(errs, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errs = append(errs, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.ReportTimeout < time.Second {
		errs = append(errs, fmt.Sprintf("invalid report timeout %v: must be at least 1 second", c.ReportTimeout))
	} else if c.ReportTimeout > 5*time.Minute {
		errs = append(errs, fmt.Sprintf("invalid report timeout %v: must be at most 5 minutes", c.ReportTimeout))
	}

	if c.TuitionGenerationDay < 1 || c.TuitionGenerationDay > 28 {
		errs = append(errs, fmt.Sprintf("invalid tuition generation day %d: must be between 1 and 28", c.TuitionGenerationDay))
	}

	if c.TuitionCheckInterval < time.Minute {
		errs = append(errs, fmt.Sprintf("invalid tuition check interval %v: must be at least 1 minute", c.TuitionCheckInterval))
	} else if c.TuitionCheckInterval > 24*time.Hour {
		errs = append(errs, fmt.Sprintf("invalid tuition check interval %v: must be at most 24 hours", c.TuitionCheckInterval))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
