package common

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ShravyaChalla/fetch-rewards-assessment/constants"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Input    InputConfig
	Load     LoaderConfig
	Report   ReportConfig
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Driver           string
	DSN              string
	MaxConns         int32
	MinConns         int32
	MaxConnLifetime  time.Duration
	MaxConnIdleTime  time.Duration
	DialTimeout      time.Duration
	StatementTimeout time.Duration
	HealthTimeout    time.Duration
}

// InputConfig holds the exchange-format input files and the malformed-line policy
type InputConfig struct {
	UsersPath     string
	ReceiptsPath  string
	BrandsPath    string
	SkipMalformed bool
}

// LoaderConfig holds Schema Loader configuration
type LoaderConfig struct {
	Transactional bool
	BatchSize     int
}

// ReportConfig holds XLSX report configuration; an empty Path disables the report
type ReportConfig struct {
	Path string
}

// Supported store drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver:           strings.ToLower(getEnv("DB_DRIVER", DriverSQLite)),
			DSN:              getEnv("DB_URL", "fetch_rewards.db"),
			MaxConns:         getEnvAsInt32("DB_MAX_CONNS", 4),
			MinConns:         getEnvAsInt32("DB_MIN_CONNS", 1),
			MaxConnLifetime:  getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime:  getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:      getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
			StatementTimeout: getEnvAsDuration("DB_STATEMENT_TIMEOUT", 0),
			HealthTimeout:    getEnvAsDuration("DB_HEALTH_TIMEOUT", 2*time.Second),
		},
		Input: InputConfig{
			UsersPath:     getEnv("INPUT_USERS", constants.DefaultInputFiles[constants.CollectionUsers]),
			ReceiptsPath:  getEnv("INPUT_RECEIPTS", constants.DefaultInputFiles[constants.CollectionReceipts]),
			BrandsPath:    getEnv("INPUT_BRANDS", constants.DefaultInputFiles[constants.CollectionBrands]),
			SkipMalformed: getEnvAsBool("SKIP_MALFORMED", false),
		},
		Load: LoaderConfig{
			Transactional: getEnvAsBool("LOAD_TRANSACTIONAL", true),
			BatchSize:     getEnvAsInt("LOAD_BATCH_SIZE", 200),
		},
		Report: ReportConfig{
			Path: getEnv("REPORT_PATH", ""),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return NewAppError(CodeConfig, "DB_DRIVER must be sqlite or postgres, got "+strconv.Quote(c.Database.Driver), ErrInvalidInput)
	}
	if c.Database.DSN == "" {
		return NewAppError(CodeConfig, "DB_URL is required", ErrInvalidInput)
	}
	if c.Input.UsersPath == "" || c.Input.ReceiptsPath == "" || c.Input.BrandsPath == "" {
		return NewAppError(CodeConfig, "users, receipts and brands input paths are required", ErrInvalidInput)
	}
	if c.Load.BatchSize <= 0 {
		return NewAppError(CodeConfig, "LOAD_BATCH_SIZE must be positive", ErrInvalidInput)
	}
	return nil
}
