package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Record source drivers
const (
	DriverFixtures = "fixtures"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverS3       = "s3"
	DriverDynamoDB = "dynamodb"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string
	Environment   string

	// Record source
	SourceDriver string
	SQLitePath   string
	PostgresDSN  string

	// AWS configuration
	AWSRegion      string
	DynamoDBTable  string
	S3Bucket       string
	S3Prefix       string
	S3Endpoint     string
	S3PathStyle    bool
	SeedFromBundle bool

	// Redis read-through cache, disabled when RedisAddrs is empty
	RedisAddrs []string
	RedisTTL   time.Duration

	// Circuit breaker around remote sources
	BreakerTimeout     time.Duration
	BreakerMinRequests int

	// Lambda configuration
	IsLambda           bool
	LambdaFunctionName string

	// Logging
	LogLevel string

	// Authentication
	JWTSecret          string
	JWTIssuer          string
	RateLimitPerMinute int

	// CORS
	CORSOrigins []string

	// Listing settings file, optional
	SettingsPath string

	// Query result cache
	QueryCacheTTL time.Duration

	// Feature flags
	EnableMetrics bool
	EnableTracing bool
	EnableCORS    bool
	WatchSettings bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),

		SourceDriver: strings.ToLower(getEnv("RECORD_SOURCE", DriverFixtures)),
		SQLitePath:   getEnv("SQLITE_PATH", "data/ifn.db"),
		PostgresDSN:  getEnv("POSTGRES_DSN", ""),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		DynamoDBTable:  getEnv("TABLE_NAME", getEnv("DYNAMODB_TABLE", "ifn-records")),
		S3Bucket:       getEnv("S3_BUCKET", ""),
		S3Prefix:       getEnv("S3_PREFIX", "collections"),
		S3Endpoint:     getEnv("S3_ENDPOINT", ""),
		S3PathStyle:    getEnvBool("S3_PATH_STYLE", false),
		SeedFromBundle: getEnvBool("SEED_FROM_BUNDLE", false),

		RedisAddrs: splitList(getEnv("REDIS_ADDRS", "")),
		RedisTTL:   getEnvDuration("REDIS_TTL", 5*time.Minute),

		BreakerTimeout:     getEnvDuration("BREAKER_TIMEOUT", 30*time.Second),
		BreakerMinRequests: getEnvInt("BREAKER_MIN_REQUESTS", 5),

		IsLambda:           getEnvBool("IS_LAMBDA", os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != ""),
		LambdaFunctionName: getEnv("AWS_LAMBDA_FUNCTION_NAME", ""),

		JWTSecret:          getEnv("JWT_SECRET", ""),
		JWTIssuer:          getEnv("JWT_ISSUER", "ifn-backend"),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 300),

		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),

		SettingsPath:  getEnv("LISTING_SETTINGS", ""),
		QueryCacheTTL: getEnvDuration("QUERY_CACHE_TTL", time.Minute),

		LogLevel:      getEnv("LOG_LEVEL", "info"),
		EnableMetrics: getEnvBool("ENABLE_METRICS", true),
		EnableTracing: getEnvBool("ENABLE_TRACING", false),
		EnableCORS:    getEnvBool("ENABLE_CORS", true),
		WatchSettings: getEnvBool("WATCH_SETTINGS", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	switch c.SourceDriver {
	case DriverFixtures, DriverSQLite:
	case DriverPostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("POSTGRES_DSN is required for the postgres record source")
		}
	case DriverS3:
		if c.S3Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required for the s3 record source")
		}
	case DriverDynamoDB:
		if c.DynamoDBTable == "" {
			return fmt.Errorf("DYNAMODB_TABLE is required for the dynamodb record source")
		}
	default:
		return fmt.Errorf("unknown RECORD_SOURCE %q", c.SourceDriver)
	}

	if c.Environment == "production" {
		if c.JWTSecret == "" && !c.IsLambda {
			return fmt.Errorf("JWT_SECRET is required in production outside Lambda")
		}
		if c.SourceDriver == DriverFixtures {
			return fmt.Errorf("the fixtures record source is not allowed in production")
		}
	}

	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// IsRemoteSource reports whether records come over the network
func (c *Config) IsRemoteSource() bool {
	switch c.SourceDriver {
	case DriverPostgres, DriverS3, DriverDynamoDB:
		return true
	default:
		return false
	}
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
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

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
