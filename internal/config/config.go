package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string

	OTLPEndpoint string

	SnowflakeNode int64

	Telemetry TelemetryConfig
	Data      DataConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	AMQP      AMQPConfig
	Scheduler SchedulerConfig

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBPath            string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
	DBConnMaxIdleTime int
}

// TelemetryConfig carries the logging and OpenTelemetry switches.
type TelemetryConfig struct {
	DeploymentEnv  string
	ServiceVersion string
	LogLevel       string
	LogFormat      string
	OtelEnabled    bool
	OtelEndpoint   string
	OtelProtocol   string
	SamplingRatio  float64
}

// DataConfig locates the JSON collections.
type DataConfig struct {
	Dir          string
	WatchEnabled bool
	SeedOnBoot   bool
}

type RedisConfig struct {
	Addr           string
	Password       string
	DB             int
	LockTTLSeconds int
}

// Enabled reports whether a redis address was configured.
func (c RedisConfig) Enabled() bool {
	return strings.TrimSpace(c.Addr) != ""
}

type RateLimitConfig struct {
	Enabled    bool
	OrderRate  float64
	OrderBurst int
}

type AMQPConfig struct {
	URL      string
	Exchange string
}

// Enabled reports whether kitchen events should be forwarded to a broker.
func (c AMQPConfig) Enabled() bool {
	return strings.TrimSpace(c.URL) != ""
}

type SchedulerConfig struct {
	Enabled         bool
	IntervalSeconds int
	Jobs            string
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		AppName:       getenv("APP_SERVICE", "pizzaria"),
		AppVersion:    getenv("APP_VERSION", "0.1.0"),
		Environment:   getenv("ENVIRONMENT", "development"),
		HTTPAddr:      getenv("HTTP_ADDR", ":8080"),
		OTLPEndpoint:  getenv("OTLP_ENDPOINT", "localhost:4317"),
		SnowflakeNode: getenvInt64("SNOWFLAKE_NODE", 1),
		Telemetry: TelemetryConfig{
			DeploymentEnv:  strings.TrimSpace(getenv("DEPLOYMENT_ENV", "")),
			ServiceVersion: strings.TrimSpace(getenv("SERVICE_VERSION", "")),
			LogLevel:       strings.ToLower(strings.TrimSpace(getenv("LOG_LEVEL", "info"))),
			LogFormat:      strings.ToLower(strings.TrimSpace(getenv("LOG_FORMAT", "json"))),
			OtelEnabled:    getenvBool("OTEL_ENABLED", false),
			OtelEndpoint:   strings.TrimSpace(getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")),
			OtelProtocol:   otlpProtocol(),
			SamplingRatio:  getenvFloat("OTEL_SAMPLING_RATIO", 0.1),
		},
		Data: DataConfig{
			Dir:          getenv("DATA_DIR", "data"),
			WatchEnabled: getenvBool("DATA_WATCH_ENABLED", true),
			SeedOnBoot:   getenvBool("DATA_SEED_ON_BOOT", true),
		},
		Redis: RedisConfig{
			Addr:           strings.TrimSpace(getenv("REDIS_ADDR", "")),
			Password:       strings.TrimSpace(getenv("REDIS_PASSWORD", "")),
			DB:             getenvInt("REDIS_DB", 0),
			LockTTLSeconds: getenvInt("STORE_LOCK_TTL_SECONDS", 10),
		},
		RateLimit: RateLimitConfig{
			Enabled:    getenvBool("ORDER_RATE_LIMIT_ENABLED", true),
			OrderRate:  getenvFloat("ORDER_RATE", 1),
			OrderBurst: getenvInt("ORDER_BURST", 5),
		},
		AMQP: AMQPConfig{
			URL:      strings.TrimSpace(getenv("AMQP_URL", "")),
			Exchange: getenv("AMQP_EXCHANGE", "kitchen_topic"),
		},
		Scheduler: SchedulerConfig{
			Enabled:         getenvBool("SCHEDULER_ENABLED", true),
			IntervalSeconds: getenvInt("SCHEDULER_INTERVAL_SECONDS", 300),
			Jobs:            getenv("SCHEDULER_JOBS", ""),
		},
		DBType:            getenv("DATABASE_TYPE", "sqlite"),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "pizzaria"),
		DBUser:            getenv("DATABASE_USER", "postgres"),
		DBPassword:        getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBPath:            getenv("DATABASE_PATH", "pizzaria.db"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 5),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 10),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 300),
		DBConnMaxIdleTime: getenvInt("DATABASE_CONN_MAX_IDLE_TIME", 60),
	}

	return cfg
}

// IsProduction reports whether the service runs with production defaults.
func (c Config) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(c.Environment), "production")
}

// otlpProtocol prefers the traces-specific protocol when both are set.
func otlpProtocol() string {
	if v := strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_TRACES_PROTOCOL")); v != "" {
		return strings.ToLower(v)
	}
	return strings.ToLower(strings.TrimSpace(getenv("OTEL_EXPORTER_OTLP_PROTOCOL", "grpc")))
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	return getenvParsed(key, def, func(v string) (bool, error) {
		switch strings.ToLower(v) {
		case "1", "true", "yes", "y", "on":
			return true, nil
		case "0", "false", "no", "n", "off":
			return false, nil
		}
		return def, strconv.ErrSyntax
	})
}

func getenvInt(key string, def int) int {
	return getenvParsed(key, def, strconv.Atoi)
}

func getenvInt64(key string, def int64) int64 {
	return getenvParsed(key, def, func(v string) (int64, error) {
		return strconv.ParseInt(v, 10, 64)
	})
}

func getenvFloat(key string, def float64) float64 {
	return getenvParsed(key, def, func(v string) (float64, error) {
		return strconv.ParseFloat(v, 64)
	})
}

// getenvParsed falls back to def when key is unset or does not parse.
func getenvParsed[T any](key string, def T, parse func(string) (T, error)) T {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := parse(raw)
	if err != nil {
		return def
	}
	return v
}
