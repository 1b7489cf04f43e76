package observability

import (
	"strings"

	"github.com/smallbiznis/pizzaria/internal/config"
)

// Config is the resolved telemetry setup shared by the logger, tracer and
// metric providers.
type Config struct {
	ServiceName string
	Environment string
	Version     string

	LogLevel  string
	LogFormat string

	OtelEnabled          bool
	OtelExporterEndpoint string
	OtelExporterProtocol string
	OtelSamplingRatio    float64
}

// LoadConfig resolves telemetry settings, falling back to the app identity
// when the telemetry-specific values are unset.
func LoadConfig(cfg config.Config) Config {
	tel := cfg.Telemetry

	out := Config{
		ServiceName:          firstNonEmpty(cfg.AppName, "pizzaria"),
		Environment:          firstNonEmpty(tel.DeploymentEnv, cfg.Environment),
		Version:              firstNonEmpty(tel.ServiceVersion, cfg.AppVersion),
		LogLevel:             firstNonEmpty(tel.LogLevel, "info"),
		LogFormat:            firstNonEmpty(tel.LogFormat, "json"),
		OtelEnabled:          tel.OtelEnabled,
		OtelExporterEndpoint: firstNonEmpty(tel.OtelEndpoint, cfg.OTLPEndpoint),
		OtelExporterProtocol: firstNonEmpty(tel.OtelProtocol, "grpc"),
		OtelSamplingRatio:    tel.SamplingRatio,
	}
	if out.OtelSamplingRatio < 0 || out.OtelSamplingRatio > 1 {
		out.OtelSamplingRatio = 0.1
	}
	return out
}

// Debug turns on verbose request logging for debug level and dev deployments.
func (c Config) Debug() bool {
	if c.LogLevel == "debug" {
		return true
	}
	switch strings.ToLower(strings.TrimSpace(c.Environment)) {
	case "dev", "development", "local", "test":
		return true
	}
	return false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
