package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables read by parseEnv.
const (
	EnvHTTPAddr          = "HTTP_ADDR"
	EnvGRPCHealthAddr    = "GRPC_HEALTH_ADDR"
	EnvDatabaseDSN       = "DATABASE_DSN"
	EnvSecretKey         = "SECRET_KEY"
	EnvSessionTTL        = "SESSION_TTL"
	EnvPasswordHashCost  = "PASSWORD_HASH_COST"
	EnvEnvironment       = "APP_ENV"
	EnvLogLevel          = "LOG_LEVEL"
	EnvTracingEnabled    = "TRACING_ENABLED"
	EnvTracingEndpoint   = "TRACING_ENDPOINT"
	EnvTracingSampleRate = "TRACING_SAMPLE_RATE"
	EnvShutdownTimeout   = "SHUTDOWN_TIMEOUT"
)

// dotenvFiles are loaded, if present, before the environment is read.
// Variables already set in the process environment are not overridden.
var dotenvFiles = []string{".env"}

// parseEnv overlays values from the process environment. Malformed numeric,
// boolean or duration values panic, like a malformed config file does.
func parseEnv(config *Config) {
	for _, f := range dotenvFiles {
		if _, err := os.Stat(f); err == nil {
			if err := godotenv.Load(f); err != nil {
				panic(err)
			}
		}
	}

	envString(EnvHTTPAddr, &config.HTTPAddr)
	envString(EnvGRPCHealthAddr, &config.GRPCHealthAddr)
	envString(EnvDatabaseDSN, &config.DatabaseDSN)
	envString(EnvSecretKey, &config.SecretKey)
	envString(EnvEnvironment, &config.Environment)
	envString(EnvLogLevel, &config.LogLevel)
	envString(EnvTracingEndpoint, &config.TracingEndpoint)

	envParsed(EnvSessionTTL, &config.SessionTTL, time.ParseDuration)
	envParsed(EnvShutdownTimeout, &config.ShutdownTimeout, time.ParseDuration)
	envParsed(EnvPasswordHashCost, &config.PasswordHashCost, strconv.Atoi)
	envParsed(EnvTracingEnabled, &config.TracingEnabled, strconv.ParseBool)
	envParsed(EnvTracingSampleRate, &config.TracingSampleRate, func(s string) (float64, error) {
		return strconv.ParseFloat(s, 64)
	})
}

func envString(name string, dst *string) {
	if v, ok := os.LookupEnv(name); ok {
		*dst = v
	}
}

func envParsed[T any](name string, dst *T, parse func(string) (T, error)) {
	v, ok := os.LookupEnv(name)
	if !ok {
		return
	}
	parsed, err := parse(v)
	if err != nil {
		panic(err)
	}
	*dst = parsed
}
