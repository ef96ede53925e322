package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/sailblog/internal/flagx"
	"github.com/dmitrijs2005/sailblog/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations may
// be written as "1h" or as integer nanoseconds. Pointer fields distinguish
// "absent" from "zero" so a partial file only overrides what it names.
type JsonConfig struct {
	HTTPAddr          *string         `json:"http_addr"`
	GRPCHealthAddr    *string         `json:"grpc_health_addr"`
	DatabaseDSN       *string         `json:"database_dsn"`
	SecretKey         *string         `json:"secret_key"`
	SessionTTL        *timex.Duration `json:"session_ttl"`
	PasswordHashCost  *int            `json:"password_hash_cost"`
	Environment       *string         `json:"environment"`
	LogLevel          *string         `json:"log_level"`
	TracingEnabled    *bool           `json:"tracing_enabled"`
	TracingEndpoint   *string         `json:"tracing_endpoint"`
	TracingSampleRate *float64        `json:"tracing_sample_rate"`
	ShutdownTimeout   *timex.Duration `json:"shutdown_timeout"`
}

// parseJson overlays values from the file named by -c/-config, if any.
// An unreadable file or invalid JSON is a startup error and panics.
func parseJson(config *Config, args []string) {
	jsonConfigFile := flagx.ConfigFileFlag(args)
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setIf(&config.HTTPAddr, c.HTTPAddr)
	setIf(&config.GRPCHealthAddr, c.GRPCHealthAddr)
	setIf(&config.DatabaseDSN, c.DatabaseDSN)
	setIf(&config.SecretKey, c.SecretKey)
	setIf(&config.PasswordHashCost, c.PasswordHashCost)
	setIf(&config.Environment, c.Environment)
	setIf(&config.LogLevel, c.LogLevel)
	setIf(&config.TracingEnabled, c.TracingEnabled)
	setIf(&config.TracingEndpoint, c.TracingEndpoint)
	setIf(&config.TracingSampleRate, c.TracingSampleRate)

	if c.SessionTTL != nil {
		config.SessionTTL = c.SessionTTL.Duration
	}
	if c.ShutdownTimeout != nil {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
