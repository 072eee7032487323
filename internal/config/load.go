package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every configuration key when read from the environment,
// e.g. server.port is read from BOOKSAAS_SERVER_PORT.
const EnvPrefix = "BOOKSAAS"

// legacyEnv lists the unprefixed variable names of the original deployment.
// They are consulted after the prefixed name.
var legacyEnv = map[string]string{
	"server.port":               "PORT",
	"server.environment":        "NODE_ENV",
	"server.frontend_url":       "FRONTEND_URL",
	"supabase.url":              "SUPABASE_URL",
	"supabase.service_role_key": "SUPABASE_SERVICE_ROLE_KEY",
	"supabase.anon_key":         "SUPABASE_ANON_KEY",
	"auth.jwt_secret":           "JWT_SECRET",
	"database.url":              "DATABASE_URL",
	"redis.url":                 "REDIS_URL",
}

// defaults holds every known key; keys without a meaningful default map to their zero value
// so that environment bindings are registered for them as well.
var defaults = map[string]any{
	"server.port":                 3001,
	"server.log_level":            "info",
	"server.environment":          EnvironmentProduction,
	"server.frontend_url":         "http://localhost:3000",
	"server.rate_limit_requests":  100,
	"server.rate_limit_window":    15 * time.Minute,
	"server.max_body_bytes":       int64(10 << 20),
	"server.shutdown_timeout":     10 * time.Second,
	"supabase.url":                "",
	"supabase.service_role_key":   "",
	"supabase.anon_key":           "",
	"supabase.request_timeout":    30 * time.Second,
	"auth.jwt_secret":             "",
	"auth.token_lifetime_minutes": 60,
	"auth.password_scheme":        PasswordSchemePlaintext,
	"auth.verify_cache_ttl":       time.Duration(0),
	"database.driver":             DriverREST,
	"database.url":                "",
	"redis.url":                   "",
}

// Load configuration from environment variables and optionally a config.yaml file
// in the working directory. Environment variables take precedence over values from
// the config file. Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	// Set default values
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	// Configure to read from config files
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Configure to read from environment variables with the BOOKSAAS_ prefix
	replacer := strings.NewReplacer(".", "_")
	for key := range defaults {
		names := []string{EnvPrefix + "_" + strings.ToUpper(replacer.Replace(key))}
		if legacy, ok := legacyEnv[key]; ok {
			names = append(names, legacy)
		}
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return nil, fmt.Errorf("failed to bind environment for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}
