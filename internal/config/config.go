package config

import "time"

// Environment names accepted by ServerConfig.Environment.
const (
	EnvironmentDevelopment = "development"
	EnvironmentProduction  = "production"
)

// Store drivers accepted by DatabaseConfig.Driver.
const (
	DriverREST     = "rest"
	DriverPostgres = "postgres"
)

// Password comparison schemes accepted by AuthConfig.PasswordScheme.
const (
	PasswordSchemePlaintext = "plaintext"
	PasswordSchemeBcrypt    = "bcrypt"
)

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Supabase SupabaseConfig `mapstructure:"supabase" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port              int           `mapstructure:"port"                validate:"required,gt=0,lt=65536"`
	LogLevel          string        `mapstructure:"log_level"           validate:"required,oneof=debug info warn error"`
	Environment       string        `mapstructure:"environment"         validate:"required,oneof=development production"`
	FrontendURL       string        `mapstructure:"frontend_url"        validate:"required,url"`
	RateLimitRequests int           `mapstructure:"rate_limit_requests" validate:"gte=0"`
	RateLimitWindow   time.Duration `mapstructure:"rate_limit_window"   validate:"gte=0"`
	MaxBodyBytes      int64         `mapstructure:"max_body_bytes"      validate:"gt=0"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"    validate:"gt=0"`
}

// IsDevelopment reports whether the server runs in development mode.
// Development mode is the only mode in which error responses carry a stack.
func (c ServerConfig) IsDevelopment() bool {
	return c.Environment == EnvironmentDevelopment
}

// SupabaseConfig holds the External Service endpoint and its two credentials.
type SupabaseConfig struct {
	URL            string        `mapstructure:"url"              validate:"required,url"`
	ServiceRoleKey string        `mapstructure:"service_role_key" validate:"required"`
	AnonKey        string        `mapstructure:"anon_key"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"  validate:"gte=0"`
}

// UnprivilegedKey returns the anon key, or the service key when no anon key is set.
func (c SupabaseConfig) UnprivilegedKey() string {
	if c.AnonKey == "" {
		return c.ServiceRoleKey
	}
	return c.AnonKey
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	// JWTSecret signs the tokens issued by the username sign-in route.
	JWTSecret            string        `mapstructure:"jwt_secret"`
	TokenLifetimeMinutes int           `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
	PasswordScheme       string        `mapstructure:"password_scheme"        validate:"required,oneof=plaintext bcrypt"`
	VerifyCacheTTL       time.Duration `mapstructure:"verify_cache_ttl"       validate:"gte=0"`
}

// DatabaseConfig selects how data operations reach the managed Postgres.
type DatabaseConfig struct {
	Driver string `mapstructure:"driver" validate:"required,oneof=rest postgres"`
	URL    string `mapstructure:"url"    validate:"required_if=Driver postgres"`
}

// RedisConfig points at the optional identity cache backend.
type RedisConfig struct {
	URL string `mapstructure:"url" validate:"omitempty,url"`
}
