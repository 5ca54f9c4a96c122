package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

// Parameter store backends
const (
	BackendEnv      = "env"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendSSM      = "ssm"
)

const (
	minSecretLength = 6
	maxSecretLength = 512
)

type Config struct {
	Server   ServerConfig   `env:",prefix=SERVER_"`
	Postgres PostgresConfig `env:",prefix=POSTGRES_"`
	Redis    RedisConfig    `env:",prefix=REDIS_"`
	JWT      JWTConfig      `env:",prefix=JWT_"`
	Params   ParamsConfig   `env:",prefix=PARAMS_"`
	Security SecurityConfig `env:",prefix="`
	CORS     CORSConfig     `env:",prefix=CORS_"`
	Env      string         `env:"ENV,default=development"`
	LogLevel string         `env:"LOG_LEVEL,default=info"`
}

type ServerConfig struct {
	Port         string   `env:"PORT,default=8080"`
	Host         string   `env:"HOST,default=0.0.0.0"`
	ReadTimeout  Duration `env:"READ_TIMEOUT,default=15s"`
	WriteTimeout Duration `env:"WRITE_TIMEOUT,default=15s"`
}

type PostgresConfig struct {
	Host     string `env:"HOST,default=localhost"`
	Port     string `env:"PORT,default=5432"`
	User     string `env:"USER,default=token_authorizer"`
	Password string `env:"PASSWORD,default=token_authorizer_password"`
	DBName   string `env:"DB,default=token_authorizer_db"`
	SSLMode  string `env:"SSLMODE,default=disable"`
}

type RedisConfig struct {
	Host     string `env:"HOST,default=localhost"`
	Port     string `env:"PORT,default=6379"`
	Password string `env:"PASSWORD,default="`
	DB       int    `env:"DB,default=0"`
}

type JWTConfig struct {
	RefreshTokenExpiry Duration `env:"REFRESH_TOKEN_EXPIRY,default=7d"`
}

// ParamsConfig describes where the signing secret and access token lifetime live
type ParamsConfig struct {
	Backend         string   `env:"BACKEND,default=env"`
	SecretName      string   `env:"SECRET_NAME,default=/auth/token/secret"`
	LifetimeName    string   `env:"LIFETIME_NAME,default=/auth/token/time"`
	RefreshInterval Duration `env:"REFRESH_INTERVAL,default=5m"`
	MaxStaleness    Duration `env:"MAX_STALENESS,default=15m"`
	RetryInterval   Duration `env:"RETRY_INTERVAL,default=30s"`
	FetchTimeout    Duration `env:"FETCH_TIMEOUT,default=2s"`

	// env backend
	SecretValue   string `env:"SECRET_VALUE"`
	LifetimeValue string `env:"LIFETIME_VALUE,default=3600"`

	// redis backend
	RedisKeyPrefix string `env:"REDIS_KEY_PREFIX,default=params:"`

	// ssm backend
	AWSRegion      string `env:"AWS_REGION"`
	WithDecryption bool   `env:"SSM_WITH_DECRYPTION,default=true"`
}

type SecurityConfig struct {
	RateLimitEnabled  bool     `env:"RATE_LIMIT_ENABLED,default=false"`
	RateLimitRequests int      `env:"RATE_LIMIT_REQUESTS,default=10"`
	RateLimitWindow   Duration `env:"RATE_LIMIT_WINDOW,default=1m"`
}

type CORSConfig struct {
	AllowedOrigins []string `env:"ALLOWED_ORIGINS,default=*"`
	AllowedMethods []string `env:"ALLOWED_METHODS,default=GET,POST,OPTIONS"`
	AllowedHeaders []string `env:"ALLOWED_HEADERS,default=Content-Type,Authorization"`
}

// DSN returns PostgreSQL connection string
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.DBName, p.SSLMode)
}

// Address returns Redis connection address
func (r RedisConfig) Address() string {
	return fmt.Sprintf("%s:%s", r.Host, r.Port)
}

// NeedsRedis reports whether any component requires a Redis connection
func (c *Config) NeedsRedis() bool {
	return c.Params.Backend == BackendRedis || c.Security.RateLimitEnabled
}

// NeedsPostgres reports whether any component requires a PostgreSQL connection
func (c *Config) NeedsPostgres() bool {
	return c.Params.Backend == BackendPostgres
}

// Load loads configuration from environment variables
func Load(ctx context.Context) (*Config, error) {
	return LoadWithDefaults(ctx, nil)
}

// LoadWithDefaults loads configuration from environment variables, falling back
// to defaults for unset variables before the tag defaults apply
func LoadWithDefaults(ctx context.Context, defaults map[string]string) (*Config, error) {
	var config Config

	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &config,
		Lookuper: envconfig.MultiLookuper(envconfig.OsLookuper(), envconfig.MapLookuper(defaults)),
	}); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks values envconfig cannot express as tags
func (c *Config) Validate() error {
	switch c.Params.Backend {
	case BackendEnv:
		if n := len(c.Params.SecretValue); n < minSecretLength || n > maxSecretLength {
			return fmt.Errorf("PARAMS_SECRET_VALUE must be between %d and %d characters long", minSecretLength, maxSecretLength)
		}
	case BackendRedis, BackendPostgres, BackendSSM:
	default:
		return fmt.Errorf("unknown PARAMS_BACKEND %q", c.Params.Backend)
	}

	if c.Params.RefreshInterval.Duration <= 0 {
		return fmt.Errorf("PARAMS_REFRESH_INTERVAL must be positive")
	}

	if c.Params.MaxStaleness.Duration < c.Params.RefreshInterval.Duration {
		return fmt.Errorf("PARAMS_MAX_STALENESS must not be shorter than PARAMS_REFRESH_INTERVAL")
	}

	if c.Params.RetryInterval.Duration <= 0 {
		return fmt.Errorf("PARAMS_RETRY_INTERVAL must be positive")
	}

	if c.Params.FetchTimeout.Duration <= 0 {
		return fmt.Errorf("PARAMS_FETCH_TIMEOUT must be positive")
	}

	if c.JWT.RefreshTokenExpiry.Duration <= 0 {
		return fmt.Errorf("JWT_REFRESH_TOKEN_EXPIRY must be positive")
	}

	return nil
}
