// Package config loads layered runtime configuration: struct defaults, then an optional YAML
// file, then environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"
)

// Datastore drivers.
const (
	DriverMongo    = "mongo"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// JWTConfig defines issuer/secret pair for auth verification.
type JWTConfig struct {
	Issuer string
	Secret []byte
}

// Config holds runtime configuration shared across the application.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Datastore DatastoreConfig `koanf:"datastore"`
	Redis     RedisConfig     `koanf:"redis"`
	Weather   WeatherConfig   `koanf:"weather"`
	Mailer    MailerConfig    `koanf:"mailer"`
	Auth      AuthConfig      `koanf:"auth"`
	Discovery DiscoveryConfig `koanf:"discovery"`
	Leads     LeadsConfig     `koanf:"leads"`
	Logging   LoggingConfig   `koanf:"logging"`
}

type ServerConfig struct {
	Addr              string        `koanf:"addr"`
	Timezone          string        `koanf:"timezone"`
	AllowedOrigins    []string      `koanf:"allowed_origins"`
	RateLimitRequests int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RequestTimeout    time.Duration `koanf:"request_timeout"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout"`
}

type DatastoreConfig struct {
	Driver           string        `koanf:"driver"`
	MongoURI         string        `koanf:"mongo_uri"`
	MongoDatabase    string        `koanf:"mongo_database"`
	BeachCollection  string        `koanf:"beach_collection"`
	ReviewCollection string        `koanf:"review_collection"`
	ConnectTimeout   time.Duration `koanf:"connect_timeout"`
	SQLitePath       string        `koanf:"sqlite_path"`
	PostgresDSN      string        `koanf:"postgres_dsn"`
}

type RedisConfig struct {
	Enabled  bool   `koanf:"enabled"`
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

type WeatherConfig struct {
	Enabled      bool          `koanf:"enabled"`
	BaseURL      string        `koanf:"base_url"`
	Timeout      time.Duration `koanf:"timeout"`
	CacheTTL     time.Duration `koanf:"cache_ttl"`
	ForecastDays int           `koanf:"forecast_days"`
}

type MailerConfig struct {
	Endpoint   string        `koanf:"endpoint"`
	From       string        `koanf:"from"`
	APIKey     string        `koanf:"api_key"`
	Timeout    time.Duration `koanf:"timeout"`
	Attempts   int           `koanf:"attempts"`
	RetryDelay time.Duration `koanf:"retry_delay"`
}

// AuthConfig accepts tokens from the visitor sign-in service and the admin console. Admin
// routes additionally require the token subject to be listed in AdminSubjects.
type AuthConfig struct {
	JWTIssuer      string   `koanf:"jwt_issuer"`
	JWTSecret      string   `koanf:"jwt_secret"`
	AdminJWTIssuer string   `koanf:"admin_jwt_issuer"`
	AdminJWTSecret string   `koanf:"admin_jwt_secret"`
	Audience       string   `koanf:"audience"`
	AdminSubjects  []string `koanf:"admin_subjects"`
}

type DiscoveryConfig struct {
	ListCap         int `koanf:"list_cap"`
	MapCap          int `koanf:"map_cap"`
	MaxCrowdHorizon int `koanf:"max_crowd_horizon"`
}

type LeadsConfig struct {
	PerRequester int           `koanf:"per_requester"`
	PerEmail     int           `koanf:"per_email"`
	Window       time.Duration `koanf:"window"`
	MaxBeaches   int           `koanf:"max_beaches"`
}

type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// JWTConfigs returns every configured issuer/secret pair.
func (a AuthConfig) JWTConfigs() []JWTConfig {
	var configs []JWTConfig
	if secret := strings.TrimSpace(a.JWTSecret); secret != "" {
		configs = append(configs, JWTConfig{Issuer: a.JWTIssuer, Secret: []byte(secret)})
	}
	if secret := strings.TrimSpace(a.AdminJWTSecret); secret != "" {
		configs = append(configs, JWTConfig{Issuer: a.AdminJWTIssuer, Secret: []byte(secret)})
	}
	return configs
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	switch c.Datastore.Driver {
	case DriverMongo:
		if strings.TrimSpace(c.Datastore.MongoURI) == "" {
			errs = append(errs, errors.New("datastore.mongo_uri is required for the mongo driver"))
		}
		if strings.TrimSpace(c.Datastore.MongoDatabase) == "" {
			errs = append(errs, errors.New("datastore.mongo_database is required for the mongo driver"))
		}
	case DriverSQLite:
		if strings.TrimSpace(c.Datastore.SQLitePath) == "" {
			errs = append(errs, errors.New("datastore.sqlite_path is required for the sqlite driver"))
		}
	case DriverPostgres:
		if strings.TrimSpace(c.Datastore.PostgresDSN) == "" {
			errs = append(errs, errors.New("datastore.postgres_dsn is required for the postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("datastore.driver %q must be one of mongo, sqlite, postgres", c.Datastore.Driver))
	}

	if c.Discovery.ListCap <= 0 || c.Discovery.MapCap <= 0 {
		errs = append(errs, errors.New("discovery caps must be positive"))
	}
	if c.Discovery.MaxCrowdHorizon < 0 {
		errs = append(errs, errors.New("discovery.max_crowd_horizon must not be negative"))
	}
	if c.Leads.PerRequester <= 0 || c.Leads.PerEmail <= 0 || c.Leads.Window <= 0 {
		errs = append(errs, errors.New("lead limits and window must be positive"))
	}
	if c.Redis.Enabled && strings.TrimSpace(c.Redis.Addr) == "" {
		errs = append(errs, errors.New("redis.addr is required when redis is enabled"))
	}
	if len(c.Auth.AdminSubjects) > 0 && len(c.Auth.JWTConfigs()) == 0 {
		errs = append(errs, errors.New("admin subjects are configured but no JWT secret is set"))
	}
	if _, err := time.LoadLocation(c.Server.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("server.timezone: %w", err))
	}

	return errors.Join(errs...)
}
