package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are searched in order when CONFIG_PATH is unset.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/beaches/config.yaml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:              ":8080",
			Timezone:          "America/Puerto_Rico",
			AllowedOrigins:    []string{"*"},
			RateLimitRequests: 120,
			RateLimitWindow:   time.Minute,
			RequestTimeout:    5 * time.Second,
			ShutdownTimeout:   10 * time.Second,
		},
		Datastore: DatastoreConfig{
			Driver:           DriverSQLite,
			MongoURI:         "mongodb://mongo:27017",
			MongoDatabase:    "beaches",
			BeachCollection:  "beaches",
			ReviewCollection: "reviews",
			ConnectTimeout:   10 * time.Second,
			SQLitePath:       "beaches.db",
		},
		Redis: RedisConfig{
			Addr: "redis:6379",
		},
		Weather: WeatherConfig{
			Enabled:      true,
			BaseURL:      "https://api.open-meteo.com",
			Timeout:      4 * time.Second,
			CacheTTL:     15 * time.Minute,
			ForecastDays: 3,
		},
		Mailer: MailerConfig{
			From:       "beaches@example.com",
			Timeout:    3 * time.Second,
			Attempts:   3,
			RetryDelay: 200 * time.Millisecond,
		},
		Auth: AuthConfig{
			JWTIssuer:      "beaches-auth",
			AdminJWTIssuer: "beaches-admin",
		},
		Discovery: DiscoveryConfig{
			ListCap:         20,
			MapCap:          500,
			MaxCrowdHorizon: 12,
		},
		Leads: LeadsConfig{
			PerRequester: 5,
			PerEmail:     3,
			Window:       10 * time.Minute,
			MaxBeaches:   20,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds the configuration: defaults, then the config file if one exists, then env.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if path := os.Getenv(ConfigPathEnvVar); path != "" {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

var sliceConfigPaths = []string{
	"server.allowed_origins",
	"auth.admin_subjects",
}

// processSliceFields splits comma-separated env values for slice settings.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		raw, ok := k.Get(path).(string)
		if !ok {
			continue
		}
		parts := strings.Split(raw, ",")
		values := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				values = append(values, p)
			}
		}
		if err := k.Set(path, values); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps flat environment names to config paths. Unlisted variables are ignored.
var envMappings = map[string]string{
	"http_addr":                "server.addr",
	"timezone":                 "server.timezone",
	"api_allowed_origins":      "server.allowed_origins",
	"api_rate_limit_requests":  "server.rate_limit_requests",
	"api_rate_limit_window":    "server.rate_limit_window",
	"request_timeout":          "server.request_timeout",
	"shutdown_timeout":         "server.shutdown_timeout",
	"datastore_driver":         "datastore.driver",
	"mongo_uri":                "datastore.mongo_uri",
	"mongo_db":                 "datastore.mongo_database",
	"beach_collection":         "datastore.beach_collection",
	"review_collection":        "datastore.review_collection",
	"mongo_connect_timeout":    "datastore.connect_timeout",
	"sqlite_path":              "datastore.sqlite_path",
	"postgres_dsn":             "datastore.postgres_dsn",
	"database_url":             "datastore.postgres_dsn",
	"redis_enabled":            "redis.enabled",
	"redis_addr":               "redis.addr",
	"redis_password":           "redis.password",
	"redis_db":                 "redis.db",
	"weather_enabled":          "weather.enabled",
	"weather_base_url":         "weather.base_url",
	"weather_timeout":          "weather.timeout",
	"weather_cache_ttl":        "weather.cache_ttl",
	"weather_forecast_days":    "weather.forecast_days",
	"mail_gateway_url":         "mailer.endpoint",
	"mail_from":                "mailer.from",
	"mail_gateway_api_key":     "mailer.api_key",
	"mail_gateway_timeout":     "mailer.timeout",
	"mail_gateway_attempts":    "mailer.attempts",
	"mail_gateway_retry_delay": "mailer.retry_delay",
	"auth_jwt_issuer":          "auth.jwt_issuer",
	"auth_jwt_secret":          "auth.jwt_secret",
	"auth_admin_jwt_issuer":    "auth.admin_jwt_issuer",
	"auth_admin_jwt_secret":    "auth.admin_jwt_secret",
	"auth_jwt_audience":        "auth.audience",
	"admin_subjects":           "auth.admin_subjects",
	"discovery_list_cap":       "discovery.list_cap",
	"discovery_map_cap":        "discovery.map_cap",
	"discovery_crowd_horizon":  "discovery.max_crowd_horizon",
	"lead_limit_per_requester": "leads.per_requester",
	"lead_limit_per_email":     "leads.per_email",
	"lead_limit_window":        "leads.window",
	"lead_max_beaches":         "leads.max_beaches",
	"log_level":                "logging.level",
	"log_format":               "logging.format",
	"log_caller":               "logging.caller",
}

// envTransformFunc returns "" for unknown variables so the provider skips them.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
