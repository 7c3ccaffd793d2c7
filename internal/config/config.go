package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App      AppConfig
	Server   ServerConfig
	DB       DBConfig
	S3       S3Config
	Redis    RedisConfig
	Webhook  WebhookConfig
	Dispatch DispatchConfig
	CORS     CORSConfig
}

// AppConfig identifies the running service.
type AppConfig struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port             string        `mapstructure:"port"`
	ReadTimeout      time.Duration `mapstructure:"read_timeout"`
	WriteTimeout     time.Duration `mapstructure:"write_timeout"`
	Environment      string        `mapstructure:"environment"`
	MaxUploadMB      int64         `mapstructure:"max_upload_mb"`
	AllowedMIMETypes []string      `mapstructure:"allowed_mime_types"`
}

// MaxUploadBytes returns the upload limit in bytes.
func (s *ServerConfig) MaxUploadBytes() int64 {
	return s.MaxUploadMB << 20
}

// DBConfig holds PostgreSQL connection settings. With Enabled false the
// server runs without persistence and every request behaves as a dry run.
type DBConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// S3Config holds the envelope archive bucket settings.
type S3Config struct {
	Enabled   bool   `mapstructure:"enabled"`
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Prefix    string `mapstructure:"prefix"`
}

// RedisConfig holds the enterprise stream settings. An empty URL disables it.
type RedisConfig struct {
	URL    string `mapstructure:"url"`
	Stream string `mapstructure:"stream"`
	MaxLen int64  `mapstructure:"max_len"`
}

// WebhookConfig holds the custom pipeline webhook settings. An empty URL disables it.
type WebhookConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
	Secret  string        `mapstructure:"secret"`
}

// DispatchConfig holds outbox worker settings.
type DispatchConfig struct {
	PollIntervalSecs int `mapstructure:"poll_interval_secs"`
	BatchSize        int `mapstructure:"batch_size"`
	Concurrency      int `mapstructure:"concurrency"`
	MaxAttempts      int `mapstructure:"max_attempts"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Load reads configuration from environment variables with the RPAETL_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("RPAETL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("app.name", "rpa-etl")
	v.SetDefault("app.version", "1.0.0")

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.max_upload_mb", 10)
	v.SetDefault("server.allowed_mime_types", "application/pdf,application/x-pdf")

	// DB defaults
	v.SetDefault("db.enabled", true)
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "rpaetl")
	v.SetDefault("db.password", "rpaetl_secret")
	v.SetDefault("db.name", "rpaetl_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// S3 defaults
	v.SetDefault("s3.enabled", false)
	v.SetDefault("s3.region", "sa-east-1")
	v.SetDefault("s3.bucket", "rpaetl-envelopes")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.prefix", "envelopes")

	// Downstream defaults
	v.SetDefault("redis.url", "")
	v.SetDefault("redis.stream", "fiscal.extraction.completed")
	v.SetDefault("redis.max_len", 100000)
	v.SetDefault("webhook.url", "")
	v.SetDefault("webhook.timeout", "10s")

	// Dispatch defaults
	v.SetDefault("dispatch.poll_interval_secs", 5)
	v.SetDefault("dispatch.batch_size", 20)
	v.SetDefault("dispatch.concurrency", 4)
	v.SetDefault("dispatch.max_attempts", 5)

	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"app.name":                    "RPAETL_APP_NAME",
		"app.version":                 "RPAETL_APP_VERSION",
		"server.port":                 "RPAETL_SERVER_PORT",
		"server.read_timeout":         "RPAETL_SERVER_READ_TIMEOUT",
		"server.write_timeout":        "RPAETL_SERVER_WRITE_TIMEOUT",
		"server.environment":          "RPAETL_SERVER_ENVIRONMENT",
		"server.max_upload_mb":        "RPAETL_SERVER_MAX_UPLOAD_MB",
		"server.allowed_mime_types":   "RPAETL_SERVER_ALLOWED_MIME_TYPES",
		"db.enabled":                  "RPAETL_DB_ENABLED",
		"db.host":                     "RPAETL_DB_HOST",
		"db.port":                     "RPAETL_DB_PORT",
		"db.user":                     "RPAETL_DB_USER",
		"db.password":                 "RPAETL_DB_PASSWORD",
		"db.name":                     "RPAETL_DB_NAME",
		"db.sslmode":                  "RPAETL_DB_SSLMODE",
		"db.max_open":                 "RPAETL_DB_MAX_OPEN",
		"db.max_idle":                 "RPAETL_DB_MAX_IDLE",
		"s3.enabled":                  "RPAETL_S3_ENABLED",
		"s3.region":                   "RPAETL_S3_REGION",
		"s3.bucket":                   "RPAETL_S3_BUCKET",
		"s3.endpoint":                 "RPAETL_S3_ENDPOINT",
		"s3.access_key":               "RPAETL_S3_ACCESS_KEY",
		"s3.secret_key":               "RPAETL_S3_SECRET_KEY",
		"s3.prefix":                   "RPAETL_S3_PREFIX",
		"redis.url":                   "RPAETL_REDIS_URL",
		"redis.stream":                "RPAETL_REDIS_STREAM",
		"redis.max_len":               "RPAETL_REDIS_MAX_LEN",
		"webhook.url":                 "RPAETL_WEBHOOK_URL",
		"webhook.timeout":             "RPAETL_WEBHOOK_TIMEOUT",
		"webhook.secret":              "RPAETL_WEBHOOK_SECRET",
		"dispatch.poll_interval_secs": "RPAETL_DISPATCH_POLL_INTERVAL_SECS",
		"dispatch.batch_size":         "RPAETL_DISPATCH_BATCH_SIZE",
		"dispatch.concurrency":        "RPAETL_DISPATCH_CONCURRENCY",
		"dispatch.max_attempts":       "RPAETL_DISPATCH_MAX_ATTEMPTS",
		"cors.allowed_origins":        "RPAETL_CORS_ALLOWED_ORIGINS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Platforms like Railway set PORT. Use it if RPAETL_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("RPAETL_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.App = AppConfig{
		Name:    v.GetString("app.name"),
		Version: v.GetString("app.version"),
	}
	cfg.Server = ServerConfig{
		Port:             serverPort,
		ReadTimeout:      v.GetDuration("server.read_timeout"),
		WriteTimeout:     v.GetDuration("server.write_timeout"),
		Environment:      v.GetString("server.environment"),
		MaxUploadMB:      v.GetInt64("server.max_upload_mb"),
		AllowedMIMETypes: splitList(v.GetString("server.allowed_mime_types")),
	}
	cfg.DB = DBConfig{
		Enabled:  v.GetBool("db.enabled"),
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.S3 = S3Config{
		Enabled:   v.GetBool("s3.enabled"),
		Region:    v.GetString("s3.region"),
		Bucket:    v.GetString("s3.bucket"),
		Endpoint:  v.GetString("s3.endpoint"),
		AccessKey: v.GetString("s3.access_key"),
		SecretKey: v.GetString("s3.secret_key"),
		Prefix:    v.GetString("s3.prefix"),
	}
	cfg.Redis = RedisConfig{
		URL:    v.GetString("redis.url"),
		Stream: v.GetString("redis.stream"),
		MaxLen: v.GetInt64("redis.max_len"),
	}
	cfg.Webhook = WebhookConfig{
		URL:     v.GetString("webhook.url"),
		Timeout: v.GetDuration("webhook.timeout"),
		Secret:  v.GetString("webhook.secret"),
	}
	cfg.Dispatch = DispatchConfig{
		PollIntervalSecs: v.GetInt("dispatch.poll_interval_secs"),
		BatchSize:        v.GetInt("dispatch.batch_size"),
		Concurrency:      v.GetInt("dispatch.concurrency"),
		MaxAttempts:      v.GetInt("dispatch.max_attempts"),
	}

	cfg.CORS = CORSConfig{
		AllowedOrigins: splitList(v.GetString("cors.allowed_origins")),
	}

	return cfg, nil
}

// splitList parses a comma-separated setting.
func splitList(raw string) []string {
	var out []string
	for _, s := range strings.Split(raw, ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
